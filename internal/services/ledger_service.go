package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"budget/internal/calendar"
	"budget/internal/db"
	"budget/internal/models"
	"budget/internal/money"
	"budget/internal/store"
	"budget/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrMonthClosed     = errors.New("month is closed")
	ErrMonthNotOpen    = errors.New("month is not open")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrDateOutsideOpen = errors.New("date does not fall in an open month")
	ErrUnknownAccount  = errors.New("unknown bank account")
	ErrUnknownCard     = errors.New("unknown credit card")
	ErrAccountRequired = errors.New("bank account required for this payment method")
	ErrCardRequired    = errors.New("credit card required for this payment method")
	ErrInvalidMethod   = errors.New("invalid payment method")
)

type MonthStore interface {
	Get(ctx context.Context, monthID string) (models.Month, error)
	GetTx(ctx context.Context, tx store.Getter, monthID string) (models.Month, error)
	List(ctx context.Context) ([]models.Month, error)
	Insert(ctx context.Context, tx store.Execer, monthID string, startingBalance int64) error
	Close(ctx context.Context, tx store.Execer, monthID string, endingBalance int64) error
}

type AccountStore interface {
	ActiveForMonth(ctx context.Context, monthID string) ([]models.BankAccount, error)
	GetByID(ctx context.Context, id string) (models.BankAccount, error)
}

type CardStore interface {
	GetByID(ctx context.Context, id string) (models.CreditCard, error)
}

type BalanceStore interface {
	SetStarting(ctx context.Context, tx store.Execer, monthID, accountID string, starting int64) error
	SetEnding(ctx context.Context, tx store.Execer, monthID, accountID string, ending int64) error
	ForMonth(ctx context.Context, monthID string) ([]models.AccountMonthBalance, error)
	ForMonthTx(ctx context.Context, tx store.Selecter, monthID string) ([]models.AccountMonthBalance, error)
}

type TemplateStore interface {
	ActiveFixedExpenses(ctx context.Context) ([]models.FixedExpense, error)
	ActiveIncomeSources(ctx context.Context) ([]models.IncomeSource, error)
}

type TransactionStore interface {
	Insert(ctx context.Context, tx store.Execer, t models.Transaction) error
	ListByMonth(ctx context.Context, monthID string) ([]models.Transaction, error)
	AccrualNet(ctx context.Context, monthID string) (int64, error)
	AccrualNetTx(ctx context.Context, q store.Getter, monthID string) (int64, error)
	CashNetByAccount(ctx context.Context, q store.Selecter, monthID string) ([]models.AccountNet, error)
}

type LedgerHub interface {
	BroadcastLedger(userID string, update websocket.LedgerUpdate)
}

// LedgerService drives the month lifecycle: opening with template
// materialization, recording transactions, and closing with balance
// reconciliation. One instance is bound to one user's ledger database.
type LedgerService struct {
	userID       string
	txRunner     db.TxRunner
	monthStore   MonthStore
	accountStore AccountStore
	cardStore    CardStore
	balanceStore BalanceStore
	templates    TemplateStore
	txStore      TransactionStore
	hub          LedgerHub
}

func NewLedgerService(userID string, txRunner db.TxRunner, monthStore MonthStore, accountStore AccountStore, cardStore CardStore, balanceStore BalanceStore, templates TemplateStore, txStore TransactionStore, hub LedgerHub) *LedgerService {
	return &LedgerService{
		userID:       userID,
		txRunner:     txRunner,
		monthStore:   monthStore,
		accountStore: accountStore,
		cardStore:    cardStore,
		balanceStore: balanceStore,
		templates:    templates,
		txStore:      txStore,
		hub:          hub,
	}
}

type OpenMonthRequest struct {
	MonthID          string
	StartingBalances map[string]int64
}

// OpenMonth creates a budgeting period and materializes every active
// recurring template into it. The month row, the per-account starting
// balances and all generated transactions commit together; a failure
// anywhere leaves no trace of the month. Opening a month that already
// exists is a no-op returning the existing row, so retries never
// materialize templates twice.
func (s *LedgerService) OpenMonth(ctx context.Context, req OpenMonthRequest) (models.Month, error) {
	accounts, err := s.accountStore.ActiveForMonth(ctx, req.MonthID)
	if err != nil {
		return models.Month{}, err
	}
	known := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		known[a.ID] = struct{}{}
	}
	var total int64
	for accountID, balance := range req.StartingBalances {
		if _, ok := known[accountID]; !ok {
			return models.Month{}, ErrUnknownAccount
		}
		total += balance
	}

	fixed, err := s.templates.ActiveFixedExpenses(ctx)
	if err != nil {
		return models.Month{}, err
	}
	incomes, err := s.templates.ActiveIncomeSources(ctx)
	if err != nil {
		return models.Month{}, err
	}

	alreadyOpen := false
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.monthStore.GetTx(ctx, tx, req.MonthID); err == nil {
			alreadyOpen = true
			return nil
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if err := s.monthStore.Insert(ctx, tx, req.MonthID, total); err != nil {
			return err
		}
		for accountID, balance := range req.StartingBalances {
			if err := s.balanceStore.SetStarting(ctx, tx, req.MonthID, accountID, balance); err != nil {
				return err
			}
		}
		for _, fe := range fixed {
			generated, err := s.materializeFixedExpense(ctx, req.MonthID, fe)
			if err != nil {
				return err
			}
			if err := s.txStore.Insert(ctx, tx, generated); err != nil {
				return err
			}
		}
		for _, inc := range incomes {
			generated, err := materializeIncomeSource(req.MonthID, inc)
			if err != nil {
				return err
			}
			if err := s.txStore.Insert(ctx, tx, generated); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Month{}, err
	}

	if !alreadyOpen {
		s.hub.BroadcastLedger(s.userID, websocket.LedgerUpdate{
			Event:   "month_opened",
			MonthID: req.MonthID,
			Status:  models.MonthStatusOpen,
		})
	}
	return s.monthStore.Get(ctx, req.MonthID)
}

func (s *LedgerService) materializeFixedExpense(ctx context.Context, monthID string, fe models.FixedExpense) (models.Transaction, error) {
	date, err := calendar.TemplateDate(monthID, fe.DueDay)
	if err != nil {
		return models.Transaction{}, err
	}
	t := models.Transaction{
		ID:            uuid.NewString(),
		Date:          date.Format(calendar.DateLayout),
		MonthID:       monthID,
		Amount:        -money.Abs(fe.Amount),
		Category:      fe.Category,
		Subcategory:   fe.Subcategory,
		PaymentMethod: fe.PaymentMethod,
		BankAccountID: fe.BankAccountID,
		Note:          "Fixed expense: " + fe.Name,
	}
	if fe.PaymentMethod == models.PaymentMethodCreditCard {
		if fe.CreditCardID == nil {
			return models.Transaction{}, ErrCardRequired
		}
		card, err := s.cardStore.GetByID(ctx, *fe.CreditCardID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.Transaction{}, ErrUnknownCard
			}
			return models.Transaction{}, err
		}
		t.BankAccountID = nil
		t.CreditCardID = fe.CreditCardID
		stmt, dueMonth, dueDate := calendar.CreditCardCycle(date, card.StatementCloseDay, card.DueDay)
		due := dueDate.Format(calendar.DateLayout)
		t.StatementMonthID = &stmt
		t.DueMonthID = &dueMonth
		t.DueDate = &due
	}
	return t, nil
}

func materializeIncomeSource(monthID string, inc models.IncomeSource) (models.Transaction, error) {
	date, err := calendar.TemplateDate(monthID, inc.DueDay)
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		ID:            uuid.NewString(),
		Date:          date.Format(calendar.DateLayout),
		MonthID:       monthID,
		Amount:        money.Abs(inc.Amount),
		Category:      models.CategoryIncome,
		Subcategory:   inc.Subcategory,
		PaymentMethod: models.PaymentMethodIncome,
		BankAccountID: inc.BankAccountID,
		Note:          "Income: " + inc.Name,
	}, nil
}

// CloseMonth freezes a month. The aggregate ending balance is the starting
// balance plus the month's accrual net. Each account's ending balance adds
// only its own cash movements; card purchases carry a credit_card_id, not a
// bank_account_id, so no cash has left the paying account yet.
func (s *LedgerService) CloseMonth(ctx context.Context, monthID string) (models.Month, error) {
	var starting, ending int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		month, err := s.monthStore.GetTx(ctx, tx, monthID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMonthNotOpen
			}
			return err
		}
		if month.Status != models.MonthStatusOpen {
			return ErrMonthNotOpen
		}
		starting = month.StartingBalance

		net, err := s.txStore.AccrualNetTx(ctx, tx, monthID)
		if err != nil {
			return err
		}
		ending = starting + net
		if err := s.monthStore.Close(ctx, tx, monthID, ending); err != nil {
			return err
		}

		balances, err := s.balanceStore.ForMonthTx(ctx, tx, monthID)
		if err != nil {
			return err
		}
		cashNets, err := s.txStore.CashNetByAccount(ctx, tx, monthID)
		if err != nil {
			return err
		}
		netByAccount := make(map[string]int64, len(cashNets))
		for _, row := range cashNets {
			netByAccount[row.BankAccountID] += row.Net
		}
		for _, balance := range balances {
			accountEnding := balance.StartingBalance + netByAccount[balance.BankAccountID]
			if err := s.balanceStore.SetEnding(ctx, tx, monthID, balance.BankAccountID, accountEnding); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Month{}, err
	}

	s.hub.BroadcastLedger(s.userID, websocket.LedgerUpdate{
		Event:   "month_closed",
		MonthID: monthID,
		Status:  models.MonthStatusClosed,
		Net:     money.FormatMinor(ending - starting),
	})
	return s.monthStore.Get(ctx, monthID)
}

type AddTransactionRequest struct {
	Date          time.Time
	AmountMinor   int64
	Category      string
	Subcategory   string
	PaymentMethod string
	BankAccountID *string
	CreditCardID  *string
	Note          string
}

// AddTransaction records a transaction in the month its date falls into.
// Expenses are stored negative, income positive; card purchases carry their
// statement and due attribution computed once at insert time.
func (s *LedgerService) AddTransaction(ctx context.Context, req AddTransactionRequest) (models.Transaction, error) {
	if req.AmountMinor <= 0 {
		return models.Transaction{}, ErrInvalidAmount
	}
	monthID := calendar.MonthID(req.Date)
	month, err := s.monthStore.Get(ctx, monthID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transaction{}, ErrDateOutsideOpen
		}
		return models.Transaction{}, err
	}
	if month.Status != models.MonthStatusOpen {
		return models.Transaction{}, ErrMonthClosed
	}

	t := models.Transaction{
		ID:            uuid.NewString(),
		Date:          req.Date.Format(calendar.DateLayout),
		MonthID:       monthID,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
	}

	switch req.PaymentMethod {
	case models.PaymentMethodDebit, models.PaymentMethodIncome:
		if req.BankAccountID == nil {
			return models.Transaction{}, ErrAccountRequired
		}
		if _, err := s.accountStore.GetByID(ctx, *req.BankAccountID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.Transaction{}, ErrUnknownAccount
			}
			return models.Transaction{}, err
		}
		t.BankAccountID = req.BankAccountID
	case models.PaymentMethodCreditCard:
		if req.CreditCardID == nil {
			return models.Transaction{}, ErrCardRequired
		}
		card, err := s.cardStore.GetByID(ctx, *req.CreditCardID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.Transaction{}, ErrUnknownCard
			}
			return models.Transaction{}, err
		}
		t.CreditCardID = req.CreditCardID
		stmt, dueMonth, dueDate := calendar.CreditCardCycle(req.Date, card.StatementCloseDay, card.DueDay)
		due := dueDate.Format(calendar.DateLayout)
		t.StatementMonthID = &stmt
		t.DueMonthID = &dueMonth
		t.DueDate = &due
	default:
		return models.Transaction{}, ErrInvalidMethod
	}

	if req.PaymentMethod == models.PaymentMethodIncome {
		t.Amount = req.AmountMinor
		t.Category = models.CategoryIncome
	} else {
		t.Amount = -req.AmountMinor
	}

	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.txStore.Insert(ctx, tx, t)
	})
	if err != nil {
		return models.Transaction{}, err
	}

	net, err := s.txStore.AccrualNet(ctx, monthID)
	if err == nil {
		s.hub.BroadcastLedger(s.userID, websocket.LedgerUpdate{
			Event:           "transaction_added",
			MonthID:         monthID,
			Status:          month.Status,
			Net:             money.FormatMinor(net),
			ProjectedEnding: money.FormatMinor(month.StartingBalance + net),
		})
	}
	return t, nil
}

// Transactions returns the accrual view of a month.
func (s *LedgerService) Transactions(ctx context.Context, monthID string) ([]models.Transaction, error) {
	if _, err := s.monthStore.Get(ctx, monthID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMonthNotOpen
		}
		return nil, err
	}
	return s.txStore.ListByMonth(ctx, monthID)
}

// Months lists every budgeting period, newest first.
func (s *LedgerService) Months(ctx context.Context) ([]models.Month, error) {
	return s.monthStore.List(ctx)
}
