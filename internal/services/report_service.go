package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"budget/internal/calendar"
	"budget/internal/models"
	"budget/internal/money"

	"github.com/shopspring/decimal"
)

var (
	ErrMonthNotFound       = errors.New("month not found")
	ErrObjectiveNotDefined = errors.New("no objective defined for category")
	ErrInvalidPercentage   = errors.New("invalid percentage")
)

type ReportTransactionStore interface {
	AccrualNet(ctx context.Context, monthID string) (int64, error)
	CashNet(ctx context.Context, monthID string) (int64, error)
	TotalsByCategory(ctx context.Context, monthID string) ([]models.CategoryTotal, error)
	CategoryTotal(ctx context.Context, monthID, category string) (int64, error)
	TotalIncome(ctx context.Context, monthID string) (int64, error)
	TotalSpending(ctx context.Context, monthID string) (int64, error)
	CashflowRows(ctx context.Context, monthID string) ([]models.CashflowRow, error)
}

type ReportAccountStore interface {
	List(ctx context.Context) ([]models.BankAccount, error)
	ActiveForMonth(ctx context.Context, monthID string) ([]models.BankAccount, error)
	HasActive(ctx context.Context) (bool, error)
}

type ReportCardStore interface {
	ActiveForMonth(ctx context.Context, monthID string) ([]models.CreditCardWithAccount, error)
	HasActive(ctx context.Context) (bool, error)
}

type ReportBalanceStore interface {
	ForMonth(ctx context.Context, monthID string) ([]models.AccountMonthBalance, error)
}

type ReportAccountNets interface {
	CashNetByAccountRead(ctx context.Context, monthID string) ([]models.AccountNet, error)
	CardNetByPayingAccountRead(ctx context.Context, monthID string) ([]models.AccountNet, error)
}

type ObjectiveStore interface {
	Active(ctx context.Context) ([]models.BudgetObjective, error)
	ActiveForCategory(ctx context.Context, category string) (models.BudgetObjective, error)
	HasActive(ctx context.Context) (bool, error)
}

type ReportMonthStore interface {
	Get(ctx context.Context, monthID string) (models.Month, error)
	OldestOpen(ctx context.Context) (models.Month, error)
}

type ReportTemplateStore interface {
	ActiveFixedExpenses(ctx context.Context) ([]models.FixedExpense, error)
	ActiveIncomeSources(ctx context.Context) ([]models.IncomeSource, error)
	HasActiveFixedExpense(ctx context.Context) (bool, error)
	HasActiveIncomeSource(ctx context.Context) (bool, error)
}

// ReportService answers the read-side questions: snapshots, category
// breakdowns, objective comparison, cashflow timing and account coverage.
type ReportService struct {
	monthStore ReportMonthStore
	txStore    ReportTransactionStore
	nets       ReportAccountNets
	accounts   ReportAccountStore
	cards      ReportCardStore
	balances   ReportBalanceStore
	objectives ObjectiveStore
	templates  ReportTemplateStore
}

func NewReportService(monthStore ReportMonthStore, txStore ReportTransactionStore, nets ReportAccountNets, accounts ReportAccountStore, cards ReportCardStore, balances ReportBalanceStore, objectives ObjectiveStore, templates ReportTemplateStore) *ReportService {
	return &ReportService{
		monthStore: monthStore,
		txStore:    txStore,
		nets:       nets,
		accounts:   accounts,
		cards:      cards,
		balances:   balances,
		objectives: objectives,
		templates:  templates,
	}
}

type MonthSnapshot struct {
	Month           models.Month                 `json:"month"`
	AccrualNet      int64                        `json:"accrual_net"`
	CashNet         int64                        `json:"cash_net"`
	ProjectedEnding int64                        `json:"projected_ending"`
	TotalIncome     int64                        `json:"total_income"`
	TotalSpending   int64                        `json:"total_spending"`
	AccountBalances []models.AccountMonthBalance `json:"account_balances"`
}

// MonthSnapshot summarizes a month on both timelines. The projected ending
// balance uses the accrual net, matching what the close will freeze; the
// cash net shows how much actually moves this month.
func (s *ReportService) MonthSnapshot(ctx context.Context, monthID string) (MonthSnapshot, error) {
	month, err := s.monthStore.Get(ctx, monthID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MonthSnapshot{}, ErrMonthNotFound
		}
		return MonthSnapshot{}, err
	}
	accrual, err := s.txStore.AccrualNet(ctx, monthID)
	if err != nil {
		return MonthSnapshot{}, err
	}
	cash, err := s.txStore.CashNet(ctx, monthID)
	if err != nil {
		return MonthSnapshot{}, err
	}
	income, err := s.txStore.TotalIncome(ctx, monthID)
	if err != nil {
		return MonthSnapshot{}, err
	}
	spending, err := s.txStore.TotalSpending(ctx, monthID)
	if err != nil {
		return MonthSnapshot{}, err
	}
	balances, err := s.balances.ForMonth(ctx, monthID)
	if err != nil {
		return MonthSnapshot{}, err
	}
	return MonthSnapshot{
		Month:           month,
		AccrualNet:      accrual,
		CashNet:         cash,
		ProjectedEnding: month.StartingBalance + accrual,
		TotalIncome:     income,
		TotalSpending:   spending,
		AccountBalances: balances,
	}, nil
}

func (s *ReportService) CategoryTotals(ctx context.Context, monthID string) ([]models.CategoryTotal, error) {
	if _, err := s.monthStore.Get(ctx, monthID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMonthNotFound
		}
		return nil, err
	}
	return s.txStore.TotalsByCategory(ctx, monthID)
}

type AllocationRow struct {
	Category   string `json:"category"`
	Percentage string `json:"percentage"`
	Planned    int64  `json:"planned"`
	Actual     int64  `json:"actual"`
	Difference int64  `json:"difference"`
}

type Allocation struct {
	MonthID     string          `json:"month_id"`
	TotalIncome int64           `json:"total_income"`
	Rows        []AllocationRow `json:"rows"`
}

// Allocation compares each active objective's planned share of the month's
// income against the category's actual spending. A positive difference
// means room left in the envelope.
func (s *ReportService) Allocation(ctx context.Context, monthID string) (Allocation, error) {
	if _, err := s.monthStore.Get(ctx, monthID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Allocation{}, ErrMonthNotFound
		}
		return Allocation{}, err
	}
	income, err := s.txStore.TotalIncome(ctx, monthID)
	if err != nil {
		return Allocation{}, err
	}
	objectives, err := s.objectives.Active(ctx)
	if err != nil {
		return Allocation{}, err
	}
	result := Allocation{MonthID: monthID, TotalIncome: income, Rows: make([]AllocationRow, 0, len(objectives))}
	for _, obj := range objectives {
		pct, err := decimal.NewFromString(obj.Percentage)
		if err != nil {
			return Allocation{}, ErrInvalidPercentage
		}
		planned := money.ApplyPercent(income, pct)
		actual, err := s.txStore.CategoryTotal(ctx, monthID, obj.Category)
		if err != nil {
			return Allocation{}, err
		}
		result.Rows = append(result.Rows, AllocationRow{
			Category:   obj.Category,
			Percentage: obj.Percentage,
			Planned:    planned,
			Actual:     actual,
			Difference: planned - actual,
		})
	}
	return result, nil
}

// CategoryPlanned returns the planned amount for one category in a month.
func (s *ReportService) CategoryPlanned(ctx context.Context, monthID, category string) (int64, error) {
	obj, err := s.objectives.ActiveForCategory(ctx, category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrObjectiveNotDefined
		}
		return 0, err
	}
	pct, err := decimal.NewFromString(obj.Percentage)
	if err != nil {
		return 0, ErrInvalidPercentage
	}
	income, err := s.txStore.TotalIncome(ctx, monthID)
	if err != nil {
		return 0, err
	}
	return money.ApplyPercent(income, pct), nil
}

type HalfMonthSplit struct {
	FirstHalf  int64 `json:"first_half"`
	SecondHalf int64 `json:"second_half"`
}

type HalfMonthCashflow struct {
	MonthID  string         `json:"month_id"`
	Income   HalfMonthSplit `json:"income"`
	Fixed    HalfMonthSplit `json:"fixed"`
	Variable HalfMonthSplit `json:"variable"`
	Savings  HalfMonthSplit `json:"savings"`
}

// HalfMonthCashflow splits each cashflow category at the 15th. Rows count
// on their effective date, so a card purchase lands in the half its payment
// falls due, not when it was swiped. Income is summed signed; the expense
// categories are magnitudes.
func (s *ReportService) HalfMonthCashflow(ctx context.Context, monthID string) (HalfMonthCashflow, error) {
	if _, err := s.monthStore.Get(ctx, monthID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return HalfMonthCashflow{}, ErrMonthNotFound
		}
		return HalfMonthCashflow{}, err
	}
	rows, err := s.txStore.CashflowRows(ctx, monthID)
	if err != nil {
		return HalfMonthCashflow{}, err
	}
	result := HalfMonthCashflow{MonthID: monthID}
	for _, row := range rows {
		if len(row.EffectiveDate) < 10 {
			continue
		}
		var split *HalfMonthSplit
		switch row.Category {
		case models.CategoryIncome:
			split = &result.Income
		case models.CategoryFixed:
			split = &result.Fixed
		case models.CategoryVariable:
			split = &result.Variable
		case models.CategorySavings:
			split = &result.Savings
		default:
			continue
		}
		amount := row.Amount
		if row.Category != models.CategoryIncome {
			amount = money.Abs(row.Amount)
		}
		if dayOfDate(row.EffectiveDate) <= 15 {
			split.FirstHalf += amount
		} else {
			split.SecondHalf += amount
		}
	}
	return result, nil
}

func dayOfDate(date string) int {
	// dates are stored as "2006-01-02"
	if len(date) < 10 {
		return 0
	}
	return int(date[8]-'0')*10 + int(date[9]-'0')
}

type CoverageRow struct {
	BankAccountID   string `json:"bank_account_id"`
	Name            string `json:"name"`
	StartingBalance int64  `json:"starting_balance"`
	CashNet         int64  `json:"cash_net"`
	Projected       int64  `json:"projected"`
	CardDue         int64  `json:"card_due"`
	Shortfall       int64  `json:"shortfall"`
}

type TransferSuggestion struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        int64  `json:"amount"`
}

type AccountCoverage struct {
	MonthID     string               `json:"month_id"`
	Rows        []CoverageRow        `json:"rows"`
	Suggestions []TransferSuggestion `json:"suggestions"`
}

// AccountCoverage checks whether each account can absorb the card statements
// it pays this month, and suggests transfers from the accounts with the
// largest surplus when one falls short.
func (s *ReportService) AccountCoverage(ctx context.Context, monthID string) (AccountCoverage, error) {
	if _, err := s.monthStore.Get(ctx, monthID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AccountCoverage{}, ErrMonthNotFound
		}
		return AccountCoverage{}, err
	}
	accounts, err := s.accounts.ActiveForMonth(ctx, monthID)
	if err != nil {
		return AccountCoverage{}, err
	}
	balances, err := s.balances.ForMonth(ctx, monthID)
	if err != nil {
		return AccountCoverage{}, err
	}
	startingByAccount := make(map[string]int64, len(balances))
	for _, b := range balances {
		startingByAccount[b.BankAccountID] = b.StartingBalance
	}
	cashNets, err := s.nets.CashNetByAccountRead(ctx, monthID)
	if err != nil {
		return AccountCoverage{}, err
	}
	cashByAccount := make(map[string]int64, len(cashNets))
	for _, n := range cashNets {
		cashByAccount[n.BankAccountID] = n.Net
	}
	cardNets, err := s.nets.CardNetByPayingAccountRead(ctx, monthID)
	if err != nil {
		return AccountCoverage{}, err
	}
	cardByAccount := make(map[string]int64, len(cardNets))
	for _, n := range cardNets {
		cardByAccount[n.BankAccountID] = n.Net
	}

	result := AccountCoverage{MonthID: monthID, Rows: make([]CoverageRow, 0, len(accounts))}
	for _, account := range accounts {
		starting := startingByAccount[account.ID]
		cashNet := cashByAccount[account.ID]
		projected := starting + cashNet
		cardDue := -cardByAccount[account.ID]
		if cardDue < 0 {
			cardDue = 0
		}
		shortfall := cardDue - projected
		if shortfall < 0 {
			shortfall = 0
		}
		result.Rows = append(result.Rows, CoverageRow{
			BankAccountID:   account.ID,
			Name:            account.Name,
			StartingBalance: starting,
			CashNet:         cashNet,
			Projected:       projected,
			CardDue:         cardDue,
			Shortfall:       shortfall,
		})
	}

	// greedy fill: cover each shortfall from whichever account has the
	// biggest remaining surplus
	surplus := make(map[string]int64, len(result.Rows))
	for _, row := range result.Rows {
		if free := row.Projected - row.CardDue; free > 0 {
			surplus[row.BankAccountID] = free
		}
	}
	for _, row := range result.Rows {
		remaining := row.Shortfall
		for remaining > 0 {
			donor, available := richestDonor(surplus, row.BankAccountID)
			if donor == "" {
				break
			}
			amount := remaining
			if amount > available {
				amount = available
			}
			result.Suggestions = append(result.Suggestions, TransferSuggestion{
				FromAccountID: donor,
				ToAccountID:   row.BankAccountID,
				Amount:        amount,
			})
			surplus[donor] -= amount
			remaining -= amount
		}
	}
	return result, nil
}

func richestDonor(surplus map[string]int64, exclude string) (string, int64) {
	ids := make([]string, 0, len(surplus))
	for id := range surplus {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	best, bestAmount := "", int64(0)
	for _, id := range ids {
		if id == exclude {
			continue
		}
		if surplus[id] > bestAmount {
			best, bestAmount = id, surplus[id]
		}
	}
	return best, bestAmount
}

type PreviewItem struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Amount   int64  `json:"amount"`
	Category string `json:"category"`
}

type MonthPreview struct {
	MonthID         string           `json:"month_id"`
	FixedExpenses   []PreviewItem    `json:"fixed_expenses"`
	IncomeSources   []PreviewItem    `json:"income_sources"`
	TemplateNet     int64            `json:"template_net"`
	PriorBalances   map[string]int64 `json:"prior_balances"`
	PriorMonthID    string           `json:"prior_month_id,omitempty"`
	PriorMonthFound bool             `json:"prior_month_found"`
}

// MonthPreview shows what opening a month would generate, without touching
// the ledger, and prefills per-account starting balances from the previous
// month's endings.
func (s *ReportService) MonthPreview(ctx context.Context, monthID string) (MonthPreview, error) {
	preview := MonthPreview{MonthID: monthID, PriorBalances: map[string]int64{}}

	fixed, err := s.templates.ActiveFixedExpenses(ctx)
	if err != nil {
		return MonthPreview{}, err
	}
	for _, fe := range fixed {
		date, err := calendar.TemplateDate(monthID, fe.DueDay)
		if err != nil {
			return MonthPreview{}, err
		}
		amount := -money.Abs(fe.Amount)
		preview.FixedExpenses = append(preview.FixedExpenses, PreviewItem{
			Name:     fe.Name,
			Date:     date.Format(calendar.DateLayout),
			Amount:   amount,
			Category: fe.Category,
		})
		preview.TemplateNet += amount
	}
	incomes, err := s.templates.ActiveIncomeSources(ctx)
	if err != nil {
		return MonthPreview{}, err
	}
	for _, inc := range incomes {
		date, err := calendar.TemplateDate(monthID, inc.DueDay)
		if err != nil {
			return MonthPreview{}, err
		}
		amount := money.Abs(inc.Amount)
		preview.IncomeSources = append(preview.IncomeSources, PreviewItem{
			Name:     inc.Name,
			Date:     date.Format(calendar.DateLayout),
			Amount:   amount,
			Category: models.CategoryIncome,
		})
		preview.TemplateNet += amount
	}

	prior, err := calendar.PreviousMonthID(monthID)
	if err != nil {
		return MonthPreview{}, err
	}
	preview.PriorMonthID = prior
	balances, err := s.balances.ForMonth(ctx, prior)
	if err != nil {
		return MonthPreview{}, err
	}
	for _, b := range balances {
		preview.PriorMonthFound = true
		if b.EndingBalance != nil {
			preview.PriorBalances[b.BankAccountID] = *b.EndingBalance
		} else {
			preview.PriorBalances[b.BankAccountID] = b.StartingBalance
		}
	}
	return preview, nil
}

type SetupStatus struct {
	HasBankAccount   bool `json:"has_bank_account"`
	HasCreditCard    bool `json:"has_credit_card"`
	HasFixedExpense  bool `json:"has_fixed_expense"`
	HasIncomeSource  bool `json:"has_income_source"`
	HasObjective     bool `json:"has_objective"`
	HasOpenMonth     bool `json:"has_open_month"`
	ReadyToOpenMonth bool `json:"ready_to_open_month"`
}

// SetupStatus reports which pieces of initial configuration exist. A bank
// account and an income source are the minimum to open a month; cards and
// objectives are optional.
func (s *ReportService) SetupStatus(ctx context.Context) (SetupStatus, error) {
	var status SetupStatus
	var err error
	if status.HasBankAccount, err = s.accounts.HasActive(ctx); err != nil {
		return SetupStatus{}, err
	}
	if status.HasCreditCard, err = s.cards.HasActive(ctx); err != nil {
		return SetupStatus{}, err
	}
	if status.HasFixedExpense, err = s.templates.HasActiveFixedExpense(ctx); err != nil {
		return SetupStatus{}, err
	}
	if status.HasIncomeSource, err = s.templates.HasActiveIncomeSource(ctx); err != nil {
		return SetupStatus{}, err
	}
	if status.HasObjective, err = s.objectives.HasActive(ctx); err != nil {
		return SetupStatus{}, err
	}
	if _, err := s.monthStore.OldestOpen(ctx); err == nil {
		status.HasOpenMonth = true
	} else if !errors.Is(err, sql.ErrNoRows) {
		return SetupStatus{}, err
	}
	status.ReadyToOpenMonth = status.HasBankAccount && status.HasIncomeSource
	return status, nil
}
