package services

import (
	"context"
	"database/sql"
	"errors"

	"budget/internal/db"
	"budget/internal/models"
	"budget/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var (
	ErrDuplicateName     = errors.New("name already in use")
	ErrAccountNotFound   = errors.New("bank account not found")
	ErrCardNotFound      = errors.New("credit card not found")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrObjectiveNotFound = errors.New("objective not found")
)

type SetupAccountStore interface {
	List(ctx context.Context) ([]models.BankAccount, error)
	GetByID(ctx context.Context, id string) (models.BankAccount, error)
	Create(ctx context.Context, tx store.Execer, id, name, effectiveFrom string) error
	Update(ctx context.Context, tx store.Execer, id, name, effectiveFrom string, effectiveTo *string) error
	Deactivate(ctx context.Context, tx store.Execer, id, effectiveTo string) error
}

type SetupCardStore interface {
	List(ctx context.Context) ([]models.CreditCardWithAccount, error)
	GetByID(ctx context.Context, id string) (models.CreditCard, error)
	Create(ctx context.Context, tx store.Execer, card models.CreditCard) error
	Update(ctx context.Context, tx store.Execer, id, name string, statementCloseDay, dueDay int, effectiveFrom string, effectiveTo *string) error
	Deactivate(ctx context.Context, tx store.Execer, id, effectiveTo string) error
}

type SetupTemplateStore interface {
	ListFixedExpenses(ctx context.Context) ([]models.FixedExpense, error)
	ListIncomeSources(ctx context.Context) ([]models.IncomeSource, error)
	UpsertFixedExpense(ctx context.Context, tx store.Execer, row models.FixedExpense) error
	UpsertIncomeSource(ctx context.Context, tx store.Execer, row models.IncomeSource) error
	DeactivateFixedExpense(ctx context.Context, tx store.Execer, name string) (int64, error)
	DeactivateIncomeSource(ctx context.Context, tx store.Execer, name string) (int64, error)
}

type SetupObjectiveStore interface {
	Active(ctx context.Context) ([]models.BudgetObjective, error)
	Upsert(ctx context.Context, tx store.Execer, row models.BudgetObjective) error
	Deactivate(ctx context.Context, tx store.Execer, category string) (int64, error)
}

// SetupService manages the slow-changing configuration the ledger runs on:
// bank accounts, credit cards, recurring templates and budget objectives.
// Edits never rewrite history; the old row is retired and a new version
// inserted, so months already opened keep the figures they were built from.
type SetupService struct {
	txRunner   db.TxRunner
	accounts   SetupAccountStore
	cards      SetupCardStore
	templates  SetupTemplateStore
	objectives SetupObjectiveStore
}

func NewSetupService(txRunner db.TxRunner, accounts SetupAccountStore, cards SetupCardStore, templates SetupTemplateStore, objectives SetupObjectiveStore) *SetupService {
	return &SetupService{
		txRunner:   txRunner,
		accounts:   accounts,
		cards:      cards,
		templates:  templates,
		objectives: objectives,
	}
}

func (s *SetupService) ListAccounts(ctx context.Context) ([]models.BankAccount, error) {
	return s.accounts.List(ctx)
}

func (s *SetupService) CreateAccount(ctx context.Context, name, effectiveFrom string) (models.BankAccount, error) {
	id := uuid.NewString()
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.accounts.Create(ctx, tx, id, name, effectiveFrom)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.BankAccount{}, ErrDuplicateName
		}
		return models.BankAccount{}, err
	}
	return s.accounts.GetByID(ctx, id)
}

type UpdateAccountRequest struct {
	Name          string
	EffectiveFrom string
	EffectiveTo   *string
}

// UpdateAccount edits an active account in place: its display name and the
// effective window. Fields left empty keep their current value.
func (s *SetupService) UpdateAccount(ctx context.Context, id string, req UpdateAccountRequest) (models.BankAccount, error) {
	existing, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BankAccount{}, ErrAccountNotFound
		}
		return models.BankAccount{}, err
	}
	if req.Name == "" {
		req.Name = existing.Name
	}
	if req.EffectiveFrom == "" {
		req.EffectiveFrom = existing.EffectiveFrom
	}
	if req.EffectiveTo == nil {
		req.EffectiveTo = existing.EffectiveTo
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.accounts.Update(ctx, tx, id, req.Name, req.EffectiveFrom, req.EffectiveTo)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.BankAccount{}, ErrDuplicateName
		}
		return models.BankAccount{}, err
	}
	return s.accounts.GetByID(ctx, id)
}

func (s *SetupService) DeactivateAccount(ctx context.Context, id, effectiveTo string) error {
	if _, err := s.accounts.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountNotFound
		}
		return err
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.accounts.Deactivate(ctx, tx, id, effectiveTo)
	})
}

func (s *SetupService) ListCards(ctx context.Context) ([]models.CreditCardWithAccount, error) {
	return s.cards.List(ctx)
}

type CreateCardRequest struct {
	Name              string
	BankAccountID     string
	StatementCloseDay int
	DueDay            int
	EffectiveFrom     string
}

func (s *SetupService) CreateCard(ctx context.Context, req CreateCardRequest) (models.CreditCard, error) {
	if _, err := s.accounts.GetByID(ctx, req.BankAccountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CreditCard{}, ErrAccountNotFound
		}
		return models.CreditCard{}, err
	}
	card := models.CreditCard{
		ID:                uuid.NewString(),
		Name:              req.Name,
		BankAccountID:     req.BankAccountID,
		StatementCloseDay: req.StatementCloseDay,
		DueDay:            req.DueDay,
		EffectiveFrom:     req.EffectiveFrom,
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.cards.Create(ctx, tx, card)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.CreditCard{}, ErrDuplicateName
		}
		return models.CreditCard{}, err
	}
	return s.cards.GetByID(ctx, card.ID)
}

type UpdateCardRequest struct {
	Name              string
	StatementCloseDay int
	DueDay            int
	EffectiveFrom     string
	EffectiveTo       *string
}

// UpdateCard edits an active card in place: name, billing cycle days and
// effective window. Fields left empty or zero keep their current value.
// Existing transactions keep the attribution computed when they were
// inserted.
func (s *SetupService) UpdateCard(ctx context.Context, id string, req UpdateCardRequest) (models.CreditCard, error) {
	existing, err := s.cards.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CreditCard{}, ErrCardNotFound
		}
		return models.CreditCard{}, err
	}
	if req.Name == "" {
		req.Name = existing.Name
	}
	if req.StatementCloseDay == 0 {
		req.StatementCloseDay = existing.StatementCloseDay
	}
	if req.DueDay == 0 {
		req.DueDay = existing.DueDay
	}
	if req.EffectiveFrom == "" {
		req.EffectiveFrom = existing.EffectiveFrom
	}
	if req.EffectiveTo == nil {
		req.EffectiveTo = existing.EffectiveTo
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.cards.Update(ctx, tx, id, req.Name, req.StatementCloseDay, req.DueDay, req.EffectiveFrom, req.EffectiveTo)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.CreditCard{}, ErrDuplicateName
		}
		return models.CreditCard{}, err
	}
	return s.cards.GetByID(ctx, id)
}

func (s *SetupService) DeactivateCard(ctx context.Context, id, effectiveTo string) error {
	if _, err := s.cards.GetByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCardNotFound
		}
		return err
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.cards.Deactivate(ctx, tx, id, effectiveTo)
	})
}

func (s *SetupService) ListFixedExpenses(ctx context.Context) ([]models.FixedExpense, error) {
	return s.templates.ListFixedExpenses(ctx)
}

type UpsertFixedExpenseRequest struct {
	Name          string
	AmountMinor   int64
	Category      string
	Subcategory   string
	DueDay        int
	PaymentMethod string
	BankAccountID *string
	CreditCardID  *string
}

func (s *SetupService) UpsertFixedExpense(ctx context.Context, req UpsertFixedExpenseRequest) (models.FixedExpense, error) {
	if req.AmountMinor <= 0 {
		return models.FixedExpense{}, ErrInvalidAmount
	}
	switch req.PaymentMethod {
	case models.PaymentMethodDebit:
		if req.BankAccountID == nil {
			return models.FixedExpense{}, ErrAccountRequired
		}
		if _, err := s.accounts.GetByID(ctx, *req.BankAccountID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.FixedExpense{}, ErrUnknownAccount
			}
			return models.FixedExpense{}, err
		}
	case models.PaymentMethodCreditCard:
		if req.CreditCardID == nil {
			return models.FixedExpense{}, ErrCardRequired
		}
		if _, err := s.cards.GetByID(ctx, *req.CreditCardID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.FixedExpense{}, ErrUnknownCard
			}
			return models.FixedExpense{}, err
		}
	default:
		return models.FixedExpense{}, ErrInvalidMethod
	}
	row := models.FixedExpense{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Amount:        req.AmountMinor,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		DueDay:        req.DueDay,
		PaymentMethod: req.PaymentMethod,
		BankAccountID: req.BankAccountID,
		CreditCardID:  req.CreditCardID,
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.templates.UpsertFixedExpense(ctx, tx, row)
	})
	if err != nil {
		return models.FixedExpense{}, err
	}
	row.Active = true
	return row, nil
}

func (s *SetupService) DeactivateFixedExpense(ctx context.Context, name string) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.templates.DeactivateFixedExpense(ctx, tx, name)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrTemplateNotFound
		}
		return nil
	})
}

func (s *SetupService) ListIncomeSources(ctx context.Context) ([]models.IncomeSource, error) {
	return s.templates.ListIncomeSources(ctx)
}

type UpsertIncomeSourceRequest struct {
	Name          string
	AmountMinor   int64
	Subcategory   string
	DueDay        int
	BankAccountID *string
}

func (s *SetupService) UpsertIncomeSource(ctx context.Context, req UpsertIncomeSourceRequest) (models.IncomeSource, error) {
	if req.AmountMinor <= 0 {
		return models.IncomeSource{}, ErrInvalidAmount
	}
	if req.BankAccountID != nil {
		if _, err := s.accounts.GetByID(ctx, *req.BankAccountID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.IncomeSource{}, ErrUnknownAccount
			}
			return models.IncomeSource{}, err
		}
	}
	row := models.IncomeSource{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Amount:        req.AmountMinor,
		Subcategory:   req.Subcategory,
		DueDay:        req.DueDay,
		BankAccountID: req.BankAccountID,
	}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.templates.UpsertIncomeSource(ctx, tx, row)
	})
	if err != nil {
		return models.IncomeSource{}, err
	}
	row.Active = true
	return row, nil
}

func (s *SetupService) DeactivateIncomeSource(ctx context.Context, name string) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.templates.DeactivateIncomeSource(ctx, tx, name)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrTemplateNotFound
		}
		return nil
	})
}

func (s *SetupService) ListObjectives(ctx context.Context) ([]models.BudgetObjective, error) {
	return s.objectives.Active(ctx)
}

// UpsertObjective sets the planned share of income for a category. The
// percentage is a fraction in (0, 1], stored as text and parsed with
// decimals so 0.1 stays 0.1.
func (s *SetupService) UpsertObjective(ctx context.Context, category, percentage string) (models.BudgetObjective, error) {
	pct, err := decimal.NewFromString(percentage)
	if err != nil {
		return models.BudgetObjective{}, ErrInvalidPercentage
	}
	if pct.LessThanOrEqual(decimal.Zero) || pct.GreaterThan(decimal.NewFromInt(1)) {
		return models.BudgetObjective{}, ErrInvalidPercentage
	}
	row := models.BudgetObjective{
		ID:         uuid.NewString(),
		Category:   category,
		Percentage: pct.String(),
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.objectives.Upsert(ctx, tx, row)
	})
	if err != nil {
		return models.BudgetObjective{}, err
	}
	row.Active = true
	return row, nil
}

func (s *SetupService) DeactivateObjective(ctx context.Context, category string) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.objectives.Deactivate(ctx, tx, category)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrObjectiveNotFound
		}
		return nil
	})
}
