package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"budget/internal/models"
	"budget/internal/store"
)

type stubSetupAccountStore struct {
	listFn       func(ctx context.Context) ([]models.BankAccount, error)
	getByIDFn    func(ctx context.Context, id string) (models.BankAccount, error)
	createFn     func(ctx context.Context, tx store.Execer, id, name, effectiveFrom string) error
	updateFn     func(ctx context.Context, tx store.Execer, id, name, effectiveFrom string, effectiveTo *string) error
	deactivateFn func(ctx context.Context, tx store.Execer, id, effectiveTo string) error
}

func (s stubSetupAccountStore) List(ctx context.Context) ([]models.BankAccount, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubSetupAccountStore) GetByID(ctx context.Context, id string) (models.BankAccount, error) {
	if s.getByIDFn == nil {
		return models.BankAccount{ID: id, Active: true}, nil
	}
	return s.getByIDFn(ctx, id)
}

func (s stubSetupAccountStore) Create(ctx context.Context, tx store.Execer, id, name, effectiveFrom string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, name, effectiveFrom)
}

func (s stubSetupAccountStore) Update(ctx context.Context, tx store.Execer, id, name, effectiveFrom string, effectiveTo *string) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, tx, id, name, effectiveFrom, effectiveTo)
}

func (s stubSetupAccountStore) Deactivate(ctx context.Context, tx store.Execer, id, effectiveTo string) error {
	if s.deactivateFn == nil {
		return nil
	}
	return s.deactivateFn(ctx, tx, id, effectiveTo)
}

type stubSetupCardStore struct {
	listFn        func(ctx context.Context) ([]models.CreditCardWithAccount, error)
	getByIDFn     func(ctx context.Context, id string) (models.CreditCard, error)
	createFn     func(ctx context.Context, tx store.Execer, card models.CreditCard) error
	updateFn     func(ctx context.Context, tx store.Execer, id, name string, statementCloseDay, dueDay int, effectiveFrom string, effectiveTo *string) error
	deactivateFn func(ctx context.Context, tx store.Execer, id, effectiveTo string) error
}

func (s stubSetupCardStore) List(ctx context.Context) ([]models.CreditCardWithAccount, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubSetupCardStore) GetByID(ctx context.Context, id string) (models.CreditCard, error) {
	if s.getByIDFn == nil {
		return models.CreditCard{ID: id, Active: true}, nil
	}
	return s.getByIDFn(ctx, id)
}

func (s stubSetupCardStore) Create(ctx context.Context, tx store.Execer, card models.CreditCard) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, card)
}

func (s stubSetupCardStore) Update(ctx context.Context, tx store.Execer, id, name string, statementCloseDay, dueDay int, effectiveFrom string, effectiveTo *string) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, tx, id, name, statementCloseDay, dueDay, effectiveFrom, effectiveTo)
}

func (s stubSetupCardStore) Deactivate(ctx context.Context, tx store.Execer, id, effectiveTo string) error {
	if s.deactivateFn == nil {
		return nil
	}
	return s.deactivateFn(ctx, tx, id, effectiveTo)
}

type stubSetupTemplateStore struct {
	upsertFixedFn      func(ctx context.Context, tx store.Execer, row models.FixedExpense) error
	upsertIncomeFn     func(ctx context.Context, tx store.Execer, row models.IncomeSource) error
	deactivateFixedFn  func(ctx context.Context, tx store.Execer, name string) (int64, error)
	deactivateIncomeFn func(ctx context.Context, tx store.Execer, name string) (int64, error)
}

func (s stubSetupTemplateStore) ListFixedExpenses(ctx context.Context) ([]models.FixedExpense, error) {
	return nil, nil
}

func (s stubSetupTemplateStore) ListIncomeSources(ctx context.Context) ([]models.IncomeSource, error) {
	return nil, nil
}

func (s stubSetupTemplateStore) UpsertFixedExpense(ctx context.Context, tx store.Execer, row models.FixedExpense) error {
	if s.upsertFixedFn == nil {
		return nil
	}
	return s.upsertFixedFn(ctx, tx, row)
}

func (s stubSetupTemplateStore) UpsertIncomeSource(ctx context.Context, tx store.Execer, row models.IncomeSource) error {
	if s.upsertIncomeFn == nil {
		return nil
	}
	return s.upsertIncomeFn(ctx, tx, row)
}

func (s stubSetupTemplateStore) DeactivateFixedExpense(ctx context.Context, tx store.Execer, name string) (int64, error) {
	if s.deactivateFixedFn == nil {
		return 1, nil
	}
	return s.deactivateFixedFn(ctx, tx, name)
}

func (s stubSetupTemplateStore) DeactivateIncomeSource(ctx context.Context, tx store.Execer, name string) (int64, error) {
	if s.deactivateIncomeFn == nil {
		return 1, nil
	}
	return s.deactivateIncomeFn(ctx, tx, name)
}

type stubSetupObjectiveStore struct {
	activeFn     func(ctx context.Context) ([]models.BudgetObjective, error)
	upsertFn     func(ctx context.Context, tx store.Execer, row models.BudgetObjective) error
	deactivateFn func(ctx context.Context, tx store.Execer, category string) (int64, error)
}

func (s stubSetupObjectiveStore) Active(ctx context.Context) ([]models.BudgetObjective, error) {
	if s.activeFn == nil {
		return nil, nil
	}
	return s.activeFn(ctx)
}

func (s stubSetupObjectiveStore) Upsert(ctx context.Context, tx store.Execer, row models.BudgetObjective) error {
	if s.upsertFn == nil {
		return nil
	}
	return s.upsertFn(ctx, tx, row)
}

func (s stubSetupObjectiveStore) Deactivate(ctx context.Context, tx store.Execer, category string) (int64, error) {
	if s.deactivateFn == nil {
		return 1, nil
	}
	return s.deactivateFn(ctx, tx, category)
}

func newSetupService(accounts stubSetupAccountStore, cards stubSetupCardStore, templates stubSetupTemplateStore, objectives stubSetupObjectiveStore) *SetupService {
	return NewSetupService(fakeTxRunner{}, accounts, cards, templates, objectives)
}

func TestCreateAccountDuplicateName(t *testing.T) {
	accounts := stubSetupAccountStore{
		createFn: func(context.Context, store.Execer, string, string, string) error {
			return errors.New("UNIQUE constraint failed: bank_accounts.name")
		},
	}
	service := newSetupService(accounts, stubSetupCardStore{}, stubSetupTemplateStore{}, stubSetupObjectiveStore{})
	_, err := service.CreateAccount(context.Background(), "Checking", "2024-01")
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestCreateCardUnknownAccount(t *testing.T) {
	accounts := stubSetupAccountStore{
		getByIDFn: func(context.Context, string) (models.BankAccount, error) {
			return models.BankAccount{}, sql.ErrNoRows
		},
	}
	service := newSetupService(accounts, stubSetupCardStore{}, stubSetupTemplateStore{}, stubSetupObjectiveStore{})
	_, err := service.CreateCard(context.Background(), CreateCardRequest{
		Name: "Visa", BankAccountID: "missing", StatementCloseDay: 20, DueDay: 5, EffectiveFrom: "2024-01",
	})
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestUpdateAccountEditsEffectiveWindow(t *testing.T) {
	to := "2024-06"
	var gotName, gotFrom string
	var gotTo *string
	accounts := stubSetupAccountStore{
		getByIDFn: func(_ context.Context, id string) (models.BankAccount, error) {
			return models.BankAccount{ID: id, Name: "Checking", EffectiveFrom: "2023-01", Active: true}, nil
		},
		updateFn: func(_ context.Context, _ store.Execer, _ string, name, effectiveFrom string, effectiveTo *string) error {
			gotName, gotFrom, gotTo = name, effectiveFrom, effectiveTo
			return nil
		},
	}
	service := newSetupService(accounts, stubSetupCardStore{}, stubSetupTemplateStore{}, stubSetupObjectiveStore{})
	_, err := service.UpdateAccount(context.Background(), "acc-1", UpdateAccountRequest{
		Name:        "Everyday",
		EffectiveTo: &to,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotName != "Everyday" || gotTo == nil || *gotTo != "2024-06" {
		t.Fatalf("unexpected update: name=%q to=%v", gotName, gotTo)
	}
	// effective_from was not in the request, so the stored value survives
	if gotFrom != "2023-01" {
		t.Fatalf("expected existing effective_from to be kept, got %q", gotFrom)
	}
}

func TestUpdateCardKeepsUnsetCycleDays(t *testing.T) {
	var gotClose, gotDue int
	cards := stubSetupCardStore{
		getByIDFn: func(_ context.Context, id string) (models.CreditCard, error) {
			return models.CreditCard{ID: id, Name: "Visa", StatementCloseDay: 20, DueDay: 5, EffectiveFrom: "2023-01", Active: true}, nil
		},
		updateFn: func(_ context.Context, _ store.Execer, _, _ string, statementCloseDay, dueDay int, _ string, _ *string) error {
			gotClose, gotDue = statementCloseDay, dueDay
			return nil
		},
	}
	service := newSetupService(stubSetupAccountStore{}, cards, stubSetupTemplateStore{}, stubSetupObjectiveStore{})
	_, err := service.UpdateCard(context.Background(), "cc-1", UpdateCardRequest{Name: "Visa Gold"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotClose != 20 || gotDue != 5 {
		t.Fatalf("cycle days must survive an unrelated edit: close=%d due=%d", gotClose, gotDue)
	}
}

func TestUpsertFixedExpenseRequiresCardForCardMethod(t *testing.T) {
	service := newSetupService(stubSetupAccountStore{}, stubSetupCardStore{}, stubSetupTemplateStore{}, stubSetupObjectiveStore{})
	_, err := service.UpsertFixedExpense(context.Background(), UpsertFixedExpenseRequest{
		Name:          "Streaming",
		AmountMinor:   1500,
		Category:      "Leisure",
		DueDay:        10,
		PaymentMethod: models.PaymentMethodCreditCard,
	})
	if !errors.Is(err, ErrCardRequired) {
		t.Fatalf("expected ErrCardRequired, got %v", err)
	}
}

func TestDeactivateFixedExpenseNotFound(t *testing.T) {
	templates := stubSetupTemplateStore{
		deactivateFixedFn: func(context.Context, store.Execer, string) (int64, error) {
			return 0, nil
		},
	}
	service := newSetupService(stubSetupAccountStore{}, stubSetupCardStore{}, templates, stubSetupObjectiveStore{})
	err := service.DeactivateFixedExpense(context.Background(), "Nope")
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestUpsertObjectiveRejectsBadPercentage(t *testing.T) {
	service := newSetupService(stubSetupAccountStore{}, stubSetupCardStore{}, stubSetupTemplateStore{}, stubSetupObjectiveStore{})
	for _, pct := range []string{"0", "-0.1", "1.5", "abc"} {
		if _, err := service.UpsertObjective(context.Background(), "Savings", pct); !errors.Is(err, ErrInvalidPercentage) {
			t.Fatalf("expected ErrInvalidPercentage for %q, got %v", pct, err)
		}
	}
}

func TestUpsertObjectiveKeepsPrecision(t *testing.T) {
	var saved models.BudgetObjective
	objectives := stubSetupObjectiveStore{
		upsertFn: func(_ context.Context, _ store.Execer, row models.BudgetObjective) error {
			saved = row
			return nil
		},
	}
	service := newSetupService(stubSetupAccountStore{}, stubSetupCardStore{}, stubSetupTemplateStore{}, objectives)
	_, err := service.UpsertObjective(context.Background(), "Savings", "0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Percentage != "0.1" {
		t.Fatalf("percentage must round-trip exactly, got %q", saved.Percentage)
	}
}
