package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"budget/internal/models"
)

type stubReportTxStore struct {
	accrualNetFn    func(ctx context.Context, monthID string) (int64, error)
	cashNetFn       func(ctx context.Context, monthID string) (int64, error)
	totalsFn        func(ctx context.Context, monthID string) ([]models.CategoryTotal, error)
	categoryTotalFn func(ctx context.Context, monthID, category string) (int64, error)
	totalIncomeFn   func(ctx context.Context, monthID string) (int64, error)
	totalSpendingFn func(ctx context.Context, monthID string) (int64, error)
	cashflowRowsFn  func(ctx context.Context, monthID string) ([]models.CashflowRow, error)
}

func (s stubReportTxStore) AccrualNet(ctx context.Context, monthID string) (int64, error) {
	if s.accrualNetFn == nil {
		return 0, nil
	}
	return s.accrualNetFn(ctx, monthID)
}

func (s stubReportTxStore) CashNet(ctx context.Context, monthID string) (int64, error) {
	if s.cashNetFn == nil {
		return 0, nil
	}
	return s.cashNetFn(ctx, monthID)
}

func (s stubReportTxStore) TotalsByCategory(ctx context.Context, monthID string) ([]models.CategoryTotal, error) {
	if s.totalsFn == nil {
		return nil, nil
	}
	return s.totalsFn(ctx, monthID)
}

func (s stubReportTxStore) CategoryTotal(ctx context.Context, monthID, category string) (int64, error) {
	if s.categoryTotalFn == nil {
		return 0, nil
	}
	return s.categoryTotalFn(ctx, monthID, category)
}

func (s stubReportTxStore) TotalIncome(ctx context.Context, monthID string) (int64, error) {
	if s.totalIncomeFn == nil {
		return 0, nil
	}
	return s.totalIncomeFn(ctx, monthID)
}

func (s stubReportTxStore) TotalSpending(ctx context.Context, monthID string) (int64, error) {
	if s.totalSpendingFn == nil {
		return 0, nil
	}
	return s.totalSpendingFn(ctx, monthID)
}

func (s stubReportTxStore) CashflowRows(ctx context.Context, monthID string) ([]models.CashflowRow, error) {
	if s.cashflowRowsFn == nil {
		return nil, nil
	}
	return s.cashflowRowsFn(ctx, monthID)
}

type stubAccountNets struct {
	cashFn func(ctx context.Context, monthID string) ([]models.AccountNet, error)
	cardFn func(ctx context.Context, monthID string) ([]models.AccountNet, error)
}

func (s stubAccountNets) CashNetByAccountRead(ctx context.Context, monthID string) ([]models.AccountNet, error) {
	if s.cashFn == nil {
		return nil, nil
	}
	return s.cashFn(ctx, monthID)
}

func (s stubAccountNets) CardNetByPayingAccountRead(ctx context.Context, monthID string) ([]models.AccountNet, error) {
	if s.cardFn == nil {
		return nil, nil
	}
	return s.cardFn(ctx, monthID)
}

type stubReportAccountStore struct {
	listFn      func(ctx context.Context) ([]models.BankAccount, error)
	activeFn    func(ctx context.Context, monthID string) ([]models.BankAccount, error)
	hasActiveFn func(ctx context.Context) (bool, error)
}

func (s stubReportAccountStore) List(ctx context.Context) ([]models.BankAccount, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubReportAccountStore) ActiveForMonth(ctx context.Context, monthID string) ([]models.BankAccount, error) {
	if s.activeFn == nil {
		return nil, nil
	}
	return s.activeFn(ctx, monthID)
}

func (s stubReportAccountStore) HasActive(ctx context.Context) (bool, error) {
	if s.hasActiveFn == nil {
		return false, nil
	}
	return s.hasActiveFn(ctx)
}

type stubReportCardStore struct {
	activeFn    func(ctx context.Context, monthID string) ([]models.CreditCardWithAccount, error)
	hasActiveFn func(ctx context.Context) (bool, error)
}

func (s stubReportCardStore) ActiveForMonth(ctx context.Context, monthID string) ([]models.CreditCardWithAccount, error) {
	if s.activeFn == nil {
		return nil, nil
	}
	return s.activeFn(ctx, monthID)
}

func (s stubReportCardStore) HasActive(ctx context.Context) (bool, error) {
	if s.hasActiveFn == nil {
		return false, nil
	}
	return s.hasActiveFn(ctx)
}

type stubObjectiveStore struct {
	activeFn      func(ctx context.Context) ([]models.BudgetObjective, error)
	forCategoryFn func(ctx context.Context, category string) (models.BudgetObjective, error)
	hasActiveFn   func(ctx context.Context) (bool, error)
}

func (s stubObjectiveStore) Active(ctx context.Context) ([]models.BudgetObjective, error) {
	if s.activeFn == nil {
		return nil, nil
	}
	return s.activeFn(ctx)
}

func (s stubObjectiveStore) ActiveForCategory(ctx context.Context, category string) (models.BudgetObjective, error) {
	if s.forCategoryFn == nil {
		return models.BudgetObjective{}, sql.ErrNoRows
	}
	return s.forCategoryFn(ctx, category)
}

func (s stubObjectiveStore) HasActive(ctx context.Context) (bool, error) {
	if s.hasActiveFn == nil {
		return false, nil
	}
	return s.hasActiveFn(ctx)
}

func newReportService(months stubMonthStore, txs stubReportTxStore, nets stubAccountNets, accounts stubReportAccountStore, cards stubReportCardStore, balances stubBalanceStore, objectives stubObjectiveStore, templates stubTemplateStore) *ReportService {
	return NewReportService(months, txs, nets, accounts, cards, balances, objectives, templates)
}

func TestMonthSnapshotProjectsOnAccrualNet(t *testing.T) {
	months := stubMonthStore{
		getFn: func(_ context.Context, monthID string) (models.Month, error) {
			return models.Month{MonthID: monthID, StartingBalance: 100000, Status: models.MonthStatusOpen}, nil
		},
	}
	txs := stubReportTxStore{
		accrualNetFn: func(context.Context, string) (int64, error) { return -25000, nil },
		cashNetFn:    func(context.Context, string) (int64, error) { return -18000, nil },
		totalIncomeFn: func(context.Context, string) (int64, error) {
			return 250000, nil
		},
		totalSpendingFn: func(context.Context, string) (int64, error) {
			return 40000, nil
		},
	}
	service := newReportService(months, txs, stubAccountNets{}, stubReportAccountStore{}, stubReportCardStore{}, stubBalanceStore{}, stubObjectiveStore{}, stubTemplateStore{})

	snapshot, err := service.MonthSnapshot(context.Background(), "2024-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.AccrualNet != -25000 || snapshot.CashNet != -18000 {
		t.Fatalf("unexpected nets: %+v", snapshot)
	}
	if snapshot.ProjectedEnding != 75000 {
		t.Fatalf("projected ending must follow accrual net, got %d", snapshot.ProjectedEnding)
	}
	if snapshot.TotalSpending != 40000 {
		t.Fatalf("unexpected total spending: %d", snapshot.TotalSpending)
	}
}

func TestMonthSnapshotUnknownMonth(t *testing.T) {
	months := stubMonthStore{
		getFn: func(context.Context, string) (models.Month, error) {
			return models.Month{}, sql.ErrNoRows
		},
	}
	service := newReportService(months, stubReportTxStore{}, stubAccountNets{}, stubReportAccountStore{}, stubReportCardStore{}, stubBalanceStore{}, stubObjectiveStore{}, stubTemplateStore{})
	_, err := service.MonthSnapshot(context.Background(), "2030-01")
	if !errors.Is(err, ErrMonthNotFound) {
		t.Fatalf("expected ErrMonthNotFound, got %v", err)
	}
}

func TestAllocationComparesPlannedToActual(t *testing.T) {
	txs := stubReportTxStore{
		totalIncomeFn: func(context.Context, string) (int64, error) { return 250000, nil },
		categoryTotalFn: func(_ context.Context, _ string, category string) (int64, error) {
			if category == "Savings" {
				return 60000, nil
			}
			return 0, nil
		},
	}
	objectives := stubObjectiveStore{
		activeFn: func(context.Context) ([]models.BudgetObjective, error) {
			return []models.BudgetObjective{{Category: "Savings", Percentage: "0.30", Active: true}}, nil
		},
	}
	service := newReportService(stubMonthStore{}, txs, stubAccountNets{}, stubReportAccountStore{}, stubReportCardStore{}, stubBalanceStore{}, objectives, stubTemplateStore{})

	allocation, err := service.Allocation(context.Background(), "2024-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(allocation.Rows) != 1 {
		t.Fatalf("expected one row, got %d", len(allocation.Rows))
	}
	row := allocation.Rows[0]
	if row.Planned != 75000 {
		t.Fatalf("expected planned 75000, got %d", row.Planned)
	}
	if row.Actual != 60000 || row.Difference != 15000 {
		t.Fatalf("unexpected comparison: %+v", row)
	}
}

func TestCategoryPlannedWithoutObjective(t *testing.T) {
	service := newReportService(stubMonthStore{}, stubReportTxStore{}, stubAccountNets{}, stubReportAccountStore{}, stubReportCardStore{}, stubBalanceStore{}, stubObjectiveStore{}, stubTemplateStore{})
	_, err := service.CategoryPlanned(context.Background(), "2024-03", "Travel")
	if !errors.Is(err, ErrObjectiveNotDefined) {
		t.Fatalf("expected ErrObjectiveNotDefined, got %v", err)
	}
}

func TestHalfMonthCashflowSplitsEachCategoryAtFifteenth(t *testing.T) {
	txs := stubReportTxStore{
		cashflowRowsFn: func(context.Context, string) ([]models.CashflowRow, error) {
			return []models.CashflowRow{
				{EffectiveDate: "2024-03-05", Amount: 250000, Category: models.CategoryIncome, PaymentMethod: models.PaymentMethodIncome},
				{EffectiveDate: "2024-03-15", Amount: -40000, Category: models.CategoryFixed, PaymentMethod: models.PaymentMethodDebit},
				{EffectiveDate: "2024-03-16", Amount: -10000, Category: models.CategoryVariable, PaymentMethod: models.PaymentMethodDebit},
				{EffectiveDate: "2024-03-20", Amount: -15000, Category: models.CategoryVariable, PaymentMethod: models.PaymentMethodCreditCard},
				{EffectiveDate: "2024-03-28", Amount: -20000, Category: models.CategorySavings, PaymentMethod: models.PaymentMethodDebit},
			}, nil
		},
	}
	service := newReportService(stubMonthStore{}, txs, stubAccountNets{}, stubReportAccountStore{}, stubReportCardStore{}, stubBalanceStore{}, stubObjectiveStore{}, stubTemplateStore{})

	cashflow, err := service.HalfMonthCashflow(context.Background(), "2024-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cashflow.Income.FirstHalf != 250000 || cashflow.Income.SecondHalf != 0 {
		t.Fatalf("unexpected income split: %+v", cashflow.Income)
	}
	// day 15 belongs to the first half
	if cashflow.Fixed.FirstHalf != 40000 || cashflow.Fixed.SecondHalf != 0 {
		t.Fatalf("unexpected fixed split: %+v", cashflow.Fixed)
	}
	if cashflow.Variable.FirstHalf != 0 || cashflow.Variable.SecondHalf != 25000 {
		t.Fatalf("unexpected variable split: %+v", cashflow.Variable)
	}
	if cashflow.Savings.SecondHalf != 20000 {
		t.Fatalf("unexpected savings split: %+v", cashflow.Savings)
	}
}

func TestAccountCoverageSuggestsTransfer(t *testing.T) {
	accounts := stubReportAccountStore{
		activeFn: func(context.Context, string) ([]models.BankAccount, error) {
			return []models.BankAccount{
				{ID: "acc-1", Name: "Checking"},
				{ID: "acc-2", Name: "Card payer"},
			}, nil
		},
	}
	balances := stubBalanceStore{
		forMonthFn: func(context.Context, string) ([]models.AccountMonthBalance, error) {
			return []models.AccountMonthBalance{
				{BankAccountID: "acc-1", StartingBalance: 100000},
				{BankAccountID: "acc-2", StartingBalance: 5000},
			}, nil
		},
	}
	nets := stubAccountNets{
		cashFn: func(context.Context, string) ([]models.AccountNet, error) {
			return []models.AccountNet{{BankAccountID: "acc-1", Net: -20000}}, nil
		},
		cardFn: func(context.Context, string) ([]models.AccountNet, error) {
			return []models.AccountNet{{BankAccountID: "acc-2", Net: -30000}}, nil
		},
	}
	service := newReportService(stubMonthStore{}, stubReportTxStore{}, nets, accounts, stubReportCardStore{}, balances, stubObjectiveStore{}, stubTemplateStore{})

	coverage, err := service.AccountCoverage(context.Background(), "2024-04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(coverage.Rows) != 2 {
		t.Fatalf("expected two rows, got %d", len(coverage.Rows))
	}
	payer := coverage.Rows[1]
	if payer.CardDue != 30000 {
		t.Fatalf("expected card due 30000, got %d", payer.CardDue)
	}
	if payer.Shortfall != 25000 {
		t.Fatalf("expected shortfall 25000, got %d", payer.Shortfall)
	}
	if len(coverage.Suggestions) != 1 {
		t.Fatalf("expected one suggestion, got %d", len(coverage.Suggestions))
	}
	suggestion := coverage.Suggestions[0]
	if suggestion.FromAccountID != "acc-1" || suggestion.ToAccountID != "acc-2" || suggestion.Amount != 25000 {
		t.Fatalf("unexpected suggestion: %+v", suggestion)
	}
}

func TestMonthPreviewPrefillsPriorEndings(t *testing.T) {
	templates := stubTemplateStore{
		fixedFn: func(context.Context) ([]models.FixedExpense, error) {
			return []models.FixedExpense{{Name: "Rent", Amount: 80000, Category: "Housing", DueDay: 31, PaymentMethod: models.PaymentMethodDebit}}, nil
		},
		incomeFn: func(context.Context) ([]models.IncomeSource, error) {
			return []models.IncomeSource{{Name: "Salary", Amount: 250000, DueDay: 27}}, nil
		},
	}
	ending := int64(83000)
	balances := stubBalanceStore{
		forMonthFn: func(_ context.Context, monthID string) ([]models.AccountMonthBalance, error) {
			if monthID != "2024-01" {
				t.Fatalf("expected prior month lookup, got %s", monthID)
			}
			return []models.AccountMonthBalance{{BankAccountID: "acc-1", StartingBalance: 90000, EndingBalance: &ending}}, nil
		},
	}
	service := newReportService(stubMonthStore{}, stubReportTxStore{}, stubAccountNets{}, stubReportAccountStore{}, stubReportCardStore{}, balances, stubObjectiveStore{}, templates)

	preview, err := service.MonthPreview(context.Background(), "2024-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2024-02 has 29 days, so a due day of 31 clamps
	if len(preview.FixedExpenses) != 1 || preview.FixedExpenses[0].Date != "2024-02-29" {
		t.Fatalf("unexpected fixed expenses: %+v", preview.FixedExpenses)
	}
	if preview.TemplateNet != 170000 {
		t.Fatalf("unexpected template net: %d", preview.TemplateNet)
	}
	if preview.PriorBalances["acc-1"] != 83000 {
		t.Fatalf("expected prior ending prefill, got %+v", preview.PriorBalances)
	}
}

func TestSetupStatusReadyRequiresAccountAndIncome(t *testing.T) {
	months := stubMonthStore{
		oldestOpenFn: func(context.Context) (models.Month, error) {
			return models.Month{}, sql.ErrNoRows
		},
	}
	accounts := stubReportAccountStore{
		hasActiveFn: func(context.Context) (bool, error) { return true, nil },
	}
	templates := stubTemplateStore{
		hasIncomeFn: func(context.Context) (bool, error) { return true, nil },
	}
	service := newReportService(months, stubReportTxStore{}, stubAccountNets{}, accounts, stubReportCardStore{}, stubBalanceStore{}, stubObjectiveStore{}, templates)

	status, err := service.SetupStatus(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.ReadyToOpenMonth {
		t.Fatalf("account plus income source must be enough: %+v", status)
	}
	if status.HasOpenMonth {
		t.Fatal("no open month expected")
	}
}
