package store

import (
	"context"

	"budget/internal/models"
)

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) Insert(ctx context.Context, tx Execer, t models.Transaction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, date, month_id, amount, category, subcategory, payment_method,
		                          bank_account_id, credit_card_id, statement_month_id, due_month_id, due_date, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Date, t.MonthID, t.Amount, t.Category, t.Subcategory, t.PaymentMethod,
		t.BankAccountID, t.CreditCardID, t.StatementMonthID, t.DueMonthID, t.DueDate, t.Note)
	return err
}

// ListByMonth returns the accrual view of a month: every transaction whose
// own date falls inside it, regardless of when cash moves.
func (s *TransactionStore) ListByMonth(ctx context.Context, monthID string) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, date, month_id, amount, category, subcategory, payment_method,
		       bank_account_id, credit_card_id, statement_month_id, due_month_id, due_date, note, created_at
		FROM transactions
		WHERE month_id = ?
		ORDER BY date, created_at
	`, monthID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AccrualNetTx sums all transactions dated in the month, inside a caller
// supplied transaction. This is the figure the month close freezes.
func (s *TransactionStore) AccrualNetTx(ctx context.Context, q Getter, monthID string) (int64, error) {
	var net int64
	err := q.GetContext(ctx, &net, `
		SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE month_id = ?
	`, monthID)
	return net, err
}

// AccrualNet is AccrualNetTx against the store's own connection.
func (s *TransactionStore) AccrualNet(ctx context.Context, monthID string) (int64, error) {
	return s.AccrualNetTx(ctx, s.db, monthID)
}

// CashEffectNet sums the cash that actually moves during the month: debit
// and income rows dated in it plus card purchases whose payment falls due
// in it.
func (s *TransactionStore) CashEffectNet(ctx context.Context, q Getter, monthID string) (int64, error) {
	var net int64
	err := q.GetContext(ctx, &net, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE (payment_method IN ('debit', 'income') AND month_id = ?)
		   OR (payment_method = 'credit_card' AND COALESCE(due_month_id, month_id) = ?)
	`, monthID, monthID)
	return net, err
}

// CashNet is CashEffectNet against the store's own connection, for readers
// outside a lifecycle transaction.
func (s *TransactionStore) CashNet(ctx context.Context, monthID string) (int64, error) {
	return s.CashEffectNet(ctx, s.db, monthID)
}

// CashNetByAccount groups the month's debit and income rows by bank account.
func (s *TransactionStore) CashNetByAccount(ctx context.Context, q Selecter, monthID string) ([]models.AccountNet, error) {
	var rows []models.AccountNet
	err := q.SelectContext(ctx, &rows, `
		SELECT bank_account_id, COALESCE(SUM(amount), 0) AS net
		FROM transactions
		WHERE payment_method IN ('debit', 'income')
		  AND month_id = ?
		  AND bank_account_id IS NOT NULL
		GROUP BY bank_account_id
	`, monthID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CardNetByPayingAccount groups card purchases due in the month by the bank
// account that pays each card's statement.
func (s *TransactionStore) CardNetByPayingAccount(ctx context.Context, q Selecter, monthID string) ([]models.AccountNet, error) {
	var rows []models.AccountNet
	err := q.SelectContext(ctx, &rows, `
		SELECT c.bank_account_id AS bank_account_id, COALESCE(SUM(t.amount), 0) AS net
		FROM transactions t
		JOIN credit_cards c ON c.id = t.credit_card_id
		WHERE t.payment_method = 'credit_card'
		  AND COALESCE(t.due_month_id, t.month_id) = ?
		GROUP BY c.bank_account_id
	`, monthID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) CashNetByAccountRead(ctx context.Context, monthID string) ([]models.AccountNet, error) {
	return s.CashNetByAccount(ctx, s.db, monthID)
}

func (s *TransactionStore) CardNetByPayingAccountRead(ctx context.Context, monthID string) ([]models.AccountNet, error) {
	return s.CardNetByPayingAccount(ctx, s.db, monthID)
}

// TotalsByCategory returns the signed net per category for the accrual
// month, income included. Expense categories come back negative.
func (s *TransactionStore) TotalsByCategory(ctx context.Context, monthID string) ([]models.CategoryTotal, error) {
	var rows []models.CategoryTotal
	err := s.db.SelectContext(ctx, &rows, `
		SELECT category, COALESCE(SUM(amount), 0) AS total
		FROM transactions
		WHERE month_id = ?
		GROUP BY category
		ORDER BY category
	`, monthID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CategoryTotal is the magnitude of a category's net for the month. A
// refund offsets spending instead of adding to it.
func (s *TransactionStore) CategoryTotal(ctx context.Context, monthID, category string) (int64, error) {
	var total int64
	err := s.db.GetContext(ctx, &total, `
		SELECT ABS(COALESCE(SUM(amount), 0))
		FROM transactions
		WHERE month_id = ? AND category = ?
	`, monthID, category)
	return total, err
}

// TotalSpending is the magnitude of the month's non-income net.
func (s *TransactionStore) TotalSpending(ctx context.Context, monthID string) (int64, error) {
	var total int64
	err := s.db.GetContext(ctx, &total, `
		SELECT ABS(COALESCE(SUM(amount), 0))
		FROM transactions
		WHERE month_id = ? AND category != 'Income'
	`, monthID)
	return total, err
}

func (s *TransactionStore) TotalIncome(ctx context.Context, monthID string) (int64, error) {
	var total int64
	err := s.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE month_id = ? AND category = 'Income'
	`, monthID)
	return total, err
}

// CashflowRows lists the month's cash movements with their effective dates,
// limited to the four cashflow categories. Debit and income rows count on
// their own date; card purchases count on their due date against the month
// the payment lands in.
func (s *TransactionStore) CashflowRows(ctx context.Context, monthID string) ([]models.CashflowRow, error) {
	var rows []models.CashflowRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT date AS effective_date, amount, category, payment_method
		FROM transactions
		WHERE payment_method IN ('debit', 'income')
		  AND month_id = ?
		  AND category IN ('Income', 'Fixed', 'Variable', 'Savings')
		UNION ALL
		SELECT COALESCE(due_date, date) AS effective_date, amount, category, payment_method
		FROM transactions
		WHERE payment_method = 'credit_card'
		  AND COALESCE(due_month_id, month_id) = ?
		  AND category IN ('Income', 'Fixed', 'Variable', 'Savings')
		ORDER BY effective_date
	`, monthID, monthID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
