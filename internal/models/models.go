package models

const (
	MonthStatusOpen   = "open"
	MonthStatusClosed = "closed"
)

const (
	PaymentMethodDebit      = "debit"
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodIncome     = "income"
)

const (
	CategoryIncome   = "Income"
	CategoryFixed    = "Fixed"
	CategoryVariable = "Variable"
	CategorySavings  = "Savings"
)

type User struct {
	ID           string `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
	CreatedAt    string `db:"created_at" json:"created_at"`
}

type Month struct {
	MonthID         string  `db:"month_id" json:"month_id"`
	StartingBalance int64   `db:"starting_balance" json:"starting_balance"`
	EndingBalance   *int64  `db:"ending_balance" json:"ending_balance,omitempty"`
	Status          string  `db:"status" json:"status"`
	OpenedAt        string  `db:"opened_at" json:"opened_at"`
	ClosedAt        *string `db:"closed_at" json:"closed_at,omitempty"`
}

type BankAccount struct {
	ID            string  `db:"id" json:"id"`
	Name          string  `db:"name" json:"name"`
	EffectiveFrom string  `db:"effective_from" json:"effective_from"`
	EffectiveTo   *string `db:"effective_to" json:"effective_to,omitempty"`
	Active        bool    `db:"active" json:"active"`
	CreatedAt     string  `db:"created_at" json:"created_at"`
}

type CreditCard struct {
	ID                string  `db:"id" json:"id"`
	Name              string  `db:"name" json:"name"`
	BankAccountID     string  `db:"bank_account_id" json:"bank_account_id"`
	StatementCloseDay int     `db:"statement_close_day" json:"statement_close_day"`
	DueDay            int     `db:"due_day" json:"due_day"`
	EffectiveFrom     string  `db:"effective_from" json:"effective_from"`
	EffectiveTo       *string `db:"effective_to" json:"effective_to,omitempty"`
	Active            bool    `db:"active" json:"active"`
	CreatedAt         string  `db:"created_at" json:"created_at"`
}

// CreditCardWithAccount joins a card with the name of its paying account.
type CreditCardWithAccount struct {
	CreditCard
	BankAccountName string `db:"bank_account_name" json:"bank_account_name"`
}

type AccountMonthBalance struct {
	MonthID         string `db:"month_id" json:"month_id"`
	BankAccountID   string `db:"bank_account_id" json:"bank_account_id"`
	StartingBalance int64  `db:"starting_balance" json:"starting_balance"`
	EndingBalance   *int64 `db:"ending_balance" json:"ending_balance,omitempty"`
}

type FixedExpense struct {
	ID            string  `db:"id" json:"id"`
	Name          string  `db:"name" json:"name"`
	Amount        int64   `db:"amount" json:"amount"`
	Category      string  `db:"category" json:"category"`
	Subcategory   string  `db:"subcategory" json:"subcategory"`
	DueDay        int     `db:"due_day" json:"due_day"`
	PaymentMethod string  `db:"payment_method" json:"payment_method"`
	BankAccountID *string `db:"bank_account_id" json:"bank_account_id,omitempty"`
	CreditCardID  *string `db:"credit_card_id" json:"credit_card_id,omitempty"`
	Active        bool    `db:"active" json:"active"`
	CreatedAt     string  `db:"created_at" json:"created_at"`
}

type IncomeSource struct {
	ID            string  `db:"id" json:"id"`
	Name          string  `db:"name" json:"name"`
	Amount        int64   `db:"amount" json:"amount"`
	Subcategory   string  `db:"subcategory" json:"subcategory"`
	DueDay        int     `db:"due_day" json:"due_day"`
	BankAccountID *string `db:"bank_account_id" json:"bank_account_id,omitempty"`
	Active        bool    `db:"active" json:"active"`
	CreatedAt     string  `db:"created_at" json:"created_at"`
}

type BudgetObjective struct {
	ID         string `db:"id" json:"id"`
	Category   string `db:"category" json:"category"`
	Percentage string `db:"percentage" json:"percentage"`
	Active     bool   `db:"active" json:"active"`
	CreatedAt  string `db:"created_at" json:"created_at"`
}

type Transaction struct {
	ID               string  `db:"id" json:"id"`
	Date             string  `db:"date" json:"date"`
	MonthID          string  `db:"month_id" json:"month_id"`
	Amount           int64   `db:"amount" json:"amount"`
	Category         string  `db:"category" json:"category"`
	Subcategory      string  `db:"subcategory" json:"subcategory"`
	PaymentMethod    string  `db:"payment_method" json:"payment_method"`
	BankAccountID    *string `db:"bank_account_id" json:"bank_account_id,omitempty"`
	CreditCardID     *string `db:"credit_card_id" json:"credit_card_id,omitempty"`
	StatementMonthID *string `db:"statement_month_id" json:"statement_month_id,omitempty"`
	DueMonthID       *string `db:"due_month_id" json:"due_month_id,omitempty"`
	DueDate          *string `db:"due_date" json:"due_date,omitempty"`
	Note             string  `db:"note" json:"note"`
	CreatedAt        string  `db:"created_at" json:"created_at"`
}

// CategoryTotal is one row of the spending-by-category aggregate.
type CategoryTotal struct {
	Category string `db:"category" json:"category"`
	Total    int64  `db:"total" json:"total"`
}

// CashflowRow is one dated cash movement used for the half-month split. The
// effective date for card purchases is the due date on the paying account.
type CashflowRow struct {
	EffectiveDate string `db:"effective_date" json:"effective_date"`
	Amount        int64  `db:"amount" json:"amount"`
	Category      string `db:"category" json:"category"`
	PaymentMethod string `db:"payment_method" json:"payment_method"`
}

// AccountNet is a signed net amount attributed to one bank account.
type AccountNet struct {
	BankAccountID string `db:"bank_account_id" json:"bank_account_id"`
	Net           int64  `db:"net" json:"net"`
}
