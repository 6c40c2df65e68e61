package core

import (
	"errors"
	"strings"
	"time"
)

const (
	ExpenseKind TransactionKind = "Expense"
	IncomeKind  TransactionKind = "Income"
)

type (
	TransactionKind string

	// Transaction is a single expense or income record as the backend
	// returns it. Amounts travel as plain JSON numbers and dates as
	// ISO-8601 strings, so both stay wire-shaped here.
	Transaction struct {
		ID          string  `json:"_id"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
		Date        string  `json:"date"`
		Category    string  `json:"category"`
		User        string  `json:"user"`
	}

	// NewTransaction is the payload for creating an expense or income.
	NewTransaction struct {
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
		Date        string  `json:"date"`
		Category    string  `json:"category"`
	}

	Category struct {
		ID   string          `json:"_id"`
		Name string          `json:"name"`
		Type TransactionKind `json:"type"`
	}

	// User is the authenticated-user record returned by sign-in and
	// sign-up. It is never persisted; only the token outlives it.
	User struct {
		ID       string `json:"id"`
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Token    string `json:"token"`
	}

	Suggestion struct {
		Category string `json:"category"`
		Advice   string `json:"advice"`
	}

	RecommendationResponse struct {
		Suggestions []Suggestion `json:"suggestions"`
		User        string       `json:"user"`
		Date        string       `json:"date"`
		ID          string       `json:"_id"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidKind      = errors.New("invalid transaction kind")
)

// DateLayout is the wire format for transaction dates.
const DateLayout = time.RFC3339

func (k TransactionKind) Valid() bool {
	return k == ExpenseKind || k == IncomeKind
}

func (t NewTransaction) Validate() error {
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// When parses the transaction date, accepting both full RFC3339
// timestamps and bare YYYY-MM-DD dates as seen in backend responses.
func (t Transaction) When() (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, t.Date); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", t.Date)
}
