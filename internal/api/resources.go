package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"smartspend/internal/core"
)

// Expenses fetches the whole expense collection. One round-trip, no
// pagination: the backend returns everything at once.
func (c *Client) Expenses(ctx context.Context, token string) ([]core.Transaction, error) {
	var out []core.Transaction
	err := c.do(ctx, request{
		method: http.MethodGet,
		base:   c.coreBase,
		path:   "/expense",
		token:  token,
		out:    &out,
	})
	return out, err
}

// Incomes fetches the whole income collection.
func (c *Client) Incomes(ctx context.Context, token string) ([]core.Transaction, error) {
	var out []core.Transaction
	err := c.do(ctx, request{
		method: http.MethodGet,
		base:   c.coreBase,
		path:   "/income",
		token:  token,
		out:    &out,
	})
	return out, err
}

// Categories fetches the category list used to label transactions.
func (c *Client) Categories(ctx context.Context, token string) ([]core.Category, error) {
	var out []core.Category
	err := c.do(ctx, request{
		method: http.MethodGet,
		base:   c.coreBase,
		path:   "/categories",
		token:  token,
		out:    &out,
	})
	return out, err
}

// CreateTransaction posts a new expense or income. A missing date
// defaults to the current time.
func (c *Client) CreateTransaction(ctx context.Context, token string, kind core.TransactionKind, t core.NewTransaction) error {
	if !kind.Valid() {
		return core.ErrInvalidKind
	}
	if t.Date == "" {
		t.Date = time.Now().Format(core.DateLayout)
	}
	if err := t.Validate(); err != nil {
		return err
	}

	path := "/expense"
	if kind == core.IncomeKind {
		path = "/income"
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		base:   c.coreBase,
		path:   path,
		token:  token,
		body:   t,
	})
}

// Recommendations generates spending advice for a period. The backend
// reads the token from the userToken query parameter on this route.
// Period format is yyyy/MM; empty means the backend default.
func (c *Client) Recommendations(ctx context.Context, token, period string) (core.RecommendationResponse, error) {
	query := url.Values{"userToken": {token}}
	if period != "" {
		query.Set("period", period)
	}

	var out core.RecommendationResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		base:   c.coreBase,
		path:   "/recommendations/generate",
		query:  query,
		out:    &out,
	})
	return out, err
}
