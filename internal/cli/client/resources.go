package client

import (
	"context"
	"net/http"
	"net/url"
)

const (
	transactionsEndpoint = "/transactions"
	accountsEndpoint     = "/accounts"
	budgetsEndpoint      = "/budgets"
	investmentsEndpoint  = "/investments"
)

func itemPath(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}

// Transactions

// ListTransactions returns all transactions of the current user
func (c *Client) ListTransactions(ctx context.Context) (*Envelope[[]Transaction], error) {
	return request[[]Transaction](ctx, c, http.MethodGet, transactionsEndpoint, nil)
}

// CreateTransaction records a new transaction
func (c *Client) CreateTransaction(ctx context.Context, transaction Transaction) (*Envelope[Transaction], error) {
	return request[Transaction](ctx, c, http.MethodPost, transactionsEndpoint, transaction)
}

// UpdateTransaction applies a partial update; fields holds only the changed JSON fields
func (c *Client) UpdateTransaction(ctx context.Context, id string, fields map[string]any) (*Envelope[Transaction], error) {
	return request[Transaction](ctx, c, http.MethodPut, itemPath(transactionsEndpoint, id), fields)
}

// DeleteTransaction removes a transaction
func (c *Client) DeleteTransaction(ctx context.Context, id string) (*Envelope[struct{}], error) {
	return request[struct{}](ctx, c, http.MethodDelete, itemPath(transactionsEndpoint, id), nil)
}

// Accounts

// ListAccounts returns all accounts of the current user
func (c *Client) ListAccounts(ctx context.Context) (*Envelope[[]Account], error) {
	return request[[]Account](ctx, c, http.MethodGet, accountsEndpoint, nil)
}

// CreateAccount opens a new account
func (c *Client) CreateAccount(ctx context.Context, account Account) (*Envelope[Account], error) {
	return request[Account](ctx, c, http.MethodPost, accountsEndpoint, account)
}

// UpdateAccount applies a partial update
func (c *Client) UpdateAccount(ctx context.Context, id string, fields map[string]any) (*Envelope[Account], error) {
	return request[Account](ctx, c, http.MethodPut, itemPath(accountsEndpoint, id), fields)
}

// DeleteAccount removes an account
func (c *Client) DeleteAccount(ctx context.Context, id string) (*Envelope[struct{}], error) {
	return request[struct{}](ctx, c, http.MethodDelete, itemPath(accountsEndpoint, id), nil)
}

// Budgets

// ListBudgets returns all budgets of the current user
func (c *Client) ListBudgets(ctx context.Context) (*Envelope[[]Budget], error) {
	return request[[]Budget](ctx, c, http.MethodGet, budgetsEndpoint, nil)
}

// CreateBudget creates a budget
func (c *Client) CreateBudget(ctx context.Context, budget Budget) (*Envelope[Budget], error) {
	return request[Budget](ctx, c, http.MethodPost, budgetsEndpoint, budget)
}

// UpdateBudget applies a partial update
func (c *Client) UpdateBudget(ctx context.Context, id string, fields map[string]any) (*Envelope[Budget], error) {
	return request[Budget](ctx, c, http.MethodPut, itemPath(budgetsEndpoint, id), fields)
}

// DeleteBudget removes a budget
func (c *Client) DeleteBudget(ctx context.Context, id string) (*Envelope[struct{}], error) {
	return request[struct{}](ctx, c, http.MethodDelete, itemPath(budgetsEndpoint, id), nil)
}

// Investments

// ListInvestments returns all investments of the current user
func (c *Client) ListInvestments(ctx context.Context) (*Envelope[[]Investment], error) {
	return request[[]Investment](ctx, c, http.MethodGet, investmentsEndpoint, nil)
}

// CreateInvestment records a holding
func (c *Client) CreateInvestment(ctx context.Context, investment Investment) (*Envelope[Investment], error) {
	return request[Investment](ctx, c, http.MethodPost, investmentsEndpoint, investment)
}

// UpdateInvestment applies a partial update
func (c *Client) UpdateInvestment(ctx context.Context, id string, fields map[string]any) (*Envelope[Investment], error) {
	return request[Investment](ctx, c, http.MethodPut, itemPath(investmentsEndpoint, id), fields)
}

// DeleteInvestment removes a holding
func (c *Client) DeleteInvestment(ctx context.Context, id string) (*Envelope[struct{}], error) {
	return request[struct{}](ctx, c, http.MethodDelete, itemPath(investmentsEndpoint, id), nil)
}
