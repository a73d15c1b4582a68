package api

import (
	"context"
	"net/url"
	"strconv"
)

// Wallet is the account balance summary.
type Wallet struct {
	Balance  int64  `json:"balance"`
	Pending  int64  `json:"pending"`
	Currency string `json:"currency"`
}

// Transaction is one wallet ledger entry.
type Transaction struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
	CreatedAt string `json:"createdAt"`
}

// Wallet returns the authenticated user's wallet.
func (c *Client) Wallet(ctx context.Context) (*Wallet, error) {
	var wallet Wallet
	if err := c.get(ctx, "/wallet", &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Transactions returns one page of the wallet ledger.
func (c *Client) Transactions(ctx context.Context, page, pageSize int) ([]Transaction, Pagination, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	path := "/wallet/transactions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var list struct {
		Items      []Transaction `json:"items"`
		Pagination Pagination    `json:"pagination"`
	}
	if err := c.get(ctx, path, &list); err != nil {
		return nil, Pagination{}, err
	}
	return list.Items, list.Pagination, nil
}
