package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-tracker/internal/ledger"
)

// document is the whole data set. Transactions are kept in log order.
type document struct {
	accounts     map[string]ledger.Account
	transactions []ledger.Transaction
}

func newDocument() *document {
	return &document{accounts: make(map[string]ledger.Account)}
}

func (d *document) clone() *document {
	c := &document{
		accounts:     make(map[string]ledger.Account, len(d.accounts)),
		transactions: make([]ledger.Transaction, len(d.transactions)),
	}
	for id, acc := range d.accounts {
		c.accounts[id] = acc
	}
	copy(c.transactions, d.transactions)
	return c
}

func (d *document) transactionIndex(id string) int {
	for i, tx := range d.transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

type fileAccount struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Group           string          `json:"group"`
	Balance         decimal.Decimal `json:"balance"`
	Currency        string          `json:"currency"`
	IncludeInTotals bool            `json:"includeInTotals"`
	Owner           string          `json:"owner,omitempty"`
}

type fileTransaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	AccountID   string          `json:"accountId"`
	ToAccountID string          `json:"toAccountId,omitempty"`
	Category    string          `json:"category"`
	Notes       string          `json:"notes,omitempty"`
	Fee         decimal.Decimal `json:"fee"`
}

type fileDocument struct {
	Accounts     []fileAccount     `json:"accounts"`
	Transactions []fileTransaction `json:"transactions"`
}

func loadFile(path string) (*document, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return newDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var f fileDocument
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	d := newDocument()
	for _, a := range f.Accounts {
		d.accounts[a.ID] = ledger.Account{
			ID:              a.ID,
			Name:            a.Name,
			Group:           ledger.AccountGroup(a.Group),
			Balance:         a.Balance,
			Currency:        a.Currency,
			IncludeInTotals: a.IncludeInTotals,
			Owner:           ledger.Owner(a.Owner),
		}
	}
	for _, t := range f.Transactions {
		d.transactions = append(d.transactions, ledger.Transaction{
			ID:          t.ID,
			Date:        t.Date,
			Type:        ledger.TransactionType(t.Type),
			Amount:      t.Amount,
			AccountID:   t.AccountID,
			ToAccountID: t.ToAccountID,
			Category:    t.Category,
			Notes:       t.Notes,
			Fee:         t.Fee,
		})
	}
	return d, nil
}

// saveFile writes the document next to path and renames it into place.
func saveFile(path string, d *document) error {
	f := fileDocument{
		Accounts:     make([]fileAccount, 0, len(d.accounts)),
		Transactions: make([]fileTransaction, 0, len(d.transactions)),
	}
	for _, a := range sortedAccounts(d.accounts) {
		f.Accounts = append(f.Accounts, fileAccount{
			ID:              a.ID,
			Name:            a.Name,
			Group:           string(a.Group),
			Balance:         a.Balance,
			Currency:        a.Currency,
			IncludeInTotals: a.IncludeInTotals,
			Owner:           string(a.Owner),
		})
	}
	for _, t := range d.transactions {
		f.Transactions = append(f.Transactions, fileTransaction{
			ID:          t.ID,
			Date:        t.Date,
			Type:        string(t.Type),
			Amount:      t.Amount,
			AccountID:   t.AccountID,
			ToAccountID: t.ToAccountID,
			Category:    t.Category,
			Notes:       t.Notes,
			Fee:         t.Fee,
		})
	}

	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	return os.Rename(tmp.Name(), path)
}
