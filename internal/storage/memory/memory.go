// Package memory holds the process-wide ledger of customer accounts.
// Nothing is persisted; a restart starts from an empty ledger.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/govalues/money"

	"github.com/tinoosan/finapi/internal/errs"
	"github.com/tinoosan/finapi/internal/ledger"
)

// Store is the in-memory ledger used by the API.
// A single RWMutex guards every account and statement; all mutations take the write lock.
type Store struct {
	mu       sync.RWMutex
	currency string
	accounts map[string]*ledger.Account
	// order keeps tax ids in creation order so listings are stable.
	order []string
}

// New constructs an empty store whose amounts are kept in currency (ISO 4217 code).
func New(currency string) *Store {
	return &Store{
		currency: strings.ToUpper(currency),
		accounts: make(map[string]*ledger.Account),
	}
}

// Currency returns the ISO code every amount in the store is denominated in.
func (s *Store) Currency() string { return s.currency }

// SeedAccount inserts or replaces an account without any checks. Dev/tests only.
func (s *Store) SeedAccount(a ledger.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[a.TaxID]; !ok {
		s.order = append(s.order, a.TaxID)
	}
	acc := a.Clone()
	s.accounts[a.TaxID] = &acc
}

// Reset drops every account.
func (s *Store) Reset() {
	s.mu.Lock()
	s.accounts = map[string]*ledger.Account{}
	s.order = nil
	s.mu.Unlock()
}

// Ready always succeeds; it exists so /readyz treats every backend alike.
func (s *Store) Ready(_ context.Context) error { return nil }

// CreateAccount registers a new account. The tax id must not be in use.
func (s *Store) CreateAccount(_ context.Context, a ledger.Account) (ledger.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[a.TaxID]; exists {
		return ledger.Account{}, errs.ErrAlreadyExists
	}
	acc := a.Clone()
	s.accounts[a.TaxID] = &acc
	s.order = append(s.order, a.TaxID)
	return acc.Clone(), nil
}

// AccountByTaxID returns a copy of the account registered under taxID.
func (s *Store) AccountByTaxID(_ context.Context, taxID string) (ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[taxID]
	if !ok {
		return ledger.Account{}, errs.ErrNotFound
	}
	return acc.Clone(), nil
}

// ListAccounts returns every account in creation order.
func (s *Store) ListAccounts(_ context.Context) ([]ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), nil
}

// RenameAccount replaces the display name; the statement is left untouched.
func (s *Store) RenameAccount(_ context.Context, taxID, name string) (ledger.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[taxID]
	if !ok {
		return ledger.Account{}, errs.ErrNotFound
	}
	acc.Name = name
	return acc.Clone(), nil
}

// DeleteAccount removes the account and its statement and returns the accounts left.
func (s *Store) DeleteAccount(_ context.Context, taxID string) ([]ledger.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[taxID]; !ok {
		return nil, errs.ErrNotFound
	}
	delete(s.accounts, taxID)
	for i, id := range s.order {
		if id == taxID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return s.snapshotLocked(), nil
}

// Statement returns a copy of the account's operations in insertion order.
func (s *Store) Statement(_ context.Context, taxID string) ([]ledger.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[taxID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return ledger.CloneOperations(acc.Statement), nil
}

// Balance returns credits minus debits over the whole statement.
func (s *Store) Balance(_ context.Context, taxID string) (money.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[taxID]
	if !ok {
		return money.Amount{}, errs.ErrNotFound
	}
	return ledger.Balance(s.currency, acc.Statement)
}

// AppendOperation records op at the end of the account's statement.
// The resulting balance is computed under the same lock that appends op: a debit
// may not take it below zero, and a credit may not take it past what an amount can hold.
func (s *Store) AppendOperation(_ context.Context, taxID string, op ledger.Operation) error {
	if op.Amount.Curr().Code() != s.currency {
		return errs.Invalidf("amount must be in %s", s.currency)
	}
	if op.Amount.IsNeg() {
		return errs.Invalidf("amount must not be negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[taxID]
	if !ok {
		return errs.ErrNotFound
	}
	bal, err := ledger.Balance(s.currency, acc.Statement)
	if err != nil {
		return err
	}
	switch op.Type {
	case ledger.OperationCredit:
		if _, err := bal.Add(op.Amount); err != nil {
			return errs.Invalidf("deposit would take the balance out of range")
		}
	case ledger.OperationDebit:
		after, err := bal.Sub(op.Amount)
		if err != nil {
			return err
		}
		if after.IsNeg() {
			return errs.ErrInsufficientFunds
		}
	default:
		return errs.Invalidf("unknown operation type %q", op.Type)
	}
	acc.Statement = append(acc.Statement, op)
	return nil
}

// snapshotLocked copies all accounts in creation order. Caller must hold s.mu.
func (s *Store) snapshotLocked() []ledger.Account {
	out := make([]ledger.Account, 0, len(s.order))
	for _, id := range s.order {
		if acc, ok := s.accounts[id]; ok {
			out = append(out, acc.Clone())
		}
	}
	return out
}
