// Package account implements the customer account rules: one account per tax id,
// a generated immutable id, renames that never touch the statement, and hard deletes.
// Names are stored trimmed on create and rename.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tinoosan/finapi/internal/errs"
	"github.com/tinoosan/finapi/internal/ledger"
)

type Repo interface {
	AccountByTaxID(ctx context.Context, taxID string) (ledger.Account, error)
}

type Writer interface {
	CreateAccount(ctx context.Context, a ledger.Account) (ledger.Account, error)
	RenameAccount(ctx context.Context, taxID, name string) (ledger.Account, error)
	DeleteAccount(ctx context.Context, taxID string) ([]ledger.Account, error)
}

type Service interface {
	ValidateCreate(a ledger.Account) error
	Create(ctx context.Context, a ledger.Account) (ledger.Account, error)
	Find(ctx context.Context, taxID string) (ledger.Account, error)
	Rename(ctx context.Context, taxID, name string) (ledger.Account, error)
	Delete(ctx context.Context, taxID string) ([]ledger.Account, error)
}

type service struct {
	repo   Repo
	writer Writer
	newID  func() uuid.UUID
}

func New(repo Repo, writer Writer) Service {
	return &service{repo: repo, writer: writer, newID: uuid.New}
}

// ErrTaxIDRequired is returned when an account is created without a tax id.
var ErrTaxIDRequired = errs.Invalidf("cpf is required")

func (s *service) ValidateCreate(a ledger.Account) error {
	if strings.TrimSpace(a.TaxID) == "" {
		return ErrTaxIDRequired
	}
	return nil
}

// Create registers a new account with an empty statement and a fresh id.
// Any id or statement on the input is ignored.
func (s *service) Create(ctx context.Context, a ledger.Account) (ledger.Account, error) {
	a.TaxID = strings.TrimSpace(a.TaxID)
	if err := s.ValidateCreate(a); err != nil {
		return ledger.Account{}, err
	}
	acc := ledger.Account{
		ID:        s.newID(),
		TaxID:     a.TaxID,
		Name:      strings.TrimSpace(a.Name),
		Statement: []ledger.Operation{},
	}
	return s.writer.CreateAccount(ctx, acc)
}

// Find resolves the account for a tax id. An empty tax id is simply not found.
func (s *service) Find(ctx context.Context, taxID string) (ledger.Account, error) {
	taxID = strings.TrimSpace(taxID)
	if taxID == "" {
		return ledger.Account{}, errs.ErrNotFound
	}
	return s.repo.AccountByTaxID(ctx, taxID)
}

// Rename replaces the display name, trimmed the same way Create trims it.
func (s *service) Rename(ctx context.Context, taxID, name string) (ledger.Account, error) {
	acc, err := s.writer.RenameAccount(ctx, strings.TrimSpace(taxID), strings.TrimSpace(name))
	if err != nil {
		return ledger.Account{}, fmt.Errorf("rename account: %w", err)
	}
	return acc, nil
}

// Delete removes the account irrevocably and returns the accounts that remain.
func (s *service) Delete(ctx context.Context, taxID string) ([]ledger.Account, error) {
	rest, err := s.writer.DeleteAccount(ctx, strings.TrimSpace(taxID))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("delete account: %w", err)
	}
	return rest, nil
}
