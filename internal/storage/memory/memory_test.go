package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinoosan/finapi/internal/errs"
	"github.com/tinoosan/finapi/internal/ledger"
)

func brl(t *testing.T, minor int64) money.Amount {
	t.Helper()
	a, err := money.NewAmountFromMinorUnits("BRL", minor)
	require.NoError(t, err)
	return a
}

func newAccount(taxID, name string) ledger.Account {
	return ledger.Account{ID: uuid.New(), TaxID: taxID, Name: name, Statement: []ledger.Operation{}}
}

func credit(t *testing.T, minor int64) ledger.Operation {
	return ledger.Operation{Type: ledger.OperationCredit, Amount: brl(t, minor), Description: "dep", CreatedAt: time.Now()}
}

func debit(t *testing.T, minor int64) ledger.Operation {
	return ledger.Operation{Type: ledger.OperationDebit, Amount: brl(t, minor), CreatedAt: time.Now()}
}

func balanceMinor(t *testing.T, s *Store, taxID string) int64 {
	t.Helper()
	bal, err := s.Balance(context.Background(), taxID)
	require.NoError(t, err)
	units, _ := bal.MinorUnits()
	return units
}

func TestCreateAccount_UniqueTaxID(t *testing.T) {
	ctx := context.Background()
	s := New("brl")
	assert.Equal(t, "BRL", s.Currency())

	first := newAccount("123", "Ada")
	_, err := s.CreateAccount(ctx, first)
	require.NoError(t, err)

	_, err = s.CreateAccount(ctx, newAccount("123", "Grace"))
	require.ErrorIs(t, err, errs.ErrAlreadyExists)

	got, err := s.AccountByTaxID(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "Ada", got.Name)
}

func TestAccountByTaxID_NotFound(t *testing.T) {
	s := New("BRL")
	_, err := s.AccountByTaxID(context.Background(), "nope")
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = s.Statement(context.Background(), "nope")
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = s.Balance(context.Background(), "nope")
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = s.RenameAccount(context.Background(), "nope", "x")
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = s.DeleteAccount(context.Background(), "nope")
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.ErrorIs(t, s.AppendOperation(context.Background(), "nope", credit(t, 1)), errs.ErrNotFound)
}

func TestAppendOperation_BalanceAndOverdraft(t *testing.T) {
	ctx := context.Background()
	s := New("BRL")
	s.SeedAccount(newAccount("1", "Ada"))

	require.NoError(t, s.AppendOperation(ctx, "1", credit(t, 10000)))
	assert.Equal(t, int64(10000), balanceMinor(t, s, "1"))

	err := s.AppendOperation(ctx, "1", debit(t, 15000))
	require.ErrorIs(t, err, errs.ErrInsufficientFunds)
	assert.Equal(t, int64(10000), balanceMinor(t, s, "1"))

	require.NoError(t, s.AppendOperation(ctx, "1", debit(t, 6000)))
	assert.Equal(t, int64(4000), balanceMinor(t, s, "1"))

	// draining to exactly zero is allowed
	require.NoError(t, s.AppendOperation(ctx, "1", debit(t, 4000)))
	assert.Equal(t, int64(0), balanceMinor(t, s, "1"))

	ops, err := s.Statement(ctx, "1")
	require.NoError(t, err)
	require.Len(t, ops, 3)
	assert.Equal(t, ledger.OperationCredit, ops[0].Type)
	assert.Equal(t, ledger.OperationDebit, ops[1].Type)
	assert.Equal(t, ledger.OperationDebit, ops[2].Type)
}

func TestAppendOperation_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	s := New("BRL")
	s.SeedAccount(newAccount("1", "Ada"))

	usd, err := money.NewAmountFromMinorUnits("USD", 100)
	require.NoError(t, err)
	err = s.AppendOperation(ctx, "1", ledger.Operation{Type: ledger.OperationCredit, Amount: usd})
	require.ErrorIs(t, err, errs.ErrInvalid)

	err = s.AppendOperation(ctx, "1", ledger.Operation{Type: ledger.OperationCredit, Amount: brl(t, -1)})
	require.ErrorIs(t, err, errs.ErrInvalid)

	err = s.AppendOperation(ctx, "1", ledger.Operation{Type: "refund", Amount: brl(t, 1)})
	require.ErrorIs(t, err, errs.ErrInvalid)

	ops, err := s.Statement(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestAppendOperation_CreditOutOfRangeIsRejected(t *testing.T) {
	ctx := context.Background()
	s := New("BRL")
	s.SeedAccount(newAccount("1", "Ada"))

	huge, err := money.ParseAmount("BRL", "99999999999999999.99")
	require.NoError(t, err)
	dep := ledger.Operation{Type: ledger.OperationCredit, Amount: huge, CreatedAt: time.Now()}

	accepted := 0
	var rejectErr error
	for i := 0; i < 200; i++ {
		if err := s.AppendOperation(ctx, "1", dep); err != nil {
			rejectErr = err
			break
		}
		accepted++
	}
	require.Error(t, rejectErr, "a deposit past the amount range must be refused")
	require.ErrorIs(t, rejectErr, errs.ErrInvalid)

	ops, err := s.Statement(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, ops, accepted)

	// the account stays usable
	_, err = s.Balance(ctx, "1")
	require.NoError(t, err)
	require.NoError(t, s.AppendOperation(ctx, "1", debit(t, 100)))
}

func TestReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New("BRL")
	s.SeedAccount(newAccount("1", "Ada"))
	require.NoError(t, s.AppendOperation(ctx, "1", credit(t, 500)))

	ops, err := s.Statement(ctx, "1")
	require.NoError(t, err)
	ops[0].Description = "tampered"

	acc, err := s.AccountByTaxID(ctx, "1")
	require.NoError(t, err)
	acc.Name = "tampered"
	acc.Statement = append(acc.Statement, debit(t, 1))

	again, err := s.AccountByTaxID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.Name)
	require.Len(t, again.Statement, 1)
	assert.Equal(t, "dep", again.Statement[0].Description)
}

func TestRenameKeepsStatement(t *testing.T) {
	ctx := context.Background()
	s := New("BRL")
	s.SeedAccount(newAccount("1", "Ada"))
	require.NoError(t, s.AppendOperation(ctx, "1", credit(t, 700)))

	acc, err := s.RenameAccount(ctx, "1", "Ada Lovelace")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", acc.Name)
	assert.Len(t, acc.Statement, 1)
	assert.Equal(t, int64(700), balanceMinor(t, s, "1"))
}

func TestDeleteAccount_ReturnsRemainingInOrder(t *testing.T) {
	ctx := context.Background()
	s := New("BRL")
	for _, id := range []string{"a", "b", "c", "d"} {
		_, err := s.CreateAccount(ctx, newAccount(id, id))
		require.NoError(t, err)
	}

	rest, err := s.DeleteAccount(ctx, "b")
	require.NoError(t, err)
	ids := make([]string, 0, len(rest))
	for _, a := range rest {
		ids = append(ids, a.TaxID)
	}
	assert.Equal(t, []string{"a", "c", "d"}, ids)

	_, err = s.AccountByTaxID(ctx, "b")
	require.ErrorIs(t, err, errs.ErrNotFound)

	all, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// a recreated tax id goes to the end with a fresh statement
	_, err = s.CreateAccount(ctx, newAccount("b", "b2"))
	require.NoError(t, err)
	all, err = s.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", all[3].TaxID)
	assert.Empty(t, all[3].Statement)
}

func TestReset(t *testing.T) {
	s := New("BRL")
	s.SeedAccount(newAccount("1", "Ada"))
	s.Reset()
	all, err := s.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	require.NoError(t, s.Ready(context.Background()))
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	s := New("BRL")
	s.SeedAccount(newAccount("1", "Ada"))
	require.NoError(t, s.AppendOperation(ctx, "1", credit(t, 1000)))

	const workers = 50
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)
	op := debit(t, 100)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.AppendOperation(ctx, "1", op)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, errs.ErrInsufficientFunds):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, workers-10, rejected)
	assert.Equal(t, int64(0), balanceMinor(t, s, "1"))
}
