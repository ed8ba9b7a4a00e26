package statement

import (
	"context"
	"strings"
	"time"

	"github.com/govalues/money"

	"github.com/tinoosan/finapi/internal/errs"
	"github.com/tinoosan/finapi/internal/ledger"
)

// Repo defines read operations needed by the service.
type Repo interface {
	Statement(ctx context.Context, taxID string) ([]ledger.Operation, error)
	Balance(ctx context.Context, taxID string) (money.Amount, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	// AppendOperation must reject a debit larger than the balance atomically with the append.
	AppendOperation(ctx context.Context, taxID string, op ledger.Operation) error
}

// Service exposes deposits, withdrawals and statement/balance queries for one account at a time.
type Service interface {
	ParseAmount(raw string) (money.Amount, error)
	ParseDay(raw string) (time.Time, error)
	Deposit(ctx context.Context, taxID string, amount money.Amount, description string) (ledger.Operation, error)
	Withdraw(ctx context.Context, taxID string, amount money.Amount) (ledger.Operation, error)
	Statement(ctx context.Context, taxID string) ([]ledger.Operation, error)
	StatementOn(ctx context.Context, taxID string, day time.Time) ([]ledger.Operation, error)
	Balance(ctx context.Context, taxID string) (money.Amount, error)
}

type service struct {
	repo     Repo
	writer   Writer
	currency string
	loc      *time.Location
	now      func() time.Time
}

// Option customises a Service.
type Option func(*service)

// WithClock overrides the time source used to stamp operations.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone calendar days are read in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func New(repo Repo, writer Writer, currency string, opts ...Option) Service {
	s := &service{
		repo:     repo,
		writer:   writer,
		currency: strings.ToUpper(currency),
		loc:      time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseAmount reads a decimal amount exactly as written (no float round trip).
// Negative amounts are rejected.
func (s *service) ParseAmount(raw string) (money.Amount, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return money.Amount{}, errs.Invalidf("amount is required")
	}
	amt, err := money.ParseAmount(s.currency, raw)
	if err != nil {
		return money.Amount{}, errs.Invalidf("invalid amount %q", raw)
	}
	if amt.IsNeg() {
		return money.Amount{}, errs.Invalidf("amount must not be negative")
	}
	return amt, nil
}

// dayLayout is the calendar-day form accepted by ParseDay.
const dayLayout = "2006-01-02"

// ParseDay accepts YYYY-MM-DD, or an RFC 3339 timestamp whose time of day is dropped.
// The result is midnight of that day in the configured location.
func (s *service) ParseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errs.Invalidf("date is required")
	}
	if d, err := time.ParseInLocation(dayLayout, raw, s.loc); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errs.Invalidf("invalid date %q", raw)
	}
	y, m, d := t.In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc), nil
}

func (s *service) Deposit(ctx context.Context, taxID string, amount money.Amount, description string) (ledger.Operation, error) {
	op := ledger.Operation{
		Type:        ledger.OperationCredit,
		Amount:      amount,
		Description: description,
		CreatedAt:   s.now(),
	}
	if err := s.writer.AppendOperation(ctx, taxID, op); err != nil {
		return ledger.Operation{}, err
	}
	return op, nil
}

// Withdraw appends a debit without description, or fails with errs.ErrInsufficientFunds
// leaving the statement unchanged.
func (s *service) Withdraw(ctx context.Context, taxID string, amount money.Amount) (ledger.Operation, error) {
	op := ledger.Operation{
		Type:      ledger.OperationDebit,
		Amount:    amount,
		CreatedAt: s.now(),
	}
	if err := s.writer.AppendOperation(ctx, taxID, op); err != nil {
		return ledger.Operation{}, err
	}
	return op, nil
}

func (s *service) Statement(ctx context.Context, taxID string) ([]ledger.Operation, error) {
	return s.repo.Statement(ctx, taxID)
}

// StatementOn returns the operations whose creation day, in the configured location,
// equals day's calendar day.
func (s *service) StatementOn(ctx context.Context, taxID string, day time.Time) ([]ledger.Operation, error) {
	ops, err := s.repo.Statement(ctx, taxID)
	if err != nil {
		return nil, err
	}
	return ledger.OnDay(ops, day, s.loc), nil
}

func (s *service) Balance(ctx context.Context, taxID string) (money.Amount, error) {
	return s.repo.Balance(ctx, taxID)
}
