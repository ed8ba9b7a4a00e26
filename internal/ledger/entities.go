package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"
)

// OperationType tells whether an operation adds to or takes from the balance.
type OperationType string

const (
	// OperationCredit increases the balance (deposit).
	OperationCredit OperationType = "credit"
	// OperationDebit decreases the balance (withdrawal).
	OperationDebit OperationType = "debit"
)

// Operation is a single line of an account statement.
type Operation struct {
	Type   OperationType
	Amount money.Amount
	// Description is set by the depositor; withdrawals carry none.
	Description string
	CreatedAt   time.Time
}

// Account is a customer account keyed by its tax id (CPF).
type Account struct {
	ID    uuid.UUID
	TaxID string
	Name  string
	// Statement is the append-only operation log, in insertion order.
	Statement []Operation
}

// Clone returns a copy of the account that does not share the statement backing array.
func (a Account) Clone() Account {
	out := a
	out.Statement = CloneOperations(a.Statement)
	return out
}

// CloneOperations copies ops into a fresh slice; nil and empty both yield an empty slice.
func CloneOperations(ops []Operation) []Operation {
	out := make([]Operation, len(ops))
	copy(out, ops)
	return out
}

var errUnknownOperation = errors.New("unknown operation type")

// Balance folds the statement left to right starting from zero in curr:
// credits add, debits subtract.
func Balance(curr string, ops []Operation) (money.Amount, error) {
	bal, err := money.NewAmountFromMinorUnits(curr, 0)
	if err != nil {
		return money.Amount{}, err
	}
	for _, op := range ops {
		switch op.Type {
		case OperationCredit:
			bal, err = bal.Add(op.Amount)
		case OperationDebit:
			bal, err = bal.Sub(op.Amount)
		default:
			err = errUnknownOperation
		}
		if err != nil {
			return money.Amount{}, err
		}
	}
	return bal, nil
}

// SameDay reports whether t falls on the calendar day of day, both read in loc.
// Time of day is ignored on both sides.
func SameDay(t, day time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	ty, tm, td := t.In(loc).Date()
	dy, dm, dd := day.In(loc).Date()
	return ty == dy && tm == dm && td == dd
}

// OnDay returns the operations recorded on the given calendar day, keeping statement order.
func OnDay(ops []Operation, day time.Time, loc *time.Location) []Operation {
	out := make([]Operation, 0)
	for _, op := range ops {
		if SameDay(op.CreatedAt, day, loc) {
			out = append(out, op)
		}
	}
	return out
}
