package httpapi

import (
	"context"

	"github.com/tinoosan/finapi/internal/service/account"
	"github.com/tinoosan/finapi/internal/service/statement"
)

// ReadyChecker is implemented by stores to indicate readiness.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

// Store composes everything the API needs from the ledger backend.
// It is satisfied by the in-memory store.
type Store interface {
	account.Repo
	account.Writer
	statement.Repo
	statement.Writer
	ReadyChecker
	// Currency is the ISO code the store keeps amounts in.
	Currency() string
}
