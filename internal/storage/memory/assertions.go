package memory

import (
	"github.com/tinoosan/finapi/internal/service/account"
	"github.com/tinoosan/finapi/internal/service/statement"
)

// Compile-time interface assertions documenting which interfaces Store satisfies.
var (
	// Service layer repos and writers
	_ statement.Repo   = (*Store)(nil)
	_ statement.Writer = (*Store)(nil)
	_ account.Repo     = (*Store)(nil)
	_ account.Writer   = (*Store)(nil)
)
