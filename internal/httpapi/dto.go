package httpapi

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/tinoosan/finapi/internal/ledger"
)

type postAccountRequest struct {
	CPF  string `json:"cpf" validate:"required"`
	Name string `json:"name"`
}

type putAccountRequest struct {
	Name string `json:"name"`
}

type depositRequest struct {
	Description string      `json:"description"`
	Amount      json.Number `json:"amount" validate:"required"`
}

type withdrawRequest struct {
	Amount json.Number `json:"amount" validate:"required"`
}

// depositInput is stored in the request context once the body is validated.
type depositInput struct {
	Amount      money.Amount
	Description string
}

type accountResponse struct {
	ID        uuid.UUID           `json:"id"`
	CPF       string              `json:"cpf"`
	Name      string              `json:"name"`
	Statement []operationResponse `json:"statement"`
}

type operationResponse struct {
	Type        ledger.OperationType `json:"type"`
	Amount      json.Number          `json:"amount"`
	Description string               `json:"description,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// amountJSON renders an amount as a bare JSON number with the currency's scale.
func amountJSON(a money.Amount) json.Number {
	return json.Number(a.Decimal().String())
}

func toOperationResponse(op ledger.Operation) operationResponse {
	return operationResponse{
		Type:        op.Type,
		Amount:      amountJSON(op.Amount),
		Description: op.Description,
		CreatedAt:   op.CreatedAt,
	}
}

func toOperationsResponse(ops []ledger.Operation) []operationResponse {
	out := make([]operationResponse, 0, len(ops))
	for _, op := range ops {
		out = append(out, toOperationResponse(op))
	}
	return out
}

func toAccountResponse(a ledger.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		CPF:       a.TaxID,
		Name:      a.Name,
		Statement: toOperationsResponse(a.Statement),
	}
}

func toAccountsResponse(accs []ledger.Account) []accountResponse {
	out := make([]accountResponse, 0, len(accs))
	for _, a := range accs {
		out = append(out, toAccountResponse(a))
	}
	return out
}
