package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/govalues/money"

	"github.com/tinoosan/finapi/internal/errs"
	"github.com/tinoosan/finapi/internal/ledger"
)

// GET /statement
func (s *Server) getStatement(w http.ResponseWriter, r *http.Request) {
	acc := customerFrom(r.Context())
	ops, err := s.statementSvc.Statement(r.Context(), acc.TaxID)
	if err != nil {
		s.writeDomainErr(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toOperationsResponse(ops))
}

// GET /statement/date?date=YYYY-MM-DD
func (s *Server) getStatementByDate(w http.ResponseWriter, r *http.Request) {
	acc := customerFrom(r.Context())
	day, _ := r.Context().Value(ctxKeyDay).(time.Time)
	ops, err := s.statementSvc.StatementOn(r.Context(), acc.TaxID, day)
	if err != nil {
		s.writeDomainErr(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, toOperationsResponse(ops))
}

// POST /deposit
func (s *Server) postDeposit(w http.ResponseWriter, r *http.Request) {
	acc := customerFrom(r.Context())
	in, _ := r.Context().Value(ctxKeyDeposit).(depositInput)
	if _, err := s.statementSvc.Deposit(r.Context(), acc.TaxID, in.Amount, in.Description); err != nil {
		ledgerOperations.WithLabelValues(string(ledger.OperationCredit), "error").Inc()
		s.writeDomainErr(w, r, err)
		return
	}
	ledgerOperations.WithLabelValues(string(ledger.OperationCredit), "ok").Inc()
	w.WriteHeader(http.StatusCreated)
}

// POST /withdraw
func (s *Server) postWithdraw(w http.ResponseWriter, r *http.Request) {
	acc := customerFrom(r.Context())
	amt, _ := r.Context().Value(ctxKeyWithdraw).(money.Amount)
	if _, err := s.statementSvc.Withdraw(r.Context(), acc.TaxID, amt); err != nil {
		result := "error"
		if errors.Is(err, errs.ErrInsufficientFunds) {
			result = "rejected"
			s.log.Warn("withdrawal rejected", "account_id", acc.ID, "amount", amt.Decimal().String())
		}
		ledgerOperations.WithLabelValues(string(ledger.OperationDebit), result).Inc()
		s.writeDomainErr(w, r, err)
		return
	}
	ledgerOperations.WithLabelValues(string(ledger.OperationDebit), "ok").Inc()
	w.WriteHeader(http.StatusCreated)
}

// GET /balance answers with a bare JSON number.
func (s *Server) getBalance(w http.ResponseWriter, r *http.Request) {
	acc := customerFrom(r.Context())
	bal, err := s.statementSvc.Balance(r.Context(), acc.TaxID)
	if err != nil {
		s.writeDomainErr(w, r, err)
		return
	}
	toJSON(w, http.StatusOK, amountJSON(bal))
}
