package httpapi

import (
	"net/http"

	"github.com/tinoosan/finapi/internal/ledger"
)

// postAccount handles POST /account.
func (s *Server) postAccount(w http.ResponseWriter, r *http.Request) {
	in, _ := r.Context().Value(ctxKeyPostAccount).(ledger.Account)
	acc, err := s.accountSvc.Create(r.Context(), in)
	if err != nil {
		accountEvents.WithLabelValues("create", "rejected").Inc()
		s.writeDomainErr(w, r, err)
		return
	}
	accountEvents.WithLabelValues("create", "ok").Inc()
	s.log.Info("account created", "account_id", acc.ID)
	w.WriteHeader(http.StatusCreated)
}

// getAccount handles GET /account.
func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	toJSON(w, http.StatusOK, toAccountResponse(customerFrom(r.Context())))
}

// putAccount handles PUT /account by replacing the display name.
func (s *Server) putAccount(w http.ResponseWriter, r *http.Request) {
	acc := customerFrom(r.Context())
	req, _ := r.Context().Value(ctxKeyPutAccount).(putAccountRequest)
	if _, err := s.accountSvc.Rename(r.Context(), acc.TaxID, req.Name); err != nil {
		s.writeDomainErr(w, r, err)
		return
	}
	accountEvents.WithLabelValues("rename", "ok").Inc()
	w.WriteHeader(http.StatusCreated)
}

// deleteAccount handles DELETE /account and answers with the accounts that remain.
func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	acc := customerFrom(r.Context())
	rest, err := s.accountSvc.Delete(r.Context(), acc.TaxID)
	if err != nil {
		s.writeDomainErr(w, r, err)
		return
	}
	accountEvents.WithLabelValues("delete", "ok").Inc()
	s.log.Info("account deleted", "account_id", acc.ID)
	toJSON(w, http.StatusOK, toAccountsResponse(rest))
}
