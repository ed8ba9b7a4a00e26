package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator"

	"github.com/tinoosan/finapi/internal/ledger"
)

type ctxKey string

const (
	ctxKeyCustomer    ctxKey = "customer"
	ctxKeyPostAccount ctxKey = "validatedPostAccount"
	ctxKeyPutAccount  ctxKey = "validatedPutAccount"
	ctxKeyDeposit     ctxKey = "validatedDeposit"
	ctxKeyWithdraw    ctxKey = "validatedWithdraw"
	ctxKeyDay         ctxKey = "validatedDay"
)

// customerHeader carries the tax id of the account a request acts on.
const customerHeader = "cpf"

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage turns the first failed rule into a short client message.
func validationMessage(err error) string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return err.Error()
	}
	fe := ves[0]
	if fe.Tag() == "required" {
		return fmt.Sprintf("%s is required", fe.Field())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// decodeBody reads a JSON body into dst and runs its validate tags.
// Unknown fields are ignored. It writes the 400 itself and reports false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		badRequest(w, validationMessage(err))
		return false
	}
	return true
}

// requireCustomer resolves the cpf header to an account and stores it in the
// request context. Unknown or missing cpf is rejected before any handler runs.
func (s *Server) requireCustomer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acc, err := s.accountSvc.Find(r.Context(), r.Header.Get(customerHeader))
		if err != nil {
			s.writeDomainErr(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyCustomer, acc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// customerFrom returns the account resolved by requireCustomer.
func customerFrom(ctx context.Context) ledger.Account {
	acc, _ := ctx.Value(ctxKeyCustomer).(ledger.Account)
	return acc
}

// validatePostAccount parses and validates POST /account body and stores the account input.
func (s *Server) validatePostAccount() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req postAccountRequest
			if !decodeBody(w, r, &req) {
				return
			}
			in := ledger.Account{TaxID: req.CPF, Name: req.Name}
			if err := s.accountSvc.ValidateCreate(in); err != nil {
				s.writeDomainErr(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyPostAccount, in)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validatePutAccount parses PUT /account body.
func (s *Server) validatePutAccount() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req putAccountRequest
			if !decodeBody(w, r, &req) {
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyPutAccount, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateDeposit parses POST /deposit body; the amount is read exactly as sent.
func (s *Server) validateDeposit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req depositRequest
			if !decodeBody(w, r, &req) {
				return
			}
			amt, err := s.statementSvc.ParseAmount(req.Amount.String())
			if err != nil {
				s.writeDomainErr(w, r, err)
				return
			}
			in := depositInput{Amount: amt, Description: req.Description}
			ctx := context.WithValue(r.Context(), ctxKeyDeposit, in)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateWithdraw parses POST /withdraw body.
func (s *Server) validateWithdraw() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req withdrawRequest
			if !decodeBody(w, r, &req) {
				return
			}
			amt, err := s.statementSvc.ParseAmount(req.Amount.String())
			if err != nil {
				s.writeDomainErr(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyWithdraw, amt)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// validateStatementDate parses the date query of GET /statement/date.
func (s *Server) validateStatementDate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			day, err := s.statementSvc.ParseDay(r.URL.Query().Get("date"))
			if err != nil {
				s.writeDomainErr(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyDay, day)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
