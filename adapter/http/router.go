// Package http exposes the approval workflow over HTTP. Every /request route
// requires a bearer token; the verified subject becomes the requester,
// approver or actor of the call.
package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/viant/sanction/model/account"
	"github.com/viant/sanction/model/approval"
	"github.com/viant/sanction/model/command"
	"github.com/viant/sanction/progress"
	"github.com/viant/sanction/service/auth"
)

// Approvals is the approval workflow used by the handlers.
type Approvals interface {
	Create(ctx context.Context, envelope command.Envelope, requesterID string) (string, error)
	Get(ctx context.Context, id string) (*approval.Request, error)
	ListByName(ctx context.Context, name command.Name) ([]*approval.Request, error)
	ListAll(ctx context.Context) ([]*approval.Request, error)
	Execute(ctx context.Context, id, approverID string) error
	Delete(ctx context.Context, id string) error
	Stats() progress.Stats
}

// Gate turns an Authorization header value into a principal.
type Gate interface {
	Authenticate(header string) (*auth.Principal, error)
}

// Accounts registers and authenticates accounts.
type Accounts interface {
	Register(ctx context.Context, registration *account.Registration) (*account.Account, error)
	Authenticate(ctx context.Context, identifier, password string) (string, error)
}

// Identities resolves an identifier with one named strategy.
type Identities interface {
	ResolveWith(ctx context.Context, name, token string) (string, bool, error)
}

// Handler is the HTTP adapter entrypoint.
type Handler struct {
	approvals  Approvals
	gate       Gate
	accounts   Accounts
	identities Identities
}

// NewHandler constructs a handler bound to the workflow services.
func NewHandler(approvals Approvals, gate Gate, accounts Accounts, identities Identities) *Handler {
	return &Handler{approvals: approvals, gate: gate, accounts: accounts, identities: identities}
}

// NewRouter registers routes and the middleware stack.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(tracingMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", handler.login)
		r.Post("/register", handler.register)
	})

	r.Route("/identity/check", func(r chi.Router) {
		r.Get("/email/{email}", handler.checkEmail)
		r.Get("/phone/{phone}", handler.checkPhone)
	})

	r.Route("/request", func(r chi.Router) {
		r.Use(handler.authMiddleware)
		r.Post("/", handler.createRequest)
		r.Get("/all", handler.listRequests)
		r.Get("/stats", handler.stats)
		r.Get("/id/{id}", handler.getRequest)
		r.Get("/name/{name}", handler.listRequestsByName)
		r.Post("/execute/{id}", handler.executeRequest)
		r.Delete("/{id}", handler.deleteRequest)
	})

	return r
}
