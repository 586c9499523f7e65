package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/viant/sanction/model/account"
	"github.com/viant/sanction/model/command"
	"github.com/viant/sanction/model/fault"
	"github.com/viant/sanction/service/auth"
	"github.com/viant/sanction/service/identity"
)

const maxBodyBytes = 1 << 20

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"state": "ok"})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "login", err)
		return
	}
	token, err := h.accounts.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req account.Registration
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "register", err)
		return
	}
	created, err := h.accounts.Register(r.Context(), &req)
	if err != nil {
		h.fail(w, r, "register", err)
		return
	}
	writeSuccess(w, http.StatusCreated, created)
}

func (h *Handler) checkEmail(w http.ResponseWriter, r *http.Request) {
	h.check(w, r, identity.EmailStrategy, chi.URLParam(r, "email"))
}

func (h *Handler) checkPhone(w http.ResponseWriter, r *http.Request) {
	h.check(w, r, identity.PhoneStrategy, chi.URLParam(r, "phone"))
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request, strategy, value string) {
	_, exists, err := h.identities.ResolveWith(r.Context(), strategy, value)
	if err != nil {
		h.fail(w, r, "check_"+strategy, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (h *Handler) createRequest(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.fail(w, r, "create_request", fault.Serialization(err, "read body"))
		return
	}
	envelope, err := command.Decode(string(body))
	if err != nil {
		h.fail(w, r, "create_request", err)
		return
	}
	id, err := h.approvals.Create(r.Context(), envelope, principal.ID)
	if err != nil {
		h.fail(w, r, "create_request", err)
		return
	}
	writeSuccess(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) getRequest(w http.ResponseWriter, r *http.Request) {
	found, err := h.approvals.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "get_request", err)
		return
	}
	writeSuccess(w, http.StatusOK, found)
}

func (h *Handler) listRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.approvals.ListAll(r.Context())
	if err != nil {
		h.fail(w, r, "list_requests", err)
		return
	}
	writeSuccess(w, http.StatusOK, requests)
}

func (h *Handler) listRequestsByName(w http.ResponseWriter, r *http.Request) {
	requests, err := h.approvals.ListByName(r.Context(), command.Name(chi.URLParam(r, "name")))
	if err != nil {
		h.fail(w, r, "list_requests_by_name", err)
		return
	}
	writeSuccess(w, http.StatusOK, requests)
}

func (h *Handler) executeRequest(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.approvals.Execute(r.Context(), id, principal.ID); err != nil {
		h.fail(w, r, "execute_request", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"id": id})
}

func (h *Handler) deleteRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.approvals.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "delete_request", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) stats(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, h.approvals.Stats())
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fault.Serialization(err, "decode request body")
	}
	return nil
}
