// Package api serves contacts as JSON for scripts and integrations.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/cexll/contacts/internal/auth"
	"github.com/cexll/contacts/internal/store"
)

// Contacts handles /api/contacts
type Contacts struct {
	Store  store.Store
	Signer *auth.Signer
	Logger *zap.Logger
}

// ContactInput is the writable part of a contact
type ContactInput struct {
	First    string `json:"first"`
	Last     string `json:"last"`
	Favorite bool   `json:"favorite"`
	Avatar   string `json:"avatar"`
	GitHub   string `json:"github"`
	Notes    string `json:"notes"`
}

func (in ContactInput) apply(c *store.Contact) {
	c.First = strings.TrimSpace(in.First)
	c.Last = strings.TrimSpace(in.Last)
	c.Favorite = in.Favorite
	c.Avatar = strings.TrimSpace(in.Avatar)
	c.GitHub = strings.TrimSpace(in.GitHub)
	c.Notes = in.Notes
}

// ListOutput mirrors the root loader: the matches plus the echoed query
type ListOutput struct {
	Contacts []store.Contact `json:"contacts"`
	Q        *string         `json:"q"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Register mounts the API on r under /api, behind bearer token auth
func (h *Contacts) Register(r *mux.Router) {
	if h.Logger == nil {
		h.Logger = zap.NewNop()
	}

	sub := r.PathPrefix("/api").Subrouter()
	sub.Use(h.Signer.Middleware(func(w http.ResponseWriter, err error) {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	}))

	sub.HandleFunc("/contacts", h.list).Methods("GET")
	sub.HandleFunc("/contacts", h.create).Methods("POST")
	sub.HandleFunc("/contacts/{contactId}", h.get).Methods("GET")
	sub.HandleFunc("/contacts/{contactId}", h.put).Methods("PUT")
	sub.HandleFunc("/contacts/{contactId}", h.del).Methods("DELETE")
}

func (h *Contacts) list(w http.ResponseWriter, r *http.Request) {
	var q *string
	if values := r.URL.Query(); values.Has("q") {
		v := values.Get("q")
		q = &v
	}

	query := ""
	if q != nil {
		query = *q
	}

	contacts, err := h.Store.List(r.Context(), query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if contacts == nil {
		contacts = []store.Contact{}
	}
	writeJSON(w, http.StatusOK, ListOutput{Contacts: contacts, Q: q})
}

func (h *Contacts) create(w http.ResponseWriter, r *http.Request) {
	var in ContactInput
	if err := decodeOptional(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	var c store.Contact
	in.apply(&c)
	created, err := h.Store.Create(r.Context(), c)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Contacts) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Store.Get(r.Context(), mux.Vars(r)["contactId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Contacts) put(w http.ResponseWriter, r *http.Request) {
	var in ContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("invalid body: %v", err)})
		return
	}

	c, err := h.Store.Get(r.Context(), mux.Vars(r)["contactId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in.apply(&c)

	updated, err := h.Store.Update(r.Context(), c)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Contacts) del(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.Context(), mux.Vars(r)["contactId"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Contacts) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "contact not found"})
		return
	}
	h.Logger.Error("api request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: http.StatusText(http.StatusInternalServerError)})
}

// decodeOptional decodes a JSON body into v; an empty body leaves v untouched
func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("invalid body: %w", err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
