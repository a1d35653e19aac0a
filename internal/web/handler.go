package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/cexll/contacts/internal/avatar"
	"github.com/cexll/contacts/internal/store"
	"github.com/cexll/contacts/internal/view"
)

//go:embed templates/* static/*
var assetsFS embed.FS

// pages are rendered inside templates/layout.html
var pages = []string{"index.html", "contact.html", "edit.html", "error.html"}

// Handler handles web UI requests
type Handler struct {
	store   store.Store
	avatars avatar.Resolver
	logger  *zap.Logger
	pages   map[string]*template.Template
}

// NewHandler creates a new web handler
func NewHandler(contactStore store.Store, logger *zap.Logger) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.ParseFS(assetsFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		parsed[page] = tmpl
	}

	return &Handler{
		store:  contactStore,
		logger: logger,
		pages:  parsed,
	}, nil
}

// WithAvatarResolver enables avatar lookup from GitHub handles on edit
func (h *Handler) WithAvatarResolver(r avatar.Resolver) {
	h.avatars = r
}

// RegisterRoutes registers web UI routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	static, _ := fs.Sub(assetsFS, "static")
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static)))).Methods("GET")

	r.HandleFunc("/", h.serve(h.index)).Methods("GET")
	r.HandleFunc("/", h.serve(h.createContact)).Methods("POST")
	r.HandleFunc("/contacts/{contactId}", h.serve(h.showContact)).Methods("GET")
	r.HandleFunc("/contacts/{contactId}/edit", h.serve(h.editContact)).Methods("GET")
	r.HandleFunc("/contacts/{contactId}/edit", h.serve(h.updateContact)).Methods("POST")
	r.HandleFunc("/contacts/{contactId}/favorite", h.serve(h.favoriteContact)).Methods("POST")
	r.HandleFunc("/contacts/{contactId}/destroy", h.serve(h.destroyContact)).Methods("POST")

	r.NotFoundHandler = h.serve(func(*http.Request) (Result, error) {
		return nil, fmt.Errorf("no route: %w", store.ErrNotFound)
	})
}

// RootData is the result of the root loader
type RootData struct {
	Contacts []store.Contact
	Q        *string
}

// loadRoot backs every page under the root layout: it reads the optional
// q parameter and loads the matching contacts.
func (h *Handler) loadRoot(r *http.Request) (RootData, error) {
	q := queryParam(r, "q")

	query := ""
	if q != nil {
		query = *q
	}

	contacts, err := h.store.List(r.Context(), query)
	if err != nil {
		return RootData{}, fmt.Errorf("load contacts: %w", err)
	}
	return RootData{Contacts: contacts, Q: q}, nil
}

// pageData is what the templates see
type pageData struct {
	view.Layout
	Contact *store.Contact
	Status  int
	Error   string
}

func (h *Handler) layout(root RootData, activeID string) view.Layout {
	// Server renders always start idle; app.js tracks in-flight navigations
	return view.NewLayout(root.Contacts, root.Q, activeID, view.Idle)
}

func (h *Handler) index(r *http.Request) (Result, error) {
	root, err := h.loadRoot(r)
	if err != nil {
		return nil, err
	}
	return Page{Template: "index.html", Data: pageData{Layout: h.layout(root, "")}}, nil
}

// createContact adds an empty contact and sends the user to its edit form.
// Every submission creates a new record.
func (h *Handler) createContact(r *http.Request) (Result, error) {
	contact, err := h.store.Create(r.Context(), store.Contact{})
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	h.logger.Info("contact created", zap.String("id", contact.ID))
	return Redirect{Location: "/contacts/" + contact.ID + "/edit"}, nil
}

// contactPage loads the layout plus the contact named by the route
func (h *Handler) contactPage(r *http.Request, tmpl string) (Result, error) {
	id, err := requireParam(r, "contactId")
	if err != nil {
		return nil, err
	}

	contact, err := h.store.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}

	root, err := h.loadRoot(r)
	if err != nil {
		return nil, err
	}

	return Page{Template: tmpl, Data: pageData{
		Layout:  h.layout(root, id),
		Contact: &contact,
	}}, nil
}

func (h *Handler) showContact(r *http.Request) (Result, error) {
	return h.contactPage(r, "contact.html")
}

func (h *Handler) editContact(r *http.Request) (Result, error) {
	return h.contactPage(r, "edit.html")
}

func (h *Handler) updateContact(r *http.Request) (Result, error) {
	id, err := requireParam(r, "contactId")
	if err != nil {
		return nil, err
	}
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	contact, err := h.store.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}

	contact.First = strings.TrimSpace(r.PostFormValue("first"))
	contact.Last = strings.TrimSpace(r.PostFormValue("last"))
	contact.GitHub = avatar.NormalizeHandle(r.PostFormValue("github"))
	contact.Avatar = strings.TrimSpace(r.PostFormValue("avatar"))
	contact.Notes = r.PostFormValue("notes")

	if contact.Avatar == "" && contact.GitHub != "" && h.avatars != nil {
		avatarURL, err := h.avatars.Resolve(r.Context(), contact.GitHub)
		if err != nil {
			h.logger.Warn("avatar lookup failed", zap.String("github", contact.GitHub), zap.Error(err))
		} else {
			contact.Avatar = avatarURL
		}
	}

	if _, err := h.store.Update(r.Context(), contact); err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return Redirect{Location: "/contacts/" + id}, nil
}

func (h *Handler) favoriteContact(r *http.Request) (Result, error) {
	id, err := requireParam(r, "contactId")
	if err != nil {
		return nil, err
	}

	contact, err := h.store.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}

	contact.Favorite = r.PostFormValue("favorite") == "true"
	if _, err := h.store.Update(r.Context(), contact); err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return Redirect{Location: "/contacts/" + id}, nil
}

// destroyContact deletes the contact named by the route and returns to
// the root. An unknown id renders the not-found page.
func (h *Handler) destroyContact(r *http.Request) (Result, error) {
	id, err := requireParam(r, "contactId")
	if err != nil {
		return nil, err
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		return nil, err
	}
	h.logger.Info("contact deleted", zap.String("id", id))
	return Redirect{Location: "/"}, nil
}
