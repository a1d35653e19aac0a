package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/cexll/contacts/internal/store"
)

// errMissingParam marks a route registered without a parameter its handler
// requires. It is a programming error and surfaces as a 500.
var errMissingParam = errors.New("missing route parameter")

// Result is what a route produces: a Page to render or a Redirect
type Result interface {
	result()
}

// Page renders a template with data
type Page struct {
	Status   int
	Template string
	Data     any
}

// Redirect sends the browser to Location with 303 See Other
type Redirect struct {
	Location string
}

func (Page) result()     {}
func (Redirect) result() {}

// Route is a loader or an action bound to a path
type Route func(r *http.Request) (Result, error)

// requireParam returns the named path parameter or errMissingParam
func requireParam(r *http.Request, name string) (string, error) {
	value := mux.Vars(r)[name]
	if value == "" {
		return "", fmt.Errorf("%w: %s", errMissingParam, name)
	}
	return value, nil
}

// queryParam returns nil when key is absent, otherwise its raw value
func queryParam(r *http.Request, key string) *string {
	values := r.URL.Query()
	if !values.Has(key) {
		return nil
	}
	value := values.Get(key)
	return &value
}

// serve adapts a Route to net/http and maps errors to error pages
func (h *Handler) serve(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := route(r)
		if err != nil {
			h.renderError(w, r, err)
			return
		}

		switch res := res.(type) {
		case Redirect:
			http.Redirect(w, r, res.Location, http.StatusSeeOther)
		case Page:
			h.render(w, res)
		default:
			h.renderError(w, r, fmt.Errorf("unsupported result %T", res))
		}
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, store.ErrNotFound) {
		status = http.StatusNotFound
	} else {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}

	data := pageData{Status: status, Error: http.StatusText(status)}

	// The sidebar is best effort on error pages
	if root, loadErr := h.loadRoot(r); loadErr == nil {
		data.Layout = h.layout(root, "")
	}

	h.render(w, Page{Status: status, Template: "error.html", Data: data})
}

func (h *Handler) render(w http.ResponseWriter, page Page) {
	tmpl, ok := h.pages[page.Template]
	if !ok {
		http.Error(w, "unknown template "+page.Template, http.StatusInternalServerError)
		return
	}

	status := page.Status
	if status == 0 {
		status = http.StatusOK
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, page.Template, page.Data); err != nil {
		h.logger.Error("template execution failed", zap.String("template", page.Template), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
