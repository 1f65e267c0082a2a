// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"insightify/internal/app"
	"insightify/internal/domain"
	"insightify/internal/report"
)

// Readiness is satisfied by *app.ClassifierLoader.
type Readiness interface {
	Load(ctx context.Context) (domain.Classifier, error)
	Name() string
}

type Handlers struct {
	Svc   *app.AnalysisService
	Ready Readiness
}

type problem struct {
	Type       string   `json:"type"`
	Title      string   `json:"title"`
	Status     int      `json:"status"`
	Detail     string   `json:"detail,omitempty"`
	Columns    []string `json:"columns,omitempty"`
	Default    string   `json:"default,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
}

const maxTop = 100

// multipartMemory is the part of a multipart upload kept in memory; the rest
// spills to temp files.
const multipartMemory = 8 << 20

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Group(func(r chi.Router) {
		r.Use(Timeout(s.opts.RequestTimeout))
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
		r.Get("/readyz", h.readyz)
		r.With(MaxBody(s.opts.MaxUploadBytes)).Post("/v1/columns", h.columns)
	})
	s.mux.Group(func(r chi.Router) {
		r.Use(Timeout(s.opts.AnalysisTimeout))
		r.Use(MaxBody(s.opts.MaxUploadBytes))
		r.Post("/v1/analyses", h.analyze)
	})
}

func writeProblem(w http.ResponseWriter, p problem) {
	if p.Type == "" {
		p.Type = "about:blank"
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors to problem responses.
func writeError(w http.ResponseWriter, err error) {
	var (
		tooBig    *http.MaxBytesError
		choice    *domain.ColumnChoiceError
		malformed *domain.MalformedInputError
	)
	switch {
	case errors.As(err, &tooBig):
		writeProblem(w, problem{Title: "Payload Too Large", Status: http.StatusRequestEntityTooLarge,
			Detail: fmt.Sprintf("upload exceeds %d bytes", tooBig.Limit)})
	case errors.As(err, &choice):
		writeProblem(w, problem{Title: "Column Choice Required", Status: http.StatusUnprocessableEntity,
			Detail: err.Error(), Default: choice.Default, Candidates: choice.Candidates})
	case errors.As(err, &malformed):
		writeProblem(w, problem{Title: "Malformed Input", Status: http.StatusBadRequest,
			Detail: err.Error(), Columns: malformed.Columns})
	case errors.Is(err, domain.ErrClassifierUnavailable):
		writeProblem(w, problem{Title: "Classifier Unavailable", Status: http.StatusServiceUnavailable,
			Detail: "the sentiment model could not be loaded; try again later"})
	default:
		log.Error().Err(err).Msg("unhandled analysis error")
		writeProblem(w, problem{Title: "Internal Server Error", Status: http.StatusInternalServerError})
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("route", routeOf(r)).Msg("failed to write body")
	}
}

func (h *Handlers) readyz(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Ready.Load(r.Context()); err != nil {
		writeProblem(w, problem{Title: "Not Ready", Status: http.StatusServiceUnavailable, Detail: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready", "backend": h.Ready.Name()})
}

func (h *Handlers) columns(w http.ResponseWriter, r *http.Request) {
	up, err := readUpload(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer up.close()

	v, err := h.Svc.Columns(up.body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, v)
}

func (h *Handlers) analyze(w http.ResponseWriter, r *http.Request) {
	up, err := readUpload(r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer up.close()

	top, err := parseTop(up.top)
	if err != nil {
		writeProblem(w, problem{Title: "Invalid top", Status: http.StatusBadRequest, Detail: err.Error()})
		return
	}

	res, err := h.Svc.WithTop(top).AnalyzeCSV(r.Context(), up.body, up.column)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, report.NewView(res))
}

// ---- uploads ----

type upload struct {
	body   io.Reader
	column string
	top    string
	close  func()
}

// readUpload accepts multipart/form-data with a "file" part or a raw CSV
// body. column and top come from form fields or the query string.
func readUpload(r *http.Request) (upload, error) {
	q := r.URL.Query()
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		return upload{body: r.Body, column: q.Get("column"), top: q.Get("top"), close: func() {}}, nil
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return upload{}, err
		}
		return upload{}, &domain.MalformedInputError{Reason: "cannot parse multipart form", Err: err}
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		return upload{}, &domain.MalformedInputError{Reason: `multipart field "file" is required`}
	}
	return upload{
		body:   f,
		column: firstNonEmpty(r.FormValue("column"), q.Get("column")),
		top:    firstNonEmpty(r.FormValue("top"), q.Get("top")),
		close: func() {
			_ = f.Close()
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		},
	}, nil
}

func parseTop(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxTop {
		return 0, fmt.Errorf("top must be an integer between 1 and %d", maxTop)
	}
	return n, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
