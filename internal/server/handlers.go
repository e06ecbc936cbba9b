package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ptplot/pkg/buildinfo"
	perrors "github.com/matzehuels/ptplot/pkg/errors"
	"github.com/matzehuels/ptplot/pkg/observability"
	"github.com/matzehuels/ptplot/pkg/pipeline"
	"github.com/matzehuels/ptplot/pkg/plotspec"
	"github.com/matzehuels/ptplot/pkg/storage"
)

// RenderRequest is the body of POST /render.
type RenderRequest struct {
	Spec     *plotspec.Spec `json:"spec"`
	Data     string         `json:"data"` // tracking CSV
	Formats  []string       `json:"formats,omitempty"`
	Frame    string         `json:"frame,omitempty"`
	Scale    float64        `json:"scale,omitempty"`
	Tooltips bool           `json:"tooltips,omitempty"`
	Detailed bool           `json:"detailed,omitempty"`
	Refresh  bool           `json:"refresh,omitempty"`
}

// RenderResponse lists the stored artifacts of a render.
type RenderResponse struct {
	Plots    []PlotRef `json:"plots"`
	Rows     int       `json:"rows,omitempty"`
	Figures  int       `json:"figures,omitempty"`
	Frames   int       `json:"frames,omitempty"`
	Cached   bool      `json:"cached"`
	Warnings []string  `json:"warnings,omitempty"`
}

// PlotRef points at one stored artifact.
type PlotRef struct {
	ID     string `json:"id"`
	Format string `json:"format"`
	URL    string `json:"url"`
	Size   int    `json:"size"`
}

// PlotMeta is a stored render without its content.
type PlotMeta struct {
	ID        string     `json:"id"`
	Title     string     `json:"title,omitempty"`
	Format    string     `json:"format"`
	Size      int        `json:"size"`
	Frames    int        `json:"frames,omitempty"`
	Layers    []string   `json:"layers,omitempty"`
	DataHash  string     `json:"data_hash,omitempty"`
	SpecHash  string     `json:"spec_hash,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type errorResponse struct {
	Code    perrors.Code `json:"code"`
	Message string       `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "decode render request"))
		return
	}
	if req.Data == "" {
		s.writeError(w, perrors.New(perrors.ErrCodeInvalidInput, "data is required"))
		return
	}

	ctx := r.Context()
	result, err := s.cfg.Runner.Execute(ctx, pipeline.Options{
		Data:     []byte(req.Data),
		Spec:     req.Spec,
		Formats:  req.Formats,
		Frame:    req.Frame,
		Scale:    req.Scale,
		Tooltips: req.Tooltips,
		Detailed: req.Detailed,
		Refresh:  req.Refresh,
		Logger:   s.cfg.Logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := RenderResponse{
		Rows:    result.Stats.Rows,
		Figures: result.Stats.Figures,
		Frames:  result.Stats.Frames,
		Cached:  result.CacheInfo.RenderHit,
	}
	for _, wn := range result.Warnings {
		resp.Warnings = append(resp.Warnings, wn.Message)
	}
	for _, format := range pipeline.ValidFormats {
		content, ok := result.Artifacts[format]
		if !ok {
			continue
		}
		p := storage.New(format, content, s.cfg.TTL)
		p.Title = req.Spec.Title
		p.DataHash = result.DataHash
		p.SpecHash = result.SpecHash
		p.Frames = result.Stats.Frames
		if err := s.cfg.Store.Put(ctx, p); err != nil {
			s.writeError(w, err)
			return
		}
		observability.Server().OnPlotStored(ctx, p.ID, format, len(content))
		resp.Plots = append(resp.Plots, PlotRef{ID: p.ID, Format: format, URL: "/plots/" + p.ID, Size: len(content)})
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListPlots(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, perrors.New(perrors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	plots, err := s.cfg.Store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]PlotMeta, len(plots))
	for i, p := range plots {
		out[i] = meta(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPlot(w http.ResponseWriter, r *http.Request) {
	p, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentType(p.Format))
	w.Header().Set("Content-Length", strconv.Itoa(len(p.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(p.Content)
}

func (s *Server) handlePlotMeta(w http.ResponseWriter, r *http.Request) {
	p, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meta(p))
}

func (s *Server) handleDeletePlot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := perrors.ValidatePlotID(id); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.cfg.Store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func meta(p *storage.Plot) PlotMeta {
	return PlotMeta{
		ID:        p.ID,
		Title:     p.Title,
		Format:    p.Format,
		Size:      len(p.Content),
		Frames:    p.Frames,
		Layers:    p.Layers,
		DataHash:  p.DataHash,
		SpecHash:  p.SpecHash,
		CreatedAt: p.CreatedAt,
		ExpiresAt: p.ExpiresAt,
	}
}

// statusOf maps an error code to an HTTP status.
func statusOf(err error) int {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge
	}
	switch perrors.GetCode(err) {
	case perrors.ErrCodeNotFound, perrors.ErrCodePlotNotFound, perrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case perrors.ErrCodeInvalidInput, perrors.ErrCodeInvalidFormat, perrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case perrors.ErrCodeConfiguration, perrors.ErrCodeMapping, perrors.ErrCodeLengthMismatch,
		perrors.ErrCodeLookup, perrors.ErrCodeEmptyResult:
		return http.StatusUnprocessableEntity
	case perrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	code := perrors.GetCode(err)
	if code == "" {
		code = perrors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.cfg.Logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: perrors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
