package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/provflow/pkg/buildinfo"
	"github.com/matzehuels/provflow/pkg/dataset"
	"github.com/matzehuels/provflow/pkg/errors"
	"github.com/matzehuels/provflow/pkg/flow"
	"github.com/matzehuels/provflow/pkg/flow/perm"
	"github.com/matzehuels/provflow/pkg/pipeline"
	"github.com/matzehuels/provflow/pkg/store"
)

// MinimizeRequest is the body of POST /v1/minimize.
type MinimizeRequest struct {
	Previous flow.Partition `json:"previous"`
	Current  flow.Partition `json:"current"`
	Ordering string         `json:"ordering,omitempty"`
	Limit    int            `json:"limit,omitempty"`
}

// CrossingsRequest is the body of POST /v1/crossings. A missing order means
// the identity.
type CrossingsRequest struct {
	Previous flow.Partition `json:"previous"`
	Current  flow.Partition `json:"current"`
	Order    []int          `json:"order,omitempty"`
}

// CrossingsResponse is the reply of POST /v1/crossings.
type CrossingsResponse struct {
	Crossings int `json:"crossings"`
}

// DiagramRequest is the body of POST /v1/diagrams. Assignments use the
// file format: year → entity id → [x, y, label].
type DiagramRequest struct {
	Name        string            `json:"name,omitempty"`
	Assignments json.RawMessage   `json:"assignments"`
	Names       map[string]string `json:"names,omitempty"`
	Ordering    string            `json:"ordering,omitempty"`
	Limit       int               `json:"limit,omitempty"`
	Width       float64           `json:"width,omitempty"`
	Height      float64           `json:"height,omitempty"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type listResponse struct {
	Diagrams []*store.Record `json:"diagrams"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleMinimize(w http.ResponseWriter, r *http.Request) {
	var req MinimizeRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	opts := pipeline.Options{Ordering: req.Ordering, ExhaustiveLimit: req.Limit}
	opts.SetDefaults()
	if err := opts.ValidateOrdering(); err != nil {
		s.fail(w, r, err)
		return
	}
	o, err := opts.Orderer()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := errors.ValidatePartition(req.Previous, 0); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := errors.ValidatePartition(req.Current, opts.GroupCap()); err != nil {
		s.fail(w, r, err)
		return
	}

	res := o.Order(req.Previous, req.Current)
	s.logger.Debug("minimized", "groups", len(req.Current), "ordering", opts.Ordering,
		"crossings", res.Crossings, "baseline", res.Baseline)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCrossings(w http.ResponseWriter, r *http.Request) {
	var req CrossingsRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	for _, p := range []flow.Partition{req.Previous, req.Current} {
		if err := errors.ValidatePartition(p, 0); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	order := req.Order
	if order == nil {
		order = perm.Seq(len(req.Current))
	}
	if err := errors.ValidateOrder(order, len(req.Current)); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CrossingsResponse{Crossings: flow.CountCrossings(req.Previous, req.Current, order)})
}

func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	var req DiagramRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if len(req.Assignments) == 0 {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "assignments are required"))
		return
	}
	a, err := dataset.DecodeAssignments(bytes.NewReader(req.Assignments), dataset.FormatJSON)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	opts := pipeline.Options{
		Dataset:         a,
		Names:           dataset.Names(req.Names),
		Ordering:        req.Ordering,
		ExhaustiveLimit: req.Limit,
		Width:           req.Width,
		Height:          req.Height,
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	opts.SetDefaults()
	rec := store.NewRecord(req.Name, result.DatasetHash, opts.Ordering, result.Diagram)
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeUnavailable, err, "save diagram"))
		return
	}
	s.logger.Info("stored diagram", "id", rec.ID, "steps", result.Stats.Steps,
		"crossings", result.Stats.Crossings, "cache_hit", result.CacheHit)

	w.Header().Set("Location", "/v1/diagrams/"+rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Diagrams: recs})
}
