package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/theirongolddev/proplife/internal/finance"
	"github.com/theirongolddev/proplife/internal/lifecycle"
	"github.com/theirongolddev/proplife/internal/model"
	"github.com/theirongolddev/proplife/internal/portfolio"
	"github.com/theirongolddev/proplife/internal/store"
)

type listResponse struct {
	Items  []model.Snapshot           `json:"items"`
	Total  int                        `json:"total"`
	Counts map[model.WorkflowType]int `json:"counts"`
}

type propertyResponse struct {
	Snapshot    model.Snapshot        `json:"snapshot"`
	StageConfig lifecycle.StageConfig `json:"stage_config"`
}

type financeResponse struct {
	PropertyID string                 `json:"property_id"`
	Summaries  []model.FinanceSummary `json:"summaries"`
}

type stageUpdateRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func filterFromQuery(r *http.Request) portfolio.Filter {
	q := r.URL.Query()
	f := portfolio.Filter{
		Pipeline: q.Get("pipeline"),
		Status:   q.Get("status"),
		Search:   q.Get("q"),
	}
	if types := q.Get("type"); types != "" {
		for _, t := range strings.Split(types, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.Types = append(f.Types, t)
			}
		}
	}
	return f
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"started_at": s.startedAt,
	})
}

func (s *Service) loadFiltered(w http.ResponseWriter, r *http.Request) ([]model.Snapshot, portfolio.Filter, bool) {
	f := filterFromQuery(r)
	if err := f.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, f, false
	}

	result, err := portfolio.Load(r.Context(), s.repo, s.engine, nil)
	if err != nil {
		s.log.Error("loading portfolio", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load properties")
		return nil, f, false
	}
	return portfolio.Apply(result.Snapshots, f.WithoutPipeline()), f, true
}

func (s *Service) handleListProperties(w http.ResponseWriter, r *http.Request) {
	base, f, ok := s.loadFiltered(w, r)
	if !ok {
		return
	}
	items := portfolio.Apply(base, f)
	if items == nil {
		items = []model.Snapshot{}
	}
	writeJSON(w, http.StatusOK, listResponse{
		Items:  items,
		Total:  len(items),
		Counts: portfolio.CountSnapshots(base),
	})
}

func (s *Service) handleCounts(w http.ResponseWriter, r *http.Request) {
	base, _, ok := s.loadFiltered(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, portfolio.CountSnapshots(base))
}

func (s *Service) handleStageConfig(w http.ResponseWriter, r *http.Request) {
	wt := model.WorkflowType(chi.URLParam(r, "workflow"))
	if !wt.Valid() {
		writeError(w, http.StatusNotFound, "unknown workflow")
		return
	}
	writeJSON(w, http.StatusOK, s.engine.StageConfigFor(wt))
}

// snapshotFor evaluates one property, reading only the stages of its workflow.
func (s *Service) snapshotFor(r *http.Request, id string) (model.Snapshot, error) {
	p, err := s.repo.GetProperty(r.Context(), id)
	if err != nil {
		return model.Snapshot{}, err
	}
	byKind := make(map[model.PipelineKind][]model.PipelineStageData)
	if kind, ok := lifecycle.KindFor(lifecycle.Classify(p)); ok {
		stages, err := s.repo.ListStages(r.Context(), id, kind)
		if err != nil {
			return model.Snapshot{}, err
		}
		byKind[kind] = stages
	}
	return s.engine.Evaluate(p, byKind), nil
}

func (s *Service) writeLookupError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "property not found")
		return
	}
	s.log.Error(what, "err", err)
	writeError(w, http.StatusInternalServerError, "failed to "+what)
}

func (s *Service) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "propertyID")
	snap, err := s.snapshotFor(r, id)
	if err != nil {
		s.writeLookupError(w, err, "load property")
		return
	}
	writeJSON(w, http.StatusOK, propertyResponse{
		Snapshot:    snap,
		StageConfig: s.engine.StageConfigFor(snap.Workflow),
	})
}

func (s *Service) handleFinance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "propertyID")
	if _, err := s.repo.GetProperty(r.Context(), id); err != nil {
		s.writeLookupError(w, err, "load property")
		return
	}
	ledger, err := s.repo.Ledger(r.Context(), id)
	if err != nil {
		s.writeLookupError(w, err, "load ledger")
		return
	}
	writeJSON(w, http.StatusOK, financeResponse{
		PropertyID: id,
		Summaries:  finance.SummarizeLedger(s.engine.Catalog(), ledger),
	})
}

func (s *Service) handlePutStage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "propertyID")
	stageID, err := strconv.Atoi(chi.URLParam(r, "stageID"))
	if err != nil || stageID < 1 {
		writeError(w, http.StatusBadRequest, "invalid stage id")
		return
	}

	var req stageUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	snap, err := s.snapshotFor(r, id)
	if err != nil {
		s.writeLookupError(w, err, "load property")
		return
	}
	if !snap.HasPipeline() {
		writeError(w, http.StatusConflict, "property has no active pipeline")
		return
	}

	// Writes always persist the full pipeline so stage ids stay gap free.
	stages, err := s.engine.FillStages(snap.Kind, id, snap.Stages, s.now())
	if err != nil {
		s.writeLookupError(w, err, "fill stages")
		return
	}
	current := model.PipelineStageData{PropertyID: id, Kind: snap.Kind, StageID: stageID}
	idx := -1
	for i, st := range stages {
		if st.StageID == stageID {
			current, idx = st, i
			break
		}
	}

	updated, err := s.engine.ApplyStatus(current, req.Status, s.now())
	switch {
	case errors.Is(err, lifecycle.ErrUnknownStage):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, lifecycle.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.writeLookupError(w, err, "apply status")
		return
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}

	stages[idx] = updated

	if err := s.repo.SaveStages(r.Context(), stages); err != nil {
		s.writeLookupError(w, err, "save stage")
		return
	}

	after, err := s.snapshotFor(r, id)
	if err != nil {
		s.writeLookupError(w, err, "load property")
		return
	}
	s.log.Info("stage updated", "property", id, "kind", snap.Kind, "stage", stageID, "status", req.Status)
	s.publishEvent(Event{
		Type:       "stage_updated",
		Timestamp:  s.now(),
		PropertyID: id,
		StageID:    stageID,
		Status:     req.Status,
		Snapshot:   after,
	})
	writeJSON(w, http.StatusOK, after)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.recentEvents())
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	writeSSE(w, Event{Type: "hello", Timestamp: time.Now()})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
