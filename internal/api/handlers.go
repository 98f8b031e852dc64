package api

import (
	"net/http"

	"github.com/danieljhkim/previewdeck/internal/engine"
	"github.com/danieljhkim/previewdeck/internal/factory"
	"github.com/danieljhkim/previewdeck/internal/grace"
	"github.com/danieljhkim/previewdeck/internal/resolver"
	"github.com/go-chi/chi/v5"
)

// GraceStatus is the undo countdown for one batch.
type GraceStatus struct {
	BatchID          string `json:"batchId"`
	SecondsRemaining int    `json:"secondsRemaining"`
	UndoOffered      bool   `json:"undoOffered"`
}

// SelectionResponse lists the selected actions of a batch.
type SelectionResponse struct {
	BatchID   string   `json:"batchId"`
	ActionIDs []string `json:"actionIds"`
}

type applyBody struct {
	ActionIDs []string `json:"actionIds,omitempty"`
}

type applyFailedBody struct {
	Reason string `json:"reason"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getState(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.manager.State())
}

func (s *Server) proposeBatch(w http.ResponseWriter, r *http.Request) {
	var p factory.Proposal
	if err := decodeBody(r, &p); err != nil {
		respondError(w, err)
		return
	}

	b, err := s.builder.Build(p)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := s.manager.AddBatch(r.Context(), b); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

func (s *Server) applyBatch(w http.ResponseWriter, r *http.Request) {
	var body applyBody
	if err := decodeBody(r, &body); err != nil {
		respondError(w, err)
		return
	}

	res, err := s.manager.Apply(r.Context(), &engine.ApplyRequest{
		BatchID:   chi.URLParam(r, "batchID"),
		ActionIDs: body.ActionIDs,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) dismissBatch(w http.ResponseWriter, r *http.Request) {
	res, err := s.manager.Dismiss(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) undoBatch(w http.ResponseWriter, r *http.Request) {
	res, err := s.manager.Undo(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) redoBatch(w http.ResponseWriter, r *http.Request) {
	res, err := s.manager.Redo(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) selectBatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "batchID")
	if err := s.manager.SelectBatch(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"selectedBatchId": id})
}

func (s *Server) autoResolve(w http.ResponseWriter, r *http.Request) {
	res, err := s.manager.AutoResolve(r.Context(), chi.URLParam(r, "batchID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) applyFailed(w http.ResponseWriter, r *http.Request) {
	var body applyFailedBody
	if err := decodeBody(r, &body); err != nil {
		respondError(w, err)
		return
	}

	err := s.manager.ReportApplyFailed(r.Context(), &engine.ApplyFailedRequest{
		BatchID: chi.URLParam(r, "batchID"),
		Reason:  body.Reason,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) graceStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "batchID")
	respondJSON(w, http.StatusOK, GraceStatus{
		BatchID:          id,
		SecondsRemaining: grace.Seconds(s.manager.GraceRemaining(id)),
		UndoOffered:      s.manager.UndoOffered(id),
	})
}

func (s *Server) getSelection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "batchID")
	ids, err := s.manager.Selection(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SelectionResponse{BatchID: id, ActionIDs: ids})
}

func (s *Server) toggleAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "batchID")
	ids, err := s.manager.SelectAction(r.Context(), id, chi.URLParam(r, "actionID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SelectionResponse{BatchID: id, ActionIDs: ids})
}

func (s *Server) resolveConflict(w http.ResponseWriter, r *http.Request) {
	var res resolver.Resolution
	if err := decodeBody(r, &res); err != nil {
		respondError(w, err)
		return
	}

	out, err := s.manager.ResolveConflict(r.Context(), &engine.ResolveRequest{
		ConflictID: chi.URLParam(r, "conflictID"),
		Resolution: res,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}
