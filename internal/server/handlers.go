// internal/server/handlers.go
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "workout-service/internal/common/errors"
	"workout-service/internal/storage"
	"workout-service/internal/workout"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error   string `json:"error"`
	Type    string `json:"type"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, message, details string) {
	writeJSON(w, status, errorBody{Error: message, Type: errType, Details: details})
}

// writeGenerationError maps a pipeline error to the HTTP surface. The raw
// upstream payload never reaches the client; details are the bounded
// strings the error constructors attached.
func writeGenerationError(w http.ResponseWriter, err error) {
	var genErr *apperrors.GenerationError
	if !errors.As(err, &genErr) {
		writeError(w, http.StatusInternalServerError, string(apperrors.CodeInternal), "Unexpected error", "")
		return
	}

	status := apperrors.HTTPStatus(genErr.Code)
	if genErr.Code == apperrors.CodeRateLimited && genErr.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(genErr.RetryAfter.Seconds())))
	}
	writeError(w, status, string(genErr.Code), genErr.Message, genErr.Details)
}

type generateRequest struct {
	workout.Request
	Modifier workout.Modifier `json:"modifier,omitempty"`
}

func (s *Server) decodeGenerateBody(w http.ResponseWriter, r *http.Request) (*generateRequest, bool) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, string(apperrors.CodeValidation), "Invalid workout request", "unreadable body")
		return nil, false
	}

	if details, ok := validateGenerateBody(raw); !ok {
		writeError(w, http.StatusBadRequest, string(apperrors.CodeValidation), "Invalid workout request", details)
		return nil, false
	}

	var req generateRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		writeError(w, http.StatusBadRequest, string(apperrors.CodeValidation), "Invalid workout request", err.Error())
		return nil, false
	}
	return &req, true
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeGenerateBody(w, r)
	if !ok {
		return
	}

	plan, err := s.orchestrator.Generate(r.Context(), req.Request, workout.DefaultPreferences())
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	s.persistPlan(r, plan)
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeGenerateBody(w, r)
	if !ok {
		return
	}

	plan, err := s.orchestrator.Regenerate(r.Context(), req.Request, req.Modifier, workout.DefaultPreferences())
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	s.persistPlan(r, plan)
	writeJSON(w, http.StatusOK, plan)
}

// persistPlan stores the generated plan durably and refreshes the
// current-plan tiers. Both are best-effort; generation already succeeded.
func (s *Server) persistPlan(r *http.Request, plan *workout.Plan) {
	ctx := r.Context()
	if err := s.db.SavePlan(ctx, plan); err != nil {
		s.log.Warn("plan persistence failed", map[string]interface{}{
			"planId": plan.ID,
			"error":  err.Error(),
		})
	}
	if res := s.planStore.Save(ctx, plan); !res.Stored {
		s.log.Warn("current-plan store exhausted", map[string]interface{}{
			"planId": plan.ID,
			"reason": res.Reason,
		})
	}
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	plans, err := s.db.ListPlans(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, string(apperrors.CodeInternal), "Could not list plans", "")
		return
	}
	if plans == nil {
		plans = []*workout.Plan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.db.GetPlan(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Plan not found", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, string(apperrors.CodeInternal), "Could not load plan", "")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	err := s.db.DeletePlan(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Plan not found", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, string(apperrors.CodeInternal), "Could not delete plan", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	plan, err := s.db.GetPlan(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Plan not found", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, string(apperrors.CodeInternal), "Could not load plan", "")
		return
	}

	if err := s.db.AddFavorite(r.Context(), plan); err != nil {
		writeError(w, http.StatusInternalServerError, string(apperrors.CodeInternal), "Could not add favorite", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	err := s.db.RemoveFavorite(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Favorite not found", "")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, string(apperrors.CodeInternal), "Could not remove favorite", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := s.db.ListFavorites(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, string(apperrors.CodeInternal), "Could not list favorites", "")
		return
	}
	if favorites == nil {
		favorites = []*workout.Plan{}
	}
	writeJSON(w, http.StatusOK, favorites)
}

func (s *Server) handleRecordHistory(w http.ResponseWriter, r *http.Request) {
	var rec workout.HistoryRecord
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, string(apperrors.CodeValidation), "Invalid history record", err.Error())
		return
	}
	if rec.PlanID == "" {
		writeError(w, http.StatusBadRequest, string(apperrors.CodeValidation), "Invalid history record", "planId is required")
		return
	}
	if rec.Rating < 0 || rec.Rating > 5 {
		writeError(w, http.StatusBadRequest, string(apperrors.CodeValidation), "Invalid history record", "rating must be between 1 and 5")
		return
	}

	if err := s.db.RecordHistory(r.Context(), &rec); err != nil {
		writeError(w, http.StatusInternalServerError, string(apperrors.CodeInternal), "Could not record history", "")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := s.db.ListHistory(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, string(apperrors.CodeInternal), "Could not list history", "")
		return
	}
	if records == nil {
		records = []workout.HistoryRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleLoadCurrentPlan(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.planStore.Load(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No current plan stored", "")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleSaveCurrentPlan(w http.ResponseWriter, r *http.Request) {
	var plan workout.Plan
	if err := json.NewDecoder(io.LimitReader(r.Body, 16<<20)).Decode(&plan); err != nil {
		writeError(w, http.StatusBadRequest, string(apperrors.CodeValidation), "Invalid plan body", err.Error())
		return
	}
	if plan.ID == "" || len(plan.Exercises) == 0 {
		writeError(w, http.StatusBadRequest, string(apperrors.CodeValidation), "Invalid plan body", "id and exercises are required")
		return
	}

	res := s.planStore.Save(r.Context(), &plan)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleClearCurrentPlan(w http.ResponseWriter, r *http.Request) {
	s.planStore.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecentErrors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recent": s.orchestrator.Errors().Recent(),
		"counts": s.orchestrator.Errors().Stats(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)}
	if err := s.redis.Ping(r.Context()); err != nil {
		status["redis"] = "unreachable"
	}
	writeJSON(w, http.StatusOK, status)
}
