package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"workshop-voice-assistant/internal/domain"
	"workshop-voice-assistant/internal/domain/model"
	"workshop-voice-assistant/internal/infra/logging"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

type processTextRequest struct {
	Text    string                 `json:"text"`
	History []model.HistoryMessage `json:"history"`
}

type synthesizeRequest struct {
	Text string `json:"text"`
}

type createJobRequest struct {
	CustomerName *string  `json:"customer_name"`
	MotorSpecs   string   `json:"motor_specs"`
	Price        *float64 `json:"price"`
}

type jobList struct {
	Items []*model.Job `json:"items"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}

// handleProcessText always answers with a speakable {"reply"}; failures use the
// fallback sentence with status 500.
func (s *Server) handleProcessText(w http.ResponseWriter, r *http.Request) {
	var req processTextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		l := logging.With(r.Context(), s.log)
		l.Warn().Err(err).Msg("process_text: bad request body")
		writeJSON(w, http.StatusInternalServerError, model.Reply{Reply: model.ReplyFallback})
		return
	}

	reply, err := s.turns.HandleTurn(r.Context(), req.Text, req.History)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, reply)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req synthesizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "No text provided"})
		return
	}

	audio, err := s.speech.Synthesize(r.Context(), req.Text)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "No text provided"})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to synthesize speech"})
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

// GET /api/v1/jobs[?status=pending]
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	var (
		jobs []*model.Job
		err  error
	)
	if strings.EqualFold(r.URL.Query().Get("status"), string(model.JobStatusPending)) {
		jobs, err = s.jobs.ListPending(r.Context())
	} else {
		jobs, err = s.jobs.List(r.Context())
	}
	if err != nil {
		s.writeJobError(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []*model.Job{}
	}
	writeJSON(w, http.StatusOK, jobList{Items: jobs})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid job id"})
		return
	}
	job, err := s.jobs.Get(r.Context(), id)
	if err != nil {
		s.writeJobError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	job, err := s.jobs.Create(r.Context(), req.CustomerName, req.MotorSpecs, req.Price)
	if err != nil {
		s.writeJobError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) writeJobError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "job not found"})
	case errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	default:
		l := logging.With(r.Context(), s.log)
		l.Error().Err(err).Msg("job api failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
