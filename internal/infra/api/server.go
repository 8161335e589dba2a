package api

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"workshop-voice-assistant/internal/domain/model"
	"workshop-voice-assistant/internal/domain/ports/adapter"
	"workshop-voice-assistant/internal/infra/metrics"
	"workshop-voice-assistant/internal/usecase"
)

//go:embed static
var staticFiles embed.FS

// Options are the HTTP edge settings; zero values disable the feature.
type Options struct {
	RequestTimeout time.Duration
	RateLimit      int
	RateWindow     time.Duration
}

// Server exposes the voice endpoints, the admin job API and ops routes.
type Server struct {
	turns   usecase.TurnUseCase
	speech  usecase.SpeechUseCase
	jobs    usecase.JobUseCase
	limiter adapter.RateLimiter // nil disables rate limiting
	auth    *AuthManager        // nil disables /api/v1
	opts    Options
	log     *zerolog.Logger
}

func NewServer(
	turns usecase.TurnUseCase,
	speech usecase.SpeechUseCase,
	jobs usecase.JobUseCase,
	limiter adapter.RateLimiter,
	auth *AuthManager,
	opts Options,
	logger *zerolog.Logger,
) *Server {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Server{
		turns:   turns,
		speech:  speech,
		jobs:    jobs,
		limiter: limiter,
		auth:    auth,
		opts:    opts,
		log:     logger,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(TraceID())
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log, internalError))
	if s.opts.RequestTimeout > 0 {
		r.Use(Timeout(s.opts.RequestTimeout))
	}

	static, _ := fs.Sub(staticFiles, "static")
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, static, "index.html")
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.With(Recover(s.log, turnFailed), RateLimit(s.limiter, s.opts.RateLimit, s.opts.RateWindow, s.log, denyTurn)).
		Post("/process_text", s.handleProcessText)
	r.With(RateLimit(s.limiter, s.opts.RateLimit, s.opts.RateWindow, s.log, denySynthesis)).
		Post("/synthesize", s.handleSynthesize)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	if s.auth != nil {
		r.Route("/api/v1/jobs", func(r chi.Router) {
			r.Use(s.auth.Middleware)
			r.Get("/", s.handleListJobs)
			r.Post("/", s.handleCreateJob)
			r.Get("/{id}", s.handleGetJob)
		})
	}
	return r
}

func internalError(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func turnFailed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusInternalServerError, model.Reply{Reply: model.ReplyFallback})
}

func denyTurn(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusTooManyRequests, model.Reply{Reply: model.ReplyFallback})
}

func denySynthesis(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "Too many requests"})
}
