package http

import (
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashcare/hashcare/pkg/usecase"
	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/hashcare/hashcare/pkg/utils/safe"
)

type Server struct {
	router   *chi.Mux
	uc       *usecase.UseCases
	staticFS fs.FS
	hub      *Hub
}

type Options func(*Server)

// WithStatic serves a single page app from staticFS for every path that is
// not an API route
func WithStatic(staticFS fs.FS) Options {
	return func(s *Server) {
		s.staticFS = staticFS
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = NewHub(uc.Bus)

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", s.listNotifications)
			r.Post("/", s.publishNotification)
			r.Delete("/", s.clearNotifications)
			r.Get("/toasts", s.listToasts)
			r.Post("/read-all", s.markAllRead)
			r.Post("/{id}/read", s.markRead)
			r.Delete("/{id}", s.removeNotification)
			r.Delete("/{id}/toast", s.dismissToast)
		})

		r.Route("/fleet", func(r chi.Router) {
			r.Get("/", s.getFleet)
			r.Get("/map", s.getFleetMap)
			r.Post("/jobs", s.addJob)
			r.Post("/jobs/{id}/complete", s.completeJob)
			r.Post("/dispatch", s.dispatch)
			r.Post("/triage", s.triage)
		})

		r.Route("/hospital", func(r chi.Router) {
			r.Get("/", s.getHospital)
			r.Post("/beds/{id}/assign", s.assignBed)
			r.Post("/beds/{id}/discharge", s.dischargeBed)
			r.Post("/inventory/{id}/restock", s.restock)
			r.Get("/procurement", s.procurementPlan)
			r.Post("/procure", s.procure)
			r.Post("/alerts/{id}/resolve", s.resolveAlert)
			r.Post("/staff/{id}/status", s.updateStaffStatus)
		})

		r.Route("/vitals", func(r chi.Router) {
			r.Get("/", s.getVitals)
			r.Post("/", s.recordVitals)
			r.Get("/export", s.exportVitals)
		})

		r.Route("/agent", func(r chi.Router) {
			r.Use(agentMiddleware(uc))
			r.Get("/", s.getAgent)
			r.Get("/report", s.dailyReport)
			r.Post("/scenarios/{id}", s.triggerScenario)
			r.Delete("/runs/{id}", s.cancelRun)
			r.Post("/actions/{id}/execute", s.executeAction)
			r.Post("/actions/{id}/reject", s.rejectAction)
			r.Post("/documents", s.uploadDocument)
			r.Post("/transcripts", s.processTranscript)
			r.Patch("/memories/{id}", s.updateMemory)
			r.Post("/memories/{id}/ignore", s.ignoreMemory)
		})

		r.Post("/chat", s.chat)
		r.Post("/healthbot", s.healthBot)
		r.Get("/tip", s.dailyTip)
		r.Get("/hospitals", s.nearbyHospitals)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.login)
			r.Post("/register", s.register)
			r.Get("/profile/{email}", s.getProfile)
			r.Patch("/profile/{email}", s.updateProfile)
		})
	})

	r.Get("/ws", s.hub.ServeHTTP)

	// Static file serving for SPA (catch-all, must be last)
	if s.staticFS != nil {
		r.Get("/*", spaHandler(s.staticFS))
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close disconnects every websocket client
func (s *Server) Close() {
	s.hub.Close()
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

// spaHandler handles SPA routing by serving static files and falling back to index.html
func spaHandler(staticFS fs.FS) http.HandlerFunc {
	fileServer := http.FileServer(http.FS(staticFS))

	return func(w http.ResponseWriter, r *http.Request) {
		urlPath := strings.TrimPrefix(r.URL.Path, "/")

		// If the path is empty, serve index.html
		if urlPath == "" {
			urlPath = "index.html"
		}

		if file, err := staticFS.Open(urlPath); err != nil {
			// File not found, serve index.html for SPA routing
			index, err := fs.ReadFile(staticFS, "index.html")
			if err != nil {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			safe.Write(r.Context(), w, index)
			return
		} else {
			safe.Close(r.Context(), file)
		}

		fileServer.ServeHTTP(w, r)
	}
}
