package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

func SetupRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log()))

	r.Get("/healthz", s.Healthz)
	r.Get("/canary", s.Canary)
	r.Handle("/metrics", s.Metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Options("/checks/run", s.RunChecksPreflight)

		r.Group(func(r chi.Router) {
			r.Use(requireBearer(s.CronSecret))

			r.Get("/checks/run", s.RunChecks)
			r.Post("/checks/run", s.RunChecks)

			r.Route("/sites", func(r chi.Router) {
				r.Get("/", s.GetSites)
				r.Post("/", s.CreateSite)

				r.Route("/{id}", func(r chi.Router) {
					r.Delete("/", s.DeleteSite)
					r.Get("/checks", s.GetSiteChecks)
				})
			})

			r.Route("/incidents", func(r chi.Router) {
				r.Get("/", s.GetIncidents)
				r.Post("/{id}/resolve", s.ResolveIncident)
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", s.GetContacts)
				r.Post("/", s.CreateContact)
				r.Delete("/{id}", s.DeleteContact)
			})

			r.Put("/settings/canary", s.UpdateCanary)
		})
	})

	return r
}

func requestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  middleware.GetReqID(r.Context()),
			}).Debug("HTTP request")
		})
	}
}
