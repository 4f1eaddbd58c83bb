package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kolmedia/talentsync/internal/migrate"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API backing the migration UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close(ctx)

		origins := cfg.Server.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			respond(w, map[string]string{"status": "ok"})
		})

		r.Route("/api", func(r chi.Router) {
			r.Get("/projects", func(w http.ResponseWriter, req *http.Request) {
				overviews, err := env.Pipeline.ListSourceProjects(req.Context())
				if err != nil {
					respondErr(w, err)
					return
				}
				respond(w, overviews)
			})

			r.Get("/projects/{id}/history", func(w http.ResponseWriter, req *http.Request) {
				entries, err := env.Pipeline.History(req.Context(), chi.URLParam(req, "id"))
				if err != nil {
					respondErr(w, err)
					return
				}
				respond(w, entries)
			})

			r.Post("/projects/{id}/validate-talents", func(w http.ResponseWriter, req *http.Request) {
				result, err := env.Pipeline.ValidateTalents(req.Context(), chi.URLParam(req, "id"))
				if err != nil {
					respondErr(w, err)
					return
				}
				respond(w, result)
			})

			r.Post("/projects/{id}/migrate", func(w http.ResponseWriter, req *http.Request) {
				var body struct {
					CustomerID string `json:"customerId"`
				}
				if !decode(w, req, &body) {
					return
				}
				result, err := env.Pipeline.MigrateProject(req.Context(), chi.URLParam(req, "id"), body.CustomerID)
				if err != nil {
					respondErr(w, err)
					return
				}
				respond(w, result)
			})

			r.Post("/projects/{id}/collaborations", func(w http.ResponseWriter, req *http.Request) {
				var body struct {
					TargetProjectID string            `json:"targetProjectId"`
					IdentityMapping map[string]string `json:"identityMapping"`
				}
				if !decode(w, req, &body) {
					return
				}
				result, err := env.Pipeline.MigrateCollaborations(req.Context(), chi.URLParam(req, "id"), body.TargetProjectID, body.IdentityMapping)
				if err != nil {
					respondErr(w, err)
					return
				}
				respond(w, result)
			})

			r.Post("/projects/{id}/effects", func(w http.ResponseWriter, req *http.Request) {
				var body struct {
					CollaborationMapping map[string]string `json:"collaborationMapping"`
				}
				if !decode(w, req, &body) {
					return
				}
				result, err := env.Pipeline.MigrateEffects(req.Context(), chi.URLParam(req, "id"), body.CollaborationMapping)
				if err != nil {
					respondErr(w, err)
					return
				}
				respond(w, result)
			})

			r.Post("/projects/{id}/daily-stats", func(w http.ResponseWriter, req *http.Request) {
				var body struct {
					CollaborationMapping map[string]string `json:"collaborationMapping"`
					TrackingStatus       string            `json:"trackingStatus"`
				}
				if !decode(w, req, &body) {
					return
				}
				result, err := env.Pipeline.MigrateDailyStats(req.Context(), chi.URLParam(req, "id"), body.CollaborationMapping, body.TrackingStatus)
				if err != nil {
					respondErr(w, err)
					return
				}
				respond(w, result)
			})

			r.Post("/validate", func(w http.ResponseWriter, req *http.Request) {
				var body struct {
					SourceProjectID string `json:"sourceProjectId"`
					TargetProjectID string `json:"targetProjectId"`
				}
				if !decode(w, req, &body) {
					return
				}
				result, err := env.Pipeline.ValidateMigration(req.Context(), body.SourceProjectID, body.TargetProjectID)
				if err != nil {
					respondErr(w, err)
					return
				}
				respond(w, result)
			})

			r.Post("/rollback", func(w http.ResponseWriter, req *http.Request) {
				var body struct {
					TargetProjectID string `json:"targetProjectId"`
				}
				if !decode(w, req, &body) {
					return
				}
				result, err := env.Pipeline.RollbackMigration(req.Context(), body.TargetProjectID)
				if err != nil {
					respondErr(w, err)
					return
				}
				respond(w, result)
			})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// envelope is the uniform response shape the migration UI consumes.
type envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Unmatched any    `json:"unmatched,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func respond(w http.ResponseWriter, data any) {
	writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: data})
}

// respondErr maps the structured failure modes onto HTTP statuses. Anything
// unrecognized is a 500 with the wrapped message logged server-side only.
func respondErr(w http.ResponseWriter, err error) {
	var (
		validation *migrate.ValidationError
		notFound   *migrate.NotFoundError
		unmatched  *migrate.UnmatchedError
	)
	switch {
	case errors.As(err, &validation):
		writeEnvelope(w, http.StatusBadRequest, envelope{Message: validation.Error()})
	case errors.As(err, &notFound):
		writeEnvelope(w, http.StatusNotFound, envelope{Message: notFound.Error()})
	case errors.As(err, &unmatched):
		writeEnvelope(w, http.StatusConflict, envelope{Message: unmatched.Error(), Unmatched: unmatched.Unmatched})
	default:
		zap.L().Error("request failed", zap.Error(err))
		writeEnvelope(w, http.StatusInternalServerError, envelope{Message: "internal error"})
	}
}

func decode(w http.ResponseWriter, req *http.Request, v any) bool {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope{Message: "invalid request body"})
		return false
	}
	return true
}
