package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/jyl33/cardscanner-backend/api/responses"
	"github.com/jyl33/cardscanner-backend/pkg/config"
	pkgerrors "github.com/jyl33/cardscanner-backend/pkg/errors"
	"github.com/jyl33/cardscanner-backend/pkg/logger"
)

const envHeader = "X-CardScanner-Env"

// Pinger is the health-check surface shared by the db and redis clients.
type Pinger interface {
	Ping(context.Context) error
}

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the backing stores are reachable.
func HealthReady(cfg *config.Config, logg *logger.Logger, db Pinger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true
		for name, pinger := range map[string]Pinger{"database": db, "redis": cache} {
			if pinger == nil {
				checks[name] = "not configured"
				healthy = false
				continue
			}
			if err := pinger.Ping(ctx); err != nil {
				checks[name] = err.Error()
				healthy = false
				continue
			}
			checks[name] = "ok"
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").
				WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
