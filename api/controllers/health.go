package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/mokolo-app/mokolo-backend/api/responses"
	"github.com/mokolo-app/mokolo-backend/pkg/config"
	"github.com/mokolo-app/mokolo-backend/pkg/logger"
)

const readyCheckTimeout = 3 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Mokolo-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing dependency and reports per-dependency
// status. Any failure yields a 503 so the load balancer stops routing here.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, redis, storage Pinger) http.HandlerFunc {
	checks := []struct {
		name string
		dep  Pinger
	}{
		{"database", db},
		{"redis", redis},
		{"storage", storage},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Mokolo-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		status := map[string]string{}
		healthy := true
		for _, check := range checks {
			if check.dep == nil {
				continue
			}
			if err := check.dep.Ping(ctx); err != nil {
				healthy = false
				status[check.name] = "down"
				if logg != nil {
					logg.Error(r.Context(), "readiness check failed for "+check.name, err)
				}
				continue
			}
			status[check.name] = "up"
		}

		if !healthy {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
