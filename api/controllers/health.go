package controllers

import (
	"net/http"

	"go.uber.org/multierr"

	"github.com/seatstack/backoffice/api/responses"
	"github.com/seatstack/backoffice/pkg/config"
	"github.com/seatstack/backoffice/pkg/db"
	pkgerrors "github.com/seatstack/backoffice/pkg/errors"
	"github.com/seatstack/backoffice/pkg/logger"
	"github.com/seatstack/backoffice/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SeatStack-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the stateful dependencies so load balancers only route to
// instances that can actually serve.
func HealthReady(cfg *config.Config, dbc db.Pinger, cache redis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SeatStack-Env", cfg.App.Env)

		var errs error
		checks := map[string]string{}
		if dbc != nil {
			if err := dbc.Ping(r.Context()); err != nil {
				errs = multierr.Append(errs, err)
				checks["db"] = "down"
			} else {
				checks["db"] = "ok"
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				errs = multierr.Append(errs, err)
				checks["redis"] = "down"
			} else {
				checks["redis"] = "ok"
			}
		}

		if errs != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "readiness check failed").WithDetails(checks))
			return
		}
		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
