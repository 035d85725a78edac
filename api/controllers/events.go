package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/seatstack/backoffice/api/responses"
	"github.com/seatstack/backoffice/api/validators"
	"github.com/seatstack/backoffice/internal/fixtures"
	pkgerrors "github.com/seatstack/backoffice/pkg/errors"
	"github.com/seatstack/backoffice/pkg/logger"
	"github.com/seatstack/backoffice/pkg/sportsdata"
)

// EventsList proxies the upstream fixtures lookup for the dashboard's event
// pickers.
func EventsList(svc fixtures.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := fixturesQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, results)
	}
}

func fixturesQuery(r *http.Request) (sportsdata.FixturesQuery, error) {
	q := sportsdata.FixturesQuery{
		Date:     strings.TrimSpace(r.URL.Query().Get("date")),
		Search:   validators.SanitizeString(r.URL.Query().Get("search"), 80),
		Timezone: strings.TrimSpace(r.URL.Query().Get("timezone")),
	}

	var err error
	if q.League, err = validators.ParseQueryInt64(r, "league"); err != nil {
		return q, err
	}
	if q.Team, err = validators.ParseQueryInt64(r, "team"); err != nil {
		return q, err
	}
	if q.Season, err = validators.ParseQueryInt(r, "season", 0, 0, 2100); err != nil {
		return q, err
	}
	if q.Next, err = validators.ParseQueryInt(r, "next", 0, 0, 99); err != nil {
		return q, err
	}
	if q.Last, err = validators.ParseQueryInt(r, "last", 0, 0, 99); err != nil {
		return q, err
	}
	return q, nil
}

// EventGet returns one fixture by its upstream id.
func EventGet(svc fixtures.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "eventID")
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "event id must be numeric"))
			return
		}

		result, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// LeaguesList proxies the competitions lookup.
func LeaguesList(svc fixtures.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := sportsdata.LeaguesQuery{
			Search:  validators.SanitizeString(r.URL.Query().Get("search"), 80),
			Country: strings.TrimSpace(r.URL.Query().Get("country")),
		}
		var err error
		if query.ID, err = validators.ParseQueryInt64(r, "id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if query.Season, err = validators.ParseQueryInt(r, "season", 0, 0, 2100); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results, err := svc.Leagues(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, results)
	}
}

// TeamsList proxies the clubs lookup.
func TeamsList(svc fixtures.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := sportsdata.TeamsQuery{
			Search: validators.SanitizeString(r.URL.Query().Get("search"), 80),
		}
		var err error
		if query.ID, err = validators.ParseQueryInt64(r, "id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if query.League, err = validators.ParseQueryInt64(r, "league"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if query.Season, err = validators.ParseQueryInt(r, "season", 0, 0, 2100); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results, err := svc.Teams(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, results)
	}
}
