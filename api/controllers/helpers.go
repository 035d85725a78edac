package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/seatstack/backoffice/api/middleware"
	"github.com/seatstack/backoffice/api/validators"
	pkgerrors "github.com/seatstack/backoffice/pkg/errors"
	"github.com/seatstack/backoffice/pkg/pagination"
)

// orgFromRequest resolves the authenticated organization id seeded by the auth
// middleware.
func orgFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.OrgIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid organization id")
	}
	return id, nil
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}, nil
}

// parseUUIDQuery validates a uuid query parameter value.
func parseUUIDQuery(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a uuid").
			WithDetails(map[string]any{"field": field})
	}
	return id, nil
}

// optionalGameID parses the game_id query parameter, nil when absent.
func optionalGameID(r *http.Request) (*int64, error) {
	value, err := validators.ParseQueryInt64(r, "game_id")
	if err != nil {
		return nil, err
	}
	if value == 0 {
		return nil, nil
	}
	return &value, nil
}
