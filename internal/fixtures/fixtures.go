package fixtures

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/seatstack/backoffice/pkg/errors"
	"github.com/seatstack/backoffice/pkg/sportsdata"
)

// Lookup is the slice of the sports data client this service needs. The
// concrete client satisfies it; tests substitute a fake.
type Lookup interface {
	Fixtures(ctx context.Context, q sportsdata.FixturesQuery) ([]sportsdata.FixtureResult, error)
	FixtureByID(ctx context.Context, id int64) (*sportsdata.FixtureResult, error)
	Leagues(ctx context.Context, q sportsdata.LeaguesQuery) ([]sportsdata.LeagueResult, error)
	Teams(ctx context.Context, q sportsdata.TeamsQuery) ([]sportsdata.TeamResult, error)
}

// Service exposes upstream match data to the dashboard.
type Service interface {
	List(ctx context.Context, q sportsdata.FixturesQuery) ([]sportsdata.FixtureResult, error)
	Get(ctx context.Context, id int64) (*sportsdata.FixtureResult, error)
	Leagues(ctx context.Context, q sportsdata.LeaguesQuery) ([]sportsdata.LeagueResult, error)
	Teams(ctx context.Context, q sportsdata.TeamsQuery) ([]sportsdata.TeamResult, error)
}

type service struct {
	client Lookup
}

// NewService builds the fixtures lookup service.
func NewService(client Lookup) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("sportsdata client required")
	}
	return &service{client: client}, nil
}

func (s *service) List(ctx context.Context, q sportsdata.FixturesQuery) ([]sportsdata.FixtureResult, error) {
	if q.Date != "" {
		if _, err := time.Parse("2006-01-02", q.Date); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be formatted YYYY-MM-DD")
		}
	}
	if q.ID == 0 && q.Date == "" && q.League == 0 && q.Team == 0 && q.Search == "" && q.Next == 0 && q.Last == 0 {
		// An unfiltered fixtures call would page through the entire upstream
		// catalogue; require at least one filter.
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one filter is required")
	}
	return s.client.Fixtures(ctx, q)
}

func (s *service) Get(ctx context.Context, id int64) (*sportsdata.FixtureResult, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fixture id must be positive")
	}
	return s.client.FixtureByID(ctx, id)
}

func (s *service) Leagues(ctx context.Context, q sportsdata.LeaguesQuery) ([]sportsdata.LeagueResult, error) {
	return s.client.Leagues(ctx, q)
}

func (s *service) Teams(ctx context.Context, q sportsdata.TeamsQuery) ([]sportsdata.TeamResult, error) {
	if q.ID == 0 && q.Search == "" && q.League == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one filter is required")
	}
	return s.client.Teams(ctx, q)
}
