package fixtures

import (
	"context"
	"testing"

	pkgerrors "github.com/seatstack/backoffice/pkg/errors"
	"github.com/seatstack/backoffice/pkg/sportsdata"
)

type fakeLookup struct {
	fixturesCalls int
	lastQuery     sportsdata.FixturesQuery
	fixtures      []sportsdata.FixtureResult
}

func (f *fakeLookup) Fixtures(ctx context.Context, q sportsdata.FixturesQuery) ([]sportsdata.FixtureResult, error) {
	f.fixturesCalls++
	f.lastQuery = q
	return f.fixtures, nil
}

func (f *fakeLookup) FixtureByID(ctx context.Context, id int64) (*sportsdata.FixtureResult, error) {
	if len(f.fixtures) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "fixture not found")
	}
	return &f.fixtures[0], nil
}

func (f *fakeLookup) Leagues(ctx context.Context, q sportsdata.LeaguesQuery) ([]sportsdata.LeagueResult, error) {
	return nil, nil
}

func (f *fakeLookup) Teams(ctx context.Context, q sportsdata.TeamsQuery) ([]sportsdata.TeamResult, error) {
	return nil, nil
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error with code %s, got %v", code, err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s", code, typed.Code())
	}
}

func TestListRequiresAFilter(t *testing.T) {
	fake := &fakeLookup{}
	svc, err := NewService(fake)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.List(context.Background(), sportsdata.FixturesQuery{})
	expectCode(t, err, pkgerrors.CodeValidation)
	if fake.fixturesCalls != 0 {
		t.Fatalf("upstream should not be called on validation failure")
	}

	if _, err := svc.List(context.Background(), sportsdata.FixturesQuery{League: 39, Season: 2026}); err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if fake.fixturesCalls != 1 {
		t.Fatalf("expected one upstream call, got %d", fake.fixturesCalls)
	}
}

func TestListRejectsBadDate(t *testing.T) {
	svc, err := NewService(&fakeLookup{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.List(context.Background(), sportsdata.FixturesQuery{Date: "27-08-2026"})
	expectCode(t, err, pkgerrors.CodeValidation)

	if _, err := svc.List(context.Background(), sportsdata.FixturesQuery{Date: "2026-08-27"}); err != nil {
		t.Fatalf("valid date: %v", err)
	}
}

func TestGetValidatesID(t *testing.T) {
	svc, err := NewService(&fakeLookup{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Get(context.Background(), 0)
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Get(context.Background(), 77)
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestTeamsRequiresAFilter(t *testing.T) {
	svc, err := NewService(&fakeLookup{})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Teams(context.Background(), sportsdata.TeamsQuery{})
	expectCode(t, err, pkgerrors.CodeValidation)

	if _, err := svc.Teams(context.Background(), sportsdata.TeamsQuery{Search: "arsenal"}); err != nil {
		t.Fatalf("teams search: %v", err)
	}
}
