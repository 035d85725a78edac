package sportsdata

import "time"

// Fixture is a single scheduled or played match.
type Fixture struct {
	ID        int64         `json:"id"`
	Referee   string        `json:"referee"`
	Timezone  string        `json:"timezone"`
	Date      time.Time     `json:"date"`
	Timestamp int64         `json:"timestamp"`
	Venue     Venue         `json:"venue"`
	Status    FixtureStatus `json:"status"`
}

type Venue struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

type FixtureStatus struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

type League struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Logo    string `json:"logo"`
	Flag    string `json:"flag"`
	Season  int    `json:"season"`
	Round   string `json:"round"`
}

type Team struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Winner *bool  `json:"winner"`
}

type FixtureTeams struct {
	Home Team `json:"home"`
	Away Team `json:"away"`
}

type Goals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// FixtureResult is one element of the fixtures response array.
type FixtureResult struct {
	Fixture Fixture      `json:"fixture"`
	League  League       `json:"league"`
	Teams   FixtureTeams `json:"teams"`
	Goals   Goals        `json:"goals"`
}

// LeagueResult is one element of the leagues response array.
type LeagueResult struct {
	League  League `json:"league"`
	Country struct {
		Name string `json:"name"`
		Code string `json:"code"`
		Flag string `json:"flag"`
	} `json:"country"`
}

// TeamResult is one element of the teams response array.
type TeamResult struct {
	Team  Team  `json:"team"`
	Venue Venue `json:"venue"`
}

// FixturesQuery narrows the fixtures lookup. Zero-valued fields are omitted
// from the request.
type FixturesQuery struct {
	ID       int64
	Date     string // YYYY-MM-DD
	League   int64
	Season   int
	Team     int64
	Search   string
	Next     int
	Last     int
	Timezone string
}

type LeaguesQuery struct {
	ID      int64
	Search  string
	Country string
	Season  int
}

type TeamsQuery struct {
	ID     int64
	Search string
	League int64
	Season int
}
