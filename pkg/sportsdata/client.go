package sportsdata

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/seatstack/backoffice/pkg/cache"
	"github.com/seatstack/backoffice/pkg/config"
	"github.com/seatstack/backoffice/pkg/errors"
	"github.com/seatstack/backoffice/pkg/logger"
)

// maxUpstreamBodyExcerpt caps how much of a failed upstream body is carried
// into error messages.
const maxUpstreamBodyExcerpt = 200

// Client talks to the hosted football data API and memoizes successful GET
// responses in an in-process TTL cache. All lookups are read-only, so a cache
// hit is always safe to serve.
type Client struct {
	cfg   config.SportsDataConfig
	http  *http.Client
	cache *cache.Cache[json.RawMessage]
	logg  *logger.Logger
}

// New validates the configuration and builds a client. The cache TTLs come
// from config; a non-positive default TTL is rejected up front.
func New(cfg config.SportsDataConfig, logg *logger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.CodeConfiguration, "sportsdata api key is required")
	}
	switch cfg.AuthScheme {
	case config.AuthSchemeAPISports, config.AuthSchemeRapidAPI:
	default:
		return nil, errors.New(errors.CodeConfiguration,
			fmt.Sprintf("unknown sportsdata auth scheme %q", cfg.AuthScheme))
	}
	store, err := cache.New[json.RawMessage](cfg.DefaultTTL)
	if err != nil {
		return nil, errors.Wrap(errors.CodeConfiguration, err, "sportsdata cache ttl invalid")
	}
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		cache: store,
		logg:  logg,
	}, nil
}

// Fixtures looks up matches. Search-driven queries use the shorter search TTL
// because free-text results churn faster than id-addressed ones.
func (c *Client) Fixtures(ctx context.Context, q FixturesQuery) ([]FixtureResult, error) {
	params := map[string]string{
		"id":       formatInt(q.ID),
		"date":     q.Date,
		"league":   formatInt(q.League),
		"season":   formatInt(int64(q.Season)),
		"team":     formatInt(q.Team),
		"search":   q.Search,
		"next":     formatInt(int64(q.Next)),
		"last":     formatInt(int64(q.Last)),
		"timezone": q.Timezone,
	}
	var out []FixtureResult
	if err := c.get(ctx, "/fixtures", params, c.ttlFor(q.Search), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FixtureByID fetches a single match, or a NOT_FOUND error when the upstream
// knows no such fixture.
func (c *Client) FixtureByID(ctx context.Context, id int64) (*FixtureResult, error) {
	results, err := c.Fixtures(ctx, FixturesQuery{ID: id})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, errors.New(errors.CodeNotFound, fmt.Sprintf("fixture %d not found", id))
	}
	return &results[0], nil
}

// Leagues looks up competitions.
func (c *Client) Leagues(ctx context.Context, q LeaguesQuery) ([]LeagueResult, error) {
	params := map[string]string{
		"id":      formatInt(q.ID),
		"search":  q.Search,
		"country": q.Country,
		"season":  formatInt(int64(q.Season)),
	}
	var out []LeagueResult
	if err := c.get(ctx, "/leagues", params, c.ttlFor(q.Search), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Teams looks up clubs.
func (c *Client) Teams(ctx context.Context, q TeamsQuery) ([]TeamResult, error) {
	params := map[string]string{
		"id":     formatInt(q.ID),
		"search": q.Search,
		"league": formatInt(q.League),
		"season": formatInt(int64(q.Season)),
	}
	var out []TeamResult
	if err := c.get(ctx, "/teams", params, c.ttlFor(q.Search), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearCache drops every memoized response.
func (c *Client) ClearCache() {
	c.cache.Clear()
}

func (c *Client) ttlFor(search string) time.Duration {
	if strings.TrimSpace(search) != "" {
		return c.cfg.SearchTTL
	}
	return 0 // cache default
}

// apiEnvelope is the upstream's uniform response wrapper. The errors field is
// an object on failure and an empty array otherwise, hence RawMessage.
type apiEnvelope struct {
	Errors   json.RawMessage `json:"errors"`
	Results  int             `json:"results"`
	Response json.RawMessage `json:"response"`
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, ttl time.Duration, out any) error {
	key := cache.QueryKey(path, params)
	if raw, ok := c.cache.Get(key); ok {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrap(errors.CodeParse, err, "decoding cached sportsdata response")
		}
		return nil
	}

	raw, err := c.fetch(ctx, path, params)
	if err != nil {
		return err
	}
	c.cache.Set(key, raw, ttl)

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(errors.CodeParse, err, "decoding sportsdata response")
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	u, err := url.Parse(strings.TrimSuffix(c.cfg.BaseURL, "/") + path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeConfiguration, err, "invalid sportsdata base url")
	}
	q := u.Query()
	for name, value := range params {
		if strings.TrimSpace(value) == "" {
			continue
		}
		q.Set(name, value)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "building sportsdata request")
	}
	c.setAuthHeaders(req)

	if c.logg != nil {
		c.logg.Debug(c.logg.WithField(ctx, "path", path), "sportsdata cache miss, fetching upstream")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, errors.Wrap(errors.CodeTimeout, err, "sportsdata request timed out")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "sportsdata request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.CodeUpstream, err, "reading sportsdata response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.upstreamError(resp.StatusCode, body)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(errors.CodeParse, err, "parsing sportsdata envelope")
	}
	if msg := upstreamMessages(envelope.Errors); msg != "" {
		return nil, errors.Wrap(errors.CodeUpstream,
			&RequestError{Status: resp.StatusCode, Message: msg},
			"sportsdata reported an error",
		).WithDetails(map[string]any{"status": resp.StatusCode, "upstream": msg})
	}
	if envelope.Response == nil {
		return json.RawMessage("[]"), nil
	}
	return envelope.Response, nil
}

func (c *Client) setAuthHeaders(req *http.Request) {
	switch c.cfg.AuthScheme {
	case config.AuthSchemeRapidAPI:
		req.Header.Set("X-RapidAPI-Key", c.cfg.APIKey)
		if c.cfg.Host != "" {
			req.Header.Set("X-RapidAPI-Host", c.cfg.Host)
		}
	default:
		req.Header.Set("x-apisports-key", c.cfg.APIKey)
		if c.cfg.Host != "" {
			req.Header.Set("x-apisports-host", c.cfg.Host)
		}
	}
	req.Header.Set("Accept", "application/json")
}

func (c *Client) upstreamError(status int, body []byte) error {
	message := extractUpstreamMessage(body)
	if message == "" {
		message = bodyExcerpt(body)
	}
	if status == http.StatusForbidden && strings.Contains(strings.ToLower(message), "subscribed") {
		message = "the configured api key is not subscribed to this endpoint"
	}
	reqErr := &RequestError{Status: status, Message: message}
	return errors.Wrap(errors.CodeUpstream, reqErr,
		fmt.Sprintf("sportsdata returned status %d", status),
	).WithDetails(map[string]any{"status": status, "upstream": message})
}

// extractUpstreamMessage pulls a human-readable message out of a failed
// response body. The API emits either {"message": ...} or the usual errors
// envelope; anything else falls back to the raw excerpt.
func extractUpstreamMessage(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Errors  json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}
	return upstreamMessages(payload.Errors)
}

func bodyExcerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxUpstreamBodyExcerpt {
		s = s[:maxUpstreamBodyExcerpt]
	}
	return s
}

// upstreamMessages flattens the envelope's errors field, which the API emits
// either as an object of parameter errors or an empty array.
func upstreamMessages(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var byField map[string]string
	if err := json.Unmarshal(raw, &byField); err == nil && len(byField) > 0 {
		parts := make([]string, 0, len(byField))
		for field, msg := range byField {
			parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
		}
		return strings.Join(parts, "; ")
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return strings.Join(list, "; ")
	}
	return ""
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	if stderrors.As(err, &t) {
		return t.Timeout()
	}
	return false
}

func formatInt(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}
