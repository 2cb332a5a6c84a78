package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const summaryJSON = `{
	"status": {"state": "in", "name": "STATUS_IN_PROGRESS", "period": 2, "displayClock": "5:12"},
	"boxscore": {"players": [
		{"team": {"abbreviation": "BUF"}, "homeAway": "home", "statistics": []},
		{"team": {"abbreviation": "NYJ"}, "homeAway": "away", "statistics": []}
	]},
	"drives": {"previous": [
		{"team": {"abbreviation": "BUF"}, "result": "TD", "plays": []},
		{"team": {"abbreviation": "NYJ"}, "result": "FG", "plays": []}
	]}
}`

const pageHTML = `<html><body>
<div class="gamepackage-home-wrap"><div class="boxscore-block"></div></div>
<div class="team-home"><span class="abbrev">BUF</span><span class="score">24</span></div>
<div class="team-away"><span class="abbrev">NYJ</span><span class="score">13</span></div>
<div class="game-clock">5:12</div><div class="game-period">2</div>
</body></html>`

func TestFetchPrefersFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/summary" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(summaryJSON))
			return
		}
		t.Errorf("unexpected page fetch of %s when feed is available", r.URL.Path)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	pair, err := c.Fetch(context.Background(), "401547602")
	require.NoError(t, err)

	assert.True(t, pair.HasFeed())
	assert.Equal(t, "BUF", pair.HomeTeam)
	assert.Equal(t, "NYJ", pair.AwayTeam)
	assert.Equal(t, 7, pair.HomeScore)
	assert.Equal(t, 3, pair.AwayScore)
	assert.Equal(t, 2, pair.Period)
}

func TestFetchFallsBackToPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/summary":
			http.Error(w, "not found", http.StatusNotFound)
		case "/boxscore", "/playbyplay":
			w.Write([]byte(pageHTML))
		default:
			http.Error(w, "unexpected path", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	pair, err := c.Fetch(context.Background(), "401547602")
	require.NoError(t, err)

	assert.False(t, pair.HasFeed())
	require.NotNil(t, pair.BoxScore)
	require.NotNil(t, pair.PlayByPlay)
	assert.Equal(t, "BUF", pair.HomeTeam)
	assert.Equal(t, 24, pair.HomeScore)
	assert.Equal(t, 13, pair.AwayScore)
}

func TestFetchUnavailableWrapsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.Fetch(context.Background(), "401547602")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDocumentUnavailable))
}

func TestFetchFeedRejectsHTMLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/summary":
			// Some upstreams serve HTML error pages with a 200.
			w.Write([]byte("<html><body>oops</body></html>"))
		case "/boxscore", "/playbyplay":
			w.Write([]byte(pageHTML))
		}
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	pair, err := c.Fetch(context.Background(), "401547602")
	require.NoError(t, err)
	assert.False(t, pair.HasFeed(), "HTML summary payload must not be treated as a feed")
}

type memPayloadCache struct {
	values map[string]string
}

func (m *memPayloadCache) Get(_ context.Context, key string) (string, error) {
	return m.values[key], nil
}

func (m *memPayloadCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value.(string)
	return nil
}

func TestFetchUsesPayloadCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(summaryJSON))
	}))
	defer srv.Close()

	pc := &memPayloadCache{}
	c := New(srv.URL, 5*time.Second, WithPayloadCache(pc))

	_, err := c.Fetch(context.Background(), "401547602")
	require.NoError(t, err)
	_, err = c.Fetch(context.Background(), "401547602")
	require.NoError(t, err)

	assert.Equal(t, 1, hits, "second fetch within the TTL must hit the cache")
}

func TestLooksLikeShell(t *testing.T) {
	assert.True(t, looksLikeShell(`<html><head><script src="app.js"></script></head></html>`))
	assert.False(t, looksLikeShell(pageHTML))
}
