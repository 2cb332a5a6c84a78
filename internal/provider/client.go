// Package provider fetches the raw game documents the extractors consume.
// Each game is fetched at most once per pass; the resulting DocumentPair is
// shared read-only by every player in the game.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/gridiron/internal/boxscore"
	"github.com/fortuna/gridiron/internal/logger"
)

// ErrDocumentUnavailable marks a fetch failure for one game. The failure
// is isolated to that game; its players keep their prior points this pass
// and the next scheduled poll retries.
var ErrDocumentUnavailable = errors.New("game documents unavailable")

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// payloadTTL keeps raw summary payloads around briefly so bursts of passes
// do not hammer the provider.
const payloadTTL = 30 * time.Second

// PayloadCache caches raw feed payloads between passes. A miss is any
// error or empty value.
type PayloadCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Client fetches game documents from the upstream sports-data provider.
// The structured summary feed is preferred; the rendered box score and
// play-by-play pages are the fallback tree form.
type Client struct {
	baseURL  string
	httpc    *http.Client
	renderer *Renderer    // nil unless rendered-HTML fallback is enabled
	payloads PayloadCache // nil disables payload caching
}

// Option configures a Client.
type Option func(*Client)

// WithRenderer enables the headless-browser fallback for HTML pages that
// come back as an empty JS shell.
func WithRenderer(r *Renderer) Option {
	return func(c *Client) {
		c.renderer = r
	}
}

// WithPayloadCache enables short-TTL caching of raw summary payloads.
func WithPayloadCache(pc PayloadCache) Option {
	return func(c *Client) {
		c.payloads = pc
	}
}

// New creates a provider client. The timeout bounds every fetch.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases renderer resources.
func (c *Client) Close() {
	if c.renderer != nil {
		c.renderer.Close()
	}
}

// Fetch retrieves one game's DocumentPair. Selection between feed and tree
// form is by feed availability, not caller choice.
func (c *Client) Fetch(ctx context.Context, gameID string) (*boxscore.DocumentPair, error) {
	pair := &boxscore.DocumentPair{GameID: gameID}

	feed, err := c.fetchFeed(ctx, gameID)
	if err == nil {
		pair.Feed = feed
		fillHeaderFromFeed(pair, feed)
		return pair, nil
	}
	logger.WithGame(gameID).WithError(err).Debug("no structured feed, falling back to page scrape")

	boxDoc, err := c.fetchPage(ctx, fmt.Sprintf("%s/boxscore?gameId=%s", c.baseURL, gameID))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentUnavailable, gameID, err)
	}
	pbpDoc, err := c.fetchPage(ctx, fmt.Sprintf("%s/playbyplay?gameId=%s", c.baseURL, gameID))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentUnavailable, gameID, err)
	}

	pair.BoxScore = boxDoc
	pair.PlayByPlay = pbpDoc
	fillHeaderFromTree(pair, boxDoc)
	return pair, nil
}

// fetchFeed probes the structured summary endpoint, consulting the payload
// cache first.
func (c *Client) fetchFeed(ctx context.Context, gameID string) (*boxscore.Feed, error) {
	cacheKey := fmt.Sprintf("game:%s:summary", gameID)
	if c.payloads != nil {
		if cached, err := c.payloads.Get(ctx, cacheKey); err == nil && cached != "" {
			var feed boxscore.Feed
			if err := json.Unmarshal([]byte(cached), &feed); err == nil {
				return &feed, nil
			}
		}
	}

	url := fmt.Sprintf("%s/summary?event=%s", c.baseURL, gameID)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	// Some error pages come back as HTML with a 200.
	if len(body) == 0 || body[0] == '<' {
		return nil, fmt.Errorf("summary endpoint returned non-JSON payload")
	}

	var feed boxscore.Feed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decoding summary feed: %w", err)
	}

	if c.payloads != nil {
		if err := c.payloads.Set(ctx, cacheKey, string(body), payloadTTL); err != nil {
			logger.WithGame(gameID).WithError(err).Debug("failed to cache summary payload")
		}
	}
	return &feed, nil
}

// fetchPage retrieves an HTML page, escalating to the headless renderer
// when the plain fetch returns a shell without content.
func (c *Client) fetchPage(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.get(ctx, url)
	html := string(body)
	if err != nil || looksLikeShell(html) {
		if c.renderer == nil {
			if err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("page is an unrendered shell and rendering is disabled")
		}
		html, err = c.renderer.Render(ctx, url)
		if err != nil {
			return nil, err
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}

// looksLikeShell detects a JS-only page that has no stat markup yet.
func looksLikeShell(html string) bool {
	return !strings.Contains(html, "gamepackage") && !strings.Contains(html, "boxscore")
}

func fillHeaderFromFeed(pair *boxscore.DocumentPair, feed *boxscore.Feed) {
	pair.Clock = feed.Status.DisplayClock
	pair.Period = feed.Status.Period
	for _, side := range feed.Boxscore.Players {
		abbr := strings.ToUpper(side.Team.Abbreviation)
		if strings.EqualFold(side.HomeAway, "home") {
			pair.HomeTeam = abbr
		} else {
			pair.AwayTeam = abbr
		}
	}
	for _, d := range feed.Drives.Previous {
		points := drivePoints(d.Result)
		if points == 0 {
			continue
		}
		if strings.EqualFold(d.Team.Abbreviation, pair.HomeTeam) {
			pair.HomeScore += points
		} else {
			pair.AwayScore += points
		}
	}
}

// drivePoints approximates drive scoring for the header score line. The
// authoritative score still comes from the page when present.
func drivePoints(result string) int {
	switch strings.ToUpper(result) {
	case "TD", "INT TD", "FUM TD", "PUNT TD":
		return 7
	case "FG":
		return 3
	default:
		return 0
	}
}

func fillHeaderFromTree(pair *boxscore.DocumentPair, doc *goquery.Document) {
	pair.HomeTeam = strings.ToUpper(strings.TrimSpace(doc.Find(".team-home .abbrev").First().Text()))
	pair.AwayTeam = strings.ToUpper(strings.TrimSpace(doc.Find(".team-away .abbrev").First().Text()))
	pair.HomeScore = nodeInt(doc, ".team-home .score")
	pair.AwayScore = nodeInt(doc, ".team-away .score")
	pair.Clock = strings.TrimSpace(doc.Find(".game-clock").First().Text())
	pair.Period = nodeInt(doc, ".game-period")
}

func nodeInt(doc *goquery.Document, selector string) int {
	text := strings.TrimSpace(doc.Find(selector).First().Text())
	var v int
	fmt.Sscanf(text, "%d", &v)
	return v
}
