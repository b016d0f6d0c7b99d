package lcu

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// MatchHistoryEnvelope is the one canonical history shape. The upstream may
// answer with a bare list, {games:[...]} or the full nested form; everything
// converges here before caching or returning.
type MatchHistoryEnvelope struct {
	Games GamesBlock `json:"games"`
}

type GamesBlock struct {
	Games []json.RawMessage `json:"games"`
}

// NormalizeHistory folds any of the three upstream shapes into the nested
// envelope. Feeding an already-normalized envelope back in returns an
// equivalent envelope; unrecognized input yields an empty one.
func NormalizeHistory(raw []byte) *MatchHistoryEnvelope {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return &MatchHistoryEnvelope{Games: GamesBlock{Games: list}}
	}

	var flat struct {
		Games json.RawMessage `json:"games"`
	}
	if err := json.Unmarshal(raw, &flat); err != nil || len(flat.Games) == 0 {
		return &MatchHistoryEnvelope{Games: GamesBlock{Games: []json.RawMessage{}}}
	}

	if err := json.Unmarshal(flat.Games, &list); err == nil {
		return &MatchHistoryEnvelope{Games: GamesBlock{Games: list}}
	}

	var nested GamesBlock
	if err := json.Unmarshal(flat.Games, &nested); err == nil && nested.Games != nil {
		return &MatchHistoryEnvelope{Games: nested}
	}
	return &MatchHistoryEnvelope{Games: GamesBlock{Games: []json.RawMessage{}}}
}

// Len returns the number of games in the envelope.
func (e *MatchHistoryEnvelope) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Games.Games)
}

// HistoryConfig tunes the cache and the staged upstream fetch.
type HistoryConfig struct {
	TTL        time.Duration
	MaxEntries int

	// Staged fetch: a small ask with a short timeout first, a bigger ask
	// with a longer timeout only if the first fails. The upstream is slow
	// assembling large histories, so this bounds common-case latency.
	BaselineWindow  int
	BaselineTimeout time.Duration
	ExpandedWindow  int
	ExpandedTimeout time.Duration

	// Direct-transport fallback timeouts.
	DirectExtra time.Duration
	DirectMax   time.Duration
}

func (c *HistoryConfig) applyDefaults() {
	if c.TTL <= 0 {
		c.TTL = 5 * time.Minute
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = 100
	}
	if c.BaselineWindow <= 0 {
		c.BaselineWindow = 30
	}
	if c.BaselineTimeout <= 0 {
		c.BaselineTimeout = 12 * time.Second
	}
	if c.ExpandedWindow <= 0 {
		c.ExpandedWindow = 50
	}
	if c.ExpandedTimeout <= 0 {
		c.ExpandedTimeout = 18 * time.Second
	}
	if c.DirectExtra <= 0 {
		c.DirectExtra = 6 * time.Second
	}
	if c.DirectMax <= 0 {
		c.DirectMax = 28 * time.Second
	}
}

// History serves paginated match-history slices over a non-paginating
// upstream: full windows are fetched once, cached with a TTL and a capacity
// bound, and sliced in memory.
type History struct {
	*Client
	cfg   HistoryConfig
	cache *boundedCache

	// sleep is swappable for tests; production uses time.Sleep.
	sleep func(time.Duration)
}

// NewHistory builds the history layer on top of a control API client.
func NewHistory(c *Client, cfg HistoryConfig) *History {
	cfg.applyDefaults()
	return &History{
		Client: c,
		cfg:    cfg,
		cache:  newBoundedCache("history", cfg.TTL, cfg.MaxEntries),
		sleep:  time.Sleep,
	}
}

// GetMatchHistory returns count games starting at beginIndex for the player.
// Slice-level cache first, then the full-window cache, then the staged
// upstream fetch.
func (h *History) GetMatchHistory(cr Credentials, puuid string, count, beginIndex int) (*MatchHistoryEnvelope, error) {
	if count <= 0 {
		count = 20
	}
	if beginIndex < 0 {
		beginIndex = 0
	}

	sliceKey := fmt.Sprintf("slice:%s:%d:%d", puuid, beginIndex, count)
	if cached, ok := h.cache.Get(sliceKey); ok {
		return cached.(*MatchHistoryEnvelope), nil
	}

	fullKey := "full:" + puuid
	var games []json.RawMessage
	if cached, ok := h.cache.Get(fullKey); ok {
		games = cached.([]json.RawMessage)
	} else {
		fetched, err := h.fetchFullWindow(cr, puuid, count)
		if err != nil {
			return nil, err
		}
		games = fetched
		h.cache.Put(fullKey, games)
	}

	end := beginIndex + count
	if beginIndex > len(games) {
		beginIndex = len(games)
	}
	if end > len(games) {
		end = len(games)
	}
	env := &MatchHistoryEnvelope{Games: GamesBlock{Games: games[beginIndex:end]}}
	h.cache.Put(sliceKey, env)
	return env, nil
}

// fetchFullWindow runs the staged fetch: baseline profile, then expanded,
// each falling back to a direct single-use transport with a longer timeout
// before moving on.
func (h *History) fetchFullWindow(cr Credentials, puuid string, count int) ([]json.RawMessage, error) {
	endpoint := "/lol-match-history/v1/products/lol/" + url.PathEscape(puuid) + "/matches"

	type profile struct {
		endIndex int
		timeout  time.Duration
		desc     string
	}
	profiles := []profile{
		{endIndex: clamp(count, 20, h.cfg.BaselineWindow), timeout: h.cfg.BaselineTimeout, desc: "baseline"},
		{endIndex: clamp(count+10, 30, h.cfg.ExpandedWindow), timeout: h.cfg.ExpandedTimeout, desc: "expanded"},
	}

	var lastErr error
	for i, p := range profiles {
		params := url.Values{}
		params.Set("begIndex", "0")
		params.Set("endIndex", strconv.Itoa(p.endIndex))

		raw, err := h.Do(cr, http.MethodGet, endpoint, params, nil, p.timeout)
		if err != nil {
			directTimeout := p.timeout + h.cfg.DirectExtra
			if directTimeout > h.cfg.DirectMax {
				directTimeout = h.cfg.DirectMax
			}
			raw, err = h.directFetch(cr, endpoint, params, directTimeout)
		}
		if err != nil {
			lastErr = err
			if i == len(profiles)-1 {
				break
			}
			h.sleep(time.Second)
			continue
		}
		return NormalizeHistory(raw).Games.Games, nil
	}
	return nil, fmt.Errorf("history fetch failed for %s: %w", prefix(puuid, 8), lastErr)
}

// directFetch bypasses the pooled transport with a one-off client, mirroring
// the escalation the pooled path cannot express.
func (h *History) directFetch(cr Credentials, endpoint string, params url.Values, timeout time.Duration) ([]byte, error) {
	direct := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		defaultTimeout: timeout,
	}
	return direct.Do(cr, http.MethodGet, endpoint, params, nil, timeout)
}

// GetTFTMatchHistory fetches the TFT product's history. The TFT endpoint
// takes begin/count directly and its response shape varies, hence the
// normalizer; results cache under a product-distinct key.
func (h *History) GetTFTMatchHistory(cr Credentials, puuid string, count int) (*MatchHistoryEnvelope, error) {
	if count <= 0 {
		count = 20
	}

	key := fmt.Sprintf("tft:%s:%d", puuid, count)
	if cached, ok := h.cache.Get(key); ok {
		return cached.(*MatchHistoryEnvelope), nil
	}

	timeout := 8*time.Second + time.Duration(count/20)*2*time.Second
	if timeout > 25*time.Second {
		timeout = 25 * time.Second
	}

	endpoint := "/lol-match-history/v1/products/tft/" + url.PathEscape(puuid) + "/matches"
	params := url.Values{}
	params.Set("begin", "0")
	params.Set("count", strconv.Itoa(count))

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		raw, err := h.directFetch(cr, endpoint, params, timeout)
		if err != nil {
			lastErr = err
			if attempt < 1 {
				h.sleep(time.Second)
			}
			continue
		}
		env := NormalizeHistory(raw)
		h.cache.Put(key, env)
		return env, nil
	}
	return nil, fmt.Errorf("tft history fetch failed for %s: %w", prefix(puuid, 8), lastErr)
}

// matchDetailEndpoints are the known per-game detail paths; client builds
// differ in which one they expose, so they are tried in order.
var matchDetailEndpoints = []string{
	"/lol-match-history/v1/games/%s",
	"/lol-match-history/v1/matches/%s",
}

// GetMatchByID fetches a full match document, returning the first endpoint
// variant that answers.
func (h *History) GetMatchByID(cr Credentials, matchID string) (map[string]any, error) {
	var lastErr error
	for _, pattern := range matchDetailEndpoints {
		endpoint := fmt.Sprintf(pattern, url.PathEscape(matchID))
		raw, err := h.Do(cr, http.MethodGet, endpoint, nil, nil, 3*time.Second)
		if err != nil {
			lastErr = err
			continue
		}
		var match map[string]any
		if err := json.Unmarshal(raw, &match); err != nil {
			lastErr = err
			continue
		}
		return match, nil
	}
	return nil, fmt.Errorf("no detail endpoint answered for match %s: %w", matchID, lastErr)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}
