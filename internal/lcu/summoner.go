package lcu

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Summoner is a player profile as the control API reports it. The upstream
// varies its field names between endpoints, so both icon spellings are kept
// and Name/Icon pick whichever is present.
type Summoner struct {
	SummonerID    int64  `json:"summonerId"`
	AccountID     int64  `json:"accountId"`
	PUUID         string `json:"puuid"`
	DisplayName   string `json:"displayName"`
	GameName      string `json:"gameName"`
	TagLine       string `json:"tagLine"`
	InternalName  string `json:"internalName"`
	ProfileIconID int    `json:"profileIconId"`
	ProfileIcon   int    `json:"profileIcon"`
	SummonerLevel int    `json:"summonerLevel"`
}

// Name returns the best available display name.
func (s *Summoner) Name() string {
	switch {
	case s.DisplayName != "":
		return s.DisplayName
	case s.GameName != "" && s.TagLine != "":
		return s.GameName + "#" + s.TagLine
	case s.GameName != "":
		return s.GameName
	default:
		return s.InternalName
	}
}

// Icon returns the profile icon id from whichever field the upstream used.
func (s *Summoner) Icon() int {
	if s.ProfileIconID != 0 {
		return s.ProfileIconID
	}
	return s.ProfileIcon
}

// bidiControls matches the invisible Unicode direction-control characters
// that decorated display names smuggle in; they break name lookups.
var bidiControls = regexp.MustCompile(`[\x{200E}-\x{200F}\x{202A}-\x{202E}\x{2066}-\x{2069}]`)

// CleanSummonerName strips direction-control characters and surrounding
// whitespace while keeping the # of a Riot ID intact.
func CleanSummonerName(name string) string {
	return strings.TrimSpace(bidiControls.ReplaceAllString(name, ""))
}

// Summoners resolves and caches player identities. Display names are
// ambiguous and mutable; the opaque PUUID is the stable key, and resolving a
// name to it is a hot path shared by every caller, hence the dedicated cache.
type Summoners struct {
	*Client
	puuids *boundedCache
}

// NewSummoners wraps a client with a PUUID resolution cache.
func NewSummoners(c *Client, ttl time.Duration, maxEntries int) *Summoners {
	return &Summoners{
		Client: c,
		puuids: newBoundedCache("puuid", ttl, maxEntries),
	}
}

// GetCurrentSummoner returns the logged-in player's profile.
func (s *Summoners) GetCurrentSummoner(cr Credentials) (*Summoner, error) {
	var out Summoner
	if err := s.getJSON(cr, "/lol-summoner/v1/current-summoner", nil, 0, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPUUID resolves a display name (GameName#TAG supported) to a PUUID,
// caching the result.
func (s *Summoners) GetPUUID(cr Credentials, name string) (string, error) {
	if cached, ok := s.puuids.Get(name); ok {
		return cached.(string), nil
	}

	params := url.Values{}
	params.Set("name", CleanSummonerName(name))

	var out Summoner
	if err := s.getJSON(cr, "/lol-summoner/v1/summoners", params, 0, &out); err != nil {
		return "", err
	}
	if out.PUUID == "" {
		return "", fmt.Errorf("%w: no puuid for %q", ErrUnavailable, name)
	}
	s.puuids.Put(name, out.PUUID)
	return out.PUUID, nil
}

// GetSummonerByID looks a player up by numeric summoner id.
func (s *Summoners) GetSummonerByID(cr Credentials, summonerID int64) (*Summoner, error) {
	var out Summoner
	endpoint := fmt.Sprintf("/lol-summoner/v1/summoners/%d", summonerID)
	if err := s.getJSON(cr, endpoint, nil, 0, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSummonerByPUUID looks a player up by opaque identity.
func (s *Summoners) GetSummonerByPUUID(cr Credentials, puuid string) (*Summoner, error) {
	var out Summoner
	endpoint := "/lol-summoner/v1/summoners/by-puuid/" + url.PathEscape(puuid)
	if err := s.getJSON(cr, endpoint, nil, 0, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSummonerByName looks a player up by display name without touching the
// PUUID cache.
func (s *Summoners) GetSummonerByName(cr Credentials, name string) (*Summoner, error) {
	params := url.Values{}
	params.Set("name", name)
	var out Summoner
	if err := s.getJSON(cr, "/lol-summoner/v1/summoners", params, 0, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
