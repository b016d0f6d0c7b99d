// Package matches turns raw match-history documents into the compact
// summaries the record views render, and assembles full match details on
// demand.
package matches

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"riftwatch/internal/ddragon"
	"riftwatch/internal/lcu"
)

// ErrBadRequest marks caller mistakes (missing name, index out of range) as
// opposed to upstream failures.
var ErrBadRequest = errors.New("bad request")

// gameModeLabels maps upstream mode identifiers onto display labels.
var gameModeLabels = map[string]string{
	"CLASSIC":      "Summoner's Rift",
	"ARAM":         "ARAM",
	"KIWI":         "Hexed Brawl",
	"CHERRY":       "Arena",
	"URF":          "URF",
	"ONEFORALL":    "One for All",
	"NEXUSBLITZ":   "Nexus Blitz",
	"TUTORIAL":     "Tutorial",
	"PRACTICETOOL": "Practice Tool",
}

// FormatGameMode returns the display label for a mode identifier, falling
// back to the identifier itself.
func FormatGameMode(mode string) string {
	if label, ok := gameModeLabels[mode]; ok {
		return label
	}
	return mode
}

// TimeAgo renders a creation timestamp (milliseconds) as a rough relative
// age.
func TimeAgo(timestampMS int64, now time.Time) string {
	if timestampMS == 0 {
		return "unknown"
	}
	diff := now.Sub(time.UnixMilli(timestampMS))
	switch {
	case diff >= 24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours())/24)
	case diff >= time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff >= time.Minute:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	default:
		return "just now"
	}
}

// GameSummary is the card view of one match.
type GameSummary struct {
	MatchIndex       int    `json:"match_index"`
	MatchID          any    `json:"match_id"`
	Win              bool   `json:"win"`
	ChampionID       int    `json:"champion_id"`
	Champion         string `json:"champion_en"`
	KDA              string `json:"kda"`
	Gold             int    `json:"gold"`
	CS               int    `json:"cs"`
	ChampionLevel    int    `json:"champion_level"`
	GameMode         string `json:"gameMode"`
	Mode             string `json:"mode"`
	Placement        int    `json:"placement,omitempty"`
	SubteamPlacement int    `json:"subteamPlacement,omitempty"`
	TimeAgo          string `json:"time_ago"`
	GameCreation     int64  `json:"game_creation"`
	Duration         int    `json:"duration"`
}

// TFTTrait is one highlighted trait on a TFT summary card.
type TFTTrait struct {
	Name     string `json:"name"`
	NumUnits int    `json:"num_units"`
	Style    int    `json:"style"`
}

// TFTGameSummary is the card view of one TFT match.
type TFTGameSummary struct {
	MatchIndex   int        `json:"match_index"`
	MatchID      any        `json:"match_id"`
	Win          bool       `json:"win"`
	Placement    int        `json:"placement"`
	LastRound    int        `json:"last_round"`
	Level        int        `json:"level"`
	TotalDamage  int        `json:"total_damage"`
	GoldLeft     int        `json:"gold_left"`
	TopTraits    []TFTTrait `json:"top_traits"`
	GameMode     string     `json:"gameMode"`
	Mode         string     `json:"mode"`
	TimeAgo      string     `json:"time_ago"`
	GameCreation int64      `json:"game_creation"`
	Duration     int        `json:"duration"`
}

// Service builds summaries and details on top of the history and identity
// layers. The registry supplies champion names; a nil registry degrades to
// numeric placeholders.
type Service struct {
	history   *lcu.History
	summoners *lcu.Summoners
	registry  *ddragon.Registry
	now       func() time.Time
}

// NewService wires the summary layer.
func NewService(history *lcu.History, summoners *lcu.Summoners, registry *ddragon.Registry) *Service {
	return &Service{history: history, summoners: summoners, registry: registry, now: time.Now}
}

func (s *Service) championName(id int) string {
	if s.registry != nil {
		return s.registry.ChampionName(id)
	}
	return fmt.Sprintf("Champion%d", id)
}

// ProcessHistory summarizes every game in a history envelope.
func (s *Service) ProcessHistory(env *lcu.MatchHistoryEnvelope, puuid string) []GameSummary {
	summaries := make([]GameSummary, 0, env.Len())
	for idx, raw := range env.Games.Games {
		game := decodeGame(raw)
		summary := s.SummarizeGame(game, puuid)
		summary.MatchIndex = idx
		summaries = append(summaries, summary)
	}
	return summaries
}

// SummarizeGame extracts the card fields for one match, picking the puuid's
// participant when present and the first participant otherwise.
func (s *Service) SummarizeGame(game map[string]any, puuid string) GameSummary {
	summary := GameSummary{KDA: "0/0/0", Champion: "Unknown"}
	if game == nil {
		return summary
	}

	participant := findParticipant(game, puuid)
	if participant != nil {
		summary.Win = participantWin(game, participant)
		summary.ChampionID = intField(participant, "championId")
		summary.Champion = s.championName(summary.ChampionID)

		if stats, ok := participant["stats"].(map[string]any); ok {
			kills := intField(stats, "kills")
			deaths := intField(stats, "deaths")
			assists := intField(stats, "assists")
			summary.KDA = fmt.Sprintf("%d/%d/%d", kills, deaths, assists)
			summary.Gold = intField(stats, "goldEarned") / 1000
			summary.CS = intField(stats, "totalMinionsKilled") + intField(stats, "neutralMinionsKilled")
			summary.ChampionLevel = intField(stats, "champLevel")
		}
	}

	mode := str(game["gameMode"])
	if mode == "" {
		mode = "CLASSIC"
	}
	summary.GameMode = mode
	summary.Mode = FormatGameMode(mode)

	if mode == "CHERRY" && participant != nil {
		if placement := arenaPlacement(participant); placement > 0 {
			summary.Placement = placement
			summary.SubteamPlacement = placement
		}
	}

	summary.GameCreation = int64Field(game, "gameCreation")
	summary.TimeAgo = TimeAgo(summary.GameCreation, s.now())
	summary.Duration = intField(game, "gameDuration")
	summary.MatchID = game["matchId"]
	return summary
}

// ProcessTFTHistory summarizes every game in a TFT history envelope, capped
// at 20 cards.
func (s *Service) ProcessTFTHistory(env *lcu.MatchHistoryEnvelope, puuid string) []TFTGameSummary {
	games := env.Games.Games
	if len(games) > 20 {
		games = games[:20]
	}
	summaries := make([]TFTGameSummary, 0, len(games))
	for idx, raw := range games {
		summary := s.SummarizeTFTGame(decodeGame(raw), puuid)
		summary.MatchIndex = idx
		summaries = append(summaries, summary)
	}
	return summaries
}

// SummarizeTFTGame extracts the card fields for one TFT match. First place
// counts as a win; a missing placement reads as last.
func (s *Service) SummarizeTFTGame(game map[string]any, puuid string) TFTGameSummary {
	summary := TFTGameSummary{Placement: 8, TopTraits: []TFTTrait{}}
	if game == nil {
		return summary
	}

	inner, ok := game["json"].(map[string]any)
	if !ok {
		inner = game
	}

	participant := findParticipant(inner, puuid)
	if participant != nil {
		if placement := intField(participant, "placement"); placement > 0 {
			summary.Placement = placement
		}
		summary.Win = summary.Placement == 1
		summary.LastRound = intField(participant, "last_round")
		summary.Level = intField(participant, "level")
		summary.TotalDamage = intField(participant, "total_damage_to_players")
		summary.GoldLeft = intField(participant, "gold_left")
		summary.TopTraits = topTraits(participant)
	}

	mode := str(inner["gameMode"])
	if mode == "" {
		mode = str(inner["tft_game_type"])
	}
	if mode == "" {
		mode = "UNKNOWN"
	}
	summary.GameMode = mode
	summary.Mode = FormatGameMode(mode)

	summary.GameCreation = int64Field(inner, "gameCreation")
	summary.TimeAgo = TimeAgo(summary.GameCreation, s.now())
	summary.Duration = intField(inner, "game_length")

	if metadata, ok := game["metadata"].(map[string]any); ok {
		summary.MatchID = metadata["match_id"]
	}
	return summary
}

// topTraits returns up to three traits of style 2 or higher, strongest
// first.
func topTraits(participant map[string]any) []TFTTrait {
	var traits []TFTTrait
	for _, raw := range asSlice(participant["traits"]) {
		trait, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		style := intField(trait, "style")
		if style < 2 {
			continue
		}
		name := str(trait["name"])
		if name == "" {
			name = "Unknown"
		}
		traits = append(traits, TFTTrait{
			Name:     name,
			NumUnits: intField(trait, "num_units"),
			Style:    style,
		})
	}
	sort.SliceStable(traits, func(i, j int) bool { return traits[i].Style > traits[j].Style })
	if len(traits) > 3 {
		traits = traits[:3]
	}
	if traits == nil {
		traits = []TFTTrait{}
	}
	return traits
}

// DetailRequest identifies one match to fetch in full.
type DetailRequest struct {
	SummonerName string
	Index        int
	MatchID      string
	TFT          bool
}

// GetMatchDetail fetches the full document for one match and enriches it
// with summoner identities (and augments for arena matches). ErrBadRequest
// wraps caller mistakes; everything else is an upstream failure.
func (s *Service) GetMatchDetail(cr lcu.Credentials, req DetailRequest) (map[string]any, error) {
	if req.MatchID != "" && !req.TFT {
		match, err := s.history.GetMatchByID(cr, req.MatchID)
		if err != nil {
			return nil, err
		}
		game := unwrapGame(match)
		s.summoners.EnrichGameWithSummonerInfo(cr, game)
		lcu.EnrichGameWithAugments(game)
		return game, nil
	}

	if req.SummonerName == "" {
		return nil, fmt.Errorf("%w: summoner name required", ErrBadRequest)
	}
	if req.Index < 0 {
		return nil, fmt.Errorf("%w: index out of range", ErrBadRequest)
	}

	puuid, err := s.summoners.GetPUUID(cr, req.SummonerName)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", req.SummonerName, err)
	}

	fetchCount := req.Index + 20
	if fetchCount > 200 {
		fetchCount = 200
	}

	var env *lcu.MatchHistoryEnvelope
	if req.TFT {
		env, err = s.history.GetTFTMatchHistory(cr, puuid, fetchCount)
	} else {
		env, err = s.history.GetMatchHistory(cr, puuid, fetchCount, 0)
	}
	if err != nil {
		return nil, err
	}
	if req.Index >= env.Len() {
		return nil, fmt.Errorf("%w: index out of range", ErrBadRequest)
	}

	game := decodeGame(env.Games.Games[req.Index])
	if matchID := extractMatchID(game); matchID != "" {
		if full, err := s.history.GetMatchByID(cr, matchID); err == nil {
			game = unwrapGame(full)
		}
	}

	if req.TFT {
		s.summoners.EnrichTFTGameWithSummonerInfo(cr, game)
	} else {
		s.summoners.EnrichGameWithSummonerInfo(cr, game)
		lcu.EnrichGameWithAugments(game)
	}
	return game, nil
}

// unwrapGame strips the {game: ...} wrapper some detail endpoints use.
func unwrapGame(match map[string]any) map[string]any {
	if inner, ok := match["game"].(map[string]any); ok {
		return inner
	}
	return match
}

// extractMatchID probes the id spellings across products and document ages.
func extractMatchID(game map[string]any) string {
	if metadata, ok := game["metadata"].(map[string]any); ok {
		if id := anyID(metadata["match_id"]); id != "" {
			return id
		}
	}
	for _, key := range []string{"matchId", "gameId", "match_id"} {
		if id := anyID(game[key]); id != "" {
			return id
		}
	}
	return ""
}

func anyID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%d", int64(id))
	default:
		return ""
	}
}

// findParticipant picks the puuid's participant, or the first one.
func findParticipant(game map[string]any, puuid string) map[string]any {
	participants := asSlice(game["participants"])
	if puuid != "" {
		for _, raw := range participants {
			p, ok := raw.(map[string]any)
			if ok && str(p["puuid"]) == puuid {
				return p
			}
		}
	}
	for _, raw := range participants {
		if p, ok := raw.(map[string]any); ok {
			return p
		}
	}
	return nil
}

// participantWin reads the participant's win flag, falling back to their
// team's result when the participant does not carry one.
func participantWin(game, participant map[string]any) bool {
	if win, ok := participant["win"].(bool); ok {
		return win
	}
	teamID := intField(participant, "teamId")
	for _, raw := range asSlice(game["teams"]) {
		team, ok := raw.(map[string]any)
		if !ok || intField(team, "teamId") != teamID {
			continue
		}
		switch win := team["win"].(type) {
		case string:
			return win == "Win"
		case bool:
			return win
		}
	}
	return false
}

// arenaPlacement probes the placement spellings arena documents use.
func arenaPlacement(participant map[string]any) int {
	if stats, ok := participant["stats"].(map[string]any); ok {
		if p := intField(stats, "subteamPlacement"); p > 0 {
			return p
		}
		if p := intField(stats, "placement"); p > 0 {
			return p
		}
	}
	if p := intField(participant, "subteamPlacement"); p > 0 {
		return p
	}
	return intField(participant, "placement")
}

func decodeGame(raw json.RawMessage) map[string]any {
	var game map[string]any
	if err := json.Unmarshal(raw, &game); err != nil {
		return nil
	}
	return game
}

func asSlice(v any) []any {
	list, _ := v.([]any)
	return list
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func intField(m map[string]any, key string) int {
	switch n := m[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func int64Field(m map[string]any, key string) int64 {
	switch n := m[key].(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	default:
		return 0
	}
}
