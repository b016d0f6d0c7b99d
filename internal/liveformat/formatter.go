// Package liveformat shapes raw live-telemetry snapshots into the structures
// the rest of the system serves. The telemetry endpoint is loosely typed and
// occasionally omits whole sections mid-load, so every accessor tolerates
// missing or oddly-typed fields and substitutes an empty default.
package liveformat

import (
	"math"
	"strconv"
	"strings"
)

// Item sentinels excluded from inventories: empty slot, warding totem,
// farsight alteration, oracle lens.
var excludedItemIDs = map[int]bool{0: true, 3340: true, 3363: true, 3364: true}

// Item is one inventory slot.
type Item struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
	CanUse bool   `json:"canUse"`
}

// Augment is one arena augment surfaced through the summoner-spell slots.
type Augment struct {
	Name        string `json:"name"`
	Raw         string `json:"raw"`
	Description string `json:"description"`
}

// Player is the formatted view of one telemetry participant.
type Player struct {
	SummonerName    string    `json:"summonerName"`
	RiotID          string    `json:"riotId"`
	GameName        string    `json:"gameName"`
	TagLine         string    `json:"tagLine"`
	Champion        string    `json:"champion"`
	ChampionRaw     string    `json:"championRaw"`
	Level           int       `json:"level"`
	IsDead          bool      `json:"isDead"`
	RespawnTimer    float64   `json:"respawnTimer"`
	Kills           int       `json:"kills"`
	Deaths          int       `json:"deaths"`
	Assists         int       `json:"assists"`
	CS              int       `json:"cs"`
	KDA             string    `json:"kda"`
	Items           []Item    `json:"items"`
	Keystone        string    `json:"keystone"`
	KeystoneID      int       `json:"keystoneId"`
	PrimaryRune     string    `json:"primaryRune"`
	SecondaryRune   string    `json:"secondaryRune"`
	Spell1          string    `json:"spell1"`
	Spell2          string    `json:"spell2"`
	Augments        []Augment `json:"augments"`
	Team            string    `json:"team"`
	Position        string    `json:"position"`
	SubteamID       *int      `json:"subteamId"`
	IsCurrentPlayer bool      `json:"isCurrentPlayer"`
}

// Kill is one champion-kill event.
type Kill struct {
	Killer    string   `json:"killer"`
	Victim    string   `json:"victim"`
	Assisters []string `json:"assisters"`
	Time      float64  `json:"time"`
}

// GameInfo is the match-level summary.
type GameInfo struct {
	Mode      string  `json:"mode"`
	Time      float64 `json:"time"`
	MapName   string  `json:"mapName"`
	MapNumber any     `json:"mapNumber"`
}

// Snapshot is the formatted whole-game view.
type Snapshot struct {
	Teammates           []Player `json:"teammates"`
	Enemies             []Player `json:"enemies"`
	GameInfo            GameInfo `json:"gameInfo"`
	RecentKills         []Kill   `json:"recentKills"`
	ActivePlayerTeam    string   `json:"activePlayerTeam"`
	ActivePlayerSubteam *int     `json:"activePlayerSubteam"`
}

// FormatGameData shapes a raw allgamedata document. Rosters split relative to
// the active player: ORDER/CHAOS team labels normally, per-subteam in arena
// matches where subteam ids are actually present.
func FormatGameData(raw map[string]any) *Snapshot {
	activePlayer := asMap(raw["activePlayer"])
	activeName := str(activePlayer["summonerName"])
	gameData := asMap(raw["gameData"])

	allPlayers := asSlice(raw["allPlayers"])

	activeTeam := ""
	for _, entry := range allPlayers {
		p := asMap(entry)
		if p != nil && str(p["summonerName"]) == activeName {
			activeTeam = teamLabel(p["team"])
			break
		}
	}

	players := make([]Player, 0, len(allPlayers))
	var activeEntry *Player
	for _, entry := range allPlayers {
		p := asMap(entry)
		if p == nil {
			continue
		}
		formatted := formatPlayer(p, activeName)
		players = append(players, formatted)
		if formatted.IsCurrentPlayer {
			activeEntry = &players[len(players)-1]
		}
	}

	mode := str(gameData["gameMode"])
	var activeSubteam *int
	if activeEntry != nil {
		activeSubteam = activeEntry.SubteamID
	}

	useSubteams := false
	if strings.EqualFold(mode, "CHERRY") && activeSubteam != nil {
		for _, p := range players {
			if p.SubteamID == nil || *p.SubteamID != *activeSubteam {
				useSubteams = true
				break
			}
		}
	}

	teammates := []Player{}
	enemies := []Player{}
	for _, p := range players {
		switch {
		case useSubteams:
			if p.SubteamID != nil && *p.SubteamID == *activeSubteam {
				teammates = append(teammates, p)
			} else {
				enemies = append(enemies, p)
			}
		case activeTeam != "" && p.Team == activeTeam:
			teammates = append(teammates, p)
		case p.IsCurrentPlayer:
			teammates = append(teammates, p)
		default:
			enemies = append(enemies, p)
		}
	}

	info := GameInfo{
		Mode:    strOr(gameData["gameMode"], "Unknown"),
		Time:    round1(num(gameData["gameTime"])),
		MapName: str(gameData["mapName"]),
	}
	if mapNumber, ok := gameData["mapNumber"]; ok {
		info.MapNumber = mapNumber
	} else {
		info.MapNumber = "Unknown"
	}

	return &Snapshot{
		Teammates:           teammates,
		Enemies:             enemies,
		GameInfo:            info,
		RecentKills:         recentKills(raw),
		ActivePlayerTeam:    activeTeam,
		ActivePlayerSubteam: activeSubteam,
	}
}

func formatPlayer(p map[string]any, activeName string) Player {
	name := strOr(p["summonerName"], "Unknown")
	scores := asMap(p["scores"])

	kills := int(num(scores["kills"]))
	deaths := int(num(scores["deaths"]))
	assists := int(num(scores["assists"]))

	out := Player{
		SummonerName:    name,
		RiotID:          strOr(p["riotId"], name),
		GameName:        str(p["riotIdGameName"]),
		TagLine:         str(p["riotIdTagLine"]),
		Champion:        strOr(p["championName"], "Unknown"),
		ChampionRaw:     str(p["rawChampionName"]),
		Level:           int(num(p["level"])),
		IsDead:          boolean(p["isDead"]),
		Kills:           kills,
		Deaths:          deaths,
		Assists:         assists,
		CS:              int(num(scores["creepScore"])),
		KDA:             strconv.Itoa(kills) + "/" + strconv.Itoa(deaths) + "/" + strconv.Itoa(assists),
		Items:           []Item{},
		Augments:        []Augment{},
		Team:            teamLabel(p["team"]),
		Position:        strOr(p["position"], "NONE"),
		SubteamID:       extractSubteamID(p),
		IsCurrentPlayer: name == activeName,
	}
	if out.Team == "" {
		out.Team = "UNKNOWN"
	}
	if respawn := num(p["respawnTimer"]); respawn > 0 {
		out.RespawnTimer = round1(respawn)
	}

	for _, entry := range asSlice(p["items"]) {
		item := asMap(entry)
		if item == nil {
			continue
		}
		id := int(num(item["itemID"]))
		if excludedItemIDs[id] {
			continue
		}
		count := int(num(item["count"]))
		if count == 0 {
			count = 1
		}
		out.Items = append(out.Items, Item{
			ID:     id,
			Name:   str(item["displayName"]),
			Count:  count,
			CanUse: boolean(item["canUse"]),
		})
	}

	runes := asMap(p["runes"])
	keystone := asMap(runes["keystone"])
	out.Keystone = str(keystone["displayName"])
	out.KeystoneID = int(num(keystone["id"]))
	out.PrimaryRune = str(asMap(runes["primaryRuneTree"])["displayName"])
	out.SecondaryRune = str(asMap(runes["secondaryRuneTree"])["displayName"])

	spells := asMap(p["summonerSpells"])
	spellOne := asMap(spells["summonerSpellOne"])
	spellTwo := asMap(spells["summonerSpellTwo"])
	out.Spell1 = str(spellOne["displayName"])
	out.Spell2 = str(spellTwo["displayName"])

	// Arena surfaces augments through the spell slots.
	for _, spell := range []map[string]any{spellOne, spellTwo} {
		if desc := str(spell["rawDescription"]); strings.Contains(desc, "Augment") {
			out.Augments = append(out.Augments, Augment{
				Name:        str(spell["displayName"]),
				Raw:         str(spell["rawDisplayName"]),
				Description: desc,
			})
		}
	}
	return out
}

// subteamKeys are the spellings different client builds use for the arena
// subteam id, in probe order.
var subteamKeys = []string{
	"playerSubteamId",
	"subteamId",
	"subTeamId",
	"subteamID",
	"arenaTeamId",
	"teamId",
}

// extractSubteamID probes a player document for an arena subteam id: the
// known keys at top level, then inside scores/team/championStats, then digits
// embedded in a string team label. nil means no subteam.
func extractSubteamID(p map[string]any) *int {
	for _, key := range subteamKeys {
		if id, ok := coerceSubteam(p[key]); ok {
			return &id
		}
	}

	for _, nestedKey := range []string{"scores", "team", "championStats"} {
		nested := asMap(p[nestedKey])
		if nested == nil {
			continue
		}
		for _, key := range subteamKeys {
			if id, ok := coerceSubteam(nested[key]); ok {
				return &id
			}
		}
	}

	if team, ok := p["team"].(string); ok {
		var digits strings.Builder
		for _, r := range team {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			}
		}
		if digits.Len() > 0 {
			if id, err := strconv.Atoi(digits.String()); err == nil {
				return &id
			}
		}
	}
	return nil
}

func coerceSubteam(v any) (int, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case string:
		if val == "" {
			return 0, false
		}
		id, err := strconv.Atoi(val)
		if err != nil || id == -1 {
			return 0, false
		}
		return id, true
	case float64:
		if val == -1 {
			return 0, false
		}
		return int(val), true
	case int:
		if val == -1 {
			return 0, false
		}
		return val, true
	case map[string]any:
		for _, inner := range []string{"id", "teamId", "subteamId"} {
			if id, ok := coerceSubteam(val[inner]); ok {
				return id, true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// recentKills returns up to the ten latest champion kills, newest first.
func recentKills(raw map[string]any) []Kill {
	events := asSlice(asMap(raw["events"])["Events"])
	kills := []Kill{}
	for i := len(events) - 1; i >= 0; i-- {
		event := asMap(events[i])
		if event == nil || str(event["EventName"]) != "ChampionKill" {
			continue
		}
		assisters := []string{}
		for _, a := range asSlice(event["Assisters"]) {
			if s, ok := a.(string); ok {
				assisters = append(assisters, s)
			}
		}
		kills = append(kills, Kill{
			Killer:    str(event["KillerName"]),
			Victim:    str(event["VictimName"]),
			Assisters: assisters,
			Time:      round1(num(event["EventTime"])),
		})
		if len(kills) >= 10 {
			break
		}
	}
	return kills
}

// teamLabel normalizes the team field, which may be a plain label or an
// object carrying a name.
func teamLabel(v any) string {
	switch team := v.(type) {
	case string:
		return team
	case map[string]any:
		if name := str(team["name"]); name != "" {
			return name
		}
		return str(team["displayName"])
	default:
		return ""
	}
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	list, _ := v.([]any)
	return list
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func strOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func boolean(v any) bool {
	b, _ := v.(bool)
	return b
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
