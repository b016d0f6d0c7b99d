package lcu

import (
	"fmt"
	"strings"

	"riftwatch/internal/liveformat"
)

// RosterPlayer is one classified in-game participant with a resolved PUUID,
// ready for record lookups.
type RosterPlayer struct {
	SummonerName string `json:"summonerName"`
	GameName     string `json:"gameName"`
	TagLine      string `json:"tagLine"`
	PUUID        string `json:"puuid"`
	ChampionName string `json:"championName"`
	Level        int    `json:"level"`
	Team         string `json:"team"`
	SubteamID    *int   `json:"subteamId"`
	Error        string `json:"error,omitempty"`
}

// Roster is the classified in-game player list.
type Roster struct {
	Teammates []RosterPlayer `json:"teammates"`
	Enemies   []RosterPlayer `json:"enemies"`
}

// AllPlayersFromGame reads the live telemetry snapshot, splits the lobby into
// teammates and enemies and resolves each player's PUUID through the control
// API. Arena matches need 16 participants before the roster counts as
// complete, everything else 10; short rosters return ErrUnavailable rather
// than a partial answer.
func (s *Summoners) AllPlayersFromGame(cr Credentials, lc *LiveClient) (*Roster, error) {
	raw, err := lc.GetLiveGameData()
	if err != nil {
		return nil, err
	}

	gameData, _ := raw["gameData"].(map[string]any)
	mode := strings.ToUpper(str(gameData["gameMode"]))
	isArena := mode == "CHERRY"

	allPlayers := asSlice(raw["allPlayers"])
	minPlayers := 10
	if isArena {
		minPlayers = 16
	}
	if len(allPlayers) < minPlayers {
		return nil, fmt.Errorf("%w: roster incomplete, %d of %d players", ErrUnavailable, len(allPlayers), minPlayers)
	}

	snapshot := liveformat.FormatGameData(raw)
	if snapshot.ActivePlayerTeam == "" && snapshot.ActivePlayerSubteam == nil {
		return nil, fmt.Errorf("%w: active player team unknown", ErrUnavailable)
	}

	roster := &Roster{}
	for _, entry := range snapshot.Teammates {
		roster.Teammates = append(roster.Teammates, s.buildRosterPlayer(cr, entry, snapshot.ActivePlayerTeam))
	}
	for _, entry := range snapshot.Enemies {
		roster.Enemies = append(roster.Enemies, s.buildRosterPlayer(cr, entry, ""))
	}

	// Arena snapshots occasionally lack subteam ids entirely, leaving the
	// formatter unable to split the lobby. Fall back to the plain team
	// labels.
	if isArena && len(roster.Enemies) == 0 {
		roster = s.classifyByTeamLabel(cr, allPlayers, snapshot)
	}
	return roster, nil
}

func (s *Summoners) buildRosterPlayer(cr Credentials, entry liveformat.Player, defaultTeam string) RosterPlayer {
	gameName, tagLine := splitRiotID(entry)

	player := RosterPlayer{
		SummonerName: entry.SummonerName,
		GameName:     gameName,
		TagLine:      tagLine,
		ChampionName: entry.Champion,
		Level:        entry.Level,
		Team:         entry.Team,
		SubteamID:    entry.SubteamID,
	}
	if player.Team == "" || player.Team == "UNKNOWN" {
		if defaultTeam != "" {
			player.Team = defaultTeam
		} else {
			player.Team = "UNKNOWN"
		}
	}

	puuid, err := s.GetPUUID(cr, entry.SummonerName)
	if err != nil {
		player.Error = "puuid lookup failed"
	} else {
		player.PUUID = puuid
	}
	return player
}

// classifyByTeamLabel rebuilds the roster from raw team labels, merging in
// whatever the formatter knew about each player.
func (s *Summoners) classifyByTeamLabel(cr Credentials, allPlayers []any, snapshot *liveformat.Snapshot) *Roster {
	formatted := make(map[string]liveformat.Player)
	for _, p := range append(append([]liveformat.Player{}, snapshot.Teammates...), snapshot.Enemies...) {
		formatted[p.SummonerName] = p
	}

	roster := &Roster{}
	for _, raw := range allPlayers {
		p, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name := str(p["summonerName"])
		team := str(p["team"])

		entry, ok := formatted[name]
		if !ok {
			entry = liveformat.Player{
				SummonerName: name,
				Champion:     str(p["championName"]),
				Level:        int(asInt64(p["level"])),
				Team:         team,
			}
		}
		player := s.buildRosterPlayer(cr, entry, team)

		if team != "" && team == snapshot.ActivePlayerTeam {
			roster.Teammates = append(roster.Teammates, player)
		} else {
			roster.Enemies = append(roster.Enemies, player)
		}
	}
	return roster
}

// EnemyStats returns the enemy roster with PUUIDs resolved, for record
// lookups done elsewhere. Lookup failures keep the player in the list with an
// error note instead of dropping them.
func (s *Summoners) EnemyStats(cr Credentials, lc *LiveClient) ([]RosterPlayer, error) {
	roster, err := s.AllPlayersFromGame(cr, lc)
	if err != nil {
		return nil, err
	}
	return roster.Enemies, nil
}

// splitRiotID derives (gameName, tagLine) from whichever identity fields the
// telemetry populated.
func splitRiotID(entry liveformat.Player) (string, string) {
	if entry.GameName != "" && entry.TagLine != "" {
		return entry.GameName, entry.TagLine
	}
	if idx := strings.Index(entry.SummonerName, "#"); idx >= 0 {
		return entry.SummonerName[:idx], entry.SummonerName[idx+1:]
	}
	return entry.SummonerName, "NA"
}
