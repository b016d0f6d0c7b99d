package lcu

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Match-flow phases reported by /lol-gameflow/v1/gameflow-phase. The remote
// system owns this enumeration; unlisted values pass through untouched.
const (
	PhaseNone        = "None"
	PhaseLobby       = "Lobby"
	PhaseMatchmaking = "Matchmaking"
	PhaseReadyCheck  = "ReadyCheck"
	PhaseChampSelect = "ChampSelect"
	PhaseGameStart   = "GameStart"
	PhaseInProgress  = "InProgress"
	PhaseEndOfGame   = "EndOfGame"
)

// GetGameflowPhase returns the current match-flow phase.
func (c *Client) GetGameflowPhase(cr Credentials) (string, error) {
	var phase string
	if err := c.getJSON(cr, "/lol-gameflow/v1/gameflow-phase", nil, 0, &phase); err != nil {
		return "", err
	}
	return phase, nil
}

// AcceptReadyCheck accepts a pending matchmaking ready check.
func (c *Client) AcceptReadyCheck(cr Credentials) error {
	_, err := c.Do(cr, http.MethodPost, "/lol-matchmaking/v1/ready-check/accept", nil, nil, 0)
	return err
}

// ChampSelectSession is the character-select session document. Actions keep
// their raw JSON alongside the decoded fields because completing an action
// requires re-submitting the full upstream payload.
type ChampSelectSession struct {
	GameID            int64                 `json:"gameId"`
	LocalPlayerCellID int                   `json:"localPlayerCellId"`
	Timer             ChampSelectTimer      `json:"timer"`
	MyTeam            []ChampSelectMember   `json:"myTeam"`
	TheirTeam         []ChampSelectMember   `json:"theirTeam"`
	Teams             []ChampSelectTeam     `json:"teams"`
	Actions           [][]ChampSelectAction `json:"actions"`
}

type ChampSelectTimer struct {
	Phase            string `json:"phase"`
	TotalTimeInPhase int    `json:"totalTimeInPhase"`
	TimeLeftInPhase  int    `json:"timeLeftInPhase"`
}

type ChampSelectMember struct {
	CellID           int    `json:"cellId"`
	ChampionID       int    `json:"championId"`
	SummonerID       int64  `json:"summonerId"`
	PUUID            string `json:"puuid"`
	GameName         string `json:"gameName"`
	TagLine          string `json:"tagLine"`
	AssignedPosition string `json:"assignedPosition"`
	Team             int    `json:"team"`
}

type ChampSelectTeam struct {
	Bans []ChampSelectBan `json:"bans"`
}

type ChampSelectBan struct {
	ChampionID int `json:"championId"`
}

// ChampSelectAction is one atomic select/ban unit owned by a seat.
type ChampSelectAction struct {
	ID           int    `json:"id"`
	ActorCellID  int    `json:"actorCellId"`
	ChampionID   int    `json:"championId"`
	Type         string `json:"type"` // "ban" or "pick"
	Completed    bool   `json:"completed"`
	IsInProgress bool   `json:"isInProgress"`

	raw json.RawMessage
}

func (a *ChampSelectAction) UnmarshalJSON(data []byte) error {
	type plain ChampSelectAction
	var tmp plain
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*a = ChampSelectAction(tmp)
	a.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (a ChampSelectAction) MarshalJSON() ([]byte, error) {
	if len(a.raw) > 0 {
		return a.raw, nil
	}
	type plain ChampSelectAction
	return json.Marshal(plain(a))
}

// Payload builds the full completion payload: the action as the upstream
// last sent it, with only championId, completed and type overridden. The
// upstream rejects partial payloads.
func (a *ChampSelectAction) Payload(championID int, actionType string) (map[string]any, error) {
	full := map[string]any{}
	if len(a.raw) > 0 {
		if err := json.Unmarshal(a.raw, &full); err != nil {
			return nil, fmt.Errorf("decode action %d: %w", a.ID, err)
		}
	}
	full["championId"] = championID
	full["completed"] = true
	full["type"] = actionType
	return full, nil
}

// GetChampSelectSession fetches the current character-select session.
func (c *Client) GetChampSelectSession(cr Credentials) (*ChampSelectSession, error) {
	var session ChampSelectSession
	if err := c.getJSON(cr, "/lol-champ-select/v1/session", nil, 0, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// FindAction locates an action by id.
func (s *ChampSelectSession) FindAction(id int) *ChampSelectAction {
	for gi := range s.Actions {
		for ai := range s.Actions[gi] {
			if s.Actions[gi][ai].ID == id {
				return &s.Actions[gi][ai]
			}
		}
	}
	return nil
}

// UnavailableChampionIDs returns every champion already declared banned by
// any team or locked in by a completed action this round.
func (s *ChampSelectSession) UnavailableChampionIDs() map[int]bool {
	unavailable := make(map[int]bool)
	for _, team := range s.Teams {
		for _, ban := range team.Bans {
			if ban.ChampionID != 0 {
				unavailable[ban.ChampionID] = true
			}
		}
	}
	for _, group := range s.Actions {
		for _, action := range group {
			if action.Completed && action.ChampionID != 0 {
				unavailable[action.ChampionID] = true
			}
		}
	}
	return unavailable
}

// CompleteAction completes a select/ban action with the given champion. The
// session is re-fetched immediately before the PATCH so the payload reflects
// the action's current server-side shape, not a stale read.
func (c *Client) CompleteAction(cr Credentials, actionID, championID int, actionType string) error {
	session, err := c.GetChampSelectSession(cr)
	if err != nil {
		return err
	}
	action := session.FindAction(actionID)
	if action == nil {
		return fmt.Errorf("%w: action %d not in session", ErrUnavailable, actionID)
	}
	payload, err := action.Payload(championID, actionType)
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("/lol-champ-select/v1/session/actions/%d", actionID)
	_, err = c.Do(cr, http.MethodPatch, endpoint, nil, payload, 0)
	return err
}

// HoverChampion pre-selects a champion without completing the action.
func (c *Client) HoverChampion(cr Credentials, actionID, championID int) error {
	endpoint := fmt.Sprintf("/lol-champ-select/v1/session/actions/%d", actionID)
	payload := map[string]any{
		"championId": championID,
		"completed":  false,
	}
	_, err := c.Do(cr, http.MethodPatch, endpoint, nil, payload, 0)
	return err
}

// ChampSelectEnemies returns the visible opposing roster during character
// select. Only usable in that phase; once the match starts the live
// telemetry API takes over.
func (c *Client) ChampSelectEnemies(cr Credentials) ([]ChampSelectMember, error) {
	session, err := c.GetChampSelectSession(cr)
	if err != nil {
		return nil, err
	}
	if len(session.MyTeam) == 0 {
		return nil, nil
	}
	mine := make(map[int64]bool, len(session.MyTeam))
	for _, m := range session.MyTeam {
		mine[m.SummonerID] = true
	}
	var enemies []ChampSelectMember
	for _, m := range append(append([]ChampSelectMember{}, session.MyTeam...), session.TheirTeam...) {
		if !mine[m.SummonerID] {
			enemies = append(enemies, m)
		}
	}
	return enemies, nil
}
