package watcher

import (
	"fmt"
	"time"

	"riftwatch/internal/lcu"
	"riftwatch/internal/metrics"
	"riftwatch/internal/state"
	"riftwatch/internal/status"
)

type analyzeClient interface {
	GetGameflowPhase(cr lcu.Credentials) (string, error)
	GetChampSelectSession(cr lcu.Credentials) (*lcu.ChampSelectSession, error)
	GetRankedStats(cr lcu.Credentials, summonerID int64, puuid string) (*lcu.RankedSummary, error)
	AllPlayersFromGame(cr lcu.Credentials, lc *lcu.LiveClient) (*lcu.Roster, error)
}

// AnalyzedPlayer is one roster member with their ranked standing attached.
type AnalyzedPlayer struct {
	GameName     string       `json:"gameName"`
	TagLine      string       `json:"tagLine"`
	SummonerName string       `json:"summonerName,omitempty"`
	PUUID        string       `json:"puuid"`
	ChampionName string       `json:"championName,omitempty"`
	Level        int          `json:"level,omitempty"`
	Rank         lcu.RankInfo `json:"rank"`
}

// AnalyzeEngine publishes teammate and enemy rosters with ranked standings.
// Teammates come from the character-select session and run once per match;
// enemies come from live telemetry once the match is running, with bounded
// retries while the telemetry roster fills in. Both results are one-shot per
// match; the flags reset when a fresh match flow starts from idle.
type AnalyzeEngine struct {
	app    *state.App
	client analyzeClient
	live   *lcu.LiveClient
	sink   status.Sink

	interval     time.Duration
	retryBackoff time.Duration
	maxRetries   int

	tracker      PhaseTracker
	enemyRetries int
}

// NewAnalyzeEngine builds the roster-analysis automation.
func NewAnalyzeEngine(app *state.App, client analyzeClient, live *lcu.LiveClient, sink status.Sink, interval, retryBackoff time.Duration, maxRetries int) *AnalyzeEngine {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if retryBackoff <= 0 {
		retryBackoff = 3 * time.Second
	}
	if maxRetries <= 0 {
		maxRetries = 10
	}
	return &AnalyzeEngine{
		app:          app,
		client:       client,
		live:         live,
		sink:         sink,
		interval:     interval,
		retryBackoff: retryBackoff,
		maxRetries:   maxRetries,
	}
}

func (e *AnalyzeEngine) Name() string { return "analyze" }

func isIdlePhase(phase string) bool {
	return phase == "" || phase == lcu.PhaseNone || phase == lcu.PhaseLobby
}

// Step polls the phase once and advances whichever analysis the phase calls
// for.
func (e *AnalyzeEngine) Step() time.Duration {
	cr := e.app.Credentials()
	if !cr.Valid() {
		return 2 * time.Second
	}

	phase, err := e.client.GetGameflowPhase(cr)
	if err != nil {
		return 5 * time.Second
	}

	wasIdle := isIdlePhase(e.tracker.Current())
	e.tracker.Observe(phase)

	switch {
	case wasIdle && !isIdlePhase(phase):
		// A fresh match flow began; forget the previous match.
		e.app.ResetAnalysisState()
		e.enemyRetries = 0
		e.sink.Publish("info", "new match flow detected, analysis state reset")

	case phase == lcu.PhaseChampSelect && !e.app.TeammateAnalysisDone():
		e.analyzeTeammates(cr)

	case (phase == lcu.PhaseInProgress || phase == lcu.PhaseGameStart) && !e.app.EnemyAnalysisDone():
		if e.enemyRetries >= e.maxRetries {
			e.app.MarkEnemyAnalysisDone()
			e.sink.Publish("error", "enemy roster unavailable, giving up")
			return e.interval
		}
		e.enemyRetries++
		if !e.analyzeEnemies(cr) {
			return e.retryBackoff
		}

	case phase == lcu.PhaseEndOfGame:
		if e.app.TeammateAnalysisDone() || e.app.EnemyAnalysisDone() {
			e.sink.Publish("info", "match finished, waiting for the next one")
		}
	}

	if (phase == lcu.PhaseInProgress || phase == lcu.PhaseGameStart) && !e.app.EnemyAnalysisDone() {
		return time.Second
	}
	return e.interval
}

// analyzeTeammates reads the character-select roster, records each teammate
// identity for later enemy filtering and publishes the roster with ranks.
func (e *AnalyzeEngine) analyzeTeammates(cr lcu.Credentials) {
	session, err := e.client.GetChampSelectSession(cr)
	if err != nil {
		return
	}

	var teammates []AnalyzedPlayer
	for _, member := range session.MyTeam {
		if member.PUUID == "" {
			continue
		}
		e.app.RecordTeammate(member.PUUID)
		teammates = append(teammates, AnalyzedPlayer{
			GameName: member.GameName,
			TagLine:  member.TagLine,
			PUUID:    member.PUUID,
			Rank:     e.rankFor(cr, member.SummonerID, member.PUUID),
		})
	}
	if len(teammates) == 0 {
		return
	}

	e.app.MarkTeammateAnalysisDone()
	metrics.WatcherActions.WithLabelValues(e.Name(), "teammates").Inc()
	e.sink.PublishData("teammates_found", map[string]any{"teammates": teammates})
	e.sink.Publish("info", fmt.Sprintf("found %d teammates", len(teammates)))
}

// analyzeEnemies reads the live roster and publishes the enemy half. Players
// recorded as teammates during character select are filtered out even if the
// telemetry classified them as enemies.
func (e *AnalyzeEngine) analyzeEnemies(cr lcu.Credentials) bool {
	e.sink.Publish("info", fmt.Sprintf("fetching enemy roster (attempt %d/%d)", e.enemyRetries, e.maxRetries))

	roster, err := e.client.AllPlayersFromGame(cr, e.live)
	if err != nil {
		return false
	}

	var enemies []AnalyzedPlayer
	for _, enemy := range roster.Enemies {
		if enemy.PUUID != "" && e.app.IsTeammate(enemy.PUUID) {
			continue
		}
		enemies = append(enemies, AnalyzedPlayer{
			GameName:     enemy.GameName,
			TagLine:      enemy.TagLine,
			SummonerName: enemy.SummonerName,
			PUUID:        enemy.PUUID,
			ChampionName: enemy.ChampionName,
			Level:        enemy.Level,
			Rank:         e.rankFor(cr, 0, enemy.PUUID),
		})
	}
	if len(enemies) == 0 {
		return false
	}

	e.app.MarkEnemyAnalysisDone()
	metrics.WatcherActions.WithLabelValues(e.Name(), "enemies").Inc()
	e.sink.PublishData("enemies_found", map[string]any{"enemies": enemies})
	e.sink.Publish("info", fmt.Sprintf("found %d enemies", len(enemies)))
	return true
}

func (e *AnalyzeEngine) rankFor(cr lcu.Credentials, summonerID int64, puuid string) lcu.RankInfo {
	if puuid == "" && summonerID == 0 {
		return lcu.UnrankedInfo()
	}
	summary, err := e.client.GetRankedStats(cr, summonerID, puuid)
	if err != nil {
		return lcu.UnrankedInfo()
	}
	return summary.SoloQueue()
}
