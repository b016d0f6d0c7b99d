package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riftwatch/internal/lcu"
)

type fakeAnalyzeClient struct {
	phase       string
	session     *lcu.ChampSelectSession
	roster      *lcu.Roster
	rosterErr   error
	rosterCalls int
	rankCalls   int
}

func (f *fakeAnalyzeClient) GetGameflowPhase(lcu.Credentials) (string, error) {
	return f.phase, nil
}

func (f *fakeAnalyzeClient) GetChampSelectSession(lcu.Credentials) (*lcu.ChampSelectSession, error) {
	if f.session == nil {
		return nil, lcu.ErrUnavailable
	}
	return f.session, nil
}

func (f *fakeAnalyzeClient) GetRankedStats(_ lcu.Credentials, _ int64, _ string) (*lcu.RankedSummary, error) {
	f.rankCalls++
	return &lcu.RankedSummary{Queues: []lcu.RankedQueue{
		{Kind: lcu.QueueSoloDuo, Tier: "GOLD", Division: "II", LeaguePoints: 10},
	}}, nil
}

func (f *fakeAnalyzeClient) AllPlayersFromGame(lcu.Credentials, *lcu.LiveClient) (*lcu.Roster, error) {
	f.rosterCalls++
	if f.rosterErr != nil {
		return nil, f.rosterErr
	}
	return f.roster, nil
}

func newAnalyzeForTest(client *fakeAnalyzeClient, sink *captureSink, maxRetries int) (*AnalyzeEngine, *fakeAnalyzeClient) {
	app := connectedApp()
	engine := NewAnalyzeEngine(app, client, nil, sink, time.Second, time.Millisecond, maxRetries)
	return engine, client
}

func champSelectTeam(puuids ...string) *lcu.ChampSelectSession {
	session := &lcu.ChampSelectSession{}
	for i, puuid := range puuids {
		session.MyTeam = append(session.MyTeam, lcu.ChampSelectMember{
			CellID:     i,
			PUUID:      puuid,
			GameName:   "player" + puuid,
			TagLine:    "NA1",
			SummonerID: int64(i + 1),
		})
	}
	return session
}

func TestAnalyzeTeammatesOncePerMatch(t *testing.T) {
	sink := newCaptureSink()
	client := &fakeAnalyzeClient{phase: lcu.PhaseLobby, session: champSelectTeam("p1", "p2")}
	engine, _ := newAnalyzeForTest(client, sink, 3)

	engine.Step() // idle

	client.phase = lcu.PhaseChampSelect
	engine.Step() // idle -> active edge resets state
	engine.Step() // analyzes teammates
	engine.Step() // already done, no second publish

	require.Contains(t, sink.events, "teammates_found")
	assert.Equal(t, 2, client.rankCalls)
	assert.True(t, engine.app.TeammateAnalysisDone())
	assert.True(t, engine.app.IsTeammate("p1"))
	assert.True(t, engine.app.IsTeammate("p2"))
}

func TestAnalyzeTeammatesSkipsMembersWithoutPUUID(t *testing.T) {
	sink := newCaptureSink()
	client := &fakeAnalyzeClient{phase: lcu.PhaseChampSelect, session: champSelectTeam("p1", "")}
	engine, _ := newAnalyzeForTest(client, sink, 3)

	engine.Step() // edge reset
	engine.Step()

	assert.Equal(t, 1, engine.app.TeammateCount())
}

func TestAnalyzeEnemiesFiltersRecordedTeammates(t *testing.T) {
	sink := newCaptureSink()
	client := &fakeAnalyzeClient{
		phase: lcu.PhaseInProgress,
		roster: &lcu.Roster{Enemies: []lcu.RosterPlayer{
			{PUUID: "p1", SummonerName: "misfiled ally"},
			{PUUID: "e1", SummonerName: "real enemy", ChampionName: "Ahri", Level: 12},
		}},
	}
	engine, _ := newAnalyzeForTest(client, sink, 3)
	engine.Step() // edge reset
	engine.app.RecordTeammate("p1")

	engine.Step()

	payload, ok := sink.events["enemies_found"].(map[string]any)
	require.True(t, ok)
	enemies := payload["enemies"].([]AnalyzedPlayer)
	require.Len(t, enemies, 1)
	assert.Equal(t, "e1", enemies[0].PUUID)
	assert.Equal(t, "GOLD", enemies[0].Rank.Tier)
	assert.True(t, engine.app.EnemyAnalysisDone())
}

func TestAnalyzeEnemiesGivesUpAfterMaxRetries(t *testing.T) {
	sink := newCaptureSink()
	client := &fakeAnalyzeClient{phase: lcu.PhaseInProgress, rosterErr: lcu.ErrUnavailable}
	engine, _ := newAnalyzeForTest(client, sink, 2)

	engine.Step() // edge reset
	engine.Step() // attempt 1
	engine.Step() // attempt 2
	engine.Step() // budget exhausted, gives up
	engine.Step() // terminal, no more fetches

	assert.Equal(t, 2, client.rosterCalls)
	assert.True(t, engine.app.EnemyAnalysisDone())
}

func TestAnalyzeResetsOnNewMatchFlow(t *testing.T) {
	sink := newCaptureSink()
	client := &fakeAnalyzeClient{phase: lcu.PhaseChampSelect, session: champSelectTeam("p1")}
	engine, _ := newAnalyzeForTest(client, sink, 3)

	engine.Step() // edge reset
	engine.Step() // teammates analyzed
	require.True(t, engine.app.TeammateAnalysisDone())

	// Back to the lobby, then a new match flow starts.
	client.phase = lcu.PhaseLobby
	engine.Step()
	client.phase = lcu.PhaseChampSelect
	engine.Step() // edge reset again

	assert.False(t, engine.app.TeammateAnalysisDone())
	assert.Equal(t, 0, engine.app.TeammateCount())
}

func TestAnalyzeTightensCadenceWhileEnemiesPending(t *testing.T) {
	sink := newCaptureSink()
	client := &fakeAnalyzeClient{
		phase: lcu.PhaseInProgress,
		roster: &lcu.Roster{Enemies: []lcu.RosterPlayer{
			{PUUID: "e1", SummonerName: "enemy"},
		}},
	}
	engine := NewAnalyzeEngine(connectedApp(), client, nil, sink, 2*time.Second, time.Millisecond, 3)

	wait := engine.Step() // edge reset; enemies still pending
	assert.Equal(t, time.Second, wait)

	wait = engine.Step() // analysis succeeds, back to the normal cadence
	assert.Equal(t, 2*time.Second, wait)
}
