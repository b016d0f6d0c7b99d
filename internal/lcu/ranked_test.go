package lcu

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalQueueKind(t *testing.T) {
	tests := []struct {
		raw  string
		want QueueKind
	}{
		{"RANKED_SOLO_5x5", QueueSoloDuo},
		{"RANKED_SOLO_5X5", QueueSoloDuo},
		{"solo", QueueSoloDuo},
		{"RANKED_FLEX_SR", QueueFlex},
		{"flex", QueueFlex},
		{"RANKED_TFT", QueueTFT},
		{" ranked_tft ", QueueTFT},
		{"RANKED_TFT_TURBO", QueueOther},
		{"", QueueOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalQueueKind(tt.raw), "raw=%q", tt.raw)
	}
}

func TestRankedQueueUnmarshalAliases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want RankedQueue
	}{
		{
			"queueType and division",
			`{"queueType":"RANKED_SOLO_5x5","tier":"gold","division":"II","leaguePoints":42,"wins":10,"losses":5}`,
			RankedQueue{QueueType: "RANKED_SOLO_5x5", Kind: QueueSoloDuo, Tier: "GOLD", Division: "II", LeaguePoints: 42, Wins: 10, Losses: 5},
		},
		{
			"queue and rank aliases",
			`{"queue":"RANKED_FLEX_SR","tier":"SILVER","rank":"IV"}`,
			RankedQueue{QueueType: "RANKED_FLEX_SR", Kind: QueueFlex, Tier: "SILVER", Division: "IV"},
		},
		{
			"type alias",
			`{"type":"RANKED_TFT","tier":"IRON"}`,
			RankedQueue{QueueType: "RANKED_TFT", Kind: QueueTFT, Tier: "IRON"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q RankedQueue
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &q))
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestNormalizeRankedPayloadShapes(t *testing.T) {
	solo := `{"queueType":"RANKED_SOLO_5x5","tier":"GOLD","division":"I"}`
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"bare array", `[` + solo + `]`, 1},
		{"queues", `{"queues":[` + solo + `]}`, 1},
		{"queueMap", `{"queueMap":{"RANKED_SOLO_5x5":` + solo + `}}`, 1},
		{"queueSummaries", `{"queueSummaries":[` + solo + `,` + solo + `]}`, 2},
		{"entries", `{"entries":[` + solo + `]}`, 1},
		{"empty object", `{}`, 0},
		{"empty payload", ``, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeRankedPayload([]byte(tt.raw), "test")
			if tt.want == 0 {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Len(t, got.Queues, tt.want)
			assert.Equal(t, "test", got.DataSource)
		})
	}
}

func TestSoloQueue(t *testing.T) {
	tests := []struct {
		name    string
		summary *RankedSummary
		want    RankInfo
	}{
		{"nil summary", nil, RankInfo{Tier: "UNRANKED"}},
		{"no solo queue", &RankedSummary{Queues: []RankedQueue{{Kind: QueueFlex, Tier: "GOLD"}}}, RankInfo{Tier: "UNRANKED"}},
		{
			"solo standing",
			&RankedSummary{Queues: []RankedQueue{{Kind: QueueSoloDuo, Tier: "PLATINUM", Division: "III", LeaguePoints: 55}}},
			RankInfo{Tier: "PLATINUM", Division: "III", LP: 55},
		},
		{
			"apex tier drops division",
			&RankedSummary{Queues: []RankedQueue{{Kind: QueueSoloDuo, Tier: "CHALLENGER", Division: "I", LeaguePoints: 1200}}},
			RankInfo{Tier: "CHALLENGER", LP: 1200},
		},
		{
			"empty tier defaults",
			&RankedSummary{Queues: []RankedQueue{{Kind: QueueSoloDuo}}},
			RankInfo{Tier: "UNRANKED"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.summary.SoloQueue())
		})
	}
}

func TestGetRankedStatsWalksEndpoints(t *testing.T) {
	var paths []string
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/lol-ranked/v1/ranked-stats/77":
			http.Error(w, "gone", http.StatusNotFound)
		case "/lol-ranked/v1/ranked-stats/by-puuid/p-1":
			w.Write([]byte(`{}`)) // answers, but holds no queues
		case "/lol-ranked/v2/summoner/77":
			w.Write([]byte(`{"queues":[{"queueType":"RANKED_SOLO_5x5","tier":"DIAMOND","division":"IV"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	s := NewSummoners(NewClient(0), time.Minute, 10)
	summary, err := s.GetRankedStats(testCreds(t, ts), 77, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "lol-ranked/v2/summoner", summary.DataSource)
	assert.Equal(t, RankInfo{Tier: "DIAMOND", Division: "IV"}, summary.SoloQueue())
	assert.Equal(t, []string{
		"/lol-ranked/v1/ranked-stats/77",
		"/lol-ranked/v1/ranked-stats/by-puuid/p-1",
		"/lol-ranked/v2/summoner/77",
	}, paths)
}

func TestGetRankedStatsSkipsIDEndpointsWithoutSummonerID(t *testing.T) {
	var paths []string
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`[{"queueType":"RANKED_SOLO_5x5","tier":"GOLD","division":"II"}]`))
	}))
	defer ts.Close()

	s := NewSummoners(NewClient(0), time.Minute, 10)
	summary, err := s.GetRankedStats(testCreds(t, ts), 0, "p-2")
	require.NoError(t, err)
	assert.Equal(t, "lol-ranked/v1/ranked-stats/by-puuid", summary.DataSource)
	assert.Equal(t, []string{"/lol-ranked/v1/ranked-stats/by-puuid/p-2"}, paths)
}

func TestGetRankedStatsNeedsAnIdentifier(t *testing.T) {
	s := NewSummoners(NewClient(0), time.Minute, 10)
	_, err := s.GetRankedStats(Credentials{Token: "x", Port: 1}, 0, "")
	assert.Error(t, err)
}
