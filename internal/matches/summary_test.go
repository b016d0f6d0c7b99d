package matches

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riftwatch/internal/lcu"
)

func dummyCreds() lcu.Credentials {
	return lcu.Credentials{Token: "t", Port: 1}
}

func fixedService() *Service {
	s := NewService(nil, nil, nil)
	s.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return s
}

func TestFormatGameMode(t *testing.T) {
	assert.Equal(t, "Summoner's Rift", FormatGameMode("CLASSIC"))
	assert.Equal(t, "Arena", FormatGameMode("CHERRY"))
	assert.Equal(t, "Hexed Brawl", FormatGameMode("KIWI"))
	assert.Equal(t, "SOMETHING_NEW", FormatGameMode("SOMETHING_NEW"))
}

func TestTimeAgo(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"days", 50 * time.Hour, "2d ago"},
		{"hours", 5 * time.Hour, "5h ago"},
		{"minutes", 12 * time.Minute, "12m ago"},
		{"seconds", 20 * time.Second, "just now"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := now.Add(-tt.ago).UnixMilli()
			assert.Equal(t, tt.want, TimeAgo(ts, now))
		})
	}
	assert.Equal(t, "unknown", TimeAgo(0, now))
}

func TestSummarizeGamePicksOwnParticipant(t *testing.T) {
	game := map[string]any{
		"gameMode":     "CLASSIC",
		"gameCreation": float64(1_700_000_000_000 - 2*3600*1000),
		"gameDuration": float64(1800),
		"matchId":      "NA_123",
		"participants": []any{
			map[string]any{"puuid": "other", "championId": float64(1), "win": true},
			map[string]any{
				"puuid":      "me",
				"championId": float64(64),
				"win":        false,
				"stats": map[string]any{
					"kills": float64(3), "deaths": float64(7), "assists": float64(11),
					"goldEarned": float64(12_345), "totalMinionsKilled": float64(150),
					"neutralMinionsKilled": float64(20), "champLevel": float64(15),
				},
			},
		},
	}

	got := fixedService().SummarizeGame(game, "me")

	assert.False(t, got.Win)
	assert.Equal(t, 64, got.ChampionID)
	assert.Equal(t, "Champion64", got.Champion)
	assert.Equal(t, "3/7/11", got.KDA)
	assert.Equal(t, 12, got.Gold)
	assert.Equal(t, 170, got.CS)
	assert.Equal(t, 15, got.ChampionLevel)
	assert.Equal(t, "Summoner's Rift", got.Mode)
	assert.Equal(t, "2h ago", got.TimeAgo)
	assert.Equal(t, 1800, got.Duration)
	assert.Equal(t, "NA_123", got.MatchID)
}

func TestSummarizeGameTeamWinFallback(t *testing.T) {
	game := map[string]any{
		"gameMode": "CLASSIC",
		"participants": []any{
			map[string]any{"puuid": "me", "championId": float64(99), "teamId": float64(200)},
		},
		"teams": []any{
			map[string]any{"teamId": float64(100), "win": "Fail"},
			map[string]any{"teamId": float64(200), "win": "Win"},
		},
	}

	got := fixedService().SummarizeGame(game, "me")
	assert.True(t, got.Win)
}

func TestSummarizeGameArenaPlacement(t *testing.T) {
	game := map[string]any{
		"gameMode": "CHERRY",
		"participants": []any{
			map[string]any{
				"puuid": "me",
				"stats": map[string]any{"subteamPlacement": float64(2)},
			},
		},
	}

	got := fixedService().SummarizeGame(game, "me")
	assert.Equal(t, 2, got.Placement)
	assert.Equal(t, 2, got.SubteamPlacement)
	assert.Equal(t, "Arena", got.Mode)
}

func TestSummarizeGameDefaults(t *testing.T) {
	got := fixedService().SummarizeGame(nil, "me")
	assert.Equal(t, "0/0/0", got.KDA)
	assert.Equal(t, "Unknown", got.Champion)

	got = fixedService().SummarizeGame(map[string]any{}, "me")
	assert.Equal(t, "Summoner's Rift", got.Mode, "missing mode reads as the default queue")
	assert.Equal(t, "unknown", got.TimeAgo)
}

func TestSummarizeTFTGame(t *testing.T) {
	game := map[string]any{
		"metadata": map[string]any{"match_id": "TFT_9"},
		"json": map[string]any{
			"tft_game_type": "standard",
			"game_length":   float64(2100),
			"participants": []any{
				map[string]any{
					"puuid":                   "me",
					"placement":               float64(1),
					"last_round":              float64(35),
					"level":                   float64(9),
					"total_damage_to_players": float64(120),
					"gold_left":               float64(4),
					"traits": []any{
						map[string]any{"name": "Set11_Fated", "style": float64(1), "num_units": float64(2)},
						map[string]any{"name": "Set11_Duelist", "style": float64(4), "num_units": float64(6)},
						map[string]any{"name": "Set11_Sage", "style": float64(2), "num_units": float64(3)},
						map[string]any{"name": "Set11_Porcelain", "style": float64(3), "num_units": float64(4)},
						map[string]any{"name": "Set11_Umbral", "style": float64(2), "num_units": float64(2)},
					},
				},
			},
		},
	}

	got := fixedService().SummarizeTFTGame(game, "me")

	assert.True(t, got.Win)
	assert.Equal(t, 1, got.Placement)
	assert.Equal(t, 35, got.LastRound)
	assert.Equal(t, "TFT_9", got.MatchID)
	assert.Equal(t, 2100, got.Duration)
	require.Len(t, got.TopTraits, 3, "style below 2 is dropped, the rest capped at three")
	assert.Equal(t, "Set11_Duelist", got.TopTraits[0].Name)
	assert.Equal(t, "Set11_Porcelain", got.TopTraits[1].Name)
	assert.Equal(t, 2, got.TopTraits[2].Style)
}

func TestSummarizeTFTGameMissingPlacementReadsAsLast(t *testing.T) {
	game := map[string]any{
		"json": map[string]any{
			"participants": []any{map[string]any{"puuid": "me"}},
		},
	}

	got := fixedService().SummarizeTFTGame(game, "me")
	assert.Equal(t, 8, got.Placement)
	assert.False(t, got.Win)
	assert.Equal(t, "UNKNOWN", got.GameMode)
	assert.Empty(t, got.TopTraits)
}

func TestExtractMatchID(t *testing.T) {
	tests := []struct {
		name string
		game map[string]any
		want string
	}{
		{"metadata", map[string]any{"metadata": map[string]any{"match_id": "TFT_1"}}, "TFT_1"},
		{"matchId string", map[string]any{"matchId": "NA_2"}, "NA_2"},
		{"numeric gameId", map[string]any{"gameId": float64(5123456789)}, "5123456789"},
		{"snake case", map[string]any{"match_id": "NA_3"}, "NA_3"},
		{"nothing", map[string]any{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractMatchID(tt.game))
		})
	}
}

func TestProcessHistoryIndexesCards(t *testing.T) {
	env := lcu.NormalizeHistory([]byte(`{"games":{"games":[
		{"gameMode":"CLASSIC"},{"gameMode":"ARAM"},{"gameMode":"CHERRY"}
	]}}`))

	cards := fixedService().ProcessHistory(env, "me")
	require.Len(t, cards, 3)
	assert.Equal(t, 0, cards[0].MatchIndex)
	assert.Equal(t, 2, cards[2].MatchIndex)
	assert.Equal(t, "ARAM", cards[1].Mode)
}

func TestProcessTFTHistoryCapsAtTwenty(t *testing.T) {
	raw := `{"games":[`
	for i := 0; i < 25; i++ {
		if i > 0 {
			raw += ","
		}
		raw += `{"json":{"participants":[]}}`
	}
	raw += `]}`

	cards := fixedService().ProcessTFTHistory(lcu.NormalizeHistory([]byte(raw)), "me")
	assert.Len(t, cards, 20)
}

func TestGetMatchDetailValidatesRequest(t *testing.T) {
	s := fixedService()

	_, err := s.GetMatchDetail(dummyCreds(), DetailRequest{})
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = s.GetMatchDetail(dummyCreds(), DetailRequest{SummonerName: "me", Index: -1})
	assert.ErrorIs(t, err, ErrBadRequest)
}
