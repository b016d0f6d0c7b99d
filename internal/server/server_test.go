package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riftwatch/internal/lcu"
	"riftwatch/internal/matches"
	"riftwatch/internal/state"
	"riftwatch/internal/watcher"
)

type idleEngine struct{ name string }

func (e *idleEngine) Name() string        { return e.name }
func (e *idleEngine) Step() time.Duration { return time.Hour }

func testServer() (*Server, *state.App) {
	app := state.NewApp()
	srv := New(Options{
		App:       app,
		Client:    lcu.NewClient(0),
		Summoners: lcu.NewSummoners(lcu.NewClient(0), time.Minute, 10),
		Live:      lcu.NewLiveClient("https://127.0.0.1:1", time.Second),
		Hub:       NewHub(),
		Discover:  func() (lcu.Credentials, bool) { return lcu.Credentials{}, false },
		Runners: map[string]*watcher.Runner{
			"accept": watcher.NewRunner(&idleEngine{name: "accept"}),
		},
	})
	return srv, app
}

func TestHandleStatus(t *testing.T) {
	srv, app := testServer()

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"connected":false`)

	app.SetCredentials(lcu.Credentials{Token: "t", Port: 9999})
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	assert.Contains(t, rec.Body.String(), `"connected":true`)
	assert.Contains(t, rec.Body.String(), `"port":9999`)
}

func TestHandlePhaseWithoutSession(t *testing.T) {
	srv, _ := testServer()

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/phase", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleHistoryRequiresName(t *testing.T) {
	srv, _ := testServer()

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHistoryPagination(t *testing.T) {
	entries := make([]string, 0, 40)
	for i := 1; i <= 40; i++ {
		entries = append(entries, fmt.Sprintf(`{"gameId":%d,"matchId":"m%d"}`, i, i))
	}
	upstream := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/lol-summoner/v1/summoners" {
			fmt.Fprint(w, `{"puuid":"p-1","displayName":"faker"}`)
			return
		}
		fmt.Fprintf(w, `{"games":{"games":[%s]}}`, strings.Join(entries, ","))
	}))
	defer upstream.Close()

	port, err := strconv.Atoi(upstream.URL[strings.LastIndex(upstream.URL, ":")+1:])
	require.NoError(t, err)
	app := state.NewApp()
	app.SetCredentials(lcu.Credentials{Token: "t", Port: port})

	client := lcu.NewClient(time.Second)
	history := lcu.NewHistory(client, lcu.HistoryConfig{})
	summoners := lcu.NewSummoners(client, time.Minute, 10)
	srv := New(Options{
		App:       app,
		Client:    client,
		Summoners: summoners,
		History:   history,
		Matches:   matches.NewService(history, summoners, nil),
		Live:      lcu.NewLiveClient("https://127.0.0.1:1", time.Second),
		Hub:       NewHub(),
		Discover:  func() (lcu.Credentials, bool) { return lcu.Credentials{}, false },
		Runners:   map[string]*watcher.Runner{},
	})
	router := srv.Router()

	fetch := func(target string) []string {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Games []struct {
				MatchID string `json:"match_id"`
			} `json:"games"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		ids := make([]string, 0, len(body.Games))
		for _, g := range body.Games {
			ids = append(ids, g.MatchID)
		}
		return ids
	}

	// Page 1 is the most recent count games; page 2 continues after them.
	first := fetch("/api/history?name=faker&count=20&page=1")
	require.Len(t, first, 20)
	assert.Equal(t, "m1", first[0])
	assert.Equal(t, "m20", first[19])

	second := fetch("/api/history?name=faker&count=20&page=2")
	require.Len(t, second, 20)
	assert.Equal(t, "m21", second[0])
	assert.Equal(t, "m40", second[19])

	// An absent or out-of-range page reads as the first.
	assert.Equal(t, "m1", fetch("/api/history?name=faker&count=20")[0])
	assert.Equal(t, "m1", fetch("/api/history?name=faker&count=20&page=0")[0])
}

func TestHandleLiveReportsNotRunning(t *testing.T) {
	srv, _ := testServer()

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"running":false`)
}

func TestWatcherStartStop(t *testing.T) {
	srv, _ := testServer()
	router := srv.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/watchers/accept/start", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, srv.runners["accept"].Enabled())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/watchers/accept/stop", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, srv.runners["accept"].Enabled())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/watchers/nope/start", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBanPickPreferences(t *testing.T) {
	srv, app := testServer()

	body := `{"banChampionId":266,"pickChampionId":64,"banCandidateIds":[103],"pickCandidateIds":[11,99]}`
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/banpick/preferences", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{266, 103}, app.BanCandidates())
	assert.Equal(t, []int{64, 11, 99}, app.PickCandidates())

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/banpick/preferences", strings.NewReader("{broken")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(hub)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish("info", "hello")
	hub.PublishData("teammates_found", map[string]any{"teammates": []string{"a"}})

	var frame statusFrame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "status_update", frame.Event)
	assert.Equal(t, "hello", frame.Message)

	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "teammates_found", frame.Event)
}
