package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"riftwatch/internal/lcu"
	"riftwatch/internal/liveformat"
	"riftwatch/internal/matches"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	cr := s.app.Credentials()
	resp := map[string]any{
		"connected": cr.Valid(),
		"clients":   s.hub.ClientCount(),
	}
	if cr.Valid() {
		resp["port"] = cr.Port
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleConnect runs credential discovery on demand. The connection watcher
// does this continuously; the endpoint exists so the front end can force an
// immediate attempt.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if cr := s.app.Credentials(); cr.Valid() {
		writeJSON(w, http.StatusOK, map[string]any{"connected": true, "port": cr.Port})
		return
	}
	cr, ok := s.discover()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"connected": false})
		return
	}
	s.app.SetCredentials(cr)
	writeJSON(w, http.StatusOK, map[string]any{"connected": true, "port": cr.Port})
}

func (s *Server) handlePhase(w http.ResponseWriter, r *http.Request) {
	cr := s.app.Credentials()
	phase, err := s.client.GetGameflowPhase(cr)
	if err != nil {
		s.upstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"phase": phase})
}

func (s *Server) handleCurrentSummoner(w http.ResponseWriter, r *http.Request) {
	cr := s.app.Credentials()
	summoner, err := s.summoners.GetCurrentSummoner(cr)
	if err != nil {
		s.upstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":          summoner.Name(),
		"puuid":         summoner.PUUID,
		"summonerId":    summoner.SummonerID,
		"profileIconId": summoner.Icon(),
		"summonerLevel": summoner.SummonerLevel,
	})
}

func (s *Server) handleAcceptReadyCheck(w http.ResponseWriter, r *http.Request) {
	cr := s.app.Credentials()
	if err := s.client.AcceptReadyCheck(cr); err != nil {
		s.upstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"accepted": true})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	count := queryInt(r, "count", 20)
	// Pages are 1-based: page 1 is the most recent count games.
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}

	cr := s.app.Credentials()
	puuid, err := s.summoners.GetPUUID(cr, name)
	if err != nil {
		s.upstreamError(w, err)
		return
	}

	env, err := s.history.GetMatchHistory(cr, puuid, count, (page-1)*count)
	if err != nil {
		s.upstreamError(w, err)
		return
	}

	summaries := s.matches.ProcessHistory(env, puuid)
	if s.archive != nil {
		if _, err := s.archive.ArchiveSummaries(r.Context(), puuid, summaries); err != nil {
			// Archival is best-effort; the response does not depend on it.
			s.hub.Publish("warning", "match archive write failed: "+err.Error())
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"puuid": puuid,
		"games": summaries,
		"count": len(summaries),
	})
}

func (s *Server) handleTFTHistory(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	count := queryInt(r, "count", 20)

	cr := s.app.Credentials()
	puuid, err := s.summoners.GetPUUID(cr, name)
	if err != nil {
		s.upstreamError(w, err)
		return
	}
	env, err := s.history.GetTFTMatchHistory(cr, puuid, count)
	if err != nil {
		s.upstreamError(w, err)
		return
	}
	summaries := s.matches.ProcessTFTHistory(env, puuid)
	writeJSON(w, http.StatusOK, map[string]any{
		"puuid": puuid,
		"games": summaries,
		"count": len(summaries),
	})
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "archive disabled")
		return
	}
	puuid := r.URL.Query().Get("puuid")
	if puuid == "" {
		writeError(w, http.StatusBadRequest, "puuid is required")
		return
	}
	summaries, err := s.archive.Recent(r.Context(), puuid, queryInt(r, "count", 20))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": summaries, "count": len(summaries)})
}

func (s *Server) handleMatchDetail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := matches.DetailRequest{
		SummonerName: q.Get("name"),
		MatchID:      q.Get("matchId"),
		Index:        queryInt(r, "index", 0),
		TFT:          q.Get("tft") == "1",
	}

	game, err := s.matches.GetMatchDetail(s.app.Credentials(), req)
	if err != nil {
		if errors.Is(err, matches.ErrBadRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.upstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	raw, err := s.live.GetLiveGameData()
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"running": false})
		return
	}
	snapshot := liveformat.FormatGameData(raw)
	writeJSON(w, http.StatusOK, map[string]any{"running": true, "game": snapshot})
}

func (s *Server) handleLivePlayers(w http.ResponseWriter, r *http.Request) {
	roster, err := s.summoners.AllPlayersFromGame(s.app.Credentials(), s.live)
	if err != nil {
		s.upstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

func (s *Server) handleChampSelectEnemies(w http.ResponseWriter, r *http.Request) {
	enemies, err := s.client.ChampSelectEnemies(s.app.Credentials())
	if err != nil {
		s.upstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"enemies": enemies})
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActionID   int `json:"actionId"`
		ChampionID int `json:"championId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := s.client.HoverChampion(s.app.Credentials(), req.ActionID, req.ChampionID); err != nil {
		s.upstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"hovered": true})
}

func (s *Server) handleWatcherStart(w http.ResponseWriter, r *http.Request) {
	runner, ok := s.runners[mux.Vars(r)["name"]]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown watcher")
		return
	}
	runner.Start()
	writeJSON(w, http.StatusOK, map[string]bool{"running": true})
}

func (s *Server) handleWatcherStop(w http.ResponseWriter, r *http.Request) {
	runner, ok := s.runners[mux.Vars(r)["name"]]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown watcher")
		return
	}
	runner.Stop()
	writeJSON(w, http.StatusOK, map[string]bool{"running": false})
}

func (s *Server) handleBanPickPreferences(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BanChampionID    int   `json:"banChampionId"`
		PickChampionID   int   `json:"pickChampionId"`
		BanCandidateIDs  []int `json:"banCandidateIds"`
		PickCandidateIDs []int `json:"pickCandidateIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.app.SetBanPickTargets(req.BanChampionID, req.PickChampionID, req.BanCandidateIDs, req.PickCandidateIDs)
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// upstreamError maps the lcu sentinels onto HTTP status codes.
func (s *Server) upstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lcu.ErrNotConnected):
		writeError(w, http.StatusServiceUnavailable, "league client is not connected")
	case errors.Is(err, lcu.ErrUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
