package lcu

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// QueueKind is the canonical ranked-queue enumeration. The upstream spells
// the same queue several ways across endpoints ("RANKED_SOLO_5x5",
// "RANKED_SOLO_5X5", "SOLO", ...); everything is normalized into this one
// set at the decode boundary.
type QueueKind string

const (
	QueueSoloDuo QueueKind = "solo"
	QueueFlex    QueueKind = "flex"
	QueueTFT     QueueKind = "tft"
	QueueOther   QueueKind = "other"
)

// CanonicalQueueKind maps an upstream queue-type string onto QueueKind.
func CanonicalQueueKind(raw string) QueueKind {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "RANKED_SOLO_5X5", "RANKED_SOLO", "SOLO":
		return QueueSoloDuo
	case "RANKED_FLEX_SR", "RANKED_FLEX", "FLEX":
		return QueueFlex
	case "RANKED_TFT", "TFT":
		return QueueTFT
	default:
		return QueueOther
	}
}

// RankedQueue is one queue's standing. The upstream names the queue-type
// field differently per endpoint, so decoding probes the known aliases.
type RankedQueue struct {
	QueueType    string
	Kind         QueueKind
	Tier         string
	Division     string
	LeaguePoints int
	Wins         int
	Losses       int
}

func (q *RankedQueue) UnmarshalJSON(data []byte) error {
	var aux struct {
		QueueType    string `json:"queueType"`
		Queue        string `json:"queue"`
		Type         string `json:"type"`
		Tier         string `json:"tier"`
		Division     string `json:"division"`
		Rank         string `json:"rank"`
		LeaguePoints int    `json:"leaguePoints"`
		Wins         int    `json:"wins"`
		Losses       int    `json:"losses"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	queueType := aux.QueueType
	if queueType == "" {
		queueType = aux.Queue
	}
	if queueType == "" {
		queueType = aux.Type
	}
	division := aux.Division
	if division == "" {
		division = aux.Rank
	}
	*q = RankedQueue{
		QueueType:    queueType,
		Kind:         CanonicalQueueKind(queueType),
		Tier:         strings.ToUpper(aux.Tier),
		Division:     division,
		LeaguePoints: aux.LeaguePoints,
		Wins:         aux.Wins,
		Losses:       aux.Losses,
	}
	return nil
}

// RankedSummary is the normalized ranked standing: one queue list regardless
// of which endpoint shape produced it. DataSource names the endpoint that
// answered, for debugging.
type RankedSummary struct {
	Queues     []RankedQueue
	DataSource string
}

// RankInfo is the displayable standing for one queue.
type RankInfo struct {
	Tier     string `json:"tier"`
	Division string `json:"division"`
	LP       int    `json:"lp"`
}

// UnrankedInfo is the default standing when no ranked data is available.
func UnrankedInfo() RankInfo {
	return RankInfo{Tier: "UNRANKED"}
}

// SoloQueue extracts the solo/duo standing, defaulting to unranked. Apex
// tiers carry no division.
func (r *RankedSummary) SoloQueue() RankInfo {
	if r == nil {
		return UnrankedInfo()
	}
	for _, q := range r.Queues {
		if q.Kind != QueueSoloDuo {
			continue
		}
		info := RankInfo{Tier: q.Tier, Division: q.Division, LP: q.LeaguePoints}
		if info.Tier == "" {
			info.Tier = "UNRANKED"
		}
		switch info.Tier {
		case "MASTER", "GRANDMASTER", "CHALLENGER":
			info.Division = ""
		}
		return info
	}
	return UnrankedInfo()
}

// normalizeRankedPayload folds the assorted endpoint shapes — {queues:[...]},
// {queueMap:{...}}, {queueSummaries:[...]}, {entries:[...]} and a bare array
// — into one RankedSummary. A nil result means the payload held no queues.
func normalizeRankedPayload(raw []byte, tag string) *RankedSummary {
	if len(raw) == 0 {
		return nil
	}

	var asList []RankedQueue
	if err := json.Unmarshal(raw, &asList); err == nil && len(asList) > 0 {
		return &RankedSummary{Queues: asList, DataSource: tag}
	}

	var asObject struct {
		Queues         []RankedQueue          `json:"queues"`
		QueueMap       map[string]RankedQueue `json:"queueMap"`
		QueueSummaries []RankedQueue          `json:"queueSummaries"`
		Entries        []RankedQueue          `json:"entries"`
	}
	if err := json.Unmarshal(raw, &asObject); err != nil {
		return nil
	}

	queues := append([]RankedQueue{}, asObject.Queues...)
	for _, q := range asObject.QueueMap {
		queues = append(queues, q)
	}
	queues = append(queues, asObject.QueueSummaries...)
	queues = append(queues, asObject.Entries...)

	if len(queues) == 0 {
		return nil
	}
	return &RankedSummary{Queues: queues, DataSource: tag}
}

// GetRankedStats fetches a player's ranked standing, walking the known
// endpoint variants in order until one yields queues. Different client
// builds expose different subsets of these paths.
func (s *Summoners) GetRankedStats(cr Credentials, summonerID int64, puuid string) (*RankedSummary, error) {
	type endpoint struct {
		path string
		tag  string
	}
	var endpoints []endpoint
	if summonerID != 0 {
		endpoints = append(endpoints, endpoint{
			fmt.Sprintf("/lol-ranked/v1/ranked-stats/%d", summonerID),
			"lol-ranked/v1/ranked-stats",
		})
	}
	if puuid != "" {
		endpoints = append(endpoints, endpoint{
			"/lol-ranked/v1/ranked-stats/by-puuid/" + url.PathEscape(puuid),
			"lol-ranked/v1/ranked-stats/by-puuid",
		})
	}
	if summonerID != 0 {
		endpoints = append(endpoints,
			endpoint{fmt.Sprintf("/lol-ranked/v2/summoner/%d", summonerID), "lol-ranked/v2/summoner"},
			endpoint{fmt.Sprintf("/lol-league/v1/entries/by-summoner/%d", summonerID), "lol-league/v1/entries/by-summoner"},
			endpoint{fmt.Sprintf("/lol-league/v1/positions/by-summoner/%d", summonerID), "lol-league/v1/positions/by-summoner"},
		)
	}
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("ranked stats: no summoner identifier")
	}

	var lastErr error
	for _, ep := range endpoints {
		raw, err := s.Do(cr, "GET", ep.path, nil, nil, 0)
		if err != nil {
			lastErr = err
			continue
		}
		if summary := normalizeRankedPayload(raw, ep.tag); summary != nil {
			return summary, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: no ranked data", ErrUnavailable)
}
