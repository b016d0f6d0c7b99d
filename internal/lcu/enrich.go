package lcu

import (
	"encoding/json"
	"fmt"

	"riftwatch/internal/augments"
)

// EnrichGameWithSummonerInfo fills missing summoner identity fields on every
// participant of a match document, in place. Older history payloads carry
// identities in a separate participantIdentities list, newer ones embed riot
// id fields; live lookups fill whatever both miss. Resolution order per
// participant: puuid, then summonerId, then display name, then the identities
// list as last resort. Lookup failures skip the participant.
func (s *Summoners) EnrichGameWithSummonerInfo(cr Credentials, game map[string]any) map[string]any {
	if game == nil {
		return nil
	}

	idents := make(map[float64]map[string]any)
	for _, raw := range asSlice(game["participantIdentities"]) {
		ident, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		pid, ok := ident["participantId"].(float64)
		if !ok {
			continue
		}
		if player, ok := ident["player"].(map[string]any); ok {
			idents[pid] = player
		}
	}

	for _, raw := range asSlice(game["participants"]) {
		p, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		if str(p["summonerName"]) == "" {
			if name := riotIDName(p); name != "" {
				p["summonerName"] = name
			}
		}

		info := s.lookupParticipant(cr, p)
		if info != nil {
			if name := info.Name(); name != "" {
				p["summonerName"] = name
			}
			if icon := info.Icon(); icon != 0 {
				p["profileIcon"] = icon
			}
			if info.PUUID != "" {
				p["puuid"] = info.PUUID
			}
		}

		if str(p["summonerName"]) != "" {
			continue
		}
		pid, ok := p["participantId"].(float64)
		if !ok {
			continue
		}
		player, ok := idents[pid]
		if !ok {
			continue
		}
		gameName := str(player["gameName"])
		if gameName == "" {
			gameName = str(player["summonerName"])
		}
		if gameName != "" {
			if tag := str(player["tagLine"]); tag != "" {
				p["summonerName"] = gameName + "#" + tag
			} else {
				p["summonerName"] = gameName
			}
		}
		if icon, ok := player["profileIcon"]; ok && p["profileIcon"] == nil {
			p["profileIcon"] = icon
		}
		if puuid := str(player["puuid"]); puuid != "" && str(p["puuid"]) == "" {
			p["puuid"] = puuid
		}
	}
	return game
}

// lookupParticipant tries the identity lookups in order of reliability.
func (s *Summoners) lookupParticipant(cr Credentials, p map[string]any) *Summoner {
	player, _ := p["player"].(map[string]any)

	puuid := str(p["puuid"])
	if puuid == "" && player != nil {
		puuid = str(player["puuid"])
	}
	if puuid != "" {
		if info, err := s.GetSummonerByPUUID(cr, puuid); err == nil {
			return info
		}
	}

	sid := asInt64(p["summonerId"])
	if sid == 0 && player != nil {
		sid = asInt64(player["summonerId"])
	}
	if sid != 0 {
		if info, err := s.GetSummonerByID(cr, sid); err == nil {
			return info
		}
	}

	name := str(p["summonerName"])
	if name == "" && player != nil {
		name = str(player["summonerName"])
	}
	if name != "" {
		if info, err := s.GetSummonerByName(cr, name); err == nil {
			return info
		}
	}
	return nil
}

// EnrichTFTGameWithSummonerInfo fills summoner identity on a TFT match
// document, in place. TFT nests its participants under a json envelope.
func (s *Summoners) EnrichTFTGameWithSummonerInfo(cr Credentials, game map[string]any) map[string]any {
	if game == nil {
		return nil
	}
	inner, ok := game["json"].(map[string]any)
	if !ok {
		inner = game
	}

	for _, raw := range asSlice(inner["participants"]) {
		p, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		if str(p["summonerName"]) == "" {
			if name := riotIDName(p); name != "" {
				p["summonerName"] = name
			}
		}

		puuid := str(p["puuid"])
		if puuid == "" {
			if player, ok := p["player"].(map[string]any); ok {
				puuid = str(player["puuid"])
			}
		}
		if puuid == "" {
			continue
		}
		info, err := s.GetSummonerByPUUID(cr, puuid)
		if err != nil {
			continue
		}

		gameName := info.GameName
		if gameName == "" {
			gameName = info.DisplayName
		}
		if gameName != "" {
			if info.TagLine != "" {
				p["summonerName"] = gameName + "#" + info.TagLine
			} else {
				p["summonerName"] = gameName
			}
			p["riotIdGameName"] = gameName
			p["riotIdTagline"] = info.TagLine
		}
		if icon := info.Icon(); icon != 0 {
			p["profileIcon"] = icon
		}
		if info.PUUID != "" {
			p["puuid"] = info.PUUID
		}
	}
	return game
}

// EnrichGameWithAugments annotates arena participants with augment icon URLs
// and asset names, in place. Only KIWI and CHERRY documents carry augments.
// CHERRY stores raw ids that map with a +1000 offset; KIWI ids arrive already
// offset.
func EnrichGameWithAugments(game map[string]any) map[string]any {
	if game == nil {
		return nil
	}
	mode := str(game["gameMode"])
	if mode != "KIWI" && mode != "CHERRY" {
		return game
	}

	for _, raw := range asSlice(game["participants"]) {
		p, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		stats, ok := p["stats"].(map[string]any)
		if !ok {
			continue
		}
		for i := 1; i <= 6; i++ {
			iconKey := fmt.Sprintf("augmentIcon%d", i)
			nameKey := fmt.Sprintf("augmentName%d", i)

			id := int(asInt64(stats[fmt.Sprintf("playerAugment%d", i)]))
			if id <= 0 {
				stats[iconKey] = nil
				stats[nameKey] = nil
				continue
			}
			if mode == "CHERRY" {
				id += 1000
			}
			if url := augments.IconURL(id); url != "" {
				stats[iconKey] = url
				name, _ := augments.Name(id)
				stats[nameKey] = name
			} else {
				stats[iconKey] = nil
				stats[nameKey] = nil
			}
		}
	}
	return game
}

func riotIDName(p map[string]any) string {
	gameName := str(p["riotIdGameName"])
	if gameName == "" {
		gameName = str(p["riotId"])
	}
	if gameName == "" {
		return ""
	}
	tag := str(p["riotIdTagline"])
	if tag == "" {
		tag = str(p["riotTagLine"])
	}
	if tag != "" {
		return gameName + "#" + tag
	}
	return gameName
}

func asSlice(v any) []any {
	list, _ := v.([]any)
	return list
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	default:
		return 0
	}
}
