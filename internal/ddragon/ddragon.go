// Package ddragon loads static game data (champions, items, runes) from the
// Data Dragon CDN. One registry, one version fetch, lazily loaded; lookups
// before or without a successful load degrade to numeric placeholders rather
// than failing.
package ddragon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const baseURL = "https://ddragon.leagueoflegends.com"

// Champion is the display identity of one champion.
type Champion struct {
	Name string
	// Slug is the asset identifier, e.g. "MonkeyKing" for Wukong.
	Slug string
}

// Item is the display identity of one item.
type Item struct {
	Name string
	Gold int
}

// Registry caches static game data keyed by numeric id.
type Registry struct {
	mu        sync.RWMutex
	version   string
	champions map[int]Champion
	items     map[int]Item
	runes     map[int]string
	runeTrees map[int]string
	loaded    bool

	httpClient *http.Client
}

// NewRegistry creates an unloaded registry.
func NewRegistry() *Registry {
	return &Registry{
		champions:  make(map[int]Champion),
		items:      make(map[int]Item),
		runes:      make(map[int]string),
		runeTrees:  make(map[int]string),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Load fetches the latest data set. Safe to call again to refresh.
func (r *Registry) Load() error {
	var versions []string
	if err := r.getJSON(baseURL+"/api/versions.json", &versions); err != nil {
		return fmt.Errorf("fetch versions: %w", err)
	}
	if len(versions) == 0 {
		return fmt.Errorf("no data versions published")
	}
	version := versions[0]

	champions, err := r.loadChampions(version)
	if err != nil {
		return err
	}
	items, err := r.loadItems(version)
	if err != nil {
		return err
	}
	runes, trees, err := r.loadRunes(version)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.version = version
	r.champions = champions
	r.items = items
	r.runes = runes
	r.runeTrees = trees
	r.loaded = true
	r.mu.Unlock()
	return nil
}

func (r *Registry) loadChampions(version string) (map[int]Champion, error) {
	var payload struct {
		Data map[string]struct {
			Key  string `json:"key"`
			Name string `json:"name"`
		} `json:"data"`
	}
	url := fmt.Sprintf("%s/cdn/%s/data/en_US/champion.json", baseURL, version)
	if err := r.getJSON(url, &payload); err != nil {
		return nil, fmt.Errorf("fetch champions: %w", err)
	}

	champions := make(map[int]Champion, len(payload.Data))
	for slug, champ := range payload.Data {
		key, err := strconv.Atoi(champ.Key)
		if err != nil {
			continue
		}
		champions[key] = Champion{Name: champ.Name, Slug: slug}
	}
	return champions, nil
}

func (r *Registry) loadItems(version string) (map[int]Item, error) {
	var payload struct {
		Data map[string]struct {
			Name string `json:"name"`
			Gold struct {
				Total int `json:"total"`
			} `json:"gold"`
		} `json:"data"`
	}
	url := fmt.Sprintf("%s/cdn/%s/data/en_US/item.json", baseURL, version)
	if err := r.getJSON(url, &payload); err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}

	items := make(map[int]Item, len(payload.Data))
	for idStr, item := range payload.Data {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		items[id] = Item{Name: item.Name, Gold: item.Gold.Total}
	}
	return items, nil
}

func (r *Registry) loadRunes(version string) (map[int]string, map[int]string, error) {
	var trees []struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Slots []struct {
			Runes []struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"runes"`
		} `json:"slots"`
	}
	url := fmt.Sprintf("%s/cdn/%s/data/en_US/runesReforged.json", baseURL, version)
	if err := r.getJSON(url, &trees); err != nil {
		return nil, nil, fmt.Errorf("fetch runes: %w", err)
	}

	runes := make(map[int]string)
	treeNames := make(map[int]string, len(trees))
	for _, tree := range trees {
		treeNames[tree.ID] = tree.Name
		for _, slot := range tree.Slots {
			for _, entry := range slot.Runes {
				runes[entry.ID] = entry.Name
			}
		}
	}

	// Stat shards are not in the published rune trees.
	for id, name := range map[int]string{
		5001: "Health Scaling",
		5002: "Armor",
		5003: "Magic Resist",
		5005: "Attack Speed",
		5007: "Ability Haste",
		5008: "Adaptive Force",
		5011: "Health",
	} {
		runes[id] = name
	}
	return runes, treeNames, nil
}

func (r *Registry) getJSON(url string, out any) error {
	resp, err := r.httpClient.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Loaded reports whether a data set has been fetched.
func (r *Registry) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Version returns the loaded data version, or "".
func (r *Registry) Version() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// ChampionName resolves a champion id to its display name.
func (r *Registry) ChampionName(id int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if champ, ok := r.champions[id]; ok {
		return champ.Name
	}
	return fmt.Sprintf("Champion%d", id)
}

// ChampionIconURL returns the CDN icon URL for a champion id, or "".
func (r *Registry) ChampionIconURL(id int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if champ, ok := r.champions[id]; ok {
		return fmt.Sprintf("%s/cdn/%s/img/champion/%s.png", baseURL, r.version, champ.Slug)
	}
	return ""
}

// ItemName resolves an item id to its display name.
func (r *Registry) ItemName(id int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if item, ok := r.items[id]; ok {
		return item.Name
	}
	return fmt.Sprintf("Item %d", id)
}

// ItemGold returns an item's total gold cost, 0 when unknown.
func (r *Registry) ItemGold(id int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items[id].Gold
}

// ItemIconURL returns the CDN icon URL for an item id.
func (r *Registry) ItemIconURL(id int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fmt.Sprintf("%s/cdn/%s/img/item/%d.png", baseURL, r.version, id)
}

// RuneName resolves a rune id to its display name.
func (r *Registry) RuneName(id int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.runes[id]; ok {
		return name
	}
	return fmt.Sprintf("Rune %d", id)
}

// RuneTreeName resolves a rune tree id to its display name.
func (r *Registry) RuneTreeName(id int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.runeTrees[id]; ok {
		return name
	}
	return fmt.Sprintf("Tree %d", id)
}
