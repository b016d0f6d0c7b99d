// Package state holds the process-wide application state shared between the
// HTTP surface and the background watchers.
package state

import (
	"sync"

	"riftwatch/internal/lcu"
)

// App is the single mutable state shared across goroutines. All access goes
// through methods holding the mutex; credentials are set and cleared as a
// pair so readers never observe a token without its port.
type App struct {
	mu sync.Mutex

	creds lcu.Credentials

	teammateAnalysisDone bool
	enemyAnalysisDone    bool
	currentTeammates     map[string]bool

	banChampionID    int
	pickChampionID   int
	banCandidateIDs  []int
	pickCandidateIDs []int
}

// NewApp creates an empty application state.
func NewApp() *App {
	return &App{currentTeammates: make(map[string]bool)}
}

// SetCredentials installs a discovered session.
func (a *App) SetCredentials(cr lcu.Credentials) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.creds = cr
}

// ClearCredentials drops the session, marking the client disconnected.
func (a *App) ClearCredentials() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.creds = lcu.Credentials{}
}

// Credentials returns the current session; the zero value means disconnected.
func (a *App) Credentials() lcu.Credentials {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.creds
}

// Connected reports whether a session is installed.
func (a *App) Connected() bool {
	return a.Credentials().Valid()
}

// ResetAnalysisState clears the per-match analysis flags and the remembered
// teammate set. Called on every new match-flow start.
func (a *App) ResetAnalysisState() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.teammateAnalysisDone = false
	a.enemyAnalysisDone = false
	a.currentTeammates = make(map[string]bool)
}

// TeammateAnalysisDone reports whether teammates were already analyzed this
// match.
func (a *App) TeammateAnalysisDone() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.teammateAnalysisDone
}

// MarkTeammateAnalysisDone records that teammate analysis ran.
func (a *App) MarkTeammateAnalysisDone() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.teammateAnalysisDone = true
}

// EnemyAnalysisDone reports whether enemies were already analyzed this match.
func (a *App) EnemyAnalysisDone() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enemyAnalysisDone
}

// MarkEnemyAnalysisDone records that enemy analysis ran (or gave up).
func (a *App) MarkEnemyAnalysisDone() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enemyAnalysisDone = true
}

// RecordTeammate remembers a teammate's identity for later enemy filtering.
func (a *App) RecordTeammate(puuid string) {
	if puuid == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.currentTeammates[puuid] = true
}

// IsTeammate reports whether the identity was recorded as a teammate this
// match.
func (a *App) IsTeammate(puuid string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentTeammates[puuid]
}

// TeammateCount returns the number of remembered teammates.
func (a *App) TeammateCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.currentTeammates)
}

// SetBanPickTargets installs the primary ban/pick targets and their fallback
// candidate queues. Zero ids mean "no target".
func (a *App) SetBanPickTargets(banID, pickID int, banCandidates, pickCandidates []int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.banChampionID = banID
	a.pickChampionID = pickID
	a.banCandidateIDs = append([]int(nil), banCandidates...)
	a.pickCandidateIDs = append([]int(nil), pickCandidates...)
}

// RecordBanResult remembers which champion actually got banned, so the
// primary target tracks reality for the next session.
func (a *App) RecordBanResult(championID int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.banChampionID = championID
}

// RecordPickResult remembers which champion actually got picked.
func (a *App) RecordPickResult(championID int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pickChampionID = championID
}

// BanCandidates returns the ban queue: primary target first, then fallbacks.
func (a *App) BanCandidates() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return candidateQueue(a.banChampionID, a.banCandidateIDs)
}

// PickCandidates returns the pick queue: primary target first, then
// fallbacks.
func (a *App) PickCandidates() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return candidateQueue(a.pickChampionID, a.pickCandidateIDs)
}

func candidateQueue(primary int, fallbacks []int) []int {
	queue := make([]int, 0, len(fallbacks)+1)
	if primary != 0 {
		queue = append(queue, primary)
	}
	return append(queue, fallbacks...)
}
