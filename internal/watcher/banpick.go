package watcher

import (
	"fmt"
	"strings"
	"time"

	"riftwatch/internal/lcu"
	"riftwatch/internal/metrics"
	"riftwatch/internal/state"
	"riftwatch/internal/status"
)

type banpickClient interface {
	GetGameflowPhase(cr lcu.Credentials) (string, error)
	GetChampSelectSession(cr lcu.Credentials) (*lcu.ChampSelectSession, error)
	CompleteAction(cr lcu.Credentials, actionID, championID int, actionType string) error
}

// BanPickEngine completes the local player's ban and pick actions during
// character select. Candidates run in priority order; champions already
// banned or locked by anyone are skipped, and a completion failure moves on
// to the next candidate instead of retrying the same one. One ban and one
// pick per session; both flags reset when character select is entered or
// left.
type BanPickEngine struct {
	app      *state.App
	client   banpickClient
	sink     status.Sink
	interval time.Duration

	tracker  PhaseTracker
	banDone  bool
	pickDone bool
}

// NewBanPickEngine builds the select/ban automation.
func NewBanPickEngine(app *state.App, client banpickClient, sink status.Sink, interval time.Duration) *BanPickEngine {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &BanPickEngine{app: app, client: client, sink: sink, interval: interval}
}

func (e *BanPickEngine) Name() string { return "banpick" }

// Step polls the phase and, inside character select, tries to complete any
// of the local player's in-progress actions.
func (e *BanPickEngine) Step() time.Duration {
	cr := e.app.Credentials()
	if !cr.Valid() {
		return 500 * time.Millisecond
	}

	phase, err := e.client.GetGameflowPhase(cr)
	if err != nil {
		return e.interval
	}
	e.tracker.Observe(phase)

	if e.tracker.Entered(lcu.PhaseChampSelect) {
		e.banDone = false
		e.pickDone = false
		e.sink.Publish("info", "character select started")
	}
	if e.tracker.Left(lcu.PhaseChampSelect) {
		e.banDone = false
		e.pickDone = false
		e.sink.Publish("info", "character select ended")
		return e.interval
	}
	if phase != lcu.PhaseChampSelect {
		return e.interval
	}

	session, err := e.client.GetChampSelectSession(cr)
	if err != nil {
		return e.interval
	}
	e.act(cr, session)
	return e.interval
}

func (e *BanPickEngine) act(cr lcu.Credentials, session *lcu.ChampSelectSession) {
	unavailable := session.UnavailableChampionIDs()

	for _, group := range session.Actions {
		for _, action := range group {
			if action.ActorCellID != session.LocalPlayerCellID {
				continue
			}
			if action.Completed || !action.IsInProgress {
				continue
			}

			switch strings.ToLower(action.Type) {
			case "ban":
				if e.banDone {
					continue
				}
				if e.complete(cr, action.ID, "ban", e.app.BanCandidates(), unavailable) {
					e.banDone = true
				}
			case "pick":
				if e.pickDone {
					continue
				}
				if e.complete(cr, action.ID, "pick", e.app.PickCandidates(), unavailable) {
					e.pickDone = true
				}
			}
		}
	}
}

// complete walks the candidate queue and completes the action with the first
// champion that is still available and accepted by the server.
func (e *BanPickEngine) complete(cr lcu.Credentials, actionID int, actionType string, candidates []int, unavailable map[int]bool) bool {
	for _, championID := range candidates {
		if championID == 0 || unavailable[championID] {
			continue
		}
		if err := e.client.CompleteAction(cr, actionID, championID, actionType); err != nil {
			e.sink.Publish("warning", fmt.Sprintf("%s champion %d failed: %v", actionType, championID, err))
			continue
		}
		if actionType == "ban" {
			e.app.RecordBanResult(championID)
		} else {
			e.app.RecordPickResult(championID)
		}
		metrics.WatcherActions.WithLabelValues(e.Name(), actionType).Inc()
		e.sink.Publish("success", fmt.Sprintf("%s champion %d completed", actionType, championID))
		return true
	}
	return false
}
