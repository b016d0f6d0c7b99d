package main

import (
	"log"

	"github.com/joho/godotenv"

	"riftwatch/internal/archive"
	"riftwatch/internal/config"
	"riftwatch/internal/ddragon"
	"riftwatch/internal/lcu"
	"riftwatch/internal/matches"
	"riftwatch/internal/server"
	"riftwatch/internal/state"
	"riftwatch/internal/status"
	"riftwatch/internal/watcher"
)

func main() {
	// A .env beside the binary is a convenience, not a requirement.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	app := state.NewApp()
	hub := server.NewHub()
	sink := status.Tee{status.LogSink{}, hub}

	client := lcu.NewClient(cfg.RequestTimeout)
	summoners := lcu.NewSummoners(client, cfg.PUUIDTTL, cfg.PUUIDMaxEntries)
	history := lcu.NewHistory(client, lcu.HistoryConfig{
		TTL:             cfg.HistoryTTL,
		MaxEntries:      cfg.HistoryMaxEntries,
		BaselineWindow:  cfg.BaselineWindow,
		BaselineTimeout: cfg.BaselineTimeout,
		ExpandedWindow:  cfg.ExpandedWindow,
		ExpandedTimeout: cfg.ExpandedTimeout,
		DirectExtra:     cfg.DirectExtra,
		DirectMax:       cfg.DirectMax,
	})
	live := lcu.NewLiveClient(cfg.TelemetryURL, cfg.TelemetryTimeout)

	registry := ddragon.NewRegistry()
	go func() {
		if err := registry.Load(); err != nil {
			log.Printf("static data load failed, names degrade to ids: %v", err)
		}
	}()

	store, err := archive.Open(cfg.ArchivePath)
	if err != nil {
		log.Printf("archive unavailable: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	matchService := matches.NewService(history, summoners, registry)

	discover := func() (lcu.Credentials, bool) {
		return lcu.AutodetectCredentials(lcu.DiscoveryConfig{
			ProcessName: cfg.ClientProcess,
			LogDir:      cfg.LogDir,
			MinLogSize:  cfg.MinLogSize,
		}, sink)
	}

	events := lcu.NewEventClient()
	events.SetPhaseHandler(func(phase string) {
		hub.PublishData("gameflow_phase", map[string]string{"phase": phase})
	})

	runners := map[string]*watcher.Runner{
		"accept": watcher.NewRunner(
			watcher.NewAcceptEngine(app, summoners, sink, cfg.AcceptInterval)),
		"banpick": watcher.NewRunner(
			watcher.NewBanPickEngine(app, summoners, sink, cfg.BanPickInterval)),
		"analyze": watcher.NewRunner(
			watcher.NewAnalyzeEngine(app, summoners, live, sink,
				cfg.AnalyzeInterval, cfg.EnemyRetryBackoff, cfg.EnemyRetryMax)),
	}

	connection := watcher.NewRunner(
		watcher.NewConnectionEngine(app, summoners, events, sink, discover))
	connection.Start()

	srv := server.New(server.Options{
		App:       app,
		Client:    client,
		Summoners: summoners,
		History:   history,
		Live:      live,
		Matches:   matchService,
		Archive:   store,
		Hub:       hub,
		Discover:  discover,
		Runners:   runners,
	})
	log.Fatal(srv.ListenAndServe(cfg.Addr, cfg.Port))
}
