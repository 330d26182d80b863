// Command skysim runs the Godel's Sky consequence simulation: faction
// reputation, system economies, and witness-driven reports over a
// generated galaxy.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/geeknik/godels-sky/internal/api"
	"github.com/geeknik/godels-sky/internal/economy"
	"github.com/geeknik/godels-sky/internal/engine"
	"github.com/geeknik/godels-sky/internal/entropy"
	"github.com/geeknik/godels-sky/internal/faction"
	"github.com/geeknik/godels-sky/internal/galaxy"
	"github.com/geeknik/godels-sky/internal/persistence"
	"github.com/geeknik/godels-sky/internal/witness"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("godels-sky consequence simulation")

	seed := envInt64("SKYSIM_SEED", 42)
	dbPath := envStr("SKYSIM_DB", "data/skysim.db")
	apiPort := int(envInt64("SKYSIM_PORT", 8080))

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── Galaxy (loaded, or generated deterministically from seed) ─────
	galaxyMap, err := db.LoadGalaxy()
	if err != nil {
		slog.Error("failed to load galaxy", "error", err)
		os.Exit(1)
	}
	fresh := galaxyMap.Count() == 0
	if fresh {
		slog.Info("no saved galaxy, generating...", "seed", seed)
		cfg := galaxy.DefaultGenConfig()
		cfg.Seed = seed
		galaxyMap = galaxy.Generate(cfg)
	}

	inhabited := 0
	for _, name := range galaxyMap.Names() {
		if galaxyMap.Inhabited(name) {
			inhabited++
		}
	}
	slog.Info("galaxy ready", "systems", galaxyMap.Count(), "inhabited", inhabited)

	// ── Factions ──────────────────────────────────────────────────────
	factions, err := db.LoadFactions()
	if err != nil {
		slog.Error("failed to load factions", "error", err)
		os.Exit(1)
	}
	if len(factions.Names()) == 0 {
		slog.Info("seeding faction directory")
		factions = faction.Seed()
	}

	// ── Simulation ────────────────────────────────────────────────────
	src := entropy.Seeded(seed + 1)
	eco := economy.NewManager(galaxyMap, src)
	det := witness.NewDetector(factions, src)

	sim := engine.NewSimulation(galaxyMap, factions, eco, det)

	if !fresh {
		if rep, err := db.LoadReputation(); err == nil {
			sim.Reputation = rep
		} else {
			slog.Error("failed to load reputation", "error", err)
			os.Exit(1)
		}
		if err := db.LoadEconomies(eco, economy.DefaultConfig()); err != nil {
			slog.Error("failed to load economies", "error", err)
			os.Exit(1)
		}
		if reports, err := db.LoadReports(); err == nil {
			sim.Reports = reports
		} else {
			slog.Error("failed to load reports", "error", err)
			os.Exit(1)
		}
		if actions, err := db.LoadActionLog(); err == nil {
			sim.Actions = actions
		} else {
			slog.Error("failed to load action log", "error", err)
			os.Exit(1)
		}
		if encounters, err := db.LoadEncounters(); err == nil {
			sim.Encounters = encounters
		} else {
			slog.Error("failed to load encounters", "error", err)
			os.Exit(1)
		}
	}

	var startTick uint64
	if tickStr, err := db.GetMeta("last_tick"); err == nil {
		if t, err := strconv.ParseUint(tickStr, 10, 64); err == nil {
			startTick = t
		}
	}
	sim.LastTick = startTick

	// Save on fresh generation only (loaded states are already saved).
	if fresh {
		if err := db.SaveSimulation(sim); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	eng := engine.NewEngine()
	eng.Tick = startTick
	eng.Speed = 1

	// Tick callbacks. State auto-saves once per sim-day.
	eng.OnTick = sim.TickMinute
	eng.OnHour = sim.TickHour
	eng.OnDay = func(tick uint64) {
		sim.TickDay(tick)
		if err := db.SaveSimulation(sim); err != nil {
			slog.Error("daily save failed", "error", err)
		}
	}
	eng.OnWeek = sim.TickWeek

	// ── HTTP API ──────────────────────────────────────────────────────
	adminKey := os.Getenv("SKYSIM_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("SKYSIM_ADMIN_KEY not set, admin POST endpoints disabled")
	}

	apiServer := &api.Server{
		Sim:      sim,
		Eng:      eng,
		DB:       db,
		Port:     apiPort,
		AdminKey: adminKey,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\nGodel's Sky is live: %d systems, %d factions.\n",
		galaxyMap.Count(), len(factions.Names()))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)
	if startTick > 0 {
		fmt.Printf("Resuming from tick %d (%s)\n", startTick, engine.SimTime(startTick))
	}
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	// Final save on shutdown.
	slog.Info("final save...")
	if err := db.SaveSimulation(sim); err != nil {
		slog.Error("final save failed", "error", err)
	}

	fmt.Println("Simulation stopped. State saved.")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
