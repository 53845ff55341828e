package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/plife/config"
	"github.com/pthm-cable/plife/game"
	"github.com/pthm-cable/plife/tui"
	"github.com/pthm-cable/plife/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml or config.toml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	terminal := flag.Bool("tui", false, "Draw the field in the terminal instead of a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Root directory for per-run CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = population.seed from config, then time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after exactly N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Population.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
		MaxTicks:       *maxTicks,
	}

	switch {
	case *headless:
		runHeadless(cfg, opts)
	case *terminal:
		runTerminal(cfg, opts)
	default:
		runWindow(cfg, opts)
	}
}

// runHeadless is a pure CPU simulation, no window or terminal.
func runHeadless(cfg *config.Config, opts game.Options) {
	g := mustGame(cfg, opts)
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", g.Seed(),
		"particles", g.Field().Len(),
		"index", cfg.Physics.Index,
		"max_ticks", opts.MaxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for ctx.Err() == nil {
		g.Update()

		if g.Done() {
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		}
	}
	slog.Info("interrupted", "tick", g.Tick())
}

func runTerminal(cfg *config.Config, opts game.Options) {
	// The terminal owns stdout while drawing.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	g := mustGame(cfg, opts)
	defer g.Unload()

	screen, err := tcell.NewScreen()
	if err != nil {
		slog.Error("failed to create terminal screen", "error", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		slog.Error("failed to initialize terminal screen", "error", err)
		os.Exit(1)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := tui.Run(ctx, g, screen, opts.MaxTicks); err != nil && ctx.Err() == nil {
		slog.Error("terminal loop failed", "error", err)
	}
}

func runWindow(cfg *config.Config, opts game.Options) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Particle Life")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := mustGame(cfg, opts)
	defer g.Unload()

	view := ui.NewView(g)
	for !rl.WindowShouldClose() {
		view.HandleInput()
		g.Update()
		view.Draw()

		if g.Done() {
			break
		}
	}
}

func mustGame(cfg *config.Config, opts game.Options) *game.Game {
	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	return g
}
