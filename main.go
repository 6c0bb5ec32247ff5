package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/PokerZhyte/pokertracker/internal/application"
	"github.com/PokerZhyte/pokertracker/internal/applog"
	"github.com/PokerZhyte/pokertracker/internal/config"
	"github.com/PokerZhyte/pokertracker/internal/persistence"
	"github.com/PokerZhyte/pokertracker/internal/stats"
	"github.com/PokerZhyte/pokertracker/internal/watcher"
)

var (
	version   = "dev"
	commit    = "local"
	buildDate = "unknown"
)

type CLI struct {
	Config string `help:"Path to the config file." type:"path"`
	Debug  bool   `help:"Enable debug logging."`

	Import  ImportCmd  `cmd:"" help:"Import hand-history files and update player stats."`
	Watch   WatchCmd   `cmd:"" help:"Follow a hand-history directory and track hands live."`
	Stats   StatsCmd   `cmd:"" help:"Show tracked player statistics."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

type appContext struct {
	cfg config.Config
	svc *application.Service
}

type ImportCmd struct {
	Paths []string `arg:"" type:"existingfile" help:"Hand-history files to import."`
}

func (c *ImportCmd) Run(app *appContext) error {
	ctx := context.Background()
	report, err := app.svc.ImportFiles(ctx, c.Paths)
	if err != nil {
		return err
	}
	fmt.Printf("parsed %d hands (%d new, %d already known, %d rejected)\n",
		report.Parsed, report.Inserted, report.Skipped, report.Failed)
	for _, f := range report.Failures {
		fmt.Printf("  rejected %s block %d: %v\n", f.Source, f.Block, f.Err)
	}
	return nil
}

type WatchCmd struct {
	Dir string `arg:"" optional:"" type:"existingdir" help:"Directory to watch. Defaults to the configured history_dir."`
}

func (c *WatchCmd) Run(app *appContext) error {
	dir := c.Dir
	if dir == "" {
		dir = app.cfg.HistoryDir
	}
	if dir == "" {
		dir = firstExistingDir(watcher.DefaultHistoryDirs(app.cfg.HeroName))
	}
	if dir == "" {
		return fmt.Errorf("no hand-history directory found; set history_dir in the config or pass one")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("watching %s, ctrl-c to stop\n", dir)
	return app.svc.Watch(ctx, dir)
}

type StatsCmd struct {
	Player string `arg:"" optional:"" help:"Player name. Defaults to the configured hero_name; empty shows everyone."`
}

func (c *StatsCmd) Run(app *appContext) error {
	ctx := context.Background()

	name := c.Player
	if name == "" {
		name = app.cfg.HeroName
	}
	if name != "" {
		s, err := app.svc.PlayerStats(ctx, name)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("no hands tracked for %s", name)
		}
		printStats([]stats.PlayerStats{*s})
		return nil
	}

	all, err := app.svc.AllStats(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return fmt.Errorf("no hands tracked yet, run import first")
	}
	printStats(all)
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run(*appContext) error {
	fmt.Printf("pokertracker %s (%s, built %s)\n", version, commit, buildDate)
	return nil
}

func printStats(players []stats.PlayerStats) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYER\tHANDS\tVPIP\tPFR\tAF\t3BET\tF3BET\tCBET\tFCBET\tSQZ")
	for _, s := range players {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Name, s.Hands,
			percent(s.VPIP), percent(s.PFR), ratio(s.AF),
			percent(s.Pre3Bet), percent(s.FoldToPre3Bet),
			percent(s.CBet), percent(s.FoldToCBet), percent(s.Squeeze),
		)
	}
	_ = w.Flush()
}

func percent(rate float64) string {
	if rate == stats.RateUnknown {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", rate*100)
}

func ratio(rate float64) string {
	if rate == stats.RateUnknown {
		return "-"
	}
	return fmt.Sprintf("%.2f", rate)
}

func firstExistingDir(dirs []string) string {
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("pokertracker"),
		kong.Description("Hand-history tracker and per-player statistics engine."),
	)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	applog.Init(cli.Debug || cfg.Debug)

	repo, err := persistence.NewSQLiteRepository(cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: open database: %v\n", err)
		os.Exit(1)
	}
	defer repo.Close()

	svc := application.NewService(repo, cfg.Workers)
	if err := svc.Bootstrap(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	kctx.FatalIfErrorf(kctx.Run(&appContext{cfg: cfg, svc: svc}))
}
