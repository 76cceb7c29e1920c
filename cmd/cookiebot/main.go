// Package main runs the Cookie Clicker bot: it opens the game in a browser,
// resumes the best stored save and keeps playing until interrupted.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/entrhq/cookiebot/pkg/bot"
	"github.com/entrhq/cookiebot/pkg/browser"
	"github.com/entrhq/cookiebot/pkg/config"
	"github.com/entrhq/cookiebot/pkg/logging"
	"github.com/entrhq/cookiebot/pkg/store"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigFile  string
	Database    string
	URL         string
	Headless    bool
	Verbosity   string
	ShowVersion bool

	flags *flag.FlagSet
}

func main() {
	cli := parseFlags(os.Args[1:])

	if cli.ShowVersion {
		fmt.Printf("cookiebot v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nShutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, cli); err != nil {
		cancel()
		log.Printf("cookiebot failed: %v", err)
		os.Exit(1)
	}
	cancel()
}

func parseFlags(args []string) *CLIConfig {
	cli := &CLIConfig{}
	flags := flag.NewFlagSet("cookiebot", flag.ExitOnError)

	flags.StringVarP(&cli.ConfigFile, "config", "c", "", "Path to configuration file (YAML)")
	flags.StringVar(&cli.Database, "db", "", "Snapshot database path (overrides database.path)")
	flags.StringVar(&cli.URL, "url", "", "Game URL (overrides game.url)")
	flags.BoolVar(&cli.Headless, "headless", true, "Run the browser without a window (overrides browser.headless)")
	flags.StringVarP(&cli.Verbosity, "verbosity", "v", "", "Log verbosity: quiet, normal, verbose or debug")
	flags.BoolVar(&cli.ShowVersion, "version", false, "Show version and exit")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "cookiebot - plays Cookie Clicker and backs up its saves\n\n")
		fmt.Fprintf(os.Stderr, "Usage: cookiebot [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  cookiebot --config cookiebot.yaml\n")
		fmt.Fprintf(os.Stderr, "  cookiebot --db saves.db --headless=false\n")
	}

	_ = flags.Parse(args)
	cli.flags = flags
	return cli
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig(cli *CLIConfig) (*config.Config, error) {
	cfg, err := config.Load(cli.ConfigFile)
	if err != nil {
		return nil, err
	}

	if cli.Database != "" {
		cfg.Database.Path = cli.Database
	}
	if cli.URL != "" {
		cfg.Game.URL = cli.URL
	}
	if cli.flags != nil && cli.flags.Changed("headless") {
		cfg.Browser.Headless = cli.Headless
	}
	if cli.Verbosity != "" {
		cfg.Logging.Verbosity = cli.Verbosity
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cli *CLIConfig) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// On error the logger falls back to stderr and says so itself.
	logger, _ := logging.NewLogger("cookiebot")
	defer logger.Close()
	level, _ := cfg.Logging.Level()
	logger.SetLevel(level)
	if path := logger.LogPath(); path != "" {
		fmt.Fprintf(os.Stderr, "Logging to %s\n", path)
	}

	snapshots, err := store.Open(ctx, store.Config{
		Path:     cfg.Database.Path,
		PoolSize: cfg.Database.PoolSize,
		Logger:   logger.With("store"),
	})
	if err != nil {
		return err
	}
	defer snapshots.Close()

	logger.Infof("launching browser for %s", cfg.Game.URL)
	session, err := browser.Launch(browser.Options{
		URL:      cfg.Game.URL,
		Headless: cfg.Browser.Headless,
		Install:  cfg.Browser.Install,
		Timeout:  cfg.Browser.Timeout,
		Viewport: browser.Viewport{Width: cfg.Browser.Width, Height: cfg.Browser.Height},
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warnf("closing browser: %v", err)
		}
	}()

	client := browser.NewClient(session,
		browser.WithRetryInterval(cfg.Intervals.Retry),
		browser.WithLogger(logger.With("browser")),
	)

	matchers, err := cfg.Store.Matchers()
	if err != nil {
		return err
	}
	buildings := bot.SelectBuildings(matchers)
	logger.Infof("buying %d building types", len(buildings))

	b := bot.New(client, snapshots, bot.Options{
		BackupInterval:    cfg.Intervals.Backup,
		BigCookieInterval: cfg.Intervals.BigCookie,
		StoreInterval:     cfg.Intervals.Store,
		BuyUpgrades:       cfg.Store.BuyUpgrades,
		Buildings:         buildings,
		Logger:            logger.With("bot"),
	})
	return b.Run(ctx)
}
