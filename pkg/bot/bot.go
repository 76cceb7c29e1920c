package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/uuid"

	"github.com/entrhq/cookiebot/pkg/browser"
	"github.com/entrhq/cookiebot/pkg/logging"
	"github.com/entrhq/cookiebot/pkg/save"
	"github.com/entrhq/cookiebot/pkg/store"
)

// Game is the running game as seen by the bot. *browser.Client implements
// it.
type Game interface {
	ExportSave(ctx context.Context) (string, error)
	ImportSave(ctx context.Context, code string) error
	ReadLocalSave(ctx context.Context) (string, bool, error)
	BuyAllUpgrades(ctx context.Context) (bool, error)
	BuyBuilding(ctx context.Context, index int) (bool, error)
	ClickBigCookie(ctx context.Context) (bool, error)
}

// Snapshots is the backup destination. *store.Store implements it.
type Snapshots interface {
	Insert(ctx context.Context, snap store.Snapshot) (int64, error)
	Best(ctx context.Context) (store.Snapshot, bool, error)
}

// Options configures a Bot.
type Options struct {
	BackupInterval    time.Duration
	BigCookieInterval time.Duration
	StoreInterval     time.Duration

	// BuyUpgrades enables the "buy all upgrades" button.
	BuyUpgrades bool

	// Buildings holds store indexes to buy, in purchase order.
	Buildings []int

	Logger *logging.Logger
}

// Stats counts what a run has done so far.
type Stats struct {
	Backups          int64
	CookieClicks     int64
	UpgradePurchases int64
	BuildingPresses  int64
	Errors           int64
}

// Bot drives a Game and backs it up into Snapshots.
type Bot struct {
	game      Game
	snapshots Snapshots
	opts      Options
	logger    *logging.Logger
	now       func() time.Time
	runID     string

	backups, clicks, upgrades, buildings, errs atomic.Int64
}

// New returns a Bot. Zero intervals disable the corresponding loop.
func New(game Game, snapshots Snapshots, opts Options) *Bot {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewWithWriter("bot", io.Discard)
	}
	return &Bot{
		game:      game,
		snapshots: snapshots,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
		runID:     uuid.NewString(),
	}
}

// SelectBuildings returns the store indexes of the buildings whose names
// match any of the patterns, in store order.
func SelectBuildings(patterns []glob.Glob) []int {
	var indexes []int
	for i, name := range browser.Buildings {
		for _, p := range patterns {
			if p.Match(name) {
				indexes = append(indexes, i)
				break
			}
		}
	}
	return indexes
}

// RunID identifies this bot run in logs.
func (b *Bot) RunID() string {
	return b.runID
}

// Stats returns a snapshot of the run's counters.
func (b *Bot) Stats() Stats {
	return Stats{
		Backups:          b.backups.Load(),
		CookieClicks:     b.clicks.Load(),
		UpgradePurchases: b.upgrades.Load(),
		BuildingPresses:  b.buildings.Load(),
		Errors:           b.errs.Load(),
	}
}

// Run resumes the best save and then runs the loops until ctx ends. A
// failed resume aborts the run; loop errors are logged and retried on the
// next tick.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Infof("starting run %s", b.runID)

	if err := b.Resume(ctx); err != nil {
		return fmt.Errorf("resume: %w", err)
	}

	loops := []struct {
		name     string
		interval time.Duration
		tick     func(context.Context) error
	}{
		{"backup", b.opts.BackupInterval, b.Backup},
		{"big cookie", b.opts.BigCookieInterval, b.clickBigCookie},
		{"store", b.opts.StoreInterval, b.BuyFromStore},
	}

	var wg sync.WaitGroup
	for _, l := range loops {
		if l.interval <= 0 {
			b.logger.Infof("%s loop disabled", l.name)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.loop(ctx, l.name, l.interval, l.tick)
		}()
	}
	wg.Wait()

	stats := b.Stats()
	b.logger.Infof("run %s finished: %d backups, %d clicks, %d upgrade buys, %d building buys, %d errors",
		b.runID, stats.Backups, stats.CookieClicks, stats.UpgradePurchases, stats.BuildingPresses, stats.Errors)

	// A final backup keeps progress made since the last tick.
	if b.opts.BackupInterval > 0 {
		finalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := b.Backup(finalCtx); err != nil {
			b.logger.Warnf("final backup failed: %v", err)
		}
	}
	return nil
}

func (b *Bot) loop(ctx context.Context, name string, interval time.Duration, tick func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if err := tick(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			b.errs.Add(1)
			b.logger.Warnf("%s: %v", name, err)
		}
	}
}

// Resume imports the best stored snapshot if the game has no save yet or
// its save scores lower.
func (b *Bot) Resume(ctx context.Context) error {
	best, ok, err := b.snapshots.Best(ctx)
	if err != nil {
		return err
	}
	if !ok {
		b.logger.Infof("no stored snapshots, keeping current game")
		return nil
	}

	raw, ok, err := b.currentSave(ctx)
	if err != nil {
		return err
	}
	if ok {
		current, err := save.Decode(raw)
		switch {
		case err != nil:
			b.logger.Warnf("current save is unreadable, replacing it: %v", err)
		case current.CookiesBakedAllTime() >= best.CookiesBakedAllTime:
			b.logger.Infof("current game (%g) is ahead of snapshot %d (%g)",
				current.CookiesBakedAllTime(), best.ID, best.CookiesBakedAllTime)
			return nil
		}
	}

	b.logger.Infof("importing snapshot %d from %s (%g)",
		best.ID, best.Timestamp.Format(time.RFC3339), best.CookiesBakedAllTime)
	return b.game.ImportSave(ctx, best.Value)
}

// Backup stores the game's current save. It does nothing when the game has
// no save to give.
func (b *Bot) Backup(ctx context.Context) error {
	raw, ok, err := b.currentSave(ctx)
	if err != nil {
		return err
	}
	if !ok {
		b.logger.Debugf("game has no save yet")
		return nil
	}

	s, err := save.Decode(raw)
	if err != nil {
		return fmt.Errorf("decoding current save: %w", err)
	}
	id, err := b.snapshots.Insert(ctx, store.Snapshot{
		Timestamp:           b.now().UTC(),
		Value:               raw,
		CookiesBakedAllTime: s.CookiesBakedAllTime(),
	})
	if err != nil {
		return err
	}
	b.backups.Add(1)
	b.logger.Infof("backup %d: %q, %g cookies baked all time",
		id, s.RunDetails.BakeryName, s.CookiesBakedAllTime())
	return nil
}

// currentSave returns the game's autosave, or exports one through the
// options menu when the game has not autosaved yet.
func (b *Bot) currentSave(ctx context.Context) (string, bool, error) {
	raw, ok, err := b.game.ReadLocalSave(ctx)
	if err != nil || ok {
		return raw, ok, err
	}
	b.logger.Debugf("no autosave yet, exporting")
	raw, err = b.game.ExportSave(ctx)
	if err != nil {
		return "", false, fmt.Errorf("exporting save: %w", err)
	}
	return raw, raw != "", nil
}

// BuyFromStore buys every upgrade on offer, then ten of each selected
// building the game lets us afford.
func (b *Bot) BuyFromStore(ctx context.Context) error {
	var errs []error
	if b.opts.BuyUpgrades {
		clicked, err := b.game.BuyAllUpgrades(ctx)
		if err != nil {
			errs = append(errs, err)
		} else if clicked {
			b.upgrades.Add(1)
		}
	}
	for _, i := range b.opts.Buildings {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		clicked, err := b.game.BuyBuilding(ctx, i)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", buildingName(i), err))
			continue
		}
		if clicked {
			b.buildings.Add(1)
		}
	}
	return errors.Join(errs...)
}

func (b *Bot) clickBigCookie(ctx context.Context) error {
	clicked, err := b.game.ClickBigCookie(ctx)
	if err != nil {
		return err
	}
	if clicked {
		b.clicks.Add(1)
	}
	return nil
}

func buildingName(index int) string {
	if index >= 0 && index < len(browser.Buildings) {
		return browser.Buildings[index]
	}
	return fmt.Sprintf("building %d", index)
}
