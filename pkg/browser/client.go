package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/entrhq/cookiebot/pkg/logging"
)

// DefaultRetryInterval is the pause between attempts to reach an element
// the page has not rendered yet.
const DefaultRetryInterval = 250 * time.Millisecond

// localSaveScript reads the game's own autosave from local storage.
const localSaveScript = `() => window.localStorage.getItem("CookieClickerGame")`

// Client runs game flows against a Driver. All methods are safe for
// concurrent use; only one flow touches the page at a time.
type Client struct {
	mu            sync.Mutex
	driver        Driver
	retryInterval time.Duration
	logger        *logging.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRetryInterval sets the pause between element lookups.
func WithRetryInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.retryInterval = d
		}
	}
}

// WithLogger sets the logger used for flow diagnostics.
func WithLogger(l *logging.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient wraps driver.
func NewClient(driver Driver, opts ...ClientOption) *Client {
	c := &Client{
		driver:        driver,
		retryInterval: DefaultRetryInterval,
		logger:        logging.NewWithWriter("browser", io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExportSave opens the export prompt and returns the armored save shown in
// it.
func (c *Client) ExportSave(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.openOption(ctx, exportSave); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}

	var code string
	err := c.retry(ctx, func() (bool, error) {
		var err error
		code, err = c.driver.InputValue(promptTextarea)
		if err != nil {
			return false, err
		}
		return code != "", nil
	})
	if err != nil {
		return "", fmt.Errorf("export: reading prompt: %w", err)
	}

	if err := c.closePrompt(ctx); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return code, nil
}

// ImportSave loads an armored save into the running game.
func (c *Client) ImportSave(ctx context.Context, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.openOption(ctx, importSave); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	err := c.retry(ctx, func() (bool, error) {
		if err := c.driver.Fill(promptTextarea, code); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("import: filling prompt: %w", err)
	}

	if err := c.closePrompt(ctx); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return nil
}

// BuyAllUpgrades presses the store's "buy all upgrades" button if it is
// shown. It reports whether the button was clicked.
func (c *Client) BuyAllUpgrades(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.clear(ctx); err != nil {
		return false, err
	}
	return c.clickMaybe(storeBuyAllUpgrades)
}

// BuyBuilding selects the 10x bulk mode and buys the building at index in
// store order. It reports whether the product was clickable.
func (c *Client) BuyBuilding(ctx context.Context, index int) (bool, error) {
	if index < 0 || index >= len(Buildings) {
		return false, fmt.Errorf("building index %d out of range", index)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := c.clickMaybe(storeBulk10); err != nil {
		return false, err
	}
	return c.clickMaybe(storeProduct(index))
}

// ClickBigCookie clicks the big cookie unless another flow holds the page,
// in which case it returns false without waiting.
func (c *Client) ClickBigCookie(ctx context.Context) (bool, error) {
	if !c.mu.TryLock() {
		return false, nil
	}
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}
	return c.clickMaybe(bigCookie)
}

// ReadLocalSave returns the save the game last wrote to local storage. The
// boolean is false when the game has not saved yet.
func (c *Client) ReadLocalSave(ctx context.Context) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	v, err := c.driver.Evaluate(localSaveScript)
	if err != nil {
		return "", false, fmt.Errorf("reading local save: %w", err)
	}
	switch v := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, v != "", nil
	default:
		return "", false, fmt.Errorf("reading local save: unexpected %T", v)
	}
}

// openOption navigates to the options menu and clicks one of its entries.
func (c *Client) openOption(ctx context.Context, entry Locator) error {
	if err := c.clear(ctx); err != nil {
		return err
	}
	if err := c.clickEnsure(ctx, options); err != nil {
		return err
	}
	return c.clickEnsure(ctx, entry)
}

// closePrompt confirms the open prompt and closes the menu behind it.
func (c *Client) closePrompt(ctx context.Context) error {
	if err := c.clickEnsure(ctx, promptOption0); err != nil {
		return err
	}
	return c.clickEnsure(ctx, menuClose)
}

// clear brings the page back to a known state: language chosen, game
// loaded, no prompt or menu open.
func (c *Client) clear(ctx context.Context) error {
	if _, err := c.clickMaybe(langSelectEnglish); err != nil {
		return err
	}
	err := c.retry(ctx, func() (bool, error) {
		return c.driver.IsVisible(bigCookie)
	})
	if err != nil {
		return fmt.Errorf("waiting for game: %w", err)
	}
	if _, err := c.clickMaybe(promptOption0); err != nil {
		return err
	}
	if _, err := c.clickMaybe(menuClose); err != nil {
		return err
	}
	return nil
}

// clickEnsure waits until loc is shown and clicks it.
func (c *Client) clickEnsure(ctx context.Context, loc Locator) error {
	err := c.retry(ctx, func() (bool, error) {
		visible, err := c.driver.IsVisible(loc)
		if err != nil || !visible {
			return false, err
		}
		return true, c.driver.Click(loc)
	})
	if err != nil {
		return fmt.Errorf("clicking %s: %w", loc, err)
	}
	return nil
}

// clickMaybe clicks loc if it is currently shown.
func (c *Client) clickMaybe(loc Locator) (bool, error) {
	visible, err := c.driver.IsVisible(loc)
	if errors.Is(err, ErrNotFound) || (err == nil && !visible) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", loc, err)
	}
	if err := c.driver.Click(loc); err != nil {
		return false, fmt.Errorf("clicking %s: %w", loc, err)
	}
	return true, nil
}

// retry calls attempt until it reports done. Missing elements are retried
// after the client's retry interval; other errors end the loop.
func (c *Client) retry(ctx context.Context, attempt func() (bool, error)) error {
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for tries := 1; ; tries++ {
		done, err := attempt()
		switch {
		case err == nil && done:
			return nil
		case err != nil && !errors.Is(err, ErrNotFound):
			return err
		}
		if tries%20 == 0 {
			c.logger.Debugf("still waiting after %d attempts", tries)
		}

		timer.Reset(c.retryInterval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}
