package browser

import (
	"errors"
	"fmt"
	"io"

	"github.com/playwright-community/playwright-go"
)

// Driver is the element-level surface the game flows use. Implementations
// return ErrNotFound, possibly wrapped, when a locator matches nothing.
type Driver interface {
	IsVisible(loc Locator) (bool, error)
	Click(loc Locator) error
	InputValue(loc Locator) (string, error)
	Fill(loc Locator, value string) error
	Evaluate(expression string) (any, error)
}

// Session is a launched browser showing the game page.
type Session struct {
	playwright *playwright.Playwright
	browser    playwright.Browser
	context    playwright.BrowserContext
	page       playwright.Page
}

// Launch starts playwright, opens a Chromium page and navigates it to
// opts.URL.
func Launch(opts Options) (*Session, error) {
	if opts.URL == "" {
		return nil, errors.New("game URL is required")
	}
	if opts.Viewport.Width == 0 || opts.Viewport.Height == 0 {
		opts.Viewport = Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	// The driver's own output would interleave with our logs.
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if opts.Install {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	s := &Session{playwright: pw}

	s.browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	s.context, err = s.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	s.page, err = s.context.NewPage()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	s.page.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))

	waitUntil := playwright.WaitUntilState("load")
	if _, err := s.page.Goto(opts.URL, playwright.PageGotoOptions{WaitUntil: &waitUntil}); err != nil {
		s.Close()
		return nil, fmt.Errorf("navigation failed: %w", err)
	}
	return s, nil
}

// locate returns the first element matching loc, or ErrNotFound.
func (s *Session) locate(loc Locator) (playwright.Locator, error) {
	l := s.page.Locator(loc.Selector()).First()
	n, err := l.Count()
	if err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", loc, ErrNotFound)
	}
	return l, nil
}

func (s *Session) IsVisible(loc Locator) (bool, error) {
	l, err := s.locate(loc)
	if err != nil {
		return false, err
	}
	return l.IsVisible()
}

func (s *Session) Click(loc Locator) error {
	l, err := s.locate(loc)
	if err != nil {
		return err
	}
	if err := l.Click(); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (s *Session) InputValue(loc Locator) (string, error) {
	l, err := s.locate(loc)
	if err != nil {
		return "", err
	}
	return l.InputValue()
}

func (s *Session) Fill(loc Locator, value string) error {
	l, err := s.locate(loc)
	if err != nil {
		return err
	}
	if err := l.Fill(value); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

func (s *Session) Evaluate(expression string) (any, error) {
	result, err := s.page.Evaluate(expression)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	return result, nil
}

// Close releases the page, the browser and the playwright driver.
func (s *Session) Close() error {
	var errs []error
	if s.page != nil {
		errs = append(errs, s.page.Close())
	}
	if s.context != nil {
		errs = append(errs, s.context.Close())
	}
	if s.browser != nil {
		errs = append(errs, s.browser.Close())
	}
	if s.playwright != nil {
		errs = append(errs, s.playwright.Stop())
	}
	return errors.Join(errs...)
}
