package browser

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no element matches a locator.
var ErrNotFound = errors.New("element not found")

// Strategy selects how a Locator's value is interpreted.
type Strategy int

const (
	// CSS matches a CSS selector.
	CSS Strategy = iota
	// LinkText matches a link by its exact text.
	LinkText
)

// Locator identifies an element on the game page.
type Locator struct {
	Strategy Strategy
	Value    string
}

// Selector renders the locator as a playwright selector.
func (l Locator) Selector() string {
	if l.Strategy == LinkText {
		return fmt.Sprintf("text=%q", l.Value)
	}
	return l.Value
}

func (l Locator) String() string {
	return l.Selector()
}

func css(selector string) Locator { return Locator{Strategy: CSS, Value: selector} }

var (
	promptTextarea = css("#textareaPrompt")
	promptOption0  = css("#promptOption0")

	langSelectEnglish = css("#langSelect-EN")

	bigCookie = css("#bigCookie")
	menuClose = css("#menu > .menuClose")

	options    = css("#prefsButton")
	exportSave = Locator{Strategy: LinkText, Value: "Export save"}
	importSave = Locator{Strategy: LinkText, Value: "Import save"}

	storeBuyAllUpgrades = css("#storeBuyAllButton")
	storeBulk10         = css("#storeBulk10")
)

// Buildings lists the store's buildings in product order.
var Buildings = []string{
	"cursor",
	"grandma",
	"farm",
	"mine",
	"factory",
	"bank",
	"temple",
	"wizard_tower",
	"shipment",
	"alchemy_lab",
	"portal",
	"time_machine",
	"antimatter_condenser",
	"prism",
	"chancemaker",
	"fractal_engine",
	"javascript_console",
	"idleverse",
	"cortex_baker",
	"you",
}

func storeProduct(index int) Locator {
	return css(fmt.Sprintf("#product%d", index))
}

// Options configures a new browser session.
type Options struct {
	// URL is the game page opened on launch.
	URL string

	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Install downloads the playwright driver and browsers first.
	Install bool

	// Timeout is the default timeout of page operations.
	Timeout time.Duration

	// Viewport sets the initial viewport size
	Viewport Viewport
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultTimeout        = 30 * time.Second
)
