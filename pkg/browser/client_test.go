package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeElement struct {
	visible   bool
	hiddenFor int
	value     string
}

// fakeDriver is a scripted page. Clicking an element runs its hook, which
// lets tests model menus opening and prompts closing.
type fakeDriver struct {
	elements  map[Locator]*fakeElement
	hooks     map[Locator]func()
	clickErr  map[Locator]error
	clicks    []Locator
	localSave any
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		elements: make(map[Locator]*fakeElement),
		hooks:    make(map[Locator]func()),
		clickErr: make(map[Locator]error),
	}
}

func (d *fakeDriver) show(locs ...Locator) {
	for _, loc := range locs {
		d.elements[loc] = &fakeElement{visible: true}
	}
}

func (d *fakeDriver) get(loc Locator) (*fakeElement, error) {
	el, ok := d.elements[loc]
	if !ok {
		return nil, ErrNotFound
	}
	return el, nil
}

func (d *fakeDriver) IsVisible(loc Locator) (bool, error) {
	el, err := d.get(loc)
	if err != nil {
		return false, err
	}
	if el.hiddenFor > 0 {
		el.hiddenFor--
		return false, nil
	}
	return el.visible, nil
}

func (d *fakeDriver) Click(loc Locator) error {
	if _, err := d.get(loc); err != nil {
		return err
	}
	if err := d.clickErr[loc]; err != nil {
		return err
	}
	d.clicks = append(d.clicks, loc)
	if hook := d.hooks[loc]; hook != nil {
		hook()
	}
	return nil
}

func (d *fakeDriver) InputValue(loc Locator) (string, error) {
	el, err := d.get(loc)
	if err != nil {
		return "", err
	}
	return el.value, nil
}

func (d *fakeDriver) Fill(loc Locator, value string) error {
	el, err := d.get(loc)
	if err != nil {
		return err
	}
	el.value = value
	return nil
}

func (d *fakeDriver) Evaluate(expression string) (any, error) {
	return d.localSave, nil
}

// newGame returns a loaded game page whose option entry opens a prompt.
func newGame(entry Locator) *fakeDriver {
	d := newFakeDriver()
	d.show(bigCookie, options, entry, menuClose)
	d.hooks[entry] = func() {
		d.show(promptTextarea, promptOption0)
	}
	d.hooks[promptOption0] = func() {
		delete(d.elements, promptTextarea)
		delete(d.elements, promptOption0)
	}
	return d
}

func newTestClient(d Driver) *Client {
	return NewClient(d, WithRetryInterval(time.Millisecond))
}

func TestExportSave(t *testing.T) {
	d := newGame(exportSave)
	d.hooks[exportSave] = func() {
		d.show(promptTextarea, promptOption0)
		d.elements[promptTextarea].value = "Mi4wNTJ8fA%3D%3D%21END%21"
	}

	code, err := newTestClient(d).ExportSave(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Mi4wNTJ8fA%3D%3D%21END%21", code)
	assert.Equal(t, []Locator{menuClose, options, exportSave, promptOption0, menuClose}, d.clicks)
}

func TestImportSave(t *testing.T) {
	d := newGame(importSave)
	var imported string
	d.hooks[promptOption0] = func() {
		imported = d.elements[promptTextarea].value
		delete(d.elements, promptTextarea)
		delete(d.elements, promptOption0)
	}

	err := newTestClient(d).ImportSave(context.Background(), "code!END!")
	require.NoError(t, err)
	assert.Equal(t, "code!END!", imported)
	assert.Equal(t, []Locator{menuClose, options, importSave, promptOption0, menuClose}, d.clicks)
}

func TestClearDismissesLanguageAndPrompt(t *testing.T) {
	d := newFakeDriver()
	d.show(langSelectEnglish, promptOption0, storeBuyAllUpgrades)
	d.elements[bigCookie] = &fakeElement{visible: true, hiddenFor: 3}
	d.hooks[langSelectEnglish] = func() { delete(d.elements, langSelectEnglish) }

	clicked, err := newTestClient(d).BuyAllUpgrades(context.Background())
	require.NoError(t, err)
	assert.True(t, clicked)
	assert.Equal(t, []Locator{langSelectEnglish, promptOption0, storeBuyAllUpgrades}, d.clicks)
}

func TestWaitHonorsContext(t *testing.T) {
	d := newFakeDriver()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestClient(d).ExportSave(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClickErrorsAreNotRetried(t *testing.T) {
	d := newGame(exportSave)
	boom := errors.New("detached")
	d.clickErr[options] = boom

	_, err := newTestClient(d).ExportSave(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "#prefsButton")
}

func TestBuyAllUpgradesWithoutButton(t *testing.T) {
	d := newFakeDriver()
	d.show(bigCookie)

	clicked, err := newTestClient(d).BuyAllUpgrades(context.Background())
	require.NoError(t, err)
	assert.False(t, clicked)
	assert.Empty(t, d.clicks)
}

func TestBuyBuilding(t *testing.T) {
	d := newFakeDriver()
	d.show(storeBulk10, storeProduct(2))
	d.elements[storeProduct(3)] = &fakeElement{visible: false}
	c := newTestClient(d)

	clicked, err := c.BuyBuilding(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, clicked)
	assert.Equal(t, []Locator{storeBulk10, css("#product2")}, d.clicks)

	clicked, err = c.BuyBuilding(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, clicked)

	_, err = c.BuyBuilding(context.Background(), len(Buildings))
	assert.Error(t, err)
}

func TestClickBigCookieSkipsWhenBusy(t *testing.T) {
	d := newFakeDriver()
	d.show(bigCookie)
	c := newTestClient(d)

	c.mu.Lock()
	clicked, err := c.ClickBigCookie(context.Background())
	c.mu.Unlock()
	require.NoError(t, err)
	assert.False(t, clicked)
	assert.Empty(t, d.clicks)

	clicked, err = c.ClickBigCookie(context.Background())
	require.NoError(t, err)
	assert.True(t, clicked)
	assert.Equal(t, []Locator{bigCookie}, d.clicks)
}

func TestReadLocalSave(t *testing.T) {
	d := newFakeDriver()
	c := newTestClient(d)

	_, ok, err := c.ReadLocalSave(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	d.localSave = "Mi4wNTJ8fA%3D%3D%21END%21"
	code, ok, err := c.ReadLocalSave(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Mi4wNTJ8fA%3D%3D%21END%21", code)

	d.localSave = 42.0
	_, _, err = c.ReadLocalSave(context.Background())
	assert.Error(t, err)
}

func TestLocatorSelector(t *testing.T) {
	assert.Equal(t, "#bigCookie", bigCookie.Selector())
	assert.Equal(t, `text="Export save"`, exportSave.Selector())
	assert.Equal(t, "#product7", storeProduct(7).Selector())
	assert.Len(t, Buildings, 20)
}
