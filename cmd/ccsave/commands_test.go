package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/cookiebot/pkg/store"
)

type testEnv struct {
	env
	out, errOut bytes.Buffer
	clipboard   string
}

func newTestEnv(stdin string) *testEnv {
	te := &testEnv{}
	te.env = env{
		stdin:  strings.NewReader(stdin),
		stdout: &te.out,
		stderr: &te.errOut,
		readClipboard: func() (string, error) {
			return te.clipboard, nil
		},
		writeClipboard: func(s string) error {
			te.clipboard = s
			return nil
		},
		createFile: createFile,
	}
	return te
}

func (te *testEnv) run(args ...string) int {
	return dispatch(context.Background(), &te.env, args)
}

var midgamePath = filepath.Join("..", "..", "pkg", "save", "testdata", "midgame.txt")

func midgame(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(midgamePath)
	require.NoError(t, err)
	return strings.TrimSpace(string(data))
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	te := newTestEnv("")
	require.Equal(t, 0, te.run("decode", midgamePath), te.errOut.String())
	assert.Contains(t, te.out.String(), `"bakery_name": "Gopher's bakery"`)

	jsonPath := filepath.Join(t.TempDir(), "save.json")
	require.NoError(t, os.WriteFile(jsonPath, te.out.Bytes(), 0o600))

	te = newTestEnv("")
	require.Equal(t, 0, te.run("encode", "--copy", jsonPath), te.errOut.String())
	assert.Equal(t, midgame(t), strings.TrimSpace(te.out.String()))
	assert.Equal(t, midgame(t), te.clipboard)
}

func TestDecodeFromStdinAndClipboard(t *testing.T) {
	te := newTestEnv(midgame(t) + "\n")
	require.Equal(t, 0, te.run("decode", "-"))
	assert.Contains(t, te.out.String(), `"version": "2.052"`)

	te = newTestEnv("")
	te.clipboard = midgame(t)
	require.Equal(t, 0, te.run("decode", "--clipboard"))
	assert.Contains(t, te.out.String(), `"version": "2.052"`)

	te = newTestEnv("")
	assert.Equal(t, 1, te.run("decode", "--clipboard", midgamePath))
}

func TestDecodeReportsFieldPath(t *testing.T) {
	te := newTestEnv("2.052||1700000000000")
	assert.Equal(t, 1, te.run("decode", "--text"))
	assert.Contains(t, te.errOut.String(), "save.run_details")
}

func TestCheck(t *testing.T) {
	te := newTestEnv("")
	require.Equal(t, 0, te.run("check", midgamePath))
	assert.Contains(t, te.out.String(), "ok")

	// The game escapes the end marker; an unescaped one does not survive.
	te = newTestEnv(strings.Replace(midgame(t), "%21END%21", "!END!", 1))
	assert.Equal(t, 1, te.run("check"))
	assert.Contains(t, te.errOut.String(), "envelope")
}

func TestShow(t *testing.T) {
	te := newTestEnv("")
	require.Equal(t, 0, te.run("show", midgamePath), te.errOut.String())
	out := te.out.String()
	assert.Contains(t, out, "Gopher's bakery")
	assert.Contains(t, out, "Cookies baked all time")
	assert.Contains(t, out, "2.052")
}

func TestDump(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "saves.db")

	s, err := store.Open(context.Background(), store.Config{Path: dbPath})
	require.NoError(t, err)
	_, err = s.Insert(context.Background(), store.Snapshot{
		Timestamp:           time.Unix(1700000000, 0),
		Value:               midgame(t),
		CookiesBakedAllTime: 1,
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	outPath := filepath.Join(dir, "saves.lp")
	te := newTestEnv("")
	require.Equal(t, 0, te.run("dump", "--db", dbPath, "-o", outPath), te.errOut.String())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "save cookies_in_bank="))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(string(data)), " 1700000000000000000"))
	assert.Contains(t, te.errOut.String(), "wrote 1 points")
}

// unflushedFile accepts writes but fails to close, like a full disk
// discovered on the final flush.
type unflushedFile struct {
	bytes.Buffer
}

func (*unflushedFile) Close() error {
	return errors.New("no space left on device")
}

func TestDumpReportsCloseError(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "saves.db")
	s, err := store.Open(context.Background(), store.Config{Path: dbPath})
	require.NoError(t, err)
	_, err = s.Insert(context.Background(), store.Snapshot{Timestamp: time.Unix(1700000000, 0), Value: midgame(t)})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	te := newTestEnv("")
	out := &unflushedFile{}
	te.createFile = func(string) (io.WriteCloser, error) { return out, nil }

	assert.Equal(t, 1, te.run("dump", "--db", dbPath, "--out", "saves.lp"))
	assert.Contains(t, te.errOut.String(), "failed to close output: no space left on device")
	assert.NotContains(t, te.errOut.String(), "wrote")
	assert.NotEmpty(t, out.String())
}

func TestDumpRequiresDatabase(t *testing.T) {
	te := newTestEnv("")
	assert.Equal(t, 1, te.run("dump"))
	assert.Equal(t, 1, te.run("dump", "--db", filepath.Join(t.TempDir(), "missing.db")))
}

func TestDispatch(t *testing.T) {
	te := newTestEnv("")
	assert.Equal(t, 2, te.run())
	assert.Equal(t, 2, te.run("frobnicate"))
	assert.Contains(t, te.errOut.String(), `unknown command "frobnicate"`)

	te = newTestEnv("")
	assert.Equal(t, 0, te.run("help"))
	assert.Contains(t, te.out.String(), "decode")

	te = newTestEnv("")
	assert.Equal(t, 0, te.run("show", "--help"))
}
