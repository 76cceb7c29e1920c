package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/entrhq/cookiebot/pkg/export"
	"github.com/entrhq/cookiebot/pkg/save"
	"github.com/entrhq/cookiebot/pkg/store"
)

// inputFlags are shared by every command that reads a save.
type inputFlags struct {
	clipboard bool
	text      bool
}

func newFlagSet(e *env, name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: ccsave %s %s\n\nOptions:\n", name, usage)
		fs.PrintDefaults()
	}
	return fs
}

func (in *inputFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&in.clipboard, "clipboard", false, "Read the input from the clipboard")
	fs.BoolVar(&in.text, "text", false, "Save text is plain record text without the envelope")
}

// read returns the command input named by the remaining arguments.
func (in *inputFlags) read(e *env, args []string) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("expected at most one input, got %d", len(args))
	}
	if in.clipboard {
		if len(args) == 1 {
			return "", errors.New("--clipboard cannot be combined with a file")
		}
		s, err := e.readClipboard()
		if err != nil {
			return "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		return strings.TrimSpace(s), nil
	}

	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(e.stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// readSave reads and decodes a save.
func (in *inputFlags) readSave(e *env, args []string) (*save.Save, error) {
	raw, err := in.read(e, args)
	if err != nil {
		return nil, err
	}
	if in.text {
		return save.DecodeText(raw)
	}
	return save.Decode(raw)
}

func runDecode(ctx context.Context, e *env, args []string) error {
	var in inputFlags
	fs := newFlagSet(e, "decode", "[--clipboard] [--text] [file]")
	in.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := in.readSave(e, fs.Args())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func runEncode(ctx context.Context, e *env, args []string) error {
	var (
		in        inputFlags
		toClip    bool
		plainText bool
	)
	fs := newFlagSet(e, "encode", "[--copy] [--text] [file.json]")
	fs.BoolVar(&in.clipboard, "clipboard", false, "Read the JSON from the clipboard")
	fs.BoolVar(&toClip, "copy", false, "Also copy the encoded save to the clipboard")
	fs.BoolVar(&plainText, "text", false, "Print plain record text without the envelope")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := in.read(e, fs.Args())
	if err != nil {
		return err
	}
	var s save.Save
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	out := save.Encode(&s)
	if plainText {
		out = save.EncodeText(&s)
	}
	if toClip {
		if err := e.writeClipboard(out); err != nil {
			return fmt.Errorf("failed to write clipboard: %w", err)
		}
	}
	_, err = fmt.Fprintln(e.stdout, out)
	return err
}

func runCheck(ctx context.Context, e *env, args []string) error {
	var in inputFlags
	fs := newFlagSet(e, "check", "[--clipboard] [file]")
	fs.BoolVar(&in.clipboard, "clipboard", false, "Read the input from the clipboard")
	if err := fs.Parse(args); err != nil {
		return err
	}

	raw, err := in.read(e, fs.Args())
	if err != nil {
		return err
	}
	if err := save.CheckInverse(raw); err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.stdout, "ok: save re-encodes unchanged")
	return err
}

func runShow(ctx context.Context, e *env, args []string) error {
	var in inputFlags
	fs := newFlagSet(e, "show", "[--clipboard] [--text] [file]")
	in.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := in.readSave(e, fs.Args())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.stdout, renderSummary(s))
	return err
}

func runDump(ctx context.Context, e *env, args []string) error {
	var (
		dbPath   string
		outPath  string
		pageSize int
	)
	fs := newFlagSet(e, "dump", "--db saves.db [--out file]")
	fs.StringVar(&dbPath, "db", "", "Snapshot database to read (required)")
	fs.StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	fs.IntVar(&pageSize, "page-size", export.DefaultPageSize, "Snapshots read per query")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if dbPath == "" {
		return errors.New("--db is required")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	snapshots, err := store.Open(ctx, store.Config{Path: dbPath, PoolSize: 1})
	if err != nil {
		return err
	}
	defer snapshots.Close()

	if outPath == "" {
		_, err := export.Dump(ctx, snapshots, e.stdout, pageSize)
		return err
	}
	n, err := dumpToFile(ctx, e, snapshots, outPath, pageSize)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stderr, "wrote %d points to %s\n", n, outPath)
	return nil
}

// dumpToFile runs export.Dump into a new file. A failed close is reported
// since it can lose buffered data.
func dumpToFile(ctx context.Context, e *env, src export.Pager, path string, pageSize int) (n int, err error) {
	f, err := e.createFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", closeErr)
		}
	}()
	return export.Dump(ctx, src, f, pageSize)
}
