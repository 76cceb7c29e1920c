// Package main is ccsave, a command line tool for Cookie Clicker saves.
//
// Usage:
//
//	ccsave decode [file]       print a save as JSON
//	ccsave encode [file]       turn JSON back into an importable save
//	ccsave check [file]        verify a save re-encodes byte for byte
//	ccsave show [file]         summarize a save
//	ccsave dump --db saves.db  export stored snapshots as line protocol
//
// Input is read from the named file, from stdin when the file is "-" or
// missing, or from the clipboard with --clipboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/atotto/clipboard"
	flag "github.com/spf13/pflag"
)

const version = "0.1.0"

// env is the process environment a command runs in.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	readClipboard  func() (string, error)
	writeClipboard func(string) error
	createFile     func(name string) (io.WriteCloser, error)
}

func createFile(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

type command struct {
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"decode": {"print a save as JSON", runDecode},
	"encode": {"encode JSON as an importable save", runEncode},
	"check":  {"verify that a save re-encodes unchanged", runCheck},
	"show":   {"summarize a save", runShow},
	"dump":   {"export stored snapshots as InfluxDB line protocol", runDump},
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	e := &env{
		stdin:          os.Stdin,
		stdout:         os.Stdout,
		stderr:         os.Stderr,
		readClipboard:  clipboard.ReadAll,
		writeClipboard: clipboard.WriteAll,
		createFile:     createFile,
	}
	code := dispatch(ctx, e, os.Args[1:])
	cancel()
	os.Exit(code)
}

// dispatch runs the named command and returns the process exit code.
func dispatch(ctx context.Context, e *env, args []string) int {
	if len(args) == 0 {
		usage(e.stderr)
		return 2
	}
	switch args[0] {
	case "-h", "--help", "help":
		usage(e.stdout)
		return 0
	case "--version", "version":
		fmt.Fprintf(e.stdout, "ccsave v%s\n", version)
		return 0
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(e.stderr, "ccsave: unknown command %q\n\n", args[0])
		usage(e.stderr)
		return 2
	}
	err := cmd.run(ctx, e, args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(e.stderr, "ccsave %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "ccsave - inspect and convert Cookie Clicker saves\n\n")
	fmt.Fprintf(w, "Usage: ccsave <command> [options] [file]\n\n")
	fmt.Fprintf(w, "Commands:\n")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-8s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(w, "\nRun 'ccsave <command> --help' for command options.\n")
}
