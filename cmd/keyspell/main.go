// Package main is the entry point for keyspell.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dshills/keyspell/internal/app"
	"github.com/dshills/keyspell/internal/renderer/backend"
	"github.com/dshills/keyspell/internal/spell/wordlist"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "check":
			return runCheck(opts, args[1:])
		case "languages":
			return runLanguages(opts)
		case "extract-oxt":
			return runExtract(args[1:])
		}
	}
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "Error: only one file can be edited at a time\n")
		return 1
	}
	if len(args) == 1 {
		opts.File = args[0]
		opts.ProjectDir = projectDir(opts.ProjectDir, args[0])
	}
	return runEditor(opts)
}

// runEditor opens the interactive editor.
func runEditor(opts app.Options) int {
	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Close()

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		if _, ok := <-signals; ok {
			application.Quit()
		}
	}()

	if err := application.Run(); err != nil && !errors.Is(err, app.ErrQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runCheck prints the misspellings of each file. It exits 1 when any
// word is misspelled and 2 on errors.
func runCheck(opts app.Options, files []string) int {
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: keyspell check FILE...\n")
		return 2
	}
	opts.LogOutput = os.Stderr
	if opts.LogLevel == "" {
		opts.LogLevel = "warn"
	}

	status := 0
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		fileOpts := opts
		fileOpts.File = file
		fileOpts.ProjectDir = projectDir(opts.ProjectDir, file)

		n, err := checkFile(fileOpts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", file, err)
			return 2
		}
		if n > 0 {
			status = 1
		}
	}
	return status
}

func checkFile(opts app.Options) (int, error) {
	application, err := app.New(opts)
	if err != nil {
		return 0, err
	}
	defer application.Close()
	return application.Report(os.Stdout)
}

// runLanguages lists the installed dictionaries.
func runLanguages(opts app.Options) int {
	opts.LogOutput = os.Stderr
	if opts.LogLevel == "" {
		opts.LogLevel = "warn"
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer application.Close()

	current := application.Checker().Language()
	for _, lang := range application.Checker().Languages() {
		marker := " "
		if lang.Code == current {
			marker = "*"
		}
		fmt.Printf("%s %-8s %s\n", marker, lang.Code, lang.Name)
	}
	return 0
}

// runExtract copies the dictionaries of a LibreOffice extension.
func runExtract(args []string) int {
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: keyspell extract-oxt EXTENSION TARGET_DIR\n")
		return 1
	}
	paths, err := wordlist.ExtractOXT(args[0], args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return 0
}

// projectDir returns dir, or the directory of file when dir is empty.
func projectDir(dir, file string) string {
	if dir != "" {
		return dir
	}
	absPath, err := filepath.Abs(file)
	if err != nil {
		return ""
	}
	return filepath.Dir(absPath)
}

func parseFlags() app.Options {
	var opts app.Options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigFile, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigFile, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.ProjectDir, "project", "", "Directory holding the project .keyspell.toml")
	flag.StringVar(&opts.Language, "lang", "", "Language code, overriding the configuration")
	flag.StringVar(&opts.Language, "l", "", "Language code (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keyspell - terminal editor with incremental spell checking\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  keyspell [options] [file]\n")
		fmt.Fprintf(os.Stderr, "  keyspell [options] check FILE...\n")
		fmt.Fprintf(os.Stderr, "  keyspell [options] languages\n")
		fmt.Fprintf(os.Stderr, "  keyspell extract-oxt EXTENSION TARGET_DIR\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keyspell notes.txt               Edit a file\n")
		fmt.Fprintf(os.Stderr, "  keyspell -l de check brief.txt   Check a German file\n")
		fmt.Fprintf(os.Stderr, "  keyspell extract-oxt dict-de.oxt ~/.local/share/keyspell/dicts\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("keyspell %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	return opts
}
