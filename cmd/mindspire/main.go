// Mindspire is a deterministic, data-driven terminal roguelike about
// climbing a tower of trapped knowledge.
// Usage: mindspire [--version] [--plain] [--script <file>] [--seed <n>] [--debug <file>] [content_directory]
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/nathoo/mindspire/cli"
	"github.com/nathoo/mindspire/config"
	"github.com/nathoo/mindspire/engine"
	"github.com/nathoo/mindspire/loader"
	"github.com/nathoo/mindspire/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	var contentDir string
	var scriptFile string
	var debugFile string
	var seed int64
	seedSet := false

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("mindspire %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--seed requires a number\n")
				os.Exit(1)
			}
			i++
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed: %v\n", err)
				os.Exit(1)
			}
			seed = n
			seedSet = true
		case "--debug":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--debug requires a file path\n")
				os.Exit(1)
			}
			i++
			debugFile = args[i]
		default:
			if contentDir == "" {
				contentDir = args[i]
			}
		}
	}

	cfg, err := config.Load(contentDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if contentDir == "" {
		contentDir = cfg.ContentDir
	}
	if debugFile == "" {
		debugFile = cfg.LogFile
	}

	log := zerolog.Nop()
	if debugFile != "" {
		f, err := os.OpenFile(debugFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log = zerolog.New(f).With().Timestamp().Logger()
	}

	// Load and compile Lua game content.
	defs, err := loader.Load(contentDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
		os.Exit(1)
	}

	diff, err := cfg.Tuning()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !seedSet {
		seed = time.Now().UnixNano()
	}

	sess := engine.New(defs, diff, seed, log)
	log.Info().Str("game", defs.Game.Title).Int64("seed", seed).
		Str("difficulty", cfg.Difficulty).Msg("session created")

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		printBanner(defs.Game.Title, defs.Game.Version)
		c := cli.New(sess, log)
		if cfg.SaveDir != "" {
			c.SaveDir = cfg.SaveDir
		}
		c.In = f
		c.EchoInput = true
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		printBanner(defs.Game.Title, defs.Game.Version)
		c := cli.New(sess, log)
		if cfg.SaveDir != "" {
			c.SaveDir = cfg.SaveDir
		}
		c.Run()
		return
	}

	if err := tui.Run(sess, log, cfg.SaveDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printBanner(title, version string) {
	if version != "" {
		fmt.Printf("%s v%s\n\n", title, version)
		return
	}
	fmt.Printf("%s\n\n", title)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
