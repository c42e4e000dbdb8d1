package main

import (
	"fmt"
	"os"

	"github.com/abelbrown/curator/internal/config"
	"github.com/abelbrown/curator/internal/prefs"
	"github.com/abelbrown/curator/internal/store"
)

// loadConfig reads the config file or exits
func loadConfig(path string) *config.Config {
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "curator: load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// openStore opens the run-history database or exits
func openStore(cfg *config.Config) *store.Store {
	st, err := store.Open(cfg.DatabaseFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "curator: open database: %v\n", err)
		os.Exit(1)
	}
	return st
}

// loadPrefs seeds defaults on first run, then loads the preference
// document. Persistence errors are fatal here: silently curating
// without preferences would hide data loss.
func loadPrefs(cfg *config.Config) *prefs.Store {
	ps := prefs.NewStore(cfg.PreferencesFile)
	if err := ps.Ensure(); err != nil {
		fmt.Fprintf(os.Stderr, "curator: preferences: %v\n", err)
		os.Exit(1)
	}
	if _, err := ps.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "curator: preferences: %v\n", err)
		os.Exit(1)
	}
	return ps
}
