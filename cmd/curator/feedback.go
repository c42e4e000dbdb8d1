package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/abelbrown/curator/internal/feedback"
	"github.com/abelbrown/curator/internal/logging"
)

func runFeedback() {
	fs := flag.NewFlagSet("feedback", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file path (default ~/.curator/config.yaml)")
	fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: curator feedback <article-id> <approve|reject>")
		os.Exit(1)
	}
	articleID := args[0]
	sig := feedback.Signal(args[1])
	if sig != feedback.SignalApprove && sig != feedback.SignalReject {
		fmt.Fprintf(os.Stderr, "curator: signal must be approve or reject, got %q\n", args[1])
		os.Exit(1)
	}

	cfg := loadConfig(*configPath)
	st := openStore(cfg)
	defer st.Close()

	candidate, found, err := st.FindCurated(articleID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "curator: lookup article: %v\n", err)
		os.Exit(1)
	}
	if !found {
		// Unknown id is a no-op, not an error
		logging.Warn("Feedback for unknown article ignored", "article", articleID)
		fmt.Printf("article %q was not found in any curated run; nothing updated\n", articleID)
		return
	}

	ps := loadPrefs(cfg)
	if err := feedback.NewAdapter(ps).Apply(candidate, sig); err != nil {
		fmt.Fprintf(os.Stderr, "curator: apply feedback: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s recorded for %q\n", sig, candidate.Title)
}
