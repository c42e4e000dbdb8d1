// Command curator runs the daily article curation pipeline.
//
// Usage:
//
//	curator                  Show help
//	curator run              Fetch, curate, and print today's batch
//	curator serve            Schedule daily runs (cron)
//	curator feedback <id> <approve|reject>
//	curator review           Interactive approve/reject of the latest batch
//	curator stats            Run history and usage
package main

import (
	"fmt"
	"os"

	"github.com/abelbrown/curator/internal/logging"
)

const usage = `curator — personalized daily article curation

Usage:
  curator <command> [flags]

Commands:
  run         Fetch candidates, curate a batch, and print the digest
  serve       Run on a daily schedule (cron spec from config)
  feedback    Apply an approve/reject signal to a curated article
  review      Interactively review the latest batch
  stats       Show run history and estimated spend

Environment:
  ANTHROPIC_API_KEY   Enables the premium curation tier
  OPENAI_API_KEY      Enables the standard curation tier

Run 'curator <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	if err := logging.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "curator: logging init: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "run":
		runRun()
	case "serve":
		runServe()
	case "feedback":
		runFeedback()
	case "review":
		runReview()
	case "stats":
		runStats()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "curator: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
