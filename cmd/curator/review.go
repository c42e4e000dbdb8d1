package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/curator/internal/feedback"
	"github.com/abelbrown/curator/internal/ui"
)

func runReview() {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file path (default ~/.curator/config.yaml)")
	fs.Parse(os.Args[1:])

	cfg := loadConfig(*configPath)
	st := openStore(cfg)
	defer st.Close()

	articles, err := st.LatestArticles()
	if err != nil {
		fmt.Fprintf(os.Stderr, "curator: load latest run: %v\n", err)
		os.Exit(1)
	}
	if len(articles) == 0 {
		fmt.Println("no curated runs yet; run 'curator run' first")
		return
	}

	ps := loadPrefs(cfg)
	model := ui.NewModel(articles, feedback.NewAdapter(ps))

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "curator: review: %v\n", err)
		os.Exit(1)
	}
}
