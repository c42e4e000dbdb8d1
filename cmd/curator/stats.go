package main

import (
	"flag"
	"fmt"
	"os"
)

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file path (default ~/.curator/config.yaml)")
	limit := fs.Int("n", 10, "Number of runs to show")
	fs.Parse(os.Args[1:])

	cfg := loadConfig(*configPath)
	st := openStore(cfg)
	defer st.Close()

	runs, err := st.RunHistory(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "curator: run history: %v\n", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("no curated runs yet")
		return
	}

	fmt.Printf("%-20s %-18s %9s %9s %11s %9s\n",
		"when", "method", "input", "selected", "mean score", "ms")
	for _, r := range runs {
		fmt.Printf("%-20s %-18s %9d %9d %11.1f %9d\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Method, r.TotalProcessed, r.Selected, r.MeanScore, r.ElapsedMs)
	}
}
