package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/abelbrown/curator/internal/config"
	"github.com/abelbrown/curator/internal/curation"
	"github.com/abelbrown/curator/internal/feeds"
	"github.com/abelbrown/curator/internal/feeds/rss"
	"github.com/abelbrown/curator/internal/prefs"
	"github.com/abelbrown/curator/internal/store"
)

func runRun() {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file path (default ~/.curator/config.yaml)")
	tier := fs.String("tier", "", "Override curation tier (heuristic, standard, premium)")
	max := fs.Int("max", 0, "Override target batch size")
	fs.Parse(os.Args[1:])

	cfg := loadConfig(*configPath)
	if *tier != "" {
		cfg.Tier = *tier
	}
	if *max > 0 {
		cfg.MaxArticles = *max
	}

	ps := loadPrefs(cfg)
	st := openStore(cfg)
	defer st.Close()

	if err := curateOnce(cfg, ps, st); err != nil {
		fmt.Fprintf(os.Stderr, "curator: %v\n", err)
		os.Exit(1)
	}
}

// curateOnce executes one full pipeline run: fetch, dedupe, curate,
// persist, print. Shared by run and serve.
func curateOnce(cfg *config.Config, ps *prefs.Store, st *store.Store) error {
	sources := make([]feeds.Source, 0, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		sources = append(sources, rss.New(f.Name, f.URL, f.Category))
	}

	candidates := feeds.NewAggregator(sources...).FetchAll()
	if len(candidates) == 0 {
		// Distinct from zero survivors: this points at source outage
		return fmt.Errorf("no articles available from any source")
	}

	candidates = curation.Dedupe(candidates)

	p, err := ps.Get()
	if err != nil {
		return fmt.Errorf("preferences: %w", err)
	}

	strategy := curation.ForTier(cfg.Tier, cfg)
	result, err := strategy.Curate(context.Background(), candidates, p, cfg.MaxArticles)
	if err != nil {
		return fmt.Errorf("curate: %w", err)
	}

	if len(result.Articles) == 0 {
		return fmt.Errorf("no articles met criteria (processed %d candidates); consider relaxing preferences", result.TotalProcessed)
	}

	if err := st.SaveRun(result); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	printDigest(result)

	if stats := strategy.UsageStats(); stats.MonthlyBudget > 0 {
		fmt.Printf("\nUsage: %d requests, $%.4f of $%.2f budget\n",
			stats.Requests, stats.EstimatedCost, stats.MonthlyBudget)
	}
	return nil
}

// printDigest writes the curated batch to stdout grouped by section,
// preserving rank order within each section.
func printDigest(result *curation.Result) {
	fmt.Printf("Curated %d of %d articles (%s, %.0fms, mean score %.1f)\n\n",
		len(result.Articles), result.TotalProcessed, result.Method,
		float64(result.Elapsed.Milliseconds()), result.Metrics.MeanScore)

	printed := make(map[string]bool)
	sections := []string{curation.SectionHighlights}
	for _, a := range result.Articles {
		if a.Section != curation.SectionHighlights && !printed[a.Section] {
			sections = append(sections, a.Section)
			printed[a.Section] = true
		}
	}

	for _, section := range sections {
		var lines []string
		for _, a := range result.Articles {
			if a.Section != section {
				continue
			}
			line := fmt.Sprintf("  [%3.0f] %s\n        %s", a.Score, a.Title, a.URL)
			if a.AISummary != "" {
				line += "\n        " + a.AISummary
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Printf("%s\n%s\n\n", strings.ToUpper(section), strings.Join(lines, "\n"))
	}
}
