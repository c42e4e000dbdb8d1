package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/abelbrown/curator/internal/logging"
)

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file path (default ~/.curator/config.yaml)")
	fs.Parse(os.Args[1:])

	cfg := loadConfig(*configPath)
	ps := loadPrefs(cfg)
	st := openStore(cfg)
	defer st.Close()

	c := cron.New()
	_, err := c.AddFunc(cfg.Schedule, func() {
		logging.Info("Scheduled curation run starting", "schedule", cfg.Schedule)
		if err := curateOnce(cfg, ps, st); err != nil {
			logging.Error("Scheduled run failed", "error", err)
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "curator: invalid schedule %q: %v\n", cfg.Schedule, err)
		os.Exit(1)
	}

	c.Start()
	fmt.Printf("curator serving, schedule %q (ctrl+c to stop)\n", cfg.Schedule)
	logging.Info("Serve mode started", "schedule", cfg.Schedule)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	ctx := c.Stop()
	<-ctx.Done()
	fmt.Println("curator stopped")
}
