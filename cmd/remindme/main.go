package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/chris/remindme/config"
	"github.com/chris/remindme/internal/assistant"
	"github.com/chris/remindme/internal/clock"
	"github.com/chris/remindme/internal/db"
	"github.com/chris/remindme/internal/discord"
	"github.com/chris/remindme/internal/metrics"
	"github.com/chris/remindme/internal/scheduler"
	"github.com/chris/remindme/internal/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg := config.Load()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	clk := clock.New(loc)

	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if n, err := database.CountEvents(""); err != nil {
		log.Printf("warning: counting events: %v", err)
	} else {
		log.Printf("database %s holds %d event(s)", cfg.DatabasePath, n)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewCollector(reg)

	asst := assistant.New(database, clk, rec)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := web.ListenAndServe(ctx, cfg.MetricsAddr, web.NewRouter(database, reg)); err != nil {
				log.Printf("metrics server: %v", err)
			}
		}()
	}

	// If Discord token is set, run as bot
	if cfg.DiscordToken != "" {
		runBot(ctx, cfg, database, clk, asst, rec)
		return
	}

	// Otherwise, CLI mode
	runCLI(ctx, cfg, database, clk, asst, rec)
}

func newScheduler(cfg *config.Config, database *db.DB, clk clock.Clock, send scheduler.SendFunc, rec metrics.Recorder) *scheduler.Scheduler {
	return scheduler.New(database, clk, send,
		scheduler.WithSchedule(cfg.SweepSchedule),
		scheduler.WithRate(cfg.SendRate),
		scheduler.WithSendTimeout(cfg.SendTimeout),
		scheduler.WithMetrics(rec),
	)
}

func runBot(ctx context.Context, cfg *config.Config, database *db.DB, clk clock.Clock, asst *assistant.Assistant, rec metrics.Recorder) {
	bot, err := discord.NewBot(cfg.DiscordToken, asst)
	if err != nil {
		log.Fatalf("failed to start Discord bot: %v", err)
	}
	defer bot.Close()

	sched := newScheduler(cfg, database, clk, bot.SendDM, rec)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	log.Println("bot is running. Press Ctrl+C to exit.")
	<-ctx.Done()
	log.Println("shutting down.")
}

func runCLI(ctx context.Context, cfg *config.Config, database *db.DB, clk clock.Clock, asst *assistant.Assistant, rec metrics.Recorder) {
	sched := newScheduler(cfg, database, clk, printReminder(stdout), rec)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	repl(ctx, os.Stdin, stdout, asst, isInteractive())
}
