package main

import (
	"FitTracker/internal/api/config"
	"FitTracker/internal/event"
	"FitTracker/internal/pkg/kafka"
	"FitTracker/internal/pkg/logger"
	"context"
	"io"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

// 把导出的事件（每行 {"topic": ..., "value": ...}）重新发布到 Kafka，
// 用于补数据或在新集群上重建分析结果。消费端按 eventId 去重。
func main() {
	os.Exit(run())
}

func run() int {
	file := pflag.StringP("file", "f", "-", "input file, - for stdin")
	dryRun := pflag.Bool("dry-run", false, "validate only, do not publish")
	pflag.Parse()

	if err := config.LoadConfig(); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		return 1
	}
	logger.InitLogger()

	var in io.Reader = os.Stdin
	if *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			log.Error("failed to open input", "file", *file, "err", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithTrace(ctx, "replay")

	var pub kafka.Publisher = noopPublisher{}
	if !*dryRun {
		producer, err := kafka.NewEventProducer(config.Cfg.Kafka)
		if err != nil {
			log.Error("failed to create producer", "err", err)
			return 1
		}
		defer producer.Close()
		pub = producer
	}

	stats, err := kafka.Replay(ctx, in, pub, *dryRun)
	log.InfoContext(ctx, "replay finished",
		"lines", stats.Lines, "published", stats.Published, "skipped", stats.Skipped, "failed", stats.Failed, "dry_run", *dryRun)
	if err != nil {
		log.ErrorContext(ctx, "replay aborted", "err", err)
		return 1
	}
	if stats.Failed > 0 {
		return 2
	}
	return 0
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, event.Event) bool { return true }
