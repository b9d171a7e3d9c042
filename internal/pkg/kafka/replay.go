package kafka

import (
	"FitTracker/internal/event"
	"bufio"
	"context"
	"io"
	log "log/slog"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Publisher 回放写入端，EventProducer 实现
type Publisher interface {
	Publish(ctx context.Context, evt event.Event) bool
}

// ReplayLine 回放文件的一行：{"topic": "meal.created", "value": {...}}
type ReplayLine struct {
	Topic event.Topic     `json:"topic"`
	Value json.RawMessage `json:"value"`
}

type ReplayStats struct {
	Lines     int
	Published int
	Skipped   int
	Failed    int
}

const maxReplayLine = 1 << 20

// Replay 逐行解析并重新发布事件，格式错误的行跳过，dryRun 时只做校验
func Replay(ctx context.Context, r io.Reader, pub Publisher, dryRun bool) (ReplayStats, error) {
	var stats ReplayStats
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxReplayLine)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		stats.Lines++

		var line ReplayLine
		if err := json.Unmarshal(raw, &line); err != nil {
			stats.Skipped++
			log.WarnContext(ctx, "skip unparsable replay line", "line", stats.Lines, "err", err)
			continue
		}
		evt, err := event.Decode(line.Topic, line.Value)
		if err != nil {
			stats.Skipped++
			log.WarnContext(ctx, "skip invalid replay event", "line", stats.Lines, "topic", line.Topic, "err", err)
			continue
		}
		if dryRun {
			continue
		}
		if pub.Publish(ctx, evt) {
			stats.Published++
		} else {
			stats.Failed++
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, errors.Wrap(err, "read replay input")
	}
	return stats, nil
}
