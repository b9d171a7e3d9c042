package logger

import (
	"bytes"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
)

func TestTracedOnlyHandlerDropsUntracedRecords(t *testing.T) {
	var local, remote bytes.Buffer
	h := &ContextHandler{NewTeeHandler(
		log.NewJSONHandler(&local, nil),
		NewTracedOnlyHandler(log.NewJSONHandler(&remote, nil)),
	)}
	l := log.New(h)

	l.Info("startup")
	l.InfoContext(WithTrace(context.Background(), "job"), "rollup done")

	if strings.Count(local.String(), "\n") != 2 {
		t.Fatalf("stdout should get both records, got %q", local.String())
	}
	if strings.Contains(remote.String(), "startup") || !strings.Contains(remote.String(), `"trace_id":"job-`) {
		t.Fatalf("remote should only get traced records, got %q", remote.String())
	}
}

func TestTraceID(t *testing.T) {
	if TraceID(context.Background()) != "" {
		t.Fatal("empty ctx should have no trace id")
	}
	ctx := WithTrace(context.Background(), "evt")
	if !strings.HasPrefix(TraceID(ctx), "evt-") {
		t.Fatalf("unexpected trace id %q", TraceID(ctx))
	}
}

func TestRedisArgs(t *testing.T) {
	auth := redis.NewStatusCmd(context.Background(), "auth", "secret")
	if got := redisArgs(auth); got != "[PROTECTED]" {
		t.Fatalf("auth args leaked: %s", got)
	}

	args := []any{"sadd", "analytics:dirty"}
	for i := 0; i < 10; i++ {
		args = append(args, "7:2025-01-0"+string(rune('0'+i)))
	}
	sadd := redis.NewIntCmd(context.Background(), args...)
	if got := redisArgs(sadd); !strings.HasSuffix(got, "...(+4)") {
		t.Fatalf("long args not truncated: %s", got)
	}
}

func TestExpectedRedisError(t *testing.T) {
	if !expectedRedisError("get", redis.Nil) {
		t.Fatal("cache miss is expected")
	}
	if !expectedRedisError("rename", errors.New("ERR no such key")) {
		t.Fatal("renaming an empty dirty set is expected")
	}
	if expectedRedisError("set", errors.New("READONLY")) {
		t.Fatal("write failure must be logged")
	}
}
