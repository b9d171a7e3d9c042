package kafka

import (
	"FitTracker/internal/event"
	"context"
	"strings"
	"testing"

	"github.com/IBM/sarama"
)

type recordingPublisher struct {
	events []event.Event
	ok     bool
}

func (p *recordingPublisher) Publish(_ context.Context, evt event.Event) bool {
	p.events = append(p.events, evt)
	return p.ok
}

func replayInput(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n"))
}

func TestReplaySkipsInvalidLines(t *testing.T) {
	pub := &recordingPublisher{ok: true}
	in := replayInput(
		`{"topic":"meal.created","value":`+validMeal+`}`,
		``,
		`not json`,
		`{"topic":"meal.created","value":`+malformedMeal+`}`,
		`{"topic":"unknown.topic","value":{}}`,
	)

	stats, err := Replay(context.Background(), in, pub, false)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if stats.Lines != 4 || stats.Published != 1 || stats.Skipped != 3 || stats.Failed != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(pub.events) != 1 || pub.events[0].Meta().EventID != "meal-1" {
		t.Fatalf("expected meal-1 to be published, got %v", pub.events)
	}
}

func TestReplayDryRunPublishesNothing(t *testing.T) {
	pub := &recordingPublisher{ok: true}
	stats, err := Replay(context.Background(), replayInput(`{"topic":"meal.created","value":`+validMeal+`}`), pub, true)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if stats.Lines != 1 || stats.Published != 0 || len(pub.events) != 0 {
		t.Fatalf("dry run published: %+v", stats)
	}
}

func TestReplayCountsPublishFailures(t *testing.T) {
	sp := newMockProducer(t)
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewEventProducerWith(sp, testTopics)
	stats, err := Replay(context.Background(), replayInput(`{"topic":"meal.created","value":`+validMeal+`}`), p, false)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if stats.Failed != 1 || stats.Published != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestReplayStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pub := &recordingPublisher{ok: true}
	if _, err := Replay(ctx, replayInput(`{"topic":"meal.created","value":`+validMeal+`}`), pub, false); err == nil {
		t.Fatal("expected context error")
	}
	if len(pub.events) != 0 {
		t.Fatal("nothing should be published after cancel")
	}
}
