package kafka

import (
	"FitTracker/internal/api/config"
	"FitTracker/internal/event"
	"FitTracker/internal/service"
	"context"
	"sync"

	"github.com/IBM/sarama"
)

var testTopics = config.TopicsConfig{
	UserRegistered:    "user.registered",
	UserWeightUpdated: "user.weight.updated",
	MealCreated:       "meal.created",
	WorkoutCompleted:  "workout.completed",
}

type fakeSession struct {
	ctx     context.Context
	mu      sync.Mutex
	marked  []int64
	commits int
}

func newFakeSession(ctx context.Context) *fakeSession {
	return &fakeSession{ctx: ctx}
}

func (s *fakeSession) Claims() map[string][]int32 { return nil }
func (s *fakeSession) MemberID() string           { return "member-1" }
func (s *fakeSession) GenerationID() int32        { return 1 }
func (s *fakeSession) MarkOffset(string, int32, int64, string) {
}
func (s *fakeSession) ResetOffset(string, int32, int64, string) {
}
func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked = append(s.marked, msg.Offset)
}

func (s *fakeSession) Commit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commits++
}

func (s *fakeSession) markedOffsets() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.marked...)
}

type fakeClaim struct {
	topic string
	msgs  chan *sarama.ConsumerMessage
}

// newFakeClaim 预先放入全部消息并关闭通道
func newFakeClaim(topic string, values ...string) *fakeClaim {
	c := &fakeClaim{topic: topic, msgs: make(chan *sarama.ConsumerMessage, len(values))}
	for i, v := range values {
		c.msgs <- &sarama.ConsumerMessage{Topic: topic, Partition: 0, Offset: int64(i), Value: []byte(v)}
	}
	close(c.msgs)
	return c
}

func (c *fakeClaim) Topic() string                            { return c.topic }
func (c *fakeClaim) Partition() int32                         { return 0 }
func (c *fakeClaim) InitialOffset() int64                     { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64               { return int64(cap(c.msgs)) }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.msgs }

// fakeApplier 记录收到的事件，可注入若干次临时错误
type fakeApplier struct {
	mu       sync.Mutex
	events   []event.Event
	failures int
	err      error
	result   service.ApplyResult
	onApply  func(ctx context.Context)
}

func (a *fakeApplier) Apply(ctx context.Context, evt event.Event) (service.ApplyResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.onApply != nil {
		a.onApply(ctx)
	}
	if a.failures > 0 {
		a.failures--
		return "", a.err
	}
	a.events = append(a.events, evt)
	if a.result == "" {
		return service.ResultApplied, nil
	}
	return a.result, nil
}

func (a *fakeApplier) applied() []event.Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]event.Event(nil), a.events...)
}

const validMeal = `{"eventId":"meal-1","eventTimestamp":"2025-01-06T12:00:00Z","userId":7,` +
	`"mealDate":"2025-01-06","totalCalories":600,"totalProteinG":30,"totalCarbsG":50,"totalFatG":20}`

const malformedMeal = `{"eventId":"meal-2","eventTimestamp":"2025-01-06T12:00:00Z","userId":7,"mealDate":"not-a-date"}`
