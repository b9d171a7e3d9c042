package service

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"FitTracker/internal/event"
	"FitTracker/internal/model"
	"FitTracker/internal/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analytics.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// memStore 内存版 redis.Store
type memStore struct {
	mu     sync.Mutex
	values map[string]string
	sets   map[string]map[string]struct{}
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}, sets: map[string]map[string]struct{}{}}
}

func (m *memStore) GetValue(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memStore) SetWithExpiration(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value.(string)
	return nil
}

func (m *memStore) DeleteKey(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
		delete(m.sets, k)
	}
	return nil
}

func (m *memStore) TryLock(_ context.Context, key string, value interface{}, _ time.Duration, _ int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memStore) UnLock(_ context.Context, key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values[key] == value.(string) {
		delete(m.values, key)
	}
}

func (m *memStore) AddToSet(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sets[key] == nil {
		m.sets[key] = map[string]struct{}{}
	}
	for _, v := range members {
		m.sets[key][v] = struct{}{}
	}
	return nil
}

func (m *memStore) GetSet(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sets[key]))
	for v := range m.sets[key] {
		out = append(out, v)
	}
	return out, nil
}

func (m *memStore) Rename(_ context.Context, oldKey, newKey string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[oldKey]
	if !ok {
		return false, nil
	}
	m.sets[newKey] = set
	delete(m.sets, oldKey)
	return true, nil
}

func (m *memStore) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			delete(m.values, k)
			n++
		}
	}
	return n, nil
}

func (m *memStore) keysWithPrefix(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

func envelope(userID uint64) event.Envelope {
	return event.Envelope{EventID: uuid.NewString(), EventTimestamp: time.Now().UTC(), UserID: userID}
}

func meal(userID uint64, date string, calories int, protein, carbs, fat int64) *event.MealCreated {
	return &event.MealCreated{
		Envelope:      envelope(userID),
		MealDate:      event.MustDate(date),
		TotalCalories: calories,
		TotalProteinG: decimal.NewFromInt(protein),
		TotalCarbsG:   decimal.NewFromInt(carbs),
		TotalFatG:     decimal.NewFromInt(fat),
	}
}

func workout(userID uint64, date string, minutes, calories int) *event.WorkoutCompleted {
	return &event.WorkoutCompleted{
		Envelope:        envelope(userID),
		WorkoutDate:     event.MustDate(date),
		DurationMinutes: minutes,
		CaloriesBurned:  calories,
		WorkoutType:     "RUNNING",
		ExerciseCount:   4,
	}
}

func mustApply(t *testing.T, svc DailySummaryService, events ...event.Event) {
	t.Helper()
	for _, e := range events {
		if _, err := svc.Apply(context.Background(), e); err != nil {
			t.Fatalf("apply %s: %v", e.Topic(), err)
		}
	}
}

func date(s string) time.Time {
	return event.MustDate(s).Time()
}

func getSummary(t *testing.T, svc DailySummaryService, userID uint64, day string) *model.DailyActivitySummary {
	t.Helper()
	s, err := svc.GetDaily(context.Background(), userID, date(day))
	if err != nil {
		t.Fatalf("get daily %d %s: %v", userID, day, err)
	}
	return s
}
