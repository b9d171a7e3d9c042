package job

import (
	"FitTracker/internal/analytics"
	"FitTracker/internal/model"
	"FitTracker/internal/service"
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

type fakeStore struct {
	mu     sync.Mutex
	values map[string]string
	sets   map[string]map[string]struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}, sets: map[string]map[string]struct{}{}}
}

func (f *fakeStore) GetValue(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key], nil
}

func (f *fakeStore) SetWithExpiration(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value.(string)
	return nil
}

func (f *fakeStore) DeleteKey(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.values, k)
		delete(f.sets, k)
	}
	return nil
}

func (f *fakeStore) TryLock(_ context.Context, key string, value interface{}, _ time.Duration, _ int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeStore) UnLock(_ context.Context, key string, value interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.values[key] == value.(string) {
		delete(f.values, key)
	}
}

func (f *fakeStore) AddToSet(_ context.Context, key string, members ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sets[key] == nil {
		f.sets[key] = map[string]struct{}{}
	}
	for _, m := range members {
		f.sets[key][m] = struct{}{}
	}
	return nil
}

func (f *fakeStore) GetSet(_ context.Context, key string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sets[key]))
	for m := range f.sets[key] {
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeStore) Rename(_ context.Context, oldKey, newKey string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.sets[oldKey]
	if !ok {
		return false, nil
	}
	f.sets[newKey] = set
	delete(f.sets, oldKey)
	return true, nil
}

func (f *fakeStore) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for k := range f.values {
		if strings.HasPrefix(k, prefix) {
			delete(f.values, k)
			n++
		}
	}
	return n, nil
}

// fakeRollup 只实现任务用到的方法
type fakeRollup struct {
	service.RollupService
	mu       sync.Mutex
	rebuilt  []string
	reports  []string
	nightly  []time.Time
	failWhen func(userID uint64, p analytics.Period) bool
}

func (f *fakeRollup) RebuildPeriod(_ context.Context, userID uint64, p analytics.Period) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWhen != nil && f.failWhen(userID, p) {
		return errors.New("source timeout")
	}
	f.rebuilt = append(f.rebuilt, p.String())
	return nil
}

func (f *fakeRollup) RebuildMonthlyReport(_ context.Context, userID uint64, year int, month time.Month) (*model.MonthlyReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"))
	return &model.MonthlyReport{UserID: userID}, nil
}

func (f *fakeRollup) RunNightly(_ context.Context, today time.Time) (service.NightlyStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nightly = append(f.nightly, today)
	return service.NightlyStats{Daily: 1}, nil
}

type fakeDashboard struct {
	service.DashboardService
	mu          sync.Mutex
	invalidated map[uint64]int
}

func (f *fakeDashboard) Invalidate(_ context.Context, userID uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.invalidated == nil {
		f.invalidated = map[uint64]int{}
	}
	f.invalidated[userID]++
}

type fakeSummary struct {
	service.DailySummaryService
	purgedAt  time.Time
	retention int
}

func (f *fakeSummary) PurgeProcessed(_ context.Context, now time.Time, retentionDays int) (int64, error) {
	f.purgedAt, f.retention = now, retentionDays
	return 3, nil
}

type fakeGoals struct {
	service.GoalService
	tracked []time.Time
}

func (f *fakeGoals) TrackAll(_ context.Context, date time.Time) (int, error) {
	f.tracked = append(f.tracked, date)
	return 2, nil
}
