package job

import (
	"FitTracker/internal/analytics"
	"FitTracker/internal/model"
	"FitTracker/internal/pkg/consts"
	"context"
	"reflect"
	"testing"
	"time"
)

func TestDirtyRollupJob(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	_ = store.AddToSet(ctx, consts.DirtyUserDateKey, "7:2025-01-06", "7:2025-01-07", "garbage", "8:2025-02-01")

	rollup := &fakeRollup{failWhen: func(userID uint64, p analytics.Period) bool {
		return userID == 8 && p.Type == model.PeriodMonthly
	}}
	dashboard := &fakeDashboard{}
	NewDirtyRollupJob(rollup, dashboard, store).Run()

	// 7 号用户：两天共享一个周与一个月
	want7 := []string{
		"DAILY[2025-01-06..2025-01-06]",
		"WEEKLY[2025-01-06..2025-01-12]",
		"MONTHLY[2025-01-01..2025-01-31]",
		"DAILY[2025-01-07..2025-01-07]",
	}
	for _, p := range want7 {
		if !contains(rollup.rebuilt, p) {
			t.Fatalf("expected %s to be rebuilt, got %v", p, rollup.rebuilt)
		}
	}
	if !contains(rollup.rebuilt, "WEEKLY[2025-01-27..2025-02-02]") {
		t.Fatalf("user 8 week not rebuilt: %v", rollup.rebuilt)
	}
	if len(rollup.rebuilt) != 6 {
		t.Fatalf("expected 6 rebuilt periods, got %v", rollup.rebuilt)
	}
	if !reflect.DeepEqual(rollup.reports, []string{"2025-01"}) {
		t.Fatalf("monthly reports = %v", rollup.reports)
	}
	if dashboard.invalidated[7] != 1 || dashboard.invalidated[8] != 1 {
		t.Fatalf("invalidated = %v", dashboard.invalidated)
	}

	requeued, _ := store.GetSet(ctx, consts.DirtyUserDateKey)
	if !reflect.DeepEqual(requeued, []string{"8:2025-02-01"}) {
		t.Fatalf("failed member should be requeued, got %v", requeued)
	}
	if left, _ := store.GetSet(ctx, consts.DirtyUserDateKey+":processing"); len(left) != 0 {
		t.Fatalf("processing set should be deleted, got %v", left)
	}
	if _, locked := store.values[consts.DirtyRollupLock]; locked {
		t.Fatal("dirty rollup lock should be released")
	}
}

func TestDirtyRollupJob_NothingDirty(t *testing.T) {
	rollup := &fakeRollup{}
	NewDirtyRollupJob(rollup, &fakeDashboard{}, newFakeStore()).Run()
	if len(rollup.rebuilt) != 0 {
		t.Fatalf("expected no rebuilds, got %v", rollup.rebuilt)
	}
}

func TestNightlyRollupJob_RunsOncePerDay(t *testing.T) {
	store := newFakeStore()
	rollup := &fakeRollup{}
	shanghai := time.FixedZone("UTC+8", 8*3600)
	j := NewNightlyRollupJob(rollup, store, shanghai)
	// UTC 1 月 12 日 16:15 即东八区 1 月 13 日 00:15
	j.now = func() time.Time { return time.Date(2025, 1, 12, 16, 15, 0, 0, time.UTC) }

	j.Run()
	j.Run()

	if len(rollup.nightly) != 1 {
		t.Fatalf("expected a single run, got %d", len(rollup.nightly))
	}
	if got := rollup.nightly[0].Format(time.DateOnly); got != "2025-01-13" {
		t.Fatalf("today = %s, want 2025-01-13", got)
	}
}

func TestPurgeJob(t *testing.T) {
	summary := &fakeSummary{}
	j := NewPurgeJob(summary, newFakeStore(), 14)
	now := time.Date(2025, 3, 1, 3, 30, 0, 0, time.UTC)
	j.now = func() time.Time { return now }
	j.Run()
	if !summary.purgedAt.Equal(now) || summary.retention != 14 {
		t.Fatalf("purge called with %s / %d", summary.purgedAt, summary.retention)
	}
}

func TestGoalProgressJob_TracksYesterday(t *testing.T) {
	goals := &fakeGoals{}
	j := NewGoalProgressJob(goals, newFakeStore(), time.UTC)
	j.now = func() time.Time { return time.Date(2025, 3, 1, 0, 45, 0, 0, time.UTC) }
	j.Run()
	if len(goals.tracked) != 1 || goals.tracked[0].Format(time.DateOnly) != "2025-02-28" {
		t.Fatalf("tracked = %v", goals.tracked)
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
