package service

import (
	"context"
	"testing"
	"time"

	"FitTracker/internal/analytics"
	"FitTracker/internal/event"
	"FitTracker/internal/pkg/consts"
	"FitTracker/internal/pkg/metrics"
	"FitTracker/internal/pkg/util"
	"FitTracker/internal/repository"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestEnhancedAnalyticsCached(t *testing.T) {
	db := newTestDB(t)
	store := newMemStore()
	summaryRepo := repository.NewDailySummaryRepo(db)
	summarySvc := NewDailySummaryService(summaryRepo, nil)
	dashboard := NewDashboardService(summaryRepo, repository.NewWorkoutSessionRepo(db), store, nil)
	ctx := context.Background()

	for d := date("2025-01-06"); !d.After(date("2025-01-12")); d = d.AddDate(0, 0, 1) {
		w := workout(4, event.NewDate(d).String(), 30, 250)
		w.RatingBefore, w.RatingAfter = util.PtrInt(4), util.PtrInt(7)
		started := d.Add(7 * time.Hour)
		w.StartedAt = &started
		mustApply(t, summarySvc, w, meal(4, event.NewDate(d).String(), 500, 20, 50, 10))
	}

	hitsBefore := testutil.ToFloat64(metrics.DashboardCacheHits)
	b, err := dashboard.GetEnhanced(ctx, 4, date("2025-01-12"))
	if err != nil {
		t.Fatalf("enhanced: %v", err)
	}
	if b.SessionsAnalyzed != 7 || b.CurrentStreak != 7 || b.BestTimeOfDay.Status != analytics.TimeOfDayOK {
		t.Fatalf("unexpected bundle %+v", b)
	}
	if b.Readiness.Score < 0 || b.Readiness.Score > 100 {
		t.Fatalf("readiness out of range %+v", b.Readiness)
	}
	if keys := store.keysWithPrefix(consts.DashboardKey); len(keys) != 1 {
		t.Fatalf("expected one cached bundle, got %v", keys)
	}

	cached, err := dashboard.GetEnhanced(ctx, 4, date("2025-01-12"))
	if err != nil {
		t.Fatalf("cached: %v", err)
	}
	if testutil.ToFloat64(metrics.DashboardCacheHits) != hitsBefore+1 {
		t.Fatal("second read should be served from cache")
	}
	if cached.OverallEfficiency != b.OverallEfficiency || cached.ReferenceDate != "2025-01-12" {
		t.Fatalf("cached bundle differs: %+v", cached)
	}

	dashboard.Invalidate(ctx, 4)
	if keys := store.keysWithPrefix(consts.DashboardKey); len(keys) != 0 {
		t.Fatalf("cache not invalidated: %v", keys)
	}
}

func TestEnhancedAnalyticsWithoutStore(t *testing.T) {
	db := newTestDB(t)
	dashboard := NewDashboardService(repository.NewDailySummaryRepo(db), repository.NewWorkoutSessionRepo(db), nil, nil)
	b, err := dashboard.GetEnhanced(context.Background(), 1, date("2025-01-01"))
	if err != nil {
		t.Fatalf("enhanced: %v", err)
	}
	if b.Readiness.Score != 0 || b.OptimalDurationMinutes != nil {
		t.Fatalf("expected an empty bundle, got %+v", b)
	}
	if _, err := dashboard.GetEnhanced(context.Background(), 0, date("2025-01-01")); err != ErrParamInvalid {
		t.Fatalf("expected ErrParamInvalid, got %v", err)
	}
}

func TestInvalidateDropsEveryReferenceDate(t *testing.T) {
	db := newTestDB(t)
	store := newMemStore()
	summaryRepo := repository.NewDailySummaryRepo(db)
	dashboard := NewDashboardService(summaryRepo, repository.NewWorkoutSessionRepo(db), store, nil)
	ctx := context.Background()

	mustApply(t, NewDailySummaryService(summaryRepo, nil), meal(4, "2025-01-06", 500, 20, 50, 10))
	for _, ref := range []string{"2025-01-06", "2025-01-10", "2025-01-20"} {
		if _, err := dashboard.GetEnhanced(ctx, 4, date(ref)); err != nil {
			t.Fatalf("enhanced %s: %v", ref, err)
		}
	}
	if _, err := dashboard.GetEnhanced(ctx, 41, date("2025-01-10")); err != nil {
		t.Fatalf("enhanced: %v", err)
	}

	// 1 月 6 日的数据变化同样影响之后参考日的连续天数与里程碑
	dashboard.Invalidate(ctx, 4)
	keys := store.keysWithPrefix(consts.DashboardKey)
	if len(keys) != 1 || keys[0] != consts.DashboardKey+"41:2025-01-10" {
		t.Fatalf("remaining cache keys = %v", keys)
	}
}

func TestFullWeekMilestoneReachedFromEvents(t *testing.T) {
	db := newTestDB(t)
	summaryRepo := repository.NewDailySummaryRepo(db)
	summarySvc := NewDailySummaryService(summaryRepo, nil)
	dashboard := NewDashboardService(summaryRepo, repository.NewWorkoutSessionRepo(db), nil, nil)

	// 2025-01-01 至 2025-01-30，每天一餐加一次 40 分钟、350 千卡的训练
	for d := date("2025-01-01"); !d.After(date("2025-01-30")); d = d.AddDate(0, 0, 1) {
		w := workout(9, event.NewDate(d).String(), 40, 350)
		w.RatingBefore, w.RatingAfter = util.PtrInt(6), util.PtrInt(10)
		mustApply(t, summarySvc, meal(9, event.NewDate(d).String(), 600, 30, 60, 15), w)
	}

	b, err := dashboard.GetEnhanced(context.Background(), 9, date("2025-01-30"))
	if err != nil {
		t.Fatalf("enhanced: %v", err)
	}
	achieved := map[analytics.MilestoneCode]string{}
	for _, m := range b.Milestones {
		achieved[m.Code] = m.AchievedOn
	}
	// 第一个完整周为 2025-01-06 (周一) 至 2025-01-12
	if achieved[analytics.MilestoneFullWeekAllCategories] != "2025-01-12" {
		t.Fatalf("full week milestone = %q, achieved %v", achieved[analytics.MilestoneFullWeekAllCategories], achieved)
	}
	if b.Readiness.Coverage != 1 || b.Readiness.Score != 100 {
		t.Fatalf("readiness = %+v, want full coverage and score 100", b.Readiness)
	}
}
