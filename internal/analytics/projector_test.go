package analytics

import (
	"testing"

	"FitTracker/internal/model"
)

func TestProjectAssemblesBundle(t *testing.T) {
	ref := day(2025, 1, 12)
	var days []*model.DailyActivitySummary
	var sessions []*model.WorkoutSession
	for i := 0; i < 7; i++ {
		d := day(2025, 1, 6+i)
		days = append(days, fullDay(d))
		sessions = append(sessions, session(d, 7, 30, "RUN", rating(4), rating(7)))
	}
	// 参考日之后的数据不参与计算
	days = append(days, fullDay(day(2025, 1, 13)))
	sessions = append(sessions, session(day(2025, 1, 13), 7, 5, "RUN", rating(1), rating(10)))

	b := Project(ProjectorInput{UserID: 9, RefDate: ref, Days: days, Sessions: sessions})
	if b.UserID != 9 || b.ReferenceDate != "2025-01-12" {
		t.Fatalf("unexpected header %+v", b)
	}
	if b.SessionsAnalyzed != 7 || b.OverallEfficiency != 0.1 {
		t.Fatalf("efficiency %v over %d", b.OverallEfficiency, b.SessionsAnalyzed)
	}
	if b.OptimalDurationMinutes == nil || *b.OptimalDurationMinutes != 30 {
		t.Fatalf("optimal = %v", b.OptimalDurationMinutes)
	}
	if b.BestTimeOfDay.Status != TimeOfDayOK || *b.BestTimeOfDay.Hour != 7 {
		t.Fatalf("best time = %+v", b.BestTimeOfDay)
	}
	if b.CurrentStreak != 7 || b.LongestStreak != 7 {
		t.Fatalf("streaks %d/%d", b.CurrentStreak, b.LongestStreak)
	}
	if b.Readiness.Score < 0 || b.Readiness.Score > 100 || b.Readiness.Recency != 1 {
		t.Fatalf("readiness = %+v", b.Readiness)
	}
	if b.RevisionEffectiveness.Samples != 6 || b.RevisionEffectiveness.Overall != 0 {
		t.Fatalf("revision = %+v", b.RevisionEffectiveness)
	}
}

func TestProjectEmptyHistory(t *testing.T) {
	b := Project(ProjectorInput{UserID: 1, RefDate: day(2025, 1, 1)})
	if b.OptimalDurationMinutes != nil || b.BestTimeOfDay.Status != TimeOfDayInsufficientData {
		t.Fatalf("unexpected bundle %+v", b)
	}
	if b.Readiness.Score != 0 || b.NextMilestone == nil || len(b.Milestones) != 0 {
		t.Fatalf("unexpected bundle %+v", b)
	}
}
