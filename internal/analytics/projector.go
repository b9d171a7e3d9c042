package analytics

import (
	"math"
	"time"

	"FitTracker/internal/model"
	"FitTracker/internal/pkg/util"
)

// ProjectorInput 投影所需的全部数据，Days 与 Sessions 只需覆盖到 RefDate
type ProjectorInput struct {
	UserID   uint64
	RefDate  time.Time
	Days     []*model.DailyActivitySummary
	Sessions []*model.WorkoutSession
	// Location 用于把 startedAt 换算成本地小时，nil 视为 UTC
	Location *time.Location
}

// Bundle 增强分析结果
type Bundle struct {
	UserID                 uint64                `json:"userId"`
	ReferenceDate          string                `json:"referenceDate"`
	OverallEfficiency      float64               `json:"overallEfficiency"`
	SessionsAnalyzed       int                   `json:"sessionsAnalyzed"`
	OptimalDurationMinutes *int                  `json:"optimalDurationMinutes"`
	DurationEfficiency     []BucketStat          `json:"durationEfficiency"`
	BestTimeOfDay          TimeOfDay             `json:"bestTimeOfDay"`
	RevisionEffectiveness  RevisionEffectiveness `json:"revisionEffectiveness"`
	Readiness              Readiness             `json:"readiness"`
	LearningVelocity       float64               `json:"learningVelocity"`
	Milestones             []Milestone           `json:"milestones"`
	NextMilestone          *NextMilestone        `json:"nextMilestone"`
	CurrentStreak          int                   `json:"currentStreak"`
	LongestStreak          int                   `json:"longestStreak"`
}

// Project 纯函数，不读写任何存储；晚于 RefDate 的数据会被忽略
func Project(in ProjectorInput) Bundle {
	ref := util.DateOnly(in.RefDate)

	days := make([]*model.DailyActivitySummary, 0, len(in.Days))
	for _, d := range in.Days {
		if d != nil && !util.DateOnly(d.ActivityDate).After(ref) {
			days = append(days, d)
		}
	}
	sessions := make([]*model.WorkoutSession, 0, len(in.Sessions))
	for _, s := range in.Sessions {
		if s != nil && !util.DateOnly(s.WorkoutDate).After(ref) {
			sessions = append(sessions, s)
		}
	}

	overall, n := OverallEfficiency(sessions)
	buckets, optimal := DurationEfficiency(sessions)
	milestones := ComputeMilestones(ref, days)

	return Bundle{
		UserID:                 in.UserID,
		ReferenceDate:          util.FormatDate(ref),
		OverallEfficiency:      round4(overall),
		SessionsAnalyzed:       n,
		OptimalDurationMinutes: optimal,
		DurationEfficiency:     buckets,
		BestTimeOfDay:          BestTimeOfDay(sessions, in.Location),
		RevisionEffectiveness:  ComputeRevisionEffectiveness(sessions),
		Readiness:              ComputeReadiness(ref, indexByDate(days), sessions),
		LearningVelocity:       round4(LearningVelocity(ref, sessions)),
		Milestones:             milestones.Achieved,
		NextMilestone:          milestones.Next,
		CurrentStreak:          milestones.CurrentStreak,
		LongestStreak:          milestones.LongestStreak,
	}
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
