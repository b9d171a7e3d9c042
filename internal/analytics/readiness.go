package analytics

import (
	"math"
	"time"

	"FitTracker/internal/model"
	"FitTracker/internal/pkg/util"
)

const (
	// ReadinessWindowDays readiness 各分量的统计窗口
	ReadinessWindowDays = 30

	weightCoverage    = 0.40
	weightRecency     = 0.20
	weightConfidence  = 0.25
	weightConsistency = 0.15

	// 四类每日目标的达标阈值
	ActiveMinutesTarget  = 30
	CaloriesBurnedTarget = 300
	categoryCount        = 4

	weakRating   = 4
	strongRating = 7
	velocityDays = 28
)

// Readiness 综合准备度，Score ∈ [0, 100]，各分量 ∈ [0, 1]
type Readiness struct {
	Score       float64 `json:"score"`
	Coverage    float64 `json:"coverage"`
	Recency     float64 `json:"recency"`
	Confidence  float64 `json:"confidence"`
	Consistency float64 `json:"consistency"`
}

// CategoriesMet 当天达成的类别数：饮食、训练、活动分钟、消耗热量；只用事件能写入的字段
func CategoriesMet(d *model.DailyActivitySummary) int {
	if d == nil {
		return 0
	}
	n := 0
	if d.MealsLogged > 0 {
		n++
	}
	if d.WorkoutsCompleted > 0 {
		n++
	}
	if d.ActiveMinutes >= ActiveMinutesTarget {
		n++
	}
	if d.TotalCaloriesBurned >= CaloriesBurnedTarget {
		n++
	}
	return n
}

// AllCategoriesMet 四类全部达成
func AllCategoriesMet(d *model.DailyActivitySummary) bool {
	return CategoriesMet(d) == categoryCount
}

// ComputeReadiness 以 ref 为窗口末日（含）的 30 天准备度
func ComputeReadiness(ref time.Time, byDate map[time.Time]*model.DailyActivitySummary, sessions []*model.WorkoutSession) Readiness {
	ref = util.DateOnly(ref)
	windowStart := ref.AddDate(0, 0, -(ReadinessWindowDays - 1))

	coverageSum := 0.0
	activeDays := 0
	util.EachDay(windowStart, ref, func(day time.Time) {
		d := byDate[day]
		coverageSum += float64(CategoriesMet(d)) / categoryCount
		if d != nil && d.HasActivity() {
			activeDays++
		}
	})

	r := Readiness{
		Coverage:    clamp01(coverageSum / ReadinessWindowDays),
		Recency:     recency(ref, byDate),
		Confidence:  confidence(windowStart, ref, sessions),
		Consistency: clamp01(float64(activeDays) / ReadinessWindowDays),
	}
	score := 100 * (weightCoverage*r.Coverage + weightRecency*r.Recency +
		weightConfidence*r.Confidence + weightConsistency*r.Consistency)
	r.Score = math.Round(math.Min(100, math.Max(0, score))*100) / 100
	r.Coverage = round4(r.Coverage)
	r.Recency = round4(r.Recency)
	r.Confidence = round4(r.Confidence)
	r.Consistency = round4(r.Consistency)
	return r
}

// recency 1 - 距最近活跃日天数/30，无活跃记录为 0
func recency(ref time.Time, byDate map[time.Time]*model.DailyActivitySummary) float64 {
	var last time.Time
	for day, d := range byDate {
		if day.After(ref) || !d.HasActivity() {
			continue
		}
		if day.After(last) {
			last = day
		}
	}
	if last.IsZero() {
		return 0
	}
	since := util.DaysBetween(last, ref)
	return clamp01(1 - float64(since)/ReadinessWindowDays)
}

// confidence 窗口内各训练类型最近一次 ratingAfter/10 的均值
func confidence(windowStart, ref time.Time, sessions []*model.WorkoutSession) float64 {
	latest := make(map[string]int)
	for _, s := range sortedRated(sessions) {
		if s.WorkoutDate.Before(windowStart) || s.WorkoutDate.After(ref) {
			continue
		}
		latest[s.WorkoutType] = *s.RatingAfter
	}
	if len(latest) == 0 {
		return 0
	}
	sum := 0.0
	for _, rating := range latest {
		sum += float64(rating) / 10
	}
	return clamp01(sum / float64(len(latest)))
}

// LearningVelocity 近 4 周内由弱（<=4）转强（>=7）的训练类型数 / 4
func LearningVelocity(ref time.Time, sessions []*model.WorkoutSession) float64 {
	ref = util.DateOnly(ref)
	windowStart := ref.AddDate(0, 0, -(velocityDays - 1))

	type track struct {
		baseline *model.WorkoutSession
		current  *model.WorkoutSession
	}
	tracks := make(map[string]*track)
	for _, s := range sortedRated(sessions) {
		if s.WorkoutDate.After(ref) {
			continue
		}
		t := tracks[s.WorkoutType]
		if t == nil {
			t = &track{}
			tracks[s.WorkoutType] = t
		}
		if s.WorkoutDate.Before(windowStart) {
			t.baseline = s
			continue
		}
		// 窗口前无记录时以窗口内第一次作为基线
		if t.baseline == nil {
			t.baseline = s
			continue
		}
		t.current = s
	}

	moved := 0
	for _, t := range tracks {
		if t.baseline == nil || t.current == nil {
			continue
		}
		if *t.baseline.RatingAfter <= weakRating && *t.current.RatingAfter >= strongRating {
			moved++
		}
	}
	return float64(moved) / (velocityDays / 7)
}
