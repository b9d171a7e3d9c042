package analytics

import (
	"time"

	"FitTracker/internal/model"
	"FitTracker/internal/pkg/util"
)

// MilestoneCode 里程碑标识，声明顺序即平分时的优先级
type MilestoneCode string

const (
	MilestoneFirst10Workouts       MilestoneCode = "FIRST_10_WORKOUTS"
	MilestoneMeals100              MilestoneCode = "MEALS_100"
	MilestoneStreak7               MilestoneCode = "STREAK_7"
	MilestoneStreak30              MilestoneCode = "STREAK_30"
	MilestoneFullWeekAllCategories MilestoneCode = "FULL_WEEK_ALL_CATEGORIES"
)

type milestoneDef struct {
	code      MilestoneCode
	threshold int
}

var milestoneDefs = []milestoneDef{
	{MilestoneFirst10Workouts, 10},
	{MilestoneMeals100, 100},
	{MilestoneStreak7, 7},
	{MilestoneStreak30, 30},
	{MilestoneFullWeekAllCategories, 7},
}

// Milestone 已达成的里程碑
type Milestone struct {
	Code       MilestoneCode `json:"code"`
	Threshold  int           `json:"threshold"`
	AchievedOn string        `json:"achievedOn"`
}

// NextMilestone 最接近达成的未完成里程碑
type NextMilestone struct {
	Code      MilestoneCode `json:"code"`
	Threshold int           `json:"threshold"`
	Current   int           `json:"current"`
	Remaining int           `json:"remaining"`
}

// MilestoneReport 里程碑与连续打卡统计
type MilestoneReport struct {
	Achieved      []Milestone    `json:"achieved"`
	Next          *NextMilestone `json:"next"`
	CurrentStreak int            `json:"currentStreak"`
	LongestStreak int            `json:"longestStreak"`
}

// ComputeMilestones 按时间顺序回放日汇总，记录每个阈值首次被跨越的日期
func ComputeMilestones(ref time.Time, days []*model.DailyActivitySummary) MilestoneReport {
	ref = util.DateOnly(ref)
	sorted := make([]*model.DailyActivitySummary, 0, len(days))
	for _, d := range days {
		if d != nil && !util.DateOnly(d.ActivityDate).After(ref) {
			sorted = append(sorted, d)
		}
	}
	SortDays(sorted)

	achieved := make(map[MilestoneCode]time.Time)
	mark := func(code MilestoneCode, day time.Time) {
		if _, ok := achieved[code]; !ok {
			achieved[code] = day
		}
	}

	workouts, meals := 0, 0
	streak, longest := 0, 0
	var prevActive time.Time
	for _, d := range sorted {
		day := util.DateOnly(d.ActivityDate)
		workouts += d.WorkoutsCompleted
		meals += d.MealsLogged
		if workouts >= 10 {
			mark(MilestoneFirst10Workouts, day)
		}
		if meals >= 100 {
			mark(MilestoneMeals100, day)
		}

		if d.HasActivity() {
			if !prevActive.IsZero() && util.DaysBetween(prevActive, day) == 1 {
				streak++
			} else {
				streak = 1
			}
			prevActive = day
			if streak > longest {
				longest = streak
			}
			if streak >= 7 {
				mark(MilestoneStreak7, day)
			}
			if streak >= 30 {
				mark(MilestoneStreak30, day)
			}
		}
	}

	byDate := indexByDate(sorted)
	if week, ok := firstFullWeek(sorted, byDate, ref); ok {
		mark(MilestoneFullWeekAllCategories, week.AddDate(0, 0, 6))
	}

	current := currentStreak(ref, byDate)
	report := MilestoneReport{
		Achieved:      make([]Milestone, 0, len(achieved)),
		CurrentStreak: current,
		LongestStreak: longest,
	}

	progress := map[MilestoneCode]int{
		MilestoneFirst10Workouts:       workouts,
		MilestoneMeals100:              meals,
		MilestoneStreak7:               current,
		MilestoneStreak30:              current,
		MilestoneFullWeekAllCategories: fullDaysThisWeek(ref, byDate),
	}

	bestFraction := 2.0
	for _, def := range milestoneDefs {
		if day, ok := achieved[def.code]; ok {
			report.Achieved = append(report.Achieved, Milestone{
				Code:       def.code,
				Threshold:  def.threshold,
				AchievedOn: util.FormatDate(day),
			})
			continue
		}
		cur := progress[def.code]
		if cur > def.threshold {
			cur = def.threshold
		}
		remaining := def.threshold - cur
		fraction := float64(remaining) / float64(def.threshold)
		if fraction < bestFraction {
			bestFraction = fraction
			report.Next = &NextMilestone{
				Code:      def.code,
				Threshold: def.threshold,
				Current:   cur,
				Remaining: remaining,
			}
		}
	}
	return report
}

// firstFullWeek 第一个周一至周日每天四类全部达成的完整周（周日不晚于 ref）
func firstFullWeek(sorted []*model.DailyActivitySummary, byDate map[time.Time]*model.DailyActivitySummary, ref time.Time) (time.Time, bool) {
	checked := make(map[time.Time]bool)
	for _, d := range sorted {
		if !AllCategoriesMet(d) {
			continue
		}
		monday := util.WeekStart(d.ActivityDate)
		if checked[monday] {
			continue
		}
		checked[monday] = true
		if monday.AddDate(0, 0, 6).After(ref) {
			continue
		}
		full := true
		for i := 0; i < 7 && full; i++ {
			full = AllCategoriesMet(byDate[monday.AddDate(0, 0, i)])
		}
		if full {
			return monday, true
		}
	}
	return time.Time{}, false
}

// currentStreak 截至 ref 的连续活跃天数；ref 当天尚无记录时从前一天起算
func currentStreak(ref time.Time, byDate map[time.Time]*model.DailyActivitySummary) int {
	day := ref
	if d := byDate[day]; d == nil || !d.HasActivity() {
		day = day.AddDate(0, 0, -1)
	}
	n := 0
	for {
		d := byDate[day]
		if d == nil || !d.HasActivity() {
			return n
		}
		n++
		day = day.AddDate(0, 0, -1)
	}
}

// fullDaysThisWeek 本周一到 ref 连续四类全达成的天数，中途断开则本周无望，返回 0
func fullDaysThisWeek(ref time.Time, byDate map[time.Time]*model.DailyActivitySummary) int {
	n := 0
	for day := util.WeekStart(ref); !day.After(ref); day = day.AddDate(0, 0, 1) {
		if !AllCategoriesMet(byDate[day]) {
			// ref 当天还没结束，不算断开
			if day.Equal(ref) {
				return n
			}
			return 0
		}
		n++
	}
	return n
}

func indexByDate(days []*model.DailyActivitySummary) map[time.Time]*model.DailyActivitySummary {
	m := make(map[time.Time]*model.DailyActivitySummary, len(days))
	for _, d := range days {
		if d != nil {
			m[util.DateOnly(d.ActivityDate)] = d
		}
	}
	return m
}
