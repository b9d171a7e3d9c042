package util

import (
	"strings"
	"time"
)

// DateOnly 取 t 在其自身时区下的日历日期，统一表示为当天 00:00 UTC
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateIn 取 t 在 loc 时区下的日历日期
func DateIn(t time.Time, loc *time.Location) time.Time {
	return DateOnly(t.In(loc))
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, strings.TrimSpace(s))
}

// FormatDate 格式化为 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// WeekStart 所在周的周一
func WeekStart(t time.Time) time.Time {
	d := DateOnly(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeekRange 所在周的周一至周日
func WeekRange(t time.Time) (time.Time, time.Time) {
	start := WeekStart(t)
	return start, start.AddDate(0, 0, 6)
}

// MonthRange 自然月首尾日期
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// DaysInMonth 当月天数
func DaysInMonth(year int, month time.Month) int {
	_, end := MonthRange(year, month)
	return end.Day()
}

// DaysBetween 两个日期之间相差的天数（b - a）
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// EachDay 按天遍历闭区间 [start, end]
func EachDay(start, end time.Time, fn func(day time.Time)) {
	for d := DateOnly(start); !d.After(DateOnly(end)); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}
