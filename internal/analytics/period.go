package analytics

import (
	"errors"
	"fmt"
	"time"

	"FitTracker/internal/model"
	"FitTracker/internal/pkg/util"
)

// ErrInvalidPeriod 周期参数不合法
var ErrInvalidPeriod = errors.New("invalid period")

// Period 闭区间 [Start, End] 的汇总周期
type Period struct {
	Type  model.PeriodType
	Start time.Time
	End   time.Time
}

func DailyPeriod(day time.Time) Period {
	d := util.DateOnly(day)
	return Period{Type: model.PeriodDaily, Start: d, End: d}
}

// WeeklyPeriod day 所在的周一至周日
func WeeklyPeriod(day time.Time) Period {
	start, end := util.WeekRange(day)
	return Period{Type: model.PeriodWeekly, Start: start, End: end}
}

func MonthlyPeriod(year int, month time.Month) Period {
	start, end := util.MonthRange(year, month)
	return Period{Type: model.PeriodMonthly, Start: start, End: end}
}

func CustomPeriod(start, end time.Time) (Period, error) {
	p := Period{Type: model.PeriodCustom, Start: util.DateOnly(start), End: util.DateOnly(end)}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// ResolvePeriod 按类型从参考日期推导周期，CUSTOM 使用显式起止
func ResolvePeriod(periodType model.PeriodType, ref, start, end time.Time) (Period, error) {
	switch periodType {
	case model.PeriodDaily:
		return DailyPeriod(ref), nil
	case model.PeriodWeekly:
		return WeeklyPeriod(ref), nil
	case model.PeriodMonthly:
		return MonthlyPeriod(ref.Year(), ref.Month()), nil
	case model.PeriodCustom:
		return CustomPeriod(start, end)
	default:
		return Period{}, fmt.Errorf("%w: unknown period type %q", ErrInvalidPeriod, periodType)
	}
}

// Validate 检查周期不变量
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return fmt.Errorf("%w: missing start or end", ErrInvalidPeriod)
	}
	if p.Start.After(p.End) {
		return fmt.Errorf("%w: start %s after end %s", ErrInvalidPeriod, util.FormatDate(p.Start), util.FormatDate(p.End))
	}
	switch p.Type {
	case model.PeriodDaily:
		if !p.Start.Equal(p.End) {
			return fmt.Errorf("%w: daily period must span one day", ErrInvalidPeriod)
		}
	case model.PeriodWeekly:
		if p.Start.Weekday() != time.Monday || p.Days() != 7 {
			return fmt.Errorf("%w: weekly period must be Monday..Sunday", ErrInvalidPeriod)
		}
	case model.PeriodMonthly:
		start, end := util.MonthRange(p.Start.Year(), p.Start.Month())
		if !p.Start.Equal(start) || !p.End.Equal(end) {
			return fmt.Errorf("%w: monthly period must span a calendar month", ErrInvalidPeriod)
		}
	case model.PeriodCustom:
	default:
		return fmt.Errorf("%w: unknown period type %q", ErrInvalidPeriod, p.Type)
	}
	return nil
}

// Days 周期包含的天数
func (p Period) Days() int {
	return util.DaysBetween(p.Start, p.End) + 1
}

func (p Period) Contains(day time.Time) bool {
	d := util.DateOnly(day)
	return !d.Before(p.Start) && !d.After(p.End)
}

func (p Period) String() string {
	return fmt.Sprintf("%s[%s..%s]", p.Type, util.FormatDate(p.Start), util.FormatDate(p.End))
}
