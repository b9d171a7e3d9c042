package analytics

import (
	"sort"
	"time"

	"FitTracker/internal/model"
)

// DurationBuckets 最佳时长候选（分钟），升序
var DurationBuckets = []int{15, 30, 45, 60, 90}

// MinSessionsPerHour 计算最佳时段所需的最少样本数
const MinSessionsPerHour = 3

// SessionEfficiency (ratingAfter - ratingBefore) / duration，截断到 [0, 1]
// 缺少自评或时长非正时 ok 为 false
func SessionEfficiency(s *model.WorkoutSession) (float64, bool) {
	if s == nil || s.RatingBefore == nil || s.RatingAfter == nil || s.DurationMinutes <= 0 {
		return 0, false
	}
	eff := float64(*s.RatingAfter-*s.RatingBefore) / float64(s.DurationMinutes)
	return clamp01(eff), true
}

// OverallEfficiency 所有可计算会话效率的均值
func OverallEfficiency(sessions []*model.WorkoutSession) (float64, int) {
	sum, n := 0.0, 0
	for _, s := range sessions {
		if eff, ok := SessionEfficiency(s); ok {
			sum += eff
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}

// NearestBucket 最接近的时长档位，等距时取较短档
func NearestBucket(minutes int) int {
	best := DurationBuckets[0]
	bestDist := absInt(minutes - best)
	for _, b := range DurationBuckets[1:] {
		if d := absInt(minutes - b); d < bestDist {
			best, bestDist = b, d
		}
	}
	return best
}

// BucketStat 某时长档的效率均值
type BucketStat struct {
	DurationMinutes int     `json:"durationMinutes"`
	Sessions        int     `json:"sessions"`
	MeanEfficiency  float64 `json:"meanEfficiency"`
}

// DurationEfficiency 按档位统计效率，返回有样本的档位（升序）及最佳档位
func DurationEfficiency(sessions []*model.WorkoutSession) ([]BucketStat, *int) {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, s := range sessions {
		eff, ok := SessionEfficiency(s)
		if !ok {
			continue
		}
		b := NearestBucket(s.DurationMinutes)
		sums[b] += eff
		counts[b]++
	}

	stats := make([]BucketStat, 0, len(counts))
	var optimal *int
	bestMean := -1.0
	for _, b := range DurationBuckets {
		if counts[b] == 0 {
			continue
		}
		mean := sums[b] / float64(counts[b])
		stats = append(stats, BucketStat{DurationMinutes: b, Sessions: counts[b], MeanEfficiency: round4(mean)})
		// 严格大于，平分时保留较短档
		if mean > bestMean {
			bestMean = mean
			bucket := b
			optimal = &bucket
		}
	}
	return stats, optimal
}

const (
	TimeOfDayOK               = "OK"
	TimeOfDayInsufficientData = "INSUFFICIENT_DATA"
)

// TimeOfDay 最佳训练时段
type TimeOfDay struct {
	Status         string  `json:"status"`
	Hour           *int    `json:"hour,omitempty"`
	Sessions       int     `json:"sessions"`
	MeanEfficiency float64 `json:"meanEfficiency"`
}

// BestTimeOfDay 效率均值最高且样本数 >= MinSessionsPerHour 的小时，平分取较早
func BestTimeOfDay(sessions []*model.WorkoutSession, loc *time.Location) TimeOfDay {
	if loc == nil {
		loc = time.UTC
	}
	var sums [24]float64
	var counts [24]int
	for _, s := range sessions {
		if s == nil || s.StartedAt == nil {
			continue
		}
		eff, ok := SessionEfficiency(s)
		if !ok {
			continue
		}
		h := s.StartedAt.In(loc).Hour()
		sums[h] += eff
		counts[h]++
	}

	res := TimeOfDay{Status: TimeOfDayInsufficientData}
	bestMean := -1.0
	for h := 0; h < 24; h++ {
		if counts[h] < MinSessionsPerHour {
			continue
		}
		mean := sums[h] / float64(counts[h])
		if mean > bestMean {
			bestMean = mean
			hour := h
			res = TimeOfDay{Status: TimeOfDayOK, Hour: &hour, Sessions: counts[h], MeanEfficiency: round4(mean)}
		}
	}
	return res
}

// RevisionEffectiveness 同一训练类型相邻两次自评的提升幅度
type RevisionEffectiveness struct {
	Overall float64            `json:"overall"`
	ByType  map[string]float64 `json:"byType"`
	Samples int                `json:"samples"`
}

// ComputeRevisionEffectiveness 对同类型连续两次训练取 (后一次 ratingAfter - 前一次 ratingAfter) / 10 的均值
func ComputeRevisionEffectiveness(sessions []*model.WorkoutSession) RevisionEffectiveness {
	byType := make(map[string][]*model.WorkoutSession)
	for _, s := range sortedRated(sessions) {
		byType[s.WorkoutType] = append(byType[s.WorkoutType], s)
	}

	res := RevisionEffectiveness{ByType: make(map[string]float64)}
	total := 0.0
	for workoutType, list := range byType {
		if len(list) < 2 {
			continue
		}
		sum := 0.0
		for i := 1; i < len(list); i++ {
			sum += float64(*list[i].RatingAfter-*list[i-1].RatingAfter) / 10
		}
		pairs := len(list) - 1
		res.ByType[workoutType] = round4(sum / float64(pairs))
		total += sum
		res.Samples += pairs
	}
	if res.Samples > 0 {
		res.Overall = round4(total / float64(res.Samples))
	}
	return res
}

// sortedRated 带 ratingAfter 的会话，按时间升序
func sortedRated(sessions []*model.WorkoutSession) []*model.WorkoutSession {
	rated := make([]*model.WorkoutSession, 0, len(sessions))
	for _, s := range sessions {
		if s != nil && s.RatingAfter != nil {
			rated = append(rated, s)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return sessionBefore(rated[i], rated[j])
	})
	return rated
}

func sessionBefore(a, b *model.WorkoutSession) bool {
	if !a.WorkoutDate.Equal(b.WorkoutDate) {
		return a.WorkoutDate.Before(b.WorkoutDate)
	}
	if a.StartedAt != nil && b.StartedAt != nil && !a.StartedAt.Equal(*b.StartedAt) {
		return a.StartedAt.Before(*b.StartedAt)
	}
	return a.ID < b.ID
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
