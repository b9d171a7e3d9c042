package source

import (
	"FitTracker/internal/api/config"
	"FitTracker/internal/model"
	"FitTracker/internal/pkg/consts"
	"FitTracker/internal/pkg/metrics"
	"FitTracker/internal/pkg/util"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// ErrUnavailable 源服务不可达或返回非 2xx
var ErrUnavailable = errors.New("source service unavailable")

// Meal 饮食服务 range 接口的单条记录，只解析需要的字段
type Meal struct {
	ID       uint64 `json:"id"`
	MealType string `json:"mealType"`
	MealDate string `json:"mealDate"`
}

// Workout 训练服务 range 接口的单条记录
type Workout struct {
	ID              uint64 `json:"id"`
	WorkoutType     string `json:"workoutType"`
	WorkoutDate     string `json:"workoutDate"`
	DurationMinutes int    `json:"durationMinutes"`
}

// endpoint 单个源服务：http 客户端 + 熔断器 + 限流
type endpoint struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker[*resty.Response]
	limiter *rate.Limiter
}

// Client 读取饮食 / 训练源服务的区间数据
type Client struct {
	nutrition *endpoint
	workout   *endpoint
}

func NewClient(cfg config.SourceConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		nutrition: newEndpoint(consts.SourceNutrition, cfg.NutritionBaseURL, timeout, cfg),
		workout:   newEndpoint(consts.SourceWorkout, cfg.WorkoutBaseURL, timeout, cfg),
	}
}

func newEndpoint(name, baseURL string, timeout time.Duration, cfg config.SourceConfig) *endpoint {
	threshold := cfg.BreakerFailures
	if threshold == 0 {
		threshold = 5
	}
	openFor := time.Duration(cfg.BreakerOpenSeconds) * time.Second
	if openFor <= 0 {
		openFor = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	breaker := gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				metrics.SourceBreakerOpened.WithLabelValues(name).Inc()
			}
			log.Warn("source breaker state changed", "source", name, "from", from.String(), "to", to.String())
		},
	})

	return &endpoint{
		http:    newRestyClient(baseURL, timeout),
		breaker: breaker,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func newRestyClient(baseURL string, timeout time.Duration) *resty.Client {
	return resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
}

// ListMeals GET /meals/user/{id}/range?startDate=&endDate=
func (c *Client) ListMeals(ctx context.Context, userID uint64, start, end time.Time) ([]Meal, error) {
	meals := make([]Meal, 0)
	if err := getRange(ctx, c.nutrition, "/meals/user/{id}/range", userID, start, end, &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

// ListWorkouts GET /workouts/user/{id}/range?startDate=&endDate=
func (c *Client) ListWorkouts(ctx context.Context, userID uint64, start, end time.Time) ([]Workout, error) {
	workouts := make([]Workout, 0)
	if err := getRange(ctx, c.workout, "/workouts/user/{id}/range", userID, start, end, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// MealTypeCounts 按餐次统计，未标注餐次的记为 UNSPECIFIED
func (c *Client) MealTypeCounts(ctx context.Context, userID uint64, start, end time.Time) (map[string]int, error) {
	meals, err := c.ListMeals(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, m := range meals {
		counts[typeOrUnspecified(m.MealType)]++
	}
	return counts, nil
}

// WorkoutTypeStats 按训练类型统计次数与分钟数
func (c *Client) WorkoutTypeStats(ctx context.Context, userID uint64, start, end time.Time) (map[string]model.CategoryStat, error) {
	workouts, err := c.ListWorkouts(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	stats := make(map[string]model.CategoryStat)
	for _, w := range workouts {
		key := typeOrUnspecified(w.WorkoutType)
		stat := stats[key]
		stat.Count++
		stat.Minutes += w.DurationMinutes
		stats[key] = stat
	}
	return stats, nil
}

func getRange(ctx context.Context, ep *endpoint, path string, userID uint64, start, end time.Time, out any) error {
	if err := ep.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := ep.breaker.Execute(func() (*resty.Response, error) {
		resp, err := ep.http.R().
			SetContext(ctx).
			SetPathParam("id", strconv.FormatUint(userID, 10)).
			SetQueryParam("startDate", util.FormatDate(start)).
			SetQueryParam("endDate", util.FormatDate(end)).
			SetResult(out).
			Get(path)
		if err != nil {
			return nil, err
		}
		// 4xx 不计入熔断，5xx 计入
		if resp.StatusCode() >= 500 {
			return resp, fmt.Errorf("%s returned %d", path, resp.StatusCode())
		}
		return resp, nil
	})
	if err != nil {
		// 熔断打开时直接失败，不再请求源服务
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s returned %d", ErrUnavailable, path, resp.StatusCode())
	}
	return nil
}

func typeOrUnspecified(t string) string {
	t = strings.ToUpper(strings.TrimSpace(t))
	if t == "" {
		return "UNSPECIFIED"
	}
	return t
}
