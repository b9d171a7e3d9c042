package service

import (
	"context"
	log "log/slog"
	"strconv"
	"time"

	"FitTracker/internal/analytics"
	"FitTracker/internal/pkg/consts"
	"FitTracker/internal/pkg/metrics"
	"FitTracker/internal/pkg/redis"
	"FitTracker/internal/pkg/util"
	"FitTracker/internal/repository"

	"github.com/goccy/go-json"
)

type DashboardService interface {
	GetEnhanced(ctx context.Context, userID uint64, ref time.Time) (*analytics.Bundle, error)
	Invalidate(ctx context.Context, userID uint64)
}

type dashboardServiceImpl struct {
	summaryRepo repository.DailySummaryRepo
	sessionRepo repository.WorkoutSessionRepo
	store       redis.Store
	loc         *time.Location
}

// NewDashboardService store 为 nil 时不缓存
func NewDashboardService(
	summaryRepo repository.DailySummaryRepo,
	sessionRepo repository.WorkoutSessionRepo,
	store redis.Store,
	loc *time.Location,
) DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardServiceImpl{
		summaryRepo: summaryRepo,
		sessionRepo: sessionRepo,
		store:       store,
		loc:         loc,
	}
}

// GetEnhanced 先查缓存，未命中则读取截至 ref 的全部历史并投影
func (s *dashboardServiceImpl) GetEnhanced(ctx context.Context, userID uint64, ref time.Time) (*analytics.Bundle, error) {
	if userID == 0 || ref.IsZero() {
		return nil, ErrParamInvalid
	}
	ref = util.DateOnly(ref)
	key := dashboardKey(userID, ref)

	if bundle := s.getCached(ctx, key); bundle != nil {
		metrics.DashboardCacheHits.Inc()
		return bundle, nil
	}
	metrics.DashboardCacheMisses.Inc()

	days, err := s.summaryRepo.ListUntil(ctx, userID, ref)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListUntil(ctx, userID, ref)
	if err != nil {
		return nil, err
	}

	bundle := analytics.Project(analytics.ProjectorInput{
		UserID:   userID,
		RefDate:  ref,
		Days:     days,
		Sessions: sessions,
		Location: s.loc,
	})
	s.cache(ctx, key, &bundle)
	return &bundle, nil
}

// Invalidate 删除该用户所有参考日期的缓存
func (s *dashboardServiceImpl) Invalidate(ctx context.Context, userID uint64) {
	if s.store == nil {
		return
	}
	if _, err := s.store.DeleteByPrefix(ctx, dashboardUserPrefix(userID)); err != nil {
		log.WarnContext(ctx, "invalidate dashboard cache failed", "user_id", userID, "err", err)
	}
}

func (s *dashboardServiceImpl) getCached(ctx context.Context, key string) *analytics.Bundle {
	if s.store == nil {
		return nil
	}
	value, err := s.store.GetValue(ctx, key)
	if err != nil || value == "" {
		return nil
	}
	var bundle analytics.Bundle
	if err := json.Unmarshal([]byte(value), &bundle); err != nil {
		return nil
	}
	return &bundle
}

func (s *dashboardServiceImpl) cache(ctx context.Context, key string, bundle *analytics.Bundle) {
	if s.store == nil {
		return
	}
	data, err := json.Marshal(bundle)
	if err != nil {
		return
	}

	// 计算距离本地午夜的时间，提前5分钟过期
	now := time.Now().In(s.loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, s.loc)
	expiration := time.Until(midnight) - time.Minute*5
	if expiration <= 0 {
		return
	}

	_ = s.store.SetWithExpiration(ctx, key, string(data), expiration)
}

func dashboardKey(userID uint64, date time.Time) string {
	return dashboardUserPrefix(userID) + util.FormatDate(date)
}

// dashboardUserPrefix 以冒号结尾，用户 1 不会匹配到用户 12
func dashboardUserPrefix(userID uint64) string {
	return consts.DashboardKey + strconv.FormatUint(userID, 10) + ":"
}
