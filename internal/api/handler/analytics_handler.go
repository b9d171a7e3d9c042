package handler

import (
	"FitTracker/internal/analytics"
	"FitTracker/internal/api/dto"
	"FitTracker/internal/model"
	"FitTracker/internal/pkg/response"
	"FitTracker/internal/pkg/util"
	"FitTracker/internal/service"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	summarySvc   service.DailySummaryService
	rollupSvc    service.RollupService
	dashboardSvc service.DashboardService
	loc          *time.Location
	now          func() time.Time
}

func NewAnalyticsHandler(
	summarySvc service.DailySummaryService,
	rollupSvc service.RollupService,
	dashboardSvc service.DashboardService,
	loc *time.Location,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		summarySvc:   summarySvc,
		rollupSvc:    rollupSvc,
		dashboardSvc: dashboardSvc,
		loc:          loc,
		now:          time.Now,
	}
}

// today 分析时区下的今天
func (s *AnalyticsHandler) today() time.Time {
	return util.DateIn(s.now(), s.loc)
}

// GetDaily 单日汇总，date 缺省为今天
func (s *AnalyticsHandler) GetDaily(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	date, err := dateOrDefault(c.Query("date"), s.today())
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := s.summarySvc.GetDaily(c.Request.Context(), userID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := toDailySummaryDTO(summary)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// GetDailyRange [startDate, endDate] 内的日汇总
func (s *AnalyticsHandler) GetDailyRange(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start, err := util.ParseDate(c.Query("startDate"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	end, err := util.ParseDate(c.Query("endDate"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	days, err := s.summarySvc.ListRange(c.Request.Context(), userID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	out := &dto.DailyRangeDTO{
		UserID:    userID,
		StartDate: util.FormatDate(start),
		EndDate:   util.FormatDate(end),
		Days:      make([]*dto.DailySummaryDTO, 0, len(days)),
	}
	for _, d := range days {
		item, err := toDailySummaryDTO(d)
		if err != nil {
			response.Error(c, err)
			return
		}
		out.Days = append(out.Days, item)
	}
	response.Success(c, out)
}

// GetWorkoutAnalytics 训练周期汇总，未物化时现算并落库
func (s *AnalyticsHandler) GetWorkoutAnalytics(c *gin.Context) {
	userID, p, refresh, ok := s.bindPeriod(c)
	if !ok {
		return
	}
	wa, err := s.rollupSvc.GetWorkoutAnalytics(c.Request.Context(), userID, p, refresh)
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := toWorkoutAnalyticsDTO(wa)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// GetNutritionAnalytics 饮食周期汇总
func (s *AnalyticsHandler) GetNutritionAnalytics(c *gin.Context) {
	userID, p, refresh, ok := s.bindPeriod(c)
	if !ok {
		return
	}
	na, err := s.rollupSvc.GetNutritionAnalytics(c.Request.Context(), userID, p, refresh)
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := toNutritionAnalyticsDTO(na)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// GetMonthlyReport 月报，year / month 缺省为当月
func (s *AnalyticsHandler) GetMonthlyReport(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.MonthlyQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}
	today := s.today()
	if req.Year == 0 {
		req.Year = today.Year()
	}
	if req.Month == 0 {
		req.Month = int(today.Month())
	}

	report, err := s.rollupSvc.GetMonthlyReport(c.Request.Context(), userID, req.Year, time.Month(req.Month), req.Refresh)
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := toMonthlyReportDTO(report)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// GetEnhanced 增强分析，date 缺省为今天
func (s *AnalyticsHandler) GetEnhanced(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	ref, err := dateOrDefault(c.Query("date"), s.today())
	if err != nil {
		response.Error(c, err)
		return
	}

	bundle, err := s.dashboardSvc.GetEnhanced(c.Request.Context(), userID, ref)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, bundle)
}

// bindPeriod 解析周期参数；period 缺省 WEEKLY，date 缺省今天
func (s *AnalyticsHandler) bindPeriod(c *gin.Context) (uint64, analytics.Period, bool, bool) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return 0, analytics.Period{}, false, false
	}
	var req dto.PeriodQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return 0, analytics.Period{}, false, false
	}
	req.Period = strings.ToUpper(strings.TrimSpace(req.Period))
	if req.Period == "" {
		req.Period = string(model.PeriodWeekly)
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return 0, analytics.Period{}, false, false
	}

	ref, start, end, err := periodDates(&req, s.today())
	if err != nil {
		response.Error(c, err)
		return 0, analytics.Period{}, false, false
	}
	p, err := analytics.ResolvePeriod(model.PeriodType(req.Period), ref, start, end)
	if err != nil {
		response.Error(c, service.ErrPeriodInvalid)
		return 0, analytics.Period{}, false, false
	}
	return userID, p, req.Refresh, true
}
