package handler

import (
	"FitTracker/internal/api/dto"
	"FitTracker/internal/pkg/util"
	"FitTracker/internal/service"
	"time"

	"github.com/gin-gonic/gin"
)

// userIDParam 路径中的 :user_id
func userIDParam(c *gin.Context) (uint64, error) {
	userID := util.StrToUint64(c.Param("user_id"))
	if userID == 0 {
		return 0, service.ErrParamInvalid
	}
	return userID, nil
}

// dateOrDefault 空串返回 def
func dateOrDefault(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	d, err := util.ParseDate(s)
	if err != nil {
		return time.Time{}, service.ErrParamInvalid
	}
	return d, nil
}

// periodDates 解析周期查询的参考日与自定义区间，date 缺省为 today
func periodDates(req *dto.PeriodQuery, today time.Time) (ref, start, end time.Time, err error) {
	if ref, err = dateOrDefault(req.Date, today); err != nil {
		return
	}
	if start, err = dateOrDefault(req.StartDate, time.Time{}); err != nil {
		return
	}
	end, err = dateOrDefault(req.EndDate, time.Time{})
	return
}
