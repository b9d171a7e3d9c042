package handler

import (
	"FitTracker/internal/api/dto"
	"FitTracker/internal/model"
	"FitTracker/internal/pkg/response"
	"FitTracker/internal/pkg/util"
	"FitTracker/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type GoalHandler struct {
	goalSvc service.GoalService
	loc     *time.Location
	now     func() time.Time
}

func NewGoalHandler(goalSvc service.GoalService, loc *time.Location) *GoalHandler {
	return &GoalHandler{
		goalSvc: goalSvc,
		loc:     loc,
		now:     time.Now,
	}
}

// CreateGoal 新建目标
func (s *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreateGoalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	goal := &model.UserGoal{
		UserID:      userID,
		GoalType:    model.GoalType(req.GoalType),
		TargetValue: decimal.NewFromFloat(req.TargetValue).Round(2),
	}
	if err := s.goalSvc.CreateGoal(c.Request.Context(), goal); err != nil {
		response.Error(c, err)
		return
	}
	out, err := toGoalDTO(goal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// ListGoals 用户启用中的目标
func (s *GoalHandler) ListGoals(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	goals, err := s.goalSvc.ListGoals(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]*dto.GoalDTO, 0, len(goals))
	for _, g := range goals {
		item, err := toGoalDTO(g)
		if err != nil {
			response.Error(c, err)
			return
		}
		out = append(out, item)
	}
	response.Success(c, out)
}

// DeleteGoal 删除目标及其进度记录
func (s *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	goalID := util.StrToUint64(c.Param("goal_id"))
	if goalID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.goalSvc.DeleteGoal(c.Request.Context(), userID, goalID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetProgress 目标在 date 当天的进度，date 缺省为今天
func (s *GoalHandler) GetProgress(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	date, err := dateOrDefault(c.Query("date"), util.DateIn(s.now(), s.loc))
	if err != nil {
		response.Error(c, err)
		return
	}

	progress, err := s.goalSvc.GetProgress(c.Request.Context(), userID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]*dto.GoalProgressDTO, 0, len(progress))
	for _, p := range progress {
		item, err := toGoalProgressDTO(p)
		if err != nil {
			response.Error(c, err)
			return
		}
		out = append(out, item)
	}
	response.Success(c, out)
}
