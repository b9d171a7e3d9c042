package service

import (
	"errors"
)

const (
	BadRequest          = 400
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid    = errors.New("参数错误")
	ErrPeriodInvalid   = errors.New("统计周期不合法")
	ErrRangeTooLarge   = errors.New("查询区间过大")
	ErrSummaryNotFound = errors.New("当日无活动汇总")
	ErrGoalNotFound    = errors.New("目标不存在")
	UnExpectedError    = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:    BadRequest,
	ErrPeriodInvalid:   BadRequest,
	ErrRangeTooLarge:   BadRequest,
	ErrSummaryNotFound: NotFound,
	ErrGoalNotFound:    NotFound,
	UnExpectedError:    InternalServerError,
}
