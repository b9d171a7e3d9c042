package util

import (
	"strings"
	"testing"
)

type rangeReq struct {
	StartDate string `form:"startDate" validate:"required,datetime=2006-01-02"`
	Limit     int    `json:"limit" validate:"gte=1"`
}

func TestValidateDTOReportsRequestFieldName(t *testing.T) {
	err := ValidateDTO(&rangeReq{StartDate: "2025/01/01", Limit: 1})
	if err == nil || !strings.Contains(err.Error(), "[startDate]") || !strings.Contains(err.Error(), "datetime=2006-01-02") {
		t.Fatalf("unexpected error %v", err)
	}

	err = ValidateDTO(&rangeReq{StartDate: "2025-01-01"})
	if err == nil || !strings.Contains(err.Error(), "[limit]") {
		t.Fatalf("unexpected error %v", err)
	}

	if err = ValidateDTO(&rangeReq{StartDate: "2025-01-01", Limit: 3}); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}
