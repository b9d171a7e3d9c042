package api

import (
	"FitTracker/internal/api/handler"
	"FitTracker/internal/event"
	"FitTracker/internal/pkg/database"
	"FitTracker/internal/repository"
	"FitTracker/internal/service"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) (*gin.Engine, service.DailySummaryService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	summaryRepo := repository.NewDailySummaryRepo(db)
	summarySvc := service.NewDailySummaryService(summaryRepo, nil)
	rollupSvc := service.NewRollupService(summaryRepo, repository.NewPeriodAnalyticsRepo(db), nil)
	dashboardSvc := service.NewDashboardService(summaryRepo, repository.NewWorkoutSessionRepo(db), nil, time.UTC)
	goalSvc := service.NewGoalService(repository.NewGoalRepo(db), summaryRepo)

	r := SetupRouter(&HandlersGroup{
		AnalyticsHandler: handler.NewAnalyticsHandler(summarySvc, rollupSvc, dashboardSvc, time.UTC),
		GoalHandler:      handler.NewGoalHandler(goalSvc, time.UTC),
	})
	return r, summarySvc
}

func seed(t *testing.T, svc service.DailySummaryService) {
	t.Helper()
	events := []event.Event{
		&event.MealCreated{
			Envelope:      event.Envelope{EventID: uuid.NewString(), EventTimestamp: time.Now().UTC(), UserID: 7},
			MealDate:      event.MustDate("2025-01-06"),
			TotalCalories: 600,
			TotalProteinG: decimal.NewFromInt(30),
			TotalCarbsG:   decimal.NewFromInt(50),
			TotalFatG:     decimal.RequireFromString("20.5"),
		},
		&event.WorkoutCompleted{
			Envelope:        event.Envelope{EventID: uuid.NewString(), EventTimestamp: time.Now().UTC(), UserID: 7},
			WorkoutDate:     event.MustDate("2025-01-06"),
			DurationMinutes: 45,
			CaloriesBurned:  300,
			WorkoutType:     "STRENGTH",
		},
		&event.WorkoutCompleted{
			Envelope:        event.Envelope{EventID: uuid.NewString(), EventTimestamp: time.Now().UTC(), UserID: 7},
			WorkoutDate:     event.MustDate("2025-01-08"),
			DurationMinutes: 30,
			CaloriesBurned:  200,
			WorkoutType:     "RUNNING",
		},
	}
	for _, e := range events {
		if _, err := svc.Apply(context.Background(), e); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
}

func do(t *testing.T, r http.Handler, method, path, body string) envelope {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: http status %d", method, path, w.Code)
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
	}
	return resp
}

func TestDailyEndpoints(t *testing.T) {
	r, svc := newTestRouter(t)
	seed(t, svc)

	resp := do(t, r, http.MethodGet, "/api/analytics/users/7/daily?date=2025-01-06", "")
	if resp.Code != 200 {
		t.Fatalf("code = %d (%s)", resp.Code, resp.Message)
	}
	var day struct {
		ActivityDate          string  `json:"activityDate"`
		TotalCaloriesConsumed int     `json:"totalCaloriesConsumed"`
		NetCalories           int     `json:"netCalories"`
		FatG                  float64 `json:"fatG"`
	}
	_ = json.Unmarshal(resp.Data, &day)
	if day.ActivityDate != "2025-01-06" || day.TotalCaloriesConsumed != 600 || day.NetCalories != 300 || day.FatG != 20.5 {
		t.Fatalf("unexpected day: %+v", day)
	}

	if resp := do(t, r, http.MethodGet, "/api/analytics/users/7/daily?date=2025-01-07", ""); resp.Code != 404 {
		t.Fatalf("missing day code = %d", resp.Code)
	}
	if resp := do(t, r, http.MethodGet, "/api/analytics/users/abc/daily", ""); resp.Code != 400 {
		t.Fatalf("bad user id code = %d", resp.Code)
	}

	resp = do(t, r, http.MethodGet, "/api/analytics/users/7/daily/range?startDate=2025-01-01&endDate=2025-01-31", "")
	var rng struct {
		Days []struct {
			ActivityDate string `json:"activityDate"`
		} `json:"days"`
	}
	_ = json.Unmarshal(resp.Data, &rng)
	if resp.Code != 200 || len(rng.Days) != 2 || rng.Days[1].ActivityDate != "2025-01-08" {
		t.Fatalf("range = %d %+v", resp.Code, rng)
	}

	if resp := do(t, r, http.MethodGet, "/api/analytics/users/7/daily/range?startDate=2024-01-01&endDate=2025-06-01", ""); resp.Code != 400 {
		t.Fatalf("oversized range code = %d", resp.Code)
	}
}

func TestPeriodEndpoints(t *testing.T) {
	r, svc := newTestRouter(t)
	seed(t, svc)

	resp := do(t, r, http.MethodGet, "/api/analytics/users/7/workouts?period=weekly&date=2025-01-08", "")
	var wa struct {
		PeriodType    string `json:"periodType"`
		StartDate     string `json:"startDate"`
		EndDate       string `json:"endDate"`
		TotalWorkouts int    `json:"totalWorkouts"`
		ActiveDays    int    `json:"activeDays"`
	}
	_ = json.Unmarshal(resp.Data, &wa)
	if resp.Code != 200 || wa.PeriodType != "WEEKLY" || wa.StartDate != "2025-01-06" || wa.EndDate != "2025-01-12" || wa.TotalWorkouts != 2 {
		t.Fatalf("weekly = %d %+v", resp.Code, wa)
	}

	resp = do(t, r, http.MethodGet, "/api/analytics/users/7/nutrition?period=CUSTOM&startDate=2025-01-01&endDate=2025-01-10", "")
	var na struct {
		TotalCalories int     `json:"totalCalories"`
		TotalMeals    int     `json:"totalMeals"`
		TotalFatG     float64 `json:"totalFatG"`
	}
	_ = json.Unmarshal(resp.Data, &na)
	if resp.Code != 200 || na.TotalCalories != 600 || na.TotalMeals != 1 || na.TotalFatG != 20.5 {
		t.Fatalf("custom nutrition = %d %+v", resp.Code, na)
	}

	if resp := do(t, r, http.MethodGet, "/api/analytics/users/7/workouts?period=CUSTOM", ""); resp.Code != 400 {
		t.Fatalf("custom without dates code = %d", resp.Code)
	}
	if resp := do(t, r, http.MethodGet, "/api/analytics/users/7/workouts?period=YEARLY", ""); resp.Code != 400 {
		t.Fatalf("unknown period code = %d", resp.Code)
	}

	resp = do(t, r, http.MethodGet, "/api/analytics/users/7/reports/monthly?year=2025&month=1", "")
	var report struct {
		Year             int     `json:"year"`
		Month            int     `json:"month"`
		ActiveDays       int     `json:"activeDays"`
		ConsistencyScore float64 `json:"consistencyScore"`
		ReportData       struct {
			BestWeek *struct {
				Start string `json:"start"`
			} `json:"bestWeek"`
		} `json:"reportData"`
	}
	_ = json.Unmarshal(resp.Data, &report)
	// 31 天中 2 天有活动
	if resp.Code != 200 || report.ActiveDays != 2 || report.ConsistencyScore != 6.45 || report.ReportData.BestWeek == nil {
		t.Fatalf("monthly = %d %+v", resp.Code, report)
	}

	if resp := do(t, r, http.MethodGet, "/api/analytics/users/7/reports/monthly?month=13", ""); resp.Code != 400 {
		t.Fatalf("invalid month code = %d", resp.Code)
	}
}

func TestEnhancedEndpoint(t *testing.T) {
	r, svc := newTestRouter(t)
	seed(t, svc)

	resp := do(t, r, http.MethodGet, "/api/analytics/users/7/enhanced?date=2025-01-08", "")
	var bundle struct {
		UserID        uint64 `json:"userId"`
		ReferenceDate string `json:"referenceDate"`
		CurrentStreak int    `json:"currentStreak"`
	}
	_ = json.Unmarshal(resp.Data, &bundle)
	if resp.Code != 200 || bundle.UserID != 7 || bundle.ReferenceDate != "2025-01-08" || bundle.CurrentStreak != 1 {
		t.Fatalf("enhanced = %d %+v", resp.Code, bundle)
	}
}

func TestGoalEndpoints(t *testing.T) {
	r, svc := newTestRouter(t)
	seed(t, svc)

	resp := do(t, r, http.MethodPost, "/api/analytics/users/7/goals", `{"goalType":"DAILY_CALORIES_BURNED","targetValue":600}`)
	var goal struct {
		ID          uint64  `json:"id"`
		TargetValue float64 `json:"targetValue"`
	}
	_ = json.Unmarshal(resp.Data, &goal)
	if resp.Code != 200 || goal.ID == 0 || goal.TargetValue != 600 {
		t.Fatalf("create goal = %d %+v", resp.Code, goal)
	}

	if resp := do(t, r, http.MethodPost, "/api/analytics/users/7/goals", `{"goalType":"MONTHLY_SWIMS","targetValue":3}`); resp.Code != 400 {
		t.Fatalf("invalid goal type code = %d", resp.Code)
	}

	resp = do(t, r, http.MethodGet, "/api/analytics/users/7/goals/progress?date=2025-01-06", "")
	var progress []struct {
		GoalID             uint64  `json:"goalId"`
		TrackingDate       string  `json:"trackingDate"`
		CurrentValue       float64 `json:"currentValue"`
		ProgressPercentage float64 `json:"progressPercentage"`
	}
	_ = json.Unmarshal(resp.Data, &progress)
	if resp.Code != 200 || len(progress) != 1 || progress[0].CurrentValue != 300 || progress[0].ProgressPercentage != 50 {
		t.Fatalf("progress = %d %+v", resp.Code, progress)
	}

	path := "/api/analytics/users/7/goals/" + jsonNumber(goal.ID)
	if resp := do(t, r, http.MethodDelete, "/api/analytics/users/8/goals/"+jsonNumber(goal.ID), ""); resp.Code != 404 {
		t.Fatalf("delete foreign goal code = %d", resp.Code)
	}
	if resp := do(t, r, http.MethodDelete, path, ""); resp.Code != 200 {
		t.Fatalf("delete goal code = %d", resp.Code)
	}
	resp = do(t, r, http.MethodGet, "/api/analytics/users/7/goals", "")
	if resp.Code != 200 || string(resp.Data) != "[]" {
		t.Fatalf("goals after delete = %d %s", resp.Code, resp.Data)
	}
}

func TestPingAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t)
	if resp := do(t, r, http.MethodGet, "/api/ping", ""); resp.Code != 200 || resp.Message != "pong" {
		t.Fatalf("ping = %+v", resp)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "fittracker_") {
		t.Fatalf("metrics status %d", w.Code)
	}
}

func jsonNumber(v uint64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
