package service

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"readsprint_backend/internal/model"

	"github.com/gin-gonic/gin/binding"
)

func bindOutcome(t *testing.T, body string) (SprintOutcome, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	var outcome SprintOutcome
	err := binding.JSON.Bind(req, &outcome)
	return outcome, err
}

func TestSprintOutcomeBinding_ZeroActualSeconds(t *testing.T) {
	// 时长缺失（0 秒）是合法提交，不能在绑定阶段被挡掉
	outcome, err := bindOutcome(t, `{"actualSeconds":0,"pagesCompleted":5,"qualityRating":4}`)
	if err != nil {
		t.Fatalf("binding rejected zero actual duration: %v", err)
	}
	if outcome.ActualSeconds != 0 || outcome.PagesCompleted != 5 || outcome.QualityRating != 4 {
		t.Errorf("bound outcome = %+v", outcome)
	}
}

func TestSprintOutcomeBinding_Invalid(t *testing.T) {
	if _, err := bindOutcome(t, `{"actualSeconds":-1,"pagesCompleted":5,"qualityRating":4}`); err == nil {
		t.Error("expected binding error for negative actual duration")
	}
	if _, err := bindOutcome(t, `{"actualSeconds":600,"pagesCompleted":5,"qualityRating":0}`); err == nil {
		t.Error("expected binding error for missing quality rating")
	}
}

func TestEfficiencyPct(t *testing.T) {
	cases := []struct {
		estimated, actual, want int
	}{
		{600, 500, 120},
		{600, 600, 100},
		{600, 0, 100}, // 时长缺失按 100% 记
		{600, 1200, 50},
		{100, 300, 33},
	}
	for _, c := range cases {
		if got := efficiencyPct(c.estimated, c.actual); got != c.want {
			t.Errorf("efficiencyPct(%d, %d) = %d, want %d", c.estimated, c.actual, got, c.want)
		}
	}
}

func TestClassifyPerformance(t *testing.T) {
	cases := []struct {
		efficiency, completion int
		want                   model.PerformanceLevel
	}{
		{120, 100, model.PerformanceExcellent}, // 预计 600 秒实际 500 秒 → 效率 120
		{80, 130, model.PerformanceExcellent},  // 完成度单独达标也算 excellent
		{95, 90, model.PerformanceGood},
		{90, 90, model.PerformanceGood},
		{89, 100, model.PerformanceFair},
		{70, 70, model.PerformanceFair},
		{69, 100, model.PerformanceNeedsWork},
		{100, 50, model.PerformanceNeedsWork},
		{0, 0, model.PerformanceNeedsWork},
	}
	for _, c := range cases {
		if got := classifyPerformance(c.efficiency, c.completion); got != c.want {
			t.Errorf("classifyPerformance(%d, %d) = %s, want %s", c.efficiency, c.completion, got, c.want)
		}
	}
}

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp, want int
	}{
		{0, 1},
		{-10, 1},
		{50, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{899, 3},
		{900, 4},
	}
	for _, c := range cases {
		if got := levelForXP(c.xp); got != c.want {
			t.Errorf("levelForXP(%d) = %d, want %d", c.xp, got, c.want)
		}
	}

	// 等级对 XP 单调不减
	prev := 0
	for xp := 0; xp <= 2000; xp += 10 {
		level := levelForXP(xp)
		if level < prev {
			t.Fatalf("level decreased at xp=%d: %d < %d", xp, level, prev)
		}
		prev = level
	}
}

func newOutcomeFixture(completionPct int) (*model.ReaderProfile, *model.Sprint, SprintOutcome) {
	profile := &model.ReaderProfile{
		Level:      1,
		FocusScore: 0.5,
	}
	sprint := &model.Sprint{
		StartPage:        1,
		EndPage:          10,
		EstimatedSeconds: 600,
		CompletionPct:    completionPct,
	}
	outcome := SprintOutcome{
		ActualSeconds:  500,
		PagesCompleted: 10,
		QualityRating:  4,
	}
	return profile, sprint, outcome
}

func TestApplyOutcome_Totals(t *testing.T) {
	s := &FeedbackService{}
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)

	profile, sprint, outcome := newOutcomeFixture(100)
	profile.TotalPagesRead = 90
	profile.TotalReadingSeconds = 8500
	profile.SessionCount = 9

	s.applyOutcome(profile, sprint, outcome, model.PerformanceGood, now)

	if profile.TotalPagesRead != 100 {
		t.Errorf("TotalPagesRead = %d, want 100", profile.TotalPagesRead)
	}
	if profile.TotalReadingSeconds != 9000 {
		t.Errorf("TotalReadingSeconds = %d, want 9000", profile.TotalReadingSeconds)
	}
	if profile.AvgSecondsPerPage != 90 {
		t.Errorf("AvgSecondsPerPage = %f, want 90", profile.AvgSecondsPerPage)
	}
	if profile.SessionCount != 10 {
		t.Errorf("SessionCount = %d, want 10", profile.SessionCount)
	}
	if profile.AvgSessionSeconds != 900 {
		t.Errorf("AvgSessionSeconds = %f, want 900", profile.AvgSessionSeconds)
	}
}

func TestApplyOutcome_StreakTransitions(t *testing.T) {
	s := &FeedbackService{}
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)

	// 昨天有活动：连续天数 +1
	profile, sprint, outcome := newOutcomeFixture(100)
	profile.CurrentStreak = 6
	profile.LongestStreak = 6
	profile.LastActivityDate = now.AddDate(0, 0, -1)
	s.applyOutcome(profile, sprint, outcome, model.PerformanceGood, now)
	if profile.CurrentStreak != 7 {
		t.Errorf("streak after yesterday activity = %d, want 7", profile.CurrentStreak)
	}
	if profile.LongestStreak != 7 {
		t.Errorf("longest streak = %d, want 7", profile.LongestStreak)
	}

	// 同一天再来一次：不变
	profile2, sprint2, outcome2 := newOutcomeFixture(100)
	profile2.CurrentStreak = 7
	profile2.LongestStreak = 7
	profile2.LastActivityDate = now.Add(-2 * time.Hour)
	s.applyOutcome(profile2, sprint2, outcome2, model.PerformanceGood, now)
	if profile2.CurrentStreak != 7 {
		t.Errorf("streak after same-day activity = %d, want 7", profile2.CurrentStreak)
	}

	// 中断三天：重置为 1
	profile3, sprint3, outcome3 := newOutcomeFixture(100)
	profile3.CurrentStreak = 12
	profile3.LongestStreak = 12
	profile3.LastActivityDate = now.AddDate(0, 0, -3)
	s.applyOutcome(profile3, sprint3, outcome3, model.PerformanceGood, now)
	if profile3.CurrentStreak != 1 {
		t.Errorf("streak after 3-day gap = %d, want 1", profile3.CurrentStreak)
	}
	if profile3.LongestStreak != 12 {
		t.Errorf("longest streak should be preserved, got %d", profile3.LongestStreak)
	}
}

func TestApplyOutcome_XP(t *testing.T) {
	s := &FeedbackService{}
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)

	cases := []struct {
		name        string
		performance model.PerformanceLevel
		prevStreak  int
		wantXP      int
	}{
		{"base", model.PerformanceNeedsWork, 0, 10},
		{"fair", model.PerformanceFair, 0, 10},
		{"good", model.PerformanceGood, 0, 15},
		{"excellent", model.PerformanceExcellent, 0, 25},
		{"good with week streak", model.PerformanceGood, 6, 20},       // 昨日 streak 6 → 今日 7，+5
		{"excellent with month streak", model.PerformanceExcellent, 29, 40}, // streak 30，+5 +10
	}
	for _, c := range cases {
		profile, sprint, outcome := newOutcomeFixture(100)
		profile.CurrentStreak = c.prevStreak
		profile.LastActivityDate = now.AddDate(0, 0, -1)
		xp := s.applyOutcome(profile, sprint, outcome, c.performance, now)
		if xp != c.wantXP {
			t.Errorf("%s: xp = %d, want %d", c.name, xp, c.wantXP)
		}
		if profile.TotalXP != c.wantXP {
			t.Errorf("%s: TotalXP = %d, want %d", c.name, profile.TotalXP, c.wantXP)
		}
	}
}

func TestApplyOutcome_FocusAndPeakHour(t *testing.T) {
	s := &FeedbackService{}
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)

	// 完成度 100%：专注度向 1 滚动
	profile, sprint, outcome := newOutcomeFixture(100)
	s.applyOutcome(profile, sprint, outcome, model.PerformanceGood, now)
	want := 0.7*0.5 + 0.3*1.0
	if math.Abs(profile.FocusScore-want) > 1e-9 {
		t.Errorf("FocusScore = %f, want %f", profile.FocusScore, want)
	}
	if profile.PeakHour != nil {
		t.Errorf("PeakHour should stay unset for non-excellent performance, got %d", *profile.PeakHour)
	}

	// excellent 时记录高峰时段
	profile2, sprint2, outcome2 := newOutcomeFixture(100)
	s.applyOutcome(profile2, sprint2, outcome2, model.PerformanceExcellent, now)
	if profile2.PeakHour == nil || *profile2.PeakHour != 14 {
		t.Errorf("PeakHour = %v, want 14", profile2.PeakHour)
	}

	// 完成度 0%：专注度衰减但不低于 0
	profile3, sprint3, outcome3 := newOutcomeFixture(0)
	s.applyOutcome(profile3, sprint3, outcome3, model.PerformanceNeedsWork, now)
	if math.Abs(profile3.FocusScore-0.35) > 1e-9 {
		t.Errorf("FocusScore after zero completion = %f, want 0.35", profile3.FocusScore)
	}
}

func TestClamp01(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{-0.5, 0}, {0, 0}, {0.42, 0.42}, {1, 1}, {1.7, 1},
	}
	for _, c := range cases {
		if got := clamp01(c.in); got != c.want {
			t.Errorf("clamp01(%f) = %f, want %f", c.in, got, c.want)
		}
	}
}
