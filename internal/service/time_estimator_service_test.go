package service

import (
	"testing"

	"readsprint_backend/internal/model"
)

func TestEstimatePage_ZeroWords(t *testing.T) {
	s := NewTimeEstimatorService()
	got := s.EstimatePage(model.PageAnalysis{WordCount: 0, DifficultyLevel: 3})
	if got != 30 {
		t.Errorf("zero-word page estimate = %d, want 30", got)
	}
}

func TestEstimatePage_Bounds(t *testing.T) {
	s := NewTimeEstimatorService()
	cases := []model.PageAnalysis{
		{WordCount: 5, DifficultyLevel: 1},
		{WordCount: 10000, DifficultyLevel: 5},
		{WordCount: 10000, DifficultyLevel: 5, HasEquations: true, HasCode: true},
	}
	for _, a := range cases {
		got := s.EstimatePage(a)
		if got < 30 || got > 1800 {
			t.Errorf("estimate %d out of [30,1800] for %+v", got, a)
		}
	}
}

func TestEstimatePage_MonotonicInDifficulty(t *testing.T) {
	s := NewTimeEstimatorService()
	prev := 0
	for level := 1; level <= 5; level++ {
		got := s.EstimatePage(model.PageAnalysis{WordCount: 500, DifficultyLevel: level})
		if got < prev {
			t.Errorf("estimate decreased at level %d: %d < %d", level, got, prev)
		}
		prev = got
	}
}

func TestEstimatePage_Multipliers(t *testing.T) {
	s := NewTimeEstimatorService()
	base := model.PageAnalysis{WordCount: 400, DifficultyLevel: 3} // 400/200*60 = 120s
	if got := s.EstimatePage(base); got != 120 {
		t.Fatalf("base estimate = %d, want 120", got)
	}

	math := base
	math.HasEquations = true
	if got := s.EstimatePage(math); got != 180 {
		t.Errorf("equation page estimate = %d, want 180", got)
	}

	code := base
	code.HasCode = true
	if got := s.EstimatePage(code); got != 156 {
		t.Errorf("code page estimate = %d, want 156", got)
	}

	bullets := base
	bullets.HasBullets = true
	if got := s.EstimatePage(bullets); got != 108 {
		t.Errorf("bullet page estimate = %d, want 108", got)
	}
}

func TestEstimateDocument_TenPageScenario(t *testing.T) {
	// 10 页、每页 100 词、难度 3 档（200 WPM）→ 每页 30s，总计 300s
	s := NewTimeEstimatorService()
	analyses := make([]model.PageAnalysis, 10)
	for i := range analyses {
		analyses[i] = model.PageAnalysis{PageNumber: i + 1, WordCount: 100, DifficultyLevel: 3}
	}

	estimate := s.EstimateDocument("doc-1", analyses, nil)
	if estimate.TotalSeconds != 300 {
		t.Errorf("total = %d, want 300", estimate.TotalSeconds)
	}
	for page, sec := range estimate.PageSeconds {
		if sec != 30 {
			t.Errorf("page %d estimate = %d, want 30", page, sec)
		}
	}
	if estimate.LevelBreakdown[3] != 300 {
		t.Errorf("level 3 breakdown = %d, want 300", estimate.LevelBreakdown[3])
	}
	if estimate.Personalized {
		t.Error("estimate without profile must not be personalized")
	}
}

func TestEstimateDocument_Personalized(t *testing.T) {
	s := NewTimeEstimatorService()
	analyses := []model.PageAnalysis{
		{PageNumber: 1, WordCount: 100, DifficultyLevel: 2},
		{PageNumber: 2, WordCount: 900, DifficultyLevel: 5},
	}
	profile := &model.ReaderProfile{TotalPagesRead: 50, AvgSecondsPerPage: 90}

	estimate := s.EstimateDocument("doc-1", analyses, profile)
	if !estimate.Personalized {
		t.Fatal("expected personalized estimate")
	}
	if estimate.Confidence != 0.5 {
		t.Errorf("confidence = %f, want 0.5", estimate.Confidence)
	}
	// 个性化后按读者均速而非难度档速率
	if estimate.PageSeconds[1] != 90 || estimate.PageSeconds[2] != 90 {
		t.Errorf("personalized page estimates = %v, want 90 each", estimate.PageSeconds)
	}
}

func TestEstimateDocument_ProfileBelowThreshold(t *testing.T) {
	s := NewTimeEstimatorService()
	analyses := []model.PageAnalysis{{PageNumber: 1, WordCount: 100, DifficultyLevel: 3}}
	profile := &model.ReaderProfile{TotalPagesRead: 5, AvgSecondsPerPage: 90}

	estimate := s.EstimateDocument("doc-1", analyses, profile)
	if estimate.Personalized {
		t.Error("profile with too few observed pages must not personalize")
	}
	if estimate.PageSeconds[1] != 30 {
		t.Errorf("page estimate = %d, want generic 30", estimate.PageSeconds[1])
	}
}
