package service

import (
	"errors"
	"testing"
	"time"

	"readsprint_backend/internal/model"
	"readsprint_backend/internal/util"
)

func TestTargetPageCount(t *testing.T) {
	cases := []struct {
		preferredSeconds int
		avgSecPerPage    float64
		want             int
	}{
		{1800, 90, 20}, // 30 分钟、90 秒/页
		{1800, 120, 15},
		{100, 120, 1}, // 不足一页时至少 1 页
		{1800, 0, 1},  // 除零防护
		{1750, 90, 19},
	}
	for _, c := range cases {
		if got := targetPageCount(c.preferredSeconds, c.avgSecPerPage); got != c.want {
			t.Errorf("targetPageCount(%d, %f) = %d, want %d", c.preferredSeconds, c.avgSecPerPage, got, c.want)
		}
	}
}

func TestValidatePageRange(t *testing.T) {
	valid := [][3]int{{1, 1, 1}, {1, 10, 10}, {5, 8, 20}}
	for _, c := range valid {
		if err := validatePageRange(c[0], c[1], c[2]); err != nil {
			t.Errorf("validatePageRange(%d,%d,%d) = %v, want nil", c[0], c[1], c[2], err)
		}
	}

	invalid := [][3]int{{0, 5, 10}, {5, 4, 10}, {1, 11, 10}, {-1, 1, 10}}
	for _, c := range invalid {
		err := validatePageRange(c[0], c[1], c[2])
		if !errors.Is(err, util.ErrInvalidPageRange) {
			t.Errorf("validatePageRange(%d,%d,%d) = %v, want ErrInvalidPageRange", c[0], c[1], c[2], err)
		}
	}
}

func TestDifficultyBand(t *testing.T) {
	cases := []struct {
		pref       string
		minL, maxL int
		mult       float64
		ok         bool
	}{
		{"easy", 1, 2, 0.8, true},
		{"medium", 3, 3, 1.0, true},
		{"hard", 4, 5, 1.3, true},
		{"adaptive", 0, 0, 0, false},
		{"", 0, 0, 0, false},
	}
	for _, c := range cases {
		minL, maxL, mult, ok := difficultyBand(c.pref)
		if minL != c.minL || maxL != c.maxL || mult != c.mult || ok != c.ok {
			t.Errorf("difficultyBand(%q) = (%d,%d,%f,%t), want (%d,%d,%f,%t)",
				c.pref, minL, maxL, mult, ok, c.minL, c.maxL, c.mult, c.ok)
		}
	}
}

func fixedClock(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, 8, 30, hour, 0, 0, 0, time.UTC)
	}
}

func TestSelectBest_Empty(t *testing.T) {
	s := &SprintService{now: fixedClock(10)}
	if best := s.selectBest(nil, &model.ReaderProfile{Level: 1, FocusScore: 0.8}); best != nil {
		t.Errorf("expected nil best for empty candidates, got %+v", best)
	}
}

func TestSelectBest_BeginnerAvoidsHardContent(t *testing.T) {
	s := &SprintService{now: fixedClock(10)}
	candidates := []model.SprintCandidate{
		{DocumentID: "hard", PriorityScore: 5, DifficultyScore: 4.2},
		{DocumentID: "easy", PriorityScore: 4, DifficultyScore: 2.0},
	}
	profile := &model.ReaderProfile{Level: 1, FocusScore: 0.8}

	best := s.selectBest(candidates, profile)
	if best == nil || best.DocumentID != "easy" {
		t.Errorf("expected easier candidate for beginner, got %+v", best)
	}
}

func TestSelectBest_AdvancedAvoidsTrivialContent(t *testing.T) {
	s := &SprintService{now: fixedClock(10)}
	candidates := []model.SprintCandidate{
		{DocumentID: "trivial", PriorityScore: 5, DifficultyScore: 1.5},
		{DocumentID: "solid", PriorityScore: 4.5, DifficultyScore: 3.0},
	}
	profile := &model.ReaderProfile{Level: 6, FocusScore: 0.8}

	best := s.selectBest(candidates, profile)
	if best == nil || best.DocumentID != "solid" {
		t.Errorf("expected non-trivial candidate for advanced reader, got %+v", best)
	}
}

func TestSelectBest_LowFocusPrefersShortSessions(t *testing.T) {
	s := &SprintService{now: fixedClock(10)}
	candidates := []model.SprintCandidate{
		{DocumentID: "long", PriorityScore: 5, DifficultyScore: 3, EstimatedSeconds: 2400},
		{DocumentID: "short", PriorityScore: 4.5, DifficultyScore: 3, EstimatedSeconds: 900},
	}
	profile := &model.ReaderProfile{Level: 4, FocusScore: 0.5}

	best := s.selectBest(candidates, profile)
	if best == nil || best.DocumentID != "short" {
		t.Errorf("expected short session for low-focus reader, got %+v", best)
	}
}

func TestAdjustedScore(t *testing.T) {
	peak := 23
	cases := []struct {
		name      string
		candidate model.SprintCandidate
		profile   model.ReaderProfile
		hour      int
		want      float64
	}{
		{
			name:      "no adjustments",
			candidate: model.SprintCandidate{PriorityScore: 5, DifficultyScore: 3, EstimatedSeconds: 900},
			profile:   model.ReaderProfile{Level: 4, FocusScore: 0.8},
			hour:      10,
			want:      5,
		},
		{
			name:      "beginner with hard content",
			candidate: model.SprintCandidate{PriorityScore: 5, DifficultyScore: 4.2},
			profile:   model.ReaderProfile{Level: 1, FocusScore: 0.8},
			hour:      10,
			want:      3,
		},
		{
			name:      "advanced with trivial content",
			candidate: model.SprintCandidate{PriorityScore: 5, DifficultyScore: 1.5},
			profile:   model.ReaderProfile{Level: 6, FocusScore: 0.8},
			hour:      10,
			want:      4,
		},
		{
			name:      "low focus with long session",
			candidate: model.SprintCandidate{PriorityScore: 5, DifficultyScore: 3, EstimatedSeconds: 2400},
			profile:   model.ReaderProfile{Level: 4, FocusScore: 0.5},
			hour:      10,
			want:      4,
		},
		{
			name:      "peak hour bonus across midnight",
			candidate: model.SprintCandidate{PriorityScore: 5, DifficultyScore: 3},
			profile:   model.ReaderProfile{Level: 4, FocusScore: 0.8, PeakHour: &peak},
			hour:      0, // 23 点到 0 点的环形距离为 1
			want:      6,
		},
		{
			name:      "far from peak hour",
			candidate: model.SprintCandidate{PriorityScore: 5, DifficultyScore: 3},
			profile:   model.ReaderProfile{Level: 4, FocusScore: 0.8, PeakHour: &peak},
			hour:      12,
			want:      5,
		},
	}
	for _, c := range cases {
		if got := adjustedScore(&c.candidate, &c.profile, c.hour); got != c.want {
			t.Errorf("%s: adjustedScore = %f, want %f", c.name, got, c.want)
		}
	}
}

func TestBasePriority(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s := &SprintService{now: func() time.Time { return now }}

	cases := []struct {
		rank         int
		lastActivity time.Time
		want         float64
	}{
		{1, now.Add(-time.Hour), 7},            // (6-1) + 2（一天内）
		{3, now.Add(-3 * 24 * time.Hour), 4},   // (6-3) + 1（一周内）
		{5, now.Add(-30 * 24 * time.Hour), 1},  // (6-5) + 0
	}
	for _, c := range cases {
		doc := &model.Document{PriorityRank: c.rank, LastActivity: c.lastActivity}
		if got := s.basePriority(doc); got != c.want {
			t.Errorf("basePriority(rank=%d) = %f, want %f", c.rank, got, c.want)
		}
	}
}

func TestAvgDifficulty(t *testing.T) {
	byPage := map[int]model.PageAnalysis{
		1: {DifficultyScore: 2},
		2: {DifficultyScore: 4},
	}
	if got := avgDifficulty(byPage, 1, 2); got != 3 {
		t.Errorf("avgDifficulty = %f, want 3", got)
	}
	// 区间内没有分析数据时退回中间值
	if got := avgDifficulty(byPage, 10, 12); got != 3 {
		t.Errorf("avgDifficulty with no data = %f, want 3", got)
	}
}
