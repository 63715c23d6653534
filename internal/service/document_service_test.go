package service

import (
	"encoding/json"
	"math"
	"testing"

	"readsprint_backend/internal/model"
)

func TestAggregate_SkipsFallbackPages(t *testing.T) {
	s := &DocumentService{}
	analyses := []model.PageAnalysis{
		{PageNumber: 1, WordCount: 200, DifficultyScore: 2, DifficultyLevel: 2, ContentType: model.ContentTypeStandardText},
		{PageNumber: 2, WordCount: 0, DifficultyScore: 3, DifficultyLevel: 3, ContentType: model.ContentTypeStandardText}, // 提取失败的回退页
		{PageNumber: 3, WordCount: 400, DifficultyScore: 4, DifficultyLevel: 4, ContentType: model.ContentTypeMathematical},
	}

	metrics, err := s.aggregate("doc-1", analyses, model.DocumentStructure{})
	if err != nil {
		t.Fatalf("aggregate returned error: %v", err)
	}

	if metrics.ValidPageCount != 2 {
		t.Errorf("ValidPageCount = %d, want 2", metrics.ValidPageCount)
	}
	if metrics.TotalWordCount != 600 {
		t.Errorf("TotalWordCount = %d, want 600", metrics.TotalWordCount)
	}
	// 均值只覆盖有效页：(2+4)/2 与 600/2
	if metrics.AvgDifficulty != 3 {
		t.Errorf("AvgDifficulty = %f, want 3", metrics.AvgDifficulty)
	}
	if metrics.AvgWordsPerPage != 300 {
		t.Errorf("AvgWordsPerPage = %f, want 300", metrics.AvgWordsPerPage)
	}

	var histogram [5]int
	if err := json.Unmarshal([]byte(metrics.DifficultyHistogram), &histogram); err != nil {
		t.Fatalf("invalid histogram JSON: %v", err)
	}
	if histogram != [5]int{0, 1, 0, 1, 0} {
		t.Errorf("histogram = %v, want [0 1 0 1 0]", histogram)
	}

	var dist map[model.ContentType]int
	if err := json.Unmarshal([]byte(metrics.ContentTypeDist), &dist); err != nil {
		t.Fatalf("invalid content distribution JSON: %v", err)
	}
	if dist[model.ContentTypeStandardText] != 1 || dist[model.ContentTypeMathematical] != 1 {
		t.Errorf("content distribution = %v", dist)
	}
}

func TestAggregate_AllPagesEmpty(t *testing.T) {
	s := &DocumentService{}
	analyses := []model.PageAnalysis{
		{PageNumber: 1, WordCount: 0},
		{PageNumber: 2, WordCount: 0},
	}

	metrics, err := s.aggregate("doc-2", analyses, model.DocumentStructure{})
	if err != nil {
		t.Fatalf("aggregate returned error: %v", err)
	}
	if metrics.ValidPageCount != 0 {
		t.Errorf("ValidPageCount = %d, want 0", metrics.ValidPageCount)
	}
	// 没有有效页时均值保持零值而不是 NaN
	if metrics.AvgDifficulty != 0 || metrics.AvgWordsPerPage != 0 {
		t.Errorf("averages should stay zero, got %f / %f", metrics.AvgDifficulty, metrics.AvgWordsPerPage)
	}
}

func TestStructuralComplexity(t *testing.T) {
	cases := []struct {
		name       string
		chapters   int
		sections   int
		totalPages int
		structure  model.DocumentStructure
		want       model.StructuralComplexity
	}{
		{
			name: "no structure at all", chapters: 0, sections: 0, totalPages: 10,
			want: model.ComplexityMinimal, // score 0
		},
		{
			name: "couple of chapters", chapters: 3, sections: 0, totalPages: 50,
			want: model.ComplexitySimple, // 3*0.5 = 1.5
		},
		{
			name: "chapters with sections", chapters: 4, sections: 10, totalPages: 100,
			want: model.ComplexityModerate, // 2 + 0.1*20 = 4
		},
		{
			name: "sectioned with references", chapters: 8, sections: 20, totalPages: 200,
			structure: model.DocumentStructure{TOCPages: []int{1}, BibliographyPages: []int{199}},
			want:      model.ComplexityComplex, // 4 + 0.1*20 + 2*1.5 = 9
		},
		{
			name: "textbook", chapters: 12, sections: 60, totalPages: 300,
			structure: model.DocumentStructure{TOCPages: []int{1, 2}, AppendixPages: []int{290}, BibliographyPages: []int{295}},
			want:      model.ComplexityVeryComplex, // 6 + 0.2*20 + 3*1.5 = 14.5
		},
	}
	for _, c := range cases {
		got := structuralComplexity(c.chapters, c.sections, c.totalPages, c.structure)
		if got != c.want {
			t.Errorf("%s: structuralComplexity = %s, want %s", c.name, got, c.want)
		}
	}
}

func TestRoundTo(t *testing.T) {
	cases := []struct {
		v      float64
		places int
		want   float64
	}{
		{3.14159, 2, 3.14},
		{3.145, 2, 3.15},
		{28.5714, 1, 28.6},
		{2, 2, 2},
	}
	for _, c := range cases {
		if got := roundTo(c.v, c.places); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("roundTo(%f, %d) = %f, want %f", c.v, c.places, got, c.want)
		}
	}
}
