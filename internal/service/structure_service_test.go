package service

import (
	"testing"

	"readsprint_backend/internal/model"
)

func analyzeAndDetect(t *testing.T, text string) model.PageAnalysis {
	t.Helper()
	readability := NewReadabilityService()
	structure := NewStructureService()
	analysis := readability.AnalyzePage("doc-1", 1, text)
	structure.DetectPage(&analysis, text)
	return analysis
}

func TestDetectPage_ChapterHeading(t *testing.T) {
	a := analyzeAndDetect(t, "Chapter 3: Memory Management\n\nThis chapter covers allocation.")
	if a.ChapterTitle != "Memory Management" {
		t.Errorf("chapter title = %q, want %q", a.ChapterTitle, "Memory Management")
	}
	if !a.IsHeadingPage {
		t.Error("expected heading page flag")
	}
}

func TestDetectPage_SectionHeading(t *testing.T) {
	a := analyzeAndDetect(t, "3.1 Stack Allocation\n\nThe stack grows downward on most platforms.")
	if a.SectionTitle == "" {
		t.Error("expected a section title")
	}
}

func TestDetectPage_SpecialPages(t *testing.T) {
	cases := []struct {
		text string
		want model.SpecialPage
	}{
		{"Table of Contents\n\nIntroduction .......... 1\nBasics .......... 5", model.SpecialTOC},
		{"References\n\nSmith, J. (2020). On reading.", model.SpecialBibliography},
		{"Appendix A\n\nSupplementary tables follow.", model.SpecialAppendix},
	}
	for _, c := range cases {
		a := analyzeAndDetect(t, c.text)
		if a.SpecialPage != c.want {
			t.Errorf("special page for %.25q = %q, want %q", c.text, a.SpecialPage, c.want)
		}
	}
}

func TestClassify_CodeTakesPriority(t *testing.T) {
	// 同时具备代码、数学和列表特征的页面必须判为 code
	text := "func main() { return }\n" +
		"The formula x = y + z applies, with α as the bound.\n" +
		"- first item\n- second item\n"
	a := analyzeAndDetect(t, text)
	if a.ContentType != model.ContentTypeCode {
		t.Errorf("content type = %q, want code", a.ContentType)
	}
}

func TestClassify_MathBeatsBullets(t *testing.T) {
	text := "Consider the integral ∫ f(x) dx over the domain.\n" +
		"- bounded above\n- bounded below\n"
	a := analyzeAndDetect(t, text)
	if a.ContentType != model.ContentTypeMathematical {
		t.Errorf("content type = %q, want mathematical", a.ContentType)
	}
}

func TestClassify_SummaryNotes(t *testing.T) {
	text := "Key points to remember:\n" +
		"- keep sessions short\n" +
		"- review often\n" +
		"- sleep well\n"
	a := analyzeAndDetect(t, text)
	if a.ContentType != model.ContentTypeSummaryNotes {
		t.Errorf("content type = %q, want summary_notes", a.ContentType)
	}
}

func TestClassify_MinimalContent(t *testing.T) {
	a := analyzeAndDetect(t, "Part opening page.")
	if a.ContentType != model.ContentTypeMinimal {
		t.Errorf("content type = %q, want minimal_content", a.ContentType)
	}
}

func TestBuildStructure_Spans(t *testing.T) {
	s := NewStructureService()
	analyses := []model.PageAnalysis{
		{PageNumber: 1, ChapterTitle: "Introduction"},
		{PageNumber: 2, SectionTitle: "1.1 Scope"},
		{PageNumber: 5, ChapterTitle: "Methods"},
		{PageNumber: 6, SectionTitle: "2.1 Setup"},
		{PageNumber: 9, ChapterTitle: "Results"},
	}
	chapters, sections, _ := s.BuildStructure("doc-1", analyses, 12)

	if len(chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(chapters))
	}
	wantChapters := [][2]int{{1, 4}, {5, 8}, {9, 12}}
	for i, span := range wantChapters {
		if chapters[i].StartPage != span[0] || chapters[i].EndPage != span[1] {
			t.Errorf("chapter %d span = [%d,%d], want [%d,%d]",
				i, chapters[i].StartPage, chapters[i].EndPage, span[0], span[1])
		}
	}

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	// 节在下一个同级或更高级标题前一页关闭
	if sections[0].EndPage != 4 {
		t.Errorf("first section end = %d, want 4", sections[0].EndPage)
	}
	if sections[1].EndPage != 8 {
		t.Errorf("second section end = %d, want 8", sections[1].EndPage)
	}

	// 节挂在开启它的那一章下面
	if len(chapters[0].Sections) != 1 || chapters[0].Sections[0].Title != "1.1 Scope" {
		t.Errorf("chapter 0 sections = %+v, want [1.1 Scope]", chapters[0].Sections)
	}
	if len(chapters[1].Sections) != 1 || chapters[1].Sections[0].Title != "2.1 Setup" {
		t.Errorf("chapter 1 sections = %+v, want [2.1 Setup]", chapters[1].Sections)
	}
	if len(chapters[2].Sections) != 0 {
		t.Errorf("chapter 2 should have no sections, got %+v", chapters[2].Sections)
	}
	// 嵌套的节带着定稿后的跨度
	if chapters[0].Sections[0].EndPage != 4 {
		t.Errorf("nested section end = %d, want 4", chapters[0].Sections[0].EndPage)
	}

	for _, ch := range chapters {
		if ch.StartPage > ch.EndPage {
			t.Errorf("chapter span inverted: [%d,%d]", ch.StartPage, ch.EndPage)
		}
	}
	// 同级跨度互不重叠
	for i := 1; i < len(chapters); i++ {
		if chapters[i].StartPage <= chapters[i-1].EndPage {
			t.Errorf("chapters %d and %d overlap", i-1, i)
		}
	}
}

func TestBuildStructure_SectionBeforeAnyChapter(t *testing.T) {
	s := NewStructureService()
	analyses := []model.PageAnalysis{
		{PageNumber: 1, SectionTitle: "0.1 Preface"},
		{PageNumber: 3, ChapterTitle: "Basics"},
		{PageNumber: 4, SectionTitle: "1.1 Terms"},
	}
	chapters, sections, _ := s.BuildStructure("doc-1", analyses, 10)

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if len(chapters) != 1 {
		t.Fatalf("expected 1 chapter, got %d", len(chapters))
	}
	// 章之前的节不挂靠任何章
	if len(chapters[0].Sections) != 1 || chapters[0].Sections[0].Title != "1.1 Terms" {
		t.Errorf("chapter sections = %+v, want only [1.1 Terms]", chapters[0].Sections)
	}
}

func TestBuildStructure_SpecialPageLists(t *testing.T) {
	s := NewStructureService()
	analyses := []model.PageAnalysis{
		{PageNumber: 2, SpecialPage: model.SpecialTOC},
		{PageNumber: 40, SpecialPage: model.SpecialAppendix},
		{PageNumber: 45, SpecialPage: model.SpecialBibliography},
	}
	_, _, structure := s.BuildStructure("doc-1", analyses, 50)

	if len(structure.TOCPages) != 1 || structure.TOCPages[0] != 2 {
		t.Errorf("toc pages = %v, want [2]", structure.TOCPages)
	}
	if len(structure.AppendixPages) != 1 || structure.AppendixPages[0] != 40 {
		t.Errorf("appendix pages = %v, want [40]", structure.AppendixPages)
	}
	if len(structure.BibliographyPages) != 1 || structure.BibliographyPages[0] != 45 {
		t.Errorf("bibliography pages = %v, want [45]", structure.BibliographyPages)
	}
}
