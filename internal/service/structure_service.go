package service

import (
	"readsprint_backend/internal/model"
	"regexp"
	"strings"
)

// StructureService 识别页面的结构角色（章/节标题、特殊页）和内容类型
// 全部基于模式匹配：分类器按固定优先级逐个求值，首个命中即定型
type StructureService struct {
	classifiers []contentClassifier
}

// pageSignals 单页的结构信号，从文本一次性提取后供各分类器使用
type pageSignals struct {
	WordCount      int
	ParagraphCount int
	LineCount      int
	ChapterTitle   string
	SectionTitle   string
	IsHeading      bool
	HasBullets     bool
	HasImages      bool
	HasEquations   bool
	HasCode        bool
	Special        model.SpecialPage
}

// contentClassifier 命名的内容类型判定：按序求值，先命中者生效
type contentClassifier struct {
	Name    string
	Type    model.ContentType
	Matches func(sig pageSignals) bool
}

var (
	chapterMarkerRe = regexp.MustCompile(`(?im)^\s*(chapter|part)\s+([0-9ivxlc]+)[.:：\s]*(.*)$`)
	sectionMarkerRe = regexp.MustCompile(`(?im)^\s*(section\s+\d+(\.\d+)*|\d+\.\d+(\.\d+)*)[.:：\s]+(\S.*)$`)
	numberedHeadRe  = regexp.MustCompile(`(?m)^\s*\d+\.\s+[A-Z][^.\n]{2,60}$`)
	bulletRe        = regexp.MustCompile(`(?m)^\s*([-*•‣◦]|\d+[.)])\s+\S`)
	figureRefRe     = regexp.MustCompile(`(?i)(figure|fig\.|table|diagram|illustration)\s*\d`)
	equationRe      = regexp.MustCompile(`(\$[^$]+\$|\\\[|\\\(|\\begin\{equation\}|[∑∏∫√∂∞≈≠≤≥±×÷]|[α-ωΑ-Ω])`)
	inlineMathRe    = regexp.MustCompile(`\b[a-z]\s*[=<>+\-*/^]\s*[a-z0-9]`)
	codeFenceRe     = regexp.MustCompile("(?m)^\\s*```|^\\s{4,}\\S+\\(")
	codeKeywordRe   = regexp.MustCompile(`(?m)\b(func|def|class|return|import|public|private|void|var|const)\b.*[{};]`)
	tocLineRe       = regexp.MustCompile(`(?m)\.{3,}\s*\d+\s*$`)
	tocTitleRe      = regexp.MustCompile(`(?im)^\s*(table of contents|contents)\s*$`)
	appendixRe      = regexp.MustCompile(`(?im)^\s*appendix\s*[a-z0-9]?\b`)
	bibliographyRe  = regexp.MustCompile(`(?im)^\s*(bibliography|references|works cited)\s*$`)
)

func NewStructureService() *StructureService {
	// 内容类型的优先级在此处显式排列，调整顺序即调整优先级
	return &StructureService{
		classifiers: []contentClassifier{
			{
				Name: "code",
				Type: model.ContentTypeCode,
				Matches: func(sig pageSignals) bool {
					return sig.HasCode
				},
			},
			{
				Name: "heavy_math",
				Type: model.ContentTypeMathematical,
				Matches: func(sig pageSignals) bool {
					return sig.HasEquations
				},
			},
			{
				Name: "technical_reference",
				Type: model.ContentTypeTechnicalRef,
				Matches: func(sig pageSignals) bool {
					return sig.HasImages && sig.HasBullets
				},
			},
			{
				Name: "academic_text",
				Type: model.ContentTypeAcademicText,
				Matches: func(sig pageSignals) bool {
					return sig.IsHeading && sig.ParagraphCount >= 4
				},
			},
			{
				Name: "summary_notes",
				Type: model.ContentTypeSummaryNotes,
				Matches: func(sig pageSignals) bool {
					return sig.HasBullets && sig.WordCount < 150
				},
			},
			{
				Name: "minimal_content",
				Type: model.ContentTypeMinimal,
				Matches: func(sig pageSignals) bool {
					return sig.WordCount < 30
				},
			},
			{
				Name: "dense_text",
				Type: model.ContentTypeDenseText,
				Matches: func(sig pageSignals) bool {
					return sig.ParagraphCount >= 6
				},
			},
		},
	}
}

// DetectPage 提取一页的结构信号并写回 PageAnalysis
func (s *StructureService) DetectPage(analysis *model.PageAnalysis, text string) {
	sig := extractSignals(text)
	sig.WordCount = analysis.WordCount
	sig.ParagraphCount = analysis.ParagraphCount

	analysis.ChapterTitle = sig.ChapterTitle
	analysis.SectionTitle = sig.SectionTitle
	analysis.IsHeadingPage = sig.IsHeading
	analysis.HasBullets = sig.HasBullets
	analysis.HasImages = sig.HasImages
	analysis.HasEquations = sig.HasEquations
	analysis.HasCode = sig.HasCode
	analysis.SpecialPage = sig.Special
	analysis.ContentType = s.classify(sig)
}

func (s *StructureService) classify(sig pageSignals) model.ContentType {
	for _, c := range s.classifiers {
		if c.Matches(sig) {
			return c.Type
		}
	}
	return model.ContentTypeStandardText
}

func extractSignals(text string) pageSignals {
	sig := pageSignals{}
	if strings.TrimSpace(text) == "" {
		return sig
	}

	lines := strings.Split(text, "\n")
	sig.LineCount = len(lines)

	// 章标题："Chapter N ..." 或整行长大写
	if m := chapterMarkerRe.FindStringSubmatch(text); m != nil {
		title := strings.TrimSpace(m[3])
		if title == "" {
			title = strings.TrimSpace(m[0])
		}
		sig.ChapterTitle = title
		sig.IsHeading = true
	} else if t := findUppercaseHeading(lines); t != "" {
		sig.ChapterTitle = t
		sig.IsHeading = true
	}

	// 节标题："Section N" 或 "3.1 标题" 样式
	if m := sectionMarkerRe.FindStringSubmatch(text); m != nil {
		sig.SectionTitle = strings.TrimSpace(m[len(m)-1])
		sig.IsHeading = true
	} else if sig.SectionTitle == "" && numberedHeadRe.MatchString(text) {
		sig.SectionTitle = strings.TrimSpace(numberedHeadRe.FindString(text))
		sig.IsHeading = true
	}

	sig.HasBullets = len(bulletRe.FindAllString(text, 3)) >= 2
	sig.HasImages = figureRefRe.MatchString(text)
	sig.HasCode = codeFenceRe.MatchString(text) || codeKeywordRe.MatchString(text)

	// 数学标记需要两类证据之一：显式公式定界符/特殊符号，或多处行内运算
	sig.HasEquations = equationRe.MatchString(text) ||
		len(inlineMathRe.FindAllString(text, 4)) >= 3

	// 特殊页：目录 / 附录 / 参考文献
	switch {
	case tocTitleRe.MatchString(text) || len(tocLineRe.FindAllString(text, 6)) >= 5:
		sig.Special = model.SpecialTOC
	case bibliographyRe.MatchString(text):
		sig.Special = model.SpecialBibliography
	case appendixRe.MatchString(text):
		sig.Special = model.SpecialAppendix
	}

	return sig
}

// findUppercaseHeading 长大写行视为章级标题（排除短缩写行）
func findUppercaseHeading(lines []string) string {
	for _, line := range lines[:minInt(len(lines), 5)] {
		t := strings.TrimSpace(line)
		if len(t) >= 8 && len(t) <= 80 && t == strings.ToUpper(t) && strings.ContainsAny(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
			words := strings.Fields(t)
			if len(words) >= 2 {
				return t
			}
		}
	}
	return ""
}

// BuildStructure 按页序组装文档结构：
// 章/节在标题首次出现的页开启，在下一个同级或更高级标题的前一页（或末页）关闭
func (s *StructureService) BuildStructure(documentID string, analyses []model.PageAnalysis, totalPages int) ([]model.Chapter, []model.Section, model.DocumentStructure) {
	var chapters []model.Chapter
	var sections []model.Section
	var sectionChapter []int // 每个节开启时所处的章下标，-1 表示出现在任何章之前
	structure := model.DocumentStructure{
		TOCPages:          []int{},
		AppendixPages:     []int{},
		BibliographyPages: []int{},
	}

	for _, a := range analyses {
		switch a.SpecialPage {
		case model.SpecialTOC:
			structure.TOCPages = append(structure.TOCPages, a.PageNumber)
		case model.SpecialAppendix:
			structure.AppendixPages = append(structure.AppendixPages, a.PageNumber)
		case model.SpecialBibliography:
			structure.BibliographyPages = append(structure.BibliographyPages, a.PageNumber)
		}

		if a.ChapterTitle != "" {
			// 上一章在本页之前结束
			if n := len(chapters); n > 0 {
				chapters[n-1].EndPage = a.PageNumber - 1
			}
			if n := len(sections); n > 0 && sections[n-1].EndPage == 0 {
				sections[n-1].EndPage = a.PageNumber - 1
			}
			chapters = append(chapters, model.Chapter{
				DocumentID: documentID,
				Title:      a.ChapterTitle,
				StartPage:  a.PageNumber,
			})
		}

		if a.SectionTitle != "" {
			if n := len(sections); n > 0 && sections[n-1].EndPage == 0 {
				sections[n-1].EndPage = a.PageNumber - 1
			}
			sections = append(sections, model.Section{
				DocumentID: documentID,
				Title:      a.SectionTitle,
				StartPage:  a.PageNumber,
			})
			sectionChapter = append(sectionChapter, len(chapters)-1)
		}
	}

	if n := len(chapters); n > 0 {
		chapters[n-1].EndPage = totalPages
	}
	if n := len(sections); n > 0 && sections[n-1].EndPage == 0 {
		sections[n-1].EndPage = totalPages
	}

	// 跨度修正：起始页不可能大于结束页
	for i := range chapters {
		if chapters[i].EndPage < chapters[i].StartPage {
			chapters[i].EndPage = chapters[i].StartPage
		}
	}
	for i := range sections {
		if sections[i].EndPage < sections[i].StartPage {
			sections[i].EndPage = sections[i].StartPage
		}
	}

	// 跨度定稿后把节嵌回所属的章，入库时据此回填外键
	for i := range sections {
		if p := sectionChapter[i]; p >= 0 {
			chapters[p].Sections = append(chapters[p].Sections, sections[i])
		}
	}

	structure.Chapters = chapters
	structure.Sections = sections
	return chapters, sections, structure
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
