package service

import (
	"math"
	"readsprint_backend/internal/model"
	"regexp"
	"strings"
)

// ReadabilityService 把单页文本转换为词法指标与 1-5 难度评分
// 纯计算且确定性：相同文本必然产生相同的 PageAnalysis
type ReadabilityService struct{}

func NewReadabilityService() *ReadabilityService {
	return &ReadabilityService{}
}

// 难度因子的权重，合计 1.0
const (
	weightWordsPerSentence = 0.30
	weightSyllablesPerWord = 0.25
	weightComplexWordPct   = 0.20
	weightTechnicalPct     = 0.15
	weightSentenceVariety  = 0.10
)

var (
	wordStripRe    = regexp.MustCompile(`[^a-zA-Z0-9'\-]+`)
	sentenceEndRe  = regexp.MustCompile(`[.!?]+`)
	acronymRe      = regexp.MustCompile(`^[A-Z]{2,}$`)
	digitRe        = regexp.MustCompile(`[0-9]`)
	mixedCaseRe    = regexp.MustCompile(`^.+[A-Z]`)
	hyphenCompound = regexp.MustCompile(`^\w+(-\w+)+$`)
)

// AnalyzePage 分析一页文本
// 空文本返回兜底分析（难度 3 档、计数为 0），不会报错
func (s *ReadabilityService) AnalyzePage(documentID string, pageNumber int, text string) model.PageAnalysis {
	rawWords := tokenizeWords(text)
	if len(rawWords) == 0 {
		return FallbackAnalysis(documentID, pageNumber)
	}

	sentences := splitSentences(text)
	paragraphs := splitParagraphs(text)

	totalSyllables := 0
	complexCount := 0
	technicalCount := 0
	for _, w := range rawWords {
		syl := CountSyllables(w)
		totalSyllables += syl
		if len(w) > 6 || syl > 2 {
			complexCount++
		}
		if isTechnicalToken(w) {
			technicalCount++
		}
	}

	wordCount := len(rawWords)
	sentenceCount := len(sentences)
	if sentenceCount == 0 {
		sentenceCount = 1
	}

	avgWordsPerSentence := float64(wordCount) / float64(sentenceCount)
	avgSyllablesPerWord := float64(totalSyllables) / float64(wordCount)
	complexPct := 100 * float64(complexCount) / float64(wordCount)
	technicalPct := 100 * float64(technicalCount) / float64(wordCount)
	variety := sentenceLengthStdDev(sentences)

	score := weightWordsPerSentence*bandScore(avgWordsPerSentence, 10, 20, 30) +
		weightSyllablesPerWord*bandScore(avgSyllablesPerWord, 1.3, 1.7, 2.2) +
		weightComplexWordPct*bandScore(complexPct, 10, 25, 40) +
		weightTechnicalPct*bandScore(technicalPct, 2, 8, 15) +
		weightSentenceVariety*bandScore(variety, 3, 7, 12)

	score = clampFloat(score, 1, 5)

	return model.PageAnalysis{
		DocumentID:          documentID,
		PageNumber:          pageNumber,
		WordCount:           wordCount,
		SentenceCount:       len(sentences),
		ParagraphCount:      len(paragraphs),
		AvgWordsPerSentence: avgWordsPerSentence,
		AvgSyllablesPerWord: avgSyllablesPerWord,
		ComplexWordCount:    complexCount,
		TechnicalTermCount:  technicalCount,
		DifficultyScore:     score,
		DifficultyLevel:     DifficultyLevel(score),
		ContentType:         model.ContentTypeStandardText,
	}
}

// FallbackAnalysis 空白页/抽取失败页的兜底分析：中间难度，计数为 0
func FallbackAnalysis(documentID string, pageNumber int) model.PageAnalysis {
	return model.PageAnalysis{
		DocumentID:      documentID,
		PageNumber:      pageNumber,
		DifficultyScore: 3,
		DifficultyLevel: 3,
		ContentType:     model.ContentTypeMinimal,
		Fallback:        true,
	}
}

// DifficultyLevel 把连续难度分取整为 1-5 档（≤1.5→1 … >4.5→5）
func DifficultyLevel(score float64) int {
	switch {
	case score <= 1.5:
		return 1
	case score <= 2.5:
		return 2
	case score <= 3.5:
		return 3
	case score <= 4.5:
		return 4
	default:
		return 5
	}
}

// bandScore 把数值按 简单/中等/困难 区间映射到 1-5 的子评分
// [0,easyHi]→[1,2]，(easyHi,medHi]→(2,4]，(medHi,hardHi]→(4,5]，超出封顶 5
func bandScore(v, easyHi, medHi, hardHi float64) float64 {
	if v < 0 {
		v = 0
	}
	switch {
	case v <= easyHi:
		return 1 + v/easyHi
	case v <= medHi:
		return 2 + 2*(v-easyHi)/(medHi-easyHi)
	case v <= hardHi:
		return 4 + (v-medHi)/(hardHi-medHi)
	default:
		return 5
	}
}

func tokenizeWords(text string) []string {
	fields := strings.Fields(text)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.Trim(f, `.,;:!?"'()[]{}<>`)
		if w == "" {
			continue
		}
		words = append(words, w)
	}
	return words
}

func splitSentences(text string) []string {
	parts := sentenceEndRe.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			sentences = append(sentences, strings.TrimSpace(p))
		}
	}
	return sentences
}

func splitParagraphs(text string) []string {
	blocks := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	paragraphs := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			paragraphs = append(paragraphs, b)
		}
	}
	return paragraphs
}

// CountSyllables 元音组启发式音节数：先去掉常见不发音后缀，再数元音连续段，至少 1
func CountSyllables(word string) int {
	w := strings.ToLower(wordStripRe.ReplaceAllString(word, ""))
	if w == "" {
		return 1
	}

	// 不发音的常见后缀："-e"（非 "-le"）、"-es"、"-ed"
	if strings.HasSuffix(w, "es") || strings.HasSuffix(w, "ed") {
		w = w[:len(w)-2]
	} else if strings.HasSuffix(w, "e") && !strings.HasSuffix(w, "le") {
		w = w[:len(w)-1]
	}

	count := 0
	prevVowel := false
	for _, r := range w {
		isVowel := strings.ContainsRune("aeiouy", r)
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}

	if count < 1 {
		return 1
	}
	return count
}

// isTechnicalToken 技术性词形：全大写缩写、含数字/版本号、驼峰或连字符复合词
func isTechnicalToken(word string) bool {
	if acronymRe.MatchString(word) {
		return true
	}
	if digitRe.MatchString(word) {
		return true
	}
	if hyphenCompound.MatchString(word) {
		return true
	}
	// 首字母之后还有大写，视为驼峰式标识符
	if len(word) > 1 && mixedCaseRe.MatchString(word[1:]) {
		return true
	}
	return false
}

func sentenceLengthStdDev(sentences []string) float64 {
	if len(sentences) < 2 {
		return 0
	}
	lengths := make([]float64, len(sentences))
	sum := 0.0
	for i, s := range sentences {
		lengths[i] = float64(len(strings.Fields(s)))
		sum += lengths[i]
	}
	mean := sum / float64(len(lengths))
	variance := 0.0
	for _, l := range lengths {
		variance += (l - mean) * (l - mean)
	}
	variance /= float64(len(lengths))
	return math.Sqrt(variance)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
