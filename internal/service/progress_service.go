package service

import (
	"sort"

	"readsprint_backend/internal/repository"
	"readsprint_backend/internal/util"
)

// ReadingProgress 单文档的阅读进度视图
type ReadingProgress struct {
	DocumentID     string  `json:"documentId"`
	TotalPages     int     `json:"totalPages"`
	CompletedPages []int   `json:"completedPages"`
	CompletedCount int     `json:"completedCount"`
	CompletionPct  float64 `json:"completionPct"`
	NextUnreadPage int     `json:"nextUnreadPage"` // 0 表示已读完
}

// ProgressService 冲刺之外的手动阅读进度维护
type ProgressService struct {
	progressRepo *repository.ProgressRepository
	docRepo      *repository.DocumentRepository
}

func NewProgressService(progressRepo *repository.ProgressRepository, docRepo *repository.DocumentRepository) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		docRepo:      docRepo,
	}
}

// MarkPages 把页区间标记为已读，区间越界直接拒绝
func (s *ProgressService) MarkPages(userID uint, documentID string, startPage, endPage int) error {
	doc, err := s.docRepo.FindByIDAndOwner(documentID, userID)
	if err != nil {
		return err
	}
	if startPage < 1 || endPage < startPage || endPage > doc.TotalPages {
		return util.ErrInvalidPageRange
	}
	if err := s.progressRepo.MarkRange(userID, documentID, startPage, endPage); err != nil {
		return err
	}
	return s.docRepo.TouchActivity(documentID)
}

// GetProgress 返回已读页列表与下一个未读页
func (s *ProgressService) GetProgress(userID uint, documentID string) (*ReadingProgress, error) {
	doc, err := s.docRepo.FindByIDAndOwner(documentID, userID)
	if err != nil {
		return nil, err
	}
	completed, err := s.progressRepo.FindCompleted(userID, documentID)
	if err != nil {
		return nil, err
	}

	progress := &ReadingProgress{
		DocumentID:     doc.ID,
		TotalPages:     doc.TotalPages,
		CompletedPages: make([]int, 0, len(completed)),
	}
	for p := range completed {
		progress.CompletedPages = append(progress.CompletedPages, p)
	}
	sort.Ints(progress.CompletedPages)
	progress.CompletedCount = len(progress.CompletedPages)
	if doc.TotalPages > 0 {
		progress.CompletionPct = roundTo(100*float64(progress.CompletedCount)/float64(doc.TotalPages), 1)
	}

	for p := 1; p <= doc.TotalPages; p++ {
		if !completed[p] {
			progress.NextUnreadPage = p
			break
		}
	}
	return progress, nil
}
