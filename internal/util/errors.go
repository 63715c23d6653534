package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrDocumentNotReady    = errors.New("document not analyzed yet")
	ErrSprintNotFound      = errors.New("sprint not found")
	ErrSprintNotActive     = errors.New("sprint not active")
	ErrInvalidPageRange    = errors.New("invalid page range")
	ErrInvalidQualityScore = errors.New("quality rating must be between 1 and 5")
	ErrGoalNotFound        = errors.New("goal not found")
	ErrInvalidExamDate     = errors.New("exam date must not be in the past")
)
