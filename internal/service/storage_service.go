package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"readsprint_backend/internal/config"
	"readsprint_backend/internal/util"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService 文档原始文件的存取抽象，支持本地磁盘与 MinIO 两种后端
type StorageService interface {
	Save(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, storagePath string) (io.ReadCloser, error)
	Remove(ctx context.Context, storagePath string) error
}

func NewStorageService(cfg config.StorageConfig) (StorageService, error) {
	switch cfg.Type {
	case util.StorageMinio:
		return newMinioStorage(cfg)
	case util.StorageLocal, "":
		return newLocalStorage(cfg.LocalPath)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// localStorage 本地磁盘存储，storagePath 为相对 basePath 的文件名
type localStorage struct {
	basePath string
}

func newLocalStorage(basePath string) (*localStorage, error) {
	if basePath == "" {
		basePath = "uploads"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &localStorage{basePath: basePath}, nil
}

func (s *localStorage) Save(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (string, error) {
	fullPath := filepath.Join(s.basePath, objectName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, reader); err != nil {
		os.Remove(fullPath)
		return "", err
	}
	return objectName, nil
}

func (s *localStorage) Open(_ context.Context, storagePath string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.basePath, storagePath))
}

func (s *localStorage) Remove(_ context.Context, storagePath string) error {
	return os.Remove(filepath.Join(s.basePath, storagePath))
}

// minioStorage 对象存储后端，storagePath 即 bucket 内的 object 名
type minioStorage struct {
	client *minio.Client
	bucket string
}

func newMinioStorage(cfg config.StorageConfig) (*minioStorage, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &minioStorage{client: client, bucket: cfg.MinioBucket}, nil
}

func (s *minioStorage) Save(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return objectName, nil
}

func (s *minioStorage) Open(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, storagePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (s *minioStorage) Remove(ctx context.Context, storagePath string) error {
	return s.client.RemoveObject(ctx, s.bucket, storagePath, minio.RemoveObjectOptions{})
}
