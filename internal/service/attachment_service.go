package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/openwrench/garagehub/internal/entity"
	"github.com/openwrench/garagehub/internal/repository"
)

// ErrStorageUnavailable 对象存储未配置
var ErrStorageUnavailable = errors.New("attachment storage unavailable")

// AttachmentService 工单附件服务，文件存MinIO、元数据存库
type AttachmentService struct {
	attachmentRepo *repository.AttachmentRepository
	jobCardRepo    *repository.JobCardRepository
	minioClient    *minio.Client
	bucket         string
}

// NewAttachmentService 创建附件服务
func NewAttachmentService(attachmentRepo *repository.AttachmentRepository, jobCardRepo *repository.JobCardRepository, minioClient *minio.Client, bucket string) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		jobCardRepo:    jobCardRepo,
		minioClient:    minioClient,
		bucket:         bucket,
	}
}

// Upload 上传附件，对象key按日期分目录
func (s *AttachmentService) Upload(ctx context.Context, garageID, jobCardID, userID, fileName, contentType string, size int64, reader io.Reader) (*entity.JobCardAttachment, error) {
	if s.minioClient == nil {
		return nil, ErrStorageUnavailable
	}
	if fileName == "" {
		return nil, NewValidationError("file", "file is required")
	}
	if _, err := s.jobCardRepo.FindByID(ctx, garageID, jobCardID); err != nil {
		return nil, err
	}

	id := uuid.New().String()[:32]
	objectKey := fmt.Sprintf("job-cards/%s/%s%s", time.Now().Format("2006/01/02"), id, filepath.Ext(fileName))

	if _, err := s.minioClient.PutObject(ctx, s.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	attachment := &entity.JobCardAttachment{
		ID:          id,
		JobCardID:   jobCardID,
		FileName:    fileName,
		FilePath:    objectKey,
		FileSize:    size,
		ContentType: contentType,
		UploadedBy:  userID,
	}
	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		// 元数据写失败时清掉已上传的对象
		s.minioClient.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
		return nil, fmt.Errorf("create attachment: %w", err)
	}
	return attachment, nil
}

// List 工单附件列表
func (s *AttachmentService) List(ctx context.Context, garageID, jobCardID string) ([]entity.JobCardAttachment, error) {
	if _, err := s.jobCardRepo.FindByID(ctx, garageID, jobCardID); err != nil {
		return nil, err
	}
	return s.attachmentRepo.ListByJobCard(ctx, jobCardID)
}

// Download 读附件内容
func (s *AttachmentService) Download(ctx context.Context, garageID, jobCardID, id string) (*entity.JobCardAttachment, io.ReadCloser, error) {
	if s.minioClient == nil {
		return nil, nil, ErrStorageUnavailable
	}
	attachment, err := s.attachmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if attachment.JobCardID != jobCardID {
		return nil, nil, repository.ErrNotFound
	}
	if _, err := s.jobCardRepo.FindByID(ctx, garageID, jobCardID); err != nil {
		return nil, nil, err
	}

	object, err := s.minioClient.GetObject(ctx, s.bucket, attachment.FilePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("get object: %w", err)
	}
	return attachment, object, nil
}

// Delete 删除附件及对象
func (s *AttachmentService) Delete(ctx context.Context, garageID, jobCardID, id string) error {
	attachment, err := s.attachmentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if attachment.JobCardID != jobCardID {
		return repository.ErrNotFound
	}
	if _, err := s.jobCardRepo.FindByID(ctx, garageID, jobCardID); err != nil {
		return err
	}

	if err := s.attachmentRepo.Delete(ctx, id); err != nil {
		return err
	}
	if s.minioClient != nil {
		s.minioClient.RemoveObject(ctx, s.bucket, attachment.FilePath, minio.RemoveObjectOptions{})
	}
	return nil
}
