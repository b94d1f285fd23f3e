package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/openwrench/garagehub/internal/config"
	"github.com/openwrench/garagehub/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services 服务集合
type Services struct {
	Auth       *AuthService
	Customer   *CustomerService
	Vehicle    *VehicleService
	Employee   *EmployeeService
	Inventory  *InventoryService
	JobCard    *JobCardService
	Checklist  *ChecklistService
	Attachment *AttachmentService
	Dashboard  *DashboardService
	Export     *ExportService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	// 初始化MinIO客户端，失败则降级为不存附件文件
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("MinIO init failed, attachments disabled", zap.Error(err))
			minioClient = nil
		}
	}

	jobCardSvc := NewJobCardService(repos.JobCard, repos.StatusHistory, repos.Customer, repos.Vehicle, repos.Part, db, logger)

	return &Services{
		Auth:       NewAuthService(repos.User, repos.Garage, rdb, cfg),
		Customer:   NewCustomerService(repos.Customer),
		Vehicle:    NewVehicleService(repos.Vehicle, repos.Customer),
		Employee:   NewEmployeeService(repos.Employee),
		Inventory:  NewInventoryService(repos.Part),
		JobCard:    jobCardSvc,
		Checklist:  NewChecklistService(repos.Checklist, repos.JobCard),
		Attachment: NewAttachmentService(repos.Attachment, repos.JobCard, minioClient, cfg.MinIO.Bucket),
		Dashboard:  NewDashboardService(repos.JobCard, repos.Part),
		Export:     NewExportService(repos.JobCard),
	}
}
