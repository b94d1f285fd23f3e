package entity

import "time"

// JobCardAttachment 工单附件（照片、检测报告等），文件本体存MinIO
type JobCardAttachment struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	JobCardID   string `json:"job_card_id" gorm:"size:32;not null;index"`
	FileName    string `json:"file_name" gorm:"size:255;not null"`
	FilePath    string `json:"file_path" gorm:"size:500;not null"` // 对象存储key
	FileSize    int64  `json:"file_size"`
	ContentType string `json:"content_type" gorm:"size:100"`

	UploadedBy string    `json:"uploaded_by" gorm:"size:32"`
	CreatedAt  time.Time `json:"created_at"`
}

func (JobCardAttachment) TableName() string {
	return "job_card_attachments"
}
