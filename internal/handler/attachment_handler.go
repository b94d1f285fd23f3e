package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openwrench/garagehub/internal/service"
)

// maxAttachmentSize 单附件上限 20MB
const maxAttachmentSize = 20 << 20

// AttachmentHandler 工单附件接口
type AttachmentHandler struct {
	attachmentService *service.AttachmentService
}

// NewAttachmentHandler 创建附件接口
func NewAttachmentHandler(attachmentService *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// Upload POST /api/v1/job-cards/:id/attachments
func (h *AttachmentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		BadRequest(c, "file too large, max 20MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		InternalError(c)
		return
	}
	defer file.Close()

	attachment, err := h.attachmentService.Upload(
		c.Request.Context(),
		GetGarageID(c), c.Param("id"), GetUserID(c),
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, file,
	)
	if err != nil {
		HandleError(c, err, "job card not found")
		return
	}
	Created(c, attachment)
}

// List GET /api/v1/job-cards/:id/attachments
func (h *AttachmentHandler) List(c *gin.Context) {
	attachments, err := h.attachmentService.List(c.Request.Context(), GetGarageID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err, "job card not found")
		return
	}
	Success(c, attachments)
}

// Download GET /api/v1/job-cards/:id/attachments/:attachmentId
func (h *AttachmentHandler) Download(c *gin.Context) {
	attachment, reader, err := h.attachmentService.Download(c.Request.Context(), GetGarageID(c), c.Param("id"), c.Param("attachmentId"))
	if err != nil {
		HandleError(c, err, "attachment not found")
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", `attachment; filename="`+attachment.FileName+`"`)
	c.DataFromReader(http.StatusOK, attachment.FileSize, attachment.ContentType, reader, nil)
}

// Delete DELETE /api/v1/job-cards/:id/attachments/:attachmentId
func (h *AttachmentHandler) Delete(c *gin.Context) {
	if err := h.attachmentService.Delete(c.Request.Context(), GetGarageID(c), c.Param("id"), c.Param("attachmentId")); err != nil {
		HandleError(c, err, "attachment not found")
		return
	}
	Success(c, nil)
}
