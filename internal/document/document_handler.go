package document

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/monaguib-hub/DocTrack/internal/shared/apperror"
	"github.com/monaguib-hub/DocTrack/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// MaxAttachmentSize membatasi lampiran yang dibaca ke memori.
const MaxAttachmentSize = 10 << 20 // 10 MiB

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	return NewHandlerWithRedis(service, nil, logger...)
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("document.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("document.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("document request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// readAttachment ambil file opsional dari multipart form. Tidak adanya file
// bukan error; dokumen boleh dicatat tanpa lampiran.
func (h *Handler) readAttachment(c *gin.Context) ([]byte, string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, "", true
		}
		// Bukan multipart request, anggap tanpa lampiran
		return nil, "", true
	}
	if fileHeader.Size > MaxAttachmentSize {
		response.Error(c, http.StatusRequestEntityTooLarge, "ATTACHMENT_TOO_LARGE", "Attachment exceeds the size limit", nil)
		return nil, "", false
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "ATTACHMENT_READ_FAILED", "Attachment could not be read", err.Error())
		return nil, "", false
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "ATTACHMENT_READ_FAILED", "Attachment could not be read", err.Error())
		return nil, "", false
	}

	return content, fileHeader.Filename, true
}

func (h *Handler) Add(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	employeeID := c.Param("id")
	h.logger.Debug("http add document", zap.String("employee_id", employeeID))

	var req AddDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("http add document validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", apperror.MapValidationError(err).Error())
		return
	}

	file, filename, ok := h.readAttachment(c)
	if !ok {
		return
	}

	resp, err := h.service.Add(c.Request.Context(), employeeID, req, file, filename)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	employeeID := c.Param("id")

	resp, err := h.service.GetByEmployee(c.Request.Context(), employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	id := c.Param("docId")

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("docId")
	h.logger.Debug("http update document", zap.String("document_id", id))

	var req UpdateDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("http update document validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", apperror.MapValidationError(err).Error())
		return
	}

	file, filename, ok := h.readAttachment(c)
	if !ok {
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req, file, filename)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("docId")
	h.logger.Debug("http delete document", zap.String("document_id", id))

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
