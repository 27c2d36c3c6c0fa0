package document

import (
	"net/http"
	"strconv"

	"docregistry/internal/shared/apperror"
	"docregistry/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	guest   string
	logger  *zap.Logger
}

func NewHandler(service Service, guest string, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("document.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("document.handler")
	}
	if guest == "" {
		guest = "guest"
	}
	return &Handler{service: service, guest: guest, logger: l}
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

func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := h.service.List(ctx)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if pageSize < 1 {
		pageSize = 50
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create document validation failed", zap.Error(err))
		verr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, verr.Status, verr.Code, verr.Message, nil)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

// Upload runs the whole orchestration server-side: archive the raw file, send
// it to the summarizer, then register the metadata record.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "A file is required for upload", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	defer file.Close()

	uploadedBy := c.GetString("email")
	if uploadedBy == "" {
		uploadedBy = h.guest
	}

	resp, err := h.service.Upload(c.Request.Context(), UploadRequest{
		Title:       c.PostForm("title"),
		Filename:    fileHeader.Filename,
		UploadedBy:  uploadedBy,
		File:        file,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

// IngestURL registers a document fetched from a remote URL, mirroring the
// upload orchestration without a file in the request.
func (h *Handler) IngestURL(c *gin.Context) {
	var req IngestURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http ingest url validation failed", zap.Error(err))
		verr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, verr.Status, verr.Code, verr.Message, nil)
		return
	}

	uploadedBy := c.GetString("email")
	if uploadedBy == "" {
		uploadedBy = h.guest
	}
	req.UploadedBy = uploadedBy

	resp, err := h.service.IngestURL(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
