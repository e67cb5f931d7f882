package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"ghostpayroll/internal/config"
	apierrors "ghostpayroll/internal/errors"
	appmw "ghostpayroll/internal/middleware"
	"ghostpayroll/internal/services"
	"ghostpayroll/pkg/contracts/domain"
)

const uploadField = "file"

type uploadTarget struct {
	FileType string `json:"file_type" validate:"required,datasetkind"`
}

type uploadFile struct {
	Filename string `json:"filename" validate:"required,uploadname"`
}

// UploadHandler accepts dataset uploads into the current batch
type UploadHandler struct {
	service   UploadServiceInterface
	batches   BatchReader
	validator *appmw.Validator
	maxBytes  int64
	logger    *slog.Logger
}

// NewUploadHandler creates an upload handler. maxBytes caps the request body.
func NewUploadHandler(service UploadServiceInterface, batches BatchReader, validator *appmw.Validator, maxBytes int64, logger *slog.Logger) *UploadHandler {
	if validator == nil {
		validator = appmw.NewValidator()
	}
	if maxBytes <= 0 {
		maxBytes = config.MaxUploadBytes
	}
	return &UploadHandler{
		service:   service,
		batches:   batches,
		validator: validator,
		maxBytes:  maxBytes,
		logger:    logger.With(slog.String("handler", "upload")),
	}
}

// Routes mounts the upload routes
func (h *UploadHandler) Routes(r chi.Router) {
	r.Post("/upload/{fileType}", h.Upload)
	r.Get("/file-uploads", h.RecentUploads)
}

// Upload handles POST /api/upload/{fileType}
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	target := uploadTarget{FileType: chi.URLParam(r, "fileType")}
	if err := h.validator.ValidateStruct(target); err != nil {
		h.fail(w, r, "Invalid file type")
		return
	}

	if r.ContentLength > h.maxBytes {
		h.fail(w, r, fmt.Sprintf("Error processing file: upload exceeds %d bytes", h.maxBytes))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			h.fail(w, r, "Error processing file: "+err.Error())
		case r.MultipartForm != nil && len(r.MultipartForm.Value[uploadField]) > 0:
			// a file input submitted with nothing chosen arrives as a plain value
			h.fail(w, r, "No file selected")
		default:
			h.fail(w, r, "No file provided")
		}
		return
	}
	defer file.Close()

	upload := uploadFile{Filename: header.Filename}
	if upload.Filename == "" {
		h.fail(w, r, "No file selected")
		return
	}
	if err := h.validator.ValidateStruct(upload); err != nil {
		h.fail(w, r, "Error processing file: "+err.Error())
		return
	}

	rec, err := h.service.Upload(ctx, domain.DatasetKind(target.FileType), upload.Filename, file)
	if err != nil {
		h.logger.WarnContext(ctx, "Upload rejected",
			slog.String("request_id", middleware.GetReqID(ctx)),
			slog.String("file_type", target.FileType),
			slog.String("error", err.Error()))
		h.fail(w, r, "Error processing file: "+services.ErrorText(err))
		return
	}

	render.JSON(w, r, map[string]string{
		"message": capitalize(target.FileType) + " file uploaded successfully",
		"id":      rec.ID,
	})
}

// RecentUploads handles GET /api/file-uploads
func (h *UploadHandler) RecentUploads(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.batches.RecentUploads())
}

func (h *UploadHandler) fail(w http.ResponseWriter, r *http.Request, message string) {
	render.Render(w, r, apierrors.NewLegacyError(http.StatusBadRequest, message))
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
