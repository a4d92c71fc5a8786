package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/service/file"
	"github.com/go-chi/chi/v5"
)

type UploadHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
}

type uploadHandlerImpl struct {
	fileService   file.FileService
	maxUploadSize int64
}

func NewUploadHandler(fileService file.FileService, maxUploadSize int64) UploadHandler {
	return &uploadHandlerImpl{
		fileService:   fileService,
		maxUploadSize: maxUploadSize,
	}
}

// Upload stores the multipart "file" field under the {key} partition
func (h *uploadHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		response.HandleError(w, apperror.ErrFileNotUploaded)
		return
	}
	defer f.Close()

	result, err := h.fileService.Upload(r.Context(), chi.URLParam(r, "key"), f, header.Filename, header.Size)
	if err != nil {
		slog.Error("Upload error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "File uploaded successfully", result)
}
