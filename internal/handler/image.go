package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chukanavi/chukanavi/internal/auth"
	"github.com/chukanavi/chukanavi/internal/middleware"
	"github.com/chukanavi/chukanavi/internal/model"
	"github.com/chukanavi/chukanavi/internal/service"
)

// ImageHandler handles HTTP requests for restaurant image operations.
type ImageHandler struct {
	svc           *service.ImageService
	maxUploadSize int64
	logger        *slog.Logger
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(svc *service.ImageService, maxUploadSize int64, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{
		svc:           svc,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// List handles GET /api/restaurants/{id}/images.
func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "id")
	if restaurantID == "" {
		writeError(w, http.StatusBadRequest, "Restaurant ID is required")
		return
	}

	images, err := h.svc.List(r.Context(), restaurantID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, model.GroupImages(images))
}

// Upload handles POST /api/restaurants/{id}/images.
// Expects multipart form data with an "image" file part and a
// "category" field.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "id")
	if restaurantID == "" {
		writeError(w, http.StatusBadRequest, "Restaurant ID is required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	if err := middleware.ValidateFileName(header.Filename); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if ct := header.Header.Get("Content-Type"); ct != "" {
		if err := middleware.ValidateImageMIMEType(ct); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	image, err := h.svc.Upload(r.Context(), service.UploadImageInput{
		RestaurantID: restaurantID,
		Category:     model.ImageCategory(r.FormValue("category")),
		File:         file,
		FileName:     header.Filename,
		FileSize:     header.Size,
		MimeType:     header.Header.Get("Content-Type"),
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("image_uploaded",
		slog.String("image_id", image.ID),
		slog.String("restaurant_id", restaurantID),
		slog.String("category", string(image.Category)),
	)
	writeSuccess(w, http.StatusCreated, image)
}

// Delete handles DELETE /api/restaurants/{id}/images?imageId={imageID}.
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	imageID := r.URL.Query().Get("imageId")
	if imageID == "" {
		writeError(w, http.StatusBadRequest, "imageId parameter is required")
		return
	}

	if err := h.svc.Delete(r.Context(), imageID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("image_deleted", slog.String("image_id", imageID))
	writeMessage(w, http.StatusOK, "Image deleted")
}

// handleServiceError maps image service errors to HTTP responses.
func (h *ImageHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRestaurantNotFound):
		writeError(w, http.StatusNotFound, "Restaurant not found")
	case errors.Is(err, service.ErrImageNotFound):
		writeError(w, http.StatusNotFound, "Image not found")
	case errors.Is(err, service.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, "Invalid image category")
	case errors.Is(err, service.ErrFileRequired):
		writeError(w, http.StatusBadRequest, "Image file is required")
	case errors.Is(err, service.ErrFileTooLarge):
		writeError(w, http.StatusBadRequest, "Image file too large")
	case errors.Is(err, auth.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, "You do not own this restaurant")
	default:
		h.logger.Error("image request failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
