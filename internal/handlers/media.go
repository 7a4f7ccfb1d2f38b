package handlers

import (
	"errors"
	"net/http"

	"travel-story-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// MediaHandler handles image upload and removal
type MediaHandler struct {
	mediaService   *services.MediaService
	maxUploadBytes int64
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaService *services.MediaService, maxUploadBytes int64) *MediaHandler {
	return &MediaHandler{
		mediaService:   mediaService,
		maxUploadBytes: maxUploadBytes,
	}
}

// UploadImage handles POST /image-upload (multipart field "image")
func (h *MediaHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, "Image is too large", http.StatusBadRequest)
			return
		}
		respondError(w, "No image uploaded", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, "No image uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	imageURL, err := h.mediaService.UploadImage(r.Context(), file, header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		logEvent(err).Err(err).Str("filename", header.Filename).Msg("Failed to upload image")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().Str("image_url", imageURL).Msg("Image uploaded")

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"error":    false,
		"imageUrl": imageURL,
		"message":  "Image uploaded successfully",
	})
}

// DeleteImage handles DELETE /delete-image?imageUrl=
func (h *MediaHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("imageUrl")

	deleted, err := h.mediaService.DeleteImage(r.Context(), imageURL)
	if err != nil {
		logEvent(err).Err(err).Str("image_url", imageURL).Msg("Failed to delete image")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	// a missing image is reported in the body, not the status
	if !deleted {
		respondJSON(w, http.StatusOK, ErrorResponse{Error: true, Message: "Image not found"})
		return
	}

	log.Info().Str("image_url", imageURL).Msg("Image deleted")

	respondJSON(w, http.StatusOK, ErrorResponse{Error: false, Message: "Image deleted successfully"})
}
