package handlers

import (
	"net/http"

	"travel-story-backend/internal/middleware"
	"travel-story-backend/internal/models"
	"travel-story-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// StoryHandler handles travel story HTTP requests
type StoryHandler struct {
	storyService *services.StoryService
	wsHub        *services.WSHub
}

// NewStoryHandler creates a new story handler
func NewStoryHandler(storyService *services.StoryService, wsHub *services.WSHub) *StoryHandler {
	return &StoryHandler{
		storyService: storyService,
		wsHub:        wsHub,
	}
}

// FavouriteRequest represents the request body for PUT /update-is-favourite/{id}
type FavouriteRequest struct {
	IsFavourite *bool `json:"isFavourite"`
}

type storyResponse struct {
	Error   bool                `json:"error"`
	Story   *models.TravelStory `json:"story"`
	Message string              `json:"message"`
}

type storiesResponse struct {
	Stories []*models.TravelStory `json:"stories"`
}

// AddStory handles POST /add-travel-story
func (h *StoryHandler) AddStory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.StoryInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	story, err := h.storyService.AddStory(ctx, userID, req)
	if err != nil {
		logEvent(err).Err(err).Str("user_id", userID).Msg("Failed to add story")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("story_id", story.ID).
		Msg("Story added")

	h.wsHub.NotifyStory(services.EventStoryCreated, story)

	respondJSON(w, http.StatusCreated, storyResponse{Story: story, Message: "Added Successfully"})
}

// GetAllStories handles GET /get-all-stories
func (h *StoryHandler) GetAllStories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	stories, err := h.storyService.ListStories(ctx, userID)
	if err != nil {
		logEvent(err).Err(err).Str("user_id", userID).Msg("Failed to list stories")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, storiesResponse{Stories: stories})
}

// EditStory handles PUT /edit-story/{id}
func (h *StoryHandler) EditStory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	storyID := chi.URLParam(r, "id")

	var req services.StoryInput
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	story, err := h.storyService.EditStory(ctx, userID, storyID, req)
	if err != nil {
		logEvent(err).
			Err(err).
			Str("user_id", userID).
			Str("story_id", storyID).
			Msg("Failed to edit story")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("story_id", storyID).
		Msg("Story updated")

	h.wsHub.NotifyStory(services.EventStoryUpdated, story)

	respondJSON(w, http.StatusOK, storyResponse{Story: story, Message: "Update Successful"})
}

// DeleteStory handles DELETE /delete-story/{id}
func (h *StoryHandler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	storyID := chi.URLParam(r, "id")

	story, err := h.storyService.DeleteStory(ctx, userID, storyID)
	if err != nil {
		logEvent(err).
			Err(err).
			Str("user_id", userID).
			Str("story_id", storyID).
			Msg("Failed to delete story")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("story_id", storyID).
		Msg("Story deleted")

	h.wsHub.NotifyStory(services.EventStoryDeleted, story)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"message": "Travel story deleted successfully",
	})
}

// UpdateIsFavourite handles PUT /update-is-favourite/{id}
func (h *StoryHandler) UpdateIsFavourite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	storyID := chi.URLParam(r, "id")

	var req FavouriteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.IsFavourite == nil {
		respondError(w, "isFavourite is required", http.StatusBadRequest)
		return
	}

	story, err := h.storyService.SetFavourite(ctx, userID, storyID, *req.IsFavourite)
	if err != nil {
		logEvent(err).
			Err(err).
			Str("user_id", userID).
			Str("story_id", storyID).
			Msg("Failed to update favourite")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	h.wsHub.NotifyStory(services.EventStoryUpdated, story)

	respondJSON(w, http.StatusOK, storyResponse{Story: story, Message: "Update Successful"})
}

// Search handles GET /search?query=
func (h *StoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	query := r.URL.Query().Get("query")

	stories, err := h.storyService.Search(ctx, userID, query)
	if err != nil {
		logEvent(err).Err(err).Str("user_id", userID).Msg("Failed to search stories")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, storiesResponse{Stories: stories})
}

// FilterByDate handles GET /travel-stories/filter?startDate=&endDate=
func (h *StoryHandler) FilterByDate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	start, err := models.ParseEpochMillis(r.URL.Query().Get("startDate"))
	if err != nil {
		respondError(w, "startDate: "+err.Error(), http.StatusBadRequest)
		return
	}
	end, err := models.ParseEpochMillis(r.URL.Query().Get("endDate"))
	if err != nil {
		respondError(w, "endDate: "+err.Error(), http.StatusBadRequest)
		return
	}

	stories, err := h.storyService.FilterByDateRange(ctx, userID, start, end)
	if err != nil {
		logEvent(err).Err(err).Str("user_id", userID).Msg("Failed to filter stories")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, storiesResponse{Stories: stories})
}
