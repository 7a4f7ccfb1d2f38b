package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel-story-backend/internal/models"
	"travel-story-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StoryStore persists travel stories scoped to their owner
type StoryStore interface {
	Create(ctx context.Context, story *models.TravelStory) error
	ListByUser(ctx context.Context, userID string) ([]*models.TravelStory, error)
	Update(ctx context.Context, story *models.TravelStory) (*models.TravelStory, error)
	SetFavourite(ctx context.Context, id, userID string, isFavourite bool) (*models.TravelStory, error)
	Delete(ctx context.Context, id, userID string) (*models.TravelStory, error)
	Search(ctx context.Context, userID, text string) ([]*models.TravelStory, error)
	ListByVisitedDate(ctx context.Context, userID string, from, to time.Time) ([]*models.TravelStory, error)
}

// ImageRemover deletes a stored image by its public URL
type ImageRemover interface {
	DeleteImage(ctx context.Context, imageURL string) (bool, error)
}

// StoryInput carries the client-supplied fields of a story
type StoryInput struct {
	Title           string             `json:"title"`
	Story           string             `json:"story"`
	VisitedLocation models.Locations   `json:"visitedLocation"`
	ImageURL        string             `json:"imageUrl"`
	VisitedDate     models.EpochMillis `json:"visitedDate"`
}

func (in *StoryInput) complete() bool {
	return strings.TrimSpace(in.Title) != "" &&
		strings.TrimSpace(in.Story) != "" &&
		len(in.VisitedLocation) > 0 &&
		in.VisitedDate.Valid
}

// StoryService implements the travel story operations. Every operation is scoped
// to the authenticated user; stories of other users behave as if absent.
type StoryService struct {
	storyRepo      StoryStore
	images         ImageRemover
	placeholderURL string
}

// NewStoryService creates a new story service
func NewStoryService(storyRepo StoryStore, images ImageRemover, placeholderURL string) *StoryService {
	return &StoryService{
		storyRepo:      storyRepo,
		images:         images,
		placeholderURL: placeholderURL,
	}
}

// AddStory creates a story owned by userID
func (s *StoryService) AddStory(ctx context.Context, userID string, in StoryInput) (*models.TravelStory, error) {
	if !in.complete() || strings.TrimSpace(in.ImageURL) == "" {
		return nil, validationError("Please fill all fields")
	}

	story := &models.TravelStory{
		ID:              uuid.New().String(),
		Title:           in.Title,
		Story:           in.Story,
		VisitedLocation: in.VisitedLocation,
		UserID:          userID,
		ImageURL:        in.ImageURL,
		VisitedDate:     in.VisitedDate.Time,
		CreatedOn:       time.Now().UTC(),
	}

	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}
	return story, nil
}

// ListStories returns all stories of userID, favourites first
func (s *StoryService) ListStories(ctx context.Context, userID string) ([]*models.TravelStory, error) {
	return s.storyRepo.ListByUser(ctx, userID)
}

// EditStory overwrites the mutable fields of a story. An empty image URL is
// replaced by the placeholder image.
func (s *StoryService) EditStory(ctx context.Context, userID, storyID string, in StoryInput) (*models.TravelStory, error) {
	if !in.complete() {
		return nil, validationError("All fields are required")
	}
	if !validID(storyID) {
		return nil, storyNotFound()
	}

	imageURL := strings.TrimSpace(in.ImageURL)
	if imageURL == "" {
		imageURL = s.placeholderURL
	}

	story, err := s.storyRepo.Update(ctx, &models.TravelStory{
		ID:              storyID,
		UserID:          userID,
		Title:           in.Title,
		Story:           in.Story,
		VisitedLocation: in.VisitedLocation,
		ImageURL:        imageURL,
		VisitedDate:     in.VisitedDate.Time,
	})
	if err != nil {
		return nil, mapStoryError(err, "failed to update story")
	}
	return story, nil
}

// DeleteStory removes a story, then makes a best-effort attempt to remove its image.
// Image removal failures are logged and never undo the deletion.
func (s *StoryService) DeleteStory(ctx context.Context, userID, storyID string) (*models.TravelStory, error) {
	if !validID(storyID) {
		return nil, storyNotFound()
	}

	story, err := s.storyRepo.Delete(ctx, storyID, userID)
	if err != nil {
		return nil, mapStoryError(err, "failed to delete story")
	}

	s.removeImage(ctx, story)
	return story, nil
}

func (s *StoryService) removeImage(ctx context.Context, story *models.TravelStory) {
	if s.images == nil || story.ImageURL == "" || story.ImageURL == s.placeholderURL {
		return
	}

	found, err := s.images.DeleteImage(ctx, story.ImageURL)
	if err != nil {
		log.Warn().
			Err(err).
			Str("story_id", story.ID).
			Str("image_url", story.ImageURL).
			Msg("Failed to delete story image")
		return
	}
	if !found {
		log.Debug().
			Str("story_id", story.ID).
			Str("image_url", story.ImageURL).
			Msg("Story image already absent")
	}
}

// SetFavourite sets the favourite flag of a story
func (s *StoryService) SetFavourite(ctx context.Context, userID, storyID string, isFavourite bool) (*models.TravelStory, error) {
	if !validID(storyID) {
		return nil, storyNotFound()
	}

	story, err := s.storyRepo.SetFavourite(ctx, storyID, userID, isFavourite)
	if err != nil {
		return nil, mapStoryError(err, "failed to update favourite")
	}
	return story, nil
}

// Search returns stories whose title, body or location contains query, ignoring case
func (s *StoryService) Search(ctx context.Context, userID, query string) ([]*models.TravelStory, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationError("query is required")
	}
	return s.storyRepo.Search(ctx, userID, query)
}

// FilterByDateRange returns stories visited within [start, end]. An inverted range matches nothing.
func (s *StoryService) FilterByDateRange(ctx context.Context, userID string, start, end time.Time) ([]*models.TravelStory, error) {
	if start.After(end) {
		return []*models.TravelStory{}, nil
	}
	return s.storyRepo.ListByVisitedDate(ctx, userID, start, end)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func storyNotFound() error {
	return notFoundError("Travel story not found")
}

func mapStoryError(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return storyNotFound()
	}
	return fmt.Errorf("%s: %w", msg, err)
}
