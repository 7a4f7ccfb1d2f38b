// Package inmemory provides map-backed implementations of the user and story
// repositories with the same ownership and ordering rules as the Postgres ones.
// It backs service and handler tests.
package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"travel-story-backend/internal/models"
	"travel-story-backend/internal/repository"
)

// UserRepository keeps users in memory
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewUserRepository creates an empty user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]models.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

// StoryRepository keeps stories in memory
type StoryRepository struct {
	mu      sync.RWMutex
	stories map[string]models.TravelStory
}

// NewStoryRepository creates an empty story repository
func NewStoryRepository() *StoryRepository {
	return &StoryRepository{stories: make(map[string]models.TravelStory)}
}

func (r *StoryRepository) Create(ctx context.Context, story *models.TravelStory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stories[story.ID] = cloneStory(*story)
	return nil
}

func (r *StoryRepository) ListByUser(ctx context.Context, userID string) ([]*models.TravelStory, error) {
	return r.filter(userID, func(models.TravelStory) bool { return true }), nil
}

func (r *StoryRepository) Update(ctx context.Context, story *models.TravelStory) (*models.TravelStory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.owned(story.ID, story.UserID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	current.Title = story.Title
	current.Story = story.Story
	current.VisitedLocation = story.VisitedLocation
	current.ImageURL = story.ImageURL
	current.VisitedDate = story.VisitedDate
	r.stories[current.ID] = cloneStory(current)
	return &current, nil
}

func (r *StoryRepository) SetFavourite(ctx context.Context, id, userID string, isFavourite bool) (*models.TravelStory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.owned(id, userID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	current.IsFavourite = isFavourite
	r.stories[id] = current
	return &current, nil
}

func (r *StoryRepository) Delete(ctx context.Context, id, userID string) (*models.TravelStory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.owned(id, userID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.stories, id)
	return &current, nil
}

func (r *StoryRepository) Search(ctx context.Context, userID, text string) ([]*models.TravelStory, error) {
	needle := strings.ToLower(text)
	return r.filter(userID, func(s models.TravelStory) bool {
		return strings.Contains(strings.ToLower(s.Title), needle) ||
			strings.Contains(strings.ToLower(s.Story), needle) ||
			strings.Contains(strings.ToLower(strings.Join(s.VisitedLocation, ", ")), needle)
	}), nil
}

func (r *StoryRepository) ListByVisitedDate(ctx context.Context, userID string, from, to time.Time) ([]*models.TravelStory, error) {
	return r.filter(userID, func(s models.TravelStory) bool {
		return !s.VisitedDate.Before(from) && !s.VisitedDate.After(to)
	}), nil
}

func (r *StoryRepository) owned(id, userID string) (models.TravelStory, bool) {
	s, ok := r.stories[id]
	if !ok || s.UserID != userID {
		return models.TravelStory{}, false
	}
	return cloneStory(s), true
}

func (r *StoryRepository) filter(userID string, keep func(models.TravelStory) bool) []*models.TravelStory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.TravelStory, 0)
	for _, s := range r.stories {
		if s.UserID == userID && keep(s) {
			c := cloneStory(s)
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsFavourite != out[j].IsFavourite {
			return out[i].IsFavourite
		}
		return out[i].CreatedOn.After(out[j].CreatedOn)
	})
	return out
}

func cloneStory(s models.TravelStory) models.TravelStory {
	s.VisitedLocation = append(models.Locations(nil), s.VisitedLocation...)
	return s
}
