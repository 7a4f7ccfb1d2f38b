package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel-story-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

const storyColumns = `id, title, story, visited_location, is_favourite, user_id, image_url, visited_date, created_on`

// Stories of one owner are always returned favourites first
const storyOrder = `ORDER BY is_favourite DESC, created_on DESC`

// StoryRepository handles database operations for travel stories.
// Every read and write is scoped to the owning user.
type StoryRepository struct {
	db DBTX
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(db DBTX) *StoryRepository {
	return &StoryRepository{db: db}
}

// Create creates a new story
func (r *StoryRepository) Create(ctx context.Context, story *models.TravelStory) error {
	query := `
		INSERT INTO travel_stories (id, title, story, visited_location, is_favourite, user_id, image_url, visited_date, created_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		story.ID, story.Title, story.Story, []string(story.VisitedLocation), story.IsFavourite,
		story.UserID, story.ImageURL, story.VisitedDate, story.CreatedOn,
	)
	if err != nil {
		return fmt.Errorf("failed to create story: %w", err)
	}
	return nil
}

// ListByUser retrieves all stories of a user
func (r *StoryRepository) ListByUser(ctx context.Context, userID string) ([]*models.TravelStory, error) {
	query := `SELECT ` + storyColumns + ` FROM travel_stories WHERE user_id = $1 ` + storyOrder
	return r.list(ctx, query, userID)
}

// Update overwrites the mutable fields of a story owned by story.UserID
func (r *StoryRepository) Update(ctx context.Context, story *models.TravelStory) (*models.TravelStory, error) {
	query := `
		UPDATE travel_stories
		SET title = $3, story = $4, visited_location = $5, image_url = $6, visited_date = $7
		WHERE id = $1 AND user_id = $2
		RETURNING ` + storyColumns
	updated, err := scanStory(r.db.QueryRow(ctx, query,
		story.ID, story.UserID, story.Title, story.Story, []string(story.VisitedLocation),
		story.ImageURL, story.VisitedDate,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update story: %w", err)
	}
	return updated, nil
}

// SetFavourite sets the favourite flag of a story owned by userID
func (r *StoryRepository) SetFavourite(ctx context.Context, id, userID string, isFavourite bool) (*models.TravelStory, error) {
	query := `
		UPDATE travel_stories SET is_favourite = $3
		WHERE id = $1 AND user_id = $2
		RETURNING ` + storyColumns
	updated, err := scanStory(r.db.QueryRow(ctx, query, id, userID, isFavourite))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update favourite: %w", err)
	}
	return updated, nil
}

// Delete deletes a story owned by userID and returns the deleted record
func (r *StoryRepository) Delete(ctx context.Context, id, userID string) (*models.TravelStory, error) {
	query := `DELETE FROM travel_stories WHERE id = $1 AND user_id = $2 RETURNING ` + storyColumns
	deleted, err := scanStory(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete story: %w", err)
	}
	return deleted, nil
}

// Search returns stories whose title, body or locations contain text, case-insensitively
func (r *StoryRepository) Search(ctx context.Context, userID, text string) ([]*models.TravelStory, error) {
	query := `SELECT ` + storyColumns + ` FROM travel_stories
		WHERE user_id = $1 AND (
			title ILIKE $2
			OR story ILIKE $2
			OR array_to_string(visited_location, ', ') ILIKE $2
		) ` + storyOrder
	return r.list(ctx, query, userID, "%"+escapeLike(text)+"%")
}

// ListByVisitedDate returns stories visited within [from, to] inclusive
func (r *StoryRepository) ListByVisitedDate(ctx context.Context, userID string, from, to time.Time) ([]*models.TravelStory, error) {
	query := `SELECT ` + storyColumns + ` FROM travel_stories
		WHERE user_id = $1 AND visited_date >= $2 AND visited_date <= $3 ` + storyOrder
	return r.list(ctx, query, userID, from, to)
}

func (r *StoryRepository) list(ctx context.Context, query string, args ...any) ([]*models.TravelStory, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get stories: %w", err)
	}
	defer rows.Close()

	stories := make([]*models.TravelStory, 0)
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		stories = append(stories, story)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stories: %w", err)
	}

	return stories, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStory(row rowScanner) (*models.TravelStory, error) {
	var (
		story     models.TravelStory
		locations []string
	)
	err := row.Scan(
		&story.ID, &story.Title, &story.Story, &locations, &story.IsFavourite,
		&story.UserID, &story.ImageURL, &story.VisitedDate, &story.CreatedOn,
	)
	if err != nil {
		return nil, err
	}
	story.VisitedLocation = locations
	return &story, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes text match literally inside an ILIKE pattern
func escapeLike(text string) string {
	return likeEscaper.Replace(text)
}
