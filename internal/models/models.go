package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// User represents a registered account
type User struct {
	ID           string    `json:"_id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedOn    time.Time `json:"createdOn"`
}

// PublicUser is the projection of a user returned on registration and login
type PublicUser struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Public returns the public-safe projection of the user
func (u *User) Public() PublicUser {
	return PublicUser{FullName: u.FullName, Email: u.Email}
}

// TravelStory represents a journal entry owned by a single user
type TravelStory struct {
	ID              string    `json:"_id"`
	Title           string    `json:"title"`
	Story           string    `json:"story"`
	VisitedLocation Locations `json:"visitedLocation"`
	IsFavourite     bool      `json:"isFavourite"`
	UserID          string    `json:"userId"`
	CreatedOn       time.Time `json:"createdOn"`
	ImageURL        string    `json:"imageUrl"`
	VisitedDate     time.Time `json:"visitedDate"`
}

// Locations is an ordered list of place names. It decodes from either a JSON array
// of strings or a single comma-joined string.
type Locations []string

// UnmarshalJSON implements json.Unmarshaler
func (l *Locations) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = cleanLocations(list)
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("visitedLocation must be a string or an array of strings")
	}
	*l = cleanLocations(strings.Split(joined, ","))
	return nil
}

// MarshalJSON always encodes an array, never null
func (l Locations) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func cleanLocations(in []string) Locations {
	out := make(Locations, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// EpochMillis is a point in time carried as milliseconds since the Unix epoch.
// It decodes from a JSON integer or a numeric string; Valid is false when absent.
type EpochMillis struct {
	Time  time.Time
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (e *EpochMillis) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*e = EpochMillis{}
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	if raw == "" {
		*e = EpochMillis{}
		return nil
	}
	t, err := ParseEpochMillis(raw)
	if err != nil {
		return err
	}
	*e = EpochMillis{Time: t, Valid: true}
	return nil
}

// MaxEpochMillis bounds accepted timestamps to ±100,000,000 days around the epoch
const MaxEpochMillis = 8_640_000_000_000_000

// ParseEpochMillis converts a decimal string of epoch milliseconds into a UTC time
func ParseEpochMillis(s string) (time.Time, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a timestamp in epoch milliseconds", s)
	}
	if ms > MaxEpochMillis || ms < -MaxEpochMillis {
		return time.Time{}, fmt.Errorf("%q is out of the supported date range", s)
	}
	return time.UnixMilli(ms).UTC(), nil
}
