package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocations_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Locations
	}{
		{"array", `["Paris", "Lyon"]`, Locations{"Paris", "Lyon"}},
		{"comma joined", `"Paris, Lyon ,Nice"`, Locations{"Paris", "Lyon", "Nice"}},
		{"blank entries dropped", `["  ", "Rome"]`, Locations{"Rome"}},
		{"empty string", `""`, Locations{}},
		{"null", `null`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Locations
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocations_UnmarshalJSON_Invalid(t *testing.T) {
	var got Locations
	assert.Error(t, json.Unmarshal([]byte(`42`), &got))
	assert.Error(t, json.Unmarshal([]byte(`[1, 2]`), &got))
}

func TestLocations_MarshalNil(t *testing.T) {
	data, err := json.Marshal(TravelStory{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"visitedLocation":[]`)
}

func TestUser_HashNeverSerialized(t *testing.T) {
	u := &User{ID: "1", FullName: "Ana", Email: "ana@x.com", PasswordHash: "$2a$10$secret"}

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	assert.Equal(t, PublicUser{FullName: "Ana", Email: "ana@x.com"}, u.Public())
}

func TestEpochMillis_UnmarshalJSON(t *testing.T) {
	var body struct {
		VisitedDate EpochMillis `json:"visitedDate"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"visitedDate": 1700000000000}`), &body))
	assert.True(t, body.VisitedDate.Valid)
	assert.Equal(t, int64(1700000000000), body.VisitedDate.Time.UnixMilli())

	require.NoError(t, json.Unmarshal([]byte(`{"visitedDate": "1700000000000"}`), &body))
	assert.Equal(t, int64(1700000000000), body.VisitedDate.Time.UnixMilli())

	body.VisitedDate = EpochMillis{}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))
	assert.False(t, body.VisitedDate.Valid)

	require.NoError(t, json.Unmarshal([]byte(`{"visitedDate": null}`), &body))
	assert.False(t, body.VisitedDate.Valid)

	assert.Error(t, json.Unmarshal([]byte(`{"visitedDate": "yesterday"}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"visitedDate": 1.5}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"visitedDate": 18448444073709551}`), &body))
}

func TestParseEpochMillis(t *testing.T) {
	got, err := ParseEpochMillis("0")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Unix(0, 0)))

	_, err = ParseEpochMillis("")
	assert.Error(t, err)

	got, err = ParseEpochMillis("8640000000000000")
	require.NoError(t, err)
	assert.Equal(t, int64(MaxEpochMillis), got.UnixMilli())

	got, err = ParseEpochMillis("-8640000000000000")
	require.NoError(t, err)
	assert.Equal(t, int64(-MaxEpochMillis), got.UnixMilli())

	for _, s := range []string{"8640000000000001", "-8640000000000001", "18448444073709551", "9000000000000000000"} {
		_, err := ParseEpochMillis(s)
		assert.Error(t, err, s)
	}
}
