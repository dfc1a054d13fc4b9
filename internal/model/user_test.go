package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserIDUnmarshalNumber(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id": 42, "name": "A"}`), &u))
	assert.Equal(t, UserID(42), u.ID)
}

func TestUserIDUnmarshalNumericString(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id": "42", "name": "A"}`), &u))
	assert.Equal(t, UserID(42), u.ID)
}

func TestUserIDUnmarshalRejectsGarbage(t *testing.T) {
	var u User
	assert.Error(t, json.Unmarshal([]byte(`{"id": "forty-two"}`), &u))
	assert.Error(t, json.Unmarshal([]byte(`{"id": true}`), &u))
}

func TestParseUserID(t *testing.T) {
	id, err := ParseUserID("1700000000000")
	require.NoError(t, err)
	assert.Equal(t, UserID(1700000000000), id)

	_, err = ParseUserID("abc")
	assert.Error(t, err)
}

func TestUserPatchApply(t *testing.T) {
	u := User{Name: "A", IsRead: true, UnreadDays: 3, Frozen: false}

	name := "B"
	isRead := false
	days := 5
	frozen := true
	UserPatch{Name: &name, IsRead: &isRead, UnreadDays: &days, Frozen: &frozen}.Apply(&u)

	assert.Equal(t, "B", u.Name)
	assert.False(t, u.IsRead)
	assert.Equal(t, 5, u.UnreadDays)
	assert.True(t, u.Frozen)

	// nil fields leave values untouched
	UserPatch{}.Apply(&u)
	assert.Equal(t, "B", u.Name)
	assert.Equal(t, 5, u.UnreadDays)
}
