package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// UserID is the canonical user identifier. Historical snapshots (and some
// clients) carry ids as JSON strings, so unmarshalling accepts both forms;
// everything past the decoding boundary works with the numeric value only.
type UserID int64

// ParseUserID normalizes a path or query parameter into a UserID.
func ParseUserID(s string) (UserID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return UserID(n), nil
}

// UnmarshalJSON accepts both a JSON number and a numeric string.
func (id *UserID) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*id = UserID(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("user id must be a number or numeric string: %s", data)
	}
	parsed, err := ParseUserID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// User is one tracked reader.
type User struct {
	ID         UserID    `json:"id"`
	Name       string    `json:"name"`
	IsRead     bool      `json:"isRead"`
	UnreadDays int       `json:"unreadDays"`
	Frozen     bool      `json:"frozen"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UserPatch is a partial user update; nil fields are left untouched.
type UserPatch struct {
	Name       *string `json:"name"`
	IsRead     *bool   `json:"isRead"`
	UnreadDays *int    `json:"unreadDays"`
	Frozen     *bool   `json:"frozen"`
}

// Apply merges the patch into the user.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.IsRead != nil {
		u.IsRead = *p.IsRead
	}
	if p.UnreadDays != nil {
		u.UnreadDays = *p.UnreadDays
	}
	if p.Frozen != nil {
		u.Frozen = *p.Frozen
	}
}
