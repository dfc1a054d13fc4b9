package model

import "time"

// Config is the singleton tracker configuration stored alongside the users.
// ResetHour and Timezone are informational: the reset engine is driven by an
// external trigger (or RESET_CRON), not by these fields.
type Config struct {
	ResetHour     int        `json:"resetHour"`
	Timezone      string     `json:"timezone"`
	MaxUnreadDays int        `json:"maxUnreadDays"`
	LastReset     *time.Time `json:"lastReset"`
}

// DefaultConfig is used whenever no backend holds a config yet.
func DefaultConfig() Config {
	return Config{
		ResetHour:     4,
		Timezone:      "Asia/Shanghai",
		MaxUnreadDays: 7,
		LastReset:     nil,
	}
}

// Snapshot is the full persisted document: every read and write moves the
// whole thing (no partial updates at the storage layer).
type Snapshot struct {
	Users  []User `json:"users"`
	Config Config `json:"config"`
}

// EmptySnapshot returns the sentinel dataset for unconfigured or empty backends.
func EmptySnapshot() *Snapshot {
	return &Snapshot{Users: []User{}, Config: DefaultConfig()}
}
