package models

// Counter is a named monotonic counter. The "player" counter hands out
// human-facing player numbers at registration.
type Counter struct {
	Name  string `gorm:"primaryKey;size:32" json:"name"`
	Count int    `gorm:"default:0" json:"count"`
}

// CounterPlayer is the counter row used for CustomPlayerID assignment.
const CounterPlayer = "player"
