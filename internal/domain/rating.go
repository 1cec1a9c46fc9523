package domain

import "time"

// Rating records a user's score for a movie on a 1-10 scale.
type Rating struct {
	ID        int64
	UserID    int64
	MovieID   int64
	Score     int
	Review    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
