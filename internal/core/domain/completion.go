package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCompletion   = errors.New("invalid completion data")
	ErrDuplicateCompletion = errors.New("streak already has a completion on this date")
)

// Completion records one day on which a streak's habit was done.
// It is immutable: it is only ever created or deleted.
type Completion struct {
	ID            string    `json:"id" db:"id"`
	StreakID      string    `json:"streak" db:"streak_id"`
	UserID        string    `json:"user_id" db:"user_id"`
	DateCompleted Date      `json:"date_completed" db:"date_completed"`
	DayOfWeek     int       `json:"day_of_week" db:"day_of_week"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

func NewCompletion(streakID, userID string, date Date) *Completion {
	return &Completion{
		ID:            uuid.New().String(),
		StreakID:      streakID,
		UserID:        userID,
		DateCompleted: date,
		DayOfWeek:     date.ISOWeekday(),
		CreatedAt:     time.Now().UTC(),
	}
}

func (c *Completion) Validate() error {
	if strings.TrimSpace(c.StreakID) == "" {
		return fmt.Errorf("%w: streak is required", ErrInvalidCompletion)
	}
	if strings.TrimSpace(c.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidCompletion)
	}
	if c.DateCompleted.IsZero() {
		return fmt.Errorf("%w: date_completed is required", ErrInvalidCompletion)
	}
	return nil
}

// Weekday is derived from the date; DayOfWeek is stored only for clients.
func (c Completion) Weekday() int {
	return c.DateCompleted.ISOWeekday()
}
