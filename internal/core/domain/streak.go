package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrStreakNameEmpty     = errors.New("streak name cannot be empty")
	ErrStreakNameTooLong   = errors.New("streak name is too long (max 255 chars)")
	ErrStreakInvalidUserID = errors.New("invalid user id")
	ErrInvalidColor        = errors.New("invalid color (must be one of the palette names)")
	ErrInvalidStreakStats  = errors.New("streak counters cannot be negative")
	ErrStreakColorTaken    = errors.New("another streak already uses this color")
)

const (
	MaxStreakNameLen = 255
)

type Streak struct {
	ID            string       `json:"id" db:"id"`
	UserID        string       `json:"user_id" db:"user_id"`
	Name          string       `json:"name" db:"name"`
	Color         Color        `json:"color" db:"color"`
	IsActive      bool         `json:"is_active" db:"is_active"`
	StartDate     Date         `json:"start_date" db:"start_date"`
	CurrentStreak int          `json:"current_streak" db:"current_streak"`
	LongestStreak int          `json:"longest_streak" db:"longest_streak"`
	DaysCompleted int          `json:"days_completed" db:"days_completed"`
	Completions   []Completion `json:"completions" db:"-"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" db:"updated_at"`
}

func validateStreak(name, color string) (string, Color, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", "", ErrStreakNameEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxStreakNameLen {
		return "", "", ErrStreakNameTooLong
	}

	c, ok := ParseColor(color)
	if !ok {
		return "", "", ErrInvalidColor
	}

	return trimmed, c, nil
}

func NewStreak(userID, name, color string, startDate Date) (*Streak, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrStreakInvalidUserID
	}

	cleanName, c, err := validateStreak(name, color)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if startDate.IsZero() {
		startDate = DateOf(now)
	}

	return &Streak{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        cleanName,
		Color:       c,
		IsActive:    true,
		StartDate:   startDate,
		Completions: []Completion{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *Streak) Update(name, color string, isActive bool) error {
	cleanName, c, err := validateStreak(name, color)
	if err != nil {
		return err
	}

	s.Name = cleanName
	s.Color = c
	s.IsActive = isActive
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetStats stores the derived counters computed by the streak worker.
func (s *Streak) SetStats(current, longest, total int) error {
	if current < 0 || longest < 0 || total < 0 {
		return ErrInvalidStreakStats
	}
	s.CurrentStreak = current
	s.LongestStreak = longest
	s.DaysCompleted = total
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// CompletionDates returns the set of days this streak was completed on.
func (s *Streak) CompletionDates() map[Date]struct{} {
	set := make(map[Date]struct{}, len(s.Completions))
	for _, c := range s.Completions {
		set[c.DateCompleted] = struct{}{}
	}
	return set
}

// RunLapsed reports whether the stored current run can no longer be alive on ref.
func (s *Streak) RunLapsed(ref Date) bool {
	return s.CurrentStreak > 0 && !s.HasCompletionOn(ref) && !s.HasCompletionOn(ref.AddDays(-1))
}

func (s *Streak) HasCompletionOn(d Date) bool {
	for _, c := range s.Completions {
		if c.DateCompleted == d {
			return true
		}
	}
	return false
}
