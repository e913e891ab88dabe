package domain

import (
	"math"
	"sort"
	"unicode/utf8"
)

const (
	RollingWindowDays   = 30
	CompletionRateDays  = 7
	WeeklyTrendWeeks    = 8
	ComparisonNameRunes = 12
)

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// TaggedCompletion is a completion carrying the name and color of its streak.
type TaggedCompletion struct {
	Completion
	StreakName  string `json:"streak_name"`
	StreakColor Color  `json:"streak_color"`
}

type DayOfWeekCount struct {
	Day         string `json:"day"`
	Completions int    `json:"completions"`
}

type DailyCount struct {
	Date        Date   `json:"date"`
	Label       string `json:"label"`
	Completions int    `json:"completions"`
}

type WeeklyCount struct {
	WeekStart   Date   `json:"week_start"`
	Label       string `json:"week"`
	Completions int    `json:"completions"`
}

type StreakComparison struct {
	Name      string `json:"name"`
	FullName  string `json:"full_name"`
	Current   int    `json:"current"`
	Longest   int    `json:"longest"`
	Total     int    `json:"total"`
	Color     Color  `json:"color"`
	ColorName string `json:"color_name"`
}

// StreakSummary identifies a streak inside a snapshot without its completions.
type StreakSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Color         Color  `json:"color"`
	LongestStreak int    `json:"longest_streak"`
}

// StreakPerformance is one row of the per-streak health table.
type StreakPerformance struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     Color  `json:"color"`
	ColorName string `json:"color_name"`
	Current   int    `json:"current"`
	Longest   int    `json:"longest"`
	Total     int    `json:"total"`
	Health    int    `json:"health"`
}

// StatsSnapshot is recomputed from scratch on every call to Aggregate.
type StatsSnapshot struct {
	ReferenceDate      Date               `json:"reference_date"`
	TotalStreaks       int                `json:"total_streaks"`
	TotalCompletions   int                `json:"total_completions"`
	TotalCurrentStreak int                `json:"total_current_streak"`
	LongestStreak      int                `json:"longest_streak"`
	BestStreak         *StreakSummary     `json:"best_streak,omitempty"`
	DayOfWeek          []DayOfWeekCount   `json:"day_of_week"`
	MostActiveDay      string             `json:"most_active_day"`
	Last30Days         []DailyCount       `json:"last_30_days"`
	StreakComparison   []StreakComparison `json:"streak_comparison"`
	CompletionRate     int                `json:"completion_rate"`
	WeeklyTrend        []WeeklyCount      `json:"weekly_trend"`
	CompletionsLast7   int                `json:"completions_last_7"`
	AllCompletions     []TaggedCompletion `json:"all_completions"`
}

// Aggregate derives the statistics snapshot for a set of streaks as seen on ref.
// It returns nil when there are no streaks and never mutates its input.
// Nil entries are skipped and do not count as streaks.
func Aggregate(input []*Streak, ref Date) *StatsSnapshot {
	streaks := presentStreaks(input)
	if len(streaks) == 0 {
		return nil
	}

	all := FlattenCompletions(streaks)
	histogram := DayOfWeekHistogram(all)

	snap := &StatsSnapshot{
		ReferenceDate:      ref,
		TotalStreaks:       len(streaks),
		TotalCompletions:   len(all),
		TotalCurrentStreak: sumCurrentStreaks(streaks),
		DayOfWeek:          histogram,
		MostActiveDay:      MostActiveDay(histogram),
		Last30Days:         RollingSeries(all, ref, RollingWindowDays),
		StreakComparison:   CompareStreaks(streaks),
		WeeklyTrend:        WeeklyTrend(all, ref, WeeklyTrendWeeks),
		AllCompletions:     all,
	}

	if best := BestStreak(streaks); best != nil {
		snap.LongestStreak = best.LongestStreak
		snap.BestStreak = &StreakSummary{
			ID:            best.ID,
			Name:          best.Name,
			Color:         best.Color,
			LongestStreak: best.LongestStreak,
		}
	}

	snap.CompletionsLast7 = CountInWindow(all, ref, CompletionRateDays)
	snap.CompletionRate = CompletionRate(snap.CompletionsLast7, len(streaks), CompletionRateDays)

	return snap
}

// FlattenCompletions merges every streak's completions, oldest first.
// Same-day completions keep input order (streak order, then completion order).
func FlattenCompletions(streaks []*Streak) []TaggedCompletion {
	var all []TaggedCompletion
	for _, s := range streaks {
		if s == nil {
			continue
		}
		for _, c := range s.Completions {
			all = append(all, TaggedCompletion{
				Completion:  c,
				StreakName:  s.Name,
				StreakColor: s.Color,
			})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].DateCompleted.Before(all[j].DateCompleted)
	})

	if all == nil {
		return []TaggedCompletion{}
	}
	return all
}

// DayOfWeekHistogram buckets completions Monday..Sunday.
func DayOfWeekHistogram(completions []TaggedCompletion) []DayOfWeekCount {
	var counts [7]int
	for _, c := range completions {
		counts[c.Weekday()]++
	}

	out := make([]DayOfWeekCount, 7)
	for i, label := range weekdayLabels {
		out[i] = DayOfWeekCount{Day: label, Completions: counts[i]}
	}
	return out
}

// MostActiveDay returns the label of the fullest bucket; the earliest day wins ties.
func MostActiveDay(histogram []DayOfWeekCount) string {
	if len(histogram) == 0 {
		return ""
	}
	best := histogram[0]
	for _, d := range histogram[1:] {
		if d.Completions > best.Completions {
			best = d
		}
	}
	return best.Day
}

// RollingSeries counts completions for each of the n days ending at ref, oldest first.
func RollingSeries(completions []TaggedCompletion, ref Date, n int) []DailyCount {
	if n <= 0 {
		return []DailyCount{}
	}

	byDate := countByDate(completions)

	out := make([]DailyCount, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := ref.AddDays(-i)
		out = append(out, DailyCount{
			Date:        day,
			Label:       day.Label(),
			Completions: byDate[day],
		})
	}
	return out
}

// CountInWindow counts completions dated within the n days ending at ref.
func CountInWindow(completions []TaggedCompletion, ref Date, n int) int {
	if n <= 0 {
		return 0
	}
	first := ref.AddDays(-(n - 1))
	count := 0
	for _, c := range completions {
		d := c.DateCompleted
		if !d.Before(first) && !d.After(ref) {
			count++
		}
	}
	return count
}

// WeeklyTrend counts completions per Monday-Sunday week for the given number of weeks,
// the last one being the week that contains ref. Oldest week first.
func WeeklyTrend(completions []TaggedCompletion, ref Date, weeks int) []WeeklyCount {
	if weeks <= 0 {
		return []WeeklyCount{}
	}

	currentWeek := ref.StartOfWeek()
	firstWeek := currentWeek.AddDays(-7 * (weeks - 1))

	counts := make([]int, weeks)
	for _, c := range completions {
		offset := firstWeek.DaysUntil(c.DateCompleted)
		if offset < 0 {
			continue
		}
		idx := offset / 7
		if idx >= weeks {
			continue
		}
		counts[idx]++
	}

	out := make([]WeeklyCount, weeks)
	for i := range out {
		start := firstWeek.AddDays(7 * i)
		out[i] = WeeklyCount{
			WeekStart:   start,
			Label:       start.Label(),
			Completions: counts[i],
		}
	}
	return out
}

// CompareStreaks ranks streaks by current streak length, longest first.
func CompareStreaks(streaks []*Streak) []StreakComparison {
	out := make([]StreakComparison, 0, len(streaks))
	for _, s := range streaks {
		if s == nil {
			continue
		}
		out = append(out, StreakComparison{
			Name:      TruncateName(s.Name, ComparisonNameRunes),
			FullName:  s.Name,
			Current:   s.CurrentStreak,
			Longest:   s.LongestStreak,
			Total:     s.DaysCompleted,
			Color:     s.Color,
			ColorName: s.Color.DisplayName(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Current > out[j].Current
	})
	return out
}

// TruncateName shortens names longer than limit runes and appends "...".
func TruncateName(name string, limit int) string {
	if utf8.RuneCountInString(name) <= limit {
		return name
	}
	runes := []rune(name)
	return string(runes[:limit]) + "..."
}

// BestStreak returns the first streak holding the highest longest-streak value.
func BestStreak(streaks []*Streak) *Streak {
	var best *Streak
	for _, s := range streaks {
		if s == nil {
			continue
		}
		if best == nil || s.LongestStreak > best.LongestStreak {
			best = s
		}
	}
	return best
}

// CompletionRate is the share of possible completions in the window that happened.
func CompletionRate(completions, streaks, days int) int {
	possible := streaks * days
	if possible <= 0 {
		return 0
	}
	return clampPercent(roundHalfUp(100 * float64(completions) / float64(possible)))
}

// HealthPercent compares a streak's current run with its best one.
func HealthPercent(current, longest int) int {
	if current > 0 && longest > 0 {
		return clampPercent(roundHalfUp(100 * float64(current) / float64(longest)))
	}
	if current > 0 {
		return 100
	}
	return 0
}

// Performance builds health rows in input order.
func Performance(streaks []*Streak) []StreakPerformance {
	out := make([]StreakPerformance, 0, len(streaks))
	for _, s := range streaks {
		if s == nil {
			continue
		}
		out = append(out, StreakPerformance{
			ID:        s.ID,
			Name:      s.Name,
			Color:     s.Color,
			ColorName: s.Color.DisplayName(),
			Current:   s.CurrentStreak,
			Longest:   s.LongestStreak,
			Total:     s.DaysCompleted,
			Health:    HealthPercent(s.CurrentStreak, s.LongestStreak),
		})
	}
	return out
}

// SettleCurrentRuns returns the streaks as seen on ref: a stored current run whose
// streak was completed neither on ref nor the day before is reported as zero.
// Lapsed streaks are copied; the input is left untouched.
func SettleCurrentRuns(streaks []*Streak, ref Date) []*Streak {
	out := make([]*Streak, 0, len(streaks))
	for _, s := range streaks {
		if s == nil {
			continue
		}
		if s.RunLapsed(ref) {
			settled := *s
			settled.CurrentStreak = 0
			s = &settled
		}
		out = append(out, s)
	}
	return out
}

func presentStreaks(streaks []*Streak) []*Streak {
	out := make([]*Streak, 0, len(streaks))
	for _, s := range streaks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func sumCurrentStreaks(streaks []*Streak) int {
	total := 0
	for _, s := range streaks {
		if s != nil {
			total += s.CurrentStreak
		}
	}
	return total
}

func countByDate(completions []TaggedCompletion) map[Date]int {
	byDate := make(map[Date]int, len(completions))
	for _, c := range completions {
		byDate[c.DateCompleted]++
	}
	return byDate
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clampPercent(p int) int {
	return min(max(p, 0), 100)
}
