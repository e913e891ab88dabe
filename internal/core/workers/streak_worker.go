package workers

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

const queueSize = 100

type StreakRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Streak, error)
	UpdateStats(ctx context.Context, streak *domain.Streak) error
}

type CompletionRepository interface {
	ListByStreakID(ctx context.Context, streakID string) ([]*domain.Completion, error)
}

// Recorder receives job outcomes. *metrics.Metrics satisfies it.
type Recorder interface {
	JobProcessed(outcome string)
}

type StreakJob struct {
	StreakID string
}

// StreakWorker recomputes a streak's derived counters after its completions change.
type StreakWorker struct {
	streakRepo     StreakRepository
	completionRepo CompletionRepository
	jobs           chan StreakJob
	now            func() time.Time
	loc            *time.Location
	recorder       Recorder
}

func NewStreakWorker(sRepo StreakRepository, cRepo CompletionRepository) *StreakWorker {
	return &StreakWorker{
		streakRepo:     sRepo,
		completionRepo: cRepo,
		jobs:           make(chan StreakJob, queueSize),
		now:            time.Now,
		loc:            time.UTC,
	}
}

// WithClock sets the clock and timezone used to decide which day is "today".
func (w *StreakWorker) WithClock(now func() time.Time, loc *time.Location) *StreakWorker {
	if now != nil {
		w.now = now
	}
	if loc != nil {
		w.loc = loc
	}
	return w
}

func (w *StreakWorker) WithRecorder(r Recorder) *StreakWorker {
	w.recorder = r
	return w
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("[WORKER] Streak Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("[WORKER] Streak Worker shutting down...")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(streakID string) {
	select {
	case w.jobs <- StreakJob{StreakID: streakID}:
	default:
		w.record("dropped")
		log.Printf("[WORKER] Queue full! Dropping job for streak %s", streakID)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	streak, err := w.streakRepo.GetByID(ctx, job.StreakID)
	if err != nil {
		w.record("failed")
		log.Printf("[WORKER] Error fetching streak %s: %v", job.StreakID, err)
		return
	}

	completions, err := w.completionRepo.ListByStreakID(ctx, job.StreakID)
	if err != nil {
		w.record("failed")
		log.Printf("[WORKER] Error fetching completions for %s: %v", job.StreakID, err)
		return
	}

	today := domain.Today(w.now(), w.loc)
	current, longest, total := calculateStreaks(completions, today)

	if streak.CurrentStreak == current && streak.LongestStreak == longest && streak.DaysCompleted == total {
		w.record("unchanged")
		return
	}

	if err := streak.SetStats(current, longest, total); err != nil {
		w.record("failed")
		log.Printf("[WORKER] Invalid counters for %s: %v", job.StreakID, err)
		return
	}
	if err := w.streakRepo.UpdateStats(ctx, streak); err != nil {
		w.record("failed")
		log.Printf("[WORKER] Failed to update streak %s: %v", job.StreakID, err)
		return
	}

	w.record("updated")
	log.Printf("[WORKER] Streak updated for %s: Current=%d, Longest=%d, Total=%d", streak.Name, current, longest, total)
}

func (w *StreakWorker) record(outcome string) {
	if w.recorder != nil {
		w.recorder.JobProcessed(outcome)
	}
}

// calculateStreaks returns the current run, the longest run and the number of distinct
// completed days. The current run is still alive if its last day is today or yesterday.
func calculateStreaks(completions []*domain.Completion, today domain.Date) (int, int, int) {
	if len(completions) == 0 {
		return 0, 0, 0
	}

	uniqueDays := make(map[domain.Date]bool)
	var sortedDates []domain.Date

	for _, c := range completions {
		if c == nil || c.DateCompleted.After(today) {
			continue
		}
		if !uniqueDays[c.DateCompleted] {
			uniqueDays[c.DateCompleted] = true
			sortedDates = append(sortedDates, c.DateCompleted)
		}
	}

	if len(sortedDates) == 0 {
		return 0, 0, 0
	}

	sort.Slice(sortedDates, func(i, j int) bool {
		return sortedDates[i].After(sortedDates[j])
	})

	currentStreak := 0
	if sortedDates[0].DaysUntil(today) <= 1 {
		currentStreak = 1
		for i := 0; i < len(sortedDates)-1; i++ {
			if sortedDates[i+1].DaysUntil(sortedDates[i]) == 1 {
				currentStreak++
			} else {
				break
			}
		}
	}

	longestStreak := 0
	tempStreak := 1

	for i := 0; i < len(sortedDates)-1; i++ {
		if sortedDates[i+1].DaysUntil(sortedDates[i]) == 1 {
			tempStreak++
		} else {
			if tempStreak > longestStreak {
				longestStreak = tempStreak
			}
			tempStreak = 1
		}
	}
	if tempStreak > longestStreak {
		longestStreak = tempStreak
	}

	return currentStreak, longestStreak, len(sortedDates)
}
