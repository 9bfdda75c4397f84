package services

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/voxplan/voxplan/internal/prioritization/domain/task"
	"github.com/voxplan/voxplan/internal/prioritization/domain/urgency"
)

// ScoringConfig tunes how the additive signals combine into a score. All
// terms are additive so no single factor can dominate unboundedly and each
// contribution stays readable in isolation.
type ScoringConfig struct {
	PriorityWeight  float64
	UrgencyWeight   float64
	ImpactWeight    float64
	AgeBonusPerDay  float64
	AgeBonusCapDays int
}

// DefaultScoringConfig returns the production weights.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		PriorityWeight:  100,
		UrgencyWeight:   25,
		ImpactWeight:    20,
		AgeBonusPerDay:  5,
		AgeBonusCapDays: 7,
	}
}

// scoreFeatures toggles the context-dependent terms. Suggest-next enables the
// energy match; the today plan enables the absolute-clock due-soon bonus.
type scoreFeatures struct {
	energyMatch  bool
	dueSoonClock bool
}

// Route says where the user has routed a task in the triage UI.
type Route string

const (
	RouteCalendar Route = "calendar"
	RouteNext     Route = "next"
	RouteLater    Route = "later"
)

// TodayPlan is the result of SuggestTodayPlan: the single best task plus up
// to two follow-ups.
type TodayPlan struct {
	NextTaskID   *uuid.UUID
	TodayTaskIDs []uuid.UUID
}

// ScoringEngine ranks candidate tasks for "what to do next" and "what to do
// today". It is pure and re-entrant; the clock is always passed in.
type ScoringEngine struct {
	config ScoringConfig
}

// NewScoringEngine creates a new engine with the given configuration.
func NewScoringEngine(cfg ScoringConfig) *ScoringEngine {
	return &ScoringEngine{config: cfg}
}

// Score computes the base score of a task: priority, urgency, impact, age and
// duration terms, plus the feature-gated context terms.
func (e *ScoringEngine) score(t task.Task, now time.Time, energy task.EnergyLevel, features scoreFeatures) float64 {
	score := float64(t.Priority) * e.config.PriorityWeight

	if rank := urgency.Classify(t, now).Rank; rank != urgency.RankNone {
		score += float64(4-rank) * e.config.UrgencyWeight
	}

	score += float64(t.Impact) * e.config.ImpactWeight

	ageDays := int(now.Sub(t.CreatedAt).Hours() / 24)
	if ageDays > e.config.AgeBonusCapDays {
		ageDays = e.config.AgeBonusCapDays
	}
	if ageDays > 0 {
		score += float64(ageDays) * e.config.AgeBonusPerDay
	}

	score += durationBonus(t.Duration())

	if features.energyMatch {
		score += energyMatchBonus(energy, t.Effort)
	}
	if features.dueSoonClock {
		score += dueSoonClockBonus(t, now)
	}

	return score
}

// durationBonus nudges short tasks upward and penalizes very long ones.
func durationBonus(minutes int) float64 {
	switch {
	case minutes <= 30:
		return 8
	case minutes <= 60:
		return 5
	case minutes <= 120:
		return 2
	case minutes > 180:
		return -10
	default:
		return 0
	}
}

// energyMatchBonus compares the user's current energy to the task's effort so
// a high-effort task is not surfaced when the user reports low energy. An
// unset side contributes nothing.
func energyMatchBonus(energy task.EnergyLevel, effort task.Effort) float64 {
	if energy == task.EnergyNone || effort == task.EffortNone {
		return 0
	}
	if energy == task.EnergyLow && effort == task.EffortHigh {
		return -20
	}
	distance := int(energy) - int(effort)
	if distance < 0 {
		distance = -distance
	}
	switch distance {
	case 0:
		return 30
	case 1:
		return 15
	default:
		return 0
	}
}

// dueSoonClockBonus rewards tasks whose due instant is close by absolute
// clock, independent of the classifier's rank buckets.
func dueSoonClockBonus(t task.Task, now time.Time) float64 {
	dueAt := t.DueAt()
	if dueAt == nil {
		return 0
	}
	hoursUntil := dueAt.Sub(now).Hours()
	switch {
	case hoursUntil > 0 && hoursUntil <= 24:
		return 20
	case hoursUntil > 0 && hoursUntil <= 72:
		return 10
	default:
		return 0
	}
}

// PickSuggestedNext returns the id of the best inbox task to do next, scored
// with the energy-match term. Returns false when no candidate exists. Ties go
// to the earliest task in input order.
func (e *ScoringEngine) PickSuggestedNext(tasks []task.Task, energy task.EnergyLevel, now time.Time) (uuid.UUID, bool) {
	var (
		bestID    uuid.UUID
		bestScore float64
		found     bool
	)
	for _, t := range tasks {
		if t.Status != task.StatusInbox {
			continue
		}
		s := e.score(t, now, energy, scoreFeatures{energyMatch: true})
		if !found || s > bestScore {
			bestID = t.ID
			bestScore = s
			found = true
		}
	}
	return bestID, found
}

// SuggestTodayPlan ranks candidates for today and returns the top task plus
// up to two follow-ups. A task is excluded only when it is both explicitly
// routed to the calendar and already fully scheduled; a task merely proposed
// for the calendar (no firm date and time yet) stays eligible.
func (e *ScoringEngine) SuggestTodayPlan(tasks []task.Task, routing map[uuid.UUID]Route, now time.Time) TodayPlan {
	type scored struct {
		id    uuid.UUID
		score float64
	}

	candidates := make([]scored, 0, len(tasks))
	for _, t := range tasks {
		if routing[t.ID] == RouteCalendar && t.FullyScheduled() {
			continue
		}
		s := e.score(t, now, task.EnergyNone, scoreFeatures{dueSoonClock: true})
		candidates = append(candidates, scored{id: t.ID, score: s})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var plan TodayPlan
	if len(candidates) == 0 {
		return plan
	}
	next := candidates[0].id
	plan.NextTaskID = &next
	for _, c := range candidates[1:] {
		if len(plan.TodayTaskIDs) == 2 {
			break
		}
		plan.TodayTaskIDs = append(plan.TodayTaskIDs, c.id)
	}
	return plan
}
