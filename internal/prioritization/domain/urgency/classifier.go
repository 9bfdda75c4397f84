// Package urgency classifies a task's time pressure from its optional due
// date and time. Classification is pure: it is computed fresh against the
// caller-supplied clock on every call and is never cached on the task.
package urgency

import (
	"time"

	"github.com/voxplan/voxplan/internal/prioritization/domain/task"
)

// Status is the urgency category of a task.
type Status string

const (
	StatusNone     Status = "none"
	StatusOverdue  Status = "overdue"
	StatusSoon     Status = "soon"
	StatusToday    Status = "today"
	StatusUpcoming Status = "upcoming"
)

// Rank values, 0 (most urgent) to 99 (no due date). Rank is the single
// sortable signal; labels are presentation only.
const (
	RankOverdue  = 0
	RankSoon     = 1
	RankToday    = 2
	RankUpcoming = 3
	RankNone     = 99
)

// SoonWindowMinutes bounds the "due soon" bucket.
const SoonWindowMinutes = 120

// Result is the derived urgency of a task. It is never persisted.
type Result struct {
	Status Status
	Label  string
	Rank   int
}

// Classify derives the urgency of a task relative to now. First match wins:
// overdue, then due within the soon window, then same calendar day, then
// upcoming. A task with no scheduled date sorts last with RankNone.
func Classify(t task.Task, now time.Time) Result {
	dueAt := t.DueAt()
	if dueAt == nil {
		return Result{Status: StatusNone, Rank: RankNone}
	}

	minutesUntilDue := int(dueAt.Sub(now).Minutes())
	if dueAt.Sub(now) < 0 {
		return Result{Status: StatusOverdue, Label: "Overdue", Rank: RankOverdue}
	}
	if minutesUntilDue <= SoonWindowMinutes {
		return Result{Status: StatusSoon, Label: "Due soon", Rank: RankSoon}
	}
	if sameLocalDay(*dueAt, now) {
		return Result{Status: StatusToday, Label: "Due today", Rank: RankToday}
	}
	return Result{Status: StatusUpcoming, Label: "Upcoming", Rank: RankUpcoming}
}

// sameLocalDay compares calendar dates in now's location, independent of the
// soon window.
func sameLocalDay(a, b time.Time) bool {
	a = a.In(b.Location())
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
