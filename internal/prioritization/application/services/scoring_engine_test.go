package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxplan/voxplan/internal/prioritization/domain/task"
)

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func scheduledOn(year int, month time.Month, day, hour, minute int) (d *time.Time, tod *task.TimeOfDay) {
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	t := task.MustNewTimeOfDay(hour, minute)
	return &date, &t
}

func inboxTask(title string) task.Task {
	return task.Task{
		ID:        uuid.New(),
		Title:     title,
		Priority:  2,
		Status:    task.StatusInbox,
		CreatedAt: testNow,
	}
}

func TestScoringEngine_score(t *testing.T) {
	engine := NewScoringEngine(DefaultScoringConfig())

	t.Run("priority dominates", func(t *testing.T) {
		low := inboxTask("low")
		low.Priority = 1
		low.Impact = task.ImpactHigh
		low.CreatedAt = testNow.AddDate(0, 0, -30)

		high := inboxTask("high")
		high.Priority = 4

		lowScore := engine.score(low, testNow, task.EnergyNone, scoreFeatures{})
		highScore := engine.score(high, testNow, task.EnergyNone, scoreFeatures{})

		// 300 points of priority spread exceeds any combination of the
		// other bounded terms.
		assert.Greater(t, highScore, lowScore)
	})

	t.Run("urgency ranks order the score before priority is applied", func(t *testing.T) {
		overdue := inboxTask("A")
		overdue.ScheduledDate, overdue.ScheduledTime = scheduledOn(2026, 3, 14, 9, 0)

		soon := inboxTask("B")
		soon.ScheduledDate, soon.ScheduledTime = scheduledOn(2026, 3, 15, 10, 30)

		undated := inboxTask("C")

		a := engine.score(overdue, testNow, task.EnergyNone, scoreFeatures{})
		b := engine.score(soon, testNow, task.EnergyNone, scoreFeatures{})
		c := engine.score(undated, testNow, task.EnergyNone, scoreFeatures{})

		assert.Greater(t, a, b)
		assert.Greater(t, b, c)
		// Overdue contributes 100, soon 75, none 0.
		assert.Equal(t, 100.0, a-c)
		assert.Equal(t, 75.0, b-c)
	})

	t.Run("impact adds 20 per level", func(t *testing.T) {
		base := inboxTask("plain")
		tagged := inboxTask("tagged")
		tagged.Impact = task.ImpactHigh

		assert.Equal(t, 60.0,
			engine.score(tagged, testNow, task.EnergyNone, scoreFeatures{})-
				engine.score(base, testNow, task.EnergyNone, scoreFeatures{}))
	})

	t.Run("age bonus caps at seven days", func(t *testing.T) {
		week := inboxTask("week")
		week.CreatedAt = testNow.AddDate(0, 0, -7)

		year := inboxTask("year")
		year.CreatedAt = testNow.AddDate(-1, 0, 0)

		assert.Equal(t,
			engine.score(week, testNow, task.EnergyNone, scoreFeatures{}),
			engine.score(year, testNow, task.EnergyNone, scoreFeatures{}))

		fresh := inboxTask("fresh")
		assert.Equal(t, 35.0,
			engine.score(week, testNow, task.EnergyNone, scoreFeatures{})-
				engine.score(fresh, testNow, task.EnergyNone, scoreFeatures{}))
	})

	t.Run("duration nudges short tasks up and long tasks down", func(t *testing.T) {
		cases := []struct {
			minutes int
			bonus   float64
		}{
			{15, 8},
			{30, 8},
			{45, 5},
			{60, 5},
			{90, 2},
			{120, 2},
			{150, 0},
			{180, 0},
			{240, -10},
		}
		for _, tc := range cases {
			assert.Equal(t, tc.bonus, durationBonus(tc.minutes), "minutes=%d", tc.minutes)
		}
	})
}

func TestEnergyMatchBonus(t *testing.T) {
	cases := []struct {
		name   string
		energy task.EnergyLevel
		effort task.Effort
		bonus  float64
	}{
		{"exact match", task.EnergyMedium, task.EffortMedium, 30},
		{"adjacent", task.EnergyMedium, task.EffortLow, 15},
		{"adjacent up", task.EnergyMedium, task.EffortHigh, 15},
		{"strong mismatch", task.EnergyLow, task.EffortHigh, -20},
		{"reverse gap unpunished", task.EnergyHigh, task.EffortLow, 0},
		{"no energy context", task.EnergyNone, task.EffortHigh, 0},
		{"no effort tag", task.EnergyLow, task.EffortNone, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.bonus, energyMatchBonus(tc.energy, tc.effort))
		})
	}
}

func TestScoringEngine_PickSuggestedNext(t *testing.T) {
	engine := NewScoringEngine(DefaultScoringConfig())

	t.Run("empty input returns nothing", func(t *testing.T) {
		_, ok := engine.PickSuggestedNext(nil, task.EnergyNone, testNow)
		assert.False(t, ok)
	})

	t.Run("only inbox tasks are candidates", func(t *testing.T) {
		completed := inboxTask("done")
		completed.Status = task.StatusCompleted
		completed.Priority = 4

		scheduled := inboxTask("scheduled")
		scheduled.Status = task.StatusScheduled
		scheduled.Priority = 4

		_, ok := engine.PickSuggestedNext([]task.Task{completed, scheduled}, task.EnergyNone, testNow)
		assert.False(t, ok)
	})

	t.Run("missing status is treated as inbox", func(t *testing.T) {
		tk := task.Task{ID: uuid.New(), Priority: 1, CreatedAt: testNow}

		id, ok := engine.PickSuggestedNext([]task.Task{tk}, task.EnergyNone, testNow)
		require.True(t, ok)
		assert.Equal(t, tk.ID, id)
	})

	t.Run("picks the highest score", func(t *testing.T) {
		weak := inboxTask("weak")
		weak.Priority = 1

		strong := inboxTask("strong")
		strong.Priority = 4

		id, ok := engine.PickSuggestedNext([]task.Task{weak, strong}, task.EnergyNone, testNow)
		require.True(t, ok)
		assert.Equal(t, strong.ID, id)
	})

	t.Run("ties go to input order", func(t *testing.T) {
		first := inboxTask("first")
		second := inboxTask("second")

		id, ok := engine.PickSuggestedNext([]task.Task{first, second}, task.EnergyNone, testNow)
		require.True(t, ok)
		assert.Equal(t, first.ID, id)
	})

	t.Run("low energy avoids high-effort tasks", func(t *testing.T) {
		heavy := inboxTask("deep work")
		heavy.Effort = task.EffortHigh

		light := inboxTask("quick errand")
		light.Effort = task.EffortLow

		id, ok := engine.PickSuggestedNext([]task.Task{heavy, light}, task.EnergyLow, testNow)
		require.True(t, ok)
		assert.Equal(t, light.ID, id)

		// With matching energy the high-effort task wins instead.
		id, ok = engine.PickSuggestedNext([]task.Task{heavy, light}, task.EnergyHigh, testNow)
		require.True(t, ok)
		assert.Equal(t, heavy.ID, id)
	})
}

func TestScoringEngine_SuggestTodayPlan(t *testing.T) {
	engine := NewScoringEngine(DefaultScoringConfig())

	t.Run("empty input returns an empty plan", func(t *testing.T) {
		plan := engine.SuggestTodayPlan(nil, nil, testNow)
		assert.Nil(t, plan.NextTaskID)
		assert.Empty(t, plan.TodayTaskIDs)
	})

	t.Run("returns next plus at most two follow-ups", func(t *testing.T) {
		tasks := []task.Task{
			inboxTask("a"), inboxTask("b"), inboxTask("c"), inboxTask("d"),
		}

		plan := engine.SuggestTodayPlan(tasks, nil, testNow)

		require.NotNil(t, plan.NextTaskID)
		assert.Len(t, plan.TodayTaskIDs, 2)

		// No duplicates across next and today.
		seen := map[uuid.UUID]bool{*plan.NextTaskID: true}
		for _, id := range plan.TodayTaskIDs {
			assert.False(t, seen[id])
			seen[id] = true
		}
	})

	t.Run("small candidate sets are not padded", func(t *testing.T) {
		tasks := []task.Task{inboxTask("only"), inboxTask("other")}

		plan := engine.SuggestTodayPlan(tasks, nil, testNow)

		require.NotNil(t, plan.NextTaskID)
		assert.Len(t, plan.TodayTaskIDs, 1)
	})

	t.Run("excludes only calendar-routed and fully scheduled tasks", func(t *testing.T) {
		confirmed := inboxTask("confirmed meeting prep")
		confirmed.ScheduledDate, confirmed.ScheduledTime = scheduledOn(2026, 3, 16, 9, 0)

		proposed := inboxTask("proposed, no firm time")
		proposed.ScheduledDate, _ = scheduledOn(2026, 3, 16, 9, 0)
		proposed.ScheduledTime = nil

		routing := map[uuid.UUID]Route{
			confirmed.ID: RouteCalendar,
			proposed.ID:  RouteCalendar,
		}

		plan := engine.SuggestTodayPlan([]task.Task{confirmed, proposed}, routing, testNow)

		require.NotNil(t, plan.NextTaskID)
		assert.Equal(t, proposed.ID, *plan.NextTaskID)
		assert.Empty(t, plan.TodayTaskIDs)
	})

	t.Run("unrouted fully scheduled tasks stay candidates", func(t *testing.T) {
		tk := inboxTask("scheduled but not routed")
		tk.ScheduledDate, tk.ScheduledTime = scheduledOn(2026, 3, 16, 9, 0)

		plan := engine.SuggestTodayPlan([]task.Task{tk}, nil, testNow)

		require.NotNil(t, plan.NextTaskID)
		assert.Equal(t, tk.ID, *plan.NextTaskID)
	})

	t.Run("due-soon clock bonus ranks nearer deadlines higher", func(t *testing.T) {
		within24 := inboxTask("due tomorrow morning")
		within24.ScheduledDate, within24.ScheduledTime = scheduledOn(2026, 3, 16, 8, 0)

		within72 := inboxTask("due in three days")
		within72.ScheduledDate, within72.ScheduledTime = scheduledOn(2026, 3, 17, 9, 0)

		farOut := inboxTask("due next month")
		farOut.ScheduledDate, farOut.ScheduledTime = scheduledOn(2026, 4, 20, 9, 0)

		plan := engine.SuggestTodayPlan([]task.Task{farOut, within72, within24}, nil, testNow)

		require.NotNil(t, plan.NextTaskID)
		assert.Equal(t, within24.ID, *plan.NextTaskID)
		require.Len(t, plan.TodayTaskIDs, 2)
		assert.Equal(t, within72.ID, plan.TodayTaskIDs[0])
		assert.Equal(t, farOut.ID, plan.TodayTaskIDs[1])
	})
}

func TestDueSoonClockBonus(t *testing.T) {
	t.Run("no date contributes nothing", func(t *testing.T) {
		assert.Equal(t, 0.0, dueSoonClockBonus(task.Task{}, testNow))
	})

	t.Run("buckets by hours until due", func(t *testing.T) {
		within24 := task.Task{}
		within24.ScheduledDate, within24.ScheduledTime = scheduledOn(2026, 3, 15, 20, 0)
		assert.Equal(t, 20.0, dueSoonClockBonus(within24, testNow))

		within72 := task.Task{}
		within72.ScheduledDate, within72.ScheduledTime = scheduledOn(2026, 3, 17, 9, 0)
		assert.Equal(t, 10.0, dueSoonClockBonus(within72, testNow))

		far := task.Task{}
		far.ScheduledDate, far.ScheduledTime = scheduledOn(2026, 4, 15, 9, 0)
		assert.Equal(t, 0.0, dueSoonClockBonus(far, testNow))
	})

	t.Run("past deadlines get no clock bonus", func(t *testing.T) {
		overdue := task.Task{}
		overdue.ScheduledDate, overdue.ScheduledTime = scheduledOn(2026, 3, 14, 9, 0)
		assert.Equal(t, 0.0, dueSoonClockBonus(overdue, testNow))
	})
}
