package services

import (
	"math"

	"github.com/google/uuid"

	"github.com/voxplan/voxplan/internal/prioritization/domain/task"
)

// Redistribute maps a user-ordered task list (index 0 = highest) onto the
// discrete 1..4 priority band. The boundary policy is a behavioral contract:
// tiny lists use fixed spreads, longer lists a linear interpolation rounded
// up and clamped, which can repeat values for closely spaced indices.
func Redistribute(orderedTasks []task.Task) (map[uuid.UUID]int, error) {
	n := len(orderedTasks)
	priorities := make(map[uuid.UUID]int, n)

	for i, t := range orderedTasks {
		if t.ID == uuid.Nil {
			return nil, task.ErrMissingID
		}
		priorities[t.ID] = priorityForIndex(i, n)
	}
	return priorities, nil
}

func priorityForIndex(i, n int) int {
	switch n {
	case 1:
		return 4
	case 2:
		return [2]int{4, 1}[i]
	case 3:
		return [3]int{4, 2, 1}[i]
	}
	p := int(math.Ceil(4 - float64(i)*3/float64(n-1)))
	if p < 1 {
		p = 1
	}
	if p > 4 {
		p = 4
	}
	return p
}
