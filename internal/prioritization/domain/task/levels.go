package task

import (
	"errors"
	"strings"
)

// Impact is the user-set subjective importance tag, independent of urgency.
// The zero value means the tag was not set.
type Impact int

const (
	ImpactNone Impact = iota
	ImpactLow
	ImpactMedium
	ImpactHigh
)

// Effort is the estimated cognitive/physical cost of a task, matched against
// the user's self-reported energy level. The zero value means unset.
type Effort int

const (
	EffortNone Effort = iota
	EffortLow
	EffortMedium
	EffortHigh
)

// EnergyLevel is the user's self-reported current energy.
type EnergyLevel int

const (
	EnergyNone EnergyLevel = iota
	EnergyLow
	EnergyMedium
	EnergyHigh
)

var ErrInvalidLevel = errors.New("invalid level value")

var levelNames = map[int]string{
	0: "none",
	1: "low",
	2: "medium",
	3: "high",
}

var levelValues = map[string]int{
	"none":   0,
	"low":    1,
	"medium": 2,
	"high":   3,
}

func parseLevel(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, ok := levelValues[strings.ToLower(s)]
	if !ok {
		return 0, ErrInvalidLevel
	}
	return v, nil
}

// ParseImpact creates an Impact from a string; empty parses to ImpactNone.
func ParseImpact(s string) (Impact, error) {
	v, err := parseLevel(s)
	return Impact(v), err
}

// ParseEffort creates an Effort from a string; empty parses to EffortNone.
func ParseEffort(s string) (Effort, error) {
	v, err := parseLevel(s)
	return Effort(v), err
}

// ParseEnergyLevel creates an EnergyLevel from a string; empty parses to EnergyNone.
func ParseEnergyLevel(s string) (EnergyLevel, error) {
	v, err := parseLevel(s)
	return EnergyLevel(v), err
}

func (i Impact) String() string      { return levelNames[int(i)] }
func (e Effort) String() string      { return levelNames[int(e)] }
func (e EnergyLevel) String() string { return levelNames[int(e)] }
