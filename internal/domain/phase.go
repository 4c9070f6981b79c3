package domain

import (
	"fmt"
	"strings"
)

// Placeholder sunrise and sunset hours, canonical zone. Not derived from date
// or position.
const (
	Sunrise = 6
	Sunset  = 18
)

// Phase is a day-phase label. Binary and quaternary labels differ in case
// because downstream figures and notebooks key on the exact strings.
type Phase string

const (
	// Binary policy labels.
	PhaseDayBinary   Phase = "day"
	PhaseNightBinary Phase = "night"

	// Quaternary policy labels.
	PhaseDay   Phase = "Day"
	PhaseNight Phase = "Night"
	PhaseDawn  Phase = "Dawn"
	PhaseDusk  Phase = "Dusk"
)

// Policy selects how hours are classified into phases.
type Policy string

const (
	// PolicyBinary splits the day into day and night on open bounds.
	PolicyBinary Policy = "binary"
	// PolicyQuaternary adds dawn and dusk bands around sunrise and sunset.
	PolicyQuaternary Policy = "quaternary"
)

// ParsePolicy resolves a policy name, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyBinary:
		return PolicyBinary, nil
	case PolicyQuaternary:
		return PolicyQuaternary, nil
	default:
		return "", fmt.Errorf("unknown day phase policy %q (want %q or %q)", s, PolicyBinary, PolicyQuaternary)
	}
}

// Classify maps a canonical hour to a phase under p.
func (p Policy) Classify(hour int) (Phase, error) {
	switch p {
	case PolicyBinary:
		return ClassifyBinary(hour)
	case PolicyQuaternary:
		return ClassifyQuaternary(hour)
	default:
		return "", fmt.Errorf("unknown day phase policy %q", string(p))
	}
}

// Phases lists the labels p can produce, in display order.
func (p Policy) Phases() []Phase {
	switch p {
	case PolicyBinary:
		return []Phase{PhaseDayBinary, PhaseNightBinary}
	case PolicyQuaternary:
		return []Phase{PhaseDawn, PhaseDay, PhaseDusk, PhaseNight}
	default:
		return nil
	}
}

// ClassifyBinary returns day when Sunrise < hour < Sunset. Hours 6 and 18
// themselves are night.
func ClassifyBinary(hour int) (Phase, error) {
	if err := validateHour(hour); err != nil {
		return "", err
	}
	if hour > Sunrise && hour < Sunset {
		return PhaseDayBinary, nil
	}
	return PhaseNightBinary, nil
}

// ClassifyQuaternary returns Day for 7-16, Night for 19-23 and 0-4, Dawn for
// 5-6, and Dusk for what is left (17-18).
func ClassifyQuaternary(hour int) (Phase, error) {
	if err := validateHour(hour); err != nil {
		return "", err
	}
	switch {
	case hour >= Sunrise+1 && hour < Sunset-1:
		return PhaseDay, nil
	case hour >= Sunset+1 || hour < Sunrise-1:
		return PhaseNight, nil
	case hour >= Sunrise-1 && hour < Sunrise+1:
		return PhaseDawn, nil
	default:
		return PhaseDusk, nil
	}
}

func validateHour(hour int) error {
	if hour < 0 || hour > 23 {
		return &InvalidHourError{Hour: hour}
	}
	return nil
}
