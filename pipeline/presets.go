package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownPreset is returned for a quick-range name that names no preset.
var ErrUnknownPreset = errors.New("unknown quick-range preset")

// Preset is a quick date-range shortcut anchored at the latest sales date.
type Preset string

const (
	PresetAll          Preset = "all"
	PresetLastYear     Preset = "lastYear"
	PresetLastSemester Preset = "lastSemester"
	PresetLastQuarter  Preset = "lastQuarter"
	PresetLast6Months  Preset = "last6Months"
	PresetLast3Months  Preset = "last3Months"
	PresetCurrentMonth Preset = "currentMonth"
)

// presetMonths is how far back each preset reaches from the latest date.
var presetMonths = map[Preset]int{
	PresetLastYear:     12,
	PresetLastSemester: 6,
	PresetLastQuarter:  3,
	PresetLast6Months:  6,
	PresetLast3Months:  3,
	PresetCurrentMonth: 1,
}

// Presets lists every preset in display order.
func Presets() []Preset {
	return []Preset{
		PresetAll, PresetLastYear, PresetLastSemester, PresetLastQuarter,
		PresetLast6Months, PresetLast3Months, PresetCurrentMonth,
	}
}

// ParsePreset accepts a preset name case-insensitively, with or without a
// "btn-" prefix, and the short button ids ("year", "6months", "month").
func ParsePreset(s string) (Preset, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "btn-")
	for _, p := range Presets() {
		if name == strings.ToLower(string(p)) {
			return p, nil
		}
	}
	switch name {
	case "year":
		return PresetLastYear, nil
	case "semester":
		return PresetLastSemester, nil
	case "quarter":
		return PresetLastQuarter, nil
	case "6months":
		return PresetLast6Months, nil
	case "3months":
		return PresetLast3Months, nil
	case "month":
		return PresetCurrentMonth, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreset, s)
}

// QuickRange resolves a preset against the sales date bounds. The end is
// always max; the start is max moved back by the preset's months (the day
// clamped to the target month's length) and never before min.
// PresetAll yields [min, max].
func QuickRange(p Preset, min, max time.Time) (DateRange, error) {
	if p == PresetAll {
		return DateRange{Start: min, End: max}, nil
	}
	months, ok := presetMonths[p]
	if !ok {
		return DateRange{}, fmt.Errorf("%w: %q", ErrUnknownPreset, p)
	}
	start := addMonths(max, -months)
	if start.Before(min) {
		start = min
	}
	return DateRange{Start: start, End: max}, nil
}

// addMonths moves t by n calendar months, keeping the day of month unless
// the target month is shorter.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	h, mi, s := t.Clock()
	return time.Date(first.Year(), first.Month(), d, h, mi, s, t.Nanosecond(), t.Location())
}
