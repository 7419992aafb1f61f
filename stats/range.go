package stats

import (
	"errors"
	"fmt"
	"strings"

	"bankroll/models"
)

// RangePreset names a rolling window ending today
type RangePreset string

const (
	RangeAll    RangePreset = "all"
	Range7Days  RangePreset = "7d"
	Range30Days RangePreset = "30d"
	Range90Days RangePreset = "90d"
)

// ErrInvalidRange is returned for unknown presets and malformed or inverted bounds
var ErrInvalidRange = errors.New("invalid date range")

var presetDays = map[RangePreset]int{
	Range7Days:  7,
	Range30Days: 30,
	Range90Days: 90,
}

// ResolveRange turns a preset or explicit from/to pair into a DateRange.
// Explicit bounds win over the preset. Rolling presets include today.
func ResolveRange(preset, from, to string, clock Clock) (DateRange, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)

	if from != "" || to != "" {
		var r DateRange
		if from != "" {
			d, err := models.ParseDate(from)
			if err != nil {
				return DateRange{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
			}
			r.From = d
		}
		if to != "" {
			d, err := models.ParseDate(to)
			if err != nil {
				return DateRange{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
			}
			r.To = d
		}
		if !r.From.IsZero() && !r.To.IsZero() && r.From > r.To {
			return DateRange{}, fmt.Errorf("%w: from %s is after to %s", ErrInvalidRange, r.From, r.To)
		}
		return r, nil
	}

	p := RangePreset(strings.ToLower(strings.TrimSpace(preset)))
	if p == "" || p == RangeAll {
		return DateRange{}, nil
	}

	days, ok := presetDays[p]
	if !ok {
		return DateRange{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidRange, preset)
	}

	today := clock.Today()
	return DateRange{From: today.AddDays(-(days - 1)), To: today}, nil
}
