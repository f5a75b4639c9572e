package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	ErrInvalidDueUnit  = errors.New("model: invalid due unit")
	ErrInvalidDueValue = errors.New("model: invalid due value")
)

type DueUnit string

const (
	DueMinutes DueUnit = "minutes"
	DueHours   DueUnit = "hours"
	DueDays    DueUnit = "days"
	DueWeeks   DueUnit = "weeks"
	DueMonths  DueUnit = "months"
)

// DueUnits lists the picker units in display order.
var DueUnits = []DueUnit{DueMinutes, DueHours, DueDays, DueWeeks, DueMonths}

func (u DueUnit) IsValid() bool {
	switch u {
	case DueMinutes, DueHours, DueDays, DueWeeks, DueMonths:
		return true
	default:
		return false
	}
}

// Values returns the selectable amounts for the unit.
func (u DueUnit) Values() []int {
	switch u {
	case DueMinutes:
		out := make([]int, 0, 11)
		for v := 5; v <= 55; v += 5 {
			out = append(out, v)
		}
		return out
	case DueHours:
		return intRange(1, 23)
	case DueDays:
		return intRange(1, 7)
	case DueWeeks:
		return intRange(1, 4)
	case DueMonths:
		return intRange(1, 12)
	default:
		return nil
	}
}

// DueSelection is a relative deadline picked by the user: an amount of a unit
// counted from the moment it is resolved.
type DueSelection struct {
	Unit  DueUnit
	Value int
}

func DefaultDueSelection() DueSelection {
	return DueSelection{Unit: DueHours, Value: 1}
}

func (s DueSelection) Validate() error {
	if !s.Unit.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDueUnit, s.Unit)
	}
	for _, v := range s.Unit.Values() {
		if v == s.Value {
			return nil
		}
	}
	allowed := s.Unit.Values()
	return fmt.Errorf("%w: %d %s (allowed %d..%d)", ErrInvalidDueValue, s.Value, s.Unit, allowed[0], allowed[len(allowed)-1])
}

// Resolve turns the selection into an absolute due instant on the local
// calendar.
func (s DueSelection) Resolve(now time.Time) time.Time {
	return s.ResolveIn(now, time.Local)
}

// ResolveIn counts days, weeks and months on the wall calendar of loc, so a
// day across a DST change is still the same clock time and months overflow the
// way calendar arithmetic does (Jan 31 + 1 month is early March). Minutes and
// hours are fixed lengths.
func (s DueSelection) ResolveIn(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	switch s.Unit {
	case DueMinutes:
		return now.Add(time.Duration(s.Value) * time.Minute)
	case DueHours:
		return now.Add(time.Duration(s.Value) * time.Hour)
	case DueDays:
		return local.AddDate(0, 0, s.Value)
	case DueWeeks:
		return local.AddDate(0, 0, 7*s.Value)
	case DueMonths:
		return local.AddDate(0, s.Value, 0)
	default:
		return now
	}
}

func (s DueSelection) String() string {
	return fmt.Sprintf("%d %s", s.Value, s.Unit)
}

// ParseDueSelection accepts forms like "30m", "2h", "3 days", "1w" or "2mo".
func ParseDueSelection(raw string) (DueSelection, error) {
	in := strings.ToLower(strings.TrimSpace(raw))
	if in == "" {
		return DueSelection{}, fmt.Errorf("%w: empty", ErrInvalidDueValue)
	}
	split := strings.IndexFunc(in, func(r rune) bool { return !unicode.IsDigit(r) })
	if split <= 0 {
		return DueSelection{}, fmt.Errorf("%w: %q", ErrInvalidDueValue, raw)
	}
	value, err := strconv.Atoi(in[:split])
	if err != nil {
		return DueSelection{}, fmt.Errorf("%w: %q", ErrInvalidDueValue, raw)
	}
	u, ok := dueUnitAliases[strings.TrimSpace(in[split:])]
	if !ok {
		return DueSelection{}, fmt.Errorf("%w: %q", ErrInvalidDueUnit, strings.TrimSpace(in[split:]))
	}
	sel := DueSelection{Unit: u, Value: value}
	if err := sel.Validate(); err != nil {
		return DueSelection{}, err
	}
	return sel, nil
}

var dueUnitAliases = map[string]DueUnit{
	"m": DueMinutes, "min": DueMinutes, "mins": DueMinutes, "minute": DueMinutes, "minutes": DueMinutes,
	"h": DueHours, "hr": DueHours, "hrs": DueHours, "hour": DueHours, "hours": DueHours,
	"d": DueDays, "day": DueDays, "days": DueDays,
	"w": DueWeeks, "wk": DueWeeks, "week": DueWeeks, "weeks": DueWeeks,
	"mo": DueMonths, "mon": DueMonths, "month": DueMonths, "months": DueMonths,
}

func intRange(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}
