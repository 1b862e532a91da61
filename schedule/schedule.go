// Package schedule defines the interface for scheduling of parsley actions
package schedule

import (
	"fmt"
	"github.com/marcsantiago/gocron"
	"strings"
	"time"
)

// Definition represents when a scheduled action is triggered
type Definition struct {
	// Internal value (every 1 minute would be expressed with an interval of 1). Must be set explicitly or implicitly (a weekday value implicitly sets the interval to 1)
	Interval uint64

	// Must be set explicitly or implicitly ("weeks" is implicitly set when "Weekday" is set). Valid time units are: "weeks", "hours", "days", "minutes", "seconds"
	Unit string

	// Optional day of the week. If set, unit and interval are ignored and implicitly considered to be "every 1 week"
	Weekday string

	// Optional "at time" value (i.e. "10:30")
	AtTime string
}

// Unit values
const (
	Weeks   = "weeks"
	Hours   = "hours"
	Days    = "days"
	Minutes = "minutes"
	Seconds = "seconds"
)

var weekdayToNumeral = map[string]time.Weekday{
	time.Monday.String():    time.Monday,
	time.Tuesday.String():   time.Tuesday,
	time.Wednesday.String(): time.Wednesday,
	time.Thursday.String():  time.Thursday,
	time.Friday.String():    time.Friday,
	time.Saturday.String():  time.Saturday,
	time.Sunday.String():    time.Sunday,
}

// Builder holds a Definition to build
type Builder struct {
	definition Definition
}

// New returns a new Builder for a Definition with an interval of 1
func New() (sb *Builder) {
	sb = new(Builder)
	sb.definition = Definition{Interval: 1}

	return sb
}

// Every sets the unit of the schedule. Passing a weekday (i.e. time.Monday.String()) makes it a weekly schedule on that day
func (sb *Builder) Every(unitOrWeekday string) *Builder {
	if _, ok := weekdayToNumeral[unitOrWeekday]; ok {
		sb.definition.Weekday = unitOrWeekday
	} else {
		sb.definition.Unit = unitOrWeekday
	}

	return sb
}

// EveryN sets the interval and the unit of the schedule
func (sb *Builder) EveryN(interval uint64, unit string) *Builder {
	sb.definition.Interval = interval
	sb.definition.Unit = unit

	return sb
}

// AtTime sets the time of day of the schedule (i.e. "10:30")
func (sb *Builder) AtTime(atTime string) *Builder {
	sb.definition.AtTime = atTime

	return sb
}

// Build returns the Definition
func (sb *Builder) Build() Definition {
	return sb.definition
}

// Returns a human-friendly string for the Definition
func (s Definition) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Every ")

	if s.Weekday != "" {
		fmt.Fprintf(&b, "%s", s.Weekday)
	} else if s.Interval == 1 {
		fmt.Fprintf(&b, "%s", strings.TrimSuffix(s.Unit, "s"))
	} else {
		fmt.Fprintf(&b, "%d %s", s.Interval, s.Unit)
	}

	if s.AtTime != "" {
		fmt.Fprintf(&b, " at %s", s.AtTime)
	}

	return b.String()
}

// NewJob sets up the gocron.Job with the schedule and leaves the task undefined for the caller to set up
func NewJob(s *gocron.Scheduler, sd Definition) (j *gocron.Job, err error) {
	if _, ok := weekdayToNumeral[sd.Weekday]; !ok {
		if sd.Weekday != "" {
			return nil, fmt.Errorf("Invalid weekday [%s] in schedule definition", sd.Weekday)
		}

		switch sd.Unit {
		case Weeks, Hours, Days, Minutes, Seconds:
		default:
			return nil, fmt.Errorf("Invalid unit [%s] in schedule definition", sd.Unit)
		}
	}

	if sd.Interval == 0 {
		return nil, fmt.Errorf("Invalid interval [%d] in schedule definition", sd.Interval)
	}

	j = s.Every(sd.Interval, false)

	if sd.Weekday != "" {
		switch sd.Weekday {
		case time.Monday.String():
			j = j.Monday()
		case time.Tuesday.String():
			j = j.Tuesday()
		case time.Wednesday.String():
			j = j.Wednesday()
		case time.Thursday.String():
			j = j.Thursday()
		case time.Friday.String():
			j = j.Friday()
		case time.Saturday.String():
			j = j.Saturday()
		case time.Sunday.String():
			j = j.Sunday()
		}
	} else {
		switch sd.Unit {
		case Weeks:
			j = j.Weeks()
		case Hours:
			j = j.Hours()
		case Days:
			j = j.Days()
		case Minutes:
			j = j.Minutes()
		case Seconds:
			j = j.Seconds()
		}
	}

	if sd.AtTime != "" {
		j = j.At(sd.AtTime)
	}

	if j.Err() != nil {
		return nil, j.Err()
	}

	return j, nil
}
