package plan

// DayRef is the stable identity of a day across sessions: its position
// within its week and the week's position in the schedule.
type DayRef struct {
	Week int `json:"week"`
	Day  int `json:"day"`
}

// FlatDay is a day positioned in the flattened schedule. GlobalDayIndex is
// 1-based and only meaningful for the pass that produced it.
type FlatDay struct {
	WeekIndex      int
	DayIndex       int
	GlobalDayIndex int
	Day            Day
}

// Ref returns the stable identity of the flattened day.
func (f FlatDay) Ref() DayRef {
	return DayRef{Week: f.WeekIndex, Day: f.DayIndex}
}

// Flatten lists all days in schedule order.
func Flatten(p *StudyPlan) []FlatDay {
	var out []FlatDay
	for wi, w := range p.Schedule {
		for di, d := range w.Days {
			out = append(out, FlatDay{
				WeekIndex:      wi,
				DayIndex:       di,
				GlobalDayIndex: len(out) + 1,
				Day:            d,
			})
		}
	}
	return out
}

// RefAt converts a 0-based flattened index into a DayRef.
func RefAt(p *StudyPlan, flatIndex int) (DayRef, bool) {
	if flatIndex < 0 {
		return DayRef{}, false
	}
	for wi, w := range p.Schedule {
		if flatIndex < len(w.Days) {
			return DayRef{Week: wi, Day: flatIndex}, true
		}
		flatIndex -= len(w.Days)
	}
	return DayRef{}, false
}

// DayAt returns a pointer into the schedule for ref.
func (p *StudyPlan) DayAt(ref DayRef) (*Day, bool) {
	if ref.Week < 0 || ref.Week >= len(p.Schedule) {
		return nil, false
	}
	days := p.Schedule[ref.Week].Days
	if ref.Day < 0 || ref.Day >= len(days) {
		return nil, false
	}
	return &days[ref.Day], true
}

// TotalDays counts every day in the schedule.
func (p *StudyPlan) TotalDays() int {
	n := 0
	for _, w := range p.Schedule {
		n += len(w.Days)
	}
	return n
}

// CompletedDays counts days with the completed flag set.
func (p *StudyPlan) CompletedDays() int {
	n := 0
	for _, w := range p.Schedule {
		for _, d := range w.Days {
			if d.Completed {
				n++
			}
		}
	}
	return n
}
