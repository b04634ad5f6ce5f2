package plan

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// normalize turns a validated reply object into a StudyPlan, filling every
// field the model omitted or mistyped.
func normalize(raw map[string]any, topic string, prefs Preferences, now time.Time) *StudyPlan {
	p := &StudyPlan{
		ID:             now.UnixMilli(),
		Topic:          topic,
		Duration:       durationText(raw["duration"]),
		Difficulty:     prefs.Difficulty,
		TimePerDay:     fmt.Sprintf("%d min/day", prefs.TimePerDay),
		Overview:       str(raw["overview"]),
		LearningStyles: strList(raw["learningStyles"]),
		Status:         StatusActive,
		Progress:       0,
		CreatedAt:      now,
	}

	if d, ok := ParseDifficulty(str(raw["difficulty"])); ok {
		p.Difficulty = d
	}
	switch v := raw["timePerDay"].(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			p.TimePerDay = v
		}
	case float64:
		if v > 0 {
			p.TimePerDay = fmt.Sprintf("%d min/day", int(math.Round(v)))
		}
	}

	weeks, _ := raw["schedule"].([]any)
	p.Schedule = make([]Week, 0, len(weeks))
	dayNum := 0
	for wi, w := range weeks {
		wm, _ := w.(map[string]any)
		week := Week{Title: str(wm["title"])}
		if week.Title == "" {
			week.Title = fmt.Sprintf("Week %d", wi+1)
		}

		days, _ := wm["days"].([]any)
		week.Days = make([]Day, 0, len(days))
		for _, d := range days {
			dayNum++
			dm, _ := d.(map[string]any)
			week.Days = append(week.Days, normalizeDay(dm, dayNum, topic, prefs))
		}
		p.Schedule = append(p.Schedule, week)
	}

	return p
}

func normalizeDay(dm map[string]any, num int, topic string, prefs Preferences) Day {
	day := Day{
		Title:        str(dm["title"]),
		Topics:       strList(dm["topics"]),
		Activities:   strList(dm["activities"]),
		TimeRequired: minutes(dm["timeRequired"], prefs.TimePerDay),
	}
	if day.Title == "" {
		day.Title = fmt.Sprintf("Day %d", num)
	}
	if len(day.Topics) == 0 {
		if t := str(dm["title"]); t != "" {
			day.Topics = []string{t}
		} else {
			day.Topics = []string{topic}
		}
	}
	return day
}

func durationText(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case float64:
		return fmt.Sprintf("%d days", int(math.Round(d)))
	}
	return ""
}

func str(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

// strList keeps the non-blank scalar entries of a JSON array.
func strList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s := str(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// minutes reads a positive minute count from a number or a string such as
// "45 min"; anything else yields def.
func minutes(v any, def int) int {
	switch m := v.(type) {
	case float64:
		if m > 0 {
			return int(math.Round(m))
		}
	case string:
		s := strings.TrimSpace(m)
		end := 0
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		if n, err := strconv.Atoi(s[:end]); err == nil && n > 0 {
			return n
		}
	}
	return def
}
