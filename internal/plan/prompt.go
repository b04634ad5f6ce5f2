package plan

import (
	"encoding/json"
	"fmt"
	"strings"
)

const plannerInstructions = "You are an expert educational planner specializing in creating personalized study plans. Always respond with valid JSON."

// Prompt renders the plan request for topic.
func Prompt(topic string, prefs Preferences) string {
	styles := prefs.LearningStyles
	if styles == nil {
		styles = []string{}
	}
	stylesJSON, _ := json.Marshal(styles)

	var styleLine string
	if len(styles) > 0 {
		styleLine = fmt.Sprintf("Learning styles: %s. ", strings.Join(styles, ", "))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a comprehensive %d-day study plan for learning %s.\n\n", prefs.Duration, topic)
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Duration: %d days\n", prefs.Duration)
	fmt.Fprintf(&b, "- Difficulty level: %s\n", prefs.Difficulty)
	fmt.Fprintf(&b, "- Time per day: %d minutes\n", prefs.TimePerDay)
	fmt.Fprintf(&b, "- %s\n\n", styleLine)
	b.WriteString("Please provide a JSON response with the following structure:\n")
	fmt.Fprintf(&b, `{
  "duration": "%d days",
  "difficulty": "%s",
  "timePerDay": "%d min/day",
  "overview": "A detailed overview of the study plan",
  "schedule": [
    {
      "title": "Week 1",
      "days": [
        {
          "day": 1,
          "title": "Day 1",
          "topics": ["Topic 1", "Topic 2"],
          "activities": ["Activity 1", "Activity 2"],
          "timeRequired": %d
        }
      ]
    }
  ],
  "learningStyles": %s
}
`, prefs.Duration, prefs.Difficulty, prefs.TimePerDay, prefs.TimePerDay, stylesJSON)
	b.WriteString("\nMake the plan realistic, engaging, and tailored to the specified difficulty level and learning styles. Include specific topics, activities, and time allocations for each day.")
	return b.String()
}
