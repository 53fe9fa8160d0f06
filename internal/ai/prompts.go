package ai

import (
	"strings"
	"time"
)

const noDueDate = "No due date"

// renderDate keeps prompt dates locale-independent.
func renderDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func renderDueDate(due *time.Time) string {
	if due == nil {
		return noDueDate
	}
	return renderDate(*due)
}

// BuildPriorityPrompt asks the model for exactly one number in 1-5.
func BuildPriorityPrompt(taskText string, due *time.Time, today time.Time) string {
	var b strings.Builder

	b.WriteString("Analyze this task and assign a priority score from 1-5 (1 = lowest, 5 = highest priority):\n\n")

	b.WriteString("Task: \"")
	b.WriteString(taskText)
	b.WriteString("\"\n")

	b.WriteString("Due Date: ")
	b.WriteString(renderDueDate(due))
	b.WriteString("\n")

	b.WriteString("Today's Date: ")
	b.WriteString(renderDate(today))
	b.WriteString("\n\n")

	b.WriteString("Consider:\n")
	b.WriteString("- Urgency based on due date proximity\n")
	b.WriteString("- Task complexity and importance keywords\n")
	b.WriteString("- Time-sensitive nature\n\n")

	b.WriteString("Respond with ONLY a number from 1-5. No explanations.")

	return b.String()
}

// BuildSummaryPrompt embeds the formatted task lines in a request for a
// short motivational paragraph.
func BuildSummaryPrompt(taskLines []string, today time.Time) string {
	var b strings.Builder

	b.WriteString("Generate a motivational daily summary for these pending tasks. Keep it to 2-3 sentences maximum.\n")
	b.WriteString("Focus on the highest priority items and encourage productivity.\n\n")

	b.WriteString("Tasks:\n")
	b.WriteString(strings.Join(taskLines, "\n"))
	b.WriteString("\n\n")

	b.WriteString("Today's Date: ")
	b.WriteString(renderDate(today))
	b.WriteString("\n\n")

	b.WriteString("Make the summary:\n")
	b.WriteString("- Encouraging and positive\n")
	b.WriteString("- Brief (2-3 sentences max)\n")
	b.WriteString("- Focus on top priorities\n")
	b.WriteString("- Actionable")

	return b.String()
}
