package executor

import (
	"fmt"
	"strings"

	"github.com/RomeoThePickleTec/jaivier-agent/internal/types"
)

const maxTasksShown = 10

// FormatResponse collapses an ordered result list into the single display
// string returned to the user. Always non-empty.
func FormatResponse(results []types.Result) string {
	var successful, failed []types.Result
	for _, r := range results {
		if r.Success {
			successful = append(successful, r)
		} else {
			failed = append(failed, r)
		}
	}

	// A lone successful operation gets a type-specific message.
	if len(results) == 1 && len(successful) == 1 {
		r := successful[0]
		switch r.Type {
		case "projects":
			return formatProjects(r.Items)
		case "sprints":
			return formatSprints(r.Items)
		case "tasks":
			return formatTasks(r.Items)
		case "project", "sprint", "task":
			return fmt.Sprintf("✅ %s created successfully!", capitalize(r.Type))
		}
	}

	var response string
	if len(successful) > 0 {
		response = formatCreationSummary(successful)
	} else {
		response = "❌ No operations completed"
	}

	if len(failed) > 0 {
		response += fmt.Sprintf("\n\n❌ **%d operations failed**", len(failed))
		for i, f := range failed {
			if i == 3 {
				break
			}
			errMsg := f.Error
			if errMsg == "" {
				errMsg = "Unknown error"
			}
			response += fmt.Sprintf("\n  • %s", errMsg)
		}
	}

	return response
}

func formatCreationSummary(successful []types.Result) string {
	var projects, sprints, tasks []types.Result
	for _, r := range successful {
		switch r.Type {
		case "project":
			projects = append(projects, r)
		case "sprint":
			sprints = append(sprints, r)
		case "task":
			tasks = append(tasks, r)
		}
	}

	lines := []string{"🎉 **Creation Summary:**\n"}

	if len(projects) > 0 {
		lines = append(lines, "📁 **Projects:**")
		for _, p := range projects {
			name := entityField(p, "name", "Unknown Project")
			id := entityField(p, "id", "N/A")
			lines = append(lines, fmt.Sprintf("  • %s (ID: %s)", name, id))
		}
		lines = append(lines, "")
	}

	if len(sprints) > 0 {
		lines = append(lines, "🏃 **Sprints:**")
		for _, s := range sprints {
			name := entityField(s, "name", "Unknown Sprint")
			id := entityField(s, "id", "N/A")
			projectID := entityField(s, "project_id", "N/A")
			lines = append(lines, fmt.Sprintf("  • %s (ID: %s, Project: %s)", name, id, projectID))
		}
		lines = append(lines, "")
	}

	if len(tasks) > 0 {
		lines = append(lines, "📋 **Tasks:**")
		shown := tasks
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, t := range shown {
			title := entityField(t, "title", "Unknown Task")
			id := entityField(t, "id", "New")
			priority, _ := types.FieldInt64(t.Entity, "priority")
			lines = append(lines, fmt.Sprintf("  • %s (ID: %s) %s", title, id, priorityGlyph(priority)))
		}
		if len(tasks) > 5 {
			lines = append(lines, fmt.Sprintf("  ... and %d more tasks", len(tasks)-5))
		}
		lines = append(lines, "")

		var totalHours float64
		for _, t := range tasks {
			hours, ok := types.FieldFloat64(t.Entity, "estimated_hours")
			if !ok {
				hours = 8
			}
			totalHours += hours
		}
		// 6 productive hours per working day
		days := totalHours / 6
		lines = append(lines, fmt.Sprintf("⏱️ **Estimated effort:** %.0fh (%.1f days)", totalHours, days))
		lines = append(lines, "")
	}

	lines = append(lines, fmt.Sprintf("✅ **Total: %d items created!**", len(successful)))
	return strings.Join(lines, "\n")
}

func formatProjects(projects []map[string]any) string {
	if len(projects) == 0 {
		return "📁 No projects found"
	}
	lines := []string{"📁 **Projects:**\n"}
	for _, p := range projects {
		name := fieldOr(p, "name", "Unknown")
		id := fieldOr(p, "id", "N/A")
		statusCode, _ := types.FieldInt64(p, "status")
		lines = append(lines, fmt.Sprintf("• %s (ID: %s) - %s", name, id, decodeProjectStatus(statusCode)))
	}
	return strings.Join(lines, "\n")
}

func formatSprints(sprints []map[string]any) string {
	if len(sprints) == 0 {
		return "🏃 No sprints found"
	}
	lines := []string{"🏃 **Sprints:**\n"}
	for _, s := range sprints {
		name := fieldOr(s, "name", "Unknown")
		id := fieldOr(s, "id", "N/A")
		statusCode, _ := types.FieldInt64(s, "status")
		lines = append(lines, fmt.Sprintf("• %s (ID: %s) - %s", name, id, decodeProjectStatus(statusCode)))
	}
	return strings.Join(lines, "\n")
}

func formatTasks(tasks []map[string]any) string {
	if len(tasks) == 0 {
		return "📋 No tasks found"
	}
	lines := []string{"📋 **Tasks:**\n"}
	shown := tasks
	if len(shown) > maxTasksShown {
		shown = shown[:maxTasksShown]
	}
	for _, t := range shown {
		title := fieldOr(t, "title", "Unknown")
		id := fieldOr(t, "id", "N/A")
		priority, ok := types.FieldInt64(t, "priority")
		if !ok {
			priority = 2
		}
		statusCode, _ := types.FieldInt64(t, "status")
		lines = append(lines, fmt.Sprintf("• %s (ID: %s) - %s, %s", title, id, decodePriority(priority), decodeTaskStatus(statusCode)))
	}
	if len(tasks) > maxTasksShown {
		lines = append(lines, fmt.Sprintf("\n... and %d more tasks", len(tasks)-maxTasksShown))
	}
	return strings.Join(lines, "\n")
}

func priorityGlyph(code int64) string {
	switch code {
	case 1:
		return "🟢Low"
	case 3:
		return "🟡High"
	case 4:
		return "🔴Crit"
	default:
		return "🔵Med"
	}
}

func entityField(r types.Result, key, fallback string) string {
	if r.Entity == nil {
		return fallback
	}
	return fieldOr(r.Entity, key, fallback)
}

func fieldOr(m map[string]any, key, fallback string) string {
	if v := types.FieldString(m, key); v != "" {
		return v
	}
	return fallback
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
