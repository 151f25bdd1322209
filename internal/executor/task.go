package executor

import (
	"context"
	"strings"

	"github.com/RomeoThePickleTec/jaivier-agent/internal/logging"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/types"
)

func (e *Executor) createTask(ctx context.Context, data map[string]any, userID int64) types.Result {
	now := e.clock().UTC()

	title := types.FieldString(data, "title")
	if title == "" {
		title = "New Task"
	}
	description := types.FieldString(data, "description")
	if description == "" {
		description = defaultDescription
	}

	hours, ok := types.FieldFloat64(data, "estimated_hours")
	if !ok || hours <= 0 {
		hours = e.estimateTaskHours(title, description)
	}

	priority := data["priority"]
	if priority == nil {
		priority = "medium"
	}
	status := data["status"]
	if status == nil {
		status = "todo"
	}

	dueDate := normalizeDate(data["due_date"])
	if dueDate == "" {
		dueDate = now.AddDate(0, 0, e.defaults.TaskDueDays).Format(timestampLayout)
	}

	payload := map[string]any{
		"title":           title,
		"description":     description,
		"priority":        normalizePriority(priority),
		"status":          normalizeStatus(status, "task"),
		"estimated_hours": hours,
		"due_date":        dueDate,
	}

	if projectID, ok := types.FieldInt64(data, "project_id"); ok {
		payload["project_id"] = projectID
	} else if _, present := data["project_id"]; present {
		logging.ExecutorWarn("Invalid project_id on task %q, dropping", title)
	}
	if sprintID, ok := types.FieldInt64(data, "sprint_id"); ok {
		payload["sprint_id"] = sprintID
	} else if _, present := data["sprint_id"]; present {
		logging.ExecutorWarn("Invalid sprint_id on task %q, dropping", title)
	}

	if err := e.api.CreateTask(ctx, payload); err != nil {
		logging.ExecutorError("Task creation failed: %v", err)
		return types.Failure("", err.Error())
	}

	e.wait(ctx)
	projectID, _ := types.FieldInt64(payload, "project_id")
	sprintID, _ := types.FieldInt64(payload, "sprint_id")
	tasks, err := e.api.ListTasks(ctx, projectID, sprintID)
	if err != nil {
		logging.ExecutorError("Task reconciliation read failed: %v", err)
		return types.Failure("", "Creation failed")
	}

	if entity := matchByField(tasks, "title", title); entity != nil {
		return types.Result{Success: true, Type: "task", Entity: entity}
	}
	return types.Failure("", "Creation failed")
}

func (e *Executor) listTasks(ctx context.Context, data map[string]any, userID int64) types.Result {
	projectID, _ := types.FieldInt64(data, "project_id")
	sprintID, _ := types.FieldInt64(data, "sprint_id")
	tasks, err := e.api.ListTasks(ctx, projectID, sprintID)
	if err != nil {
		logging.ExecutorError("Task listing failed: %v", err)
		tasks = nil
	}
	return types.Result{Success: true, Type: "tasks", Items: tasks}
}

// Keyword tiers for effort estimation. Checked in decreasing complexity so
// a title matching both "integration" and "setup" lands on the high tier.
var (
	complexPatterns = []string{"integration", "deploy", "optimization", "testing", "security", "performance", "animation"}
	mediumPatterns  = []string{"component", "page", "api", "endpoint", "form", "auth", "database", "model"}
	simplePatterns  = []string{"setup", "config", "install", "basic", "simple", "crear", "añadir"}
)

// estimateTaskHours guesses effort from title and description keywords
// when the assistant provided no estimate.
func (e *Executor) estimateTaskHours(title, description string) float64 {
	for _, text := range []string{strings.ToLower(title), strings.ToLower(description)} {
		if text == "" {
			continue
		}
		if containsAny(text, complexPatterns) {
			return 16
		}
		if containsAny(text, mediumPatterns) {
			return 12
		}
		if containsAny(text, simplePatterns) {
			return 6
		}
	}
	return e.defaults.EstimatedHours
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
