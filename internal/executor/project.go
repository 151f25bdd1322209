package executor

import (
	"context"

	"github.com/RomeoThePickleTec/jaivier-agent/internal/logging"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/types"
)

const timestampLayout = "2006-01-02T15:04:05Z"

const defaultDescription = "Created by bot"

func (e *Executor) createProject(ctx context.Context, data map[string]any, userID int64) types.Result {
	now := e.clock().UTC()

	name := types.FieldString(data, "name")
	if name == "" {
		name = "New Project"
	}
	description := types.FieldString(data, "description")
	if description == "" {
		description = defaultDescription
	}

	startDate := normalizeDate(data["start_date"])
	if startDate == "" {
		startDate = now.Format(timestampLayout)
	}
	endDate := normalizeDate(data["end_date"])
	if endDate == "" {
		endDate = now.AddDate(0, 0, e.defaults.ProjectDays).Format(timestampLayout)
	}

	status := data["status"]
	if status == nil {
		status = "active"
	}

	payload := map[string]any{
		"name":        name,
		"description": description,
		"start_date":  startDate,
		"end_date":    endDate,
		"status":      normalizeStatus(status, "project"),
	}

	if err := e.api.CreateProject(ctx, payload); err != nil {
		logging.ExecutorError("Project creation failed: %v", err)
		return types.Failure("", err.Error())
	}

	// The backend does not echo the stored entity, so re-read the
	// collection after a short settle and match by name. Most recent
	// candidate wins when names collide.
	e.wait(ctx)
	projects, err := e.api.ListProjects(ctx)
	if err != nil {
		logging.ExecutorError("Project reconciliation read failed: %v", err)
		return types.Failure("", "Creation failed")
	}

	if entity := matchByField(projects, "name", name); entity != nil {
		return types.Result{Success: true, Type: "project", Entity: entity}
	}
	return types.Failure("", "Creation failed")
}

func (e *Executor) listProjects(ctx context.Context, data map[string]any, userID int64) types.Result {
	projects, err := e.api.ListProjects(ctx)
	if err != nil {
		logging.ExecutorError("Project listing failed: %v", err)
		projects = nil
	}
	return types.Result{Success: true, Type: "projects", Items: projects}
}

// matchByField returns the last entity whose field equals want, or nil.
// Backend lists append in creation order, so the last match is the most
// recently created candidate.
func matchByField(items []map[string]any, field, want string) map[string]any {
	var found map[string]any
	for _, item := range items {
		if types.FieldString(item, field) == want {
			found = item
		}
	}
	return found
}
