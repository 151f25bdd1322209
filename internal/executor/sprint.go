package executor

import (
	"context"

	"github.com/RomeoThePickleTec/jaivier-agent/internal/logging"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/types"
)

func (e *Executor) createSprint(ctx context.Context, data map[string]any, userID int64) types.Result {
	projectID, ok := types.FieldInt64(data, "project_id")
	if !ok || projectID == 0 {
		return types.Failure("", "project_id required")
	}

	now := e.clock().UTC()

	name := types.FieldString(data, "name")
	if name == "" {
		name = "New Sprint"
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
		endDate = now.AddDate(0, 0, e.defaults.SprintDays).Format(timestampLayout)
	}

	status := data["status"]
	if status == nil {
		status = "active"
	}

	payload := map[string]any{
		"name":        name,
		"description": description,
		"project_id":  projectID,
		"start_date":  startDate,
		"end_date":    endDate,
		"status":      normalizeStatus(status, "sprint"),
	}

	if err := e.api.CreateSprint(ctx, payload); err != nil {
		logging.ExecutorError("Sprint creation failed: %v", err)
		return types.Failure("", err.Error())
	}

	e.wait(ctx)
	sprints, err := e.api.ListSprints(ctx, projectID)
	if err != nil {
		logging.ExecutorError("Sprint reconciliation read failed: %v", err)
		return types.Failure("", "Creation failed")
	}

	if entity := matchByField(sprints, "name", name); entity != nil {
		return types.Result{Success: true, Type: "sprint", Entity: entity}
	}
	return types.Failure("", "Creation failed")
}

func (e *Executor) listSprints(ctx context.Context, data map[string]any, userID int64) types.Result {
	projectID, _ := types.FieldInt64(data, "project_id")
	sprints, err := e.api.ListSprints(ctx, projectID)
	if err != nil {
		logging.ExecutorError("Sprint listing failed: %v", err)
		sprints = nil
	}
	return types.Result{Success: true, Type: "sprints", Items: sprints}
}
