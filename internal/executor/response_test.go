package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RomeoThePickleTec/jaivier-agent/internal/types"
)

func TestFormatResponseSingleSuccess(t *testing.T) {
	t.Run("single creation", func(t *testing.T) {
		out := FormatResponse([]types.Result{
			{Success: true, Type: "project", Entity: map[string]any{"id": int64(1), "name": "P"}},
		})
		assert.Equal(t, "✅ Project created successfully!", out)
	})

	t.Run("listing projects", func(t *testing.T) {
		out := FormatResponse([]types.Result{
			{Success: true, Type: "projects", Items: []map[string]any{
				{"id": int64(1), "name": "Alpha", "status": int64(1)},
				{"id": int64(2), "name": "Beta", "status": int64(2)},
			}},
		})
		assert.Contains(t, out, "Alpha (ID: 1) - Active")
		assert.Contains(t, out, "Beta (ID: 2) - Completed")
	})

	t.Run("empty listing", func(t *testing.T) {
		out := FormatResponse([]types.Result{
			{Success: true, Type: "tasks", Items: nil},
		})
		assert.Equal(t, "📋 No tasks found", out)
	})
}

func TestFormatResponseMultiple(t *testing.T) {
	results := []types.Result{
		{Success: true, Type: "project", Entity: map[string]any{"id": int64(10), "name": "App"}},
		{Success: true, Type: "sprint", Entity: map[string]any{"id": int64(20), "name": "S1", "project_id": int64(10)}},
		{Success: true, Type: "task", Entity: map[string]any{"id": int64(30), "title": "T1", "priority": int64(3), "estimated_hours": float64(12)}},
	}

	out := FormatResponse(results)

	assert.Contains(t, out, "Creation Summary")
	assert.Contains(t, out, "App (ID: 10)")
	assert.Contains(t, out, "S1 (ID: 20, Project: 10)")
	assert.Contains(t, out, "T1 (ID: 30)")
	assert.Contains(t, out, "12h")
	assert.Contains(t, out, "Total: 3 items created!")
}

func TestFormatResponseFailures(t *testing.T) {
	t.Run("all failed", func(t *testing.T) {
		out := FormatResponse([]types.Result{
			types.Failure("", "boom"),
			types.Failure("", "bang"),
		})
		assert.Contains(t, out, "No operations completed")
		assert.Contains(t, out, "2 operations failed")
		assert.Contains(t, out, "boom")
		assert.Contains(t, out, "bang")
	})

	t.Run("mixed outcome", func(t *testing.T) {
		out := FormatResponse([]types.Result{
			{Success: true, Type: "project", Entity: map[string]any{"id": int64(1), "name": "P"}},
			types.Failure("", "project_id required"),
		})
		assert.Contains(t, out, "Total: 1 items created!")
		assert.Contains(t, out, "1 operations failed")
		assert.Contains(t, out, "project_id required")
	})

	t.Run("at most three errors shown", func(t *testing.T) {
		out := FormatResponse([]types.Result{
			types.Failure("", "e1"),
			types.Failure("", "e2"),
			types.Failure("", "e3"),
			types.Failure("", "e4"),
		})
		assert.Contains(t, out, "e3")
		assert.NotContains(t, out, "e4")
	})

	t.Run("empty batch is still non-empty output", func(t *testing.T) {
		out := FormatResponse(nil)
		assert.NotEmpty(t, out)
	})
}

func TestFormatTasksCap(t *testing.T) {
	var items []map[string]any
	for i := 0; i < 14; i++ {
		items = append(items, map[string]any{
			"id": int64(i), "title": "Task", "priority": int64(2),
		})
	}
	out := FormatResponse([]types.Result{
		{Success: true, Type: "tasks", Items: items},
	})
	assert.Contains(t, out, "and 4 more tasks")
}
