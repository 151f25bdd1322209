// Package executor runs batches of structured operations against the
// Jaivier backend. Each batch gets its own reference registry, every
// operation is isolated from the failures of its neighbors, and the whole
// batch collapses into one formatted summary string.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/RomeoThePickleTec/jaivier-agent/internal/config"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/logging"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/types"
)

// API is the persistence surface the executor needs. Satisfied by the
// backend REST client; tests supply fakes.
type API interface {
	CreateProject(ctx context.Context, data map[string]any) error
	ListProjects(ctx context.Context) ([]map[string]any, error)
	CreateSprint(ctx context.Context, data map[string]any) error
	ListSprints(ctx context.Context, projectID int64) ([]map[string]any, error)
	CreateTask(ctx context.Context, data map[string]any) error
	ListTasks(ctx context.Context, projectID, sprintID int64) ([]map[string]any, error)
}

type handlerFunc func(ctx context.Context, data map[string]any, userID int64) types.Result

// Executor executes operation batches. Safe for concurrent use: the only
// per-batch mutable state lives inside Execute.
type Executor struct {
	api      API
	defaults config.DefaultsConfig

	// test seams
	clock  func() time.Time
	settle time.Duration

	handlers map[string]handlerFunc
}

// New builds an Executor over the given persistence API.
func New(api API, defaults config.DefaultsConfig) *Executor {
	e := &Executor{
		api:      api,
		defaults: defaults,
		clock:    time.Now,
		settle:   500 * time.Millisecond,
	}
	e.handlers = map[string]handlerFunc{
		types.OpCreateProject: e.createProject,
		types.OpCreateSprint:  e.createSprint,
		types.OpCreateTask:    e.createTask,
		types.OpListProjects:  e.listProjects,
		types.OpListSprints:   e.listSprints,
		types.OpListTasks:     e.listTasks,
		types.OpUpdateProject: e.updateStub,
		types.OpUpdateSprint:  e.updateStub,
		types.OpUpdateTask:    e.updateStub,
		types.OpDeleteProject: e.deleteStub,
		types.OpDeleteSprint:  e.deleteStub,
		types.OpDeleteTask:    e.deleteStub,
	}
	return e
}

// SetSettleDelay overrides the pause between creating an entity and
// re-listing to confirm it. Useful against fast local backends.
func (e *Executor) SetSettleDelay(d time.Duration) {
	e.settle = d
}

// Run executes a batch and returns the formatted summary. This is the
// public contract: it never returns an error and never panics.
func (e *Executor) Run(ctx context.Context, batch types.Batch, userID int64) string {
	results := e.Execute(ctx, batch, userID)
	return FormatResponse(results)
}

// Execute runs every operation in order and returns one result per
// operation. A failing operation never aborts the batch.
func (e *Executor) Execute(ctx context.Context, batch types.Batch, userID int64) []types.Result {
	// Registry of entities created earlier in this batch, keyed by the
	// operation's reference name. Fresh per invocation.
	registry := make(map[string]map[string]any)

	timer := logging.StartTimer(logging.CategoryExecutor, fmt.Sprintf("batch of %d operations", len(batch.Operations)))
	defer timer.Stop()

	results := make([]types.Result, 0, len(batch.Operations))
	for i, op := range batch.Operations {
		result := e.executeOne(ctx, op, registry, userID)
		logging.Executor("Operation %d (%s): success=%v", i+1, op.Type, result.Success)
		results = append(results, result)
	}
	return results
}

// executeOne resolves references, dispatches to the handler and records
// the created entity. Panics inside a handler are converted to a failed
// result so one bad operation cannot take down the batch.
func (e *Executor) executeOne(ctx context.Context, op types.Operation, registry map[string]map[string]any, userID int64) (result types.Result) {
	defer func() {
		if r := recover(); r != nil {
			logging.ExecutorError("Operation %s panicked: %v", op.Type, r)
			result = types.Failure(op.Type, fmt.Sprintf("%v", r))
		}
	}()

	data := resolveReferences(op.Data, registry)

	handler, ok := e.handlers[op.Type]
	if !ok {
		return types.Failure(op.Type, fmt.Sprintf("Unknown operation: %s", op.Type))
	}

	result = handler(ctx, data, userID)

	// Sole mutation point of the registry: a confirmed entity with an id,
	// registered under the operation's reference name.
	if op.Reference != "" && result.Success && result.Entity != nil {
		if _, ok := result.Entity["id"]; ok {
			registry[op.Reference] = result.Entity
		}
	}

	return result
}

// wait sleeps for the reconciliation settle delay, honoring cancellation.
func (e *Executor) wait(ctx context.Context) {
	if e.settle <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(e.settle):
	}
}

func (e *Executor) updateStub(context.Context, map[string]any, int64) types.Result {
	return types.Failure("", "Update not implemented yet")
}

func (e *Executor) deleteStub(context.Context, map[string]any, int64) types.Result {
	return types.Failure("", "Delete not implemented yet")
}
