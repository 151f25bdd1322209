// Package types defines the shared operation vocabulary: the structured
// operation descriptors the assistant emits, the per-operation results the
// executor produces, and safe helpers for reading loosely-typed payloads.
package types

// Operation kinds the executor understands. The assistant emits these
// uppercase tokens in its structured output.
const (
	OpCreateProject = "CREATE_PROJECT"
	OpCreateSprint  = "CREATE_SPRINT"
	OpCreateTask    = "CREATE_TASK"
	OpListProjects  = "LIST_PROJECTS"
	OpListSprints   = "LIST_SPRINTS"
	OpListTasks     = "LIST_TASKS"
	OpUpdateProject = "UPDATE_PROJECT"
	OpUpdateSprint  = "UPDATE_SPRINT"
	OpUpdateTask    = "UPDATE_TASK"
	OpDeleteProject = "DELETE_PROJECT"
	OpDeleteSprint  = "DELETE_SPRINT"
	OpDeleteTask    = "DELETE_TASK"
)

// Operation is one unit of work in a batch. Data carries entity fields as
// loosely-typed values straight out of JSON decoding; string values of the
// form "$name" or "$name.field" refer to entities registered by earlier
// operations in the same batch. Reference, when non-empty, registers this
// operation's created entity under that name for later operations.
type Operation struct {
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	Reference string         `json:"reference,omitempty"`
}

// Batch is the assistant's full structured output for one user message:
// an ordered list of operations plus an optional canned response line.
type Batch struct {
	Operations       []Operation `json:"operations"`
	ResponseTemplate string      `json:"response_template,omitempty"`
}

// Result is the outcome of a single operation. Exactly one of Entity or
// Items is populated on success, depending on whether the operation
// created one entity or listed many.
type Result struct {
	Success bool
	Type    string
	Entity  map[string]any
	Items   []map[string]any
	Error   string
}

// Failure builds a failed result for the given operation type.
func Failure(opType, msg string) Result {
	return Result{Success: false, Type: opType, Error: msg}
}
