package assistant

import (
	"fmt"
	"strings"

	"github.com/RomeoThePickleTec/jaivier-agent/internal/types"
)

// systemPrompt teaches the model the operation vocabulary and the
// reference mini-language. Output must be a single JSON object.
const systemPrompt = `You are an assistant that translates commands for a project management system into JSON operations.

AVAILABLE OPERATIONS:
- CREATE_PROJECT: Create new project
- CREATE_SPRINT: Create new sprint (requires project_id)
- CREATE_TASK: Create new task (optional project_id, sprint_id)
- LIST_PROJECTS: List all projects
- LIST_SPRINTS: List sprints (optional project_id filter)
- LIST_TASKS: List tasks (optional project_id, sprint_id filters)
- UPDATE_PROJECT / UPDATE_SPRINT / UPDATE_TASK: Update by id
- DELETE_PROJECT / DELETE_SPRINT / DELETE_TASK: Delete by id

RESPONSE FORMAT:
{
    "operations": [
        {
            "type": "OPERATION_TYPE",
            "data": { ... operation-specific fields ... },
            "reference": "unique_name"
        }
    ],
    "response_template": "Short success message"
}
The "reference" field is optional; declare it when later operations need
the created entity.

FIELD REFERENCES:
Use "$reference_name.field" to reference data from previous operations.
Example: "project_id": "$project1.id"

FIELD MAPPINGS:
Projects: name, description, start_date, end_date, status (active/completed/paused)
Sprints: name, description, project_id, start_date, end_date, status (active/completed/paused)
Tasks: title, description, project_id, sprint_id, priority (low/medium/high/critical), status (todo/in_progress/completed), estimated_hours, due_date

IMPORTANT: When referencing existing projects or sprints by name, use the
IDs from the AVAILABLE PROJECTS/SPRINTS lists in the context. When the user
asks for several items at once, emit one operation per item.

EXAMPLES:

"create project called MyApp":
{
    "operations": [
        {"type": "CREATE_PROJECT", "data": {"name": "MyApp", "description": "New application project"}}
    ],
    "response_template": "Project 'MyApp' created!"
}

"create project with sprint and 2 tasks":
{
    "operations": [
        {"type": "CREATE_PROJECT", "data": {"name": "Full Project"}, "reference": "proj1"},
        {"type": "CREATE_SPRINT", "data": {"name": "Initial Sprint", "project_id": "$proj1.id"}, "reference": "sprint1"},
        {"type": "CREATE_TASK", "data": {"title": "Task 1", "project_id": "$proj1.id", "sprint_id": "$sprint1.id"}},
        {"type": "CREATE_TASK", "data": {"title": "Task 2", "project_id": "$proj1.id", "sprint_id": "$sprint1.id"}}
    ],
    "response_template": "Created complete project with sprint and 2 tasks!"
}

Respond with exactly one valid JSON object and nothing else.`

// Turn is one prior exchange included for context.
type Turn struct {
	UserMessage string
	Action      string
}

// Context carries the conversational state the model needs to resolve
// pronouns and name references.
type Context struct {
	CurrentProject    map[string]any
	CurrentSprint     map[string]any
	Recent            []Turn
	AvailableProjects []map[string]any
	AvailableSprints  []map[string]any
}

// buildUserPrompt renders the user command and the conversational context
// into the completion request.
func buildUserPrompt(userMessage string, ctx Context) string {
	var b strings.Builder

	fmt.Fprintf(&b, "USER COMMAND: %q\n\nCURRENT CONTEXT:\n", userMessage)

	if ctx.CurrentProject != nil {
		fmt.Fprintf(&b, "Current project: %s (ID: %s)\n",
			types.FieldString(ctx.CurrentProject, "name"),
			types.FieldString(ctx.CurrentProject, "id"))
	}
	if ctx.CurrentSprint != nil {
		fmt.Fprintf(&b, "Current sprint: %s (ID: %s)\n",
			types.FieldString(ctx.CurrentSprint, "name"),
			types.FieldString(ctx.CurrentSprint, "id"))
	}

	if len(ctx.Recent) > 0 {
		b.WriteString("\nRecent messages:\n")
		for _, turn := range ctx.Recent {
			fmt.Fprintf(&b, "- User: %s\n", turn.UserMessage)
			if turn.Action != "" {
				fmt.Fprintf(&b, "  Action: %s\n", turn.Action)
			}
		}
	}

	if len(ctx.AvailableProjects) > 0 {
		b.WriteString("\nAVAILABLE PROJECTS:\n")
		for _, p := range ctx.AvailableProjects {
			fmt.Fprintf(&b, "- %s (ID: %s)\n",
				types.FieldString(p, "name"), types.FieldString(p, "id"))
		}
	}
	if len(ctx.AvailableSprints) > 0 {
		b.WriteString("\nAVAILABLE SPRINTS:\n")
		for _, s := range ctx.AvailableSprints {
			fmt.Fprintf(&b, "- %s (ID: %s, Project: %s)\n",
				types.FieldString(s, "name"), types.FieldString(s, "id"),
				types.FieldString(s, "project_id"))
		}
	}

	b.WriteString("\nGenerate the appropriate operations in valid JSON format.")
	return b.String()
}
