package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/RomeoThePickleTec/jaivier-agent/internal/logging"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/types"
)

// Translator turns a chat message into an operation batch. When the model
// is unavailable or produces garbage it falls back to keyword heuristics,
// so the agent always has something to execute.
type Translator struct {
	llm LLMClient
}

// NewTranslator builds a Translator. llm may be nil, in which case only
// the heuristic fallback is used.
func NewTranslator(llm LLMClient) *Translator {
	return &Translator{llm: llm}
}

// Translate produces the operation batch for one user message.
func (t *Translator) Translate(ctx context.Context, userMessage string, convCtx Context) types.Batch {
	if t.llm == nil {
		return fallbackBatch(userMessage, convCtx)
	}

	raw, err := t.llm.Complete(ctx, systemPrompt, buildUserPrompt(userMessage, convCtx))
	if err != nil {
		logging.AssistantWarn("Completion failed, using fallback: %v", err)
		return fallbackBatch(userMessage, convCtx)
	}

	batch, err := parseBatch(raw)
	if err != nil {
		logging.AssistantWarn("Could not parse model output, using fallback: %v", err)
		return fallbackBatch(userMessage, convCtx)
	}

	logging.Assistant("Translated %q into %d operations", userMessage, len(batch.Operations))
	return batch
}

// parseBatch extracts the first JSON object carrying an operations array
// from the raw model output.
func parseBatch(raw string) (types.Batch, error) {
	for _, candidate := range findJSONCandidates(raw) {
		var batch types.Batch
		if err := json.Unmarshal([]byte(candidate), &batch); err != nil {
			continue
		}
		if batch.Operations != nil {
			return batch, nil
		}
	}
	return types.Batch{}, fmt.Errorf("no operations object found in model output")
}

var taskCountRe = regexp.MustCompile(`\b(\d+)\s*(?:tasks?|tareas?)\b`)

// fallbackBatch is the no-model interpretation path: cheap keyword
// matching for the common commands.
func fallbackBatch(userMessage string, convCtx Context) types.Batch {
	lower := strings.ToLower(userMessage)

	currentProjectID := ""
	if convCtx.CurrentProject != nil {
		currentProjectID = types.FieldString(convCtx.CurrentProject, "id")
	}
	currentSprintID := ""
	if convCtx.CurrentSprint != nil {
		currentSprintID = types.FieldString(convCtx.CurrentSprint, "id")
	}

	creating := containsAny(lower, "create", "crear", "add ", "añad", "new ", "nuevo", "nueva")
	mentionsProject := containsAny(lower, "project", "proyecto")
	mentionsSprint := strings.Contains(lower, "sprint")
	mentionsTask := containsAny(lower, "task", "tarea")

	switch {
	case creating && mentionsProject:
		name := extractQuotedOrTail(userMessage, "project", "proyecto")
		return types.Batch{Operations: []types.Operation{
			{Type: types.OpCreateProject, Data: map[string]any{"name": name}},
		}}

	case creating && mentionsTask:
		count := 1
		if m := taskCountRe.FindStringSubmatch(lower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 && n <= 20 {
				count = n
			}
		}
		ops := make([]types.Operation, 0, count)
		title := extractQuotedOrTail(userMessage, "task", "tarea")
		for i := 0; i < count; i++ {
			t := title
			if count > 1 {
				t = fmt.Sprintf("%s %d", title, i+1)
			}
			data := map[string]any{"title": t}
			if currentProjectID != "" {
				data["project_id"] = currentProjectID
			}
			if currentSprintID != "" {
				data["sprint_id"] = currentSprintID
			}
			ops = append(ops, types.Operation{Type: types.OpCreateTask, Data: data})
		}
		return types.Batch{Operations: ops}

	case mentionsProject:
		return types.Batch{Operations: []types.Operation{
			{Type: types.OpListProjects, Data: map[string]any{}},
		}}

	case mentionsSprint:
		data := map[string]any{}
		if currentProjectID != "" {
			data["project_id"] = currentProjectID
		}
		return types.Batch{Operations: []types.Operation{
			{Type: types.OpListSprints, Data: data},
		}}

	case mentionsTask:
		data := map[string]any{}
		if currentProjectID != "" {
			data["project_id"] = currentProjectID
		}
		if currentSprintID != "" {
			data["sprint_id"] = currentSprintID
		}
		return types.Batch{Operations: []types.Operation{
			{Type: types.OpListTasks, Data: data},
		}}
	}

	// Nothing matched: empty batch, the formatter reports it
	return types.Batch{}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var quotedRe = regexp.MustCompile(`["']([^"']+)["']`)

// extractQuotedOrTail pulls a quoted name, or the words after "called" or
// "llamado", or falls back to a generic name.
func extractQuotedOrTail(message string, kinds ...string) string {
	if m := quotedRe.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	lower := strings.ToLower(message)
	for _, marker := range []string{"called ", "named ", "llamado ", "llamada "} {
		if idx := strings.Index(lower, marker); idx != -1 {
			tail := strings.TrimSpace(message[idx+len(marker):])
			if tail != "" {
				return tail
			}
		}
	}
	for _, kind := range kinds {
		if kind != "" {
			return "New " + capitalize(kind)
		}
	}
	return "New item"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
