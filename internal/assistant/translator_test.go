package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RomeoThePickleTec/jaivier-agent/internal/types"
)

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) Complete(_ context.Context, _, userPrompt string) (string, error) {
	f.prompts = append(f.prompts, userPrompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestTranslateParsesModelOutput(t *testing.T) {
	t.Run("clean json", func(t *testing.T) {
		llm := &fakeLLM{response: `{"operations":[{"type":"CREATE_PROJECT","data":{"name":"MyApp"},"reference":"proj1"}],"response_template":"done"}`}
		tr := NewTranslator(llm)

		batch := tr.Translate(context.Background(), "create project called MyApp", Context{})
		require.Len(t, batch.Operations, 1)
		assert.Equal(t, types.OpCreateProject, batch.Operations[0].Type)
		assert.Equal(t, "MyApp", batch.Operations[0].Data["name"])
		assert.Equal(t, "proj1", batch.Operations[0].Reference)
		assert.Equal(t, "done", batch.ResponseTemplate)
	})

	t.Run("json wrapped in markdown fence", func(t *testing.T) {
		llm := &fakeLLM{response: "Sure! Here you go:\n```json\n{\"operations\":[{\"type\":\"LIST_PROJECTS\",\"data\":{}}]}\n```\nLet me know if you need anything else."}
		tr := NewTranslator(llm)

		batch := tr.Translate(context.Background(), "show projects", Context{})
		require.Len(t, batch.Operations, 1)
		assert.Equal(t, types.OpListProjects, batch.Operations[0].Type)
	})

	t.Run("prose before the real object", func(t *testing.T) {
		llm := &fakeLLM{response: `{"note":"not a batch"} {"operations":[{"type":"LIST_TASKS","data":{}}]}`}
		tr := NewTranslator(llm)

		batch := tr.Translate(context.Background(), "my tasks", Context{})
		require.Len(t, batch.Operations, 1)
		assert.Equal(t, types.OpListTasks, batch.Operations[0].Type)
	})
}

func TestTranslateFallsBackOnError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("quota exceeded")}
	tr := NewTranslator(llm)

	batch := tr.Translate(context.Background(), "list projects please", Context{})
	require.Len(t, batch.Operations, 1)
	assert.Equal(t, types.OpListProjects, batch.Operations[0].Type)
}

func TestTranslateFallsBackOnGarbage(t *testing.T) {
	llm := &fakeLLM{response: "I'm sorry, I cannot help with that."}
	tr := NewTranslator(llm)

	batch := tr.Translate(context.Background(), "create project 'Phoenix'", Context{})
	require.Len(t, batch.Operations, 1)
	assert.Equal(t, types.OpCreateProject, batch.Operations[0].Type)
	assert.Equal(t, "Phoenix", batch.Operations[0].Data["name"])
}

func TestTranslateIncludesContextInPrompt(t *testing.T) {
	llm := &fakeLLM{response: `{"operations":[]}`}
	tr := NewTranslator(llm)

	tr.Translate(context.Background(), "add a task here", Context{
		CurrentProject: map[string]any{"id": float64(7), "name": "Phoenix"},
		AvailableProjects: []map[string]any{
			{"id": float64(7), "name": "Phoenix"},
			{"id": float64(9), "name": "Hydra"},
		},
	})

	require.Len(t, llm.prompts, 1)
	prompt := llm.prompts[0]
	assert.Contains(t, prompt, "add a task here")
	assert.Contains(t, prompt, "Current project: Phoenix (ID: 7)")
	assert.Contains(t, prompt, "Hydra (ID: 9)")
}

func TestFallbackBatch(t *testing.T) {
	t.Run("list tasks scoped to current context", func(t *testing.T) {
		batch := fallbackBatch("show my tasks", Context{
			CurrentProject: map[string]any{"id": float64(3)},
			CurrentSprint:  map[string]any{"id": float64(12)},
		})
		require.Len(t, batch.Operations, 1)
		assert.Equal(t, types.OpListTasks, batch.Operations[0].Type)
		assert.Equal(t, "3", batch.Operations[0].Data["project_id"])
		assert.Equal(t, "12", batch.Operations[0].Data["sprint_id"])
	})

	t.Run("multiple tasks from count", func(t *testing.T) {
		batch := fallbackBatch("create 3 tasks called Cleanup", Context{})
		require.Len(t, batch.Operations, 3)
		assert.Equal(t, "Cleanup 1", batch.Operations[0].Data["title"])
		assert.Equal(t, "Cleanup 3", batch.Operations[2].Data["title"])
	})

	t.Run("unrecognized message yields empty batch", func(t *testing.T) {
		batch := fallbackBatch("how is the weather", Context{})
		assert.Empty(t, batch.Operations)
	})
}

func TestParseBatch(t *testing.T) {
	t.Run("requires operations key", func(t *testing.T) {
		_, err := parseBatch(`{"message":"hello"}`)
		assert.Error(t, err)
	})

	t.Run("empty operations array is valid", func(t *testing.T) {
		batch, err := parseBatch(`{"operations":[]}`)
		require.NoError(t, err)
		assert.Empty(t, batch.Operations)
	})
}
