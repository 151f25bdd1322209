// Package agent wires the translator, the executor, and the session store
// into a single message-handling loop.
package agent

import (
	"context"
	"fmt"

	"github.com/RomeoThePickleTec/jaivier-agent/internal/apiclient"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/assistant"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/config"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/executor"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/logging"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/session"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/types"
)

// backendAPI adapts the REST service manager to the executor's surface.
type backendAPI struct {
	manager *apiclient.Manager
}

func (b *backendAPI) CreateProject(ctx context.Context, data map[string]any) error {
	return b.manager.Projects.Create(ctx, data)
}

func (b *backendAPI) ListProjects(ctx context.Context) ([]map[string]any, error) {
	return b.manager.Projects.GetAll(ctx)
}

func (b *backendAPI) CreateSprint(ctx context.Context, data map[string]any) error {
	return b.manager.Sprints.Create(ctx, data)
}

func (b *backendAPI) ListSprints(ctx context.Context, projectID int64) ([]map[string]any, error) {
	return b.manager.Sprints.GetAll(ctx, projectID)
}

func (b *backendAPI) CreateTask(ctx context.Context, data map[string]any) error {
	return b.manager.Tasks.Create(ctx, data)
}

func (b *backendAPI) ListTasks(ctx context.Context, projectID, sprintID int64) ([]map[string]any, error) {
	return b.manager.Tasks.GetAll(ctx, projectID, sprintID)
}

// Agent handles one user message end to end: build conversational
// context, translate to operations, execute, record the turn.
type Agent struct {
	translator *assistant.Translator
	executor   *executor.Executor
	manager    *apiclient.Manager
	sessions   *session.Store
}

// New assembles an agent from its parts. llm may be nil (keyword
// fallback only), sessions may be nil (stateless chat).
func New(cfg *config.Config, manager *apiclient.Manager, llm assistant.LLMClient, sessions *session.Store) *Agent {
	return &Agent{
		translator: assistant.NewTranslator(llm),
		executor:   executor.New(&backendAPI{manager: manager}, cfg.Defaults),
		manager:    manager,
		sessions:   sessions,
	}
}

// HandleMessage processes one chat message and returns the reply text.
// It never returns an error to the caller: failures surface in the
// formatted summary instead.
func (a *Agent) HandleMessage(ctx context.Context, userID int64, text string) string {
	timer := logging.StartTimer(logging.CategorySession, "HandleMessage")
	defer timer.Stop()

	convCtx := a.buildContext(ctx, userID)
	batch := a.translator.Translate(ctx, text, convCtx)

	results := a.executor.Execute(ctx, batch, userID)
	reply := executor.FormatResponse(results)

	a.updateContext(userID, results)

	if a.sessions != nil {
		if err := a.sessions.RecordTurn(userID, text, summarizeAction(results)); err != nil {
			logging.SessionError("Failed to record turn: %v", err)
		}
	}

	return reply
}

// buildContext gathers session history and backend state for the
// translator. Every lookup is best effort.
func (a *Agent) buildContext(ctx context.Context, userID int64) assistant.Context {
	var convCtx assistant.Context

	if a.sessions != nil {
		if current, err := a.sessions.Current(userID, "project"); err == nil {
			convCtx.CurrentProject = current
		}
		if current, err := a.sessions.Current(userID, "sprint"); err == nil {
			convCtx.CurrentSprint = current
		}
		if turns, err := a.sessions.RecentTurns(userID, 5); err == nil {
			for _, t := range turns {
				convCtx.Recent = append(convCtx.Recent, assistant.Turn{
					UserMessage: t.UserMessage,
					Action:      t.Action,
				})
			}
		}
	}

	if projects, err := a.manager.Projects.GetAll(ctx); err == nil {
		convCtx.AvailableProjects = projects
	} else {
		logging.SessionDebug("Could not list projects for context: %v", err)
	}
	if sprints, err := a.manager.Sprints.GetAll(ctx, 0); err == nil {
		convCtx.AvailableSprints = sprints
	} else {
		logging.SessionDebug("Could not list sprints for context: %v", err)
	}

	return convCtx
}

// updateContext remembers the most recently created project and sprint
// as the user's current selection.
func (a *Agent) updateContext(userID int64, results []types.Result) {
	if a.sessions == nil {
		return
	}
	for _, r := range results {
		if !r.Success || r.Entity == nil {
			continue
		}
		switch r.Type {
		case "project":
			if err := a.sessions.SetCurrent(userID, "project", r.Entity); err != nil {
				logging.SessionError("Failed to store current project: %v", err)
			}
		case "sprint":
			if err := a.sessions.SetCurrent(userID, "sprint", r.Entity); err != nil {
				logging.SessionError("Failed to store current sprint: %v", err)
			}
		}
	}
}

// summarizeAction compresses a batch outcome into one history line.
func summarizeAction(results []types.Result) string {
	if len(results) == 0 {
		return "no operations"
	}
	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	return fmt.Sprintf("%d/%d operations succeeded", succeeded, len(results))
}
