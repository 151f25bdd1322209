package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/RomeoThePickleTec/jaivier-agent/internal/logging"
)

// ProjectService accesses /projectlist.
type ProjectService struct {
	client *Client
}

// SprintService accesses /sprintlist.
type SprintService struct {
	client *Client
}

// TaskService accesses /tasklist.
type TaskService struct {
	client *Client
}

// GetAll returns every project, or an empty slice on error.
func (s *ProjectService) GetAll(ctx context.Context) ([]map[string]any, error) {
	var raw json.RawMessage
	if err := s.client.doJSON(ctx, http.MethodGet, "/projectlist", nil, nil, &raw); err != nil {
		logging.APIError("Error listing projects: %v", err)
		return nil, err
	}
	return decodeList(raw), nil
}

// GetByID fetches one project.
func (s *ProjectService) GetByID(ctx context.Context, id int64) (map[string]any, error) {
	var entity map[string]any
	if err := s.client.doJSON(ctx, http.MethodGet, "/projectlist/"+strconv.FormatInt(id, 10), nil, nil, &entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// Create posts a new project.
func (s *ProjectService) Create(ctx context.Context, data map[string]any) error {
	return s.client.doJSON(ctx, http.MethodPost, "/projectlist", nil, data, nil)
}

// Update modifies an existing project by id.
func (s *ProjectService) Update(ctx context.Context, id int64, data map[string]any) error {
	return s.client.doJSON(ctx, http.MethodPut, "/projectlist/"+strconv.FormatInt(id, 10), nil, data, nil)
}

// Delete removes a project by id.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	return s.client.doJSON(ctx, http.MethodDelete, "/projectlist/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// GetAll returns sprints, optionally filtered by project. A projectID of 0
// means no filter.
func (s *SprintService) GetAll(ctx context.Context, projectID int64) ([]map[string]any, error) {
	params := url.Values{}
	if projectID != 0 {
		params.Set("project_id", strconv.FormatInt(projectID, 10))
	}
	var raw json.RawMessage
	if err := s.client.doJSON(ctx, http.MethodGet, "/sprintlist", params, nil, &raw); err != nil {
		logging.APIError("Error listing sprints: %v", err)
		return nil, err
	}
	return decodeList(raw), nil
}

// GetByID fetches one sprint.
func (s *SprintService) GetByID(ctx context.Context, id int64) (map[string]any, error) {
	var entity map[string]any
	if err := s.client.doJSON(ctx, http.MethodGet, "/sprintlist/"+strconv.FormatInt(id, 10), nil, nil, &entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// Create posts a new sprint.
func (s *SprintService) Create(ctx context.Context, data map[string]any) error {
	return s.client.doJSON(ctx, http.MethodPost, "/sprintlist", nil, data, nil)
}

// Update modifies an existing sprint by id.
func (s *SprintService) Update(ctx context.Context, id int64, data map[string]any) error {
	return s.client.doJSON(ctx, http.MethodPut, "/sprintlist/"+strconv.FormatInt(id, 10), nil, data, nil)
}

// Delete removes a sprint by id.
func (s *SprintService) Delete(ctx context.Context, id int64) error {
	return s.client.doJSON(ctx, http.MethodDelete, "/sprintlist/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// GetAll returns tasks, optionally filtered by project and sprint. Zero
// values mean no filter.
func (s *TaskService) GetAll(ctx context.Context, projectID, sprintID int64) ([]map[string]any, error) {
	params := url.Values{}
	if projectID != 0 {
		params.Set("project_id", strconv.FormatInt(projectID, 10))
	}
	if sprintID != 0 {
		params.Set("sprint_id", strconv.FormatInt(sprintID, 10))
	}
	var raw json.RawMessage
	if err := s.client.doJSON(ctx, http.MethodGet, "/tasklist", params, nil, &raw); err != nil {
		logging.APIError("Error listing tasks: %v", err)
		return nil, err
	}
	return decodeList(raw), nil
}

// GetByID fetches one task.
func (s *TaskService) GetByID(ctx context.Context, id int64) (map[string]any, error) {
	var entity map[string]any
	if err := s.client.doJSON(ctx, http.MethodGet, "/tasklist/"+strconv.FormatInt(id, 10), nil, nil, &entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// Create posts a new task.
func (s *TaskService) Create(ctx context.Context, data map[string]any) error {
	return s.client.doJSON(ctx, http.MethodPost, "/tasklist", nil, data, nil)
}

// Update modifies an existing task by id.
func (s *TaskService) Update(ctx context.Context, id int64, data map[string]any) error {
	return s.client.doJSON(ctx, http.MethodPut, "/tasklist/"+strconv.FormatInt(id, 10), nil, data, nil)
}

// Delete removes a task by id.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.client.doJSON(ctx, http.MethodDelete, "/tasklist/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// Manager bundles the client and the per-entity services.
type Manager struct {
	Client   *Client
	Projects *ProjectService
	Sprints  *SprintService
	Tasks    *TaskService
}

// NewManager builds a Manager for the given client.
func NewManager(client *Client) *Manager {
	return &Manager{
		Client:   client,
		Projects: &ProjectService{client: client},
		Sprints:  &SprintService{client: client},
		Tasks:    &TaskService{client: client},
	}
}

// Initialize logs in with the given credentials.
func (m *Manager) Initialize(ctx context.Context, username, password string) error {
	if err := m.Client.Login(ctx, username, password); err != nil {
		return fmt.Errorf("backend authentication failed: %w", err)
	}
	return nil
}
