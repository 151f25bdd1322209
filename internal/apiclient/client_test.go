package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	tokenFields := []string{"accessToken", "access_token", "token"}

	for _, field := range tokenFields {
		t.Run("accepts "+field, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/auth/login", r.URL.Path)

				var creds map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
				assert.Equal(t, "bot", creds["username"])

				json.NewEncoder(w).Encode(map[string]string{field: "tok-123"})
			}))
			defer srv.Close()

			c := NewClient(srv.URL, 5*time.Second)
			require.NoError(t, c.Login(context.Background(), "bot", "secret"))
			assert.True(t, c.Authenticated())
		})
	}

	t.Run("rejects missing token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second)
		err := c.Login(context.Background(), "bot", "secret")
		assert.Error(t, err)
		assert.False(t, c.Authenticated())
	})

	t.Run("rejects bad status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second)
		assert.Error(t, c.Login(context.Background(), "bot", "wrong"))
	})
}

func TestBearerHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "tok-xyz"})
			return
		}
		assert.Equal(t, "Bearer tok-xyz", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	require.NoError(t, c.Login(context.Background(), "bot", "secret"))

	m := NewManager(c)
	_, err := m.Projects.GetAll(context.Background())
	require.NoError(t, err)
}

func TestListDecoding(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "name": "Alpha"}})
		}))
		defer srv.Close()

		m := NewManager(NewClient(srv.URL, 5*time.Second))
		items, err := m.Projects.GetAll(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Alpha", items[0]["name"])
	})

	t.Run("data wrapper", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{{"id": 2, "name": "Beta"}},
			})
		}))
		defer srv.Close()

		m := NewManager(NewClient(srv.URL, 5*time.Second))
		items, err := m.Projects.GetAll(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Beta", items[0]["name"])
	})
}

func TestListFilters(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer srv.Close()

	m := NewManager(NewClient(srv.URL, 5*time.Second))

	_, err := m.Tasks.GetAll(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "project_id=7")
	assert.Contains(t, gotQuery, "sprint_id=3")

	_, err = m.Sprints.GetAll(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestEntityByIDPaths(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"id": 42, "name": "Gamma"})
	}))
	defer srv.Close()

	m := NewManager(NewClient(srv.URL, 5*time.Second))

	entity, err := m.Tasks.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "/tasklist/42", gotPath)
	assert.Equal(t, "Gamma", entity["name"])

	require.NoError(t, m.Sprints.Update(context.Background(), 9, map[string]any{"status": 2}))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/sprintlist/9", gotPath)

	require.NoError(t, m.Projects.Delete(context.Background(), 5))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/projectlist/5", gotPath)
}

func TestRetryOnRateLimit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{{"id": 1}})
	}))
	defer srv.Close()

	m := NewManager(NewClient(srv.URL, 5*time.Second))
	items, err := m.Projects.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 2, calls)
}

func TestErrorStatusNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := NewManager(NewClient(srv.URL, 5*time.Second))
	err := m.Projects.Create(context.Background(), map[string]any{"name": "X"})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
