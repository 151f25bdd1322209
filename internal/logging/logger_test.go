package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetState() {
	CloseAll()
	loggers = make(map[Category]*Logger)
	logsDir = ""
	workspace = ""
	config = loggingConfig{}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	configDir := filepath.Join(dir, ".jaivier")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

// TestAllCategoriesLog tests that all categories create log files when debug_mode is true
func TestAllCategoriesLog(t *testing.T) {
	tempDir := t.TempDir()

	writeConfig(t, tempDir, `
logging:
  level: debug
  debug_mode: true
  categories:
    boot: true
    session: true
    api: true
    assistant: true
    executor: true
    tui: true
`)

	resetState()
	defer resetState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if !IsDebugMode() {
		t.Error("Expected debug mode to be enabled")
	}

	categories := []Category{
		CategoryBoot, CategorySession, CategoryAPI,
		CategoryAssistant, CategoryExecutor, CategoryTUI,
	}
	for _, cat := range categories {
		Get(cat).Info("test message for %s", cat)
	}
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(tempDir, ".jaivier", "logs"))
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}

	found := make(map[string]bool)
	for _, e := range entries {
		for _, cat := range categories {
			if strings.HasSuffix(e.Name(), "_"+string(cat)+".log") {
				found[string(cat)] = true
			}
		}
	}
	for _, cat := range categories {
		if !found[string(cat)] {
			t.Errorf("Expected log file for category %s", cat)
		}
	}
}

// TestProductionModeSilent tests that no logs are written without debug_mode
func TestProductionModeSilent(t *testing.T) {
	tempDir := t.TempDir()

	resetState()
	defer resetState()

	// No config file at all = production mode
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if IsDebugMode() {
		t.Error("Expected debug mode to be disabled")
	}

	Boot("this should go nowhere")
	Executor("neither should this")

	if _, err := os.Stat(filepath.Join(tempDir, ".jaivier", "logs")); !os.IsNotExist(err) {
		t.Error("Expected no logs directory in production mode")
	}
}

// TestCategoryFilter tests that disabled categories return no-op loggers
func TestCategoryFilter(t *testing.T) {
	tempDir := t.TempDir()

	writeConfig(t, tempDir, `
logging:
  level: debug
  debug_mode: true
  categories:
    api: true
    executor: false
`)

	resetState()
	defer resetState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if !IsCategoryEnabled(CategoryAPI) {
		t.Error("Expected api category to be enabled")
	}
	if IsCategoryEnabled(CategoryExecutor) {
		t.Error("Expected executor category to be disabled")
	}

	l := Get(CategoryExecutor)
	if l.logger != nil {
		t.Error("Expected no-op logger for disabled category")
	}
}
