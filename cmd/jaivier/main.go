package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/RomeoThePickleTec/jaivier-agent/internal/agent"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/apiclient"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/assistant"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/config"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/logging"
	"github.com/RomeoThePickleTec/jaivier-agent/internal/session"
)

const version = "1.0.0"

var (
	// Global flags
	verbose   bool
	workspace string
	timeout   time.Duration
	userID    int64

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jaivier",
	Short: "Jaivier - conversational project management agent",
	Long: `Jaivier is a chat agent for a project management backend.

It translates natural language into batches of structured operations
(create projects, sprints and tasks, list them, wire them together) and
executes them against the REST API in one go.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Use == "jaivier" && cmd.CalledAs() == "jaivier" {
			return nil
		}

		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveChat()
	},
}

// runCmd executes a single message and prints the reply
var runCmd = &cobra.Command{
	Use:   "run [message]",
	Short: "Process a single chat message and print the reply",
	Long: `Processes one natural language message through the full pipeline:
  1. Translate the message into an operation batch
  2. Execute every operation against the backend
  3. Print the formatted summary

Example:
  jaivier run "create project MyApp with a sprint and 3 tasks"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMessage,
}

// statusCmd reports backend reachability and configuration
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend connectivity and configuration",
	RunE:  showStatus,
}

// versionCmd prints the version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the jaivier version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jaivier %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")
	rootCmd.PersistentFlags().Int64Var(&userID, "user", 1, "User id for session state")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveWorkspace returns the workspace flag or the current directory.
func resolveWorkspace() string {
	if workspace != "" {
		return workspace
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// buildAgent assembles the full pipeline from configuration. The session
// store and the LLM client are both optional: a missing database falls
// back to stateless chat, a missing API key falls back to keyword
// translation.
func buildAgent(ctx context.Context, cfg *config.Config) (*agent.Agent, func(), error) {
	client := apiclient.NewClient(cfg.API.BaseURL, cfg.GetAPITimeout())
	manager := apiclient.NewManager(client)
	if err := manager.Initialize(ctx, cfg.API.Username, cfg.API.Password); err != nil {
		logging.BootError("Backend login failed: %v", err)
	}

	var llm assistant.LLMClient
	if cfg.LLM.APIKey != "" {
		gemini, err := assistant.NewGeminiClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
		if err != nil {
			logging.BootError("Gemini client unavailable: %v", err)
		} else {
			llm = gemini
		}
	}

	var sessions *session.Store
	cleanup := func() {}
	if cfg.Session.DatabasePath != "" {
		store, err := session.Open(cfg.Session.DatabasePath, cfg.Session.HistoryLimit)
		if err != nil {
			logging.BootError("Session store unavailable: %v", err)
		} else {
			sessions = store
			cleanup = func() { store.Close() }
		}
	}

	return agent.New(cfg, manager, llm, sessions), cleanup, nil
}

// runMessage processes one message from the command line
func runMessage(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	ws := resolveWorkspace()
	logging.Initialize(ws)

	cfg, err := config.Load(config.DefaultPath(ws))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	message := strings.Join(args, " ")
	logger.Info("Processing message", zap.String("input", message))

	a, cleanup, err := buildAgent(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Println(a.HandleMessage(ctx, userID, message))
	return nil
}

// showStatus reports configuration and backend health
func showStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ws := resolveWorkspace()
	cfg, err := config.Load(config.DefaultPath(ws))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Printf("jaivier %s\n\n", version)
	fmt.Printf("Workspace:   %s\n", ws)
	fmt.Printf("Backend:     %s\n", cfg.API.BaseURL)
	fmt.Printf("Model:       %s\n", cfg.LLM.Model)
	fmt.Printf("Session db:  %s\n", cfg.Session.DatabasePath)

	if cfg.LLM.APIKey == "" {
		fmt.Println("LLM:         not configured (keyword fallback active)")
	} else {
		fmt.Println("LLM:         configured")
	}

	client := apiclient.NewClient(cfg.API.BaseURL, cfg.GetAPITimeout())
	if client.HealthCheck(ctx) {
		fmt.Println("Health:      reachable")
	} else {
		fmt.Println("Health:      unreachable")
	}

	return nil
}
