// notizfix applies free-text feedback to a transcribed note. It interprets
// the feedback with a completion provider, corrects the document through a
// fixed set of tools, updates the entity knowledge base and files the
// document according to its project routing.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/codefionn/notizfix/internal/applier"
	"github.com/codefionn/notizfix/internal/config"
	"github.com/codefionn/notizfix/internal/entity"
	"github.com/codefionn/notizfix/internal/fs"
	"github.com/codefionn/notizfix/internal/llm"
	"github.com/codefionn/notizfix/internal/logger"
	"github.com/codefionn/notizfix/internal/orchestrator"
	"github.com/codefionn/notizfix/internal/session"
	"github.com/codefionn/notizfix/internal/tools"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("76"))

	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		filePath   = flag.String("file", "", "Path to the transcribed note")
		feedback   = flag.String("feedback", "", "Feedback text (read from stdin when empty)")
		dryRun     = flag.Bool("dry-run", false, "Preview changes without writing anything")
		verbose    = flag.Bool("verbose", false, "Print each tool execution as it happens")
		configPath = flag.String("config", config.DefaultConfigPath(), "Path to the config file")
	)
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		return fmt.Errorf("-file is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := logger.ParseLevel(cfg.LogLevel)
	if *verbose {
		logLevel = logger.LevelDebug
	}
	if initErr := logger.Init(logLevel, cfg.LogPath); initErr != nil {
		return fmt.Errorf("failed to initialize logger: %w", initErr)
	}
	defer func() {
		if closeErr := logger.Global().Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close logger: %v\n", closeErr)
		}
	}()

	feedbackText := strings.TrimSpace(*feedback)
	if feedbackText == "" {
		feedbackText, err = readStdin()
		if err != nil {
			return err
		}
	}
	if feedbackText == "" {
		return fmt.Errorf("no feedback given")
	}

	ctx := context.Background()
	filesystem := fs.NewOSFS()

	data, err := filesystem.ReadFile(ctx, *filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", *filePath, err)
	}

	store := entity.NewMarkdownStore(filesystem, cfg.EntitiesDir)
	sess := session.New(*filePath, string(data), store)
	sess.DryRun = *dryRun
	sess.Verbose = *verbose

	client, err := llm.NewClient(cfg.Provider.Name, cfg.Provider.APIKey, cfg.Provider.Model, cfg.Provider.BaseURL)
	if err != nil {
		return err
	}
	logger.Info("Processing feedback for %s with %s", *filePath, client.GetModelName())

	registry := tools.NewFeedbackRegistry(sess)
	orch := orchestrator.New(client, registry, sess)
	if *verbose {
		orch.OnToolResult = printToolResult
	}

	result, err := orch.Run(ctx, feedbackText)
	if err != nil {
		return fmt.Errorf("feedback processing failed: %w", err)
	}

	if result.Response != "" {
		fmt.Println(renderMarkdown(result.Response))
	}

	changes := sess.Changes()
	if len(changes) == 0 && !sess.Modified() {
		fmt.Println(dimStyle.Render("No changes."))
		return nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to resolve home directory: %w", err)
	}
	applied, err := applier.New(filesystem, homeDir).Apply(ctx, sess)
	if err != nil {
		return err
	}

	printReport(sess, result, applied)
	return nil
}

func readStdin() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, "Feedback: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read feedback from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func printToolResult(name string, result *tools.ToolResult) {
	if result.Success {
		fmt.Println(successStyle.Render("✓ " + name + ": " + result.Message))
	} else {
		fmt.Println(failureStyle.Render("✗ " + name + ": " + result.Message))
	}
}

func printReport(sess *session.FeedbackSession, result *orchestrator.Result, applied *applier.Result) {
	if sess.DryRun {
		fmt.Println(headerStyle.Render("Dry run, nothing was written."))
	}

	changes := sess.Changes()
	if len(changes) > 0 {
		fmt.Println(headerStyle.Render(fmt.Sprintf("%d change(s):", len(changes))))
		for _, change := range changes {
			fmt.Println("  " + successStyle.Render("•") + " " + change.Description)
		}
	}

	if result.State == orchestrator.StateBudgetExhausted {
		fmt.Println(dimStyle.Render("Stopped after the iteration limit, some feedback may be unprocessed."))
	}
	if result.Summary != "" {
		fmt.Println(dimStyle.Render(result.Summary))
	}

	if applied.NewPath != sess.SourcePath {
		if applied.Moved {
			fmt.Println(dimStyle.Render("Moved to " + applied.NewPath))
		} else {
			fmt.Println(dimStyle.Render("Renamed to " + applied.NewPath))
		}
	}
}

// renderMarkdown pretty-prints provider output when stdout is a terminal and
// falls back to the raw text otherwise.
func renderMarkdown(text string) string {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return text
	}

	width := 80
	if w, _, err := term.GetSize(fd); err == nil && w > 0 && w < width {
		width = w
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
