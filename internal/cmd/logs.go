package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/focusgate/internal/logging"
	"github.com/Iron-Ham/focusgate/internal/tui/styles"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the debug log",
	Long: `View and filter focusgate's debug log.

Examples:
  # Show the last 50 lines
  focusgate logs

  # Follow the log in real-time
  focusgate logs -f

  # Only handler faults from the tour
  focusgate logs --level error --surface tour

  # Show logs from the last hour matching a pattern
  focusgate logs --since 1h --grep "siteAdded|groupAdded"`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsTail    int
	logsFollow  bool
	logsLevel   string
	logsSince   string
	logsGrep    string
	logsSurface string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of lines to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show logs since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter logs matching pattern (regex)")
	logsCmd.Flags().StringVar(&logsSurface, "surface", "", "Only show entries from this surface")
}

// logEntry represents a parsed JSON log line
type logEntry struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Msg       string         `json:"msg"`
	Surface   string         `json:"surface,omitempty"`
	Component string         `json:"component,omitempty"`
	Extra     map[string]any `json:"-"` // Captures additional fields
}

// UnmarshalJSON implements custom unmarshaling to capture extra fields
func (e *logEntry) UnmarshalJSON(data []byte) error {
	// First, unmarshal known fields using a type alias to avoid recursion
	type Alias logEntry
	aux := &struct {
		*Alias
	}{
		Alias: (*Alias)(e),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, known := range []string{"time", "level", "msg", "surface", "component"} {
		delete(all, known)
	}
	if len(all) > 0 {
		e.Extra = all
	}
	return nil
}

// logFilter holds the parsed filter flags.
type logFilter struct {
	minLevel int
	since    time.Time
	grep     *regexp.Regexp
	surface  string
}

// levelPriority returns the priority of a log level for filtering
func levelPriority(level string) int {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return 0
	case logging.LevelInfo:
		return 1
	case logging.LevelWarn:
		return 2
	case logging.LevelError:
		return 3
	default:
		return -1
	}
}

func levelStyle(level string) lipgloss.Style {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return styles.Muted
	case logging.LevelInfo:
		return lipgloss.NewStyle().Foreground(styles.BlueColor)
	case logging.LevelWarn:
		return styles.Warning
	case logging.LevelError:
		return styles.Error
	default:
		return styles.Text
	}
}

// passes checks if a log entry passes all filter criteria
func (f logFilter) passes(entry *logEntry) bool {
	if f.minLevel >= 0 && levelPriority(entry.Level) < f.minLevel {
		return false
	}
	if !f.since.IsZero() && entry.Time.Before(f.since) {
		return false
	}
	if f.surface != "" && entry.Surface != f.surface {
		return false
	}

	// Grep filter - search in message and extra fields
	if f.grep != nil {
		searchText := entry.Msg
		for _, v := range entry.Extra {
			searchText += " " + fmt.Sprintf("%v", v)
		}
		if !f.grep.MatchString(searchText) {
			return false
		}
	}
	return true
}

// formatLogEntry formats a log entry for terminal output
func formatLogEntry(entry *logEntry) string {
	var sb strings.Builder

	sb.WriteString(styles.Muted.Render("[" + entry.Time.Format("15:04:05.000") + "]"))
	sb.WriteString(" ")
	sb.WriteString(levelStyle(entry.Level).Render("[" + strings.ToUpper(entry.Level) + "]"))
	sb.WriteString(" ")
	sb.WriteString(entry.Msg)

	field := lipgloss.NewStyle().Foreground(styles.PrimaryColor)
	if entry.Surface != "" {
		sb.WriteString(" " + field.Render("surface="+entry.Surface))
	}
	if entry.Component != "" {
		sb.WriteString(" " + field.Render("component="+entry.Component))
	}

	// Extra fields, sorted for stable output
	keys := make([]string, 0, len(entry.Extra))
	for k := range entry.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(" " + field.Render(k+"=") + fmt.Sprintf("%v", entry.Extra[k]))
	}
	return sb.String()
}

// formatLine renders a raw log line, or "" if it is filtered out.
func formatLine(line string, f logFilter) (string, bool) {
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		// If we can't parse as JSON, display raw line
		return line, true
	}
	if !f.passes(&entry) {
		return "", false
	}
	return formatLogEntry(&entry), true
}

func parseLogFilter() (logFilter, error) {
	f := logFilter{minLevel: -1, surface: logsSurface}
	if logsLevel != "" {
		f.minLevel = levelPriority(logging.ParseLevel(logsLevel))
	}
	if logsSince != "" {
		d, err := time.ParseDuration(logsSince)
		if err != nil {
			return f, fmt.Errorf("invalid duration format: %w", err)
		}
		f.since = time.Now().Add(-d)
	}
	if logsGrep != "" {
		re, err := regexp.Compile(logsGrep)
		if err != nil {
			return f, fmt.Errorf("invalid grep pattern: %w", err)
		}
		f.grep = re
	}
	return f, nil
}

func runLogs(cmd *cobra.Command, args []string) error {
	filter, err := parseLogFilter()
	if err != nil {
		return err
	}

	env, err := loadEnv()
	if err != nil {
		return err
	}
	logPath := env.debugLogPath()
	// Reading our own log; don't hold it open for writing.
	_ = env.Close()

	out := cmd.OutOrStdout()
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Fprintf(out, "No logs found at %s\n", logPath)
		return nil
	}

	if logsFollow {
		return followLogs(cmd.Context(), out, logPath, filter)
	}
	return displayLogs(out, logPath, logsTail, filter)
}

// displayLogs reads the log file and displays filtered entries
func displayLogs(out io.Writer, logPath string, tail int, filter logFilter) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var entries []string
	scanner := bufio.NewScanner(file)
	// Increase buffer size for potentially long log lines (stack traces)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if formatted, ok := formatLine(line, filter); ok {
			entries = append(entries, formatted)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading log file: %w", err)
	}

	// Apply tail limit
	if tail > 0 && len(entries) > tail {
		entries = entries[len(entries)-tail:]
	}
	for _, entry := range entries {
		fmt.Fprintln(out, entry)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No matching log entries found.")
	}
	return nil
}

// followLogs implements tail -f behavior for the log file until ctx ends.
func followLogs(ctx context.Context, out io.Writer, logPath string, filter logFilter) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}
	fmt.Fprintf(out, "Following logs... (Ctrl+C to stop)\n\n")

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	reader := bufio.NewReader(file)
	var pending string
	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			// Keep a partial line until the rest is written
			pending += line
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("error reading log file: %w", err)
		}

		line = strings.TrimSpace(pending + line)
		pending = ""
		if line == "" {
			continue
		}
		if formatted, ok := formatLine(line, filter); ok {
			fmt.Fprintln(out, formatted)
		}
	}
}
