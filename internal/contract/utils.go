package contract

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Rate label constants.
const (
	HealthyValue = "Healthy" // Healthy value
	FairValue    = "Fair"    // Fair value
	LowValue     = "Low"     // Low value
)

// Color variables for console output.
var (
	HealthyColor = color.New(color.FgGreen, color.Bold) // HealthyColor represents a comfortable rate.
	FairColor    = color.New(color.FgYellow)            // FairColor represents standard caution, not bold.
	LowColor     = color.New(color.FgRed)               // LowColor represents a rate that needs attention.
	HeaderColor  = color.New(color.FgCyan, color.Bold)  // HeaderColor is used for section titles.
)

// GetPlainLabel returns a plain text label for a percentage rate.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(rate float64) string {
	switch {
	case rate >= 75:
		return HealthyValue
	case rate >= 50:
		return FairValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(rate float64) string {
	text := GetPlainLabel(rate)

	switch text {
	case HealthyValue:
		return HealthyColor.Sprint(text)
	case FairValue:
		return FairColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "❌ %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "⚠️  %s: %v\n", msg, err)
}

// LogInfo logs a progress message to stderr, keeping stdout clean for reports.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the "..." suffix.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// Pluralize returns "1 PR" or "2 PRs" style phrases.
func Pluralize(n int, singular string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %ss", n, singular)
}

// LookbackCutoff returns the start of the lookback window ending at now.
func LookbackCutoff(now time.Time, months int) time.Time {
	return now.AddDate(0, -months, 0)
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
