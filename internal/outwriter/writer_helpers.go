package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/schema"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// numberPrinter formats counts with thousands separators.
var numberPrinter = message.NewPrinter(language.English)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// formatCount renders n with thousands separators, e.g. 1,523.
func formatCount(n int) string {
	return numberPrinter.Sprintf("%d", n)
}

// formatRate renders a rate as a percentage, e.g. 60.0%.
func formatRate(r schema.Rate) string {
	if r == "" {
		r = schema.ZeroRate
	}
	return string(r) + "%"
}

// activityBreakdown lists the non-zero parts of a user's score,
// e.g. "2 PRs, 1 issue, 3 comments".
func activityBreakdown(u schema.UserActivity) string {
	var parts []string
	if u.PRs > 0 {
		parts = append(parts, contract.Pluralize(u.PRs, "PR"))
	}
	if u.Issues > 0 {
		parts = append(parts, contract.Pluralize(u.Issues, "issue"))
	}
	if u.Comments > 0 {
		parts = append(parts, contract.Pluralize(u.Comments, "comment"))
	}
	return strings.Join(parts, ", ")
}

// topUsername returns the leading user of a ranking, or an empty string.
func topUsername(users []schema.UserActivity) string {
	if len(users) == 0 {
		return ""
	}
	return users[0].Username
}
