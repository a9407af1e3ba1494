package iocache

import (
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/commpulse/schema"
)

// statusTimeFormat is how timestamps appear in the status output.
const statusTimeFormat = "2006-01-02 15:04:05"

// PrintHistoryStatus prints history directory information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Directory: %s\n", status.Dir)
	_, _ = fmt.Fprintf(w, "Exists: %t\n", status.Exists)
	if !status.Exists {
		return
	}
	_, _ = fmt.Fprintf(w, "Snapshot Files: %d\n", status.Files)
	_, _ = fmt.Fprintf(w, "Daily Snapshots: %d\n", status.Snapshots)
	if status.Snapshots > 0 {
		_, _ = fmt.Fprintf(w, "Repositories: %s\n", strings.Join(status.Repos, ", "))
		_, _ = fmt.Fprintf(w, "Newest Snapshot: %s\n", status.Newest.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Snapshot: %s\n", status.Oldest.Format(statusTimeFormat))
	}
	_, _ = fmt.Fprintf(w, "Directory Size: %d bytes\n", status.SizeBytes)
}
