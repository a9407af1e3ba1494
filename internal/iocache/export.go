package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/internal/parquet"
)

// ExportHistory writes the daily snapshot series to Parquet files.
// Two files are produced: outputFile.snapshots.parquet and outputFile.top_users.parquet.
func ExportHistory(w io.Writer, store contract.SnapshotStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.Status()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	daily, err := store.Daily()
	if err != nil {
		return fmt.Errorf("failed to retrieve snapshots: %w", err)
	}
	if len(daily) == 0 {
		return errors.New("no snapshot history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting history from %s...\n", status.Dir)
	_, _ = fmt.Fprintf(w, "Daily snapshots: %d\n", len(daily))

	snapshotRows := parquet.ConvertSnapshots(daily)
	snapshotsFile := outputFile + ".snapshots.parquet"
	if err := parquet.WriteSnapshotsParquet(snapshotRows, snapshotsFile); err != nil {
		return fmt.Errorf("failed to write snapshots: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d snapshots to: %s\n", len(snapshotRows), snapshotsFile)

	userRows := parquet.ConvertTopUsers(daily)
	usersFile := outputFile + ".top_users.parquet"
	if err := parquet.WriteTopUsersParquet(userRows, usersFile); err != nil {
		return fmt.Errorf("failed to write top users: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d top user records to: %s\n", len(userRows), usersFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with:")
	_, _ = fmt.Fprintln(w, "  - Apache Spark")
	_, _ = fmt.Fprintln(w, "  - Apache Arrow")
	_, _ = fmt.Fprintln(w, "  - Pandas (via pyarrow)")
	_, _ = fmt.Fprintln(w, "  - DuckDB")
	_, _ = fmt.Fprintln(w, "  - Any other Parquet-compatible tool")
	return nil
}
