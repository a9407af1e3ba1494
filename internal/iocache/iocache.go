// Package iocache is for persisting and reading back snapshot history.
//
// Snapshots live in a flat directory as one JSON file per date and repoLabel.
// A save for the same key replaces the earlier file, and readers still
// collapse duplicates by keeping the latest timestamp, so files copied in
// from other machines never double-count a day.
package iocache

import (
	"path/filepath"
	"strings"
)

// snapshotExt is the extension of every snapshot file.
const snapshotExt = ".json"

// unknownLabel stands in for an empty repoLabel in filenames.
const unknownLabel = "unknown"

var labelReplacer = strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_")

// SanitizeLabel turns a repoLabel into a filename-safe token, e.g. owner/name to owner_name.
func SanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return unknownLabel
	}
	return labelReplacer.Replace(label)
}

// SnapshotFileName returns the filename of the snapshot for date and label.
func SnapshotFileName(date, label string) string {
	return date + "-" + SanitizeLabel(label) + snapshotExt
}

// isSnapshotFile reports whether name looks like a snapshot written by this package.
func isSnapshotFile(name string) bool {
	return filepath.Ext(name) == snapshotExt && !strings.HasPrefix(name, ".")
}
