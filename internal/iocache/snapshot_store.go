package iocache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/schema"
)

// FileStore keeps snapshots in a directory of JSON files.
// Writers in one process are serialized; writers in separate processes rely on
// atomic renames, so the last rename wins.
type FileStore struct {
	sync.Mutex // Serializes writes within the process
	dir        string
	now        func() time.Time
}

var _ contract.SnapshotStore = &FileStore{} // Compile-time check

// NewFileStore creates a FileStore rooted at dir. The directory is created on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

// Dir returns the history directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// today returns the current date in snapshot format. Dates are UTC.
func (s *FileStore) today() string {
	return s.now().UTC().Format(schema.DateFormat)
}

// FindToday returns today's snapshot for label, if any.
func (s *FileStore) FindToday(label string) (schema.Snapshot, bool, error) {
	today := s.today()

	snap, err := readSnapshot(filepath.Join(s.dir, SnapshotFileName(today, label)))
	switch {
	case err == nil && snap.RepoLabel == label && snap.Date == today:
		return snap, true, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		contract.LogWarn("Skipping unreadable snapshot", err)
	}

	// Files saved under another name still count when their content matches.
	names, err := s.listFiles()
	if err != nil {
		return schema.Snapshot{}, false, err
	}
	var (
		found  schema.Snapshot
		exists bool
	)
	for _, name := range names {
		if !strings.HasPrefix(name, today) {
			continue
		}
		candidate, err := readSnapshot(filepath.Join(s.dir, name))
		if err != nil {
			contract.LogWarn("Skipping unreadable snapshot", err)
			continue
		}
		if candidate.RepoLabel != label || candidate.Date != today {
			continue
		}
		if !exists || candidate.Timestamp.After(found.Timestamp) {
			found, exists = candidate, true
		}
	}
	return found, exists, nil
}

// Save writes snapshot to {date}-{label}.json, replacing an earlier file with the same key.
// The file is written to a temporary name first and renamed into place.
func (s *FileStore) Save(snapshot schema.Snapshot) (string, error) {
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = s.now().UTC()
	}
	if snapshot.Date == "" {
		snapshot.Date = snapshot.Timestamp.UTC().Format(schema.DateFormat)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.Lock()
	defer s.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create history directory %s: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, SnapshotFileName(snapshot.Date, snapshot.RepoLabel))
	tmp, err := os.CreateTemp(s.dir, ".snapshot-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }() // No-op after a successful rename

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to set snapshot permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to store snapshot %s: %w", path, err)
	}
	return path, nil
}

// LoadAll returns every readable snapshot, oldest timestamp first.
// A missing or unreadable directory is an empty history. Unreadable files are logged and skipped.
func (s *FileStore) LoadAll() ([]schema.Snapshot, error) {
	names, err := s.listFiles()
	if err != nil {
		contract.LogWarn("Cannot read history, treating it as empty", err)
		return []schema.Snapshot{}, nil
	}

	snapshots := make([]schema.Snapshot, 0, len(names))
	for _, name := range names {
		snap, err := readSnapshot(filepath.Join(s.dir, name))
		if err != nil {
			contract.LogWarn("Skipping unreadable snapshot", err)
			continue
		}
		snapshots = append(snapshots, snap)
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp.Before(snapshots[j].Timestamp)
	})
	return snapshots, nil
}

// Daily returns one snapshot per date and repoLabel, the latest timestamp winning.
func (s *FileStore) Daily() ([]schema.Snapshot, error) {
	all, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	return DedupeDaily(all), nil
}

// Recent returns the daily series restricted to its last days distinct dates.
// A non-positive days returns the whole series.
func (s *FileStore) Recent(days int) ([]schema.Snapshot, error) {
	daily, err := s.Daily()
	if err != nil {
		return nil, err
	}
	return LastDates(daily, days), nil
}

// Status describes the history directory.
func (s *FileStore) Status() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{Dir: s.dir, Repos: []string{}}

	info, err := os.Stat(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return status, nil
	}
	if err != nil {
		return status, fmt.Errorf("failed to stat history directory: %w", err)
	}
	if !info.IsDir() {
		return status, fmt.Errorf("history path %s is not a directory", s.dir)
	}
	status.Exists = true

	names, err := s.listFiles()
	if err != nil {
		return status, err
	}
	status.Files = len(names)
	for _, name := range names {
		if fi, err := os.Stat(filepath.Join(s.dir, name)); err == nil {
			status.SizeBytes += fi.Size()
		}
	}

	daily, err := s.Daily()
	if err != nil {
		return status, err
	}
	status.Snapshots = len(daily)
	repos := make(map[string]struct{})
	for _, snap := range daily {
		if _, ok := repos[snap.RepoLabel]; !ok {
			repos[snap.RepoLabel] = struct{}{}
			status.Repos = append(status.Repos, snap.RepoLabel)
		}
		if status.Oldest.IsZero() || snap.Timestamp.Before(status.Oldest) {
			status.Oldest = snap.Timestamp
		}
		if snap.Timestamp.After(status.Newest) {
			status.Newest = snap.Timestamp
		}
	}
	sort.Strings(status.Repos)
	return status, nil
}

// listFiles returns the snapshot filenames in the directory, sorted by name.
func (s *FileStore) listFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory %s: %w", s.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && isSnapshotFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func readSnapshot(path string) (schema.Snapshot, error) {
	var snap schema.Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if snap.Date == "" && !snap.Timestamp.IsZero() {
		snap.Date = snap.Timestamp.UTC().Format(schema.DateFormat)
	}
	return snap, nil
}

// DedupeDaily keeps the latest snapshot per date and repoLabel.
// The result is sorted by date, then by repoLabel.
func DedupeDaily(snapshots []schema.Snapshot) []schema.Snapshot {
	type key struct{ date, label string }
	latest := make(map[key]schema.Snapshot, len(snapshots))
	for _, snap := range snapshots {
		k := key{snap.Date, snap.RepoLabel}
		if existing, ok := latest[k]; !ok || snap.Timestamp.After(existing.Timestamp) {
			latest[k] = snap
		}
	}

	daily := make([]schema.Snapshot, 0, len(latest))
	for _, snap := range latest {
		daily = append(daily, snap)
	}
	sort.Slice(daily, func(i, j int) bool {
		if daily[i].Date != daily[j].Date {
			return daily[i].Date < daily[j].Date
		}
		return daily[i].RepoLabel < daily[j].RepoLabel
	})
	return daily
}

// LastDates keeps the snapshots of the last days distinct dates of a date-sorted series.
func LastDates(daily []schema.Snapshot, days int) []schema.Snapshot {
	if days <= 0 {
		return daily
	}
	seen := 0
	for i := len(daily) - 1; i >= 0; i-- {
		if i == len(daily)-1 || daily[i].Date != daily[i+1].Date {
			seen++
			if seen > days {
				return daily[i+1:]
			}
		}
	}
	return daily
}

// FilterLabel keeps only the snapshots of one repoLabel. An empty label keeps everything.
func FilterLabel(snapshots []schema.Snapshot, label string) []schema.Snapshot {
	if label == "" {
		return snapshots
	}
	out := make([]schema.Snapshot, 0, len(snapshots))
	for _, snap := range snapshots {
		if snap.RepoLabel == label {
			out = append(out, snap)
		}
	}
	return out
}
