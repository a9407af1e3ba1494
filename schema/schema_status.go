package schema

import "time"

// HistoryStatus represents the status of the snapshot history directory.
type HistoryStatus struct {
	Dir       string    `json:"dir"`
	Exists    bool      `json:"exists"`
	Files     int       `json:"files"`
	Snapshots int       `json:"snapshots"`
	Repos     []string  `json:"repos"`
	Oldest    time.Time `json:"oldest"`
	Newest    time.Time `json:"newest"`
	SizeBytes int64     `json:"size_bytes"`
}
