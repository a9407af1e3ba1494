// Package maintainers classifies GitHub logins as community or core contributors.
package maintainers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/huangsam/commpulse/internal/contract"
	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of the registry. JSON and YAML share the same keys.
type File struct {
	Maintainers []string `json:"maintainers" yaml:"maintainers"`
	Bots        []string `json:"bots" yaml:"bots"`
	Emeritus    []string `json:"emeritus" yaml:"emeritus"`
}

// Registry is a lazily loaded set of maintainer, bot and emeritus logins.
// It is safe for concurrent readers.
type Registry struct {
	sync.RWMutex
	path   string
	logins map[string]struct{}
	loaded bool
}

var _ contract.MaintainerRegistry = &Registry{} // Compile-time check

// NewRegistry returns a registry that reads path on first use.
func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

// NewStaticRegistry returns an already loaded registry with the given logins.
func NewStaticRegistry(logins ...string) *Registry {
	r := &Registry{loaded: true}
	r.logins = toSet(File{Maintainers: logins})
	return r
}

// IsCommunity reports whether login is a non-empty login absent from the registry.
// Deleted accounts have no login and never count as community.
func (r *Registry) IsCommunity(login string) bool {
	login = strings.TrimSpace(login)
	if login == "" {
		return false
	}
	r.ensureLoaded()

	r.RLock()
	defer r.RUnlock()
	_, known := r.logins[strings.ToLower(login)]
	return !known
}

// Logins returns every registered login in sorted order.
func (r *Registry) Logins() []string {
	r.ensureLoaded()

	r.RLock()
	defer r.RUnlock()
	out := make([]string, 0, len(r.logins))
	for login := range r.logins {
		out = append(out, login)
	}
	sort.Strings(out)
	return out
}

// Reload re-reads the registry file. On failure the previous contents are kept.
func (r *Registry) Reload() error {
	if r.path == "" {
		return nil
	}
	file, err := Load(r.path)
	if err != nil {
		return err
	}

	r.Lock()
	defer r.Unlock()
	r.logins = toSet(file)
	r.loaded = true
	return nil
}

// ensureLoaded loads the file once. A failed load is logged and leaves
// the registry empty, so every author counts as community until Reload succeeds.
func (r *Registry) ensureLoaded() {
	r.RLock()
	loaded := r.loaded
	r.RUnlock()
	if loaded {
		return
	}

	r.Lock()
	defer r.Unlock()
	if r.loaded {
		return
	}
	r.loaded = true
	file, err := Load(r.path)
	if err != nil {
		contract.LogWarn("Cannot load maintainers file, treating every author as community", err)
		r.logins = map[string]struct{}{}
		return
	}
	r.logins = toSet(file)
}

// Load reads a registry file, choosing YAML or JSON by extension.
func Load(path string) (File, error) {
	var file File
	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("failed to read maintainers file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return file, fmt.Errorf("failed to parse maintainers file %s: %w", path, err)
	}
	return file, nil
}

func toSet(file File) map[string]struct{} {
	set := make(map[string]struct{}, len(file.Maintainers)+len(file.Bots)+len(file.Emeritus))
	for _, group := range [][]string{file.Maintainers, file.Bots, file.Emeritus} {
		for _, login := range group {
			login = strings.ToLower(strings.TrimSpace(login))
			if login != "" {
				set[login] = struct{}{}
			}
		}
	}
	return set
}
