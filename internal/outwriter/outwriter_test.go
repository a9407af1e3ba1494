package outwriter

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestWriter returns an OutWriter that records browser launches instead of performing them.
func newTestWriter(env map[string]string, browseErr error) (*OutWriter, *bytes.Buffer, *[]string) {
	var stdout bytes.Buffer
	var opened []string
	ow := &OutWriter{
		stdout: &stdout,
		stderr: &bytes.Buffer{},
		getenv: envOf(env),
		browse: func(url string) error {
			opened = append(opened, url)
			return browseErr
		},
	}
	return ow, &stdout, &opened
}

func TestOutWriterWriteReport(t *testing.T) {
	ow, stdout, _ := newTestWriter(map[string]string{EnvGitHubActions: "true"}, nil)
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: filepath.Join(t.TempDir(), "report.json")}

	require.NoError(t, ow.WriteReport(sampleReport(), cfg))

	assert.FileExists(t, cfg.OutputFile)
	assert.Contains(t, stdout.String(), "::set-output name=upvotes::12")
}

func TestOutWriterCommandWriter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	ow := &OutWriter{stdout: &stdout, stderr: &stderr, getenv: envOf(nil)}

	tests := []struct {
		name   string
		cfg    *contract.Config
		stderr bool
	}{
		{"text to stdout", &contract.Config{Output: schema.TextOut}, false},
		{"json to stdout", &contract.Config{Output: schema.JSONOut}, true},
		{"csv to stdout", &contract.Config{Output: schema.CSVOut}, true},
		{"json to file", &contract.Config{Output: schema.JSONOut, OutputFile: "report.json"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.stderr {
				assert.Same(t, &stderr, ow.commandWriter(tt.cfg))
			} else {
				assert.Same(t, &stdout, ow.commandWriter(tt.cfg))
			}
		})
	}

	t.Run("set-output lines stay out of json on stdout", func(t *testing.T) {
		stdout.Reset()
		stderr.Reset()
		ciEnv := envOf(map[string]string{EnvGitHubActions: "true"})
		require.NoError(t, WriteGitHubActions(sampleReport(), ciEnv, ow.commandWriter(&contract.Config{Output: schema.JSONOut})))
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "::set-output name=upvotes::12")
	})
}

func TestOutWriterWriteDashboard(t *testing.T) {
	t.Run("opens the written file", func(t *testing.T) {
		ow, _, opened := newTestWriter(nil, nil)
		cfg := &contract.Config{OutputFile: filepath.Join(t.TempDir(), "dash.html"), OpenBrowser: true}

		path, err := ow.WriteDashboard(sampleHistory(), cfg, testNow)
		require.NoError(t, err)
		assert.Equal(t, cfg.OutputFile, path)
		require.Len(t, *opened, 1)
		assert.True(t, strings.HasPrefix((*opened)[0], "file://"))
		assert.True(t, strings.HasSuffix((*opened)[0], "/dash.html"))
	})

	t.Run("browser failure is not fatal", func(t *testing.T) {
		ow, _, opened := newTestWriter(nil, errors.New("no browser"))
		cfg := &contract.Config{OutputFile: filepath.Join(t.TempDir(), "dash.html"), OpenBrowser: true}

		_, err := ow.WriteDashboard(nil, cfg, testNow)
		require.NoError(t, err)
		assert.Len(t, *opened, 1)
	})

	t.Run("default file without opening", func(t *testing.T) {
		t.Chdir(t.TempDir())
		ow, _, opened := newTestWriter(nil, nil)

		path, err := ow.WriteDashboard(nil, &contract.Config{}, testNow)
		require.NoError(t, err)
		assert.Equal(t, contract.DefaultDashboardFile, path)
		assert.Empty(t, *opened)

		_, err = os.Stat(contract.DefaultDashboardFile)
		assert.NoError(t, err)
	})
}

func TestOutWriterWriteHistoryStatus(t *testing.T) {
	ow, stdout, _ := newTestWriter(nil, nil)
	ow.WriteHistoryStatus(schema.HistoryStatus{Dir: "data/history"})
	assert.Equal(t, "History Directory: data/history\nExists: false\n", stdout.String())
}
