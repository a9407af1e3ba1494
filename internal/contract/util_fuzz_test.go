package contract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzParseRepos fuzzes ParseRepos with random comma-separated repository lists.
func FuzzParseRepos(f *testing.F) {
	seeds := []string{
		"podman-desktop/podman-desktop",
		"containers/podman, containers/podman",
		"a/b,c/d,,",
		"github.com/o/r",
		"not-a-repo",
		"",
		"o/r/extra",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, entry string) {
		repos, err := ParseRepos([]string{entry}, DefaultHost)
		if err != nil {
			return
		}
		if len(repos) == 0 {
			t.Fatalf("no repositories and no error for %q", entry)
		}
		seen := make(map[string]struct{})
		for _, repo := range repos {
			if repo.Owner == "" || repo.Name == "" {
				t.Fatalf("empty owner or name in %+v for %q", repo, entry)
			}
			key := strings.ToLower(repo.String())
			if _, dup := seen[key]; dup {
				t.Fatalf("duplicate %s for %q", key, entry)
			}
			seen[key] = struct{}{}
		}
	})
}

// FuzzTruncateText fuzzes TruncateText with random text and widths.
func FuzzTruncateText(f *testing.F) {
	f.Add("Fix crash on startup", 10)
	f.Add("短いタイトルです", 5)
	f.Add("", 0)
	f.Add("abc", 3)

	f.Fuzz(func(t *testing.T, text string, width int) {
		if !utf8.ValidString(text) || width > 1000 {
			return
		}
		out := TruncateText(text, width)
		if width > 3 && utf8.RuneCountInString(out) > width {
			t.Fatalf("TruncateText(%q, %d) = %q is wider than requested", text, width, out)
		}
		if utf8.RuneCountInString(text) <= width && out != text {
			t.Fatalf("TruncateText(%q, %d) changed text that fits", text, width)
		}
	})
}
