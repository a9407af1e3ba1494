package outwriter

import (
	"os"

	"github.com/huangsam/commpulse/internal/contract"
	"golang.org/x/term"
)

// GetMaxTitleWidth calculates the maximum width for pull request titles
// in console output based on terminal width.
func GetMaxTitleWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// "12. #12345 - " prefix plus " by @login (2006-01-02)" suffix
	baseWidth := 14 + 40

	available := termWidth - baseWidth
	if available < 20 {
		return 20
	}
	if available > 100 {
		return 100
	}
	return available
}
