package telegram

import (
	"fmt"
	"strings"
)

const scoreBarLength = 10

// buildProgressBar creates a text progress bar for a fraction in [0, 1].
func buildProgressBar(fraction float64, length int) string {
	if fraction < 0 {
		fraction = 0
	}

	filled := int(fraction*float64(length) + 0.5)
	if filled > length {
		filled = length
	}

	empty := length - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}
