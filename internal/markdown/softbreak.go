package markdown

import (
	"fmt"
	"strings"
)

// SoftBreakMode selects how soft line breaks are rendered.
type SoftBreakMode int

const (
	// SoftBreakSpace renders a soft break as a single space.
	SoftBreakSpace SoftBreakMode = iota
	// SoftBreakLineBreak renders a soft break as a hard line break.
	SoftBreakLineBreak
)

func (m SoftBreakMode) String() string {
	switch m {
	case SoftBreakLineBreak:
		return "line-break"
	default:
		return "space"
	}
}

// ParseSoftBreakMode accepts "space" and "line-break" (or "linebreak").
func ParseSoftBreakMode(value string) (SoftBreakMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "space":
		return SoftBreakSpace, nil
	case "line-break", "linebreak", "newline":
		return SoftBreakLineBreak, nil
	default:
		return SoftBreakSpace, fmt.Errorf("unknown soft break mode %q", value)
	}
}
