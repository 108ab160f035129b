package termout

import (
	"fmt"
	"strconv"
	"strings"
)

// DetectHyperlinks reports whether the terminal described by the environment
// likely understands OSC 8 hyperlinks.
func DetectHyperlinks(getenv func(string) string) bool {
	if getenv("OSC8") == "0" {
		return false
	}
	if getenv("DOMTERM") != "" || getenv("WT_SESSION") != "" {
		return true
	}
	switch getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "vscode", "ghostty":
		return true
	}
	if strings.Contains(strings.ToLower(getenv("TERM")), "kitty") {
		return true
	}
	if vte := getenv("VTE_VERSION"); vte != "" {
		if n, err := strconv.Atoi(vte); err == nil && n >= 5000 {
			return true
		}
	}
	return false
}

// ResolveHyperlinks turns an auto|on|off setting into a decision.
func ResolveHyperlinks(mode string, getenv func(string) string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return DetectHyperlinks(getenv), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid osc8 mode %q: expected auto|on|off", mode)
	}
}
