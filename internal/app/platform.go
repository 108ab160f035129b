package app

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

// commandBuilder creates external commands; tests replace it.
var commandBuilder = exec.Command

var errNoOpener = errors.New("no URL opener available")

// Candidate commands, most preferred first. The first element is looked up
// on PATH; the rest are fixed arguments.
var (
	windowsClipboards = [][]string{
		{"clip.exe"},
		{"clip"},
		{"powershell", "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"},
		{"powershell.exe", "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"},
		{"pwsh", "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"},
	}
	unixClipboards = [][]string{
		{"pbcopy"},
		{"xclip", "-selection", "clipboard"},
		{"wl-copy"},
		{"xsel", "--clipboard", "--input"},
	}
	openers = map[string][][]string{
		"windows": {{"rundll32", "url.dll,FileProtocolHandler"}},
		"darwin":  {{"open"}},
	}
	unixOpeners    = [][]string{{"xdg-open"}, {"wslview"}, {"gio", "open"}}
	windowsEditors = [][]string{{"code", "--wait"}, {"notepad++.exe"}, {"notepad.exe"}}
	unixEditors    = [][]string{{"vim"}, {"nano"}}
)

func detectClipboard() ([]string, bool) {
	return detectClipboardInternal(runtime.GOOS, exec.LookPath)
}

func detectClipboardInternal(goos string, lookPath func(string) (string, error)) ([]string, bool) {
	if strings.EqualFold(goos, "windows") {
		if cmd, ok := firstAvailable(lookPath, windowsClipboards); ok {
			return cmd, true
		}
	}
	return firstAvailable(lookPath, unixClipboards)
}

// detectOpener finds the command that hands a URL to the desktop. $BROWSER
// wins when it resolves.
func detectOpener() ([]string, bool) {
	return detectOpenerInternal(runtime.GOOS, os.Getenv, exec.LookPath)
}

func detectOpenerInternal(goos string, getenv func(string) string, lookPath func(string) (string, error)) ([]string, bool) {
	if cmd, ok := commandFromEnv(getenv, lookPath, "BROWSER"); ok {
		return cmd, true
	}
	defaults, ok := openers[strings.ToLower(goos)]
	if !ok {
		defaults = unixOpeners
	}
	return firstAvailable(lookPath, defaults)
}

// detectEditorCommand prefers $VISUAL, then $EDITOR, then a known editor.
func detectEditorCommand() ([]string, bool) {
	return detectEditorCommandInternal(runtime.GOOS, os.Getenv, exec.LookPath)
}

func detectEditorCommandInternal(goos string, getenv func(string) string, lookPath func(string) (string, error)) ([]string, bool) {
	if cmd, ok := commandFromEnv(getenv, lookPath, "VISUAL", "EDITOR"); ok {
		return cmd, true
	}
	if strings.EqualFold(goos, "windows") {
		return firstAvailable(lookPath, windowsEditors)
	}
	return firstAvailable(lookPath, unixEditors)
}

// commandFromEnv returns the first variable among keys holding a command
// whose executable resolves.
func commandFromEnv(getenv func(string) string, lookPath func(string) (string, error), keys ...string) ([]string, bool) {
	for _, key := range keys {
		args := parseCommandLine(getenv(key))
		if len(args) == 0 {
			continue
		}
		if resolved, ok := resolveExecutableWithLookup(args[0], lookPath); ok {
			args[0] = resolved
			return args, true
		}
	}
	return nil, false
}

func firstAvailable(lookPath func(string) (string, error), candidates [][]string) ([]string, bool) {
	for _, candidate := range candidates {
		if resolved, ok := resolveExecutableWithLookup(candidate[0], lookPath); ok {
			return append([]string{resolved}, candidate[1:]...), true
		}
	}
	return nil, false
}

// parseCommandLine splits a command from the environment, honouring single
// and double quotes.
func parseCommandLine(cmd string) []string {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return nil
	}

	var args []string
	var current strings.Builder
	inSingle := false
	inDouble := false

	for _, r := range cmd {
		switch r {
		case '\'':
			if inDouble {
				current.WriteRune(r)
			} else {
				inSingle = !inSingle
			}
			continue
		case '"':
			if inSingle {
				current.WriteRune(r)
			} else {
				inDouble = !inDouble
			}
			continue
		default:
			if !inSingle && !inDouble && unicode.IsSpace(r) {
				if current.Len() > 0 {
					args = append(args, current.String())
					current.Reset()
				}
				continue
			}
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	if len(args) > 0 {
		args[0] = expandUserPath(args[0])
	}

	return args
}

func expandUserPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	if len(path) == 1 {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}

	sep := path[1]
	if sep != '/' && sep != '\\' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[2:])
}

func resolveExecutableWithLookup(cmd string, lookPath func(string) (string, error)) (string, bool) {
	if cmd == "" {
		return "", false
	}

	if expanded := expandUserPath(cmd); expanded != cmd {
		cmd = expanded
	}

	path, err := lookPath(cmd)
	if err != nil {
		return "", false
	}
	return path, true
}
