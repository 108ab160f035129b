package app

import (
	"errors"
	"reflect"
	"testing"
)

func lookPathFor(found map[string]string) func(string) (string, error) {
	return func(cmd string) (string, error) {
		if path, ok := found[cmd]; ok {
			return path, nil
		}
		return "", errors.New("not found")
	}
}

func TestDetectClipboardPrefersPbcopyOnUnix(t *testing.T) {
	args, ok := detectClipboardInternal("linux", lookPathFor(map[string]string{"pbcopy": "/usr/bin/pbcopy"}))
	if !ok {
		t.Fatalf("expected clipboard command")
	}
	expected := []string{"/usr/bin/pbcopy"}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectClipboardUsesClipboardSelectionOnX11(t *testing.T) {
	args, ok := detectClipboardInternal("linux", lookPathFor(map[string]string{"xclip": "/usr/bin/xclip"}))
	if !ok {
		t.Fatalf("expected clipboard command")
	}
	expected := []string{"/usr/bin/xclip", "-selection", "clipboard"}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectClipboardPrefersClipOnWindows(t *testing.T) {
	args, ok := detectClipboardInternal("windows", lookPathFor(map[string]string{"clip.exe": `C:\Windows\System32\clip.exe`}))
	if !ok {
		t.Fatalf("expected clipboard command")
	}
	expected := []string{`C:\Windows\System32\clip.exe`}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectClipboardFallsBackToPowershell(t *testing.T) {
	ps := `C:\Windows\System32\WindowsPowerShell\v1.0\powershell.exe`
	args, ok := detectClipboardInternal("windows", lookPathFor(map[string]string{"powershell": ps}))
	if !ok {
		t.Fatalf("expected clipboard command")
	}
	expected := []string{ps, "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectEditorCommandWindowsFallbacks(t *testing.T) {
	getenv := func(string) string { return "" }
	args, ok := detectEditorCommandInternal("windows", getenv, lookPathFor(map[string]string{
		"notepad++.exe": `C:\Program Files\Notepad++\notepad++.exe`,
	}))
	if !ok {
		t.Fatalf("expected editor fallback")
	}
	expected := []string{`C:\Program Files\Notepad++\notepad++.exe`}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectEditorCommandUnixFallbacks(t *testing.T) {
	getenv := func(string) string { return "" }
	args, ok := detectEditorCommandInternal("linux", getenv, lookPathFor(map[string]string{"vim": "/usr/bin/vim"}))
	if !ok {
		t.Fatalf("expected editor fallback")
	}
	expected := []string{"/usr/bin/vim"}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectEditorCommandPrefersVisual(t *testing.T) {
	env := map[string]string{"VISUAL": `"code" --wait`, "EDITOR": "vim"}
	getenv := func(key string) string { return env[key] }
	args, ok := detectEditorCommandInternal("linux", getenv, lookPathFor(map[string]string{
		"code": "/usr/local/bin/code",
		"vim":  "/usr/bin/vim",
	}))
	if !ok {
		t.Fatalf("expected editor from $VISUAL")
	}
	expected := []string{"/usr/local/bin/code", "--wait"}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectOpener(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		browser string
		found   map[string]string
		want    []string
	}{
		{
			name:    "browser env wins",
			goos:    "linux",
			browser: "firefox --new-tab",
			found:   map[string]string{"firefox": "/usr/bin/firefox", "xdg-open": "/usr/bin/xdg-open"},
			want:    []string{"/usr/bin/firefox", "--new-tab"},
		},
		{
			name:    "unresolvable browser env falls back",
			goos:    "linux",
			browser: "missing-browser",
			found:   map[string]string{"xdg-open": "/usr/bin/xdg-open"},
			want:    []string{"/usr/bin/xdg-open"},
		},
		{
			name:  "darwin open",
			goos:  "darwin",
			found: map[string]string{"open": "/usr/bin/open"},
			want:  []string{"/usr/bin/open"},
		},
		{
			name:  "windows rundll32",
			goos:  "windows",
			found: map[string]string{"rundll32": `C:\Windows\System32\rundll32.exe`},
			want:  []string{`C:\Windows\System32\rundll32.exe`, "url.dll,FileProtocolHandler"},
		},
		{
			name:  "wsl",
			goos:  "linux",
			found: map[string]string{"wslview": "/usr/bin/wslview"},
			want:  []string{"/usr/bin/wslview"},
		},
		{
			name:  "gio",
			goos:  "linux",
			found: map[string]string{"gio": "/usr/bin/gio"},
			want:  []string{"/usr/bin/gio", "open"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(key string) string {
				if key == "BROWSER" {
					return tt.browser
				}
				return ""
			}
			args, ok := detectOpenerInternal(tt.goos, getenv, lookPathFor(tt.found))
			if !ok {
				t.Fatalf("expected an opener")
			}
			if !reflect.DeepEqual(args, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, args)
			}
		})
	}
}

func TestDetectOpenerNoneAvailable(t *testing.T) {
	getenv := func(string) string { return "" }
	if args, ok := detectOpenerInternal("linux", getenv, lookPathFor(nil)); ok {
		t.Fatalf("expected no opener, got %v", args)
	}
}

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "   ", want: nil},
		{in: "vim", want: []string{"vim"}},
		{in: "code --wait", want: []string{"code", "--wait"}},
		{in: `"/opt/my editor/bin/ed" -n`, want: []string{"/opt/my editor/bin/ed", "-n"}},
		{in: `emacs -eval '(message "hi")'`, want: []string{"emacs", "-eval", `(message "hi")`}},
	}
	for _, tt := range tests {
		if got := parseCommandLine(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("parseCommandLine(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
