// Package clipboard provides platform-specific clipboard operations.
package clipboard

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// CopyText copies plain text to the system clipboard.
func CopyText(text string) error {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd":
		return copyTextUnix(text)
	case "darwin":
		return pipeTo(text, "pbcopy")
	case "windows":
		return pipeTo(text, "clip")
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// linuxTools lists clipboard commands in order of preference.
var linuxTools = [][]string{
	{"wl-copy"},                          // Wayland
	{"xclip", "-selection", "clipboard"}, // X11
	{"xsel", "--clipboard", "--input"},   // X11 alternative
}

func copyTextUnix(text string) error {
	for _, tool := range linuxTools {
		if !isCommandAvailable(tool[0]) {
			continue
		}
		if err := pipeTo(text, tool[0], tool[1:]...); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no suitable clipboard tool found (tried: wl-copy, xclip, xsel)")
}

func pipeTo(text, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func isCommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
