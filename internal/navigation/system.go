package navigation

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// SystemOpener opens URLs with the operating system's default browser.
type SystemOpener struct {
	// Command overrides the launcher; the URL is appended as the last argument.
	Command []string
}

// Open starts the browser process without waiting for it to exit.
func (o SystemOpener) Open(ctx context.Context, rawURL string) error {
	args := o.command()
	args = append(args, rawURL)

	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", args[0], err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (o SystemOpener) command() []string {
	if len(o.Command) > 0 {
		return append([]string(nil), o.Command...)
	}
	switch runtime.GOOS {
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	case "darwin":
		return []string{"open"}
	default:
		return []string{"xdg-open"}
	}
}
