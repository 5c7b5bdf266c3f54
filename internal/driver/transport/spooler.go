package transport

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// spoolCommands are the OS print spooler entry points, tried in order. Each
// reads the job from stdin and targets the default queue.
var spoolCommands = [][]string{
	{"lp", "-s"},
	{"lpr"},
}

// spool hands raw text to the OS print spooler. This is the last transport
// before giving up; formatting is whatever the queue's default driver does.
func spool(ctx context.Context, text string) (string, error) {
	if runtime.GOOS == "windows" {
		return "", fmt.Errorf("no spooler command on windows")
	}

	var lastErr error
	for _, argv := range spoolCommands {
		if _, err := exec.LookPath(argv[0]); err != nil {
			continue
		}
		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		cmd.Stdin = strings.NewReader(text)
		if out, err := cmd.CombinedOutput(); err != nil {
			lastErr = fmt.Errorf("%s: %w (%s)", argv[0], err, strings.TrimSpace(string(out)))
			continue
		}
		return argv[0], nil
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", fmt.Errorf("no spooler command available")
}
