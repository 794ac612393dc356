// Package runner execs the external CLIs the skills wrap (bird, ffmpeg,
// whisper-cli, postiz, listmonk) and shapes their failures: a non-zero exit
// surfaces trimmed stderr, falling back to stdout, falling back to a generic
// message.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// Run executes name with args and returns stdout.
func Run(ctx context.Context, name string, args ...string) (string, error) {
	return RunInput(ctx, "", name, args...)
}

// RunInput executes name with args, feeding input to stdin when non-empty.
func RunInput(ctx context.Context, input, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg == "" {
			msg = fmt.Sprintf("%s command failed", name)
		}
		return "", fmt.Errorf("%s: %s", name, msg)
	}
	return stdout.String(), nil
}

// RunCombined executes name with args and returns stdout and stderr
// together. Some tools (ffmpeg filters) report on stderr even on success.
func RunCombined(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(combined.String())
		if msg == "" {
			msg = fmt.Sprintf("%s command failed", name)
		}
		return "", fmt.Errorf("%s: %s", name, msg)
	}
	return combined.String(), nil
}

// RunJSON executes name with args and decodes stdout into dst.
func RunJSON(ctx context.Context, dst any, name string, args ...string) error {
	out, err := Run(ctx, name, args...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(out), dst); err != nil {
		return fmt.Errorf("%s returned invalid JSON: %w", name, err)
	}
	return nil
}
