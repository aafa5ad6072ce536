package linux

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// commandTimeout bounds every helper invocation.
const commandTimeout = 10 * time.Second

// runner executes an external tool and returns its stdout.
type runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	LookPath(name string) error
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%s is not installed", name)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

func (execRunner) LookPath(name string) error {
	_, err := exec.LookPath(name)
	return err
}

func requireTools(r runner, names ...string) error {
	for _, n := range names {
		if err := r.LookPath(n); err != nil {
			return fmt.Errorf("%s not found in PATH (install it, e.g. 'sudo apt-get install %s')", n, n)
		}
	}
	return nil
}

func run(r runner, name string, args ...string) error {
	_, err := r.Run(context.Background(), name, args...)
	return err
}
