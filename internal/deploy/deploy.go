// Package deploy hands generated compose documents to the container runtime.
package deploy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Deployer starts every service of a compose document.
type Deployer interface {
	Up(ctx context.Context, composePath string) error
}

// CommandRunner abstracts command execution.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, exitCode int, err error)
}

// ExecRunner executes commands on the local host.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), stderr.Bytes(), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), stderr.Bytes(), exitErr.ExitCode(), err
	}
	exitCode := 1
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		exitCode = 127
	}
	return stdout.Bytes(), stderr.Bytes(), exitCode, err
}

// DockerCompose runs `docker compose -f <file> up -d`.
type DockerCompose struct {
	runner CommandRunner
}

func NewDockerCompose(runner CommandRunner) *DockerCompose {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &DockerCompose{runner: runner}
}

func (d *DockerCompose) Up(ctx context.Context, composePath string) error {
	args := []string{"compose", "-f", composePath, "up", "-d"}
	log.Info().Str("file", composePath).Msg("starting services")

	_, stderr, code, err := d.runner.Run(ctx, "docker", args...)
	if err != nil {
		msg := strings.TrimSpace(string(stderr))
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("docker %s exited with %d: %s", strings.Join(args, " "), code, msg)
	}
	return nil
}
