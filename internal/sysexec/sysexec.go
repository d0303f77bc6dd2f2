// Package sysexec runs the handful of system commands the deck needs (network restarts, shutdown).
package sysexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/shlex"
)

// Runner runs a command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Exec runs commands with os/exec.
type Exec struct{}

func (Exec) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) && len(ee.Stderr) > 0 {
			return out, fmt.Errorf("%s: %w: %s", name, err, bytes.TrimSpace(ee.Stderr))
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Command is a program and its arguments.
type Command struct {
	Name string
	Args []string
}

// Parse splits a shell-style command line such as `sudo shutdown -h now`.
func Parse(s string) (Command, error) {
	parts, err := shlex.Split(s)
	if err != nil {
		return Command{}, fmt.Errorf("parse command %q: %w", s, err)
	}
	if len(parts) == 0 {
		return Command{}, errors.New("empty command")
	}
	return Command{Name: parts[0], Args: parts[1:]}, nil
}

// MustParse is Parse for command lines that are compiled in.
func MustParse(s string) Command {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Run runs c with r.
func (c Command) Run(ctx context.Context, r Runner) ([]byte, error) {
	return r.Run(ctx, c.Name, c.Args...)
}

// Recorder is a Runner that records commands instead of running them. Output and Err are returned for every call.
type Recorder struct {
	Calls  []string
	Output []byte
	Err    error
}

func (r *Recorder) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.Calls = append(r.Calls, Command{Name: name, Args: args}.String())
	return r.Output, r.Err
}
