// Package pipeline runs one or more chained external processes and exposes
// the terminal stdout as a byte stream with guaranteed kill-and-reap cleanup.
package pipeline

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"sync"

	"media-gateway/domain/model"
	"media-gateway/domain/repository"
)

// Runner implements repository.IPipeline on top of os/exec.
type Runner struct{}

func NewRunner() repository.IPipeline {
	return &Runner{}
}

func (r *Runner) Start(ctx context.Context, cmds ...model.Command) (io.ReadCloser, error) {
	p, err := Start(ctx, cmds...)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Pipeline holds the spawned processes of one streaming request. Reads pull
// from the terminal process stdout; Close kills any process whose exit is
// still pending (terminal process first, then its upstream feeders) and
// reaps each one. Close is idempotent and runs on every exit path,
// including context cancellation.
type Pipeline struct {
	cmds      []*exec.Cmd
	stdout    io.ReadCloser
	stopWatch func() bool
	closeOnce sync.Once
}

// Start spawns the given commands with each stdout piped into the next
// command's stdin. Processes start source-first; on any start failure the
// already-running processes are killed and reaped before returning.
func Start(ctx context.Context, specs ...model.Command) (*Pipeline, error) {
	if len(specs) == 0 {
		return nil, errors.New("pipeline: no commands")
	}

	p := &Pipeline{cmds: make([]*exec.Cmd, 0, len(specs))}
	var upstream io.ReadCloser
	for i, spec := range specs {
		cmd := exec.Command(spec.Path, spec.Args...)
		if upstream != nil {
			cmd.Stdin = upstream
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			_ = p.Close()
			return nil, err
		}
		if err := cmd.Start(); err != nil {
			_ = p.Close()
			return nil, err
		}
		p.cmds = append(p.cmds, cmd)
		if i == len(specs)-1 {
			p.stdout = stdout
		} else {
			upstream = stdout
		}
	}
	p.stopWatch = context.AfterFunc(ctx, func() { _ = p.Close() })
	return p, nil
}

func (p *Pipeline) Read(buf []byte) (int, error) {
	if p.stdout == nil {
		return 0, io.EOF
	}
	return p.stdout.Read(buf)
}

// Close terminates the pipeline: every process still running is signalled,
// in order from the terminal process back to the source, then each one is
// waited on so its exit status is collected and OS resources are released.
func (p *Pipeline) Close() error {
	p.closeOnce.Do(func() {
		if p.stopWatch != nil {
			p.stopWatch()
		}
		for i := len(p.cmds) - 1; i >= 0; i-- {
			cmd := p.cmds[i]
			if cmd.Process != nil && cmd.ProcessState == nil {
				// Kill errors only mean the process already exited.
				_ = cmd.Process.Kill()
			}
			_ = cmd.Wait()
		}
	})
	return nil
}
