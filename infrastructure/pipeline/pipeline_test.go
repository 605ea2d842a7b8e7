package pipeline

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"media-gateway/domain/model"
)

func sh(script string) model.Command {
	return model.Command{Path: "sh", Args: []string{"-c", script}}
}

func assertReaped(t *testing.T, p *Pipeline) {
	t.Helper()
	for i, cmd := range p.cmds {
		assert.NotNil(t, cmd.ProcessState, "process %d not reaped", i)
	}
}

func TestStartSingleProcess(t *testing.T) {
	p, err := Start(context.Background(), sh("printf hello"))
	require.NoError(t, err)

	out, err := io.ReadAll(p)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))

	require.NoError(t, p.Close())
	assertReaped(t, p)
}

func TestStartTwoProcessPipe(t *testing.T) {
	p, err := Start(context.Background(), sh("printf 'hello world'"), model.Command{
		Path: "tr",
		Args: []string{"a-z", "A-Z"},
	})
	require.NoError(t, err)

	out, err := io.ReadAll(p)
	require.NoError(t, err)
	assert.Equal(t, "HELLO WORLD", string(out))

	require.NoError(t, p.Close())
	assertReaped(t, p)
}

func TestCloseKillsAndReapsMidStream(t *testing.T) {
	p, err := Start(context.Background(),
		sh("while :; do printf x; sleep 0.01; done"),
		model.Command{Path: "cat"},
	)
	require.NoError(t, err)

	// Consume a little output to prove the pipeline is live, then abort.
	buf := make([]byte, 1)
	_, err = p.Read(buf)
	require.NoError(t, err)

	require.NoError(t, p.Close())
	assertReaped(t, p)
	for _, cmd := range p.cmds {
		assert.False(t, cmd.ProcessState.Success(), "killed process must not report success")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	p, err := Start(context.Background(), sh("sleep 30"))
	require.NoError(t, err)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assertReaped(t, p)
}

func TestContextCancelTriggersCleanup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p, err := Start(ctx, sh("sleep 30"))
	require.NoError(t, err)

	cancel()
	// Close blocks until the cancellation-triggered cleanup completed.
	require.NoError(t, p.Close())
	assertReaped(t, p)
}

func TestNormalEOFStillReaps(t *testing.T) {
	p, err := Start(context.Background(), sh("printf done"))
	require.NoError(t, err)

	out, err := io.ReadAll(p)
	require.NoError(t, err)
	assert.Equal(t, "done", string(out))

	require.NoError(t, p.Close())
	assertReaped(t, p)
	assert.True(t, p.cmds[0].ProcessState.Success())
}

func TestStartFailsOnMissingBinary(t *testing.T) {
	_, err := Start(context.Background(),
		sh("sleep 30"),
		model.Command{Path: "definitely-not-a-real-binary-1234"},
	)
	assert.Error(t, err)
}

func TestStartRequiresCommands(t *testing.T) {
	_, err := Start(context.Background())
	assert.Error(t, err)
}

func TestCloseUnblocksPendingRead(t *testing.T) {
	p, err := Start(context.Background(), sh("sleep 30"))
	require.NoError(t, err)

	readDone := make(chan error, 1)
	go func() {
		_, rerr := p.Read(make([]byte, 1))
		readDone <- rerr
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, p.Close())

	select {
	case rerr := <-readDone:
		assert.Error(t, rerr)
	case <-time.After(5 * time.Second):
		t.Fatal("read did not unblock after Close")
	}
}
