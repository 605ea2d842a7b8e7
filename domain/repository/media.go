package repository

import (
	"context"
	"io"

	"media-gateway/domain/model"
)

// IExtractor resolves media URLs via the external extractor tool and builds
// the streaming invocations for it.
type IExtractor interface {
	// DumpInfo runs the bounded metadata extraction for url. It enforces an
	// outer wall-clock timeout on top of the tool's own socket timeout and
	// always reaps the child process before returning.
	DumpInfo(ctx context.Context, url string) (*model.RawInfo, error)
	// Version reports the extractor tool version, or "unknown" when the
	// tool cannot be invoked.
	Version(ctx context.Context) string
	// FormatCommand is the invocation that writes exactly the requested
	// format to stdout.
	FormatCommand(url, formatID string) model.Command
	// BestAudioCommand is the invocation that writes the best available
	// audio stream to stdout.
	BestAudioCommand(url string) model.Command
}

// ITranscoder builds the invocation of the external transcoder tool.
type ITranscoder interface {
	// MP3Command reads raw audio from stdin, drops video, and writes an
	// mp3 stream to stdout.
	MP3Command() model.Command
}

// IInfoCache memoizes resolved media metadata per source URL.
type IInfoCache interface {
	Get(url string) (model.MediaInfo, bool)
	Set(url string, info model.MediaInfo)
}

// IPipeline spawns one or more chained processes and exposes the terminal
// stdout as a byte stream. Closing the stream kills and reaps every process
// that is still running, exactly once.
type IPipeline interface {
	Start(ctx context.Context, cmds ...model.Command) (io.ReadCloser, error)
}
