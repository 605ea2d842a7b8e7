// Package ffmpeg wraps invocations of the external ffmpeg transcoder tool.
package ffmpeg

import (
	"media-gateway/domain/model"
	"media-gateway/domain/repository"
)

type Transcoder struct {
	binary string
}

func NewTranscoder(binary string) repository.ITranscoder {
	return &Transcoder{binary: binary}
}

// MP3Command reads raw audio from stdin, drops any video stream, and writes
// an mp3 stream to stdout.
func (t *Transcoder) MP3Command() model.Command {
	return model.Command{
		Path: t.binary,
		Args: []string{"-i", "pipe:0", "-vn", "-acodec", "libmp3lame", "-f", "mp3", "pipe:1"},
	}
}
