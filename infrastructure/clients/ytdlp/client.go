// Package ytdlp wraps invocations of the external yt-dlp extractor tool.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"media-gateway/domain/apperror"
	"media-gateway/domain/model"
	"media-gateway/domain/repository"
	"media-gateway/infrastructure/logger"
)

type Client struct {
	binary         string
	socketTimeout  string
	processTimeout time.Duration
}

// NewClient builds an extractor client. socketTimeoutSeconds is passed to
// the tool itself; processTimeout is the outer wall-clock limit the client
// enforces on metadata extraction regardless of the tool's own timeout.
func NewClient(binary string, socketTimeoutSeconds int, processTimeout time.Duration) repository.IExtractor {
	return &Client{
		binary:         binary,
		socketTimeout:  strconv.Itoa(socketTimeoutSeconds),
		processTimeout: processTimeout,
	}
}

// DumpInfo runs `yt-dlp --dump-json <url>` and parses the metadata
// document. The child is killed and reaped if the outer timeout elapses
// first; a non-zero exit surfaces the tool's stderr as the failure detail.
func (c *Client) DumpInfo(ctx context.Context, url string) (*model.RawInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.processTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary, "--dump-json", "--socket-timeout", c.socketTimeout, url)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, apperror.Timeout("yt-dlp timed out while fetching info")
	}
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = "Failed to fetch video info"
		}
		return nil, apperror.BadRequest(detail)
	}

	var info model.RawInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, fmt.Errorf("ytdlp: parse dump-json output: %w", err)
	}
	return &info, nil
}

// Version reports the extractor version, or "unknown" when the tool cannot
// be invoked.
func (c *Client) Version(ctx context.Context) string {
	out, err := exec.CommandContext(ctx, c.binary, "--version").Output()
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("yt-dlp version check failed")
		return "unknown"
	}
	version := strings.TrimSpace(string(out))
	if version == "" {
		return "unknown"
	}
	return version
}

// FormatCommand streams exactly the requested format to stdout.
func (c *Client) FormatCommand(url, formatID string) model.Command {
	return model.Command{
		Path: c.binary,
		Args: []string{"-f", formatID, "-o", "-", "--socket-timeout", c.socketTimeout, url},
	}
}

// BestAudioCommand streams the best available audio to stdout.
func (c *Client) BestAudioCommand(url string) model.Command {
	return model.Command{
		Path: c.binary,
		Args: []string{"-f", "bestaudio", "-o", "-", "--socket-timeout", c.socketTimeout, url},
	}
}
