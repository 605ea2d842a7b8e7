package usecase

import (
	"context"
	"io"
	"strings"

	"media-gateway/domain/apperror"
	"media-gateway/domain/model"
	"media-gateway/domain/repository"
	"media-gateway/infrastructure/logger"
	"media-gateway/infrastructure/utils"
)

const (
	ModeVideo = "video"
	ModeAudio = "audio"

	defaultTitle       = "video"
	defaultVideoExt    = "mp4"
	defaultContentType = "application/octet-stream"
)

// DownloadResult carries everything the HTTP layer needs to stream one
// download: response metadata plus the live pipeline output. The caller
// owns Body and must close it on every exit path.
type DownloadResult struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

type IDownloadUsecase interface {
	// Resolve returns the media metadata for url, served from the info
	// cache when fresh.
	Resolve(ctx context.Context, url string) (model.MediaInfo, error)
	// Download starts the streaming pipeline for url in the given mode.
	// formatID selects the variant for video mode and is ignored for audio.
	Download(ctx context.Context, url, mode, formatID string) (*DownloadResult, error)
}

type downloadUsecase struct {
	extractor  repository.IExtractor
	transcoder repository.ITranscoder
	runner     repository.IPipeline
	infoCache  repository.IInfoCache
}

func NewDownloadUsecase(
	extractor repository.IExtractor,
	transcoder repository.ITranscoder,
	runner repository.IPipeline,
	infoCache repository.IInfoCache,
) IDownloadUsecase {
	return &downloadUsecase{
		extractor:  extractor,
		transcoder: transcoder,
		runner:     runner,
		infoCache:  infoCache,
	}
}

func (u *downloadUsecase) Resolve(ctx context.Context, url string) (model.MediaInfo, error) {
	if cached, ok := u.infoCache.Get(url); ok {
		return cached, nil
	}
	raw, err := u.extractor.DumpInfo(ctx, url)
	if err != nil {
		return model.MediaInfo{}, err
	}
	info := model.MediaInfo{
		Title:     raw.Title,
		Thumbnail: raw.Thumbnail,
		Duration:  raw.Duration,
		Formats:   model.BuildFormats(raw.Formats),
	}
	u.infoCache.Set(url, info)
	return info, nil
}

// Download always performs a fresh extraction: the title and format table
// must reflect the source at download time, so the info cache is bypassed.
func (u *downloadUsecase) Download(ctx context.Context, url, mode, formatID string) (*DownloadResult, error) {
	raw, err := u.extractor.DumpInfo(ctx, url)
	if err != nil {
		return nil, err
	}

	title := raw.Title
	if title == "" {
		title = defaultTitle
	}
	base := utils.SanitizeFilename(title, defaultTitle)

	if strings.ToLower(mode) == ModeAudio {
		return u.downloadAudio(ctx, url, base)
	}
	return u.downloadVideo(ctx, url, base, formatID, raw)
}

func (u *downloadUsecase) downloadAudio(ctx context.Context, url, base string) (*DownloadResult, error) {
	body, err := u.runner.Start(ctx, u.extractor.BestAudioCommand(url), u.transcoder.MP3Command())
	if err != nil {
		return nil, err
	}
	logger.GetLogger().WithField("url", url).Info("Audio download pipeline started")
	return &DownloadResult{
		Filename:    base + ".mp3",
		ContentType: "audio/mpeg",
		Body:        body,
	}, nil
}

func (u *downloadUsecase) downloadVideo(ctx context.Context, url, base, formatID string, raw *model.RawInfo) (*DownloadResult, error) {
	if formatID == "" {
		return nil, apperror.BadRequest("format_id is required for video downloads")
	}
	selected, ok := raw.FindFormat(formatID)
	if !ok {
		return nil, apperror.NotFound("Selected format not found")
	}

	ext := selected.Ext
	if ext == "" {
		ext = raw.Ext
	}
	if ext == "" {
		ext = defaultVideoExt
	}

	contentType := selected.MimeType
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	body, err := u.runner.Start(ctx, u.extractor.FormatCommand(url, formatID))
	if err != nil {
		return nil, err
	}
	logger.GetLogger().WithField("url", url).WithField("format_id", formatID).Info("Video download pipeline started")
	return &DownloadResult{
		Filename:    base + "." + ext,
		ContentType: contentType,
		Body:        body,
	}, nil
}
