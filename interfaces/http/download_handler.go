package http

import (
	"fmt"
	"net/http"
	"net/url"

	"media-gateway/domain/apperror"
	"media-gateway/domain/dto"
	"media-gateway/infrastructure/logger"
	"media-gateway/usecase"

	"github.com/gin-gonic/gin"
)

// relayChunkSize is the window used when relaying pipeline output to the
// client; bytes are forwarded in production order with no further buffering.
const relayChunkSize = 1 << 20

type IDownloadHandler interface {
	GetInfo(ctx *gin.Context)
	Download(ctx *gin.Context)
}

type DownloadHandler struct {
	downloadUsecase usecase.IDownloadUsecase
}

func NewDownloadHandler(downloadUsecase usecase.IDownloadUsecase) IDownloadHandler {
	return &DownloadHandler{downloadUsecase: downloadUsecase}
}

func (h *DownloadHandler) GetInfo(ctx *gin.Context) {
	var req dto.InfoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "a valid url is required"})
		return
	}
	info, err := h.downloadUsecase.Resolve(ctx.Request.Context(), req.URL)
	if err != nil {
		logger.GetLogger().WithField("url", req.URL).WithField("error", err.Error()).Warn("info request failed")
		ctx.JSON(apperror.StatusOf(err), dto.ErrorResponse{Detail: apperror.DetailOf(err)})
		return
	}
	ctx.JSON(http.StatusOK, info)
}

func (h *DownloadHandler) Download(ctx *gin.Context) {
	var req dto.DownloadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: "a valid url is required"})
		return
	}
	mode := req.Mode
	if mode == "" {
		mode = usecase.ModeVideo
	}

	res, err := h.downloadUsecase.Download(ctx.Request.Context(), req.URL, mode, req.FormatID)
	if err != nil {
		logger.GetLogger().WithField("url", req.URL).WithField("error", err.Error()).Warn("download request failed")
		ctx.JSON(apperror.StatusOf(err), dto.ErrorResponse{Detail: apperror.DetailOf(err)})
		return
	}
	defer res.Body.Close()

	ctx.Header("Content-Disposition", contentDisposition(res.Filename))
	ctx.Header("X-Content-Type-Options", "nosniff")
	ctx.Header("Content-Type", res.ContentType)
	ctx.Status(http.StatusOK)

	// Headers are committed once the first chunk is written; a mid-stream
	// pipeline failure can only end the stream early.
	buf := make([]byte, relayChunkSize)
	for {
		n, rerr := res.Body.Read(buf)
		if n > 0 {
			if _, werr := ctx.Writer.Write(buf[:n]); werr != nil {
				return
			}
			ctx.Writer.Flush()
		}
		if rerr != nil {
			return
		}
	}
}

// contentDisposition renders the attachment header with both the plain
// ASCII filename and the percent-encoded UTF-8 variant.
func contentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", filename, url.PathEscape(filename))
}
