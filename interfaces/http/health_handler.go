package http

import (
	"net/http"

	"media-gateway/domain/dto"
	"media-gateway/domain/repository"

	"github.com/gin-gonic/gin"
)

type IHealthHandler interface {
	Health(ctx *gin.Context)
}

type HealthHandler struct {
	extractor repository.IExtractor
}

func NewHealthHandler(extractor repository.IExtractor) IHealthHandler {
	return &HealthHandler{extractor: extractor}
}

func (h *HealthHandler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{
		YtDlpVersion: h.extractor.Version(ctx.Request.Context()),
	})
}
