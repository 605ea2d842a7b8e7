package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"media-gateway/domain/apperror"
	"media-gateway/domain/model"
	httpHandler "media-gateway/interfaces/http"
	"media-gateway/usecase"
)

type MockDownloadUsecase struct {
	mock.Mock
}

func (m *MockDownloadUsecase) Resolve(ctx context.Context, url string) (model.MediaInfo, error) {
	args := m.Called(ctx, url)
	return args.Get(0).(model.MediaInfo), args.Error(1)
}

func (m *MockDownloadUsecase) Download(ctx context.Context, url, mode, formatID string) (*usecase.DownloadResult, error) {
	args := m.Called(ctx, url, mode, formatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.DownloadResult), args.Error(1)
}

func newTestRouter(uc usecase.IDownloadUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := httpHandler.NewDownloadHandler(uc)
	router := gin.New()
	router.POST("/api/info", handler.GetInfo)
	router.POST("/api/download", handler.Download)
	return router
}

func postJSON(router *gin.Engine, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetInfoReturnsMediaInfo(t *testing.T) {
	uc := new(MockDownloadUsecase)
	uc.On("Resolve", mock.Anything, "https://example.com/v").
		Return(model.MediaInfo{
			Title: "Test Clip",
			Formats: []model.Format{
				{FormatID: "22", Label: "720p (mp4)", Height: 720},
			},
		}, nil).
		Once()

	rec := postJSON(newTestRouter(uc), "/api/info", `{"url":"https://example.com/v"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var info model.MediaInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "Test Clip", info.Title)
	require.NotEmpty(t, info.Formats)
	assert.Equal(t, "720p (mp4)", info.Formats[0].Label)
	uc.AssertExpectations(t)
}

func TestGetInfoRejectsMalformedURL(t *testing.T) {
	uc := new(MockDownloadUsecase)

	rec := postJSON(newTestRouter(uc), "/api/info", `{"url":"not a url"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "detail")
	uc.AssertNotCalled(t, "Resolve")
}

func TestGetInfoMapsResolutionTimeout(t *testing.T) {
	uc := new(MockDownloadUsecase)
	uc.On("Resolve", mock.Anything, mock.Anything).
		Return(model.MediaInfo{}, apperror.Timeout("yt-dlp timed out while fetching info")).
		Once()

	rec := postJSON(newTestRouter(uc), "/api/info", `{"url":"https://example.com/v"}`)

	assert.Equal(t, http.StatusRequestTimeout, rec.Code)
	assert.Contains(t, rec.Body.String(), "timed out")
}

func TestDownloadAudioStreamsWithHeaders(t *testing.T) {
	uc := new(MockDownloadUsecase)
	uc.On("Download", mock.Anything, "https://example.com/v", "audio", "").
		Return(&usecase.DownloadResult{
			Filename:    "Test Clip.mp3",
			ContentType: "audio/mpeg",
			Body:        io.NopCloser(bytes.NewReader([]byte("ID3audio-bytes"))),
		}, nil).
		Once()

	rec := postJSON(newTestRouter(uc), "/api/download", `{"url":"https://example.com/v","mode":"audio"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	disposition := rec.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, `attachment; filename="Test Clip.mp3"`)
	assert.Contains(t, disposition, "filename*=UTF-8''Test%20Clip.mp3")
	assert.Equal(t, "ID3audio-bytes", rec.Body.String())
	uc.AssertExpectations(t)
}

func TestDownloadDefaultsToVideoMode(t *testing.T) {
	uc := new(MockDownloadUsecase)
	uc.On("Download", mock.Anything, "https://example.com/v", "video", "22").
		Return(&usecase.DownloadResult{
			Filename:    "Test Clip.mp4",
			ContentType: "video/mp4",
			Body:        io.NopCloser(bytes.NewReader([]byte("mp4-bytes"))),
		}, nil).
		Once()

	rec := postJSON(newTestRouter(uc), "/api/download", `{"url":"https://example.com/v","format_id":"22"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "video/mp4", rec.Header().Get("Content-Type"))
	uc.AssertExpectations(t)
}

func TestDownloadMissingFormatID(t *testing.T) {
	uc := new(MockDownloadUsecase)
	uc.On("Download", mock.Anything, "https://example.com/v", "video", "").
		Return(nil, apperror.BadRequest("format_id is required for video downloads")).
		Once()

	rec := postJSON(newTestRouter(uc), "/api/download", `{"url":"https://example.com/v"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "format_id is required")
}

func TestDownloadUnknownFormat(t *testing.T) {
	uc := new(MockDownloadUsecase)
	uc.On("Download", mock.Anything, mock.Anything, "video", "999").
		Return(nil, apperror.NotFound("Selected format not found")).
		Once()

	rec := postJSON(newTestRouter(uc), "/api/download", `{"url":"https://example.com/v","format_id":"999"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Selected format not found")
}

func TestDownloadClosesBody(t *testing.T) {
	uc := new(MockDownloadUsecase)
	body := &closeTrackingReader{Reader: strings.NewReader("bytes")}
	uc.On("Download", mock.Anything, mock.Anything, "video", "22").
		Return(&usecase.DownloadResult{Filename: "v.mp4", ContentType: "video/mp4", Body: body}, nil).
		Once()

	rec := postJSON(newTestRouter(uc), "/api/download", `{"url":"https://example.com/v","format_id":"22"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.closed, "pipeline stream must be closed after the response ends")
}

type closeTrackingReader struct {
	io.Reader
	closed bool
}

func (c *closeTrackingReader) Close() error {
	c.closed = true
	return nil
}
