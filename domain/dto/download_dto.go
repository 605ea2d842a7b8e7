package dto

// InfoRequest asks for metadata about a media URL.
type InfoRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// DownloadRequest asks for a streamed copy of a media URL. Mode defaults to
// "video"; FormatID is required for video downloads only.
type DownloadRequest struct {
	URL      string `json:"url" binding:"required,url"`
	FormatID string `json:"format_id"`
	Mode     string `json:"mode"`
}

// ErrorResponse is the JSON body for every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse reports the extractor tool version.
type HealthResponse struct {
	YtDlpVersion string `json:"yt_dlp_version"`
}
