package model

import (
	"fmt"
	"sort"
	"strconv"
)

// MediaInfo is the resolved metadata for a single source URL. It is built
// once per extraction and never mutated afterwards.
type MediaInfo struct {
	Title     string   `json:"title"`
	Thumbnail string   `json:"thumbnail,omitempty"`
	Duration  float64  `json:"duration,omitempty"`
	Formats   []Format `json:"formats"`
}

// Format is one selectable quality/codec variant of a media resource.
type Format struct {
	FormatID string `json:"format_id"`
	Label    string `json:"label"`
	Ext      string `json:"ext,omitempty"`
	Filesize int64  `json:"filesize,omitempty"`
	Height   int    `json:"height,omitempty"`
	Vcodec   string `json:"vcodec,omitempty"`
	Acodec   string `json:"acodec,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

// RawInfo is the loosely-typed metadata document emitted by the extractor
// tool. Absent fields decode to zero values.
type RawInfo struct {
	Title     string      `json:"title"`
	Thumbnail string      `json:"thumbnail"`
	Duration  float64     `json:"duration"`
	Ext       string      `json:"ext"`
	Formats   []RawFormat `json:"formats"`
}

// RawFormat is a single per-format record from the extractor output.
type RawFormat struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	Height         int     `json:"height"`
	FPS            float64 `json:"fps"`
	Vcodec         string  `json:"vcodec"`
	Acodec         string  `json:"acodec"`
	Resolution     string  `json:"resolution"`
	FormatNote     string  `json:"format_note"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	MimeType       string  `json:"mime_type"`
}

// FindFormat returns the raw format record matching formatID.
func (info *RawInfo) FindFormat(formatID string) (RawFormat, bool) {
	for _, f := range info.Formats {
		if f.FormatID == formatID {
			return f, true
		}
	}
	return RawFormat{}, false
}

// BuildFormats normalizes raw extractor format records into a stable list:
// records without a format_id are discarded, labels are derived for the UI,
// and the result is sorted by (height, label) descending.
func BuildFormats(raw []RawFormat) []Format {
	formats := make([]Format, 0, len(raw))
	for _, f := range raw {
		if f.FormatID == "" {
			continue
		}
		filesize := f.Filesize
		if filesize == 0 {
			filesize = f.FilesizeApprox
		}
		formats = append(formats, Format{
			FormatID: f.FormatID,
			Label:    FormatLabel(f),
			Ext:      f.Ext,
			Filesize: filesize,
			Height:   f.Height,
			Vcodec:   f.Vcodec,
			Acodec:   f.Acodec,
			MimeType: f.MimeType,
		})
	}
	sort.SliceStable(formats, func(i, j int) bool {
		if formats[i].Height != formats[j].Height {
			return formats[i].Height > formats[j].Height
		}
		return formats[i].Label > formats[j].Label
	})
	return formats
}

// FormatLabel renders the human-readable label for a raw format record.
// The exact wording is load-bearing for the web UI.
func FormatLabel(f RawFormat) string {
	var label string
	switch {
	case f.Vcodec == "none":
		label = "Audio Only"
	case f.Height > 0:
		label = fmt.Sprintf("%dp", f.Height)
	case f.Resolution != "":
		label = f.Resolution
	case f.FormatNote != "":
		label = f.FormatNote
	default:
		label = "Unknown"
	}
	if f.FPS > 0 {
		label += " " + strconv.FormatFloat(f.FPS, 'f', -1, 64) + "fps"
	}
	if f.Ext != "" {
		label += " (" + f.Ext + ")"
	}
	return label
}
