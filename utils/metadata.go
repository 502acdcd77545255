package utils

import (
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// CaptureInfo is the subset of EXIF metadata retained for mugshot records.
type CaptureInfo struct {
	TakenAt     *int64 // Unix seconds
	CameraMake  string
	CameraModel string
}

// ReadCaptureInfo extracts capture metadata from an image file. Images
// without EXIF data (or without the tags of interest) yield an empty struct;
// metadata is never a reason to reject an ingest.
func ReadCaptureInfo(path string) CaptureInfo {
	var info CaptureInfo

	f, err := os.Open(path)
	if err != nil {
		return info
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return info
	}

	if t, err := x.DateTime(); err == nil {
		unix := t.Unix()
		info.TakenAt = &unix
	}
	if tag, err := x.Get(exif.Make); err == nil {
		if s, err := tag.StringVal(); err == nil {
			info.CameraMake = strings.TrimSpace(s)
		}
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if s, err := tag.StringVal(); err == nil {
			info.CameraModel = strings.TrimSpace(s)
		}
	}
	return info
}
