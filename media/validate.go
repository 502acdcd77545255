package media

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// allowedImageExtensions is the probe/mugshot ingestion allow-list.
var allowedImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true,
}

// IsRasterImage checks if the filename has an accepted raster image extension.
func IsRasterImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return allowedImageExtensions[ext]
}

// ImageLimits bounds what ValidateImageFile accepts.
type ImageLimits struct {
	MaxBytes  int64
	MinWidth  int
	MinHeight int
}

// ValidateImageFile runs the pre-extraction checks on a probe file:
// existence, extension allow-list, byte-size ceiling, non-empty, decodable
// header, minimum dimensions. Extraction is only invoked on files that pass.
func ValidateImageFile(path string, limits ImageLimits) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}

	if !IsRasterImage(path) {
		return fmt.Errorf("invalid file type %q, allowed: .jpg, .jpeg, .png, .bmp", filepath.Ext(path))
	}

	if limits.MaxBytes > 0 && info.Size() > limits.MaxBytes {
		return fmt.Errorf("file too large (%d bytes), maximum: %d bytes", info.Size(), limits.MaxBytes)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("invalid or corrupted image file: %s", path)
	}

	if limits.MinWidth > 0 && limits.MinHeight > 0 &&
		(cfg.Width < limits.MinWidth || cfg.Height < limits.MinHeight) {
		return fmt.Errorf("image too small (%dx%d), minimum: %dx%d",
			cfg.Width, cfg.Height, limits.MinWidth, limits.MinHeight)
	}

	return nil
}
