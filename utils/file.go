package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// StoreImage re-encodes an uploaded image into destDir as a normalized JPEG
// under a fresh UUID filename and returns the stored path. Re-encoding strips
// any container oddities before the file enters the archive.
func StoreImage(sourcePath, destDir string) (string, error) {
	img, err := imaging.Open(sourcePath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to open image %s: %w", sourcePath, err)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", destDir, err)
	}

	destPath := filepath.Join(destDir, uuid.New().String()+".jpg")
	if err := imaging.Save(img, destPath, imaging.JPEGQuality(92)); err != nil {
		return "", fmt.Errorf("failed to save image to %s: %w", destPath, err)
	}
	return destPath, nil
}
