package utils

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStoreImage(t *testing.T) {
	srcDir := t.TempDir()
	destDir := filepath.Join(t.TempDir(), "stored")

	srcPath := filepath.Join(srcDir, "upload.png")
	f, err := os.Create(srcPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 20, 20))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	storedPath, err := StoreImage(srcPath, destDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasSuffix(storedPath, ".jpg") {
		t.Errorf("stored file should be normalized to JPEG, got %s", storedPath)
	}
	if filepath.Dir(storedPath) != destDir {
		t.Errorf("stored outside destination: %s", storedPath)
	}
	info, err := os.Stat(storedPath)
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("stored file is empty")
	}
}

func TestStoreImageRejectsGarbage(t *testing.T) {
	srcPath := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(srcPath, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := StoreImage(srcPath, t.TempDir()); err == nil {
		t.Error("expected an error for undecodable input")
	}
}

func TestReadCaptureInfoWithoutExif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 10, 10))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	info := ReadCaptureInfo(path)
	if info.TakenAt != nil || info.CameraMake != "" || info.CameraModel != "" {
		t.Errorf("a file without EXIF should yield an empty CaptureInfo, got %+v", info)
	}
}
