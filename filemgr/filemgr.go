package filemgr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

const (
	photoDir     = "static/experiencepic"
	maxPhotoSize = 16 << 20
	maxPhotoDim  = 1600
)

var (
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")

	allowedExtensions = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	}
	allowedMIMEs = map[string]bool{
		"image/jpeg": true, "image/png": true, "image/gif": true, "image/webp": true,
	}
)

// SaveExperiencePhoto validates, re-encodes and stores an uploaded photo.
// Re-encoding through imaging strips EXIF and bounds the dimensions; the
// stored file is always a jpeg. Returns the stored filename.
func SaveExperiencePhoto(file multipart.File, header *multipart.FileHeader) (string, error) {
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrInvalidExtension, ext)
	}

	buf, err := io.ReadAll(io.LimitReader(file, maxPhotoSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(buf) > maxPhotoSize {
		return "", ErrFileTooLarge
	}

	mimeType := http.DetectContentType(buf[:min(len(buf), 512)])
	if !allowedMIMEs[mimeType] {
		return "", fmt.Errorf("%w: %s", ErrInvalidMIME, mimeType)
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Dx() > maxPhotoDim {
		img = imaging.Resize(img, maxPhotoDim, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(photoDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", photoDir, err)
	}

	filename := uuid.New().String() + ".jpg"
	fullPath := filepath.Join(photoDir, filename)
	if err := imaging.Save(img, fullPath, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("save %s: %w", fullPath, err)
	}

	// small thumbnail for list views
	thumb := imaging.Fill(img, 400, 300, imaging.Center, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(photoDir, "thumb_"+filename), imaging.JPEGQuality(80)); err != nil {
		// thumbnail is a nice-to-have, the main photo is already stored
		return filename, nil
	}

	return filename, nil
}
