package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"path/filepath"
	"strings"

	"github.com/adrium/goheif"
	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// IsHeifLike reports whether the MIME type denotes a HEIC/HEIF image.
func IsHeifLike(mimeType string) bool {
	t := strings.ToLower(mimeType)
	return strings.Contains(t, "heic") || strings.Contains(t, "heif")
}

// NormalizeHeic converts HEIC/HEIF uploads to browser-renderable JPEG,
// rewriting the filename extension and content type accordingly.
// Non-HEIC input, and input that fails to convert, is passed through
// unchanged.
func NormalizeHeic(name, mimeType string, data []byte) (string, string, []byte) {
	if !IsHeifLike(mimeType) {
		return name, mimeType, data
	}

	converted, err := heicToJpeg(data)
	if err != nil {
		log.Printf("[Upload] HEIC conversion failed for %s: %v", name, err)
		return name, mimeType, data
	}

	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	return name + ".jpg", "image/jpeg", converted
}

// Decodes HEIC data and re-encodes it as JPEG with the EXIF
// orientation applied.
func heicToJpeg(input []byte) ([]byte, error) {
	img, err := goheif.Decode(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("decode HEIC: %w", err)
	}

	img = applyOrientation(img, input)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// Reads the EXIF orientation tag and rotates/flips the decoded image
// to match. Orientation values follow the EXIF spec: 1=normal,
// 2=flip-h, 3=180, 4=flip-v, 5=transpose, 6=270, 7=transverse, 8=90.
func applyOrientation(img image.Image, input []byte) image.Image {
	x, err := exif.Decode(bytes.NewReader(input))
	if err != nil {
		return img
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}

	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
