package utils

import (
	"bytes"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"carnet-api/internal/models"
)

// ExtractMediaHints pulls GPS coordinates and the capture timestamp out
// of an image's EXIF block. Everything here is best-effort: files
// without EXIF, or with partial EXIF, simply yield fewer hints.
func ExtractMediaHints(data []byte) models.MediaHints {
	var hints models.MediaHints

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return hints
	}

	if lat, lng, err := x.LatLong(); err == nil {
		hints.Latitude = &lat
		hints.Longitude = &lng
	}

	if taken, err := x.DateTime(); err == nil {
		hints.TakenAt = &taken
	} else if taken, ok := dateTimeOriginal(x); ok {
		hints.TakenAt = &taken
	}

	return hints
}

// Falls back to the DateTimeOriginal tag, typically "2006:01:02 15:04:05".
func dateTimeOriginal(x *exif.Exif) (time.Time, bool) {
	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return time.Time{}, false
	}

	raw, err := tag.StringVal()
	if err != nil {
		return time.Time{}, false
	}

	taken, err := time.Parse("2006:01:02 15:04:05", raw)
	if err != nil {
		return time.Time{}, false
	}
	return taken, true
}
