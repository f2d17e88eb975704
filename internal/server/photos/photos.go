// Package photos moves inline data: photo URLs out of entry rows and into an
// S3-compatible bucket, leaving the object URL on the entry.
package photos

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidDataURL = errors.New("invalid data url")

// Offloader rewrites an entry's photo URL before the entry is stored.
type Offloader interface {
	Offload(ctx context.Context, photoURL *string) (*string, error)
}

// Passthrough keeps photo URLs untouched. It is used when no bucket is configured.
type Passthrough struct{}

func (Passthrough) Offload(_ context.Context, photoURL *string) (*string, error) {
	return photoURL, nil
}

// dataURL is a decoded RFC 2397 URL.
type dataURL struct {
	mediaType string
	data      []byte
}

func isDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

func parseDataURL(s string) (*dataURL, error) {
	if !isDataURL(s) {
		return nil, ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing comma", ErrInvalidDataURL)
	}

	params := strings.Split(meta, ";")
	mediaType := params[0]
	if mediaType == "" {
		mediaType = "text/plain"
	}
	isBase64 := len(params) > 1 && params[len(params)-1] == "base64"

	var data []byte
	if isBase64 {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
		}
		data = b
	} else {
		p, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
		}
		data = []byte(p)
	}
	return &dataURL{mediaType: mediaType, data: data}, nil
}

func extensionFor(mediaType string) string {
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	default:
		return ".bin"
	}
}

// storageKey builds a date-partitioned object key.
func storageKey(d time.Time, ext string) string {
	return fmt.Sprintf("photos/%d/%02d/%02d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}
