package media

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// sniffImage detects the content type from the leading bytes; the client-declared
// type is never trusted.
func sniffImage(data []byte) (*mimetype.MIME, error) {
	detected := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if detected.Is(allowed) {
			return detected, nil
		}
	}
	return nil, fmt.Errorf("%s is not an accepted image type", detected.String())
}

func allowedDescription() string {
	names := make([]string, 0, len(allowedImageTypes))
	for _, value := range allowedImageTypes {
		names = append(names, strings.TrimPrefix(value, "image/"))
	}
	return strings.Join(names, ", ")
}
