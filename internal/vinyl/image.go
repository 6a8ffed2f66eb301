package vinyl

import (
	"strings"

	"vinylvault/internal/platform/discogs"
)

// ImageSize is the requested cover resolution tier. The catalog only exposes
// a thumbnail and a full cover today, so small, medium and large all resolve
// to the full cover.
type ImageSize string

const (
	SizeThumb  ImageSize = "thumb"
	SizeSmall  ImageSize = "small"
	SizeMedium ImageSize = "medium"
	SizeLarge  ImageSize = "large"
)

// ParseImageSize maps user input to a tier, defaulting to SizeMedium.
func ParseImageSize(s string) ImageSize {
	switch ImageSize(strings.ToLower(strings.TrimSpace(s))) {
	case SizeThumb:
		return SizeThumb
	case SizeSmall:
		return SizeSmall
	case SizeLarge:
		return SizeLarge
	}
	return SizeMedium
}

// SelectCoverImage picks between the full cover and the thumbnail for size,
// falling back to the other variant and finally to DefaultCoverImage.
func SelectCoverImage(cover, thumb string, size ImageSize) string {
	cover, thumb = strings.TrimSpace(cover), strings.TrimSpace(thumb)
	first, second := cover, thumb
	if size == SizeThumb {
		first, second = thumb, cover
	}
	switch {
	case first != "":
		return first
	case second != "":
		return second
	}
	return DefaultCoverImage
}

// primaryImage returns the first primary image, else the first image, else "".
func primaryImage(images []discogs.Image) string {
	for _, img := range images {
		if img.Type == "primary" {
			return imageURI(img)
		}
	}
	if len(images) > 0 {
		return imageURI(images[0])
	}
	return ""
}

func imageURI(img discogs.Image) string {
	if u := strings.TrimSpace(img.URI); u != "" {
		return u
	}
	return strings.TrimSpace(img.URI150)
}
