package vinyl

import (
	"strings"

	"vinylvault/internal/platform/discogs"
)

const vinylToken = "Vinyl"

// CleanFormat reduces a format list to one display string. A leading
// "Vinyl" entry defers to the more specific second entry, and the literal
// "Vinyl" is then stripped. The result may be empty.
func CleanFormat(formats []string) string {
	if len(formats) == 0 {
		return ""
	}
	f := formats[0]
	if strings.TrimSpace(f) == vinylToken && len(formats) > 1 {
		f = formats[1]
	}
	f = strings.ReplaceAll(f, vinylToken, "")
	return strings.Join(strings.Fields(f), " ")
}

func releaseFormat(formats []discogs.Format) string {
	if len(formats) == 0 {
		return ""
	}
	first := formats[0]
	candidates := make([]string, 0, 1+len(first.Descriptions))
	candidates = append(candidates, first.Name)
	candidates = append(candidates, first.Descriptions...)
	return CleanFormat(candidates)
}
