package httpx

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"vinylvault/internal/platform/discogs"
)

// CatalogError writes the response for an error returned by the catalog
// client. Rate-limited responses carry Retry-After when the upstream gave one.
func CatalogError(r *http.Request, w http.ResponseWriter, err error) {
	switch discogs.KindOf(err) {
	case discogs.KindInvalidArgument:
		JSONErrorWithRequest(r, w, http.StatusBadRequest, CodeBadRequest, catalogMessage(err), nil)
	case discogs.KindNotFound:
		JSONErrorWithRequest(r, w, http.StatusNotFound, CodeNotFound, "Record not found in catalog", nil)
	case discogs.KindRateLimited:
		var de *discogs.Error
		if errors.As(err, &de) && de.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(de.RetryAfter.Seconds()))))
		}
		JSONErrorWithRequest(r, w, http.StatusTooManyRequests, CodeRateLimited, "Catalog rate limit reached, try again later", nil)
	case discogs.KindUnavailable:
		JSONErrorWithRequest(r, w, http.StatusServiceUnavailable, CodeUpstreamUnavailable, "Catalog is unavailable", nil)
	case discogs.KindUpstream, discogs.KindParse:
		JSONErrorWithRequest(r, w, http.StatusBadGateway, CodeUpstreamError, "Catalog returned an unexpected response", nil)
	default:
		JSONErrorWithRequest(r, w, http.StatusInternalServerError, CodeInternal, "An internal error occurred", nil)
	}
}

func catalogMessage(err error) string {
	var de *discogs.Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return err.Error()
}
