package httpadapter

import (
	"net/http"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrJobNotFound),
		domain.IsKind(err, domain.ErrArtifactNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrJobNotFinished):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
