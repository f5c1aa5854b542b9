package httpadapter

import (
	"net/http"

	"github.com/jhpark-lab/career-coach/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrRetrieval):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrOracleUnavailable):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
