package handler

import (
	"errors"
	"net/http"
	"strconv"

	"hospital-crm/internal/usecase"
	"hospital-crm/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// writeUsecaseError maps usecase sentinels onto status codes. Anything it
// does not recognise is reported as a 500 with the fallback message.
func writeUsecaseError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case usecase.IsNotFound(err):
		response.NotFound(w, err.Error())
	case usecase.IsValidationError(err):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrForbidden):
		response.Forbidden(w, err.Error())
	case usecase.IsConflict(err):
		response.Conflict(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)[name])
}

// pageParams reads page and limit; the usecase applies defaults and caps.
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}

// effectivePage mirrors the usecase defaults for the response meta.
func effectivePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
