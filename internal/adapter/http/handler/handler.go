package handler

import (
	"time"

	"ricemill-erp/internal/adapter/http/dto"
	"ricemill-erp/internal/core/domain"
	"ricemill-erp/pkg/apperror"
	"ricemill-erp/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// bindJSON binds and trims the request body. It writes a 400 and returns
// false on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return false
	}
	dto.TrimStruct(req)
	return true
}

// pathID parses the :id parameter. A malformed id can never match a record,
// so it is reported as not found.
func pathID(c *gin.Context, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrNotFound(entity))
		return uuid.Nil, false
	}
	return id, true
}

// dateRange reads the optional startDate and endDate query parameters.
func dateRange(c *gin.Context) (domain.DateRange, bool) {
	var r domain.DateRange
	start, err := dto.OptionalDate(c.Query("startDate"))
	if err != nil {
		response.Error(c, apperror.ErrInvalidDate("startDate"))
		return r, false
	}
	end, err := dto.OptionalDate(c.Query("endDate"))
	if err != nil {
		response.Error(c, apperror.ErrInvalidDate("endDate"))
		return r, false
	}
	r.Start, r.End = start, end
	return r, true
}

// bodyDate parses an optional date field from a request body.
func bodyDate(c *gin.Context, field, raw string) (*time.Time, bool) {
	t, err := dto.OptionalDate(raw)
	if err != nil {
		response.Error(c, apperror.ErrInvalidDate(field))
		return nil, false
	}
	return t, true
}
