package response

import (
	"errors"
	"net/http"

	"ricemill-erp/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OK sends a 200 response with data as the body.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response with data as the body.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps it accordingly, otherwise returns 500 with the raw message.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.Header("X-Error-Code", appErr.Code)
		c.JSON(appErr.HTTPStatus, ErrorResponse{Error: appErr.Message})
		return
	}

	c.Header("X-Error-Code", "SYS_000")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

// Abort writes the error and stops the middleware chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
