package util

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the envelope of every response body
// @Description Standard response envelope
type APIResponse struct {
	Status  string      `json:"status" example:"success"`
	Message string      `json:"message" example:"Booking created successfully"`
	Data    interface{} `json:"data"`
}

type APIErrorParams struct {
	Msg string
	Err error
}

type APISuccessParams struct {
	Msg  string
	Data interface{}
}

func callError(c *gin.Context, code int, params APIErrorParams) {
	if params.Err != nil {
		_ = c.Error(params.Err)
	}
	c.JSON(code, APIResponse{Status: StatusError, Message: params.Msg, Data: nil})
}

func callSuccess(c *gin.Context, code int, params APISuccessParams) {
	c.JSON(code, APIResponse{Status: StatusSuccess, Message: params.Msg, Data: params.Data})
}

// CallSuccessOK is for return API response with status code 200, you need to specify msg, and data as function parameter
func CallSuccessOK(c *gin.Context, params APISuccessParams) {
	callSuccess(c, http.StatusOK, params)
}

// CallCreated returns 201 with the created resource.
func CallCreated(c *gin.Context, params APISuccessParams) {
	callSuccess(c, http.StatusCreated, params)
}

// CallUserError is for return error from user side
func CallUserError(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusBadRequest, params)
}

// CallUserNotAuthorized returns 401 for a missing, invalid or revoked token.
func CallUserNotAuthorized(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusUnauthorized, params)
}

// CallForbidden returns 403 for a caller whose role may not use the endpoint.
func CallForbidden(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusForbidden, params)
}

// CallErrorNotFound is for return API response not found
func CallErrorNotFound(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusNotFound, params)
}

// CallServerError returns 500. The cause is attached to the gin context for
// logging only and never written to the body.
func CallServerError(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusInternalServerError, params)
}

// CallTooManyRequests returns 429.
func CallTooManyRequests(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusTooManyRequests, params)
}

// NormalizeName trims surrounding whitespace and collapses internal runs to
// single spaces.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// NormalizeEmail trims whitespace. Case is preserved as stored.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
