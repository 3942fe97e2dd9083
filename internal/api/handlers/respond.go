package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chimgan/sales/internal/api/middleware"
	"github.com/chimgan/sales/internal/apperr"
	"github.com/chimgan/sales/internal/i18n"
	"github.com/chimgan/sales/internal/utils"
)

// requestLanguage prefers the lang query parameter, then Accept-Language.
func requestLanguage(c *gin.Context) i18n.Language {
	if l, ok := i18n.Parse(c.Query("lang")); ok {
		return l
	}
	return i18n.FromAcceptLanguage(c.GetHeader("Accept-Language"), i18n.Default)
}

func httpStatus(code apperr.Code) int {
	switch code {
	case apperr.CodeInvalidArgument, apperr.CodeFailedPrecondition:
		return http.StatusBadRequest
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeAlreadyExists:
		return http.StatusConflict
	case apperr.CodePermissionDenied:
		return http.StatusForbidden
	case apperr.CodeUnauthenticated:
		return http.StatusUnauthorized
	case apperr.CodeResourceExhausted:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a localized error. Internal causes are logged, never returned.
func respondError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	status := httpStatus(code)
	if status == http.StatusInternalServerError {
		log.Printf("ERROR %s %s: %v", c.Request.Method, c.FullPath(), err)
		code = apperr.CodeInternal
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": i18n.ErrorMessage(requestLanguage(c), err), "code": code})
}

func badRequest(c *gin.Context, msg string) {
	respondError(c, apperr.InvalidArg(msg))
}

// pathID parses the :name path parameter.
func pathID(c *gin.Context, name string) (utils.SixID, bool) {
	id, err := utils.ParseSixID(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return utils.SixID{}, false
	}
	return id, true
}

// currentUser returns the caller's user id or answers 401.
func currentUser(c *gin.Context) (utils.SixID, bool) {
	id, ok := middleware.UserFromContext(c)
	if !ok {
		respondError(c, apperr.Unauthorized("sign in required"))
		return utils.SixID{}, false
	}
	return id, true
}

func optionalUser(c *gin.Context) (utils.SixID, bool) {
	return middleware.UserFromContext(c)
}

// currentUserOrAdmin accepts either a marketplace user or the administrator.
func currentUserOrAdmin(c *gin.Context) (utils.SixID, bool) {
	if id, ok := middleware.UserFromContext(c); ok {
		return id, true
	}
	if c.GetBool(middleware.ContextKeyIsAdmin) {
		return utils.SixID{}, true
	}
	respondError(c, apperr.Unauthorized("sign in required"))
	return utils.SixID{}, false
}
