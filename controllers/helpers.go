package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/socialbbs/middleware"
	"github.com/cppla/socialbbs/services"
	"github.com/cppla/socialbbs/utils"
)

func parsePagination(ctx *gin.Context) services.Page {
	page := services.Page{Number: 1, Size: 10}
	if p, err := strconv.Atoi(ctx.Query("page")); err == nil && p > 0 {
		page.Number = p
	}
	if s, err := strconv.Atoi(ctx.Query("page_size")); err == nil && s > 0 && s <= 100 {
		page.Size = s
	}
	return page
}

// parseID reads a positive numeric path parameter, answering 404 for anything else.
func parseID(ctx *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(ctx.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusNotFound, 40400, "not found")
		return 0, false
	}
	return uint(id), true
}

func currentUser(ctx *gin.Context) (uint, bool) {
	uid, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return 0, false
	}
	return uid, true
}

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindUnauthenticated:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a service error. Internal details are logged, never returned.
func respondError(ctx *gin.Context, err error) {
	e := services.AsError(err)
	status := statusFor(e.Kind)
	if status >= http.StatusInternalServerError {
		utils.Sugar.Errorw(e.Message,
			"code", e.Code,
			"err", e.Err,
			"path", ctx.FullPath(),
			"request_id", ctx.GetString(utils.RequestIDKey),
		)
	}
	utils.Error(ctx, status, e.Code, e.Message)
}

func badPayload(ctx *gin.Context, code int) {
	utils.Error(ctx, http.StatusBadRequest, code, "invalid request payload")
}
