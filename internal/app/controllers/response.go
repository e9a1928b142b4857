package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yigit/edusponsor/internal/app/models/dto"
	"github.com/yigit/edusponsor/internal/middleware"
	"github.com/yigit/edusponsor/internal/pkg/apperrors"
)

func respond(ctx *gin.Context, status int, data interface{}, message string) {
	ctx.JSON(status, dto.NewStructuredResponse(data, message))
}

// currentUser returns the authenticated user id or writes a 401
func currentUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewUnauthorizedError("Authentication required"))
		return uuid.Nil, false
	}
	return userID, true
}
