package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lokhacodes/UComp/entity"
	"github.com/lokhacodes/UComp/repository"
	"github.com/lokhacodes/UComp/service"
	"github.com/rs/zerolog/log"
)

// IdentityHeader carries the identity provider's verified subject id. It is
// set by the auth proxy in front of the app; the app itself never verifies
// sessions.
const IdentityHeader = "X-Clerk-User-Id"

const userContextKey = "user"

// Identify resolves the verified subject to the local user record and stores
// it in the request context. Requests without a subject, or subjects that
// have not completed role selection yet, get a 401.
func Identify(userService *service.UserService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		clerkID := ctx.GetHeader(IdentityHeader)
		if clerkID == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		user, err := userService.FindOneByClerkID(ctx.Request.Context(), clerkID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
				return
			}
			log.Error().Err(err).Str("clerkId", clerkID).Msg("identity resolution failed")
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		ctx.Set(userContextKey, user)
		ctx.Next()
	}
}

// RequireAdmin gates admin-only routes on the locally stored role. Role
// changes take effect only after the stored record changes; there is no live
// claim check.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user := CurrentUser(ctx)
		if user == nil || !user.IsAdmin() {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		ctx.Next()
	}
}

// CurrentUser returns the user resolved by Identify, nil when absent.
func CurrentUser(ctx *gin.Context) *entity.User {
	v, ok := ctx.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*entity.User)
	return user
}

// respondError maps domain sentinels onto HTTP statuses. Anything unmapped is
// logged and hidden behind a 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrInvalidInput):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("request failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
