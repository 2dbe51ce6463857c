package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lokhacodes/UComp/entity"
	"github.com/lokhacodes/UComp/repository"
	"github.com/lokhacodes/UComp/service"
)

type UserController struct {
	UserService *service.UserService
}

// GetByClerkID looks up the local record for a subject id. The mobile client
// calls this after sign-in to learn whether role selection is still pending.
func (c *UserController) GetByClerkID(ctx *gin.Context) {
	var req struct {
		ClerkID string `json:"clerkId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.ClerkID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Clerk ID is required"})
		return
	}

	user, err := c.UserService.FindOneByClerkID(ctx.Request.Context(), req.ClerkID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

type selectRoleRequest struct {
	Email     string      `json:"email"`
	Username  string      `json:"username"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Photo     string      `json:"photo"`
	Role      entity.Role `json:"role"`
}

// SelectRole is the one-time role selection step. It creates the local user
// on first sight (idempotently, surviving concurrent first logins) and then
// binds the role; picking admin with an email outside the organizational
// domain is rejected and leaves the role unset.
func (c *UserController) SelectRole(ctx *gin.Context) {
	clerkID := ctx.GetHeader(IdentityHeader)
	if clerkID == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req selectRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	_, err := c.UserService.Ensure(ctx.Request.Context(), service.Profile{
		ClerkID:   clerkID,
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Photo:     req.Photo,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	user, err := c.UserService.AssignRole(ctx.Request.Context(), clerkID, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "You are not authorized to select the Admin role."})
			return
		}
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, user)
}
