package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/vinstock/internal/domain/models"
)

const (
	// RoleHeader carries the session role toggled in the shop UI.
	RoleHeader = "X-Session-Role"
	// UserHeader carries the display name of the session user.
	UserHeader = "X-Session-User"

	sessionRoleKey = "session.role"
	sessionUserKey = "session.user"
)

// Session reads the role and user headers. A missing role means
// Administrateur and a missing user gets the role's default name.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.Role(c.GetHeader(RoleHeader))
		if role == "" {
			role = models.RoleAdmin
		}
		if !role.Valid() {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown session role"})
			return
		}

		user := c.GetHeader(UserHeader)
		if user == "" {
			user = role.DefaultUserName()
		}

		c.Set(sessionRoleKey, role)
		c.Set(sessionUserKey, user)
		c.Next()
	}
}

func sessionRole(c *gin.Context) models.Role {
	if role, ok := c.Get(sessionRoleKey); ok {
		return role.(models.Role)
	}
	return models.RoleAdmin
}

func sessionUser(c *gin.Context) string {
	if user, ok := c.Get(sessionUserKey); ok {
		return user.(string)
	}
	return sessionRole(c).DefaultUserName()
}
