package auth

import (
	"github.com/gin-gonic/gin"
)

const (
	RoleCustomer   = "customer"
	RoleAgent      = "agent"
	RoleSupervisor = "supervisor"
)

// CurrentUser is the identity every core operation receives explicitly.
// It is decoded from the bearer token by the auth middleware; the user
// directory itself belongs to the authentication collaborator.
type CurrentUser struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
}

func (u CurrentUser) IsStaff() bool {
	return u.Role == RoleAgent || u.Role == RoleSupervisor
}

func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleAgent || role == RoleSupervisor
}

const contextKey = "current_user"

func SetCurrentUser(c *gin.Context, user CurrentUser) {
	c.Set(contextKey, user)
}

func FromContext(c *gin.Context) (CurrentUser, bool) {
	value, exists := c.Get(contextKey)
	if !exists {
		return CurrentUser{}, false
	}
	user, ok := value.(CurrentUser)
	return user, ok
}
