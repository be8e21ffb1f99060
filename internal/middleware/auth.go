package middleware

import (
	"context"
	"godrive_backend/internal/model"
	"godrive_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextAccountKey 当前账号（*model.User）在 gin.Context 中的键
const ContextAccountKey = "account"

// TokenResolver resolves a bearer token to a live account.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*model.User, *util.Claims, error)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// AuthMiddleware 校验令牌并加载账号，账号已删除时同样拒绝
func AuthMiddleware(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			util.Unauthorized(c, "Токен доступа отсутствует")
			c.Abort()
			return
		}

		user, claims, err := resolver.ResolveToken(c.Request.Context(), token)
		if err != nil {
			util.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Set(ContextAccountKey, user)
		c.Next()
	}
}

// RoleMiddleware 必须在 AuthMiddleware 之后使用，管理员直接放行
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c, "Unauthorized")
			c.Abort()
			return
		}

		hasRole := user.Role == model.Admin
		for _, role := range roles {
			if user.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentAccount returns the account loaded by AuthMiddleware.
func CurrentAccount(c *gin.Context) *model.User {
	v, ok := c.Get(ContextAccountKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
