package middleware

import (
	"personnel-management/internal/domain"
	"personnel-management/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService is satisfied by rbac.Service.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func enforceFromContext(c *gin.Context, service RBACService, resource, action string) (bool, error) {
	return service.Enforce(domain.EnforceRequest{
		UserID:   c.GetString(ContextUserID),
		Role:     c.GetString(ContextRole),
		Resource: resource,
		Action:   action,
	})
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserID) == "" {
			abortWithError(c, apperror.ErrUnauthorized, nil)
			return
		}

		allowed, err := enforceFromContext(c, service, resource, action)
		if err != nil {
			zap.L().Named("middleware.rbac").Error("rbac enforce failed",
				zap.String("resource", resource),
				zap.String("action", action),
				zap.Error(err),
			)
			abortWithError(c, apperror.ErrInternal, nil)
			return
		}

		if !allowed {
			abortWithError(c, apperror.ErrForbidden, gin.H{"required": resource + ":" + action})
			return
		}
		c.Next()
	}
}

// RBACFlag records whether the caller holds resource:action under key
// without blocking the request. Handlers use it to widen what they return.
func RBACFlag(service RBACService, resource, action, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := enforceFromContext(c, service, resource, action)
		if err != nil {
			zap.L().Named("middleware.rbac").Warn("rbac flag check failed",
				zap.String("resource", resource),
				zap.String("action", action),
				zap.Error(err),
			)
		}
		c.Set(key, err == nil && allowed)
		c.Next()
	}
}
