package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/evcs-console/internal/router"
)

// RouteGuard 页面导航守卫，须位于 Session 之后
// 未登录访问登录页以外的页面时 302 到登录页，目标页面不会渲染
func RouteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := router.Guard(c.Request.URL.Path, GetToken(c))
		if !d.Allow {
			c.Redirect(http.StatusFound, d.Redirect)
			c.Abort()
			return
		}
		c.Next()
	}
}
