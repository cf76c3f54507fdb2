package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteInfo 描述一个已注册的路由
type RouteInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// RegisterRoutes 注册认证与 thought 相关的全部 REST 路由。
// requireAuth 挂在需要令牌的路由上。
func RegisterRoutes(router *gin.Engine, requireAuth gin.HandlerFunc, authHandler *AuthHandler, thoughtHandler *ThoughtHandler) {
	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)

	thoughts := router.Group("/thoughts")
	{
		thoughts.GET("", thoughtHandler.List)
		thoughts.GET("/search/:word", thoughtHandler.Search)
		thoughts.GET("/hearts/:min", thoughtHandler.MinHearts)
		thoughts.GET("/page/:page", thoughtHandler.Page)
		thoughts.GET("/:id", thoughtHandler.Get)

		thoughts.POST("", requireAuth, thoughtHandler.Create)
		thoughts.POST("/:id/like", requireAuth, thoughtHandler.Like)
		thoughts.PATCH("/:id", requireAuth, thoughtHandler.Update)
		thoughts.DELETE("/:id", requireAuth, thoughtHandler.Delete)
	}

	router.GET("/", func(c *gin.Context) {
		routes := router.Routes()
		infos := make([]RouteInfo, 0, len(routes))
		for _, r := range routes {
			infos = append(infos, RouteInfo{Method: r.Method, Path: r.Path})
		}
		SuccessResponse(c, http.StatusOK, infos)
	})
}
