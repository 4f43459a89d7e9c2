package console

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dumeirei/evcs-console/internal/buildinfo"
	"github.com/dumeirei/evcs-console/internal/common/response"
	"github.com/dumeirei/evcs-console/internal/router"
)

const indexFile = "index.html"

// Version 构建元数据
// @Summary 构建版本信息
// @Tags 控制台
// @Produce json
// @Success 200 {object} buildinfo.Info
// @Router /version.json [get]
func (h *Handler) Version(c *gin.Context) {
	info, err := buildinfo.Read(h.versionFile)
	if err != nil {
		h.logger.Debug("读取版本信息失败", zap.String("file", h.versionFile), zap.Error(err))
		response.NotFound(c, "版本信息不存在")
		return
	}
	c.JSON(http.StatusOK, info)
}

// Static 直接返回构建产物中存在的静态文件，否则交给页面守卫
func (h *Handler) Static(c *gin.Context) {
	if !isRead(c.Request.Method) || h.distDir == "" {
		c.Next()
		return
	}
	name := path.Clean("/" + c.Request.URL.Path)
	if name == "/" || name == "/"+indexFile {
		c.Next()
		return
	}
	file := filepath.Join(h.distDir, filepath.FromSlash(name))
	if st, err := os.Stat(file); err == nil && !st.IsDir() {
		c.File(file)
		c.Abort()
		return
	}
	c.Next()
}

// Page 页面导航，须位于 RouteGuard 之后
// 重定向路由直接 302，其他已声明页面返回 SPA 入口
func (h *Handler) Page(c *gin.Context) {
	if !isRead(c.Request.Method) {
		response.NotFound(c, "请求地址不存在")
		return
	}
	match, ok := router.Resolve(c.Request.URL.Path)
	if !ok {
		response.NotFound(c, "页面不存在")
		return
	}
	if match.Route.Redirect != "" {
		c.Redirect(http.StatusFound, match.Route.Redirect)
		return
	}

	index := filepath.Join(h.distDir, indexFile)
	if _, err := os.Stat(index); err != nil {
		response.NotFound(c, "控制台资源未构建")
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.File(index)
}
