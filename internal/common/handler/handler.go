// Package handler 提供 Handler 的通用辅助函数
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/evcs-console/internal/common/errors"
	"github.com/dumeirei/evcs-console/internal/common/response"
)

// HandleError 处理错误并发送适当的响应
// err 为 nil 时返回 false；否则写入错误响应并返回 true，调用方应当 return
//
// 后端调用失败按失败类别映射 HTTP 状态，其他错误按应用错误处理。
//
//	info, err := client.GetUserInfo(ctx)
//	if HandleError(c, err) {
//	    return
//	}
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	appErr, status := errors.FromAPI(err)
	response.Fail(c, status, appErr)
	_ = c.Error(err)
	return true
}

// MustSucceed 有错误则返回错误响应，否则返回成功响应
func MustSucceed(c *gin.Context, err error, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.Success(c, data)
}

// BindJSON 绑定请求体，失败时写入 400 并返回 false
func BindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		response.BadRequest(c, errors.ErrInvalidParams.Message)
		return false
	}
	return true
}
