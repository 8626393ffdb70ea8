package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// GetVesselScope 提取 captain 账号绑定的 vessel_id，未绑定时返回空串。
// admin/office 账号不受船舶范围限制。
func GetVesselScope(c *gin.Context) string {
	v, exists := c.Get("vessel_id")
	if !exists {
		return ""
	}
	s, _ := v.(string)
	return s
}

// CheckVesselScope 校验船舶级只读接口的访问范围。
// captain 只能访问本船数据，越界时写入 403 并返回 false。
// 调用方应在 ok=false 时直接 return。
func CheckVesselScope(c *gin.Context, vesselID string) bool {
	if scope := GetVesselScope(c); scope != "" && scope != vesselID {
		response.Forbidden(c, 10003, "无权访问其他船舶数据")
		return false
	}
	return true
}
