package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== 操作冷却中间件 ====================

// OpCooldown 操作冷却中间件
// 按用户 + 操作类型维度限流，未登录请求退化为全局限流
//
// 使用示例:
//
//	router.POST("/api/v1/pincodes/import",
//	    middleware.OpCooldown(middleware.OpTypePincodeImport, 0),
//	    controller.ImportPincodes,
//	)
//
// 参数:
//   - opType: 操作类型
//   - interval: 冷却间隔，0 表示使用默认值
func OpCooldown(opType OpType, interval time.Duration) gin.HandlerFunc {
	if interval == 0 {
		interval = GetInterval(opType)
	}

	return func(c *gin.Context) {
		var key string
		if userID := GetUserID(c); userID > 0 {
			key = UserOpKey(userID, opType)
		} else {
			key = GlobalOpKey(opType)
		}

		// 检查限流
		result := GetLimiter().Check(key, interval)
		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": formatRetryMessage(result.RetryAfter),
				"data": gin.H{
					"retry_after": retryAfter,
					"op_type":     opType,
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ==================== 辅助函数 ====================

// formatRetryMessage 格式化重试提示信息
func formatRetryMessage(d time.Duration) string {
	seconds := int(d.Seconds())

	if seconds < 60 {
		return fmt.Sprintf("操作冷却中，请 %d 秒后重试", seconds)
	}

	minutes := seconds / 60
	remainingSeconds := seconds % 60

	if remainingSeconds == 0 {
		return fmt.Sprintf("操作冷却中，请 %d 分钟后重试", minutes)
	}

	return fmt.Sprintf("操作冷却中，请 %d 分 %d 秒后重试", minutes, remainingSeconds)
}
