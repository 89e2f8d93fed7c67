package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"courier_rate_v1_202608/internal/task"
)

// TaskController 后台任务控制器
type TaskController struct {
	taskManager *task.TaskManager
}

// NewTaskController 创建后台任务控制器
func NewTaskController(taskManager *task.TaskManager) *TaskController {
	return &TaskController{taskManager: taskManager}
}

// ==================== Handler 实现 ====================

// TriggerPincodeRefresh 手动触发邮编刷新
// @Summary 手动触发一轮邮编参考数据刷新
// @Description 立即从外部邮编目录刷新一批陈旧邮编，不等定时任务
// @Tags Task (后台任务)
// @Produce json
// @Success 200 {object} map[string]interface{} "刷新条数"
// @Failure 429 {object} map[string]interface{} "冷却中"
// @Failure 500 {object} map[string]string "刷新失败"
// @Router /api/v1/tasks/pincode-refresh [post]
func (c *TaskController) TriggerPincodeRefresh(ctx *gin.Context) {
	refreshed, err := c.taskManager.TriggerPincodeRefresh(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, task.ErrTaskDisabled) {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "邮编刷新任务未启用"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":   "邮编刷新已执行",
		"refreshed": refreshed,
	})
}

// GetTaskStatus 查询后台任务状态
// @Summary 查询后台任务启用状态
// @Tags Task (后台任务)
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /api/v1/tasks/status [get]
func (c *TaskController) GetTaskStatus(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.taskManager.Status())
}
