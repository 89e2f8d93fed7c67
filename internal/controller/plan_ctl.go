package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"courier_rate_v1_202608/internal/api/dto"
	"courier_rate_v1_202608/internal/middleware"
	"courier_rate_v1_202608/internal/service"
)

type PlanController struct {
	planSvc *service.PlanService
}

func NewPlanController(planSvc *service.PlanService) *PlanController {
	return &PlanController{planSvc: planSvc}
}

// GetPlanList 获取计价方案列表
// @Summary 获取计价方案列表
// @Tags Plan (计价方案)
// @Produce json
// @Success 200 {object} dto.PlanListResp "方案列表"
// @Failure 500 {object} map[string]string "查询失败"
// @Router /api/v1/plans [get]
func (c *PlanController) GetPlanList(ctx *gin.Context) {
	resp, err := c.planSvc.GetPlanList(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetPlanDetail 获取计价方案详情
// @Summary 获取计价方案详情
// @Description 获取方案详细信息，包含快递商报价和分区报价
// @Tags Plan (计价方案)
// @Produce json
// @Param id path int true "方案ID"
// @Success 200 {object} dto.PlanDetailResp "方案详情"
// @Failure 400 {object} map[string]string "ID格式错误"
// @Failure 500 {object} map[string]string "查询失败"
// @Router /api/v1/plans/{id} [get]
func (c *PlanController) GetPlanDetail(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的方案ID"})
		return
	}

	resp, err := c.planSvc.GetPlanDetail(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// CreatePlan 创建计价方案
// @Summary 创建计价方案
// @Description 创建方案并落库全部快递商报价，分区标识兼容旧版命名制
// @Tags Plan (计价方案)
// @Accept json
// @Produce json
// @Param request body dto.PlanCreateReq true "方案参数"
// @Success 201 {object} dto.PlanResp "创建结果"
// @Failure 400 {object} map[string]string "参数错误"
// @Failure 500 {object} map[string]string "创建失败"
// @Router /api/v1/plans [post]
func (c *PlanController) CreatePlan(ctx *gin.Context) {
	var req dto.PlanCreateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	resp, err := c.planSvc.CreatePlan(ctx.Request.Context(), req, middleware.GetUserID(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// UpdatePlan 更新计价方案
// @Summary 更新计价方案
// @Description 更新方案基础信息；携带报价列表时整体替换原有报价
// @Tags Plan (计价方案)
// @Accept json
// @Produce json
// @Param id path int true "方案ID"
// @Param request body dto.PlanUpdateReq true "更新参数"
// @Success 200 {object} map[string]string "{"message": "更新成功"}"
// @Failure 400 {object} map[string]string "参数错误"
// @Failure 500 {object} map[string]string "更新失败"
// @Router /api/v1/plans/{id} [put]
func (c *PlanController) UpdatePlan(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的方案ID"})
		return
	}

	var req dto.PlanUpdateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	if err := c.planSvc.UpdatePlan(ctx.Request.Context(), id, req, middleware.GetUserID(ctx)); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "更新成功"})
}

// DeletePlan 删除计价方案
// @Summary 删除计价方案
// @Description 删除方案及其全部快递商报价和分区报价
// @Tags Plan (计价方案)
// @Produce json
// @Param id path int true "方案ID"
// @Success 200 {object} map[string]string "{"message": "删除成功"}"
// @Failure 400 {object} map[string]string "ID格式错误"
// @Failure 500 {object} map[string]string "删除失败"
// @Router /api/v1/plans/{id} [delete]
func (c *PlanController) DeletePlan(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的方案ID"})
		return
	}

	if err := c.planSvc.DeletePlan(ctx.Request.Context(), id); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}
