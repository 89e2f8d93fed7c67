package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"courier_rate_v1_202608/internal/api/dto"
	"courier_rate_v1_202608/internal/middleware"
	"courier_rate_v1_202608/internal/service"
)

type CourierController struct {
	courierSvc *service.CourierService
}

func NewCourierController(courierSvc *service.CourierService) *CourierController {
	return &CourierController{courierSvc: courierSvc}
}

// GetCourierList 获取快递商列表
// @Summary 获取快递商列表
// @Tags Courier (快递商)
// @Produce json
// @Param status query int false "按状态过滤：0 停用 1 正常"
// @Success 200 {object} dto.CourierListResp "快递商列表"
// @Failure 500 {object} map[string]string "查询失败"
// @Router /api/v1/couriers [get]
func (c *CourierController) GetCourierList(ctx *gin.Context) {
	var status *int
	if statusStr := ctx.Query("status"); statusStr != "" {
		v, err := strconv.Atoi(statusStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的状态参数"})
			return
		}
		status = &v
	}

	resp, err := c.courierSvc.GetCourierList(ctx.Request.Context(), status)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetCourierDetail 获取快递商详情
// @Summary 获取快递商详情
// @Tags Courier (快递商)
// @Produce json
// @Param id path int true "快递商ID"
// @Success 200 {object} dto.CourierResp "快递商详情"
// @Failure 400 {object} map[string]string "ID格式错误"
// @Failure 500 {object} map[string]string "查询失败"
// @Router /api/v1/couriers/{id} [get]
func (c *CourierController) GetCourierDetail(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的快递商ID"})
		return
	}

	resp, err := c.courierSvc.GetCourierDetail(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// CreateCourier 创建快递商
// @Summary 创建快递商
// @Tags Courier (快递商)
// @Accept json
// @Produce json
// @Param request body dto.CourierCreateReq true "快递商参数"
// @Success 201 {object} dto.CourierResp "创建结果"
// @Failure 400 {object} map[string]string "参数错误"
// @Failure 500 {object} map[string]string "创建失败"
// @Router /api/v1/couriers [post]
func (c *CourierController) CreateCourier(ctx *gin.Context) {
	var req dto.CourierCreateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	resp, err := c.courierSvc.CreateCourier(ctx.Request.Context(), req, middleware.GetUserID(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// UpdateCourier 更新快递商
// @Summary 更新快递商
// @Tags Courier (快递商)
// @Accept json
// @Produce json
// @Param id path int true "快递商ID"
// @Param request body dto.CourierUpdateReq true "更新参数"
// @Success 200 {object} map[string]string "{"message": "更新成功"}"
// @Failure 400 {object} map[string]string "参数错误"
// @Failure 500 {object} map[string]string "更新失败"
// @Router /api/v1/couriers/{id} [put]
func (c *CourierController) UpdateCourier(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的快递商ID"})
		return
	}

	var req dto.CourierUpdateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	if err := c.courierSvc.UpdateCourier(ctx.Request.Context(), id, req, middleware.GetUserID(ctx)); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "更新成功"})
}

// DeleteCourier 删除快递商
// @Summary 删除快递商
// @Tags Courier (快递商)
// @Produce json
// @Param id path int true "快递商ID"
// @Success 200 {object} map[string]string "{"message": "删除成功"}"
// @Failure 400 {object} map[string]string "ID格式错误"
// @Failure 500 {object} map[string]string "删除失败"
// @Router /api/v1/couriers/{id} [delete]
func (c *CourierController) DeleteCourier(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的快递商ID"})
		return
	}

	if err := c.courierSvc.DeleteCourier(ctx.Request.Context(), id); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}
