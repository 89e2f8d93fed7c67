package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"courier_rate_v1_202608/internal/api/dto"
	"courier_rate_v1_202608/internal/service"
)

type PincodeController struct {
	pincodeSvc *service.PincodeService
}

func NewPincodeController(pincodeSvc *service.PincodeService) *PincodeController {
	return &PincodeController{pincodeSvc: pincodeSvc}
}

// GetPincode 查询邮编
// @Summary 查询邮编
// @Description 查询邮编的城市/州/行政区/大都市信息，本地未命中时查外部目录
// @Tags Pincode (邮编)
// @Produce json
// @Param pincode path string true "6位邮编"
// @Success 200 {object} dto.PincodeResp "邮编信息"
// @Failure 404 {object} map[string]string "邮编不存在"
// @Failure 500 {object} map[string]string "查询失败"
// @Router /api/v1/pincodes/{pincode} [get]
func (c *PincodeController) GetPincode(ctx *gin.Context) {
	resp, err := c.pincodeSvc.GetPincode(ctx.Request.Context(), ctx.Param("pincode"))
	if err != nil {
		if errors.Is(err, service.ErrPincodeNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "邮编不存在"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// CheckServiceability 邮编可达性检查
// @Summary 邮编可达性检查
// @Tags Pincode (邮编)
// @Produce json
// @Param pincode path string true "6位邮编"
// @Success 200 {object} dto.ServiceabilityResp "可达性结果"
// @Failure 500 {object} map[string]string "查询失败"
// @Router /api/v1/pincodes/{pincode}/serviceability [get]
func (c *PincodeController) CheckServiceability(ctx *gin.Context) {
	resp, err := c.pincodeSvc.CheckServiceable(ctx.Request.Context(), ctx.Param("pincode"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// ImportPincodes 批量导入邮编
// @Summary 批量导入邮编
// @Description 批量导入邮编参考数据，非6位数字的行跳过
// @Tags Pincode (邮编)
// @Accept json
// @Produce json
// @Param request body dto.PincodeImportReq true "邮编数据"
// @Success 200 {object} dto.PincodeImportResp "导入结果"
// @Failure 400 {object} map[string]string "参数错误"
// @Failure 500 {object} map[string]string "导入失败"
// @Router /api/v1/pincodes/import [post]
func (c *PincodeController) ImportPincodes(ctx *gin.Context) {
	var req dto.PincodeImportReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	if len(req.Rows) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "导入数据不能为空"})
		return
	}

	resp, err := c.pincodeSvc.Import(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
