package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"courier_rate_v1_202608/internal/api/dto"
	"courier_rate_v1_202608/internal/service"
)

type AuthController struct {
	authSvc *service.AuthService
}

func NewAuthController(authSvc *service.AuthService) *AuthController {
	return &AuthController{authSvc: authSvc}
}

// Login 用户登录
// @Summary 用户登录
// @Description 用户名密码登录，返回 Token 对
// @Tags Auth (认证)
// @Accept json
// @Produce json
// @Param request body dto.LoginReq true "登录参数"
// @Success 200 {object} dto.LoginResp "Token 对"
// @Failure 400 {object} map[string]string "参数错误"
// @Failure 401 {object} map[string]string "用户名或密码错误"
// @Router /api/v1/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	resp, err := c.authSvc.Login(ctx.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrUserDisabled) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// AssignPlan 绑定计价方案
// @Summary 绑定计价方案
// @Description 给用户绑定计价方案，plan_id=0 回退默认方案
// @Tags Auth (认证)
// @Produce json
// @Param userId path int true "用户ID"
// @Param planId query int true "方案ID"
// @Success 200 {object} map[string]string "{"message": "绑定成功"}"
// @Failure 400 {object} map[string]string "参数错误"
// @Failure 500 {object} map[string]string "绑定失败"
// @Router /api/v1/users/{userId}/plan [put]
func (c *AuthController) AssignPlan(ctx *gin.Context) {
	userID, err := strconv.ParseInt(ctx.Param("userId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的用户ID"})
		return
	}

	planID, err := strconv.ParseInt(ctx.Query("planId"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的方案ID"})
		return
	}

	if err := c.authSvc.AssignPlan(ctx.Request.Context(), userID, planID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "绑定成功"})
}
