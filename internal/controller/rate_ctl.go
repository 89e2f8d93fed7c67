package controller

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"courier_rate_v1_202608/internal/api/dto"
	"courier_rate_v1_202608/internal/middleware"
	"courier_rate_v1_202608/internal/service"
	"courier_rate_v1_202608/pkg/cache"
)

// quoteCacheTTL 询价结果缓存时长
// 报价只随方案/邮编参考数据变动，短缓存吸收同参数的重复询价
const quoteCacheTTL = 90 * time.Second

type RateController struct {
	rateSvc    *service.RateService
	quoteCache cache.Cache // 可为 nil（关闭缓存）
}

func NewRateController(rateSvc *service.RateService, quoteCache cache.Cache) *RateController {
	return &RateController{
		rateSvc:    rateSvc,
		quoteCache: quoteCache,
	}
}

// CalculateRates 运费询价
// @Summary 运费询价
// @Description 按当前用户绑定的计价方案，对方案下全部快递商计算运费报价
// @Tags Rate (运费询价)
// @Accept json
// @Produce json
// @Param request body dto.RateRequest true "询价参数"
// @Success 200 {object} dto.CalculateRatesResp "报价列表或业务性失败消息"
// @Failure 400 {object} map[string]string "参数错误"
// @Failure 500 {object} map[string]string "计算失败"
// @Router /api/v1/plans/calculate-rates [post]
func (c *RateController) CalculateRates(ctx *gin.Context) {
	var req dto.RateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	userID := middleware.GetUserID(ctx)

	// 同用户同参数短时间内重复询价直接回放缓存
	cacheKey := c.cacheKey(userID, &req)
	if c.quoteCache != nil {
		if cached, ok := c.quoteCache.Get(ctx.Request.Context(), cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
	}

	resp, err := c.rateSvc.CalculateRates(ctx.Request.Context(), userID, &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if c.quoteCache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			_ = c.quoteCache.Set(ctx.Request.Context(), cacheKey, string(payload), quoteCacheTTL)
		}
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetRateLogs 查询询价流水
// @Summary 查询询价流水
// @Description 查询当前用户最近的询价记录
// @Tags Rate (运费询价)
// @Produce json
// @Param limit query int false "返回条数，默认 50，最大 200"
// @Success 200 {object} dto.RateLogListResp "询价流水"
// @Failure 500 {object} map[string]string "查询失败"
// @Router /api/v1/plans/rate-logs [get]
func (c *RateController) GetRateLogs(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	resp, err := c.rateSvc.ListLogs(ctx.Request.Context(), middleware.GetUserID(ctx), limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// cacheKey 生成询价缓存键：用户 + 请求参数摘要
func (c *RateController) cacheKey(userID int64, req *dto.RateRequest) string {
	payload, _ := json.Marshal(req)
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("rates:%d:%s", userID, hex.EncodeToString(sum[:]))
}
