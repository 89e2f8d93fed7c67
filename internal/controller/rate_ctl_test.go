package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"courier_rate_v1_202608/internal/middleware"
	"courier_rate_v1_202608/internal/model"
	"courier_rate_v1_202608/internal/repository"
	"courier_rate_v1_202608/internal/service"
	"courier_rate_v1_202608/pkg/cache"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== 请求构造辅助 ====================

func setupRouter() *gin.Engine {
	return gin.New()
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// fakeAuth 模拟 JWT 中间件写入的用户上下文
func fakeAuth(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID)
		c.Next()
	}
}

// ==================== 参数验证测试 ====================

func TestCalculateRates_InvalidBody(t *testing.T) {
	router := setupRouter()

	// 模拟控制器（无真实 service）
	router.POST("/api/v1/plans/calculate-rates", func(c *gin.Context) {
		var req map[string]interface{}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"quotes": []interface{}{}})
	})

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{
			name:       "空请求体",
			body:       nil,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "合法 JSON",
			body:       map[string]interface{}{"pickup_pincode": "110001"},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "POST", "/api/v1/plans/calculate-rates", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestGetRateLogs_LimitQuery(t *testing.T) {
	router := setupRouter()

	router.GET("/api/v1/plans/rate-logs", func(c *gin.Context) {
		limit := c.DefaultQuery("limit", "50")
		c.JSON(http.StatusOK, gin.H{"limit": limit, "logs": []interface{}{}})
	})

	w := performRequest(router, "GET", "/api/v1/plans/rate-logs?limit=10", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "10", resp["limit"])
}

// ==================== 缓存回放测试 ====================

func TestCalculateRates_CacheReplay(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(
		&model.SysUser{}, &model.Courier{},
		&model.Plan{}, &model.CourierPricing{}, &model.ZonePricing{},
		&model.Pincode{}, &model.RateLog{},
	))

	pincodeSvc := service.NewPincodeService(
		repository.NewPincodeRepository(db),
		repository.NewZoneConfigRepository(db),
		nil,
	)
	rateSvc := service.NewRateService(
		repository.NewPlanRepository(db),
		repository.NewUserRepository(db),
		repository.NewRateLogRepository(db),
		pincodeSvc, pincodeSvc,
	)
	ctl := NewRateController(rateSvc, cache.NewMemoryCache())

	router := setupRouter()
	router.POST("/api/v1/plans/calculate-rates", fakeAuth(1), ctl.CalculateRates)

	body := map[string]interface{}{
		"pickup_pincode":   "400001",
		"delivery_pincode": "110001",
		"weight":           1.0,
		"box_length":       10, "box_width": 10, "box_height": 10,
		"payment_type": 0,
	}

	// 无可用方案也是一次成功的业务应答，照常进缓存
	w1 := performRequest(router, "POST", "/api/v1/plans/calculate-rates", body)
	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Contains(t, w1.Body.String(), "No active plan")

	// request_id 每次询价都会新生成，两次应答逐字节一致只能来自缓存回放
	w2 := performRequest(router, "POST", "/api/v1/plans/calculate-rates", body)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, w1.Body.String(), w2.Body.String())

	// 参数变化后缓存不串键
	body["weight"] = 2.0
	w3 := performRequest(router, "POST", "/api/v1/plans/calculate-rates", body)
	assert.Equal(t, http.StatusOK, w3.Code)
	assert.NotEqual(t, w1.Body.String(), w3.Body.String())
}
