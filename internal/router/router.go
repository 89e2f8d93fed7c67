package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"courier_rate_v1_202608/internal/controller"
	"courier_rate_v1_202608/internal/middleware"
	"courier_rate_v1_202608/internal/model"
)

// Controllers 路由依赖的全部控制器
type Controllers struct {
	Auth    *controller.AuthController
	Rate    *controller.RateController
	Plan    *controller.PlanController
	Courier *controller.CourierController
	Pincode *controller.PincodeController
	Task    *controller.TaskController // 可为 nil（不暴露任务管理接口）
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, c *Controllers) {
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. 健康检查
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// 3. API 路由组
	api := r.Group("/api/v1")
	{
		// auth 认证组（免登录）
		auth := api.Group("/auth")
		{
			// POST /api/v1/auth/login
			auth.POST("/login", c.Auth.Login)
		}

		// 以下路由需要登录
		authed := api.Group("")
		authed.Use(middleware.JWTAuth(), middleware.AuditContext())

		// plan 计价方案与询价
		plans := authed.Group("/plans")
		{
			// POST /api/v1/plans/calculate-rates
			plans.POST("/calculate-rates", c.Rate.CalculateRates)
			plans.GET("/rate-logs", c.Rate.GetRateLogs)

			plans.GET("", c.Plan.GetPlanList)
			plans.GET("/:id", c.Plan.GetPlanDetail)

			// 方案写操作仅管理员，整体替换报价带冷却
			adminPlans := plans.Group("")
			adminPlans.Use(middleware.RequireRole(model.RoleAdmin))
			{
				adminPlans.POST("", c.Plan.CreatePlan)
				adminPlans.PUT("/:id",
					middleware.OpCooldown(middleware.OpTypePlanReplace, 0),
					c.Plan.UpdatePlan,
				)
				adminPlans.DELETE("/:id", c.Plan.DeletePlan)
			}
		}

		// courier 快递商管理
		couriers := authed.Group("/couriers")
		{
			couriers.GET("", c.Courier.GetCourierList)
			couriers.GET("/:id", c.Courier.GetCourierDetail)

			adminCouriers := couriers.Group("")
			adminCouriers.Use(middleware.RequireRole(model.RoleAdmin))
			{
				adminCouriers.POST("", c.Courier.CreateCourier)
				adminCouriers.PUT("/:id", c.Courier.UpdateCourier)
				adminCouriers.DELETE("/:id", c.Courier.DeleteCourier)
			}
		}

		// pincode 邮编参考数据
		pincodes := authed.Group("/pincodes")
		{
			// 导入放前面，避免被 :pincode 通配
			pincodes.POST("/import",
				middleware.RequireRole(model.RoleAdmin),
				middleware.OpCooldown(middleware.OpTypePincodeImport, 0),
				c.Pincode.ImportPincodes,
			)
			pincodes.GET("/:pincode", c.Pincode.GetPincode)
			pincodes.GET("/:pincode/serviceability", c.Pincode.CheckServiceability)
		}

		// user 用户管理（仅管理员）
		users := authed.Group("/users")
		users.Use(middleware.RequireRole(model.RoleAdmin))
		{
			users.PUT("/:userId/plan", c.Auth.AssignPlan)
		}

		// task 后台任务（仅管理员）
		if c.Task != nil {
			tasks := authed.Group("/tasks")
			tasks.Use(middleware.RequireRole(model.RoleAdmin))
			{
				tasks.POST("/pincode-refresh",
					middleware.OpCooldown(middleware.OpTypePincodeSync, 0),
					c.Task.TriggerPincodeRefresh,
				)
				tasks.GET("/status", c.Task.GetTaskStatus)
			}
		}
	}
}
