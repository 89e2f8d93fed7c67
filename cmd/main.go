package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"courier_rate_v1_202608/internal/controller"
	"courier_rate_v1_202608/internal/middleware"
	"courier_rate_v1_202608/internal/model"
	"courier_rate_v1_202608/internal/repository"
	"courier_rate_v1_202608/internal/router"
	"courier_rate_v1_202608/internal/service"
	"courier_rate_v1_202608/internal/task"
	"courier_rate_v1_202608/pkg/cache"
	"courier_rate_v1_202608/pkg/database"
)

func main() {
	// 1. 初始化数据库
	db := initDatabase()

	// 2. 初始化依赖
	deps := initDependencies(db)

	// 3. 播种基础数据
	seedData(deps)

	// 4. 启动定时任务
	tm := initTasks(deps)
	defer func() {
		tm.Stop()
		if partitionTask != nil {
			partitionTask.Stop()
		}
	}()

	// 5. 初始化路由
	deps.Controllers.Task = controller.NewTaskController(tm)
	r := gin.Default()
	router.InitRoutes(r, deps.Controllers)

	// 6. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Courier    repository.CourierRepository
	Plan       repository.PlanRepository
	Pincode    repository.PincodeRepository
	ZoneConfig repository.ZoneConfigRepository
	User       repository.UserRepository
	RateLog    repository.RateLogRepository
}

// Services 服务集合
type Services struct {
	Auth    *service.AuthService
	Pincode *service.PincodeService
	Rate    *service.RateService
	Plan    *service.PlanService
	Courier *service.CourierService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
// RATE_LOG_PARTITIONED=1 时 rate_logs 走按月分区建表，其余表照常 AutoMigrate
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN",
		"host=localhost user=postgres password=postgres dbname=courier_rate port=5432 sslmode=disable")

	models := []interface{}{
		// Manager
		&model.SysUser{},
		// Courier
		&model.Courier{},
		// Plan
		&model.Plan{}, &model.CourierPricing{}, &model.ZonePricing{},
		// Reference
		&model.Pincode{}, &model.ZoneConfig{},
	}

	var db *gorm.DB
	if os.Getenv("RATE_LOG_PARTITIONED") == "1" {
		db = database.InitDB(dsn)
		if err := database.QuickInit(db, models); err != nil {
			log.Fatalf("初始化分区表失败: %v", err)
		}
	} else {
		db = database.InitDB(dsn, append(models, &model.RateLog{})...)
	}

	// Create/Update 自动填充 CreatedBy/UpdatedBy
	middleware.RegisterAuditCallbacks(db)

	return db
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		Courier:    repository.NewCourierRepository(db),
		Plan:       repository.NewPlanRepository(db),
		Pincode:    repository.NewPincodeRepository(db),
		ZoneConfig: repository.NewZoneConfigRepository(db),
		User:       repository.NewUserRepository(db),
		RateLog:    repository.NewRateLogRepository(db),
	}

	// -------- 外部邮编目录（可选） --------
	var directory *service.PincodeDirectoryClient
	if baseURL := getEnv("PINCODE_DIRECTORY_URL", ""); baseURL != "" {
		directory = service.NewPincodeDirectoryClient(&service.PincodeDirectoryConfig{
			BaseURL: baseURL,
			APIKey:  getEnv("PINCODE_DIRECTORY_API_KEY", ""),
		})
	}

	// -------- 业务服务 --------
	pincodeSvc := service.NewPincodeService(repos.Pincode, repos.ZoneConfig, directory)

	services := &Services{
		Auth:    service.NewAuthService(repos.User),
		Pincode: pincodeSvc,
		Rate:    service.NewRateService(repos.Plan, repos.User, repos.RateLog, pincodeSvc, pincodeSvc),
		Plan:    service.NewPlanService(repos.Plan, repos.Courier),
		Courier: service.NewCourierService(repos.Courier),
	}

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Auth:    controller.NewAuthController(services.Auth),
		Rate:    controller.NewRateController(services.Rate, initQuoteCache()),
		Plan:    controller.NewPlanController(services.Plan),
		Courier: controller.NewCourierController(services.Courier),
		Pincode: controller.NewPincodeController(services.Pincode),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// initQuoteCache 初始化询价缓存
// 配置了 Redis 用 Redis（多实例共享），否则退化为进程内缓存
func initQuoteCache() cache.Cache {
	addr := getEnv("REDIS_ADDR", "")
	if addr == "" {
		return cache.NewMemoryCache()
	}

	redisCache, err := cache.NewRedisCache(
		addr,
		getEnv("REDIS_PASSWORD", ""),
		0,
		"courier_rate",
	)
	if err != nil {
		log.Printf("警告: Redis 初始化失败，退化为内存缓存: %v", err)
		return cache.NewMemoryCache()
	}
	return redisCache
}

// seedData 播种基础数据
func seedData(deps *Dependencies) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 区域划分配置
	if err := deps.Repos.ZoneConfig.EnsureDefault(ctx); err != nil {
		log.Printf("警告: 初始化区域配置失败: %v", err)
	}

	// 空库播种管理员
	if err := deps.Services.Auth.EnsureAdmin(ctx,
		getEnv("ADMIN_USERNAME", "admin"),
		getEnv("ADMIN_PASSWORD", "admin123"),
	); err != nil {
		log.Printf("警告: 播种管理员账号失败: %v", err)
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) *task.TaskManager {
	tm := task.NewTaskManager(&task.TaskManagerDeps{
		PincodeRefresher: deps.Services.Pincode,
		RateLogRepo:      deps.Repos.RateLog,
	}, nil)
	tm.Start()

	// 分区模式下由维护任务滚动创建/清理月分区
	if init := database.Global(); init != nil {
		pt := database.NewPartitionTask(init.GetManager())
		pt.Start()
		partitionTask = pt
	}

	return tm
}

// partitionTask 分区维护任务（仅分区模式）
var partitionTask *database.PartitionTask

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
