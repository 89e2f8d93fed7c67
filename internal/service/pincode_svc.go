package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"

	"courier_rate_v1_202608/internal/api/dto"
	"courier_rate_v1_202608/internal/model"
	"courier_rate_v1_202608/internal/repository"
)

// ErrPincodeNotFound 邮编不可达（本地与外部目录均未命中）
var ErrPincodeNotFound = errors.New("pincode not found")

// ==================== 接口定义 ====================

// PincodeClassifier 邮编分类器
// 询价引擎的外部协作方：按邮编返回 {城市, 州, 行政区, 是否大都市}
type PincodeClassifier interface {
	// Classify 邮编分类，未命中返回 ErrPincodeNotFound
	Classify(ctx context.Context, pincode string) (*model.PincodeInfo, error)
}

// ZoneConfigProvider 区域划分配置提供方
type ZoneConfigProvider interface {
	GetZoneConfig(ctx context.Context) (*model.ZoneConfig, error)
}

// ==================== 外部邮编目录客户端 ====================

// PincodeDirectoryConfig 外部邮编目录配置
type PincodeDirectoryConfig struct {
	BaseURL string // 为空表示禁用外部目录补录
	APIKey  string
	Timeout time.Duration
}

// PincodeDirectoryClient 外部邮编目录客户端
// 本地参考表未命中时的兜底查询渠道
type PincodeDirectoryClient struct {
	client *resty.Client
}

// NewPincodeDirectoryClient 创建外部目录客户端
func NewPincodeDirectoryClient(cfg *PincodeDirectoryConfig) *PincodeDirectoryClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(2)
	if cfg.APIKey != "" {
		client.SetHeader("x-api-key", cfg.APIKey)
	}

	return &PincodeDirectoryClient{client: client}
}

// directoryResp 外部目录响应
type directoryResp struct {
	Pincode  string `json:"pincode"`
	City     string `json:"city"`
	State    string `json:"state"`
	District string `json:"district"`
	IsMetro  bool   `json:"is_metro"`
}

// Lookup 查询外部目录，404 视为未命中
func (c *PincodeDirectoryClient) Lookup(ctx context.Context, pincode string) (*model.PincodeInfo, error) {
	var result directoryResp
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get(fmt.Sprintf("/pincodes/%s", pincode))
	if err != nil {
		return nil, fmt.Errorf("请求邮编目录失败: %v", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrPincodeNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("邮编目录返回异常 (状态码: %d)", resp.StatusCode())
	}

	return &model.PincodeInfo{
		Pincode:  result.Pincode,
		City:     result.City,
		State:    result.State,
		District: result.District,
		IsMetro:  result.IsMetro,
	}, nil
}

// ==================== PincodeService ====================

// zoneConfigCacheTTL 区域配置内存缓存时长，参考数据极少变动
const zoneConfigCacheTTL = 10 * time.Minute

// PincodeService 邮编参考数据服务
// 实现 PincodeClassifier 与 ZoneConfigProvider
type PincodeService struct {
	pincodeRepo repository.PincodeRepository
	zoneCfgRepo repository.ZoneConfigRepository
	directory   *PincodeDirectoryClient // 可为 nil（禁用外部兜底）

	mu          sync.Mutex
	cachedCfg   *model.ZoneConfig
	cfgCachedAt time.Time
}

// NewPincodeService 创建邮编服务
func NewPincodeService(
	pincodeRepo repository.PincodeRepository,
	zoneCfgRepo repository.ZoneConfigRepository,
	directory *PincodeDirectoryClient,
) *PincodeService {
	return &PincodeService{
		pincodeRepo: pincodeRepo,
		zoneCfgRepo: zoneCfgRepo,
		directory:   directory,
	}
}

var _ PincodeClassifier = (*PincodeService)(nil)
var _ ZoneConfigProvider = (*PincodeService)(nil)

// Classify 邮编分类
// 优先查本地参考表，未命中且配置了外部目录时兜底查询并回写本地
func (s *PincodeService) Classify(ctx context.Context, pincode string) (*model.PincodeInfo, error) {
	row, err := s.pincodeRepo.GetByPincode(ctx, pincode)
	if err == nil {
		return row.Info(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if s.directory == nil {
		return nil, ErrPincodeNotFound
	}

	info, err := s.directory.Lookup(ctx, pincode)
	if err != nil {
		return nil, err
	}

	// 回写本地，下次直接命中；回写失败不影响本次分类
	now := time.Now()
	if upsertErr := s.pincodeRepo.Upsert(ctx, &model.Pincode{
		Pincode:     info.Pincode,
		City:        info.City,
		State:       info.State,
		District:    info.District,
		IsMetro:     info.IsMetro,
		RefreshedAt: &now,
	}); upsertErr != nil {
		log.Printf("[Pincode] 回写邮编 %s 失败: %v", pincode, upsertErr)
	}

	return info, nil
}

// GetZoneConfig 获取区域划分配置（带内存缓存）
func (s *PincodeService) GetZoneConfig(ctx context.Context) (*model.ZoneConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cachedCfg != nil && time.Since(s.cfgCachedAt) < zoneConfigCacheTTL {
		return s.cachedCfg, nil
	}

	cfg, err := s.zoneCfgRepo.GetByName(ctx, model.ZoneConfigDefault)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 配置缺失时退回内置默认值，不阻断询价
			return model.DefaultZoneConfig(), nil
		}
		return nil, err
	}

	s.cachedCfg = cfg
	s.cfgCachedAt = time.Now()
	return cfg, nil
}

// GetPincode 查询邮编详情
func (s *PincodeService) GetPincode(ctx context.Context, pincode string) (*dto.PincodeResp, error) {
	info, err := s.Classify(ctx, pincode)
	if err != nil {
		return nil, err
	}
	return &dto.PincodeResp{
		Pincode:  info.Pincode,
		City:     info.City,
		State:    info.State,
		District: info.District,
		IsMetro:  info.IsMetro,
	}, nil
}

// CheckServiceable 邮编可达性检查
func (s *PincodeService) CheckServiceable(ctx context.Context, pincode string) (*dto.ServiceabilityResp, error) {
	info, err := s.Classify(ctx, pincode)
	if err != nil {
		if errors.Is(err, ErrPincodeNotFound) {
			return &dto.ServiceabilityResp{Pincode: pincode, Serviceable: false}, nil
		}
		return nil, err
	}
	return &dto.ServiceabilityResp{
		Pincode:     info.Pincode,
		Serviceable: true,
		City:        info.City,
		State:       info.State,
	}, nil
}

// Import 批量导入邮编参考数据
// 非 6 位数字的行跳过不报错，方便对接质量参差的源数据
func (s *PincodeService) Import(ctx context.Context, req *dto.PincodeImportReq) (*dto.PincodeImportResp, error) {
	rows := make([]model.Pincode, 0, len(req.Rows))
	skipped := 0
	for _, item := range req.Rows {
		if !pincodePattern.MatchString(item.Pincode) {
			skipped++
			continue
		}
		rows = append(rows, model.Pincode{
			Pincode:  item.Pincode,
			City:     item.City,
			State:    item.State,
			District: item.District,
			IsMetro:  item.IsMetro,
		})
	}

	if err := s.pincodeRepo.BatchUpsert(ctx, rows); err != nil {
		return nil, fmt.Errorf("批量导入邮编失败: %v", err)
	}

	return &dto.PincodeImportResp{
		Imported: len(rows),
		Skipped:  skipped,
	}, nil
}

// RefreshStale 刷新外部目录中的陈旧邮编（定时任务调用）
// 返回成功刷新的条数
func (s *PincodeService) RefreshStale(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	if s.directory == nil {
		return 0, nil
	}

	stale, err := s.pincodeRepo.ListStale(ctx, time.Now().Add(-olderThan), limit)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, row := range stale {
		select {
		case <-ctx.Done():
			return refreshed, ctx.Err()
		default:
		}

		info, err := s.directory.Lookup(ctx, row.Pincode)
		if err != nil {
			if errors.Is(err, ErrPincodeNotFound) {
				continue
			}
			log.Printf("[Pincode] 刷新邮编 %s 失败: %v", row.Pincode, err)
			continue
		}

		now := time.Now()
		if err := s.pincodeRepo.Upsert(ctx, &model.Pincode{
			Pincode:     row.Pincode,
			City:        info.City,
			State:       info.State,
			District:    info.District,
			IsMetro:     info.IsMetro,
			RefreshedAt: &now,
		}); err != nil {
			log.Printf("[Pincode] 回写邮编 %s 失败: %v", row.Pincode, err)
			continue
		}
		refreshed++
	}

	return refreshed, nil
}
