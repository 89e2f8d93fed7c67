package dto

import "time"

// ==================== 请求 DTO ====================

// CourierCreateReq 创建快递商请求
type CourierCreateReq struct {
	Name              string `json:"name" binding:"required"`
	Code              string `json:"code" binding:"required"`
	PickupCutoff      string `json:"pickup_cutoff"` // HH:MM:SS，默认 14:00:00
	IsReversedCourier bool   `json:"is_reversed_courier"`
	TrackingURL       string `json:"tracking_url"`
}

// CourierUpdateReq 更新快递商请求
type CourierUpdateReq struct {
	Name              string `json:"name"`
	Status            *int   `json:"status"`
	PickupCutoff      string `json:"pickup_cutoff"`
	IsReversedCourier *bool  `json:"is_reversed_courier"`
	TrackingURL       string `json:"tracking_url"`
}

// ==================== 响应 DTO ====================

// CourierResp 快递商
type CourierResp struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Code              string    `json:"code"`
	Status            int       `json:"status"`
	StatusText        string    `json:"status_text"`
	PickupCutoff      string    `json:"pickup_cutoff"`
	IsReversedCourier bool      `json:"is_reversed_courier"`
	TrackingURL       string    `json:"tracking_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CourierListResp 快递商列表
type CourierListResp struct {
	Total int64         `json:"total"`
	List  []CourierResp `json:"list"`
}
