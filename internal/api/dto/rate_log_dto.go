package dto

import (
	"time"

	"courier_rate_v1_202608/internal/model"
)

// RateLogResp 询价流水
type RateLogResp struct {
	RequestID       string     `json:"request_id"`
	PickupPincode   string     `json:"pickup_pincode"`
	DeliveryPincode string     `json:"delivery_pincode"`
	Zone            model.Zone `json:"zone,omitempty"`
	Outcome         string     `json:"outcome"`
	QuoteCount      int        `json:"quote_count"`
	CreatedAt       time.Time  `json:"created_at"`
}

// RateLogListResp 询价流水列表
type RateLogListResp struct {
	Total int64         `json:"total"`
	List  []RateLogResp `json:"list"`
}
