package dto

// ==================== 请求 DTO ====================

// PincodeImportRow 邮编导入行
type PincodeImportRow struct {
	Pincode  string `json:"pincode" binding:"required"`
	City     string `json:"city"`
	State    string `json:"state"`
	District string `json:"district"`
	IsMetro  bool   `json:"is_metro"`
}

// PincodeImportReq 邮编批量导入请求
type PincodeImportReq struct {
	Rows []PincodeImportRow `json:"rows" binding:"required"`
}

// ==================== 响应 DTO ====================

// PincodeResp 邮编信息
type PincodeResp struct {
	Pincode  string `json:"pincode"`
	City     string `json:"city"`
	State    string `json:"state"`
	District string `json:"district"`
	IsMetro  bool   `json:"is_metro"`
}

// PincodeImportResp 导入结果
type PincodeImportResp struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ServiceabilityResp 邮编可达性
type ServiceabilityResp struct {
	Pincode     string `json:"pincode"`
	Serviceable bool   `json:"serviceable"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
}
