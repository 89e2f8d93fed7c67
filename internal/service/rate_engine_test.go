package service

import (
	"testing"
	"time"

	"courier_rate_v1_202608/internal/api/dto"
	"courier_rate_v1_202608/internal/model"
)

// ==================== 测试辅助 ====================

func testZoneConfig() *model.ZoneConfig {
	return model.DefaultZoneConfig()
}

func pin(city, state, district string, metro bool) *model.PincodeInfo {
	return &model.PincodeInfo{
		Pincode:  "110001",
		City:     city,
		State:    state,
		District: district,
		IsMetro:  metro,
	}
}

// testPricing 五个分区全配置的标准报价
func testPricing() *model.CourierPricing {
	cp := &model.CourierPricing{
		CourierID:        1,
		WeightSlab:       0.5,
		IncrementWeight:  0.5,
		CODChargeHard:    50,
		CODChargePercent: 2,
		IsCODApplicable:  true,
		IsFWApplicable:   true,
		IsRTOApplicable:  true,
	}
	cp.Courier = &model.Courier{
		Name:         "速递通",
		Status:       model.CourierStatusActive,
		PickupCutoff: "14:00:00",
	}
	for _, zone := range model.AllZones {
		cp.ZonePricings = append(cp.ZonePricings, model.ZonePricing{
			Zone:           zone,
			BasePrice:      40,
			IncrementPrice: 30,
			IsRTOSameAsFW:  true,
		})
	}
	return cp
}

func codAmount(v float64) *float64 { return &v }

// ==================== 区域解析 ====================

func TestResolveZone_Precedence(t *testing.T) {
	cfg := testZoneConfig()

	tests := []struct {
		name     string
		pickup   *model.PincodeInfo
		delivery *model.PincodeInfo
		want     model.Zone
	}{
		{
			name:     "同行政区",
			pickup:   pin("New Delhi", "Delhi", "Central Delhi", true),
			delivery: pin("New Delhi", "Delhi", "Central Delhi", true),
			want:     model.ZoneA,
		},
		{
			name:     "同州不同行政区",
			pickup:   pin("Pune", "Maharashtra", "Pune", false),
			delivery: pin("Nagpur", "Maharashtra", "Nagpur", false),
			want:     model.ZoneB,
		},
		{
			// 同州优先于大都市：孟买和浦那都在马邦
			name:     "同州的大都市对",
			pickup:   pin("Mumbai", "Maharashtra", "Mumbai", true),
			delivery: pin("Pune", "Maharashtra", "Pune", true),
			want:     model.ZoneB,
		},
		{
			name:     "跨州大都市对",
			pickup:   pin("Mumbai", "Maharashtra", "Mumbai", true),
			delivery: pin("New Delhi", "Delhi", "Central Delhi", true),
			want:     model.ZoneC,
		},
		{
			name:     "派送在东北部",
			pickup:   pin("Jaipur", "Rajasthan", "Jaipur", false),
			delivery: pin("Guwahati", "Assam", "Kamrup", false),
			want:     model.ZoneE,
		},
		{
			name:     "揽收在东北部",
			pickup:   pin("Imphal", "Manipur", "Imphal West", false),
			delivery: pin("Jaipur", "Rajasthan", "Jaipur", false),
			want:     model.ZoneE,
		},
		{
			// 大都市规则先于东北部规则
			name:     "东北部标记为大都市的互寄",
			pickup:   pin("Guwahati", "Assam", "Kamrup", true),
			delivery: pin("Kolkata", "West Bengal", "Kolkata", true),
			want:     model.ZoneC,
		},
		{
			name:     "其余情况",
			pickup:   pin("Jaipur", "Rajasthan", "Jaipur", false),
			delivery: pin("Kochi", "Kerala", "Ernakulam", false),
			want:     model.ZoneD,
		},
		{
			name:     "行政区大小写不敏感",
			pickup:   pin("Pune", "Maharashtra", "PUNE", false),
			delivery: pin("Pune", "maharashtra", "pune", false),
			want:     model.ZoneA,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveZone(tt.pickup, tt.delivery, cfg)
			if got != tt.want {
				t.Errorf("ResolveZone() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveZone_EmptyDistrictNotZoneA(t *testing.T) {
	cfg := testZoneConfig()

	// 双方行政区都为空串不能误判为同行政区
	pickup := pin("Jaipur", "Rajasthan", "", false)
	delivery := pin("Kochi", "Kerala", "", false)

	if got := ResolveZone(pickup, delivery, cfg); got == model.ZoneA {
		t.Errorf("空行政区不应命中 Z_A, got %s", got)
	}
}

func TestResolveZone_MetroByConfigList(t *testing.T) {
	cfg := testZoneConfig()

	// 邮编表未标记大都市，但城市在配置列表里
	pickup := pin("Chennai", "Tamil Nadu", "Chennai", false)
	delivery := pin("Bengaluru", "Karnataka", "Bengaluru Urban", false)

	if got := ResolveZone(pickup, delivery, cfg); got != model.ZoneC {
		t.Errorf("ResolveZone() = %s, want %s", got, model.ZoneC)
	}
}

// ==================== 重量归一 ====================

func TestNormalizeWeight(t *testing.T) {
	cp := testPricing()

	tests := []struct {
		name           string
		req            dto.RateRequest
		wantFinal      float64
		wantVolumetric float64
	}{
		{
			name:           "实际重量占优",
			req:            dto.RateRequest{Weight: 3, WeightUnit: "kg", BoxLength: 10, BoxWidth: 10, BoxHeight: 10, SizeUnit: "cm"},
			wantFinal:      3,
			wantVolumetric: 0, // 1000/5000=0.2 四舍五入为 0
		},
		{
			name:           "体积重占优",
			req:            dto.RateRequest{Weight: 1, WeightUnit: "kg", BoxLength: 50, BoxWidth: 40, BoxHeight: 20, SizeUnit: "cm"},
			wantFinal:      8,
			wantVolumetric: 8, // 40000/5000
		},
		{
			name:           "克转千克",
			req:            dto.RateRequest{Weight: 2500, WeightUnit: "g", BoxLength: 10, BoxWidth: 10, BoxHeight: 10, SizeUnit: "cm"},
			wantFinal:      2.5,
			wantVolumetric: 0,
		},
		{
			name:           "英寸制除数",
			req:            dto.RateRequest{Weight: 1, WeightUnit: "kg", BoxLength: 5, BoxWidth: 2, BoxHeight: 2, SizeUnit: "in"},
			wantFinal:      4,
			wantVolumetric: 4, // 20/5
		},
		{
			name:           "体积重四舍五入进位",
			req:            dto.RateRequest{Weight: 1, WeightUnit: "kg", BoxLength: 25, BoxWidth: 25, BoxHeight: 20, SizeUnit: "cm"},
			wantFinal:      3,
			wantVolumetric: 3, // 12500/5000=2.5 -> 3
		},
		{
			name:           "不足最低计费重量按最低算",
			req:            dto.RateRequest{Weight: 0.1, WeightUnit: "kg", BoxLength: 5, BoxWidth: 5, BoxHeight: 5, SizeUnit: "cm"},
			wantFinal:      0.5,
			wantVolumetric: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotFinal, gotVolumetric := NormalizeWeight(&tt.req, cp)
			if gotFinal != tt.wantFinal {
				t.Errorf("finalWeight = %v, want %v", gotFinal, tt.wantFinal)
			}
			if gotVolumetric != tt.wantVolumetric {
				t.Errorf("volumetricWeight = %v, want %v", gotVolumetric, tt.wantVolumetric)
			}
		})
	}
}

func TestNormalizeWeight_Monotonic(t *testing.T) {
	cp := testPricing()

	// 重量递增时计费重量不应回落
	prev := 0.0
	for _, w := range []float64{0.1, 0.5, 1, 2, 5, 10, 25} {
		req := dto.RateRequest{Weight: w, WeightUnit: "kg", BoxLength: 10, BoxWidth: 10, BoxHeight: 10, SizeUnit: "cm"}
		final, _ := NormalizeWeight(&req, cp)
		if final < prev {
			t.Fatalf("weight=%v 时计费重量 %v 低于前值 %v", w, final, prev)
		}
		prev = final
	}
}

// ==================== 费用计算 ====================

func TestCalculateCharge_WeightIncrements(t *testing.T) {
	cp := testPricing()
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		weight     float64
		wantBase   float64
		wantWeight float64
	}{
		{"首重内", 0.5, 40, 0},
		{"一段续重", 1.0, 40, 30},
		{"不足步长按一段算", 0.7, 40, 30},
		{"三段续重", 2.0, 40, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &dto.RateRequest{PaymentType: dto.PaymentTypePrepaid}
			quote, ok := CalculateCharge(tt.weight, 0, model.ZoneA, cp, req, now)
			if !ok {
				t.Fatal("CalculateCharge() ok = false")
			}
			if quote.BasePrice != tt.wantBase {
				t.Errorf("basePrice = %v, want %v", quote.BasePrice, tt.wantBase)
			}
			if quote.WeightCharges != tt.wantWeight {
				t.Errorf("weightCharges = %v, want %v", quote.WeightCharges, tt.wantWeight)
			}
			if quote.TotalPrice != tt.wantBase+tt.wantWeight {
				t.Errorf("totalPrice = %v, want %v", quote.TotalPrice, tt.wantBase+tt.wantWeight)
			}
		})
	}
}

func TestCalculateCharge_COD(t *testing.T) {
	cp := testPricing()
	now := time.Now()

	tests := []struct {
		name        string
		paymentType int
		collectable *float64
		wantCOD     float64
	}{
		// max(50, 2% * 100) = max(50, 2) = 50
		{"小额 COD 走固定下限", dto.PaymentTypeCOD, codAmount(100), 50},
		// max(50, 2% * 5000) = max(50, 100) = 100
		{"大额 COD 走比例费", dto.PaymentTypeCOD, codAmount(5000), 100},
		{"预付不收 COD", dto.PaymentTypePrepaid, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &dto.RateRequest{PaymentType: tt.paymentType, CollectableAmount: tt.collectable}
			quote, ok := CalculateCharge(0.5, 0, model.ZoneA, cp, req, now)
			if !ok {
				t.Fatal("CalculateCharge() ok = false")
			}
			if quote.CODCharges != tt.wantCOD {
				t.Errorf("codCharges = %v, want %v", quote.CODCharges, tt.wantCOD)
			}
		})
	}
}

func TestCalculateCharge_CODNotApplicable(t *testing.T) {
	cp := testPricing()
	cp.IsCODApplicable = false

	req := &dto.RateRequest{PaymentType: dto.PaymentTypeCOD, CollectableAmount: codAmount(5000)}
	quote, _ := CalculateCharge(0.5, 0, model.ZoneA, cp, req, time.Now())
	if quote.CODCharges != 0 {
		t.Errorf("不支持 COD 的快递商 codCharges = %v, want 0", quote.CODCharges)
	}
}

func TestCalculateCharge_RTOMirror(t *testing.T) {
	cp := testPricing()
	now := time.Now()

	// COD 单：RTO 镜像正向但剔除 COD 手续费
	req := &dto.RateRequest{PaymentType: dto.PaymentTypeCOD, CollectableAmount: codAmount(100)}
	quote, _ := CalculateCharge(1.0, 0, model.ZoneA, cp, req, now)

	// subtotal = 40 + 30 + 50 = 120, RTO = 120 - 50 = 70
	if quote.RTOCharges != 70 {
		t.Errorf("rtoCharges = %v, want 70", quote.RTOCharges)
	}
	if quote.TotalPrice != 120 {
		t.Errorf("totalPrice = %v, want 120", quote.TotalPrice)
	}
}

func TestCalculateCharge_RTOIndependent(t *testing.T) {
	cp := testPricing()
	for i := range cp.ZonePricings {
		cp.ZonePricings[i].IsRTOSameAsFW = false
		cp.ZonePricings[i].RTOBasePrice = 25
		cp.ZonePricings[i].RTOIncrementPrice = 20
	}

	req := &dto.RateRequest{PaymentType: dto.PaymentTypePrepaid}
	quote, _ := CalculateCharge(1.0, 0, model.ZoneB, cp, req, time.Now())

	// 一段续重：RTO = 25 + 20*1
	if quote.RTOCharges != 45 {
		t.Errorf("rtoCharges = %v, want 45", quote.RTOCharges)
	}
}

func TestCalculateCharge_RTONotApplicable(t *testing.T) {
	cp := testPricing()
	cp.IsRTOApplicable = false

	req := &dto.RateRequest{PaymentType: dto.PaymentTypePrepaid}
	quote, _ := CalculateCharge(1.0, 0, model.ZoneA, cp, req, time.Now())
	if quote.RTOCharges != 0 {
		t.Errorf("rtoCharges = %v, want 0", quote.RTOCharges)
	}
}

func TestCalculateCharge_FWNotApplicable(t *testing.T) {
	cp := testPricing()
	cp.IsFWApplicable = false

	req := &dto.RateRequest{PaymentType: dto.PaymentTypePrepaid}
	quote, _ := CalculateCharge(1.0, 0, model.ZoneA, cp, req, time.Now())

	// 正向不可用时总价归零，RTO 照常给出
	if quote.TotalPrice != 0 {
		t.Errorf("totalPrice = %v, want 0", quote.TotalPrice)
	}
	if quote.RTOCharges == 0 {
		t.Error("rtoCharges 不应为 0")
	}
}

func TestCalculateCharge_MissingZone(t *testing.T) {
	cp := testPricing()
	// 只保留 Z_A
	cp.ZonePricings = cp.ZonePricings[:1]

	req := &dto.RateRequest{PaymentType: dto.PaymentTypePrepaid}
	if _, ok := CalculateCharge(1.0, 0, model.ZoneE, cp, req, time.Now()); ok {
		t.Error("缺失分区报价时应返回 ok=false")
	}
}

// ==================== 预计揽收 ====================

func TestExpectedPickup(t *testing.T) {
	tests := []struct {
		name   string
		cutoff string
		now    time.Time
		want   string
	}{
		{"截单前", "14:00:00", time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC), PickupToday},
		{"截单后", "14:00:00", time.Date(2026, 8, 25, 15, 0, 0, 0, time.UTC), PickupTomorrow},
		{"恰好截单点", "14:00:00", time.Date(2026, 8, 25, 14, 0, 0, 0, time.UTC), PickupToday},
		{"非法配置保守按当日", "not-a-time", time.Date(2026, 8, 25, 23, 0, 0, 0, time.UTC), PickupToday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expectedPickup(tt.cutoff, tt.now); got != tt.want {
				t.Errorf("expectedPickup() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidatePickupCutoff(t *testing.T) {
	if err := ValidatePickupCutoff("14:00:00"); err != nil {
		t.Errorf("合法截单时间校验失败: %v", err)
	}
	if err := ValidatePickupCutoff("25:00"); err == nil {
		t.Error("非法截单时间应校验失败")
	}
}

// ==================== 请求校验 ====================

func TestValidateRateRequest(t *testing.T) {
	valid := dto.RateRequest{
		PickupPincode:   "110001",
		DeliveryPincode: "400001",
		Weight:          1,
		BoxLength:       10, BoxWidth: 10, BoxHeight: 10,
		PaymentType: dto.PaymentTypePrepaid,
	}

	tests := []struct {
		name     string
		mutate   func(r *dto.RateRequest)
		wantErrs int
	}{
		{"合法请求", func(r *dto.RateRequest) {}, 0},
		{"邮编位数不对", func(r *dto.RateRequest) { r.PickupPincode = "1100" }, 1},
		{"邮编带字母", func(r *dto.RateRequest) { r.DeliveryPincode = "11000a" }, 1},
		{"重量为零", func(r *dto.RateRequest) { r.Weight = 0 }, 1},
		{"非法重量单位", func(r *dto.RateRequest) { r.WeightUnit = "lb" }, 1},
		{"尺寸为零", func(r *dto.RateRequest) { r.BoxHeight = 0 }, 1},
		{"非法尺寸单位", func(r *dto.RateRequest) { r.SizeUnit = "ft" }, 1},
		{"非法付款方式", func(r *dto.RateRequest) { r.PaymentType = 9 }, 1},
		{"COD 缺代收金额", func(r *dto.RateRequest) { r.PaymentType = dto.PaymentTypeCOD }, 1},
		{"COD 代收金额为负", func(r *dto.RateRequest) {
			r.PaymentType = dto.PaymentTypeCOD
			r.CollectableAmount = codAmount(-1)
		}, 1},
		{"多处错误累积", func(r *dto.RateRequest) {
			r.PickupPincode = "x"
			r.Weight = -1
			r.BoxLength = 0
		}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			errs := ValidateRateRequest(&req)
			if len(errs) != tt.wantErrs {
				t.Errorf("错误数 = %d (%v), want %d", len(errs), errs, tt.wantErrs)
			}
		})
	}
}

func TestValidateRateRequest_CODZeroCollectable(t *testing.T) {
	// 代收 0 元是合法的（全预付但走 COD 链路）
	req := dto.RateRequest{
		PickupPincode:   "110001",
		DeliveryPincode: "400001",
		Weight:          1,
		BoxLength:       10, BoxWidth: 10, BoxHeight: 10,
		PaymentType:       dto.PaymentTypeCOD,
		CollectableAmount: codAmount(0),
	}
	if errs := ValidateRateRequest(&req); len(errs) != 0 {
		t.Errorf("代收 0 元不应报错: %v", errs)
	}
}
