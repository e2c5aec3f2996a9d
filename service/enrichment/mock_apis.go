/*
 * @module service/enrichment/mock_apis
 * @description 外部富化数据源的演示实现，模拟OpenCorporates企业查询与NAICS行业代码查询
 * @architecture 分层架构 - 外部服务适配层
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 富化代理请求 -> 内存样例数据查找 -> 富化记录或未命中
 * @rules 演示实现必须确定性返回，同一输入永远得到同一结果，便于流水线结果可重现
 * @dependencies context, strings
 * @refs enrichment_agent.go
 */

package enrichment

import (
	"context"
	"strings"
)

// CompanyRecord 企业登记信息查询结果
type CompanyRecord struct {
	CompanyName       string  `json:"company_name"`
	Jurisdiction      string  `json:"jurisdiction"`
	Status            string  `json:"status"`
	IncorporationDate string  `json:"incorporation_date"`
	YearsInBusiness   int     `json:"years_in_business"`
	Address           string  `json:"address"`
	Confidence        float64 `json:"confidence"`
}

// NAICSRecord NAICS行业代码查询结果
type NAICSRecord struct {
	Code               string  `json:"code"`
	Title              string  `json:"title"`
	Sector             string  `json:"sector"`
	RiskClassification string  `json:"risk_classification"`
	Confidence         float64 `json:"confidence"`
}

// CompanyDirectory 企业登记信息数据源
type CompanyDirectory interface {
	SearchCompany(ctx context.Context, businessName, state string) (*CompanyRecord, error)
}

// NAICSDirectory NAICS行业分类数据源
type NAICSDirectory interface {
	ValidateNAICS(ctx context.Context, naicsCode string) (*NAICSRecord, error)
	InferNAICSFromName(ctx context.Context, businessName string) (*NAICSRecord, error)
}

// MockOpenCorporatesAPI OpenCorporates企业查询的演示实现
type MockOpenCorporatesAPI struct{}

// 演示用企业登记样例数据
var sampleCompanies = map[string]CompanyRecord{
	"acme software solutions llc": {
		CompanyName:       "Acme Software Solutions LLC",
		Jurisdiction:      "TX",
		Status:            "Active",
		IncorporationDate: "2015-01-01",
		YearsInBusiness:   9,
		Address:           "123 Main St, Austin, TX, 78701",
		Confidence:        0.9,
	},
	"downtown restaurant group": {
		CompanyName:       "Downtown Restaurant Group",
		Jurisdiction:      "NY",
		Status:            "Active",
		IncorporationDate: "2018-06-15",
		YearsInBusiness:   6,
		Address:           "88 Broadway, New York, NY, 10004",
		Confidence:        0.9,
	},
	"riverside construction co": {
		CompanyName:       "Riverside Construction Co",
		Jurisdiction:      "CA",
		Status:            "Active",
		IncorporationDate: "2010-03-20",
		YearsInBusiness:   14,
		Address:           "450 River Rd, Sacramento, CA, 95814",
		Confidence:        0.9,
	},
}

// SearchCompany 按企业名称查找登记信息，未收录的企业返回nil
func (m *MockOpenCorporatesAPI) SearchCompany(ctx context.Context, businessName, state string) (*CompanyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if businessName == "" {
		return nil, nil
	}

	record, ok := sampleCompanies[strings.ToLower(strings.TrimSpace(businessName))]
	if !ok {
		return nil, nil
	}
	if state != "" {
		record.Jurisdiction = state
	}
	return &record, nil
}

// MockNAICSLookupAPI NAICS行业代码查询的演示实现
type MockNAICSLookupAPI struct{}

// 演示用NAICS行业代码样例数据
var sampleNAICS = map[string]NAICSRecord{
	"541511": {
		Code:               "541511",
		Title:              "Custom Computer Programming Services",
		Sector:             "Professional, Scientific, and Technical Services",
		RiskClassification: "low",
		Confidence:         0.95,
	},
	"722511": {
		Code:               "722511",
		Title:              "Full-Service Restaurants",
		Sector:             "Accommodation and Food Services",
		RiskClassification: "medium",
		Confidence:         0.95,
	},
	"238210": {
		Code:               "238210",
		Title:              "Electrical Contractors and Other Wiring Installation Contractors",
		Sector:             "Construction",
		RiskClassification: "high",
		Confidence:         0.95,
	},
}

// ValidateNAICS 校验NAICS代码是否收录，未收录返回nil
func (m *MockNAICSLookupAPI) ValidateNAICS(ctx context.Context, naicsCode string) (*NAICSRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record, ok := sampleNAICS[naicsCode]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// InferNAICSFromName 从企业名称关键词推断NAICS代码，推断结果置信度低于直接校验
func (m *MockNAICSLookupAPI) InferNAICSFromName(ctx context.Context, businessName string) (*NAICSRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := strings.ToLower(businessName)
	var code string
	switch {
	case strings.Contains(name, "tech"), strings.Contains(name, "software"), strings.Contains(name, "computer"):
		code = "541511"
	case strings.Contains(name, "restaurant"), strings.Contains(name, "cafe"), strings.Contains(name, "diner"):
		code = "722511"
	case strings.Contains(name, "electric"), strings.Contains(name, "contractor"), strings.Contains(name, "construction"):
		code = "238210"
	default:
		return nil, nil
	}

	record := sampleNAICS[code]
	record.Confidence = 0.75
	return &record, nil
}
