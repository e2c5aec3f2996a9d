/*
 * @module service/parser/acord_parser
 * @description ACORD 103 XML投保申请解析器，按路径提取字段并构造投保申请记录
 * @architecture 分层架构 - 数据接入层
 * @documentReference ai_docs/submission_quality_req.md, data/sample_acord/
 * @stateFlow XML解码 -> 元素树导航 -> 字段提取与类型转换 -> 投保申请记录
 * @rules 路径导航忽略XML命名空间；必填路径缺失立即返回解析错误；
 *        批量解析时单个文件的失败不中断其余文件
 * @dependencies encoding/xml, golang.org/x/text/encoding/ianaindex, github.com/google/uuid, github.com/shopspring/decimal
 * @refs service/models/submission.go, service/processor/batch_processor.go
 */

package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"submission-quality-service/service/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"golang.org/x/text/encoding/ianaindex"
)

// ACORD 103 字段提取路径，根元素之下按局部名逐级导航
const (
	pathSubmissionNumber = "CommercialSubmission/SubmissionNumber"
	pathSubmissionDate   = "CommercialSubmission/SubmissionDate"
	pathBusinessName     = "CommercialSubmission/Applicant/BusinessInfo/BusinessName"
	pathNAICSCode        = "CommercialSubmission/Applicant/BusinessInfo/NAICSCode"
	pathYearsInBusiness  = "CommercialSubmission/Applicant/BusinessInfo/YearsInBusiness"
	pathAnnualRevenue    = "CommercialSubmission/Applicant/FinancialInfo/AnnualRevenue"
	pathEmployeeCount    = "CommercialSubmission/Applicant/EmployeeInfo/TotalEmployees"
	pathAddressStreet    = "CommercialSubmission/Applicant/Address/Street"
	pathAddressCity      = "CommercialSubmission/Applicant/Address/City"
	pathAddressState     = "CommercialSubmission/Applicant/Address/State"
	pathAddressPostal    = "CommercialSubmission/Applicant/Address/PostalCode"
	pathCoverageType     = "CommercialSubmission/CoverageRequest/CoverageType"
	pathCoverageLimits   = "CommercialSubmission/CoverageRequest/Limits"
)

// 提交日期支持的非ISO格式
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
}

// ParseError ACORD解析错误
type ParseError struct {
	Source string // 文件路径或来源标识
	Path   string // 出错的XML字段路径，结构级错误时为空
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("ACORD解析失败 [%s] 字段 %s: %s", e.Source, e.Path, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("ACORD解析失败 [%s]: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("ACORD解析失败 [%s]: %s", e.Source, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// xmlNode 通用XML元素树节点，导航时只看局部名，忽略命名空间
type xmlNode struct {
	XMLName  xml.Name
	Content  string    `xml:",chardata"`
	Children []xmlNode `xml:",any"`
}

// ACORDParser ACORD 103 XML解析器，无状态，可并发使用
type ACORDParser struct{}

// NewACORDParser 创建解析器实例
func NewACORDParser() *ACORDParser {
	return &ACORDParser{}
}

// ParseFile 解析单个ACORD XML文件
func (p *ACORDParser) ParseFile(path string) (*models.Submission, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Source: path, Reason: "文件打开失败", Err: err}
	}
	defer f.Close()

	return p.Parse(f, path)
}

// Parse 从数据流解析ACORD XML，source仅用于错误定位
func (p *ACORDParser) Parse(r io.Reader, source string) (*models.Submission, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charsetReader

	var root xmlNode
	if err := decoder.Decode(&root); err != nil {
		return nil, &ParseError{Source: source, Reason: "XML解码失败", Err: err}
	}

	sub := &models.Submission{
		SubmissionID: uuid.New().String(),
	}

	// 提交编号可选
	if number, ok := extractField(&root, pathSubmissionNumber); ok {
		sub.AcordSubmissionNumber = models.StringPtr(number)
	}

	name, err := requiredField(&root, pathBusinessName, source)
	if err != nil {
		return nil, err
	}
	sub.BusinessName = models.StringPtr(name)

	naics, err := requiredField(&root, pathNAICSCode, source)
	if err != nil {
		return nil, err
	}
	sub.NAICSCode = models.StringPtr(naics)

	revenueText, err := requiredField(&root, pathAnnualRevenue, source)
	if err != nil {
		return nil, err
	}
	revenue, err := decimal.NewFromString(revenueText)
	if err != nil {
		return nil, &ParseError{Source: source, Path: pathAnnualRevenue,
			Reason: fmt.Sprintf("年营收 %q 不是合法数值", revenueText), Err: err}
	}
	sub.AnnualRevenue = &revenue

	employeeText, err := requiredField(&root, pathEmployeeCount, source)
	if err != nil {
		return nil, err
	}
	employees, err := cast.ToIntE(employeeText)
	if err != nil {
		return nil, &ParseError{Source: source, Path: pathEmployeeCount,
			Reason: fmt.Sprintf("员工数 %q 不是合法整数", employeeText), Err: err}
	}
	sub.EmployeeCount = models.IntPtr(employees)

	yearsText, err := requiredField(&root, pathYearsInBusiness, source)
	if err != nil {
		return nil, err
	}
	years, err := cast.ToIntE(yearsText)
	if err != nil {
		return nil, &ParseError{Source: source, Path: pathYearsInBusiness,
			Reason: fmt.Sprintf("经营年限 %q 不是合法整数", yearsText), Err: err}
	}
	sub.YearsInBusiness = models.IntPtr(years)

	address, err := assembleAddress(&root, source)
	if err != nil {
		return nil, err
	}
	sub.BusinessAddress = models.StringPtr(address)

	coverage, err := requiredField(&root, pathCoverageType, source)
	if err != nil {
		return nil, err
	}
	sub.RequestedCoverageTypes = models.StringPtr(coverage)

	limits, err := requiredField(&root, pathCoverageLimits, source)
	if err != nil {
		return nil, err
	}
	sub.RequestedLimits = models.StringPtr(limits)

	dateText, err := requiredField(&root, pathSubmissionDate, source)
	if err != nil {
		return nil, err
	}
	date, err := parseDateTime(dateText)
	if err != nil {
		return nil, &ParseError{Source: source, Path: pathSubmissionDate,
			Reason: fmt.Sprintf("提交日期 %q 无法识别", dateText), Err: err}
	}
	sub.SubmissionDate = models.TimePtr(date)

	return sub, nil
}

// ParseDirectory 解析目录下全部XML文件，按文件名排序保证处理顺序稳定
// 单个文件的解析失败记录告警后继续，返回成功记录与逐文件错误
func (p *ACORDParser) ParseDirectory(dir string) ([]*models.Submission, []error) {
	pattern := filepath.Join(dir, "*.xml")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, []error{&ParseError{Source: dir, Reason: "目录扫描失败", Err: err}}
	}
	sort.Strings(files)

	submissions := make([]*models.Submission, 0, len(files))
	var errs []error
	for _, file := range files {
		sub, err := p.ParseFile(file)
		if err != nil {
			slog.Warn("XML文件解析失败，跳过", "file", file, "error", err)
			errs = append(errs, err)
			continue
		}
		submissions = append(submissions, sub)
	}

	return submissions, errs
}

// assembleAddress 拼装地址字段，任一子段存在即可，全部缺失视为必填失败
func assembleAddress(root *xmlNode, source string) (string, error) {
	parts := make([]string, 0, 4)
	for _, path := range []string{pathAddressStreet, pathAddressCity, pathAddressState, pathAddressPostal} {
		if value, ok := extractField(root, path); ok {
			parts = append(parts, value)
		}
	}
	if len(parts) == 0 {
		return "", &ParseError{Source: source, Path: "CommercialSubmission/Applicant/Address",
			Reason: "企业地址为必填项但全部子段缺失"}
	}
	return strings.Join(parts, ", "), nil
}

// requiredField 提取必填字段，缺失或为空白返回解析错误
func requiredField(root *xmlNode, path, source string) (string, error) {
	value, ok := extractField(root, path)
	if !ok {
		return "", &ParseError{Source: source, Path: path, Reason: "必填字段缺失或为空"}
	}
	return value, nil
}

// extractField 沿路径逐级查找第一个局部名匹配的子元素，返回去空白的文本
func extractField(root *xmlNode, path string) (string, bool) {
	current := root
	for _, part := range strings.Split(path, "/") {
		var found *xmlNode
		for i := range current.Children {
			if current.Children[i].XMLName.Local == part {
				found = &current.Children[i]
				break
			}
		}
		if found == nil {
			return "", false
		}
		current = found
	}

	text := strings.TrimSpace(current.Content)
	if text == "" {
		return "", false
	}
	return text, true
}

// parseDateTime 解析提交日期，依次尝试ISO与常见日期格式
func parseDateTime(text string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("不支持的日期格式: %s", text)
}

// charsetReader 支持非UTF-8编码声明的XML文档
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("不支持的字符编码: %s", charset)
	}
	return enc.NewDecoder().Reader(input), nil
}
