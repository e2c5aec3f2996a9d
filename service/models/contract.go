/*
 * @module service/models/contract
 * @description 质量规则契约模型，声明必填字段规则、一致性检查、评分阈值和富化数据源目录
 * @architecture 数据模型层 - 声明式配置
 * @documentReference ai_docs/submission_quality_req.md, contracts/submission_quality_rules.yml
 * @stateFlow 契约加载 -> 结构校验 -> 校验器只读引用
 * @rules 契约加载后视为不可变；required_fields 分类顺序必须与YAML文档顺序一致
 * @dependencies gopkg.in/yaml.v3
 * @refs service/contract/, service/quality/
 */

package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// QualityRulesContract 投保申请质量规则契约
type QualityRulesContract struct {
	ContractVersion   string              `yaml:"contract_version" json:"contract_version"`
	Description       string              `yaml:"description" json:"description,omitempty"`
	RequiredFields    RequiredFieldGroups `yaml:"required_fields" json:"required_fields"`
	ConsistencyChecks []ConsistencyCheck  `yaml:"consistency_checks" json:"consistency_checks"`
	QualityThresholds []QualityThreshold  `yaml:"quality_thresholds" json:"quality_thresholds,omitempty"`
	EnrichmentSources []EnrichmentSource  `yaml:"enrichment_sources" json:"enrichment_sources,omitempty"`
}

// FieldCategory 必填字段分类（如 basic_info、coverage_info）
type FieldCategory struct {
	Name   string      `json:"name"`
	Fields []FieldRule `json:"fields"`
}

// RequiredFieldGroups 有序的必填字段分类列表
// map无法保证遍历顺序，这里自定义解码以保持YAML文档中的分类顺序，
// 保证同一契约对同一记录的校验结果完全可重现
type RequiredFieldGroups []FieldCategory

// UnmarshalYAML 按文档顺序解码 required_fields 映射
func (g *RequiredFieldGroups) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("required_fields 必须是映射结构，实际为 %v", value.Kind)
	}

	groups := make(RequiredFieldGroups, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var fields []FieldRule
		if err := value.Content[i+1].Decode(&fields); err != nil {
			return fmt.Errorf("解码分类 %s 的字段规则失败: %w", value.Content[i].Value, err)
		}
		groups = append(groups, FieldCategory{
			Name:   value.Content[i].Value,
			Fields: fields,
		})
	}

	*g = groups
	return nil
}

// FieldRule 单个必填字段规则定义
type FieldRule struct {
	Field       string    `yaml:"field" json:"field"`
	AcordPath   string    `yaml:"acord_path" json:"acord_path,omitempty"` // 解析器使用，校验器忽略
	Nullable    *bool     `yaml:"nullable" json:"nullable,omitempty"`
	Pattern     string    `yaml:"pattern" json:"pattern,omitempty"`
	MinLength   *int      `yaml:"min_length" json:"min_length,omitempty"`
	MaxLength   *int      `yaml:"max_length" json:"max_length,omitempty"`
	Range       []float64 `yaml:"range" json:"range,omitempty"` // 两元素闭区间 [min, max]
	Description string    `yaml:"description" json:"description,omitempty"`
}

// IsNullable 字段是否允许为空，未声明时默认允许
func (r *FieldRule) IsNullable() bool {
	if r.Nullable == nil {
		return true
	}
	return *r.Nullable
}

// HasConstraints 是否声明了值约束（pattern/length/range）
func (r *FieldRule) HasConstraints() bool {
	return r.Pattern != "" || r.MinLength != nil || r.MaxLength != nil || len(r.Range) > 0
}

// ConsistencyCheck 跨字段一致性检查定义
type ConsistencyCheck struct {
	RuleID       string `yaml:"rule_id" json:"rule_id"`
	Name         string `yaml:"name" json:"name"`
	Description  string `yaml:"description" json:"description,omitempty"`
	Severity     string `yaml:"severity" json:"severity"`
	Logic        string `yaml:"logic" json:"logic,omitempty"`
	ErrorMessage string `yaml:"error_message" json:"error_message,omitempty"`
	// Expression 可选的内联布尔表达式，规则注册表未实现该rule_id时
	// 由表达式解释器执行，表达式中字段名引用记录值
	Expression string `yaml:"expression" json:"expression,omitempty"`
}

// QualityThreshold 质量评分阈值声明
type QualityThreshold struct {
	Metric      string  `yaml:"metric" json:"metric"`
	Description string  `yaml:"description" json:"description,omitempty"`
	Target      float64 `yaml:"target" json:"target"`
	Minimum     float64 `yaml:"minimum" json:"minimum"`
	Calculation string  `yaml:"calculation" json:"calculation,omitempty"`
}

// EnrichmentSource 富化数据源目录项
type EnrichmentSource struct {
	Source              string   `yaml:"source" json:"source"`
	APIEndpoint         string   `yaml:"api_endpoint" json:"api_endpoint"`
	FieldsProvided      []string `yaml:"fields_provided" json:"fields_provided"`
	Cost                float64  `yaml:"cost" json:"cost"`
	ConfidenceThreshold float64  `yaml:"confidence_threshold" json:"confidence_threshold"`
}
