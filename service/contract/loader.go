/*
 * @module service/contract/loader
 * @description 质量规则契约加载器，负责YAML契约的加载、结构校验和一次性缓存
 * @architecture 分层架构 - 配置加载层
 * @documentReference ai_docs/submission_quality_req.md, contracts/submission_quality_rules.yml
 * @stateFlow 契约读取 -> YAML解码 -> 必要段校验 -> 缓存供校验器只读引用
 * @rules 缺少required_fields或consistency_checks的契约在加载期立即失败，不进入校验流程
 * @dependencies gopkg.in/yaml.v3, sync
 * @refs service/models/contract.go, service/quality/
 */

package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"submission-quality-service/service/models"

	"gopkg.in/yaml.v3"
)

// QualityRulesContractName 默认质量规则契约文件名
const QualityRulesContractName = "submission_quality_rules.yml"

// LoadError 契约加载错误，对应校验器构造期的致命失败
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("契约加载失败 [%s]: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("契约加载失败 [%s]: %s", e.Path, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader 契约加载器，同一契约只读取一次，之后命中缓存
type Loader struct {
	contractsDir string

	mu    sync.RWMutex
	cache map[string]*models.QualityRulesContract
}

// NewLoader 创建契约加载器实例
func NewLoader(contractsDir string) (*Loader, error) {
	if contractsDir == "" {
		contractsDir = getEnvWithDefault("CONTRACTS_DIR", "contracts")
	}

	info, err := os.Stat(contractsDir)
	if err != nil {
		return nil, &LoadError{Path: contractsDir, Reason: "契约目录不存在", Err: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Path: contractsDir, Reason: "契约路径不是目录"}
	}

	return &Loader{
		contractsDir: contractsDir,
		cache:        make(map[string]*models.QualityRulesContract),
	}, nil
}

// QualityRules 加载默认的投保申请质量规则契约
func (l *Loader) QualityRules() (*models.QualityRulesContract, error) {
	return l.Load(QualityRulesContractName)
}

// Load 按文件名加载契约，扩展名可省略；结果缓存至进程生命周期结束
func (l *Loader) Load(name string) (*models.QualityRulesContract, error) {
	if !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
		name += ".yml"
	}

	l.mu.RLock()
	if cached, ok := l.cache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	// 并发首次加载时可能已被其他调用填充
	if cached, ok := l.cache[name]; ok {
		return cached, nil
	}

	path := filepath.Join(l.contractsDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "契约文件读取失败", Err: err}
	}

	var contract models.QualityRulesContract
	if err := yaml.Unmarshal(data, &contract); err != nil {
		return nil, &LoadError{Path: path, Reason: "契约YAML解析失败", Err: err}
	}

	if err := validateContract(path, &contract); err != nil {
		return nil, err
	}

	l.cache[name] = &contract
	return &contract, nil
}

// validateContract 校验契约必要段，缺失即失败
func validateContract(path string, c *models.QualityRulesContract) error {
	if c.ContractVersion == "" {
		return &LoadError{Path: path, Reason: "契约缺少 contract_version 声明"}
	}
	if len(c.RequiredFields) == 0 {
		return &LoadError{Path: path, Reason: "契约缺少 required_fields 段"}
	}
	if c.ConsistencyChecks == nil {
		return &LoadError{Path: path, Reason: "契约缺少 consistency_checks 段"}
	}

	for _, category := range c.RequiredFields {
		for _, rule := range category.Fields {
			if rule.Field == "" {
				return &LoadError{Path: path, Reason: fmt.Sprintf("分类 %s 中存在未命名字段规则", category.Name)}
			}
			if len(rule.Range) != 0 && len(rule.Range) != 2 {
				return &LoadError{Path: path, Reason: fmt.Sprintf("字段 %s 的 range 必须是两元素区间", rule.Field)}
			}
		}
	}

	for _, check := range c.ConsistencyChecks {
		if check.RuleID == "" {
			return &LoadError{Path: path, Reason: "consistency_checks 中存在未声明 rule_id 的规则"}
		}
	}

	return nil
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
