/*
 * @module service/quality/expression
 * @description 内联表达式规则解释器，契约可携带布尔表达式作为一致性谓词
 * @architecture 分层架构 - 质量校验层，脚本解释模式
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 表达式包装 -> yaegi编译缓存 -> 字段绑定求值 -> 检查结果
 * @rules 表达式编译或求值失败时记录告警并跳过该规则，不产生结果也不中断评估
 * @dependencies github.com/traefik/yaegi/interp, github.com/traefik/yaegi/stdlib
 * @refs consistency_rules.go
 */

package quality

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"submission-quality-service/service/models"

	"github.com/shopspring/decimal"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// exprPredicate 编译后的表达式谓词，字段值以map传入
type exprPredicate func(fields map[string]interface{}) (bool, error)

var (
	exprCacheMu sync.Mutex
	exprCache   = make(map[string]exprPredicate)
)

// compileExpression 将契约内联表达式编译为谓词函数
// 表达式中通过 num("field") / str("field") 引用记录字段值
func compileExpression(expression string) (exprPredicate, error) {
	exprCacheMu.Lock()
	if cached, ok := exprCache[expression]; ok {
		exprCacheMu.Unlock()
		return cached, nil
	}
	exprCacheMu.Unlock()

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("加载标准库失败: %w", err)
	}

	// 包装表达式：要求表达式是一个布尔值，字段通过取值函数引用
	wrapped := fmt.Sprintf(`
package main

import "strings"

var _ = strings.TrimSpace

func Eval(fields map[string]interface{}) bool {
	num := func(name string) float64 {
		if v, ok := fields[name].(float64); ok {
			return v
		}
		return 0
	}
	str := func(name string) string {
		if v, ok := fields[name].(string); ok {
			return v
		}
		return ""
	}
	_ = num
	_ = str
	return %s
}
`, expression)

	if _, err := i.Eval(wrapped); err != nil {
		return nil, fmt.Errorf("表达式编译失败: %w", err)
	}

	v, err := i.Eval("main.Eval")
	if err != nil {
		return nil, fmt.Errorf("表达式入口获取失败: %w", err)
	}

	fn, ok := v.Interface().(func(map[string]interface{}) bool)
	if !ok {
		return nil, fmt.Errorf("表达式入口类型错误: %v", reflect.TypeOf(v.Interface()))
	}

	predicate := func(fields map[string]interface{}) (passed bool, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("表达式求值panic: %v", r)
			}
		}()
		return fn(fields), nil
	}

	exprCacheMu.Lock()
	exprCache[expression] = predicate
	exprCacheMu.Unlock()
	return predicate, nil
}

// evaluateExpressionRule 执行契约内联表达式规则
// 返回 (结果, 是否产生结果)；失败时按跳过处理
func evaluateExpressionRule(sub *models.Submission, check *models.ConsistencyCheck) (models.ValidationResult, bool) {
	predicate, err := compileExpression(check.Expression)
	if err != nil {
		slog.Warn("一致性规则表达式编译失败，已跳过", "rule_id", check.RuleID, "error", err)
		return models.ValidationResult{}, false
	}

	passed, err := predicate(expressionFields(sub))
	if err != nil {
		slog.Warn("一致性规则表达式求值失败，已跳过", "rule_id", check.RuleID, "error", err)
		return models.ValidationResult{}, false
	}

	result := models.ValidationResult{
		RuleID:   check.RuleID,
		RuleName: check.Name,
		Passed:   passed,
		Severity: models.ParseSeverity(check.Severity),
	}
	if !passed {
		result.ErrorMessage = substituteTokens(check.ErrorMessage, sub)
	}
	return result, true
}

// expressionFields 构造表达式求值用的字段快照
// 数值字段统一为float64，其余字段转为展示文本，缺失字段不出现在map中
func expressionFields(sub *models.Submission) map[string]interface{} {
	fields := make(map[string]interface{}, len(fieldAccessors))
	for name, accessor := range fieldAccessors {
		value, present := accessor(sub)
		if !present {
			continue
		}
		switch v := value.(type) {
		case int:
			fields[name] = float64(v)
		case float64:
			fields[name] = v
		case decimal.Decimal:
			fields[name] = v.InexactFloat64()
		default:
			fields[name] = formatFieldValue(value)
		}
	}
	return fields
}
