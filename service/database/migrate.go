/*
 * @module service/database/migrate
 * @description 数据库迁移模块，负责创建和更新投保申请与质量结果表结构
 * @architecture 数据访问层 - 迁移管理
 * @documentReference ai_docs/submission_quality_req.md
 * @stateFlow 应用启动时执行数据库迁移
 * @rules 确保数据库结构与模型定义保持一致
 * @dependencies submission-quality-service/service/models, gorm.io/gorm
 * @refs service/init.go, service/models/quality_records.go
 */

package database

import (
	"log"

	"submission-quality-service/service/models"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB) error {
	log.Println("开始数据库迁移...")

	// 投保申请主表
	err := db.AutoMigrate(
		&models.Submission{},
	)
	if err != nil {
		return err
	}

	// 质量校验结果相关表
	err = db.AutoMigrate(
		&models.QualityReportRecord{},
		&models.QualityCheckRecord{},
		&models.ProcessingResultRecord{},
	)
	if err != nil {
		return err
	}

	log.Println("数据库迁移完成")
	return nil
}
