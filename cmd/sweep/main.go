// 追溯欠席批处理 CLI 入口
//
// 供 cron 等外部调度器定时调用，与 HTTP 触发共用同一 SweepService：
//
//	sweep --department 3 --term 3 [--from 2025-10-01] [--to 2025-10-31]
//
// 执行失败时以非零码退出，调度器据此告警。
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"campus-gate/backend/config"
	"campus-gate/backend/internal/dto"
	"campus-gate/backend/internal/repository"
	"campus-gate/backend/internal/service"
	"campus-gate/backend/pkg/database"
	applogger "campus-gate/backend/pkg/logger"
)

func main() {
	var (
		configPath   = pflag.String("config", "", "配置文件路径（省略时按默认路径查找）")
		from         = pflag.String("from", "", "扫描开始日 YYYY-MM-DD（省略时取默认回溯窗口）")
		to           = pflag.String("to", "", "扫描结束日 YYYY-MM-DD（省略时取昨天）")
		departmentID = pflag.Int16("department", 0, "学科ID（必填）")
		termID       = pflag.Int16("term", 0, "期ID（必填）")
	)
	pflag.Parse()

	if *departmentID == 0 || *termID == 0 {
		fmt.Fprintln(os.Stderr, "用法: sweep --department <学科ID> --term <期ID> [--from YYYY-MM-DD] [--to YYYY-MM-DD]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	repo := repository.NewRepository(db)
	calendar := service.NewCalendarService(repo, logger)
	sweeper := service.NewSweepService(cfg, repo, calendar, nil, logger)

	result, err := sweeper.Sweep(context.Background(), &dto.SweepRequest{
		From:         *from,
		To:           *to,
		DepartmentID: *departmentID,
		TermID:       *termID,
	})
	if err != nil {
		logger.Error("批处理执行失败", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("批处理完成",
		zap.String("from", result.From),
		zap.String("to", result.To),
		zap.Int64("purged", result.PurgedCount),
		zap.Int("inserted", result.Inserted),
		zap.Int("scanned_days", result.ScannedDays),
		zap.Int("skipped_days", result.SkippedDays),
	)
}
