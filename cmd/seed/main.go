// マスタ数据播种 CLI 入口
//
// 迁移后执行一次即可；重复执行幂等：
//
//	seed [--config config.yaml] [--with-demo]
//
// --with-demo 额外插入演示学生（开发 / 验收环境用）。
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"campus-gate/backend/config"
	"campus-gate/backend/pkg/database"
	applogger "campus-gate/backend/pkg/logger"
)

func main() {
	var (
		configPath = pflag.String("config", "", "配置文件路径（省略时按默认路径查找）")
		withDemo   = pflag.Bool("with-demo", false, "额外插入演示学生")
	)
	pflag.Parse()

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

	// 先保证表结构就绪
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	if err := database.Seed(db, *withDemo, logger); err != nil {
		logger.Fatal("マスタ数据播种失败", zap.Error(err))
	}
}
