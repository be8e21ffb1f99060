// @title GoDrive 驾考练习 API
// @version 1.0
// @description 驾照理论考试练习平台的后端服务：题库、票据、进度、统计和收藏。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"flag"
	"godrive_backend/internal/app"
	"godrive_backend/internal/config"
	"godrive_backend/pkg/logger"
	"log"

	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	importFile := flag.String("import-questions", "", "导入题库 JSON 文件后退出")
	imagesDir := flag.String("images-dir", "", "导入时上传图片的本地目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志，导入题库前也需要表结构
	cfg.ForceMigrate = *migrate || *migrateOnly || *importFile != ""
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		application.Close()
		log.Println("数据库迁移完成，退出程序")
		return
	}

	if *importFile != "" {
		report, err := application.ImportQuestions(context.Background(), *importFile, *imagesDir)
		application.Close()
		if err != nil {
			logger.Log.Fatal("Question import failed", zap.Error(err))
		}
		logger.Log.Info("Question import finished",
			zap.Int("total", report.Total),
			zap.Int("imported", report.Imported),
			zap.Int("failed", report.Failed),
			zap.Int("uploaded", report.Uploaded),
		)
		for _, msg := range report.Errors {
			logger.Log.Warn("Rejected question", zap.String("reason", msg))
		}
		return
	}

	application.Run()
}
