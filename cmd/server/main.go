package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/config"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/api/handler"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/api/router"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/repository"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/service"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/database"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/jwt"
	applogger "github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/logger"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与提醒去重将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, logger)
	h := handler.NewHandler(svc)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 8. 启动到期提醒后台扫描
	scanCtx, stopScan := context.WithCancel(context.Background())
	go runReminderLoop(scanCtx, svc, cfg.Expiry.ReminderScanInterval, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	stopScan()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// runReminderLoop 按配置间隔执行到期提醒扫描，直到 ctx 取消。
// 启动后先立即执行一轮，保证重启不漏当天的提醒。
func runReminderLoop(ctx context.Context, svc *service.Service, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	scan := func() {
		result, err := svc.Notification.RunReminderScan(ctx)
		if err != nil {
			logger.Error("到期提醒扫描失败", zap.Error(err))
			return
		}
		logger.Info("到期提醒扫描完成",
			zap.Int("documents_checked", result.DocumentsChecked),
			zap.Int("contracts_checked", result.ContractsChecked),
			zap.Int("reminders_sent", result.RemindersSent),
		)
	}

	scan()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scan()
		}
	}
}
