package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/config"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/db"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/logger"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/vehiclestatus"
)

var (
	configPath = flag.String("config", "configs/rental-api.json", "配置文件路径")
	window     = flag.Duration("window", 30*time.Minute, "回溯窗口：重算窗口内被触达的车辆")
	interval   = flag.Duration("interval", time.Minute, "扫描间隔")
	once       = flag.Bool("once", false, "只跑一轮后退出")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.NewLogger(cfg.Log.Backend, cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	gormDB, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}

	// 兜底扫描只补状态，不发领域事件，避免与在线触发路径重复投递。
	engine := vehiclestatus.NewEngine(gormDB, nil, log, vehiclestatus.WithRowLocking())
	rec := vehiclestatus.NewReconciler(gormDB, engine, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		log.Infof("received signal %v, stopping...", sig)
		cancel()
	}()

	if *once {
		n, err := rec.Run(ctx, *window)
		if err != nil {
			log.Fatalf("reconcile sweep failed: %v", err)
		}
		log.Infof("reconcile sweep done, %d vehicle(s) synchronized", n)
		return
	}

	log.Infof("status-reconciler starting: interval=%s window=%s", *interval, *window)
	rec.RunLoop(ctx, *interval, *window)
	log.Info("status-reconciler stopped")
}
