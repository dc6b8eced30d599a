package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/loubnahub/location-voiture-admin-sub002/internal/account"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/booking"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/config"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/db"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/logger"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/middleware"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/mq"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/server"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/tracing"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/damage"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/hold"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/vehicle"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/vehiclestatus"
)

var (
	configPath = flag.String("config", "configs/rental-api.json", "配置文件路径")
	consulKV   = flag.String("consul-kv", "", "从 Consul KV 加载配置的 key（非空时优先于 -config）")
)

func main() {
	flag.Parse()

	// 加载配置
	var (
		cfg *config.Config
		err error
	)
	if *consulKV != "" {
		bootstrap, bErr := config.LoadConfig(*configPath)
		if bErr != nil {
			panic(fmt.Sprintf("failed to load bootstrap config: %v", bErr))
		}
		cfg, err = config.LoadConfigFromConsulKV(bootstrap.Consul.Host, bootstrap.Consul.Port, *consulKV)
	} else {
		cfg, err = config.LoadConfig(*configPath)
	}
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Backend, cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 初始化链路追踪
	_, closer, err := tracing.InitTracer(cfg.Server.Name, cfg.Jaeger.Endpoint, cfg.Jaeger.Sampler)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}

	// 初始化数据库
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
	if err := gormDB.AutoMigrate(
		&vehicle.Vehicle{},
		&booking.Booking{},
		&hold.Hold{},
		&damage.Report{},
		&account.Account{},
	); err != nil {
		log.Fatalf("failed to migrate mysql schema: %v", err)
	}

	// 领域事件出口（RabbitMQ 不可用时降级为不发事件）
	var events mq.Publisher
	if cfg.Rabbit.URL != "" {
		pub, pErr := mq.NewRabbitPublisher(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
		if pErr != nil {
			log.Warnf("rabbitmq unavailable, domain events disabled: %v", pErr)
		} else {
			breaker := middleware.NewCircuitBreaker("rabbit-publish", 5, 30*time.Second)
			events = mq.NewGuardedPublisher(pub, breaker)
			defer events.Close()
		}
	}

	// 状态引擎：vehicles.status 的唯一写入方。MySQL 下开行锁。
	engine := vehiclestatus.NewEngine(gormDB, events, log, vehiclestatus.WithRowLocking())

	// 业务装配
	accountSvc := account.NewService(account.NewRepo(gormDB), cfg.Auth)
	bookingSvc := booking.NewService(booking.NewRepo(gormDB), engine, events, log)
	holdSvc := hold.NewService(hold.NewRepo(gormDB), engine)
	damageSvc := damage.NewService(damage.NewRepo(gormDB), engine)

	// 路由与中间件链
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		server.Recovery(log),
		server.AccessLog(log),
		server.Tracing(cfg.Server.Name),
		server.RateLimit(middleware.NewTokenBucket(200, 100)),
	)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	if cfg.Auth.Enabled {
		api.Use(server.JWTAuth(cfg.Auth, log), server.RBAC(cfg.Auth))
	}
	account.NewHTTPHandler(accountSvc).RegisterRoutes(api)
	vehicle.NewHTTPHandler(gormDB, engine).RegisterRoutes(api)
	booking.NewHTTPHandler(bookingSvc).RegisterRoutes(api)
	hold.NewHTTPHandler(holdSvc).RegisterRoutes(api)
	damage.NewHTTPHandler(damageSvc).RegisterRoutes(api)

	if err := server.RunHTTPServer(cfg, log, router); err != nil {
		log.Fatalf("rental-api exited with error: %v", err)
	}
}
