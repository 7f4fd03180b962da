package main

import (
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/joho/godotenv"

	"github.com/qualityhub/attachment-service/biz/dal/model"
	"github.com/qualityhub/attachment-service/biz/handler"
	"github.com/qualityhub/attachment-service/biz/middleware"
	"github.com/qualityhub/attachment-service/biz/router"
	"github.com/qualityhub/attachment-service/biz/service"
	"github.com/qualityhub/attachment-service/pkg/config"
	"github.com/qualityhub/attachment-service/pkg/database"
	"github.com/qualityhub/attachment-service/pkg/lock"
	"github.com/qualityhub/attachment-service/pkg/redis"
	"github.com/qualityhub/attachment-service/pkg/storage"
)

const (
	writeLockKey            = "qualityhub:attachments:write_lock"
	writeLockTTL            = 30 * time.Second
	writeLockAcquireTimeout = 10 * time.Second

	// Request bodies must clear the upload validation limit with room for
	// multipart framing, otherwise oversized uploads die in the transport
	// instead of returning a clean 400.
	maxRequestBodySize = 64 * 1024 * 1024
)

func main() {
	// .env is optional; deployments usually configure through the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		hlog.Fatalf("load config: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		hlog.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(&model.Attachment{}); err != nil {
		hlog.Fatalf("migrate database: %v", err)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		hlog.Fatalf("bind storage backend: %v", err)
	}
	hlog.Infof("storage backend: %s", store.Kind())

	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		hlog.Fatalf("connect redis: %v", err)
	}
	if redisClient != nil {
		middleware.InitWriteLock(lock.New(redisClient, writeLockKey, writeLockTTL, writeLockAcquireTimeout))
		hlog.Infof("distributed write lock enabled")
	}

	svc := service.NewService(db, store)
	attachmentHandler := handler.NewAttachmentHandler(svc)
	healthHandler := handler.NewHealthHandler(store)

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithMaxRequestBodySize(maxRequestBodySize),
	)
	h.Use(
		middleware.Recovery(),
		middleware.Logging(),
		middleware.CORS(&cfg.CORS),
		middleware.Auth(),
	)
	router.RegisterAttachmentRoutes(h, attachmentHandler, healthHandler)

	hlog.Infof("listening on %s", cfg.Server.Address)
	h.Spin()
}
