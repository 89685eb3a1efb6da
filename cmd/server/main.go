package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"k8s.io/klog/v2"

	"github.com/novelhelper/backend/config"
	"github.com/novelhelper/backend/internal/eventbus"
	"github.com/novelhelper/backend/internal/handler"
	"github.com/novelhelper/backend/internal/pkg/blobstore"
	"github.com/novelhelper/backend/internal/pkg/database"
	"github.com/novelhelper/backend/internal/repository"
	"github.com/novelhelper/backend/internal/router"
	"github.com/novelhelper/backend/internal/service"
	syncservice "github.com/novelhelper/backend/internal/service/sync"
)

func main() {
	// 初始化 klog
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	// .env 文件不存在时忽略即可
	_ = godotenv.Load()

	klog.V(6).Info("服务启动中...")

	cfg := config.GetConfig()

	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	db, err := database.InitDB(cfg.Database.Type, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	blobs, err := blobstore.New(cfg.Data.ContentDir)
	if err != nil {
		log.Fatalf("Failed to initialize content store: %v", err)
	}

	docRepo := repository.NewDocumentRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	sectionRepo := repository.NewSectionRepository(db)

	docService := service.NewDocumentService(cfg, docRepo, branchRepo, versionRepo, sectionRepo, blobs)

	var transport syncservice.Transport
	if cfg.Sync.TargetServer != "" {
		transport, err = syncservice.NewHTTPTransport(cfg.Sync.TargetServer, cfg.Sync.Timeout)
		if err != nil {
			log.Fatalf("Failed to initialize sync transport: %v", err)
		}
	} else {
		klog.V(6).Info("未配置同步目标服务器，云同步不可用")
	}
	syncService := syncservice.New(versionRepo, blobs, transport)

	bus := eventbus.NewDocEventBus()
	for _, eventType := range []eventbus.DocEventType{
		eventbus.DocEventCreated, eventbus.DocEventUpdated, eventbus.DocEventDeleted,
	} {
		bus.Subscribe(eventType, func(ctx context.Context, event eventbus.DocEvent) error {
			klog.V(6).Infof("[event] %s: documentID=%s versionID=%s", event.Type, event.DocumentID, event.VersionID)
			return nil
		})
	}

	docHandler := handler.NewDocumentHandler(bus, docService)
	branchHandler := handler.NewBranchHandler(docService)
	versionHandler := handler.NewVersionHandler(bus, docService)
	sectionHandler := handler.NewSectionHandler(docService)
	syncHandler := handler.NewSyncHandler(syncService)
	configHandler := handler.NewConfigHandler(cfg)

	r := router.Setup(cfg, docHandler, branchHandler, versionHandler, sectionHandler, syncHandler, configHandler)

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
