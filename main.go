package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopchat/internal/api"
	"shopchat/internal/config"
	"shopchat/internal/redis"
	"shopchat/internal/service/chat"
	"shopchat/internal/service/llm"
	"shopchat/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := os.Getenv("SHOPCHAT_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbType := os.Getenv("SHOPCHAT_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	log.Printf("dbType: %s\n", dbType)
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Create tables (conversations, messages, knowledge_base) and seed the
	// default knowledge snippets.
	if err := storage.Migrate(db, dbType); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	if err := storage.SeedKnowledge(db, dbType); err != nil {
		log.Fatalf("seed knowledge base: %v", err)
	}

	generator, err := llm.NewService(cfg)
	if err != nil {
		log.Fatalf("init reply generator: %v", err)
	}
	chatService := chat.NewService(db, generator, cfg.BasicConfig.HistoryWindow)

	if dir := cfg.BasicConfig.KnowledgeDir; dir != "" {
		added, err := chatService.ImportKnowledgeDir(context.Background(), dir)
		if err != nil {
			log.Fatalf("import knowledge dir: %v", err)
		}
		log.Printf("imported %d knowledge entries from %s", added, dir)
	}

	var limiter gin.HandlerFunc
	if cfg.Redis != nil && cfg.BasicConfig.RateLimitPerMinute > 0 {
		rdb, err := redis.NewClient(cfg.Redis)
		if err != nil {
			log.Fatalf("create redis client: %v", err)
		}
		defer rdb.Close()
		limiter = api.RateLimit(rdb, cfg.BasicConfig.RateLimitPerMinute, time.Minute)
	}

	router := gin.Default()
	if origin := cfg.BasicConfig.FrontendURL; origin != "" {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = []string{origin}
		corsCfg.AllowCredentials = true
		router.Use(cors.New(corsCfg))
	}
	handler := api.NewHandler(chatService)
	handler.RegisterRoutes(router, limiter)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":3000"
	}
	srv := &http.Server{Addr: addr, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("server listening at %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
