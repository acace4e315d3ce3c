package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"chat-backend/internal/config"
	"chat-backend/internal/crypto"
	"chat-backend/internal/db"
	"chat-backend/internal/handlers"
	"chat-backend/internal/messaging"
	"chat-backend/internal/middleware"
	"chat-backend/internal/observability"
	"chat-backend/internal/rabbitmq"
	"chat-backend/internal/repositories"
	"chat-backend/internal/telemetry"
	"chat-backend/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	cipher, err := crypto.New(cfg.Crypto.Key, cfg.Crypto.IV)
	if err != nil {
		log.Fatalf("failed to build message cipher: %v", err)
	}

	shutdownTracing, err := observability.InitTracerProvider(context.Background(), cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracer shutdown: %v", err)
		}
	}()

	if cfg.AMQP.URL != "" {
		wsPublisher, err := observability.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Printf("ws event publisher unavailable: %v", err)
		} else {
			observability.SetPublisher(wsPublisher)
			defer wsPublisher.Close()
		}
	}

	auditPublisher := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
	defer auditPublisher.Close()
	if mode := rabbitmq.PublisherMode(auditPublisher); mode != "amqp" {
		log.Printf("audit publisher mode=%s reason=%q", mode, rabbitmq.PublisherNoopReason(auditPublisher))
	}
	auditEmitter := telemetry.NewAuditEmitter(auditPublisher, cfg.AMQP.AuditRoutingKey, "chat-backend", cfg.Environment)

	communityRepo := repositories.NewCommunityRepo(database)
	apiKeyRepo := repositories.NewAPIKeyRepo(database)
	chatUserRepo := repositories.NewChatUserRepo(database)
	chatRoomRepo := repositories.NewChatRoomRepo(database)
	messageRepo := repositories.NewMessageRepo(database)

	hub := ws.NewHub()

	validator := messaging.NewValidator(chatUserRepo, chatRoomRepo)
	pipeline := messaging.NewPipeline(validator, cipher, messageRepo, hub)

	gateway := ws.NewGateway(hub, pipeline)
	wsHandler := ws.NewHandler(gateway, communityRepo)

	communityHandler := handlers.NewCommunityHandler(communityRepo, apiKeyRepo, auditEmitter)
	chatUserHandler := handlers.NewChatUserHandler(chatUserRepo)
	chatRoomHandler := handlers.NewChatRoomHandler(chatRoomRepo, chatUserRepo, messageRepo, pipeline)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("chat-backend"))
	router.Use(observability.HTTPMetricsMiddleware())

	router.POST("/communities", communityHandler.CreateCommunity)
	router.GET("/communities", communityHandler.ListCommunities)
	router.GET("/communities/:community_id", communityHandler.GetCommunity)
	router.GET("/communities/:community_id/api-key", communityHandler.GetCommunityAPIKey)
	router.PATCH("/communities/:community_id", communityHandler.UpdateCommunity)
	router.DELETE("/communities/:community_id", communityHandler.DeleteCommunity)

	apiKeyMiddleware := middleware.APIKeyMiddleware(apiKeyRepo, communityRepo)

	router.POST("/users", apiKeyMiddleware, chatUserHandler.CreateChatUser)
	router.GET("/users/:user_id", apiKeyMiddleware, chatUserHandler.GetChatUser)
	router.PATCH("/users/:user_id", apiKeyMiddleware, chatUserHandler.UpdateChatUser)
	router.DELETE("/users/:user_id", apiKeyMiddleware, chatUserHandler.DeleteChatUser)

	router.POST("/rooms", apiKeyMiddleware, chatRoomHandler.CreateChatRoom)
	router.GET("/rooms", apiKeyMiddleware, chatRoomHandler.ListChatRooms)
	router.GET("/rooms/:room_id/messages", apiKeyMiddleware, chatRoomHandler.GetRoomMessages)
	router.POST("/messages/:message_id/read", apiKeyMiddleware, chatRoomHandler.MarkMessageRead)

	router.GET("/ws", wsHandler.Handle)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, auditEmitter, cfg.Server.DebugRoutes)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
