package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eben2468/srcwebsite-sub008/agent"
	"github.com/eben2468/srcwebsite-sub008/assignment"
	"github.com/eben2468/srcwebsite-sub008/config"
	"github.com/eben2468/srcwebsite-sub008/cron"
	"github.com/eben2468/srcwebsite-sub008/message"
	"github.com/eben2468/srcwebsite-sub008/migrate"
	"github.com/eben2468/srcwebsite-sub008/notify"
	"github.com/eben2468/srcwebsite-sub008/participant"
	"github.com/eben2468/srcwebsite-sub008/quickresponse"
	"github.com/eben2468/srcwebsite-sub008/reconcile"
	"github.com/eben2468/srcwebsite-sub008/seeder"
	"github.com/eben2468/srcwebsite-sub008/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables.")
	}

	args := os.Args
	db := config.InitDB()
	defer db.Close()

	if len(args) > 1 && args[1] == "--migrate" {
		migrate.RunMigrations(db)
		return
	}

	if len(args) > 1 && args[1] == "--seed" {
		seeder.RunSeeder(db)
		return
	}

	redisClient := config.InitRedis()
	defer redisClient.Close()

	notifyCfg := config.LoadNotifyConfig()
	dispatcher := notify.MultiDispatcher{notify.NewRedisDispatcher(redisClient, notifyCfg.Channel)}
	if notifyCfg.WebhookURL != "" {
		dispatcher = append(dispatcher, notify.NewWebhookDispatcher(notifyCfg))
	}

	engine := assignment.NewEngine(assignment.NewAssignmentRepository(db), dispatcher)
	reconciler := reconcile.NewReconcileService(reconcile.NewReconcileRepository(db), dispatcher)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("ALLOWED_ORIGINS")},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	session.RegisterRoutes(r, db, redisClient, engine, dispatcher)
	message.RegisterRoutes(r, db, dispatcher)
	participant.RegisterRoutes(r, db)
	agent.RegisterRoutes(r, db, engine)
	assignment.RegisterRoutes(r, engine)
	reconcile.RegisterRoutes(r, reconciler)
	quickresponse.RegisterRoutes(r, db)

	scheduler := cron.NewSweepScheduler(engine, reconciler)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start sweep scheduler: %v", err)
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8000"
	}

	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Server running at http://0.0.0.0:%s\n", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited successfully")
}
