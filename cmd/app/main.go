package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/day-weaver-api/internal/config"
	"github.com/BuzzLyutic/day-weaver-api/internal/handler"
	"github.com/BuzzLyutic/day-weaver-api/internal/reminder"
	"github.com/BuzzLyutic/day-weaver-api/internal/repo"
	"github.com/BuzzLyutic/day-weaver-api/internal/schedule"
	"github.com/BuzzLyutic/day-weaver-api/internal/service"
	"github.com/BuzzLyutic/day-weaver-api/internal/worker"
)

func main() {
	// Подключаем логгер
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Загрузка конфигурации
	cfg := config.Load()

	// Подключаем БД
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to Database.") // Fatal потому что дальнейшая работа теряет смысл
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal("Failed to ping the Database.")
	}
	logger.Info("Successfully connected to the Database!")

	taskRepo := repo.NewTaskRepo(pool)
	taskService := service.NewTaskService(taskRepo, cfg.PageSize)
	generator := schedule.NewGenerator(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)

	// Пул воркеров разгребает очередь напоминаний
	reminderPool := worker.NewPool(reminder.NewLogSender(logger), logger, cfg.WorkerCount, 0)
	reminderPool.Start(context.Background())
	defer reminderPool.Stop()

	taskHandler := handler.NewTaskHandler(taskService, logger)
	scheduleHandler := handler.NewScheduleHandler(generator, taskService, logger)
	reminderHandler := handler.NewReminderHandler(reminderPool, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			r.Delete("/", taskHandler.DeleteAll)
			r.Get("/board", taskHandler.Board)
			r.Get("/stats", taskHandler.Stats)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.Get)
				r.Patch("/", taskHandler.Update)
				r.Delete("/", taskHandler.Delete)
				r.Post("/toggle", taskHandler.Toggle)
				r.Post("/reactions", taskHandler.React)
			})
		})
		r.Post("/schedule", scheduleHandler.Generate)
		r.Post("/reminders", reminderHandler.Send)
	})

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // генерация расписания может быть долгой
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started at ", zap.String("port", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed: ", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error: ", zap.Error(err))
	}
	logger.Info("Server stopped succsessfully!")
}
