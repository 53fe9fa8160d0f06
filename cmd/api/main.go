package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"todo-ai-backend/internal/ai"
	"todo-ai-backend/internal/auth"
	"todo-ai-backend/internal/config"
	"todo-ai-backend/internal/db"
	"todo-ai-backend/internal/logger"
	"todo-ai-backend/internal/middleware"
	"todo-ai-backend/internal/todo"
)

func main() {
	cfg := config.Load()

	lg, err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})
	if err != nil {
		log.Fatal("logger init failed:", err)
	}

	database, err := db.Connect(cfg.ConnString())
	if err != nil {
		log.Fatal("failed to connect DB:", err)
	}
	defer database.Close()
	lg.Info("connected to PostgreSQL")

	// The Gemini client is process-wide state shared by all requests.
	// An empty key is tolerated: calls fail and the AI layer degrades
	// to its fallback values.
	if cfg.GeminiAPIKey == "" {
		lg.Warn("GEMINI_API_KEY is not set, AI scoring will use fallbacks")
	}
	aiSvc := ai.NewService(ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel))

	secret := []byte(cfg.JWTSecret)
	mw := auth.New(secret)

	todoHandler := todo.NewHandler(todo.NewStore(database), aiSvc, database)

	mux := http.NewServeMux()

	// Health + metrics
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// ----- AUTH API -----
	mux.HandleFunc("/api/auth/signup", auth.SignupHandler(database, secret))
	mux.HandleFunc("/api/auth/login", auth.LoginHandler(database, secret))
	mux.HandleFunc("/api/auth/me", mw.Wrap(auth.MeHandler(database)))
	mux.HandleFunc("/api/auth/logout", mw.Wrap(auth.LogoutHandler()))
	mux.HandleFunc("/api/auth/account", mw.Wrap(auth.DeleteAccountHandler(database)))

	// ----- TODO API -----
	mux.HandleFunc("/api/todo", mw.Wrap(todoHandler.Collection))
	mux.HandleFunc("/api/todo/", mw.Wrap(todoHandler.Item))

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	handler := middleware.RequestLogger(c.Handler(mux))

	addr := fmt.Sprintf(":%d", cfg.Port)
	lg.Info("API server is running", "addr", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
