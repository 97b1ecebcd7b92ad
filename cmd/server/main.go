package main

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"langlink/internal/common"
	"langlink/internal/config"
	"langlink/internal/dbmysql"
	"langlink/internal/di"
)

func main() {
	log := logrus.New()

	if err := godotenv.Load(); err != nil {
		log.Info(".env file not found, using system env variables")
	}

	cfg := config.Load()
	configureLogger(log, cfg)

	db, err := dbmysql.NewMySQL(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	log.Info("connected to MySQL")

	handler := di.InitializeHandler(db, cfg, log)

	router := mux.NewRouter()
	router.Use(common.RequestLogger(log))
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	handler.RegisterRoutes(router, common.AuthMiddleware([]byte(cfg.JWT.Secret)))

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	log.WithField("addr", addr).Info("server listening")
	if err := srv.ListenAndServe(); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func configureLogger(log *logrus.Logger, cfg *config.Config) {
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(level)
	}
	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
}
