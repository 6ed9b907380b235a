package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjidscreens/internal/db"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/mqtt"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/notify"
	"github.com/Nixie-Tech-LLC/masjidscreens/internal/redis"
)

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Error().Err(err).Msg("db init failed")
		return err
	}
	conn := db.DB
	defer conn.Close()

	if err := db.RunMigrations(conn, cfg.MigrationsPath); err != nil {
		log.Error().Err(err).Msg("db migrate failed")
		return err
	}
	store := db.NewStore(conn)

	// nil interfaces, not typed nil pointers, turn the notifier parts off
	var (
		revisions     *redis.Revisions
		publisher     notify.Publisher
		revisionBumps notify.RevisionCounter
	)
	if cfg.RedisAddress != "" {
		revisions = redis.NewRevisions(redis.InitRedis(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword))
		revisionBumps = revisions
		log.Info().Str("addr", cfg.RedisAddress).Msg("schedule revisions enabled")
	}
	if cfg.MQTTBrokerURL != "" {
		pub, err := mqtt.Connect(cfg.MQTTBrokerURL, cfg.MQTTClientID)
		if err != nil {
			log.Warn().Err(err).Str("broker", cfg.MQTTBrokerURL).Msg("mqtt unavailable, push notices disabled")
		} else {
			defer pub.Close()
			publisher = pub
		}
	}

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	deps := Dependencies{
		Store:     store,
		Notifier:  notify.New(publisher, revisionBumps),
		Revisions: revisions,
	}
	if err := RegisterRoutes(r, cfg.JWTSecret, deps); err != nil {
		log.Error().Err(err).Msg("route setup failed")
		return err
	}

	log.Info().Str("addr", cfg.ServerAddress).Msg("listening")
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Error().Err(err).Msg("server error")
		return err
	}
	return nil
}

func runMigrate() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.RunMigrations(conn, cfg.MigrationsPath); err != nil {
		log.Error().Err(err).Msg("db migrate failed")
		return err
	}
	log.Info().Str("path", cfg.MigrationsPath).Msg("migrations applied")
	return nil
}
