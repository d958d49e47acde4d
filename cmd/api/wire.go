package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	jwtauth "pet-rescue/internal/adapters/auth/jwt"
	odinauth "pet-rescue/internal/adapters/auth/odin"
	"pet-rescue/internal/adapters/capabilities/plansfeatures"
	"pet-rescue/internal/adapters/capabilities/static"
	kafkadelivery "pet-rescue/internal/adapters/delivery/kafka"
	"pet-rescue/internal/adapters/delivery/logsink"
	"pet-rescue/internal/adapters/delivery/webhook"
	"pet-rescue/internal/adapters/media/filesystem"
	"pet-rescue/internal/adapters/storage/postgres"
	"pet-rescue/internal/adapters/storage/sqlite"
	"pet-rescue/internal/config"
	"pet-rescue/internal/domain/notifications"
	"pet-rescue/internal/platform/logger"
	"pet-rescue/internal/ports/auth"
	"pet-rescue/internal/ports/capabilities"
	"pet-rescue/internal/router"
)

// app es todo lo que arma `serve` a partir de la config.
type app struct {
	cfg config.Config
	log *logger.ZapLogger

	storage   router.Storage
	verifier  auth.AuthVerifier
	resolver  capabilities.Resolver
	deliverer notifications.Deliverer
	photos    *filesystem.Store

	closers []io.Closer
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func build(ctx context.Context, path string) (*app, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg: cfg,
		log: logger.New(logger.Options{
			Level:  logger.ParseLevel(cfg.Log.Level),
			Format: logger.ParseFormat(cfg.Log.Format),
			App:    cfg.App.Name,
		}),
	}

	steps := []func(context.Context) error{a.openStorage, a.buildAuth, a.buildCapabilities, a.buildDelivery, a.buildMedia}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *app) openStorage(ctx context.Context) error {
	var (
		db  *sql.DB
		err error
	)
	switch a.cfg.Storage.Driver {
	case config.StoragePostgres:
		if db, err = postgres.Open(a.cfg.Storage.DSN); err != nil {
			return err
		}
		a.closers = append(a.closers, db)
		a.storage = router.SQLStorage(postgres.NewStore(db))
	case config.StorageSQLite:
		if db, err = sqlite.Open(a.cfg.Storage.SQLitePath); err != nil {
			return err
		}
		a.closers = append(a.closers, db)
		// sqlite es embebido: el schema se aplica solo al arrancar
		if err := sqlite.Migrate(ctx, db); err != nil {
			return err
		}
		a.storage = router.SQLStorage(sqlite.NewStore(db))
	default:
		a.log.Warn("using in-memory storage; data is lost on restart", nil)
		a.storage = router.MemoryStorage()
	}
	return nil
}

func (a *app) buildAuth(context.Context) error {
	switch a.cfg.Auth.Mode {
	case config.AuthJWT:
		v, err := jwtauth.NewVerifier(a.cfg.Auth.JWTSecret, jwtauth.WithIssuer(a.cfg.Auth.JWTIssuer))
		if err != nil {
			return err
		}
		a.verifier = v
	case config.AuthOdin:
		c, err := odinauth.NewClient(odinauth.Config{BaseURL: a.cfg.Auth.OdinURL, APIKey: a.cfg.Auth.OdinAPIKey})
		if err != nil {
			return err
		}
		a.verifier = odinauth.NewVerifier(c)
	default:
		a.log.Warn("dev auth mode: identity comes from X-Debug-User-ID headers", nil)
	}
	return nil
}

func (a *app) buildCapabilities(context.Context) error {
	if a.cfg.Staff.PlansURL == "" || a.cfg.Staff.AllowAll {
		a.resolver = static.NewResolver(a.cfg.Staff.UserIDs, a.cfg.Staff.AllowAll)
		return nil
	}
	c, err := plansfeatures.NewClient(plansfeatures.Config{BaseURL: a.cfg.Staff.PlansURL, APIKey: a.cfg.Staff.PlansKey})
	if err != nil {
		return err
	}
	a.resolver = plansfeatures.NewResolver(c)
	return nil
}

func (a *app) buildDelivery(context.Context) error {
	d := a.cfg.Delivery
	switch d.Driver {
	case config.DeliveryLog:
		a.deliverer = logsink.New(a.log.With(map[string]any{"module": "delivery"}))
	case config.DeliveryWebhook:
		w, err := webhook.New(webhook.Config{
			URL:           d.WebhookURL,
			Secret:        d.WebhookSecret,
			PublicBaseURL: a.cfg.App.PublicBaseURL,
			Timeout:       d.Timeout,
		})
		if err != nil {
			return err
		}
		a.deliverer = w
	case config.DeliveryKafka:
		p, err := kafkadelivery.New(kafkadelivery.Config{
			Brokers:       d.KafkaBrokers,
			Topic:         d.KafkaTopic,
			PublicBaseURL: a.cfg.App.PublicBaseURL,
		})
		if err != nil {
			return err
		}
		a.closers = append(a.closers, p)
		a.deliverer = p
	}
	return nil
}

func (a *app) buildMedia(context.Context) error {
	if a.cfg.Media.Dir == "" {
		return nil
	}
	s, err := filesystem.New(a.cfg.Media.Dir)
	if err != nil {
		return err
	}
	a.photos = s
	return nil
}

func (a *app) routerOptions() router.Options {
	opts := router.Options{
		AuthVerifier: a.verifier,
		Capabilities: a.resolver,
		Logger:       a.log,
		Storage:      &a.storage,
		Deliverer:    a.deliverer,

		DeliveryTimeout: a.cfg.Delivery.Timeout,
	}
	if a.photos != nil {
		opts.Photos = a.photos
	}
	return opts
}

// Close cierra en orden inverso al de apertura.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	_ = a.log.Sync()
	return errors.Join(errs...)
}
