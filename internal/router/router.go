package router

import (
	"net/http"
	"time"

	mem "pet-rescue/internal/adapters/storage/memory"
	"pet-rescue/internal/adapters/storage/sqlstore"
	"pet-rescue/internal/domain/claims"
	"pet-rescue/internal/domain/notifications"
	"pet-rescue/internal/domain/reports"
	"pet-rescue/internal/middleware"
	"pet-rescue/internal/platform/logger"
	"pet-rescue/internal/ports/auth"
	"pet-rescue/internal/ports/capabilities"
	"pet-rescue/internal/ports/txn"

	_ "pet-rescue/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Storage agrupa los repos y el runner de transacciones de un mismo backend.
type Storage struct {
	Reports       reports.Repository
	Claims        claims.Repository
	Notifications notifications.Repository
	Tx            txn.Runner
}

func MemoryStorage() Storage {
	s := mem.NewStore()
	return Storage{
		Reports:       mem.NewReportsRepo(s),
		Claims:        mem.NewClaimsRepo(s),
		Notifications: mem.NewNotificationsRepo(s),
		Tx:            s,
	}
}

// SQLStorage sirve para postgres y sqlite (el dialecto viene en db).
func SQLStorage(db *sqlstore.DB) Storage {
	return Storage{
		Reports:       sqlstore.NewReportsRepo(db),
		Claims:        sqlstore.NewClaimsRepo(db),
		Notifications: sqlstore.NewNotificationsRepo(db),
		Tx:            db,
	}
}

type Options struct {
	AuthVerifier auth.AuthVerifier     // puede ser nil (modo dev)
	Capabilities capabilities.Resolver // nil: nadie es staff
	Logger       logger.Logger

	// Si es nil se usa el store en memoria.
	Storage *Storage

	Deliverer       notifications.Deliverer // nil: solo notificaciones in-app
	DeliveryTimeout time.Duration           // 0: default del service
	Photos          reports.PhotoStore      // nil: sin subida de fotos
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	st := MemoryStorage()
	if opts.Storage != nil {
		st = *opts.Storage
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestLog(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))
	r.Use(middleware.Actor(opts.Capabilities, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Services por módulo
	notifOpts := []notifications.Option{notifications.WithLogger(log.With(map[string]any{"module": "notifications"}))}
	if opts.Deliverer != nil {
		notifOpts = append(notifOpts, notifications.WithDeliverer(opts.Deliverer))
	}
	if opts.DeliveryTimeout > 0 {
		notifOpts = append(notifOpts, notifications.WithDeliveryTimeout(opts.DeliveryTimeout))
	}
	notifSvc := notifications.NewService(st.Notifications, notifOpts...)

	reportOpts := []reports.Option{
		reports.WithTx(st.Tx),
		reports.WithNotifier(notifSvc),
		reports.WithLogger(log.With(map[string]any{"module": "reports"})),
	}
	if opts.Photos != nil {
		reportOpts = append(reportOpts, reports.WithPhotoStore(opts.Photos))
	}
	reportsSvc := reports.NewService(st.Reports, reportOpts...)

	claimsSvc := claims.NewService(st.Claims, reportsSvc,
		claims.WithTx(st.Tx),
		claims.WithNotifier(notifSvc),
		claims.WithLogger(log.With(map[string]any{"module": "claims"})),
	)

	// Rutas por módulo
	reports.RegisterRoutes(r, reportsSvc)
	claims.RegisterRoutes(r, claimsSvc)
	notifications.RegisterRoutes(r, notifSvc)

	return r
}
