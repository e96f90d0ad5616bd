package router

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pawsera/docs"
	"pawsera/internal/adapters/files/localfs"
	"pawsera/internal/adapters/identity/local"
	"pawsera/internal/adapters/identity/remote"
	"pawsera/internal/adapters/maps/google"
	mem "pawsera/internal/adapters/storage/memory"
	pg "pawsera/internal/adapters/storage/postgres"
	"pawsera/internal/adapters/weather/openweather"
	"pawsera/internal/domain/activity"
	"pawsera/internal/domain/appointments"
	"pawsera/internal/domain/approvals"
	"pawsera/internal/domain/documents"
	"pawsera/internal/domain/home"
	"pawsera/internal/domain/identity"
	"pawsera/internal/domain/nearby"
	"pawsera/internal/domain/pets"
	"pawsera/internal/domain/records"
	"pawsera/internal/domain/users"
	"pawsera/internal/middleware"
	"pawsera/internal/platform/config"
	"pawsera/internal/platform/degrade"
	"pawsera/internal/platform/logger"
	"pawsera/internal/ports/auth"
	"pawsera/internal/ports/files"
	"pawsera/internal/ports/maps"
	"pawsera/internal/ports/weather"
	"pawsera/internal/sampledata"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Config config.Config
	Logger logger.Logger

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Adapters opcionales (tests). Si vienen, reemplazan a los que se arman desde Config.
	Identity auth.IdentityProvider
	Verifier auth.AuthVerifier
	Files    files.Store
	Maps     maps.Finder
	Geocoder maps.Geocoder
	Weather  weather.Provider
}

type repos struct {
	users        users.Repository
	credentials  auth.CredentialStore
	pets         pets.Repository
	appointments appointments.Repository
	records      records.Repository
	documents    documents.Repository
	activity     activity.Repository
}

func newRepos(db *sql.DB) repos {
	if db != nil {
		return repos{
			users:        pg.NewUsersRepo(db),
			credentials:  pg.NewCredentialsRepo(db),
			pets:         pg.NewPetsRepo(db),
			appointments: pg.NewAppointmentsRepo(db),
			records:      pg.NewRecordsRepo(db),
			documents:    pg.NewDocumentsRepo(db),
			activity:     pg.NewActivityRepo(db),
		}
	}
	return repos{
		users:        mem.NewUserRepo(),
		credentials:  mem.NewCredentialRepo(),
		pets:         mem.NewPetRepo(),
		appointments: mem.NewAppointmentRepo(),
		records:      mem.NewRecordRepo(),
		documents:    mem.NewDocumentRepo(),
		activity:     mem.NewActivityRepo(),
	}
}

func NewRouter(opts Options) (http.Handler, error) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	rp := newRepos(opts.DB)

	provider, verifier, err := identityProvider(opts, rp.credentials)
	if err != nil {
		return nil, err
	}

	store := opts.Files
	var fileServer http.Handler
	if store == nil {
		fs, err := localfs.New(cfg.FilesDir, cfg.FilesBaseURL)
		if err != nil {
			return nil, err
		}
		store, fileServer = fs, fs.Handler()
	}

	finder, geocoder, err := mapsClients(opts)
	if err != nil {
		return nil, err
	}
	weatherProvider, err := weatherClient(opts)
	if err != nil {
		return nil, err
	}

	fallback := degrade.Policy{Enabled: cfg.SampleFallback}

	// Services por módulo
	usersSvc := users.NewService(rp.users)
	activitySvc := activity.NewService(rp.activity)
	identitySvc := identity.NewService(provider, usersSvc, activitySvc, log.With(map[string]any{"module": "identity"}))
	approvalsSvc := approvals.NewService(usersSvc, activitySvc, log.With(map[string]any{"module": "approvals"}))
	petsSvc := pets.NewService(rp.pets, store).
		WithFallback(fallback, sampledata.Pets).
		WithLogger(log.With(map[string]any{"module": "pets"}))
	recordsSvc := records.NewService(rp.records, petsSvc)
	documentsSvc := documents.NewService(rp.documents, petsSvc, store, cfg.FilesMaxBytes).
		WithLogger(log.With(map[string]any{"module": "documents"}))
	appointmentsSvc := appointments.NewService(rp.appointments, petsSvc, usersSvc, cfg.AppointmentSlot).
		WithFallback(fallback, sampledata.Appointments).
		WithActivity(activitySvc).
		WithLogger(log.With(map[string]any{"module": "appointments"}))
	homeSvc := home.NewService(home.Deps{
		Users:        usersSvc,
		Pets:         petsSvc,
		Appointments: appointmentsSvc,
		Approvals:    approvalsSvc,
		Activity:     activitySvc,
		Weather:      weatherProvider,
	}, cfg.DefaultCity, log.With(map[string]any{"module": "home"})).
		WithFallback(fallback, home.Samples{
			Users:    sampledata.Users,
			Activity: sampledata.Activity,
			Weather:  sampledata.Weather,
		})
	nearbySvc := nearby.NewService(finder, geocoder, usersSvc, nearby.Config{
		DefaultCity:     cfg.DefaultCity,
		DefaultLocation: maps.Location{Lat: cfg.DefaultLat, Lng: cfg.DefaultLng},
		GeoTimeout:      cfg.GeoTimeout,
	}, log.With(map[string]any{"module": "nearby"}))

	if cfg.AdminEmail != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		admin, err := identitySvc.BootstrapAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
		if err != nil {
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
		log.Info("admin ready", map[string]any{"user_id": admin.ID, "email": admin.Email})
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Debug-User-ID"},
		ExposedHeaders:   []string{"X-Data-Source", "X-Request-Id", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.AuthContext(verifier, cfg.DevAuth))
	r.Use(middleware.ResolveActor(usersSvc.ActorFor))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName())))

	if fileServer != nil {
		prefix := strings.TrimRight(cfg.FilesBaseURL, "/")
		if strings.HasPrefix(prefix, "/") {
			r.Handle(prefix+"/*", http.StripPrefix(prefix, fileServer))
		}
	}

	// Rutas por módulo
	identity.RegisterRoutes(r, identitySvc)
	users.RegisterRoutes(r, usersSvc)
	approvals.RegisterRoutes(r, approvalsSvc)
	nearby.RegisterRoutes(r, nearbySvc)
	home.RegisterRoutes(r, homeSvc)
	pets.RegisterRoutes(r, petsSvc, cfg.FilesMaxBytes)
	records.RegisterRoutes(r, recordsSvc)
	documents.RegisterRoutes(r, documentsSvc, cfg.FilesMaxBytes)
	appointments.RegisterRoutes(r, appointmentsSvc)
	activity.RegisterRoutes(r, activitySvc)

	return r, nil
}

// identityProvider: remoto si hay IDENTITY_BASE_URL, si no bcrypt+JWT local.
func identityProvider(opts Options, creds auth.CredentialStore) (auth.IdentityProvider, auth.AuthVerifier, error) {
	if opts.Identity != nil {
		v := opts.Verifier
		if v == nil {
			if pv, ok := opts.Identity.(auth.AuthVerifier); ok {
				v = pv
			}
		}
		return opts.Identity, v, nil
	}

	cfg := opts.Config
	if cfg.IdentityBaseURL != "" {
		c, err := remote.NewClient(remote.Config{BaseURL: cfg.IdentityBaseURL, APIKey: cfg.IdentityAPIKey})
		if err != nil {
			return nil, nil, fmt.Errorf("identity: %w", err)
		}
		return c, c, nil
	}

	if cfg.JWTSecret == "" {
		return nil, nil, errors.New("identity: JWT_SECRET is required for the local provider")
	}
	p, err := local.New(creds, local.Config{Secret: []byte(cfg.JWTSecret), TTL: cfg.SessionTTL})
	if err != nil {
		return nil, nil, err
	}
	return p, p, nil
}

func mapsClients(opts Options) (maps.Finder, maps.Geocoder, error) {
	finder, geocoder := opts.Maps, opts.Geocoder
	if finder != nil && geocoder != nil {
		return finder, geocoder, nil
	}
	cfg := opts.Config
	if cfg.MapsAPIKey == "" {
		return finder, geocoder, nil
	}
	c, err := google.NewClient(google.Config{
		PlacesBaseURL:  cfg.MapsBaseURL,
		GeocodeBaseURL: cfg.GeocodeBaseURL,
		APIKey:         cfg.MapsAPIKey,
		Timeout:        cfg.GeoTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("maps: %w", err)
	}
	if finder == nil {
		finder = c
	}
	if geocoder == nil {
		geocoder = c
	}
	return finder, geocoder, nil
}

func weatherClient(opts Options) (weather.Provider, error) {
	if opts.Weather != nil {
		return opts.Weather, nil
	}
	cfg := opts.Config
	if cfg.WeatherAPIKey == "" {
		return nil, nil
	}
	c, err := openweather.NewClient(cfg.WeatherBaseURL, cfg.WeatherAPIKey, cfg.GeoTimeout)
	if err != nil {
		return nil, fmt.Errorf("weather: %w", err)
	}
	return c, nil
}
