package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config agrupa toda la configuración del proceso.
// Se construye una sola vez en main y se inyecta hacia abajo.
type Config struct {
	Port string

	DBDSN string

	JWTSecret  string
	SessionTTL time.Duration
	DevAuth    bool // X-Debug-User-ID en vez de tokens

	CORSOrigins []string

	// Identity provider remoto (opcional). Si BaseURL está vacío se usa el provider local.
	IdentityBaseURL string
	IdentityAPIKey  string

	FilesDir      string
	FilesBaseURL  string
	FilesMaxBytes int64

	MapsBaseURL    string
	GeocodeBaseURL string
	MapsAPIKey     string

	WeatherBaseURL string
	WeatherAPIKey  string

	DefaultCity string
	DefaultLat  float64
	DefaultLng  float64
	GeoTimeout  time.Duration

	AppointmentSlot time.Duration
	SampleFallback  bool

	AdminEmail    string
	AdminPassword string
	AdminName     string

	LogLevel  string
	LogFormat string
	AppName   string
}

// Load lee .env si existe (no falla si no está) y luego variables de entorno.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv arma la Config solo con variables de entorno y defaults.
func FromEnv() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		DBDSN: strings.TrimSpace(os.Getenv("DB_DSN")),

		JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-me"),
		SessionTTL: getDuration("SESSION_TTL", 24*time.Hour),
		DevAuth:    getBool("AUTH_DEV_MODE", false),

		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		IdentityBaseURL: strings.TrimSpace(os.Getenv("IDENTITY_BASE_URL")),
		IdentityAPIKey:  strings.TrimSpace(os.Getenv("IDENTITY_API_KEY")),

		FilesDir:      getEnv("FILES_DIR", "./uploads"),
		FilesBaseURL:  getEnv("FILES_BASE_URL", "/files"),
		FilesMaxBytes: getInt64("FILES_MAX_BYTES", 10<<20),

		MapsBaseURL:    getEnv("MAPS_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		GeocodeBaseURL: getEnv("GEOCODE_BASE_URL", "https://maps.googleapis.com/maps/api/geocode"),
		MapsAPIKey:     strings.TrimSpace(os.Getenv("MAPS_API_KEY")),

		WeatherBaseURL: getEnv("WEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),
		WeatherAPIKey:  strings.TrimSpace(os.Getenv("WEATHER_API_KEY")),

		DefaultCity: getEnv("DEFAULT_CITY", "Toronto"),
		DefaultLat:  getFloat("DEFAULT_LAT", 43.6532),
		DefaultLng:  getFloat("DEFAULT_LNG", -79.3832),
		GeoTimeout:  getDuration("GEO_TIMEOUT", 5*time.Second),

		AppointmentSlot: getDuration("APPOINTMENT_SLOT", 30*time.Minute),
		SampleFallback:  getBool("SAMPLE_FALLBACK", true),

		AdminEmail:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		AppName:   getEnv("APP_NAME", "pawsera"),
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func splitCSV(raw string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(raw, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}
