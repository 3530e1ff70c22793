package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BookingModeSimulated = "simulated"
	BookingModePersisted = "persisted"

	PaymentProviderManual = "manual"
	PaymentProviderStripe = "stripe"

	// DevJWTSecret is the signing key used when JWT_SECRET is unset. It is only
	// accepted with GIN_MODE=debug.
	DevJWTSecret = "shuttlego-dev-secret"
)

type Env struct {
	AppAddr string
	GinMode string

	DBDSN          string
	LocalStorePath string
	BookingMode    string

	JWTSecret     string
	JWTTTLMinutes int

	CORSAllowedOrigins []string

	CatalogRefresh  time.Duration
	CatalogSeedFile string

	PaymentProvider string
	StripeSecretKey string

	AMQPURL     string
	MapsAPIKey  string
	BookingRate int
}

// HasPersistedBackend reports whether a MySQL DSN is configured.
func (e Env) HasPersistedBackend() bool {
	return e.DBDSN != ""
}

// Validate rejects settings the server must not start with.
func (e Env) Validate() error {
	if e.JWTSecret == DevJWTSecret && e.GinMode != "debug" {
		return errors.New("JWT_SECRET is not set; the built-in development secret is only allowed with GIN_MODE=debug")
	}
	return nil
}

// LoadEnv reads configuration from the process environment. A .env file in the
// working directory is loaded first when present; real env vars win over it.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", slog.String("error", err.Error()))
	}

	env := Env{
		AppAddr:         getString("APP_ADDR", ":8080"),
		GinMode:         getString("GIN_MODE", ""),
		DBDSN:           getString("DB_DSN", ""),
		LocalStorePath:  getString("LOCAL_STORE_PATH", ""),
		BookingMode:     strings.ToLower(getString("BOOKING_MODE", "")),
		JWTSecret:       getString("JWT_SECRET", DevJWTSecret),
		JWTTTLMinutes:   getInt("JWT_TTL_MINUTES", 60*24),
		CatalogRefresh:  time.Duration(getInt("CATALOG_REFRESH_SECONDS", 60)) * time.Second,
		CatalogSeedFile: getString("CATALOG_SEED_FILE", ""),
		PaymentProvider: strings.ToLower(getString("PAYMENT_PROVIDER", PaymentProviderManual)),
		StripeSecretKey: getString("STRIPE_SECRET_KEY", ""),
		AMQPURL:         getString("AMQP_URL", ""),
		MapsAPIKey:      getString("MAPS_API_KEY", ""),
		BookingRate:     getInt("BOOKING_RATE_PER_MINUTE", 10),
	}

	if v := getString("CORS_ALLOWED_ORIGINS", ""); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				env.CORSAllowedOrigins = append(env.CORSAllowedOrigins, o)
			}
		}
	}

	if env.BookingMode != BookingModeSimulated && env.BookingMode != BookingModePersisted {
		// no DSN means nothing to persist to
		if env.HasPersistedBackend() {
			env.BookingMode = BookingModePersisted
		} else {
			env.BookingMode = BookingModeSimulated
		}
	}
	if env.BookingMode == BookingModePersisted && !env.HasPersistedBackend() {
		slog.Warn("BOOKING_MODE=persisted without DB_DSN, falling back to simulated")
		env.BookingMode = BookingModeSimulated
	}
	if env.PaymentProvider == PaymentProviderStripe && env.StripeSecretKey == "" {
		slog.Warn("PAYMENT_PROVIDER=stripe without STRIPE_SECRET_KEY, falling back to manual")
		env.PaymentProvider = PaymentProviderManual
	}

	return env
}

func getString(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer env", slog.String("key", key), slog.String("value", v))
		return fallback
	}
	return n
}
