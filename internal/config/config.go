package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types

    "github.com/iliyamo/hotel-reservation/internal/pricing"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
type Config struct {
    Env              string // application environment (e.g. "dev", "prod")
    Port             string // HTTP port to listen on
    DBUser           string // database username
    DBPass           string // database password (optional)
    DBHost           string // database host address
    DBPort           string // database port number
    DBName           string // database name
    JWTSecret        string // secret used to sign JWTs
    AccessTTLMin     int    // access token time‑to‑live in minutes
    RefreshTTLDays   int    // refresh token time‑to‑live in days
    BcryptCost       int    // bcrypt cost for password hashing
    StripeKey        string // secret API key for the Stripe checkout gateway
    StripeCurrency   string // ISO currency code for checkout sessions
    FrontendURL      string // base URL the checkout redirects back to
    InventoryHorizon int    // days of inventory created when a hotel is activated
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:              must("APP_ENV"),             // environment (dev/test/prod)
        Port:             must("APP_PORT"),            // port to bind the HTTP server
        DBUser:           must("DB_USER"),             // database user
        DBPass:           os.Getenv("DB_PASS"),        // database password (empty allowed)
        DBHost:           must("DB_HOST"),             // database host
        DBPort:           must("DB_PORT"),             // database port
        DBName:           must("DB_NAME"),             // database name
        JWTSecret:        must("JWT_SECRET"),          // secret used for signing JWTs
        AccessTTLMin:     mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
        RefreshTTLDays:   mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
        BcryptCost:       mustInt("BCRYPT_COST"),      // bcrypt cost factor
        StripeKey:        must("STRIPE_SECRET_KEY"),   // Stripe secret key
        StripeCurrency:   getenv("STRIPE_CURRENCY", "usd"),
        FrontendURL:      getenv("FRONTEND_URL", "http://localhost:3000"),
        InventoryHorizon: envInt("INVENTORY_HORIZON_DAYS", 365),
    }
}

// LoadPricingConfig builds the pricing pipeline configuration from
// environment variables, falling back to the built-in defaults for any
// that are unset.  Invalid values are fatal: a malformed pricing table
// must never make it past startup.
func LoadPricingConfig() pricing.Config {
    cfg := pricing.DefaultConfig()
    if v := os.Getenv("PRICING_URGENCY_WINDOW_DAYS"); v != "" {
        cfg.UrgencyWindowDays = mustAtoi("PRICING_URGENCY_WINDOW_DAYS", v)
    }
    if v := os.Getenv("PRICING_URGENCY_MULTIPLIER"); v != "" {
        cfg.UrgencyMultiplier = mustFloat("PRICING_URGENCY_MULTIPLIER", v)
    }
    if v := os.Getenv("PRICING_HOLIDAY_MULTIPLIER"); v != "" {
        cfg.HolidayMultiplier = mustFloat("PRICING_HOLIDAY_MULTIPLIER", v)
    }
    if v := os.Getenv("PRICING_HOLIDAYS"); v != "" {
        h, err := pricing.ParseHolidays(v)
        if err != nil {
            log.Fatalf("invalid PRICING_HOLIDAYS: %v", err)
        }
        cfg.Holidays = h
    }
    if v := os.Getenv("PRICING_OCCUPANCY_BANDS"); v != "" {
        bands, err := pricing.ParseOccupancyBands(v)
        if err != nil {
            log.Fatalf("invalid PRICING_OCCUPANCY_BANDS: %v", err)
        }
        cfg.OccupancyBands = bands
    }
    if err := cfg.Validate(); err != nil {
        log.Fatalf("invalid pricing config: %v", err)
    }
    return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    return mustAtoi(key, must(key))
}

func mustAtoi(key, s string) int {
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

func mustFloat(key, s string) float64 {
    f, err := strconv.ParseFloat(s, 64)
    if err != nil {
        log.Fatalf("invalid float for %s: %q", key, s)
    }
    return f
}
