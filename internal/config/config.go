package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strings" // strings normalises switch values

	"github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Mock store backends selectable through MOCK_STORE.
const (
	MockStoreMemory = "memory"
	MockStoreRedis  = "redis"
	MockStoreMySQL  = "mysql"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Values are read once at startup; nothing is
// reconfigured while the server runs.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	BackendURL      string // base URL of the reservation/class/payment backend
	PublicBaseURL   string // externally visible base URL of this server (gateway returnUrl)
	NicepayClientID string // client id handed to the gateway's hosted checkout script
	NicepayScript   string // URL of the gateway's hosted checkout script
	UseMock         bool   // true selects the mock backend instead of the real HTTP one
	MockStore       string // storage backing the mock backend (memory, redis, mysql)
	DBUser          string // database username (MOCK_STORE=mysql only)
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	SessionSecret   string // secret used to sign instructor session JWTs
	SessionTTLMin   int    // instructor session time-to-live in minutes
	BcryptCost      int    // bcrypt cost for mock backend password hashing
	CSRFKey         string // 32-byte key for gorilla/csrf
}

// Load reads configuration values from the environment (after loading an
// optional .env file) and returns a Config.  Only secrets are required, and
// only outside the dev environment; everything else has a default.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Env:             getenv("APP_ENV", "dev"),
		Port:            getenv("APP_PORT", "3000"),
		BackendURL:      strings.TrimRight(getenv("BACKEND_API_URL", "https://classhub.site"), "/"),
		PublicBaseURL:   strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		NicepayClientID: getenv("NICEPAY_CLIENT_ID", "S1_6eaa0db1afdc41f3becb770878d67d25"),
		NicepayScript:   getenv("NICEPAY_SCRIPT_URL", "https://pay.nicepay.co.kr/v1/js/"),
		UseMock:         envBool("USE_MOCK", true),
		MockStore:       strings.ToLower(getenv("MOCK_STORE", MockStoreMemory)),
		DBUser:          os.Getenv("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"),
		DBHost:          getenv("DB_HOST", "localhost"),
		DBPort:          getenv("DB_PORT", "3306"),
		DBName:          getenv("DB_NAME", "classhub"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		SessionTTLMin:   envInt("SESSION_TTL_MIN", 120),
		BcryptCost:      envInt("BCRYPT_COST", 10),
		CSRFKey:         os.Getenv("CSRF_KEY"),
	}

	if cfg.IsDev() {
		// dev runs without a .env; fixed secrets keep cookies valid across restarts
		if cfg.SessionSecret == "" {
			cfg.SessionSecret = "dev-session-secret"
		}
		if cfg.CSRFKey == "" {
			cfg.CSRFKey = "dev-csrf-key-0123456789abcdef012"
		}
	} else {
		cfg.SessionSecret = must("SESSION_SECRET")
		cfg.CSRFKey = must("CSRF_KEY")
	}
	if cfg.UseMock && cfg.MockStore == MockStoreMySQL && cfg.DBUser == "" {
		cfg.DBUser = must("DB_USER")
	}
	return cfg
}

// IsDev reports whether the server runs in the development environment.
func (c Config) IsDev() bool { return c.Env == "" || c.Env == "dev" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
