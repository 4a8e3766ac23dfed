package config

import (
	"os"
	"strings"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	SnapshotDriver   string // sql|fs|memory
	SnapshotBasePath string // for fs

	CatalogPath string // JSON catalog; empty = built-in seed
	LearnerID   string // profile key for the persisted snapshot

	EnableLocalAuth bool
	EnableGuest     bool

	AuthSecret      string
	LearnerUser     string
	LearnerPassHash string // bcrypt

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		Mode:     mode,
		HTTPAddr: addr,

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		SnapshotDriver:   envOr("SNAPSHOT_DRIVER", "sql"),
		SnapshotBasePath: envOr("SNAPSHOT_BASE_PATH", "./data"),

		CatalogPath: os.Getenv("CATALOG_PATH"),
		LearnerID:   envOr("LEARNER_ID", "local"),

		EnableLocalAuth: envBool("ENABLE_LOCAL_AUTH", true),
		EnableGuest:     envBool("ENABLE_GUEST", mode == ModeOffline),

		AuthSecret:  envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		LearnerUser: envOr("LEARNER_USER", "learner"),
		// bcrypt("password"); override in any real deployment
		LearnerPassHash: envOr("LEARNER_PASS_HASH", "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),

		CORSOriginsOnline:  csvOr("CORS_ORIGINS_ONLINE", "https://app.learntrack.dev"),
		CORSOriginsOffline: csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
