// internal/config/config.go
//
// Process configuration read from the environment (optionally seeded from .env).
//
//	PORT              listen port                    (5175)
//	LOG_LEVEL         zerolog level                  (info)
//	DB_PATH           SQLite file for history        (./data/duosweeper.db)
//	JWT_SECRET        HS256 key for seat tokens      (dev_secret_change_me)
//	SEAT_TOKEN_HOURS  seat token lifetime in hours   (12)
//	DAILY_SALT        salt for daily board seeds     (duosweeper)
//	CLIENT_ORIGIN     allowed CORS origin            (http://localhost:5173)
//	AUTO_FINALIZE     end won matches immediately    (false)
//	FINISHED_MINUTES  finished matches stay live     (30)

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	Port         string
	LogLevel     zerolog.Level
	DBPath       string
	JWTSecret    string
	SeatTokenTTL time.Duration
	DailySalt    string
	ClientOrigin string
	AutoFinalize bool
	FinishedTTL  time.Duration
}

// Load reads .env files (missing files are fine) and then the environment.
func Load(files ...string) Config {
	_ = godotenv.Load(files...)

	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     lvl,
		DBPath:       getEnv("DB_PATH", "./data/duosweeper.db"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		SeatTokenTTL: time.Duration(envInt("SEAT_TOKEN_HOURS", 12)) * time.Hour,
		DailySalt:    getEnv("DAILY_SALT", "duosweeper"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		AutoFinalize: envBool("AUTO_FINALIZE", false),
		FinishedTTL:  time.Duration(envInt("FINISHED_MINUTES", 30)) * time.Minute,
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil && n > 0 {
		return n
	}
	return def
}

func envBool(k string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(k)); err == nil {
		return b
	}
	return def
}
