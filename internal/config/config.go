package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process configuration
type Config struct {
	MongoURI    string
	MongoDB     string
	RedisAddr   string
	HTTPPort    string
	JWTSecret   string
	LogLevel    string
	LogPretty   bool
	CORSOrigins string

	Game GameConfig
	WS   WSConfig
}

// GameConfig tunes the live room engine
type GameConfig struct {
	QuestionSampleSize int           // questions drawn when a room has no quiz
	TickInterval       time.Duration // countdown resolution
	FeedbackDelay      time.Duration
	IntermissionDelay  time.Duration
	GraceDelay         time.Duration // untimed mode, after the last answer
	PersistTimeout     time.Duration
}

// WSConfig holds gateway limits
type WSConfig struct {
	MessagesPerSecond float64
	Burst             int
}

// Load reads .env (if present) and the environment
func Load() *Config {
	// .env is optional outside local development
	_ = godotenv.Load()

	return &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "quizstorm"),
		RedisAddr:   strings.TrimPrefix(getEnv("REDIS_ADDR", "localhost:6379"), "redis://"),
		HTTPPort:    getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogPretty:   getEnvBool("LOG_PRETTY", false),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		Game: GameConfig{
			QuestionSampleSize: getEnvInt("QUESTION_SAMPLE_SIZE", 5),
			TickInterval:       time.Second,
			FeedbackDelay:      getEnvDuration("FEEDBACK_DELAY", 3*time.Second),
			IntermissionDelay:  getEnvDuration("INTERMISSION_DELAY", 5*time.Second),
			GraceDelay:         getEnvDuration("GRACE_DELAY", time.Second),
			PersistTimeout:     getEnvDuration("PERSIST_TIMEOUT", 10*time.Second),
		},
		WS: WSConfig{
			MessagesPerSecond: float64(getEnvInt("WS_MESSAGES_PER_SECOND", 10)),
			Burst:             getEnvInt("WS_BURST", 20),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
