package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig // task list cache + token revocation (optional)
	NATS      NATSConfig  // task change events (optional)
	JWT       JWTConfig
	Log       LogConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name string
	Port string
	Env  string
}

type DatabaseConfig struct {
	Driver   string // postgres, memory
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig ว่างไว้ = ปิด cache และ token revocation
type RedisConfig struct {
	URL         string // redis://localhost:6379
	Password    string
	DB          int
	TaskListTTL time.Duration
}

// NATSConfig ว่างไว้ = ส่ง event ภายใน process อย่างเดียว
type NATSConfig struct {
	URL     string // nats://localhost:4222
	Subject string // prefix ของ subject, ต่อท้ายด้วย user id
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, file, both
	FilePath   string // logs/app.log
	MaxSize    int    // MB
	MaxBackups int    // จำนวน backup files
	MaxAge     int    // วัน
	Compress   bool   // บีบอัด backup
}

type CORSConfig struct {
	AllowOrigins string
}

// RateLimitConfig จำกัดจำนวนครั้งที่ login ได้ต่อ IP
type RateLimitConfig struct {
	LoginMax    int
	LoginWindow time.Duration
}

func LoadConfig() (*Config, error) {
	// ไม่ error ถ้าไม่มี .env file (ใช้ environment variables แทน)
	_ = godotenv.Load()

	logMaxSize, _ := strconv.Atoi(getEnv("LOG_MAX_SIZE", "100"))
	logMaxBackups, _ := strconv.Atoi(getEnv("LOG_MAX_BACKUPS", "5"))
	logMaxAge, _ := strconv.Atoi(getEnv("LOG_MAX_AGE", "30"))
	logCompress := getEnv("LOG_COMPRESS", "true") == "true"

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	loginMax, err := strconv.Atoi(getEnv("LOGIN_RATE_LIMIT_MAX", "15"))
	if err != nil || loginMax <= 0 {
		loginMax = 15
	}

	config := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "Todo API"),
			Port: getEnv("APP_PORT", "8009"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "todo"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			URL:         getEnv("REDIS_URL", ""),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          redisDB,
			TaskListTTL: getDuration("REDIS_TASK_LIST_TTL", 5*time.Minute),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", ""),
			Subject: getEnv("NATS_TASK_SUBJECT", "tasks.events"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
			Expiry: getDuration("JWT_EXPIRY", time.Hour),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE", "logs/app.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   logCompress,
		},
		CORS: CORSConfig{
			AllowOrigins: normalizeOrigins(getEnv("CORS_ALLOW_ORIGINS", "*")),
		},
		RateLimit: RateLimitConfig{
			LoginMax:    loginMax,
			LoginWindow: getDuration("LOGIN_RATE_LIMIT_WINDOW", 15*time.Minute),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getDuration รับค่าแบบ time.ParseDuration ("1h", "90s") ถ้า parse ไม่ได้ใช้ค่า default
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

// normalizeOrigins ตัดช่องว่างออกจาก comma-separated origins
// เช่น "http://a.com, http://b.com" -> "http://a.com,http://b.com"
func normalizeOrigins(s string) string {
	parts := strings.Split(s, ",")
	var origins []string
	for _, p := range parts {
		o := strings.TrimSpace(p)
		if o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ",")
}

// IsDevelopment ตรวจสอบว่าเป็น development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction ตรวจสอบว่าเป็น production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
