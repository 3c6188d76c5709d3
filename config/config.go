package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
type Config struct {
	AppName string `json:"appname"`
	AppEnv  string `json:"appenv"`
	AppPort uint16 `json:"appport"`
	GinMode string `json:"ginmode"`
	DBHost  string `json:"dbhost"`
	DBPort  uint16 `json:"dbport"`
	DBName  string `json:"dbname"`
	DBUSER  string `json:"dbuser"`
	DBPass  string `json:"dbpass"`

	JWTSecret string        `json:"-"`
	TokenTTL  time.Duration `json:"token_ttl"`

	AdminName     string `json:"admin_name"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"-"`

	SMTPHost string `json:"smtp_host"`
	SMTPPort int    `json:"smtp_port"`
	SMTPUser string `json:"smtp_user"`
	SMTPPass string `json:"-"`
	SMTPFrom string `json:"smtp_from"`

	RateLimit  int           `json:"rate_limit"`
	RateWindow time.Duration `json:"rate_window"`

	GeoIPDBPath string `json:"geoip_db_path"`
}

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		// A missing .env is fine, the process environment still applies.
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: no .env file loaded: %v", err)
		}

		appPort, _ := strconv.ParseUint(getEnv("APPPORT", "8080"), 10, 16)
		dbPort, _ := strconv.ParseUint(getEnv("DBPORT", "3306"), 10, 16)

		config = &Config{
			AppName: getEnv("APPNAME", "Therapist Booking API"),
			AppEnv:  os.Getenv("APPENV"),
			AppPort: uint16(appPort),
			GinMode: getEnv("GINMODE", "debug"),
			DBHost:  os.Getenv("DBHOST"),
			DBPort:  uint16(dbPort),
			DBName:  os.Getenv("DBNAME"),
			DBUSER:  os.Getenv("DBUSER"),
			DBPass:  os.Getenv("DBPASS"),

			JWTSecret: os.Getenv("JWTSECRET"),
			TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24*365)) * time.Hour,

			AdminName:     getEnv("ADMIN_NAME", "Administrator"),
			AdminEmail:    os.Getenv("ADMIN_EMAIL"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),

			SMTPHost: os.Getenv("SMTP_HOST"),
			SMTPPort: getEnvInt("SMTP_PORT", 587),
			SMTPUser: os.Getenv("SMTP_USER"),
			SMTPPass: os.Getenv("SMTP_PASS"),
			SMTPFrom: os.Getenv("SMTP_FROM"),

			RateLimit:  getEnvInt("RATE_LIMIT", 5),
			RateWindow: time.Duration(getEnvInt("RATE_WINDOW_MINUTES", 15)) * time.Minute,

			GeoIPDBPath: os.Getenv("GEOIP_DB_PATH"),
		}
	})
	return config
}

// ResetConfigForTest drops the cached configuration so the next LoadConfig call re-reads the environment.
func ResetConfigForTest() {
	config = nil
	once = sync.Once{}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// ConnectMySQL establishes a connection to a MySQL database using the configuration values.
// When APPENV is "test" an isolated in-memory sqlite database is returned instead.
func ConnectMySQL() (*gorm.DB, error) {
	if os.Getenv("APPENV") == "test" {
		dsn := fmt.Sprintf("file:booking_%d?mode=memory&cache=shared", time.Now().UnixNano())
		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
		if err != nil {
			return nil, err
		}
		// sqlite serializes writers; one connection keeps transactions deterministic.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}

	cfg := LoadConfig()
	// Build the Data Source Name (DSN) using the configuration values.
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.DBUSER, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	return db, nil
}
