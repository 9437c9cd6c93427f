package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	mysqldriver "gorm.io/driver/mysql"
	pgdriver "gorm.io/driver/postgres"
	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/LordOfNightmares/srvpro/models"
)

// Config is the connection descriptor for the persistence layer. It is
// built once at startup and passed by value; there is no package-level
// connection state.
type Config struct {
	Engine      string // "mysql", "postgres" or "sqlite"
	Host        string
	Port        string
	User        string
	Password    string
	Database    string // database name, or the file path for sqlite
	Synchronize bool   // run schema synchronization after connecting
	Verbose     bool   // log every SQL statement
}

// FromEnv builds a Config from the environment, loading a .env file if
// one is present.
func FromEnv() Config {
	godotenv.Load()

	cfg := Config{
		Engine:      os.Getenv("DB_ENGINE"),
		Host:        os.Getenv("DB_HOST"),
		Port:        os.Getenv("DB_PORT"),
		User:        os.Getenv("DB_USER"),
		Password:    os.Getenv("DB_PASSWORD"),
		Database:    os.Getenv("DB_DATABASE"),
		Synchronize: os.Getenv("DB_SYNCHRONIZE") == "true",
		Verbose:     os.Getenv("VERBOSE_DB") == "true",
	}
	if cfg.Engine == "" {
		cfg.Engine = "mysql"
	}
	return cfg
}

// Connect opens the configured engine and returns a GORM DB instance.
func Connect(cfg Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{}
	if cfg.Verbose {
		newLogger := logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold: time.Second,
				LogLevel:      logger.Info,
				Colorful:      true,
			},
		)
		gormConfig.Logger = newLogger
	}

	var dialector gorm.Dialector
	switch cfg.Engine {
	case "", "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
		dialector = mysqldriver.Open(dsn)
	case "postgres":
		// NOTE: See https://github.com/go-gorm/gorm/issues/5409
		dsn := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, err
		}
		dialector = pgdriver.New(pgdriver.Config{
			Conn:                 sqlDB,
			PreferSimpleProtocol: true,
		})
	case "sqlite":
		dialector = sqlitedriver.Open(cfg.Database)
	default:
		return nil, fmt.Errorf("unsupported database engine %q", cfg.Engine)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if cfg.Synchronize {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate synchronizes the schema for every entity this layer owns.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.CloudReplay{},
		&models.CloudReplayPlayer{},
		&models.Ban{},
		&models.RandomDuelBan{},
		&models.DuelLog{},
		&models.DuelLogPlayer{},
		&models.User{},
		&models.UserDialog{},
		&models.VipKey{},
	)
	if err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}
