package config

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/smith3v/study-scheduler/pkg/logger"
)

type Config struct {
	Database  DatabaseConfig  `json:"database"`
	Logging   LoggingConfig   `json:"logging"`
	Rewards   RewardsConfig   `json:"rewards"`
	Reconcile ReconcileConfig `json:"reconcile"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	Port     int    `json:"port"`
	SSLMode  string `json:"sslmode"`
}

type LoggingConfig struct {
	Level     string `json:"level"`
	File      string `json:"file"`
	GormLevel string `json:"gorm_level"`
}

// RewardsConfig carries the product-tunable credit amounts. They are
// configuration rather than constants so deployments can adjust them
// without a rebuild.
type RewardsConfig struct {
	CorrectAnswer       int `json:"correct_answer"`
	IncorrectAnswer     int `json:"incorrect_answer"`
	FastAnswerBonus     int `json:"fast_answer_bonus"`
	FastAnswerMaxMillis int `json:"fast_answer_max_millis"`
	DailyBonus          int `json:"daily_bonus"`
}

// ReconcileConfig controls the background reconciliation dispatcher. It is
// passed to the dispatcher at construction.
type ReconcileConfig struct {
	Enabled              bool `json:"enabled"`
	Workers              int  `json:"workers"`
	QueueSize            int  `json:"queue_size"`
	DriftIntervalMinutes int  `json:"drift_interval_minutes"`
}

var AppConfig Config

func LoadConfig(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		logger.Error("failed to open config file", "error", err)
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&AppConfig); err != nil {
		logger.Error("failed to decode config file", "error", err)
		return err
	}

	applyEnvOverrides()
	applyDefaults()
	return nil
}

// applyEnvOverrides lets deployments keep database credentials out of the
// JSON file. A local .env is loaded when present; real environment variables
// win either way.
func applyEnvOverrides() {
	_ = godotenv.Load()

	if v := os.Getenv("STUDY_DB_HOST"); v != "" {
		AppConfig.Database.Host = v
	}
	if v := os.Getenv("STUDY_DB_USER"); v != "" {
		AppConfig.Database.User = v
	}
	if v := os.Getenv("STUDY_DB_PASSWORD"); v != "" {
		AppConfig.Database.Password = v
	}
	if v := os.Getenv("STUDY_DB_NAME"); v != "" {
		AppConfig.Database.DBName = v
	}
	if v := os.Getenv("STUDY_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			AppConfig.Database.Port = port
		} else {
			logger.Warn("ignoring invalid STUDY_DB_PORT", "value", v)
		}
	}
}

func applyDefaults() {
	if AppConfig.Rewards.CorrectAnswer == 0 {
		AppConfig.Rewards.CorrectAnswer = 10
	}
	if AppConfig.Rewards.FastAnswerBonus == 0 {
		AppConfig.Rewards.FastAnswerBonus = 5
	}
	if AppConfig.Rewards.FastAnswerMaxMillis == 0 {
		AppConfig.Rewards.FastAnswerMaxMillis = 5000
	}
	if AppConfig.Rewards.DailyBonus == 0 {
		AppConfig.Rewards.DailyBonus = 50
	}
	if AppConfig.Reconcile.Workers <= 0 {
		AppConfig.Reconcile.Workers = 2
	}
	if AppConfig.Reconcile.QueueSize <= 0 {
		AppConfig.Reconcile.QueueSize = 256
	}
	if AppConfig.Reconcile.DriftIntervalMinutes <= 0 {
		AppConfig.Reconcile.DriftIntervalMinutes = 60
	}
}
