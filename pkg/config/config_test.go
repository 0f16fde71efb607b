package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigSuccess(t *testing.T) {
	original := AppConfig
	t.Cleanup(func() {
		AppConfig = original
	})

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	content := `{
		"database": {
			"host": "localhost",
			"user": "test-user",
			"password": "test-pass",
			"dbname": "testdb",
			"port": 5433,
			"sslmode": "disable"
		},
		"rewards": {
			"correct_answer": 12,
			"fast_answer_bonus": 3
		},
		"reconcile": {
			"enabled": true,
			"workers": 4
		}
	}`

	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}

	if err := LoadConfig(configPath); err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if AppConfig.Database.Host != "localhost" {
		t.Errorf("expected host to be localhost, got %q", AppConfig.Database.Host)
	}
	if AppConfig.Database.Port != 5433 {
		t.Errorf("expected port to be 5433, got %d", AppConfig.Database.Port)
	}
	if AppConfig.Rewards.CorrectAnswer != 12 {
		t.Errorf("expected correct_answer to be 12, got %d", AppConfig.Rewards.CorrectAnswer)
	}
	if AppConfig.Rewards.FastAnswerBonus != 3 {
		t.Errorf("expected fast_answer_bonus to be 3, got %d", AppConfig.Rewards.FastAnswerBonus)
	}
	if !AppConfig.Reconcile.Enabled {
		t.Error("expected reconcile to be enabled")
	}
	if AppConfig.Reconcile.Workers != 4 {
		t.Errorf("expected 4 reconcile workers, got %d", AppConfig.Reconcile.Workers)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	original := AppConfig
	t.Cleanup(func() {
		AppConfig = original
	})
	AppConfig = Config{}

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(configPath, []byte(`{}`), 0o600); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}

	if err := LoadConfig(configPath); err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if AppConfig.Rewards.CorrectAnswer != 10 {
		t.Errorf("expected default correct_answer 10, got %d", AppConfig.Rewards.CorrectAnswer)
	}
	if AppConfig.Rewards.DailyBonus != 50 {
		t.Errorf("expected default daily_bonus 50, got %d", AppConfig.Rewards.DailyBonus)
	}
	if AppConfig.Rewards.FastAnswerMaxMillis != 5000 {
		t.Errorf("expected default fast_answer_max_millis 5000, got %d", AppConfig.Rewards.FastAnswerMaxMillis)
	}
	if AppConfig.Reconcile.Workers != 2 {
		t.Errorf("expected default 2 workers, got %d", AppConfig.Reconcile.Workers)
	}
	if AppConfig.Reconcile.QueueSize != 256 {
		t.Errorf("expected default queue size 256, got %d", AppConfig.Reconcile.QueueSize)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	original := AppConfig
	t.Cleanup(func() {
		AppConfig = original
	})

	if err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error when loading a missing config file")
	}
}
