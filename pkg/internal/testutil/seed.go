package testutil

import (
	"encoding/json"
	"testing"

	"github.com/smith3v/study-scheduler/pkg/db"
	"gorm.io/datatypes"
)

func MustCreate(t *testing.T, value any) {
	t.Helper()
	if err := db.DB.Create(value).Error; err != nil {
		t.Fatalf("failed to create %T fixture: %v", value, err)
	}
}

func OptionsJSON(t *testing.T, options ...string) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(options)
	if err != nil {
		t.Fatalf("failed to marshal options: %v", err)
	}
	return datatypes.JSON(raw)
}
