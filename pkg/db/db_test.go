package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/config"
	"liyu1981.xyz/water-intake-service/pkg/models"
	_ "liyu1981.xyz/water-intake-service/pkg/testing"
)

func tableExists(db *gorm.DB, tableName string) bool {
	var count int64
	err := db.Raw(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, tableName,
	).Scan(&count).Error
	return err == nil && count > 0
}

func TestWithMemorySqlite(t *testing.T) {
	common.SetTestLoggerNop()

	instance, err := Open(UseNamedMemorySqliteDialector(uuid.NewString()))
	require.NoError(t, err)
	defer instance.Close()

	var tables = []string{"users", "consumption_records"}
	for _, table := range tables {
		if !tableExists(instance.Conn, table) {
			t.Errorf("Expected table %q to exist after migration", table)
		}
	}

	assert.NoError(t, instance.Ping(context.Background()))
}

func TestNamedMemoryDatabasesAreIsolated(t *testing.T) {
	common.SetTestLoggerNop()

	first := MustOpen(UseNamedMemorySqliteDialector(uuid.NewString()))
	defer first.Close()
	second := MustOpen(UseNamedMemorySqliteDialector(uuid.NewString()))
	defer second.Close()

	require.NoError(t, first.Conn.Create(&models.User{Name: "a", SensorID: "D1"}).Error)

	var count int64
	require.NoError(t, second.Conn.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestForeignKeyEnforced(t *testing.T) {
	common.SetTestLoggerNop()

	instance := MustOpen(UseNamedMemorySqliteDialector(uuid.NewString()))
	defer instance.Close()

	err := instance.Conn.Create(&models.ConsumptionRecord{SensorID: "unknown", Delta: 1}).Error
	assert.Error(t, err, "FOREIGN KEY constraint failed")
}

func TestUniqueSensorID(t *testing.T) {
	common.SetTestLoggerNop()

	instance := MustOpen(UseNamedMemorySqliteDialector(uuid.NewString()))
	defer instance.Close()

	require.NoError(t, instance.Conn.Create(&models.User{Name: "a", SensorID: "D1"}).Error)
	err := instance.Conn.Create(&models.User{Name: "b", SensorID: "D1"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestTransactionRollsBack(t *testing.T) {
	common.SetTestLoggerNop()

	instance := MustOpen(UseNamedMemorySqliteDialector(uuid.NewString()))
	defer instance.Close()

	err := instance.Transaction(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&models.User{Name: "a", SensorID: "D1"}).Error; err != nil {
			return err
		}
		return tx.Create(&models.ConsumptionRecord{SensorID: "missing", Delta: 1}).Error
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, instance.Conn.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDialectorFor(t *testing.T) {
	cases := []struct {
		cfg     config.DBConfig
		name    string
		wantErr bool
	}{
		{cfg: config.DBConfig{Type: "file", Path: "x.db"}, name: "sqlite"},
		{cfg: config.DBConfig{Type: "memory"}, name: "sqlite"},
		{cfg: config.DBConfig{Type: "postgres", DSN: "postgres://u:p@localhost:5432/water"}, name: "postgres"},
		{cfg: config.DBConfig{Type: "mysql", DSN: "u:p@tcp(localhost:3306)/water?parseTime=true"}, name: "mysql"},
		{cfg: config.DBConfig{Type: "oracle"}, wantErr: true},
	}

	for _, tt := range cases {
		dialector, err := DialectorFor(tt.cfg)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.name, dialector.Name())
	}
}
