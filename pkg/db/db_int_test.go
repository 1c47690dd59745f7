package db

import (
	"os"
	"path/filepath"
	"testing"

	"liyu1981.xyz/water-intake-service/pkg/common"
	_ "liyu1981.xyz/water-intake-service/pkg/testing"
)

func TestWithFilePath(t *testing.T) {
	common.SetTestLoggerNop()

	if os.Getenv(common.EnvKeyRunIntegrationTests) != "true" {
		t.Skip("Skipping integration test: RUN_INTEGRATION_TESTS environment variable not set")
	}

	testPath := filepath.Join(t.TempDir(), "test.db")

	instance, err := Open(UseSqliteDialector(testPath))
	if err != nil {
		t.Fatalf("Expected database to open: %v", err)
	}
	defer instance.Close()

	if _, err := os.Stat(testPath); os.IsNotExist(err) {
		t.Errorf("Expected database file to be created at %s", testPath)
	}
}
