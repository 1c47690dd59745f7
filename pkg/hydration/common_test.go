package hydration

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"liyu1981.xyz/water-intake-service/pkg/cache"
	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/db"
	"liyu1981.xyz/water-intake-service/pkg/hydration/mocks"
	"liyu1981.xyz/water-intake-service/pkg/models"
)

// fixedNow is the clock every test Hydration runs on.
var fixedNow = time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)

func GetMockHydrationWithMemorySqliteDialector(t *testing.T, useMockIRegistry bool) (
	*gomock.Controller,
	*Hydration,
	*mocks.MockIRegistry,
) {
	ctrl := gomock.NewController(t)

	mockIRegistry := mocks.NewMockIRegistry(ctrl)
	dbInstance := db.MustOpen(db.UseNamedMemorySqliteDialector(uuid.NewString()))
	t.Cleanup(func() { _ = dbInstance.Close() })

	memCache := cache.NewMemoryCache(0)
	t.Cleanup(func() { _ = memCache.Close() })

	hydrationInstance := &Hydration{
		Db:    dbInstance,
		Cache: memCache,
		Now:   func() time.Time { return fixedNow },
	}
	hydrationInstance.WithDefaultServices()

	if useMockIRegistry {
		hydrationInstance.WithServices(ServiceOpts{Registry: mockIRegistry})
	}

	return ctrl, hydrationInstance, mockIRegistry
}

// seedUser stores a user owning a fresh sensor id.
func seedUser(t *testing.T, h *Hydration, bottleWeight *int) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "tester",
		SensorID:     "esp32-" + uuid.NewString()[:8],
		BottleWeight: bottleWeight,
		DailyGoal:    common.Ptr(2000),
	}
	require.NoError(t, h.Db.Conn.Create(user).Error)
	return user
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
