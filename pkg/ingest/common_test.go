package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/db"
	"liyu1981.xyz/water-intake-service/pkg/hydration"
	"liyu1981.xyz/water-intake-service/pkg/models"
)

const testTopic = "/weight_change"

type published struct {
	topic   string
	qos     byte
	payload string
}

// fakeTransport delivers messages from the test goroutine.
type fakeTransport struct {
	connectErr   error
	subscribeErr error

	mu        sync.Mutex
	handler   Handler
	topic     string
	qos       byte
	lost      chan error
	closed    bool
	published []published
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{lost: make(chan error, 1)}
}

func (f *fakeTransport) Connect(ctx context.Context) error {
	return f.connectErr
}

func (f *fakeTransport) Subscribe(ctx context.Context, topic string, qos byte, handler Handler) error {
	if f.subscribeErr != nil {
		return f.subscribeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = handler
	f.topic = topic
	f.qos = qos
	return nil
}

func (f *fakeTransport) Done() <-chan error {
	return f.lost
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) Publish(ctx context.Context, topic string, qos byte, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, published{topic: topic, qos: qos, payload: string(payload)})
	return nil
}

func (f *fakeTransport) Deliver(payloads ...string) {
	f.mu.Lock()
	handler := f.handler
	f.mu.Unlock()
	for _, p := range payloads {
		handler(Message{Topic: testTopic, Payload: []byte(p)})
	}
}

// recordingReporter keeps outcomes on top of the log reporter counters.
type recordingReporter struct {
	*LogReporter
	mu       sync.Mutex
	outcomes []Outcome
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{LogReporter: NewLogReporter()}
}

func (r *recordingReporter) Report(outcome Outcome) {
	r.LogReporter.Report(outcome)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordingReporter) Outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Outcome(nil), r.outcomes...)
}

func newTestHydration(t *testing.T) *hydration.Hydration {
	t.Helper()
	dbInstance := db.MustOpen(db.UseNamedMemorySqliteDialector(uuid.NewString()))
	t.Cleanup(func() { _ = dbInstance.Close() })
	return (&hydration.Hydration{Db: dbInstance}).WithDefaultServices()
}

func seedDevice(t *testing.T, h *hydration.Hydration, sensorID string, tare int) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "tester",
		SensorID:     sensorID,
		BottleWeight: common.Ptr(tare),
		DailyGoal:    common.Ptr(2000),
	}
	require.NoError(t, h.Db.Conn.Create(user).Error)
	return user
}

func recordsOf(t *testing.T, h *hydration.Hydration, sensorID string) []models.ConsumptionRecord {
	t.Helper()
	var records []models.ConsumptionRecord
	require.NoError(t, h.Db.Conn.Where("sensor_id = ?", sensorID).Order("id").Find(&records).Error)
	return records
}

func countRecords(t *testing.T, h *hydration.Hydration) int64 {
	t.Helper()
	var count int64
	require.NoError(t, h.Db.Conn.Model(&models.ConsumptionRecord{}).Count(&count).Error)
	return count
}

func steppingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(step)
		return current
	}
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
