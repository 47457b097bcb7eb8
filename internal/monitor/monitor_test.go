package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ping-monitor/internal/config"
	"ping-monitor/internal/metrics"
	"ping-monitor/internal/models"
)

type fakeStore struct {
	models.Store

	mu          sync.Mutex
	saved       []models.Event
	maintenance int
}

func (s *fakeStore) SaveEvent(event models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, event)
	return nil
}

func (s *fakeStore) AggregateHourlyPatterns() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maintenance++
	return nil
}

func (s *fakeStore) ArchiveOldData() error { return nil }

func (s *fakeStore) savedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

// fakeProber succeeds for every host except "down"
type fakeProber struct{}

func (fakeProber) Probe(ctx context.Context, host string, timeout time.Duration) models.Event {
	if host == "down" {
		return models.NewFailureEvent(time.Now(), host, "exit status 2")
	}
	return models.NewSuccessEvent(time.Now(), host, &models.RoundTripStatistics{Min: 1, Max: 3, Average: 2, StandardDeviation: 0.5})
}

func testConfig(targets ...string) config.Config {
	return config.Config{
		Targets:  targets,
		Interval: 10 * time.Millisecond,
		Timeout:  time.Second,
	}
}

func TestMonitorRecordsAndSaves(t *testing.T) {
	store := &fakeStore{}
	m := New(testConfig("up", "down"), store, fakeProber{}, metrics.NewWithRegistry(prometheus.NewRegistry()))

	require.NoError(t, m.Start(context.Background()))

	require.Eventually(t, func() bool {
		return store.savedCount() >= 6
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	m.Wait()

	summaries := m.Summaries()
	require.Len(t, summaries, 2)

	down, up := summaries[0], summaries[1]
	assert.Equal(t, "down", down.Host)
	assert.Equal(t, 0, down.SuccessCount)
	assert.Equal(t, down.AttemptCount, down.FailureCount)
	if assert.NotNil(t, down.SuccessRate) {
		assert.Equal(t, 0.0, *down.SuccessRate)
	}
	assert.Nil(t, down.Latest)

	assert.Equal(t, "up", up.Host)
	assert.Equal(t, up.AttemptCount, up.SuccessCount)
	if assert.NotNil(t, up.Latest) {
		assert.Equal(t, 2.0, up.Latest.Average)
	}

	store.mu.Lock()
	assert.GreaterOrEqual(t, store.maintenance, 1)
	store.mu.Unlock()
}

func TestMonitorSummariesBeforeStart(t *testing.T) {
	m := New(testConfig("192.0.2.1"), &fakeStore{}, fakeProber{}, nil)

	summaries := m.Summaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, 0, summaries[0].AttemptCount)
	assert.Nil(t, summaries[0].SuccessRate, "rate is undefined before any attempt")

	text, ok := m.Summary("192.0.2.1")
	require.True(t, ok)
	assert.Equal(t, "attempt count: 0\nsuccess count: 0\nsuccess rate: NaN", text)

	_, ok = m.Summary("unknown")
	assert.False(t, ok)
}

func TestMonitorRecordUnknownHost(t *testing.T) {
	m := New(testConfig("192.0.2.1"), &fakeStore{}, fakeProber{}, nil)
	m.Record(models.NewSuccessEvent(time.Now(), "198.51.100.1", nil))
	m.Record(models.NewFailureEvent(time.Now(), "198.51.100.1", "timeout"))

	text, ok := m.Summary("198.51.100.1")
	require.True(t, ok)
	assert.Equal(t, "attempt count: 2\nsuccess count: 1\nsuccess rate: 0.5", text)
}

func TestMonitorConcurrentRecord(t *testing.T) {
	m := New(testConfig("192.0.2.1"), &fakeStore{}, fakeProber{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.Record(models.NewSuccessEvent(time.Now(), "192.0.2.1", nil))
				m.Summaries()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 400, m.Summaries()[0].AttemptCount)
}

// busyProber ignores cancellation so probes are in flight while the monitor stops
type busyProber struct{}

func (busyProber) Probe(ctx context.Context, host string, timeout time.Duration) models.Event {
	time.Sleep(time.Millisecond)
	return models.NewSuccessEvent(time.Now(), host, nil)
}

func TestMonitorSavesEveryRecordedEvent(t *testing.T) {
	for i := 0; i < 20; i++ {
		store := &fakeStore{}
		cfg := testConfig("192.0.2.1", "198.51.100.1", "203.0.113.1")
		cfg.Interval = time.Millisecond
		m := New(cfg, store, busyProber{}, nil)

		require.NoError(t, m.Start(context.Background()))
		time.Sleep(time.Duration(5+i) * time.Millisecond)
		require.NoError(t, m.Stop())
		m.Wait()

		recorded := 0
		for _, s := range m.Summaries() {
			recorded += s.AttemptCount
		}
		assert.Equal(t, recorded, store.savedCount(), "run %d: recorded events must all be saved", i)
	}
}
