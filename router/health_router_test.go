package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/l3montree-dev/policyguard/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroker struct {
	healthy bool
	topics  []shared.PubSubChannel
}

func (b fakeBroker) IsHealthy(expected ...shared.PubSubChannel) bool {
	return b.healthy
}

func (b fakeBroker) GetActiveTopics() []shared.PubSubChannel {
	return b.topics
}

type fakeLeader bool

func (l fakeLeader) IsLeader() bool {
	return bool(l)
}

func serve(t *testing.T, broker BrokerHealth, path string) *httptest.ResponseRecorder {
	t.Helper()
	e := NewHealthRouter(nil, broker, fakeLeader(true))
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthRouter(t *testing.T) {
	t.Run("should report healthy when the broker listens", func(t *testing.T) {
		rec := serve(t, fakeBroker{healthy: true}, "/health/")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	})

	t.Run("should report unhealthy when the broker lost its subscriptions", func(t *testing.T) {
		rec := serve(t, fakeBroker{healthy: false}, "/health/")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "broker is not listening")
	})

	t.Run("should expose prometheus metrics", func(t *testing.T) {
		rec := serve(t, fakeBroker{healthy: true}, "/metrics/")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "go_goroutines")
	})

	t.Run("should list the active topics in the info response", func(t *testing.T) {
		rec := serve(t, fakeBroker{healthy: true, topics: []shared.PubSubChannel{shared.PipelineCompleted}}, "/info/")
		require.Equal(t, http.StatusOK, rec.Code)

		var info InfoResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
		assert.True(t, info.Broker.Healthy)
		assert.Equal(t, []string{"pipelineCompleted"}, info.Broker.ActiveTopics)
		assert.Equal(t, []string{"policyChange"}, info.Broker.MissingTopics)
		assert.Equal(t, "unknown", info.Database.Status)
		assert.NotZero(t, info.Worker.PID)
		assert.True(t, info.Worker.Leader)
	})
}
