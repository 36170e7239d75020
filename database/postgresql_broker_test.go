package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/l3montree-dev/policyguard/database"
	"github.com/l3montree-dev/policyguard/dtos"
	"github.com/l3montree-dev/policyguard/integrationtestutil"
	"github.com/l3montree-dev/policyguard/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgreSQLBroker(t *testing.T) {
	integrationtestutil.SkipIfShort(t)

	_, pool, terminate := integrationtestutil.InitDatabaseContainer()
	defer terminate()

	broker := database.NewPostgreSQLBroker(pool)
	defer broker.Close()

	ch, err := broker.Subscribe(shared.PipelineCompleted)
	require.NoError(t, err)

	err = broker.Publish(context.Background(), shared.NewPipelineCompletedMessage(dtos.PipelineCompletedEvent{
		PipelineID: 42,
		Ref:        "it's quoted",
	}))
	require.NoError(t, err)

	select {
	case payload := <-ch:
		assert.Equal(t, float64(42), payload["pipelineId"])
		assert.Equal(t, "it's quoted", payload["ref"])
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for notification")
	}

	assert.True(t, broker.IsHealthy(shared.PipelineCompleted))
}
