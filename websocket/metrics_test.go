// file: websocket/metrics_test.go
package websocket

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swapMetricBackend installs a recording stub that holds every call open
// until release is closed, standing in for a slow CloudWatch endpoint.
func swapMetricBackend(t *testing.T) (got chan *cloudwatch.PutMetricDataInput, release chan struct{}) {
	t.Helper()
	got = make(chan *cloudwatch.PutMetricDataInput, 8)
	release = make(chan struct{})

	metricsMu.Lock()
	prev := putMetricData
	putMetricData = func(in *cloudwatch.PutMetricDataInput) (*cloudwatch.PutMetricDataOutput, error) {
		got <- in
		<-release
		return &cloudwatch.PutMetricDataOutput{}, nil
	}
	metricsMu.Unlock()

	t.Cleanup(func() {
		close(release)
		metricsMu.Lock()
		putMetricData = prev
		metricsMu.Unlock()
	})
	return got, release
}

func TestMetrics_PublishNeverBlocksTheCaller(t *testing.T) {
	got, _ := swapMetricBackend(t)

	// the backend is wedged open; publishing must still return immediately
	// because these run inside the store's delivery path
	done := make(chan struct{})
	go func() {
		PublishMirrorUpdate("posts")
		PublishPendingRegistrations(3)
		PublishClientCount(1)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("metric publishing blocked the caller")
	}

	// the three data arrive in whatever order the goroutines run
	names := make(map[string]bool)
	for i := 0; i < 3; i++ {
		select {
		case in := <-got:
			require.Len(t, in.MetricData, 1)
			assert.Equal(t, metricsNamespace, *in.Namespace)
			names[*in.MetricData[0].MetricName] = true
		case <-time.After(2 * time.Second):
			t.Fatal("datum never reached the backend")
		}
	}
	assert.True(t, names["MirrorUpdates_posts"])
	assert.True(t, names["PendingRegistrations"])
	assert.True(t, names["ConnectedClients"])
}

func TestMetrics_DisabledByDefault(t *testing.T) {
	metricsMu.Lock()
	enabled := putMetricData != nil
	metricsMu.Unlock()
	require.False(t, enabled)

	// no-op without a backend, no goroutines spawned
	PublishClientCount(0)
	PublishMirrorUpdate("notices")
}
