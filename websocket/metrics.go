// Package websocket - websocket/metrics.go
// file: websocket/metrics.go

package websocket

import (
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"club-portal/logger"
)

// Namespace for all portal metrics
var metricsNamespace = "ClubPortal"

// putMetricData is the CloudWatch call behind every gauge. It stays nil
// until EnableMetrics runs, so local runs and tests make no AWS calls, and
// tests can swap it for a recording stub.
var (
	metricsMu     sync.Mutex
	putMetricData func(*cloudwatch.PutMetricDataInput) (*cloudwatch.PutMetricDataOutput, error)
)

// EnableMetrics turns on CloudWatch publishing.
func EnableMetrics() {
	client := cloudwatch.New(session.Must(session.NewSession()))
	metricsMu.Lock()
	putMetricData = client.PutMetricData
	metricsMu.Unlock()
}

// PublishClientCount pushes the current connected-client gauge.
func PublishClientCount(count int) {
	putMetric("ConnectedClients", float64(count), "Count")
}

// PublishMirrorUpdate counts an applied mirror update for a key.
func PublishMirrorUpdate(key string) {
	putMetric("MirrorUpdates_"+key, 1, "Count")
}

// PublishPendingRegistrations pushes the moderation queue depth.
func PublishPendingRegistrations(count int) {
	putMetric("PendingRegistrations", float64(count), "Count")
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------

// putMetric ships one datum on its own goroutine. Callers sit on the store's
// delivery path, so the network round-trip never happens inline.
func putMetric(metricName string, value float64, unit string) {
	metricsMu.Lock()
	put := putMetricData
	metricsMu.Unlock()
	if put == nil {
		return
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(metricsNamespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Timestamp:  aws.Time(time.Now()),
				Value:      aws.Float64(value),
				Unit:       aws.String(unit),
			},
		},
	}

	go func() {
		if _, err := put(input); err != nil {
			logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", metricName, err)
		}
	}()
}
