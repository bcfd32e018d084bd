package kafka_client

import "time"

const (
	KAFKA_TOPIC_ANALYSIS_RESULTS = "analysis-results" // completed product/brand analyses
)

const (
	MAX_RETRIES      = 3
	RETRY_DELAY      = 2 * time.Second
	DELIVERY_TIMEOUT = 10 * time.Second
	FLUSH_TIMEOUT_MS = 5000
)
