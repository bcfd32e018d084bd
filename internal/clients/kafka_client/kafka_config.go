package kafka_client

import "os"

type KafkaConfig struct {
	Broker string
	Topic  string
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

// GetKafkaConfig returns an empty Broker when KAFKA_BROKER is unset, which
// disables publishing.
func GetKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Broker: getEnv("KAFKA_BROKER", ""),
		Topic:  getEnv("KAFKA_TOPIC_ANALYSIS_RESULTS", KAFKA_TOPIC_ANALYSIS_RESULTS),
	}
}
