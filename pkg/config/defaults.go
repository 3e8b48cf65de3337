package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "voyago"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultLogLevel = "info"

	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 15 * time.Second

	// DefaultListLimit caps a single backend list page. Listing has no
	// continuation cursor, so this is also the ceiling for scans.
	DefaultListLimit = 1000

	// DefaultUpdateRetryLimit bounds retries of versioned read-modify-write
	// sequences (rating aggregation, refund processing) on version conflict.
	DefaultUpdateRetryLimit = 3

	DefaultJWTExpiry = 24 * time.Hour

	DefaultBcryptCost = 10

	DefaultKafkaEventsTopic = "voyago.domain-events"
)
