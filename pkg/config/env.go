package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvLogLevel = "LOG_LEVEL"

	EnvReadTimeout  = "READ_TIMEOUT"
	EnvWriteTimeout = "WRITE_TIMEOUT"

	EnvListLimit        = "LIST_LIMIT"
	EnvUpdateRetryLimit = "UPDATE_RETRY_LIMIT"

	EnvJWTSecret = "JWT_SECRET"
	EnvJWTExpiry = "JWT_EXPIRY"

	EnvBcryptCost = "BCRYPT_COST"

	EnvKafkaBrokers     = "KAFKA_BROKERS"
	EnvKafkaEventsTopic = "KAFKA_EVENTS_TOPIC"
)
