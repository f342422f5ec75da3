package searchindex

// Config holds configuration for the Redis-backed search index.
type Config struct {
	// Addr is the host:port of the Redis server.
	Addr string `mapstructure:"addr" default:"localhost:6379"`
	// Password is the Redis password, if any.
	Password string `mapstructure:"password" default:""`
	// DB selects the logical Redis database.
	DB int `mapstructure:"db" default:"0"`
	// Prefix namespaces every key written by the index mirror.
	Prefix string `mapstructure:"prefix" default:"tattoo"`
	// TimeoutSeconds bounds dial, read and write operations.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5"`
}
