package container

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ConsumerConfig configures cmd/consumer. It is read from the environment only.
type ConsumerConfig struct {
	RedisAddr        string `env:"REDIS_ADDR"         envDefault:"localhost:6379"`
	ReplicaRedisAddr string `env:"REPLICA_REDIS_ADDR" envDefault:"localhost:6380"`
	ConsumerGroup    string `env:"CONSUMER_GROUP"     envDefault:"replicator"`
	LogFormat        string `env:"LOG_FORMAT"         envDefault:"console"`
}

// LoadConsumerConfig parses ConsumerConfig from the process environment.
func LoadConsumerConfig() (*ConsumerConfig, error) {
	cfg, err := env.ParseAs[ConsumerConfig]()
	if err != nil {
		return nil, fmt.Errorf("parse consumer config: %w", err)
	}

	return &cfg, nil
}

// Options maps the consumer settings onto the Options read by the shared
// logger and redis packages.
func (c *ConsumerConfig) Options() *Options {
	return &Options{
		RedisAddr: c.RedisAddr,
		LogFormat: c.LogFormat,
	}
}
