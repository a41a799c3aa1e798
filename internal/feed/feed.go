package feed

import (
	"fmt"

	"trainer-booking/pkg/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// New builds the driver selected by FEED_DRIVER.
func New(config utils.FeedConfig, log *zap.Logger) (Feed, error) {
	switch config.Driver {
	case "", "memory":
		return NewHub(config.DedupSize, log), nil
	case "amqp":
		return NewAMQPFeed(config.RabbitURL, config.Exchange, config.DedupSize, log)
	case "redis":
		return NewRedisFeed(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		}, config.Exchange, config.DedupSize, log)
	default:
		return nil, fmt.Errorf("unknown feed driver %q", config.Driver)
	}
}
