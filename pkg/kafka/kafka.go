package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

const TopicBorrowEvents = "librisys.borrow-events"

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS"`
}

// Enabled reports whether event publishing is configured at all.
func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

// EventBorrow is published on every borrow-lifecycle transition and on
// fine payments. Consumers are external; the service only produces.
type EventBorrow struct {
	Timestamp time.Time `json:"timestamp"`
	RecordID  int       `json:"recordId"`
	BookID    int       `json:"bookId"`
	UserID    int       `json:"userId"`
	EventType string    `json:"eventType"`
	Amount    float64   `json:"amount,omitempty"`
}

const (
	EventRequested = "REQUESTED"
	EventApproved  = "APPROVED"
	EventRejected  = "REJECTED"
	EventReturned  = "RETURNED"
	EventFinePaid  = "FINE_PAID"
)

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}
