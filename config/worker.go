package config

import "time"

const (
	defaultQueueCapacity = 64
	defaultMaxRetries    = 3
	defaultBaseDelay     = 2 * time.Second
	defaultSettleDelay   = 500 * time.Millisecond
)

// WorkerConfig controls the job queue and the single worker loop.
type WorkerConfig struct {
	// QueueCapacity bounds the in-memory job queue. Producers block when
	// the queue is full (backpressure, never dropped work).
	QueueCapacity int `env:"QUEUE_CAPACITY" envDefault:"64"`

	// MaxRetries is the number of processing attempts per job.
	MaxRetries int `env:"MAX_RETRIES" envDefault:"3"`

	// BaseDelay seeds the exponential backoff between attempts.
	BaseDelay time.Duration `env:"RETRY_BASE_DELAY" envDefault:"2s"`

	// SettleDelay is the fixed pause after each successful job, giving
	// the legacy backend time to settle before the next entry.
	SettleDelay time.Duration `env:"SETTLE_DELAY" envDefault:"500ms"`
}

// Sanitize applies guardrails to worker configuration values.
func (c *WorkerConfig) Sanitize() {
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = defaultQueueCapacity
	}
	if c.MaxRetries < 1 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = defaultBaseDelay
	}
	if c.SettleDelay < 0 {
		c.SettleDelay = defaultSettleDelay
	}
}
