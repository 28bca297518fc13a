package keyqueue

// Config tunes an Executor. Zero values take the defaults below.
type Config struct {
	QueueSize int // jobs waiting per key, default 32

	// ErrorHandler receives job errors and recovered panics. Optional.
	ErrorHandler func(key string, err error)
}

func (c Config) withDefaults() Config {
	if c.QueueSize <= 0 {
		c.QueueSize = 32
	}
	return c
}
