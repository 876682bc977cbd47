package providers

import "time"

const (
	// shutdownTimeout caps how long a component may take to stop before
	// shutdown moves on without it.
	shutdownTimeout = 30 * time.Second
)
