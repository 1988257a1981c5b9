package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SessionCounter reports live aiming sessions.
type SessionCounter interface {
	Active() int
}
