package ws

// role distinguishes a connection's privileges within its bound session.
type role int

const (
	roleNone role = iota
	roleHost
	rolePlayer
)

// connState is the per-connection record the wire protocol's design
// call for: a code and role, resolved lazily as host_join/player_join
// messages arrive, so the directory never hands out long-lived session
// references that could dangle after a reap.
type connState struct {
	code          string
	role          role
	participantID string
}

func (c *connState) bound() bool {
	return c.role != roleNone
}
