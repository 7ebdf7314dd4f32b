package app

import "strings"

// participant is the session-internal record for a joined player. It is
// mutated only inside the owning GameSession's lock.
type participant struct {
	id    string
	name  string
	score int
	conn  Conn // nil once tombstoned (disconnected)
}

func (p *participant) live() bool {
	return p.conn != nil
}

func (p *participant) tombstone() {
	p.conn = nil
}

func sameNameFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
