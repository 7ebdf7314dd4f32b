package app

// Conn abstracts a single duplex connection (host or player) far enough
// that the session runtime never touches gorilla/websocket directly. The
// transport layer's connection wrapper implements this.
type Conn interface {
	// Send encodes and writes a single outbound message. Implementations
	// must not block the caller indefinitely and must be safe to call
	// concurrently with themselves (but not with each other's state).
	Send(v any) error
}

// sendJob pairs a recipient with a message to deliver. Building a batch of
// these while holding the session lock, then delivering them after
// unlocking, is what keeps the broadcast layer from doing network I/O
// inside the session's critical section.
type sendJob struct {
	conn Conn
	msg  any
}

func deliver(jobs []sendJob) {
	for _, j := range jobs {
		if j.conn == nil {
			continue
		}
		// Swallow send errors: a dead connection is
		// detected and cleaned up by the transport layer, not here.
		_ = j.conn.Send(j.msg)
	}
}

// broadcastToPlayers fans a message out to every participant with a live
// connection. Participants with a tombstoned (nil) connection are skipped.
func broadcastToPlayers(participants []*participant, msg any) []sendJob {
	jobs := make([]sendJob, 0, len(participants))
	for _, p := range participants {
		if p.conn == nil {
			continue
		}
		jobs = append(jobs, sendJob{conn: p.conn, msg: msg})
	}
	return jobs
}

// sendToHost delivers a message to the host connection, if any is bound.
func sendToHost(host Conn, msg any) []sendJob {
	if host == nil {
		return nil
	}
	return []sendJob{{conn: host, msg: msg}}
}

// sendToOne delivers a message to a single connection.
func sendToOne(conn Conn, msg any) []sendJob {
	if conn == nil {
		return nil
	}
	return []sendJob{{conn: conn, msg: msg}}
}
