package store

import "github.com/hazyhaar/srscore/internal/notify"

// sqlEventSink persists every bus event into the events table — the
// store attaches one to its own bus on Create and Open, so
// notify.Bus.Record's fan-out always reaches disk even when no --debug
// console sink is attached. A write failure here is swallowed: losing a
// telemetry row is not worth aborting whatever operation emitted it.
type sqlEventSink struct {
	s *Store
}

func (k sqlEventSink) Notify(ev notify.Event) {
	k.s.db.Exec(
		`INSERT INTO events (id, stamp, session_id, kind, payload) VALUES (?, ?, ?, ?, ?)`,
		ev.ID, k.s.clock.Now(), ev.SessionID, ev.Kind, ev.Payload,
	)
}
