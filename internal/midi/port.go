package midi

import (
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/hazyhaar/srscore/internal/errs"
)

// PortSource adapts a live MIDI input port into a Source, buffering
// incoming messages from the driver's callback so Record's polling loop
// can consume them with a timeout. Opening a physical device is the one
// genuinely out-of-scope piece of this package (spec.md §1 names MIDI
// device I/O as an external collaborator) — everything downstream of
// Recv is fully specified and tested without a real port.
type PortSource struct {
	events chan Event
	stop   func()
}

// OpenPort opens the named input port (as reported by the driver) and
// begins buffering its note events.
func OpenPort(name string) (*PortSource, error) {
	in, err := gomidi.FindInPort(name)
	if err != nil {
		return nil, errs.Modality("open midi port", err)
	}

	ps := &PortSource{events: make(chan Event, 64)}

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		select {
		case ps.events <- Event{Message: msg, At: time.Now()}:
		default:
			// drop if the consumer is behind; a live session can't apply backpressure to a keyboard.
		}
	})
	if err != nil {
		return nil, errs.Modality("listen midi port", err)
	}
	ps.stop = stop

	return ps, nil
}

// Recv implements Source by waiting up to timeout for the next buffered
// event.
func (p *PortSource) Recv(timeout time.Duration) (Event, bool, error) {
	select {
	case ev := <-p.events:
		return ev, true, nil
	case <-time.After(timeout):
		return Event{}, false, nil
	}
}

// Close stops listening and releases the port.
func (p *PortSource) Close() error {
	if p.stop != nil {
		p.stop()
	}
	return nil
}
