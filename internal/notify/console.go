package notify

import "fmt"

// ConsoleSink writes informational and error text to the given writer,
// prefixed like the teacher's chat transcript lines. It satisfies
// modality.Sink structurally (Info/Error) without importing that
// package, avoiding a dependency cycle back through store.
type ConsoleSink struct {
	Out interface{ Write([]byte) (int, error) }
}

func (c ConsoleSink) Info(msg string) {
	fmt.Fprintf(c.Out, "  %s\n", msg)
}

func (c ConsoleSink) Error(msg string) {
	fmt.Fprintf(c.Out, "! %s\n", msg)
}

// Notify implements Sink, rendering debug-worthy events when attached to
// a Bus with --debug enabled.
func (c ConsoleSink) Notify(e Event) {
	fmt.Fprintf(c.Out, "[%s] %s\n", e.Kind, e.Payload)
}
