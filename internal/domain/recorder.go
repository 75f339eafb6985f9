package domain

// recorder buffers events produced by an aggregate mutation until the
// application layer drains them for publication. Each aggregate embeds one
// instead of inheriting from a generic base type.
type recorder struct {
	events []Event
}

func (r *recorder) record(e Event) {
	r.events = append(r.events, e)
}

// CollectEvents returns the buffered events in recording order and clears
// the buffer. A second call returns nil until a new mutation records more.
func (r *recorder) CollectEvents() []Event {
	events := r.events
	r.events = nil
	return events
}
