package ports

// RoomSync is the point where committed room state transitions are handed to
// a real transport for broadcast to remote participants. The engine invokes
// it fire-and-forget after every committed phase or roster transition and
// never consumes a result; a failing implementation must log and swallow the
// failure rather than let it affect local state.
type RoomSync interface {
	Broadcast(roomID, event string, payload any)
}

// NoopSync discards every event. It backs purely local pass-and-play rooms
// and tests.
type NoopSync struct{}

func (NoopSync) Broadcast(string, string, any) {}
