package app

// recordingSync captures broadcast events for assertions.
type recordingSync struct {
	events []recordedEvent
}

type recordedEvent struct {
	RoomID  string
	Kind    string
	Payload any
}

func (rs *recordingSync) Broadcast(roomID, event string, payload any) {
	rs.events = append(rs.events, recordedEvent{RoomID: roomID, Kind: event, Payload: payload})
}

func (rs *recordingSync) last(kind string) (recordedEvent, bool) {
	for i := len(rs.events) - 1; i >= 0; i-- {
		if rs.events[i].Kind == kind {
			return rs.events[i], true
		}
	}
	return recordedEvent{}, false
}

func (rs *recordingSync) count(kind string) int {
	n := 0
	for _, ev := range rs.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}
