package nakama

import (
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"

	"studyparty/internal/app"
)

// eventOpCodes maps app event kinds to wire op codes.
var eventOpCodes = map[string]int64{
	app.EventParticipantJoined:     OpParticipantJoined,
	app.EventParticipantLeft:       OpParticipantLeft,
	app.EventGameStarted:           OpGameStarted,
	app.EventRoundStarted:          OpRoundStarted,
	app.EventAnswerResolved:        OpAnswerResolved,
	app.EventParticipantEliminated: OpParticipantEliminated,
	app.EventGameEnded:             OpGameEnded,
	app.EventExplanationSubmitted:  OpExplanationSubmitted,
	app.EventVotingStarted:         OpVotingStarted,
	app.EventVoteCast:              OpVoteCast,
	app.EventRoundResults:          OpRoundResults,
	app.EventCellPicked:            OpCellPicked,
	app.EventScoreAwarded:          OpScoreAwarded,
	app.EventReturnedToLobby:       OpReturnedToLobby,
}

// dispatcherSync bridges app events onto the Nakama match dispatcher. The
// dispatcher and logger are only valid inside a match callback, so the
// handler refreshes them at the top of every callback before touching the
// services.
type dispatcherSync struct {
	dispatcher runtime.MatchDispatcher
	logger     runtime.Logger
}

func (d *dispatcherSync) update(dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	d.dispatcher = dispatcher
	d.logger = logger
}

// Broadcast sends the event to every connected presence. Failures are
// logged and swallowed; game state never depends on delivery.
func (d *dispatcherSync) Broadcast(roomID, event string, payload any) {
	if d.dispatcher == nil {
		return
	}
	opCode, ok := eventOpCodes[event]
	if !ok {
		if d.logger != nil {
			d.logger.Warn("Broadcast: no op code for event %q", event)
		}
		return
	}
	var data []byte
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			if d.logger != nil {
				d.logger.Error("Broadcast: failed to marshal %s payload: %v", event, err)
			}
			return
		}
	}
	if err := d.dispatcher.BroadcastMessage(opCode, data, nil, nil, true); err != nil && d.logger != nil {
		d.logger.Error("Broadcast: failed to send %s: %v", event, err)
	}
}
