package trace

import "BurstSpectra/internal/model"

// dirState tracks one direction of a TCP stream for protocol-control
// classification.
type dirState struct {
	seenAck    bool
	lastAckNum uint32
	lastWindow uint16
	highestEnd uint32
	haveSeq    bool
}

// streamState tracks both directions of a session.
type streamState struct {
	up   dirState
	down dirState

	// kaUp/kaDown mark an outstanding keep-alive probe per direction,
	// consumed by the first pure ack from the other side.
	kaUp   bool
	kaDown bool
}

func newStreamState() *streamState {
	return &streamState{}
}

// classify assigns the protocol-control classification of one packet from
// the stream's running state. The heuristics mirror common trace-analyzer
// behavior: handshake and teardown flags first, then keep-alive probes and
// retransmitted data, then the pure-ack family (zero window, window update,
// duplicate ack).
func (s *streamState) classify(raw *rawPacket, dir model.Direction) model.TCPInfo {
	ds, ownKA, peerKA := &s.up, &s.kaUp, &s.kaDown
	if dir == model.DirectionDownlink {
		ds, ownKA, peerKA = &s.down, &s.kaDown, &s.kaUp
	}

	switch {
	case raw.syn:
		return model.TCPEstablish
	case raw.fin:
		return model.TCPClose
	case raw.rst:
		return model.TCPReset
	}

	if len(raw.payload) > 0 {
		end := raw.seq + uint32(len(raw.payload))
		// A one-byte probe just below the highest sent sequence is a
		// keep-alive, not a retransmission.
		if ds.haveSeq && len(raw.payload) == 1 && raw.seq == ds.highestEnd-1 {
			*ownKA = true
			return model.TCPKeepAlive
		}
		if ds.haveSeq && end <= ds.highestEnd {
			return model.TCPDataDup
		}
		if !ds.haveSeq || end > ds.highestEnd {
			ds.highestEnd = end
			ds.haveSeq = true
		}
		return model.TCPPlainData
	}

	// Pure ack family.
	if *peerKA {
		*peerKA = false
		return model.TCPKeepAliveAck
	}
	if raw.window == 0 {
		return model.TCPZeroWindow
	}
	info := model.TCPPlainAck
	if ds.seenAck && raw.ackNum == ds.lastAckNum {
		if raw.window != ds.lastWindow {
			info = model.TCPWindowUpdate
		} else {
			info = model.TCPAckDup
		}
	}
	ds.seenAck = true
	ds.lastAckNum = raw.ackNum
	ds.lastWindow = raw.window
	return info
}
