package trace

import (
	"testing"

	"BurstSpectra/internal/model"
)

func TestClassifyHandshakeAndTeardown(t *testing.T) {
	s := newStreamState()

	if got := s.classify(&rawPacket{syn: true}, model.DirectionUplink); got != model.TCPEstablish {
		t.Errorf("SYN = %v, want establish", got)
	}
	if got := s.classify(&rawPacket{fin: true, ack: true}, model.DirectionUplink); got != model.TCPClose {
		t.Errorf("FIN = %v, want close", got)
	}
	if got := s.classify(&rawPacket{rst: true}, model.DirectionDownlink); got != model.TCPReset {
		t.Errorf("RST = %v, want reset", got)
	}
}

func TestClassifyDataAndRetransmission(t *testing.T) {
	s := newStreamState()

	first := &rawPacket{seq: 1000, payload: make([]byte, 100), window: 65535}
	if got := s.classify(first, model.DirectionUplink); got != model.TCPPlainData {
		t.Errorf("new data = %v, want plain data", got)
	}

	retrans := &rawPacket{seq: 1000, payload: make([]byte, 100), window: 65535}
	if got := s.classify(retrans, model.DirectionUplink); got != model.TCPDataDup {
		t.Errorf("retransmitted data = %v, want data dup", got)
	}

	next := &rawPacket{seq: 1100, payload: make([]byte, 100), window: 65535}
	if got := s.classify(next, model.DirectionUplink); got != model.TCPPlainData {
		t.Errorf("advancing data = %v, want plain data", got)
	}
}

func TestClassifyDirectionsTrackedSeparately(t *testing.T) {
	s := newStreamState()

	up := &rawPacket{seq: 1000, payload: make([]byte, 100), window: 65535}
	if got := s.classify(up, model.DirectionUplink); got != model.TCPPlainData {
		t.Fatalf("uplink data = %v, want plain data", got)
	}
	// Same sequence range on the other direction is fresh data there.
	down := &rawPacket{seq: 1000, payload: make([]byte, 100), window: 65535}
	if got := s.classify(down, model.DirectionDownlink); got != model.TCPPlainData {
		t.Errorf("downlink data = %v, want plain data", got)
	}
}

func TestClassifyKeepAliveProbe(t *testing.T) {
	s := newStreamState()

	data := &rawPacket{seq: 1000, payload: make([]byte, 100), window: 65535}
	if got := s.classify(data, model.DirectionUplink); got != model.TCPPlainData {
		t.Fatalf("data = %v, want plain data", got)
	}

	// One garbage byte just below the highest sent sequence.
	probe := &rawPacket{seq: 1099, payload: make([]byte, 1), window: 65535}
	if got := s.classify(probe, model.DirectionUplink); got != model.TCPKeepAlive {
		t.Errorf("probe = %v, want keep-alive", got)
	}

	ack := &rawPacket{ack: true, ackNum: 1100, window: 65535}
	if got := s.classify(ack, model.DirectionDownlink); got != model.TCPKeepAliveAck {
		t.Errorf("probe reply = %v, want keep-alive ack", got)
	}

	// The next downlink ack is ordinary again.
	if got := s.classify(&rawPacket{ack: true, ackNum: 1200, window: 65535}, model.DirectionDownlink); got != model.TCPPlainAck {
		t.Errorf("later ack = %v, want plain ack", got)
	}
}

func TestClassifyAckFamily(t *testing.T) {
	s := newStreamState()

	if got := s.classify(&rawPacket{ack: true, ackNum: 500, window: 0}, model.DirectionDownlink); got != model.TCPZeroWindow {
		t.Errorf("zero window = %v", got)
	}
	if got := s.classify(&rawPacket{ack: true, ackNum: 500, window: 1000}, model.DirectionDownlink); got != model.TCPPlainAck {
		t.Errorf("first ack = %v, want plain ack", got)
	}
	if got := s.classify(&rawPacket{ack: true, ackNum: 500, window: 2000}, model.DirectionDownlink); got != model.TCPWindowUpdate {
		t.Errorf("same ack new window = %v, want window update", got)
	}
	if got := s.classify(&rawPacket{ack: true, ackNum: 500, window: 2000}, model.DirectionDownlink); got != model.TCPAckDup {
		t.Errorf("repeated ack = %v, want ack dup", got)
	}
	if got := s.classify(&rawPacket{ack: true, ackNum: 600, window: 2000}, model.DirectionDownlink); got != model.TCPPlainAck {
		t.Errorf("advancing ack = %v, want plain ack", got)
	}
}
