package burst

import (
	"testing"

	"BurstSpectra/internal/model"
)

// classifyOne runs the rule chain over a single hand-built burst.
func classifyOne(src *fakeSource, packets []*model.PacketInfo) *model.Burst {
	src.packets = packets
	b := model.NewBurst(packets)
	a := &analysis{src: src, profile: testProfile(), bursts: []*model.Burst{b}}
	a.classifyBursts()
	return b
}

func TestClassifyBackground(t *testing.T) {
	b := classifyOne(&fakeSource{}, []*model.PacketInfo{
		pkt(0.0, 500, model.DirectionUplink, "", model.TCPPlainData),
		pkt(0.1, 500, model.DirectionDownlink, "", model.TCPPlainData),
	})
	if !b.HasTag(model.TagBackground) {
		t.Errorf("untracked burst should be background, got tags %v", b.Tags)
	}
	if b.Category() != model.CategoryBackground {
		t.Errorf("category = %v, want background", b.Category())
	}
}

func TestClassifyLongBurst(t *testing.T) {
	src := &fakeSource{}
	packets := []*model.PacketInfo{
		pkt(0.0, 60000, model.DirectionDownlink, "http", model.TCPPlainData),
		pkt(6.0, 60000, model.DirectionDownlink, "http", model.TCPPlainData),
	}
	src.packets = packets
	b := model.NewBurst(packets)
	a := &analysis{src: src, profile: testProfile(), bursts: []*model.Burst{b}}
	a.classifyBursts()

	if !b.HasTag(model.TagLong) {
		t.Errorf("long large burst should be tagged long, got %v", b.Tags)
	}
	if a.longBurstCount != 1 {
		t.Errorf("longBurstCount = %d, want 1", a.longBurstCount)
	}
}

func TestClassifyProtocolControlStacks(t *testing.T) {
	b := classifyOne(&fakeSource{}, []*model.PacketInfo{
		pkt(0.0, 0, model.DirectionUplink, "http", model.TCPEstablish),
		pkt(0.1, 0, model.DirectionUplink, "http", model.TCPClose),
	})
	if !b.HasTag(model.TagConnEstablish) || !b.HasTag(model.TagConnClose) {
		t.Errorf("control burst should stack establish and close, got %v", b.Tags)
	}
}

func TestClassifyZeroPayloadDupAckIsLossRecover(t *testing.T) {
	b := classifyOne(&fakeSource{}, []*model.PacketInfo{
		pkt(0.0, 0, model.DirectionUplink, "http", model.TCPAckDup),
	})
	if !b.HasTag(model.TagLossRecover) {
		t.Errorf("zero-payload dup-ack burst should be loss recovery, got %v", b.Tags)
	}
}

func TestClassifyServerDelay(t *testing.T) {
	b := classifyOne(&fakeSource{}, []*model.PacketInfo{
		pkt(0.0, 800, model.DirectionDownlink, "http", model.TCPPlainData),
		pkt(0.1, 0, model.DirectionUplink, "http", model.TCPPlainAck),
	})
	if !b.HasTag(model.TagServerDelay) {
		t.Errorf("downlink-initiated burst should be server delay, got %v", b.Tags)
	}
}

func TestClassifyLossDuplicate(t *testing.T) {
	b := classifyOne(&fakeSource{}, []*model.PacketInfo{
		pkt(0.0, 200, model.DirectionUplink, "http", model.TCPAckDup),
		pkt(0.1, 200, model.DirectionUplink, "http", model.TCPPlainData),
	})
	if !b.HasTag(model.TagLossDuplicate) {
		t.Errorf("burst opening with a dup ack should be loss duplicate, got %v", b.Tags)
	}
}

func TestClassifyUserInputTight(t *testing.T) {
	src := &fakeSource{
		userEvents: []model.UserEvent{
			{Type: model.EventScreenTouch, PressTime: 9.5, ReleaseTime: 9.6},
		},
	}
	b := classifyOne(src, []*model.PacketInfo{
		pkt(10.0, 200, model.DirectionUplink, "http", model.TCPPlainData),
	})
	if !b.HasTag(model.TagUserInput) {
		t.Errorf("burst 0.4s after a touch should be user input, got %v", b.Tags)
	}
}

func TestClassifyScreenRotation(t *testing.T) {
	src := &fakeSource{
		userEvents: []model.UserEvent{
			{Type: model.EventScreenLandscape, PressTime: 9.8, ReleaseTime: 9.9},
		},
	}
	b := classifyOne(src, []*model.PacketInfo{
		pkt(10.0, 200, model.DirectionUplink, "http", model.TCPPlainData),
	})
	if !b.HasTag(model.TagScreenRotation) {
		t.Errorf("burst after a rotation event should be screen rotation, got %v", b.Tags)
	}
	if b.Category() != model.CategoryScreenRotation {
		t.Errorf("category = %v, want screen-rotation", b.Category())
	}
}

func TestClassifyUserInputWithBusyCPU(t *testing.T) {
	// The event is 2.5s before the burst, outside the tight window; the
	// high CPU load over the gap still attributes the burst to the input.
	src := &fakeSource{
		userEvents: []model.UserEvent{
			{Type: model.EventScreenTouch, PressTime: 7.0, ReleaseTime: 7.5},
		},
		cpu: []model.CPUActivity{
			{Timestamp: 8.0, Usage: 0.9},
			{Timestamp: 9.0, Usage: 0.85},
		},
	}
	b := classifyOne(src, []*model.PacketInfo{
		pkt(10.0, 200, model.DirectionUplink, "http", model.TCPPlainData),
	})
	if !b.HasTag(model.TagUserInput) || !b.HasTag(model.TagCPUBusy) {
		t.Errorf("expected user input stacked with cpu busy, got %v", b.Tags)
	}
	if b.Category() != model.CategoryUser {
		t.Errorf("category = %v, want user", b.Category())
	}
}

func TestClassifyUserInputIdleCPUFallsThrough(t *testing.T) {
	src := &fakeSource{
		userEvents: []model.UserEvent{
			{Type: model.EventScreenTouch, PressTime: 7.0, ReleaseTime: 7.5},
		},
		cpu: []model.CPUActivity{
			{Timestamp: 8.0, Usage: 0.1},
		},
	}
	b := classifyOne(src, []*model.PacketInfo{
		pkt(10.0, 200, model.DirectionUplink, "http", model.TCPPlainData),
	})
	if b.HasTag(model.TagUserInput) {
		t.Errorf("idle CPU should not attribute the burst to the input, got %v", b.Tags)
	}
	if !b.HasTag(model.TagClientDelay) {
		t.Errorf("expected client delay fallback, got %v", b.Tags)
	}
}

func TestClassifyFallback(t *testing.T) {
	withPayload := classifyOne(&fakeSource{}, []*model.PacketInfo{
		pkt(0.0, 200, model.DirectionUplink, "http", model.TCPPlainData),
	})
	if !withPayload.HasTag(model.TagClientDelay) {
		t.Errorf("unexplained payload burst should be client delay, got %v", withPayload.Tags)
	}

	zeroPayload := classifyOne(&fakeSource{}, []*model.PacketInfo{
		pkt(0.0, 0, model.DirectionUplink, "http", model.TCPNone),
	})
	if !zeroPayload.HasTag(model.TagUnknown) {
		t.Errorf("unexplained empty burst should be unknown, got %v", zeroPayload.Tags)
	}
}
