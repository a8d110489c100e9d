package model

// RRCState enumerates the radio power states the analyzed device can be in.
// The 3G states model the idle/FACH/DCH machine with promotion and tail
// phases; the LTE and WiFi states are their counterparts for those radios.
type RRCState int

const (
	RRCIdle RRCState = iota
	RRCPromoIdleDCH
	RRCPromoFACHDCH
	RRCDCH
	RRCDCHTail
	RRCFACH
	RRCFACHTail
	RRCLTEIdle
	RRCLTEPromotion
	RRCLTEContinuous
	RRCLTEContinuousTail
	RRCLTEDRXShort
	RRCLTEDRXLong
	RRCWiFiActive
	RRCWiFiTail
	RRCWiFiIdle
)

// IsActive reports whether the state counts toward a burst's active radio
// time: the channel-active and channel-tail states of each radio technology.
func (s RRCState) IsActive() bool {
	switch s {
	case RRCDCH, RRCDCHTail, RRCLTEContinuous, RRCLTEContinuousTail, RRCWiFiActive, RRCWiFiTail:
		return true
	}
	return false
}

// IsPromotion reports whether the state is one of the promotion transitions
// whose duration the time normalizer subtracts from packet timestamps.
func (s RRCState) IsPromotion() bool {
	return s == RRCPromoIdleDCH || s == RRCPromoFACHDCH
}

// RRCStateRange is one timestamped interval [BeginTime, EndTime) during
// which the radio stays in a single state. Ranges produced by the radio
// collaborator are time-ordered and non-overlapping.
type RRCStateRange struct {
	BeginTime float64
	EndTime   float64
	State     RRCState
}
