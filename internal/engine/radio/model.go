// Package radio supplies the radio-side collaborators of the burst engine:
// a 3G RRC state-range builder driven by packet activity, and a per-state
// power energy model.
package radio

import (
	"BurstSpectra/internal/config"
	"BurstSpectra/internal/model"
)

// Model is a per-state average-power energy model. It satisfies
// model.EnergyModel; the packet list is accepted for interface parity but
// not consulted, since power here depends on the state alone.
type Model struct {
	cfg config.RadioConfig
}

// NewModel creates an energy model from the configured power table.
func NewModel(cfg config.RadioConfig) *Model {
	return &Model{cfg: cfg}
}

// Energy returns the joules spent holding state over [start, end).
func (m *Model) Energy(start, end float64, state model.RRCState, _ []*model.PacketInfo) float64 {
	if end <= start {
		return 0
	}
	return m.power(state) * (end - start)
}

func (m *Model) power(state model.RRCState) float64 {
	switch state {
	case model.RRCPromoIdleDCH, model.RRCPromoFACHDCH, model.RRCLTEPromotion:
		return m.cfg.PowerPromotion
	case model.RRCDCH, model.RRCLTEContinuous, model.RRCWiFiActive:
		return m.cfg.PowerDCH
	case model.RRCDCHTail, model.RRCLTEContinuousTail, model.RRCWiFiTail:
		return m.cfg.PowerDCHTail
	case model.RRCFACH, model.RRCLTEDRXShort, model.RRCLTEDRXLong:
		return m.cfg.PowerFACH
	case model.RRCFACHTail:
		return m.cfg.PowerFACHTail
	}
	return m.cfg.PowerIdle
}
