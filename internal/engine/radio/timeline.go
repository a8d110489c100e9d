package radio

import (
	"math"

	"BurstSpectra/internal/config"
	"BurstSpectra/internal/model"
)

// BuildStateRanges derives an ordered, non-overlapping RRC state timeline
// from packet activity with a 3G machine: the radio idles until traffic
// appears, promotes for the configured promotion time, holds DCH while
// packets keep arriving within the inactivity timeout, then rides the tail
// down before going idle again. Traffic arriving during a tail cuts the
// tail short and re-promotes from the intermediate state.
func BuildStateRanges(pkts []*model.PacketInfo, cfg config.RadioConfig) []model.RRCStateRange {
	if len(pkts) == 0 {
		return nil
	}

	var out []model.RRCStateRange
	cursor := 0.0
	i := 0
	for i < len(pkts) {
		t := pkts[i].Timestamp
		promoState := model.RRCPromoIdleDCH

		if t < cursor {
			// Activity resumed inside the previous tail.
			out[len(out)-1].EndTime = t
			promoState = model.RRCPromoFACHDCH
		} else if t > cursor {
			out = append(out, model.RRCStateRange{BeginTime: cursor, EndTime: t, State: model.RRCIdle})
		}

		promoEnd := t + cfg.PromotionTime
		out = append(out, model.RRCStateRange{BeginTime: t, EndTime: promoEnd, State: promoState})

		// Consume the activity episode: packets separated by at most the
		// DCH inactivity timeout (or still inside the promotion).
		last := t
		i++
		for i < len(pkts) {
			ts := pkts[i].Timestamp
			if ts <= promoEnd || ts-last <= cfg.DCHTimeout {
				last = ts
				i++
			} else {
				break
			}
		}

		dchEnd := math.Max(promoEnd, last+cfg.DCHTimeout)
		out = append(out, model.RRCStateRange{BeginTime: promoEnd, EndTime: dchEnd, State: model.RRCDCH})
		tailEnd := dchEnd + cfg.DCHTailTime
		out = append(out, model.RRCStateRange{BeginTime: dchEnd, EndTime: tailEnd, State: model.RRCDCHTail})
		cursor = tailEnd
	}
	return out
}
