package trace

import (
	"fmt"
	"net"
	"sort"
	"time"

	"BurstSpectra/internal/config"
	"BurstSpectra/internal/model"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// rawPacket is the decoded form of one captured packet before direction and
// protocol-control classification.
type rawPacket struct {
	ts      time.Time
	srcIP   net.IP
	dstIP   net.IP
	srcPort uint16
	dstPort uint16
	syn     bool
	ack     bool
	fin     bool
	rst     bool
	seq     uint32
	ackNum  uint32
	window  uint16
	payload []byte
}

// Builder accumulates decoded packets and assembles them into a Trace.
type Builder struct {
	cfg     config.TraceConfig
	raw     []rawPacket
	skipped int
}

// NewBuilder creates a trace builder.
func NewBuilder(cfg config.TraceConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Skipped returns the number of packets ignored during decoding.
func (b *Builder) Skipped() int { return b.skipped }

// AddPacket decodes one captured packet. Non-IPv4 and non-TCP packets are
// counted and skipped; the burst analysis operates on TCP traffic.
func (b *Builder) AddPacket(pkt gopacket.Packet) {
	ipLayer := pkt.Layer(layers.LayerTypeIPv4)
	tcpLayer := pkt.Layer(layers.LayerTypeTCP)
	if ipLayer == nil || tcpLayer == nil {
		b.skipped++
		return
	}
	ip := ipLayer.(*layers.IPv4)
	tcp := tcpLayer.(*layers.TCP)

	raw := rawPacket{
		ts:      pkt.Metadata().Timestamp,
		srcIP:   append(net.IP(nil), ip.SrcIP...),
		dstIP:   append(net.IP(nil), ip.DstIP...),
		srcPort: uint16(tcp.SrcPort),
		dstPort: uint16(tcp.DstPort),
		syn:     tcp.SYN,
		ack:     tcp.ACK,
		fin:     tcp.FIN,
		rst:     tcp.RST,
		seq:     tcp.Seq,
		ackNum:  tcp.Ack,
		window:  tcp.Window,
		payload: append([]byte(nil), tcp.Payload...),
	}
	b.raw = append(b.raw, raw)
}

// Build assembles the trace: infers the device address, assigns directions
// and protocol-control classifications, reconstructs sessions, sniffs HTTP
// requests, and loads the optional behavioral logs.
func (b *Builder) Build() (*Trace, error) {
	t := &Trace{sizeCounts: make(map[int]int)}
	if len(b.raw) == 0 {
		return b.loadEventLogs(t)
	}

	deviceIP, err := b.deviceIP()
	if err != nil {
		return nil, err
	}

	start := b.raw[0].ts
	sessions := make(map[string]*model.Session)
	var order []*model.Session
	states := make(map[string]*streamState)

	for i := range b.raw {
		raw := &b.raw[i]

		p := &model.PacketInfo{
			Timestamp:  raw.ts.Sub(start).Seconds(),
			PayloadLen: len(raw.payload),
			SrcIP:      raw.srcIP,
			DstIP:      raw.dstIP,
			BurstIndex: -1,
		}

		var remoteIP net.IP
		var remotePort, localPort uint16
		if raw.srcIP.Equal(deviceIP) {
			p.Dir = model.DirectionUplink
			remoteIP, remotePort, localPort = raw.dstIP, raw.dstPort, raw.srcPort
		} else {
			p.Dir = model.DirectionDownlink
			remoteIP, remotePort, localPort = raw.srcIP, raw.srcPort, raw.dstPort
		}
		p.AppName = b.appName(remotePort)

		key := fmt.Sprintf("%s:%d-%d", remoteIP.String(), remotePort, localPort)
		s := sessions[key]
		if s == nil {
			s = &model.Session{RemoteIP: remoteIP, RemotePort: remotePort, LocalPort: localPort}
			sessions[key] = s
			states[key] = newStreamState()
			order = append(order, s)
		}
		p.Session = s

		p.TCPInfo = states[key].classify(raw, p.Dir)
		s.Packets = append(s.Packets, p)

		if p.Dir == model.DirectionUplink && len(raw.payload) > 0 {
			if rr := parseHTTPRequest(raw.payload); rr != nil {
				rr.FirstDataPacket = p
				s.Requests = append(s.Requests, rr)
			}
		}

		t.packets = append(t.packets, p)
		t.sizeCounts[p.PayloadLen]++
	}
	t.sessions = order

	return b.loadEventLogs(t)
}

// deviceIP resolves the capture device's address: the configured one, or
// the most frequent source of connection-opening SYNs, or the first
// packet's source as a last resort.
func (b *Builder) deviceIP() (net.IP, error) {
	if b.cfg.DeviceIP != "" {
		ip := net.ParseIP(b.cfg.DeviceIP)
		if ip == nil {
			return nil, fmt.Errorf("invalid device IP %q", b.cfg.DeviceIP)
		}
		return ip, nil
	}
	counts := make(map[string]int)
	ips := make(map[string]net.IP)
	for i := range b.raw {
		raw := &b.raw[i]
		if raw.syn && !raw.ack {
			key := raw.srcIP.String()
			counts[key]++
			ips[key] = raw.srcIP
		}
	}
	bestKey := ""
	for key, n := range counts {
		if bestKey == "" || n > counts[bestKey] || (n == counts[bestKey] && key < bestKey) {
			bestKey = key
		}
	}
	if bestKey != "" {
		return ips[bestKey], nil
	}
	return b.raw[0].srcIP, nil
}

// appName attributes traffic on a remote port to an application. With no
// configured map, standard web ports are tracked and everything else is
// background.
func (b *Builder) appName(remotePort uint16) string {
	if len(b.cfg.AppPorts) > 0 {
		return b.cfg.AppPorts[remotePort]
	}
	switch remotePort {
	case 80:
		return "http"
	case 443:
		return "https"
	}
	return ""
}

func (b *Builder) loadEventLogs(t *Trace) (*Trace, error) {
	if b.cfg.UserEventLog != "" {
		events, err := LoadUserEvents(b.cfg.UserEventLog)
		if err != nil {
			return nil, fmt.Errorf("failed to load user event log: %w", err)
		}
		t.userEvents = events
	}
	if b.cfg.CPULog != "" {
		samples, err := LoadCPUActivities(b.cfg.CPULog)
		if err != nil {
			return nil, fmt.Errorf("failed to load cpu log: %w", err)
		}
		t.cpuActivities = samples
	}
	sort.SliceStable(t.userEvents, func(i, j int) bool { return t.userEvents[i].PressTime < t.userEvents[j].PressTime })
	sort.SliceStable(t.cpuActivities, func(i, j int) bool { return t.cpuActivities[i].Timestamp < t.cpuActivities[j].Timestamp })
	return t, nil
}
