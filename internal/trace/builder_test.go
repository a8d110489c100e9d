package trace

import (
	"net"
	"testing"
	"time"

	"BurstSpectra/internal/config"
	"BurstSpectra/internal/model"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

var (
	device = net.ParseIP("10.0.0.2").To4()
	server = net.ParseIP("93.184.216.34").To4()
)

// addRaw appends a hand-built packet to the builder, bypassing gopacket
// decode.
func (b *Builder) addRaw(ts float64, src, dst net.IP, srcPort, dstPort uint16, syn bool, payload []byte) {
	b.raw = append(b.raw, rawPacket{
		ts:      time.Unix(0, 0).Add(time.Duration(ts * float64(time.Second))),
		srcIP:   src,
		dstIP:   dst,
		srcPort: srcPort,
		dstPort: dstPort,
		syn:     syn,
		ack:     !syn,
		window:  65535,
		seq:     1,
		payload: payload,
	})
}

func TestBuildAssemblesSessions(t *testing.T) {
	b := NewBuilder(config.TraceConfig{DeviceIP: "10.0.0.2"})
	b.addRaw(0.0, device, server, 40000, 80, true, nil)
	b.addRaw(0.1, server, device, 80, 40000, true, nil)
	b.addRaw(0.2, device, server, 40000, 80, false, []byte("GET /feed HTTP/1.1\r\nHost: www.example.com\r\n\r\n"))
	b.addRaw(0.3, server, device, 80, 40000, false, []byte("HTTP/1.1 200 OK\r\n\r\npayload"))
	b.addRaw(1.0, device, server, 40001, 443, true, nil)

	tr, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(tr.Packets()) != 5 {
		t.Fatalf("expected 5 packets, got %d", len(tr.Packets()))
	}
	if len(tr.Sessions()) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(tr.Sessions()))
	}

	first := tr.Packets()[0]
	if first.Dir != model.DirectionUplink {
		t.Errorf("device-originated SYN direction = %v, want uplink", first.Dir)
	}
	if first.TCPInfo != model.TCPEstablish {
		t.Errorf("SYN classification = %v, want establish", first.TCPInfo)
	}
	if first.AppName != "http" {
		t.Errorf("port 80 app = %q, want http", first.AppName)
	}
	if tr.Packets()[1].Dir != model.DirectionDownlink {
		t.Errorf("server SYN-ACK direction = %v, want downlink", tr.Packets()[1].Dir)
	}
	if tr.Packets()[4].AppName != "https" {
		t.Errorf("port 443 app = %q, want https", tr.Packets()[4].AppName)
	}

	// Timestamps are relative to the first packet.
	if first.Timestamp != 0 {
		t.Errorf("first timestamp = %v, want 0", first.Timestamp)
	}
	if got := tr.Packets()[4].Timestamp; got < 0.999 || got > 1.001 {
		t.Errorf("fifth timestamp = %v, want 1.0", got)
	}

	web := tr.Sessions()[0]
	if web.RemotePort != 80 || web.LocalPort != 40000 {
		t.Errorf("session ports = %d/%d", web.RemotePort, web.LocalPort)
	}
	if len(web.Packets) != 4 {
		t.Errorf("web session should hold 4 packets, got %d", len(web.Packets))
	}
	if len(web.Requests) != 1 {
		t.Fatalf("expected 1 sniffed request, got %d", len(web.Requests))
	}
	if web.Requests[0].HostName != "www.example.com" {
		t.Errorf("request host = %q", web.Requests[0].HostName)
	}
	if web.Requests[0].FirstDataPacket != tr.Packets()[2] {
		t.Error("request should reference the packet that carried it")
	}
}

func TestBuildInfersDeviceFromHandshakes(t *testing.T) {
	// The device opens two connections, the peer only one: majority wins.
	b := NewBuilder(config.TraceConfig{})
	b.addRaw(0.0, device, server, 40000, 80, true, nil)
	b.addRaw(0.1, server, device, 80, 40000, true, nil)
	b.addRaw(0.5, device, server, 40001, 80, true, nil)

	tr, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if tr.Packets()[0].Dir != model.DirectionUplink {
		t.Error("the SYN initiator should be inferred as the device")
	}
	if tr.Packets()[1].Dir != model.DirectionDownlink {
		t.Error("traffic from the peer should be downlink")
	}
}

func TestBuildAppPortsOverride(t *testing.T) {
	b := NewBuilder(config.TraceConfig{
		DeviceIP: "10.0.0.2",
		AppPorts: map[uint16]string{8080: "myapp"},
	})
	b.addRaw(0.0, device, server, 40000, 8080, true, nil)
	b.addRaw(0.1, device, server, 40001, 80, true, nil)

	tr, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := tr.Packets()[0].AppName; got != "myapp" {
		t.Errorf("mapped port app = %q, want myapp", got)
	}
	// With an explicit map, unmapped ports are background.
	if got := tr.Packets()[1].AppName; got != "" {
		t.Errorf("unmapped port app = %q, want background", got)
	}
}

func TestBuildSizeCounts(t *testing.T) {
	b := NewBuilder(config.TraceConfig{DeviceIP: "10.0.0.2"})
	b.addRaw(0.0, server, device, 80, 40000, false, make([]byte, 1460))
	b.addRaw(0.1, server, device, 80, 40000, false, make([]byte, 1460))
	b.addRaw(0.2, server, device, 80, 40000, false, make([]byte, 90))

	tr, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	counts := tr.PacketSizeCounts()
	if counts[1460] != 2 || counts[90] != 1 {
		t.Errorf("size counts = %v", counts)
	}
}

func TestAddPacketDecodesTCP(t *testing.T) {
	b := NewBuilder(config.TraceConfig{DeviceIP: "10.0.0.2"})

	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01},
		DstMAC:       net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x02},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{Version: 4, TTL: 64, Protocol: layers.IPProtocolTCP, SrcIP: device, DstIP: server}
	tcp := &layers.TCP{SrcPort: 40000, DstPort: 80, SYN: true, Window: 65535}
	if err := tcp.SetNetworkLayerForChecksum(ip); err != nil {
		t.Fatalf("checksum setup failed: %v", err)
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, tcp); err != nil {
		t.Fatalf("serialization failed: %v", err)
	}
	pkt := gopacket.NewPacket(buf.Bytes(), layers.LayerTypeEthernet, gopacket.Default)
	pkt.Metadata().Timestamp = time.Unix(100, 0)

	b.AddPacket(pkt)
	if len(b.raw) != 1 {
		t.Fatalf("expected 1 decoded packet, got %d", len(b.raw))
	}
	raw := b.raw[0]
	if !raw.srcIP.Equal(device) || !raw.dstIP.Equal(server) {
		t.Errorf("decoded addresses = %v -> %v", raw.srcIP, raw.dstIP)
	}
	if raw.srcPort != 40000 || raw.dstPort != 80 {
		t.Errorf("decoded ports = %d -> %d", raw.srcPort, raw.dstPort)
	}
	if !raw.syn {
		t.Error("SYN flag lost in decode")
	}
}

func TestAddPacketSkipsNonTCP(t *testing.T) {
	b := NewBuilder(config.TraceConfig{})

	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01},
		DstMAC:       net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x02},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{Version: 4, TTL: 64, Protocol: layers.IPProtocolUDP, SrcIP: device, DstIP: server}
	udp := &layers.UDP{SrcPort: 5353, DstPort: 5353}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		t.Fatalf("checksum setup failed: %v", err)
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, udp); err != nil {
		t.Fatalf("serialization failed: %v", err)
	}
	b.AddPacket(gopacket.NewPacket(buf.Bytes(), layers.LayerTypeEthernet, gopacket.Default))

	if len(b.raw) != 0 {
		t.Errorf("UDP packet should be skipped, got %d raw packets", len(b.raw))
	}
	if b.Skipped() != 1 {
		t.Errorf("Skipped() = %d, want 1", b.Skipped())
	}
}
