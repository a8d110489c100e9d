// pcapgen writes a synthetic device-side capture for exercising the burst
// analyzer: a handful of short web transfers plus a periodic poller hitting
// the same server at a fixed interval.
package main

import (
	"flag"
	"log"
	"math/rand"
	"net"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

var (
	deviceIP = net.IP{10, 0, 0, 2}
	webIP    = net.IP{93, 184, 216, 34}
	pollIP   = net.IP{198, 51, 100, 7}
)

func main() {
	outputFile := flag.String("o", "trace.pcap", "Output pcap file path")
	duration := flag.Int("d", 300, "Trace duration in seconds")
	pollInterval := flag.Int("p", 30, "Poller interval in seconds")
	flag.Parse()

	f, err := os.Create(*outputFile)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer f.Close()

	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(65536, layers.LinkTypeEthernet); err != nil {
		log.Fatalf("Failed to write pcap header: %v", err)
	}

	g := &generator{w: w, start: time.Now()}

	// The periodic poller: one short request/response exchange per cycle.
	localPort := uint16(41000)
	for ts := 5.0; ts < float64(*duration); ts += float64(*pollInterval) {
		g.exchange(ts, pollIP, localPort, []byte("GET /poll HTTP/1.1\r\nHost: poll.example.com\r\n\r\n"), 300)
		localPort++
	}

	// A few user-style transfers at irregular times.
	for _, ts := range []float64{12, 70, 155, 240} {
		g.exchange(ts, webIP, localPort, []byte("GET /page HTTP/1.1\r\nHost: www.example.com\r\n\r\n"), 8000+rand.Intn(20000))
		localPort++
	}

	log.Printf("Wrote %d packets to %s", g.count, *outputFile)
}

type generator struct {
	w     *pcapgo.Writer
	start time.Time
	count int
}

// exchange emits a SYN, a request and the segmented response of one
// connection starting at the given trace offset.
func (g *generator) exchange(ts float64, remote net.IP, localPort uint16, request []byte, responseSize int) {
	g.packet(ts, deviceIP, remote, localPort, 80, true, nil)
	g.packet(ts+0.05, remote, deviceIP, 80, localPort, true, nil)
	g.packet(ts+0.10, deviceIP, remote, localPort, 80, false, request)

	off := ts + 0.20
	for responseSize > 0 {
		chunk := 1460
		if responseSize < chunk {
			chunk = responseSize
		}
		g.packet(off, remote, deviceIP, 80, localPort, false, make([]byte, chunk))
		responseSize -= chunk
		off += 0.02
	}
}

func (g *generator) packet(ts float64, src, dst net.IP, srcPort, dstPort uint16, syn bool, payload []byte) {
	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01},
		DstMAC:       net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x02},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{Version: 4, TTL: 64, Protocol: layers.IPProtocolTCP, SrcIP: src, DstIP: dst}
	tcp := &layers.TCP{
		SrcPort: layers.TCPPort(srcPort),
		DstPort: layers.TCPPort(dstPort),
		SYN:     syn,
		ACK:     !syn,
		Window:  65535,
	}
	if err := tcp.SetNetworkLayerForChecksum(ip); err != nil {
		log.Fatalf("Failed to set checksum layer: %v", err)
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, tcp, gopacket.Payload(payload)); err != nil {
		log.Fatalf("Failed to serialize packet: %v", err)
	}

	ci := gopacket.CaptureInfo{
		Timestamp:     g.start.Add(time.Duration(ts * float64(time.Second))),
		CaptureLength: len(buf.Bytes()),
		Length:        len(buf.Bytes()),
	}
	if err := g.w.WritePacket(ci, buf.Bytes()); err != nil {
		log.Fatalf("Failed to write packet: %v", err)
	}
	g.count++
}
