package model

import "net"

// Direction indicates whether a packet travels from the device to the
// network or the other way around.
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionUplink
	DirectionDownlink
)

// TCPInfo is the protocol-control classification assigned to a packet by the
// trace builder. PlainData/PlainAck are ordinary traffic; the remaining
// values mark TCP control or loss-related behavior.
type TCPInfo int

const (
	TCPNone TCPInfo = iota
	TCPEstablish
	TCPClose
	TCPReset
	TCPKeepAlive
	TCPKeepAliveAck
	TCPZeroWindow
	TCPWindowUpdate
	TCPPlainData
	TCPPlainAck
	TCPDataDup
	TCPDataRecover
	TCPAckDup
	TCPAckRecover
)

// PacketInfo holds the metadata of a single captured packet. Timestamps are
// seconds relative to the start of the trace. Packets are immutable once the
// trace is built, except for the burst back-reference assigned by the
// segmenter.
type PacketInfo struct {
	Timestamp  float64
	Dir        Direction
	PayloadLen int
	TCPInfo    TCPInfo
	SrcIP      net.IP
	DstIP      net.IP

	// AppName is the owning application; empty means background traffic.
	AppName string

	// Session is the owning TCP session, assigned by the trace builder.
	Session *Session

	// BurstIndex is the index of the owning burst in the analyzed
	// collection, assigned by the segmenter. -1 before segmentation.
	BurstIndex int
}
