package model

import (
	"net"
	"strings"
)

// HTTPDirection distinguishes request records from response records.
type HTTPDirection int

const (
	HTTPRequest HTTPDirection = iota
	HTTPResponse
)

// HTTPRequestInfo is one HTTP request or response observed on a session.
type HTTPRequestInfo struct {
	Direction HTTPDirection
	HostName  string
	ObjName   string

	// FirstDataPacket is the packet carrying the first byte of this
	// request or response.
	FirstDataPacket *PacketInfo
}

// ObjNameWithoutParams returns the request object path with any query
// parameters stripped.
func (r *HTTPRequestInfo) ObjNameWithoutParams() string {
	if i := strings.IndexByte(r.ObjName, '?'); i >= 0 {
		return r.ObjName[:i]
	}
	return r.ObjName
}

// Session is one reconstructed TCP session: the device-side packets
// exchanged with a single remote endpoint, plus the HTTP records parsed
// from them.
type Session struct {
	RemoteIP   net.IP
	RemotePort uint16
	LocalPort  uint16

	// Packets are the session's packets in trace order; never empty for a
	// session produced by the trace builder.
	Packets []*PacketInfo

	// Requests are the ordered HTTP request/response records.
	Requests []*HTTPRequestInfo
}
