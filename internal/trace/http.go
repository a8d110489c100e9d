package trace

import (
	"bufio"
	"bytes"
	"strings"

	"BurstSpectra/internal/model"
)

var httpMethods = []string{"GET", "POST", "PUT", "HEAD", "DELETE", "OPTIONS", "PATCH"}

// parseHTTPRequest sniffs an uplink payload for an HTTP request line and
// Host header. Returns nil when the payload does not start a request.
func parseHTTPRequest(payload []byte) *model.HTTPRequestInfo {
	line, rest, ok := firstLine(payload)
	if !ok {
		return nil
	}
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 || !strings.HasPrefix(parts[2], "HTTP/1.") {
		return nil
	}
	method := parts[0]
	known := false
	for _, m := range httpMethods {
		if method == m {
			known = true
			break
		}
	}
	if !known {
		return nil
	}

	rr := &model.HTTPRequestInfo{
		Direction: model.HTTPRequest,
		ObjName:   parts[1],
	}

	scanner := bufio.NewScanner(bytes.NewReader(rest))
	for scanner.Scan() {
		header := scanner.Text()
		if header == "" {
			break
		}
		if v, found := strings.CutPrefix(header, "Host:"); found {
			rr.HostName = strings.TrimSpace(v)
			break
		}
	}
	return rr
}

func firstLine(payload []byte) (string, []byte, bool) {
	i := bytes.IndexByte(payload, '\n')
	if i < 0 {
		return "", nil, false
	}
	line := strings.TrimRight(string(payload[:i]), "\r")
	return line, payload[i+1:], true
}
