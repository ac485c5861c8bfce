package transport

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/google/uuid"
	"github.com/smnsjas/go-kerlab/kerrors"
	"github.com/smnsjas/go-kerlab/krb5"
)

// udpRecvBufferSize is the fixed buffer a single UDP recv reads into.
// A KDC reply larger than this is truncated (ExchangeUDP logs a Warn when
// the length prefix disagrees with what was read) — a limitation of the
// original implementation, preserved rather than fixed; see DESIGN.md.
const udpRecvBufferSize = 4096

// Unmarshaler is satisfied by every Kerberos reply type this package
// can decode a response into (AsRep, TgsRep, ...).
type Unmarshaler interface {
	Unmarshal(data []byte) error
}

// Exchange dials addr over TCP, writes the length-prefixed request, and
// reads back a length-prefixed reply. It first attempts to decode the
// reply as a KRB-ERROR; on success that error is returned as the first
// result (not wrapped in err) since a KRB-ERROR is a successful protocol
// exchange carrying a negative result, not a transport failure. On tag
// mismatch it decodes into reply instead.
func Exchange(ctx context.Context, addr string, request []byte, reply Unmarshaler) (*krb5.KrbError, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.IO, "dial kdc", err)
	}
	defer conn.Close()

	corrID := uuid.New()
	slog.Debug("kdc exchange", "correlation_id", corrID, "network", "tcp", "addr", addr, "bytes", len(request))

	if err := writeFramed(conn, request); err != nil {
		return nil, kerrors.Wrap(kerrors.IO, "write request", err)
	}

	payload, err := readFramed(conn)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.IO, "read reply", err)
	}

	return decodeReply(corrID, payload, reply)
}

// ExchangeUDP performs the same exchange over a single UDP datagram: one
// send, one recv into a fixed-size buffer, no retry and no rebinding.
// Per spec.md §4.5 this is preserved as-is, truncation warning included.
func ExchangeUDP(ctx context.Context, addr string, request []byte, reply Unmarshaler) (*krb5.KrbError, error) {
	var dialer net.Dialer
	dialer.LocalAddr = &net.UDPAddr{}
	conn, err := dialer.DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.IO, "dial kdc", err)
	}
	defer conn.Close()

	corrID := uuid.New()
	slog.Debug("kdc exchange", "correlation_id", corrID, "network", "udp", "addr", addr, "bytes", len(request))

	framed, err := frame(request)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(framed); err != nil {
		return nil, kerrors.Wrap(kerrors.IO, "send request", err)
	}

	buf := make([]byte, udpRecvBufferSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.IO, "recv reply", err)
	}
	buf = buf[:n]

	if len(buf) < 4 {
		return nil, kerrors.New(kerrors.IO, "udp reply shorter than length prefix")
	}
	length := binary.BigEndian.Uint32(buf[:4])
	body := buf[4:]
	if int(length) != len(body) {
		slog.Warn("udp reply truncated", "correlation_id", corrID, "expected", length, "got", len(body))
		if int(length) < len(body) {
			body = body[:length]
		}
	}

	return decodeReply(corrID, body, reply)
}

func decodeReply(corrID uuid.UUID, payload []byte, reply Unmarshaler) (*krb5.KrbError, error) {
	var krbErr krb5.KrbError
	if err := krbErr.Unmarshal(payload); err == nil {
		slog.Warn("kdc returned error", "correlation_id", corrID, "error", krbErr.String())
		return &krbErr, nil
	}

	if err := reply.Unmarshal(payload); err != nil {
		return nil, kerrors.Wrap(kerrors.Parsing, "decode reply", err)
	}
	return nil, nil
}

func frame(request []byte) ([]byte, error) {
	if uint64(len(request)) > uint64(^uint32(0)) {
		return nil, kerrors.New(kerrors.IO, "request too large to frame")
	}
	out := make([]byte, 4+len(request))
	binary.BigEndian.PutUint32(out, uint32(len(request)))
	copy(out[4:], request)
	return out, nil
}

func writeFramed(w io.Writer, request []byte) error {
	framed, err := frame(request)
	if err != nil {
		return err
	}
	_, err = w.Write(framed)
	return err
}

func readFramed(r io.Reader) ([]byte, error) {
	var lengthBuf [4]byte
	if _, err := io.ReadFull(r, lengthBuf[:]); err != nil {
		return nil, fmt.Errorf("read length prefix: %w", err)
	}
	length := binary.BigEndian.Uint32(lengthBuf[:])

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
