package transport

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/smnsjas/go-kerlab/krb5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	payload := []byte("hello kdc")
	framed, err := frame(payload)
	require.NoError(t, err)

	var r fakeReader
	r.buf = framed
	body, err := readFramed(&r)
	require.NoError(t, err)
	assert.Equal(t, payload, body)
}

type fakeReader struct {
	buf []byte
	pos int
}

func (r *fakeReader) Read(p []byte) (int, error) {
	n := copy(p, r.buf[r.pos:])
	r.pos += n
	return n, nil
}

func serveOnce(t *testing.T, ln net.Listener, reply []byte) {
	t.Helper()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		var lengthBuf [4]byte
		if _, err := conn.Read(lengthBuf[:]); err != nil {
			return
		}
		length := binary.BigEndian.Uint32(lengthBuf[:])
		body := make([]byte, length)
		total := 0
		for total < len(body) {
			n, err := conn.Read(body[total:])
			if err != nil {
				return
			}
			total += n
		}

		out := make([]byte, 4+len(reply))
		binary.BigEndian.PutUint32(out, uint32(len(reply)))
		copy(out[4:], reply)
		conn.Write(out)
	}()
}

func TestExchangeDecodesKrbError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	want := krb5.KrbError{
		PVNO:      krb5.ProtocolVersion,
		MsgType:   krb5.MessageTypeError,
		STime:     1000,
		ErrorCode: 25,
		Realm:     "CONTOSO.COM",
		SName:     krb5.NewPrincipalName(krb5.NameTypeSrvInst, "krbtgt", "CONTOSO.COM"),
	}
	serveOnce(t, ln, want.Marshal())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var gotRep krb5.AsRep
	krbErr, err := Exchange(ctx, ln.Addr().String(), []byte("request"), &gotRep)
	require.NoError(t, err)
	require.NotNil(t, krbErr)
	assert.Equal(t, int32(25), krbErr.ErrorCode)
}

func TestExchangeDecodesReply(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	rep := krb5.AsRep{Inner: krb5.KdcRep{
		PVNO:    krb5.ProtocolVersion,
		MsgType: krb5.MessageTypeASRep,
		CRealm:  "CONTOSO.COM",
		CName:   krb5.NewPrincipalName(krb5.NameTypePrincipal, "alice"),
		Ticket: krb5.Ticket{
			TktVNO:  krb5.ProtocolVersion,
			Realm:   "CONTOSO.COM",
			SName:   krb5.NewPrincipalName(krb5.NameTypeSrvInst, "krbtgt", "CONTOSO.COM"),
			EncPart: krb5.EncryptedData{EType: krb5.ETypeRc4Hmac, Cipher: []byte("ticket cipher")},
		},
		EncPart: krb5.EncryptedData{EType: krb5.ETypeRc4Hmac, Cipher: []byte("enc part")},
	}}
	repBytes := rep.Marshal()
	serveOnce(t, ln, repBytes)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var gotRep krb5.AsRep
	krbErr, err := Exchange(ctx, ln.Addr().String(), []byte("request"), &gotRep)
	require.NoError(t, err)
	assert.Nil(t, krbErr)
	assert.Equal(t, krb5.MessageTypeASRep, gotRep.Inner.MsgType)
	assert.Equal(t, "alice", gotRep.Inner.CName.String())
}

func TestExchangeUDPDecodesKrbError(t *testing.T) {
	serverConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	defer serverConn.Close()

	want := krb5.KrbError{
		PVNO:      krb5.ProtocolVersion,
		MsgType:   krb5.MessageTypeError,
		STime:     1000,
		ErrorCode: 6,
		Realm:     "CONTOSO.COM",
		SName:     krb5.NewPrincipalName(krb5.NameTypeSrvInst, "krbtgt", "CONTOSO.COM"),
	}
	replyBytes := want.Marshal()

	go func() {
		buf := make([]byte, 2048)
		n, clientAddr, err := serverConn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		_ = buf[:n]
		out := make([]byte, 4+len(replyBytes))
		binary.BigEndian.PutUint32(out, uint32(len(replyBytes)))
		copy(out[4:], replyBytes)
		serverConn.WriteToUDP(out, clientAddr)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var gotRep krb5.AsRep
	krbErr, err := ExchangeUDP(ctx, serverConn.LocalAddr().String(), []byte("request"), &gotRep)
	require.NoError(t, err)
	require.NotNil(t, krbErr)
	assert.Equal(t, int32(6), krbErr.ErrorCode)
}
