package krb5

import (
	"github.com/smnsjas/go-kerlab/asn1"
	"github.com/smnsjas/go-kerlab/crypto"
)

// ApReq is [APPLICATION 14] SEQUENCE { pvno[0] INTEGER, msg-type[1]
// INTEGER, ap-options[2] APOptions, ticket[3] Ticket, authenticator[4]
// EncryptedData }.
type ApReq struct {
	PVNO          uint32
	MsgType       MessageType
	APOptions     []byte
	Ticket        Ticket
	Authenticator EncryptedData
}

// NewAPReq builds an AP-REQ presenting ticket and an authenticator
// encrypted under sessionKey (the ticket's own session key), proving the
// caller holds it.
func NewAPReq(ticket Ticket, sessionKey EncryptionKey, authenticator Authenticator) (ApReq, error) {
	enc, err := sessionKey.Encrypt(crypto.KeyUsageTGSReqPAAuthenticator, authenticator.Marshal())
	if err != nil {
		return ApReq{}, err
	}
	return ApReq{
		PVNO:          ProtocolVersion,
		MsgType:       MessageTypeAPReq,
		APOptions:     make([]byte, 4),
		Ticket:        ticket,
		Authenticator: enc,
	}, nil
}

func (r ApReq) Marshal() ([]byte, error) {
	seq := asn1.WriteSequence(
		tagInt(0, r.PVNO),
		tagInt(1, uint32(r.MsgType)),
		tagBits(2, r.APOptions),
		asn1.WriteTagged(3, r.Ticket.Marshal()),
		asn1.WriteTagged(4, r.Authenticator.Marshal()),
	)
	return wrapApplication(AppTagAPReq, seq), nil
}

func (r *ApReq) Unmarshal(data []byte) error {
	content, err := unwrapApplication(data, AppTagAPReq)
	if err != nil {
		return err
	}
	sr := asn1.NewSequenceReader(content)

	r.PVNO, err = readInt(sr, 0)
	if err != nil {
		return err
	}
	msgType, err := readInt(sr, 1)
	if err != nil {
		return err
	}
	r.MsgType = MessageType(msgType)
	r.APOptions, err = readBits(sr, 2)
	if err != nil {
		return err
	}
	tktTLV, err := wantTagged(sr, 3)
	if err != nil {
		return err
	}
	if err := r.Ticket.Unmarshal(tktTLV); err != nil {
		return err
	}
	authTLV, err := wantTagged(sr, 4)
	if err != nil {
		return err
	}
	return r.Authenticator.Unmarshal(authTLV)
}
