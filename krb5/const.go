package krb5

// MessageType is the msg-type INTEGER carried in every Kerberos message.
type MessageType uint32

const (
	MessageTypeASReq    MessageType = 10
	MessageTypeASRep    MessageType = 11
	MessageTypeTGSReq   MessageType = 12
	MessageTypeTGSRep   MessageType = 13
	MessageTypeAPReq    MessageType = 14
	MessageTypeAPRep    MessageType = 15
	MessageTypeReserved16 MessageType = 16
	MessageTypeReserved17 MessageType = 17
	MessageTypeSafe     MessageType = 20
	MessageTypePriv     MessageType = 21
	MessageTypeCred     MessageType = 22
	MessageTypeError    MessageType = 30
)

// Application tag numbers for [APPLICATION N] wrapped top-level messages.
const (
	AppTagTicket         = 1
	AppTagAuthenticator  = 2
	AppTagEncTicketPart  = 3
	AppTagASReq          = 10
	AppTagASRep          = 11
	AppTagTGSReq         = 12
	AppTagTGSRep         = 13
	AppTagAPReq          = 14
	AppTagAPRep          = 15
	AppTagCred           = 22
	AppTagEncASRepPart   = 25
	AppTagEncTGSRepPart  = 26
	AppTagEncKrbCredPart = 29
	AppTagError          = 30
)

// ProtocolVersion is the pvno field's only valid value.
const ProtocolVersion = 5

// PrincipalNameType classifies a PrincipalName's name-type field.
type PrincipalNameType uint32

const (
	NameTypeUnknown       PrincipalNameType = 0
	NameTypePrincipal     PrincipalNameType = 1
	NameTypeSrvInst       PrincipalNameType = 2
	NameTypeSrvHst        PrincipalNameType = 3
	NameTypeSrvXhst       PrincipalNameType = 4
	NameTypeUID           PrincipalNameType = 5
	NameTypeX500Principal PrincipalNameType = 6
	NameTypeSMTPName      PrincipalNameType = 7
	NameTypeEnterprise    PrincipalNameType = 10
)

// PADataType enumerates every pre-authentication data type Active
// Directory is known to emit or accept, not just the handful the request
// builders in this package construct. A parsed PAData round-trips any of
// them even though only PaEncTimestamp (NewPAEncTimestamp), PaForUser
// (NewPAForUser) and PaTGSReq (built by NewTGSReq) are constructed here.
type PADataType uint32

const (
	PaTGSReq                PADataType = 1
	PaEncTimestamp          PADataType = 2
	PaPwSalt                PADataType = 3
	PaEncUnixTime           PADataType = 5
	PaSandiaSecureID        PADataType = 6
	PaSesame                PADataType = 7
	PaOsfDce                PADataType = 8
	PaCybersafeSecureID     PADataType = 9
	PaAfs3Salt              PADataType = 10
	PaEtypeInfo             PADataType = 11
	PaSamChallenge          PADataType = 12
	PaSamResponse           PADataType = 13
	PaPkAsReqOld            PADataType = 14
	PaPkAsRepOld            PADataType = 15
	PaPkAsReq               PADataType = 16
	PaPkAsRep               PADataType = 17
	PaEtypeInfo2            PADataType = 19
	PaSvrReferralInfo       PADataType = 20
	PaSamRedirect           PADataType = 21
	PaGetFromTypedData      PADataType = 22
	PaSamEtypeInfo          PADataType = 23
	PaAltPrinc              PADataType = 24
	PaSamChallenge2         PADataType = 30
	PaSamResponse2          PADataType = 31
	PaExtraTGT              PADataType = 41
	TdPkinitCmsCertificates PADataType = 101
	TdKrbPrincipal          PADataType = 102
	TdKrbRealm              PADataType = 103
	TdTrustedCertifiers     PADataType = 104
	TdCertificateIndex      PADataType = 105
	TdAppDefinedError       PADataType = 106
	TdReqNonce              PADataType = 107
	TdReqSeq                PADataType = 108
	PaPACRequest            PADataType = 128
	PaForUser               PADataType = 129
	PaFxCookie              PADataType = 133
	PaFxFast                PADataType = 136
	PaFxError               PADataType = 137
	PaEncryptedChallenge    PADataType = 138
	KerbKeyListReq          PADataType = 161
	KerbKeyListRep          PADataType = 162
	PaSupportedEnctypes     PADataType = 165
	PaPACOptions            PADataType = 167
)

// Checksum type used by PA-FOR-USER (MS-SFU), a negative cksumtype.
const ChecksumKerbHMACMD5 = -138

// PAForUserChecksumKeyUsage is the key-usage number MS-SFU's PA-FOR-USER
// checksum is keyed with. It is unrelated to EType's numbering; the two
// enumerations happen to share the value 17.
const PAForUserChecksumKeyUsage = 17

// AuthorizationData element types.
const (
	AdIfRelevant                   = 1
	AdIntendedForServer            = 2
	AdIntendedForApplicationClass  = 3
	AdKdcIssued                    = 4
	AdAndOr                        = 5
	AdMandatoryTicketExtensions    = 6
	AdInTicketExtensions           = 7
	AdMandatoryForKdc              = 8
	AdOsfDce                       = 64
	AdSesame                       = 65
	AdOsfDcePkiCertID              = 66
	AdWin2kPac                     = 128
	AdEtypeNegotiation             = 129
)
