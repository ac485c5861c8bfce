package kerrors

import "errors"

func is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// IsKerberos reports whether err is a *Error of Kind Kerberos.
func IsKerberos(err error) bool { return is(err, Kerberos) }

// IsCrypto reports whether err is a *Error of Kind Crypto.
func IsCrypto(err error) bool { return is(err, Crypto) }

// IsParsing reports whether err is a *Error of Kind Parsing.
func IsParsing(err error) bool { return is(err, Parsing) }

// IsInvalidConst reports whether err is a *Error of Kind InvalidConst.
func IsInvalidConst(err error) bool { return is(err, InvalidConst) }

// IsIO reports whether err is a *Error of Kind IO.
func IsIO(err error) bool { return is(err, IO) }
