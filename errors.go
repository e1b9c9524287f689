package rsakit

import "errors"

var (
	// ErrInvalidKey is returned by key constructors when the requested
	// parameters cannot produce a well-formed keypair, e.g. p = q or a
	// public exponent that is not invertible mod phi(N)
	ErrInvalidKey = errors.New("rsakit: invalid key parameters")

	// ErrInvalidMessage is returned by the raw operations when the message
	// integer falls outside [1, N)
	ErrInvalidMessage = errors.New("rsakit: message representative out of range")

	// ErrMessageTooLong is returned by the padded encryption and signing
	// schemes when the message does not fit the key size
	ErrMessageTooLong = errors.New("rsakit: message too long for RSA key size")

	// ErrDecryption represents a failure to decrypt a message.
	// It is deliberately vague to avoid adaptive attacks: callers learn that
	// decryption failed, never which padding check failed
	ErrDecryption = errors.New("rsakit: decryption error")

	// ErrVerification represents a failure to verify a signature.
	// It is deliberately vague to avoid adaptive attacks
	ErrVerification = errors.New("rsakit: verification error")
)
