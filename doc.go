/*
Package rsakit implements the RSA core: keypair generation, the raw
modular-exponentiation primitives with CRT acceleration and blinding, and
the three standardized padding schemes layered on top of them -- PKCS #1
v1.5 (encryption and signature), OAEP (encryption), and PSS (signature).

# Keys

A keypair is generated directly, or assembled from a public exponent and
two primes obtained elsewhere:

	key, err := rsakit.Generate(rand.Reader, 2048, nil)
	pub := key.Public()

Keys are immutable values. They may be shared read-only between
goroutines without synchronization; the library keeps no global state.

# Encryption

OAEP is the scheme to use for new designs. The hash parameter drives both
the label hash and the MGF1 mask:

	ct, err := rsakit.EncryptOAEP(sha256.New(), nil, pub, msg, nil)
	pt, err := rsakit.DecryptOAEP(sha256.New(), rsakit.MaskDefault, key, ct, nil)

PKCS #1 v1.5 encryption is provided for compatibility with older
protocols.

# Signatures

PSS signing hashes the message internally and randomizes the encoding
with a salt, by default as long as the digest:

	sig, err := rsakit.SignPSS(nil, key, sha256.New(), msg, rsakit.SaltLengthEqualsHash)
	err = rsakit.VerifyPSS(pub, sha256.New(), msg, sig, rsakit.SaltLengthEqualsHash)

PKCS #1 v1.5 signing embeds the payload in the padded block, so
verification recovers it:

	sig, err := rsakit.SignPKCS1v15(rsakit.MaskDefault, key, payload)
	payload, err := rsakit.VerifyPKCS1v15(pub, sig)

# Blinding

Private-key operations accept a [Mask] that controls blinding. The zero
value [MaskDefault] blinds with the system RNG and is the right choice
for any key that must stay secret; [MaskOff] and [MaskWith] exist for
benchmarking and deterministic testing.

# Failure behavior

Encoding-side misuse (message too long, message representative out of
range, unsatisfiable key parameters) fails loudly with a descriptive
error. Decoding-side failures are opaque: decryption returns
[ErrDecryption] and verification [ErrVerification] with no indication of
which check failed, because distinguishing them is exactly what padding
oracle attacks feed on.
*/
package rsakit
