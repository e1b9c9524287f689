package rsakit

import (
	"crypto/rand"
	"crypto/subtle"
	"io"
)

// minimum PKCS #1 v1.5 padding overhead: two leading type bytes, at least
// eight padding bytes, and the zero separator
const pkcs1MinPad = 11

// SignPKCS1v15 calculates the signature of msg using RSASSA-PKCS1-V1_5 with
// block type 01: the message is embedded directly in the encoded block, so
// the recovered payload comes back out of [VerifyPKCS1v15].
//
// This function is deterministic. Thus, if the set of possible messages is
// small, an attacker may be able to build a map from messages to signatures
// and identify the signed messages. As ever, signatures provide
// authenticity, not confidentiality
func SignPKCS1v15(mask Mask, priv *PrivateKey, msg []byte) ([]byte, error) {
	if err := checkPub(&priv.PublicKey); err != nil {
		return nil, err
	}

	k := priv.Size()
	if k < len(msg)+pkcs1MinPad {
		return nil, ErrMessageTooLong
	}

	// EM = 0x00 || 0x01 || PS || 0x00 || M
	em := make([]byte, k)
	em[1] = 1
	for i := 2; i < k-len(msg)-1; i++ {
		em[i] = 0xff
	}
	copy(em[k-len(msg):], msg)

	c, err := decrypt(mask.reader(), priv, os2ip(em))
	if err != nil {
		return nil, err
	}
	return c.FillBytes(em), nil
}

// VerifyPKCS1v15 checks an RSASSA-PKCS1-V1_5 block type 01 signature and
// returns the payload it embeds. A malformed or forged signature yields
// [ErrVerification] with no further detail
func VerifyPKCS1v15(pub *PublicKey, sig []byte) ([]byte, error) {
	if err := checkPub(pub); err != nil {
		return nil, err
	}
	if len(sig) != pub.Size() {
		return nil, ErrVerification
	}

	m, err := encrypt(pub, os2ip(sig))
	if err != nil {
		return nil, ErrVerification
	}
	em := i2osp(m, pub.Size())

	// EM = 0x00 || 0x01 || PS || 0x00 || M with PS at least eight 0xff bytes.
	// This side operates on public data, so a plain scan is fine
	if em[0] != 0 || em[1] != 1 {
		return nil, ErrVerification
	}
	i := 2
	for ; i < len(em) && em[i] == 0xff; i++ {
	}
	if i-2 < 8 || i == len(em) || em[i] != 0 {
		return nil, ErrVerification
	}
	return em[i+1:], nil
}

// EncryptPKCS1v15 encrypts msg using RSAES-PKCS1-V1_5 (block type 02) with
// random non-zero padding bytes drawn from random, or from the system RNG
// when random is nil.
//
// The message must be no longer than pub.Size() - 11 bytes. WARNING: use of
// this scheme for new protocols is discouraged; [EncryptOAEP] is the modern
// alternative
func EncryptPKCS1v15(random io.Reader, pub *PublicKey, msg []byte) ([]byte, error) {
	if err := checkPub(pub); err != nil {
		return nil, err
	}
	if random == nil {
		random = rand.Reader
	}

	k := pub.Size()
	if k < len(msg)+pkcs1MinPad {
		return nil, ErrMessageTooLong
	}

	// EM = 0x00 || 0x02 || PS || 0x00 || M
	em := make([]byte, k)
	em[1] = 2
	if err := nonZeroRandomBytes(random, em[2:k-len(msg)-1]); err != nil {
		return nil, err
	}
	copy(em[k-len(msg):], msg)

	c, err := encrypt(pub, os2ip(em))
	if err != nil {
		return nil, err
	}
	return c.FillBytes(em), nil
}

// DecryptPKCS1v15 decrypts an RSAES-PKCS1-V1_5 ciphertext, with blinding as
// selected by mask. Any failure yields the opaque [ErrDecryption]; the
// padding check runs in time independent of which byte broke the structure,
// so the error does not reveal which check failed.
//
// Note that whether this function returns an error or not still leaks one
// bit. Protocols that decrypt attacker-supplied session keys should follow
// RFC 8017 section 7.2.2 and substitute a random key instead of branching
// on the error
func DecryptPKCS1v15(mask Mask, priv *PrivateKey, ct []byte) ([]byte, error) {
	if err := checkPub(&priv.PublicKey); err != nil {
		return nil, err
	}

	k := priv.Size()
	if len(ct) != k || k < pkcs1MinPad {
		return nil, ErrDecryption
	}

	m, err := decrypt(mask.reader(), priv, os2ip(ct))
	if err != nil {
		return nil, ErrDecryption
	}
	em := i2osp(m, k)
	defer zero(em)

	// single branch-free validator: check the two type bytes and locate the
	// zero separator without revealing, through timing, which of them failed
	firstByteIsZero := subtle.ConstantTimeByteEq(em[0], 0)
	secondByteIsTwo := subtle.ConstantTimeByteEq(em[1], 2)

	lookingForIndex := 1
	index := 0
	for i := 2; i < len(em); i++ {
		equals0 := subtle.ConstantTimeByteEq(em[i], 0)
		index = subtle.ConstantTimeSelect(lookingForIndex&equals0, i, index)
		lookingForIndex = subtle.ConstantTimeSelect(equals0, 0, lookingForIndex)
	}

	// the padding string must span at least eight bytes
	validPS := subtle.ConstantTimeLessOrEq(2+8, index)

	valid := firstByteIsZero & secondByteIsTwo & (^lookingForIndex & 1) & validPS
	if valid != 1 {
		return nil, ErrDecryption
	}

	out := make([]byte, len(em)-index-1)
	copy(out, em[index+1:])
	return out, nil
}
