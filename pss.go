package rsakit

import (
	"crypto/rand"
	"crypto/subtle"
	"hash"
	"io"
)

// SaltLengthEqualsHash selects a PSS salt as long as the hash digest,
// which is the conventional default
const SaltLengthEqualsHash = -1

var pssPrefix [8]byte

// digest hashes msg with a freshly reset h
func digest(h hash.Hash, msg []byte) []byte {
	h.Reset()
	h.Write(msg)
	return h.Sum(nil)
}

// emsaPSSEncode produces the emLen-byte encoded message for msg over
// emBits, with a salt drawn from random.
//
// EM = maskedDB || H' || 0xbc, where H' = h(00..00 || h(M) || salt) and
// DB = PS || 0x01 || salt
func emsaPSSEncode(h hash.Hash, random io.Reader, msg []byte, emBits, sLen int) ([]byte, error) {
	hLen := h.Size()
	emLen := (emBits + 7) / 8

	if emLen < hLen+sLen+2 {
		return nil, ErrMessageTooLong
	}

	mHash := digest(h, msg)

	salt := make([]byte, sLen)
	if _, err := io.ReadFull(random, salt); err != nil {
		return nil, err
	}

	h.Reset()
	h.Write(pssPrefix[:])
	h.Write(mHash)
	h.Write(salt)
	hPrime := h.Sum(nil)

	// DB = PS || 0x01 || salt, of length emLen - hLen - 1
	em := make([]byte, emLen)
	db := em[:emLen-hLen-1]
	db[emLen-sLen-hLen-2] = 1
	copy(db[emLen-sLen-hLen-1:], salt)

	mgf1XOR(db, h, hPrime)

	// clear the bits beyond emBits in the leftmost byte
	db[0] &= 0xff >> (8*emLen - emBits)

	copy(em[emLen-hLen-1:], hPrime)
	em[emLen-1] = 0xbc
	return em, nil
}

// SignPSS calculates the RSASSA-PSS signature of msg with the given hash
// and salt length; [SaltLengthEqualsHash] selects a salt of h.Size() bytes.
// The salt is drawn from random, or from the system RNG when random is nil.
//
// The exponentiation is not blinded: the encoded message is recoverable
// from the signature with the public key alone, so there is no secret
// input for a timing channel to correlate with
func SignPSS(random io.Reader, priv *PrivateKey, h hash.Hash, msg []byte, sLen int) ([]byte, error) {
	if err := checkPub(&priv.PublicKey); err != nil {
		return nil, err
	}
	if random == nil {
		random = rand.Reader
	}
	if sLen == SaltLengthEqualsHash {
		sLen = h.Size()
	}

	emBits := priv.BitLen() - 1
	em, err := emsaPSSEncode(h, random, msg, emBits, sLen)
	if err != nil {
		return nil, err
	}

	s, err := decrypt(nil, priv, os2ip(em))
	if err != nil {
		return nil, err
	}

	// the residue can need the full modulus width, one byte more than the
	// encoded message when the key size is one bit past a byte boundary
	sig := make([]byte, priv.Size())
	return s.FillBytes(sig), nil
}

// VerifyPSS checks an RSASSA-PSS signature over msg. sLen must match the
// salt length used at signing time. A malformed or forged signature yields
// [ErrVerification] with no further detail; the structural checks combine
// into a single verdict with no early exit
func VerifyPSS(pub *PublicKey, h hash.Hash, msg, sig []byte, sLen int) error {
	if err := checkPub(pub); err != nil {
		return err
	}
	if sLen == SaltLengthEqualsHash {
		sLen = h.Size()
	}

	hLen := h.Size()
	emBits := pub.BitLen() - 1
	emLen := (emBits + 7) / 8
	if len(sig) != pub.Size() || emLen < hLen+sLen+2 {
		return ErrVerification
	}

	m, err := encrypt(pub, os2ip(sig))
	if err != nil {
		return ErrVerification
	}

	// EM is the last emLen bytes of the re-encrypted value; anything above
	// them must be zero
	if (m.BitLen()+7)/8 > emLen {
		return ErrVerification
	}
	em := i2osp(m, emLen)

	db := em[:emLen-hLen-1]
	hPrime := em[emLen-hLen-1 : emLen-1]

	ok := subtle.ConstantTimeByteEq(em[emLen-1], 0xbc)

	// the bits beyond emBits in the leftmost byte must be clear
	topMask := byte(0xff >> (8*emLen - emBits))
	ok &= subtle.ConstantTimeByteEq(em[0]&^topMask, 0)

	mgf1XOR(db, h, hPrime)
	db[0] &= topMask

	// DB = PS || 0x01 || salt with PS all zero
	psLen := emLen - hLen - sLen - 2
	for i := 0; i < psLen; i++ {
		ok &= subtle.ConstantTimeByteEq(db[i], 0)
	}
	ok &= subtle.ConstantTimeByteEq(db[psLen], 1)

	salt := db[len(db)-sLen:]
	mHash := digest(h, msg)

	h.Reset()
	h.Write(pssPrefix[:])
	h.Write(mHash)
	h.Write(salt)
	hCheck := h.Sum(nil)

	ok &= subtle.ConstantTimeCompare(hCheck, hPrime)
	if ok != 1 {
		return ErrVerification
	}
	return nil
}
