package rsakit

import (
	"crypto/rand"
	"crypto/subtle"
	"hash"
	"io"
)

// EncryptOAEP encrypts msg using RSAES-OAEP with the given hash, drawing
// the seed from random (the system RNG when random is nil).
//
// The optional label is bound to the ciphertext: decryption only succeeds
// when the same label is supplied, but the label itself is not encrypted.
// The message must be no longer than pub.Size() - 2*h.Size() - 2 bytes
func EncryptOAEP(h hash.Hash, random io.Reader, pub *PublicKey, msg, label []byte) ([]byte, error) {
	if err := checkPub(pub); err != nil {
		return nil, err
	}
	if random == nil {
		random = rand.Reader
	}

	k := pub.Size()
	hLen := h.Size()
	if k < 2*hLen+2 || len(msg) > k-2*hLen-2 {
		return nil, ErrMessageTooLong
	}

	h.Reset()
	h.Write(label)
	lHash := h.Sum(nil)

	// EM = 0x00 || maskedSeed || maskedDB
	// DB = lHash || PS || 0x01 || M
	em := make([]byte, k)
	seed := em[1 : 1+hLen]
	db := em[1+hLen:]

	copy(db[:hLen], lHash)
	db[len(db)-len(msg)-1] = 1
	copy(db[len(db)-len(msg):], msg)

	if _, err := io.ReadFull(random, seed); err != nil {
		return nil, err
	}

	mgf1XOR(db, h, seed)
	mgf1XOR(seed, h, db)

	c, err := encrypt(pub, os2ip(em))
	if err != nil {
		return nil, err
	}
	return c.FillBytes(em), nil
}

// DecryptOAEP decrypts an RSAES-OAEP ciphertext, with blinding as selected
// by mask. The label must match the one given at encryption time.
//
// Any failure yields the opaque [ErrDecryption]. The three structural
// checks run in time independent of the decrypted block and collapse into
// a single verdict, which is what defeats Manger's attack
func DecryptOAEP(h hash.Hash, mask Mask, priv *PrivateKey, ct, label []byte) ([]byte, error) {
	if err := checkPub(&priv.PublicKey); err != nil {
		return nil, err
	}

	k := priv.Size()
	hLen := h.Size()
	if len(ct) != k || k < 2*hLen+2 {
		return nil, ErrDecryption
	}

	m, err := decrypt(mask.reader(), priv, os2ip(ct))
	if err != nil {
		return nil, ErrDecryption
	}
	em := i2osp(m, k)
	defer zero(em)

	h.Reset()
	h.Write(label)
	lHash := h.Sum(nil)

	firstByteIsZero := subtle.ConstantTimeByteEq(em[0], 0)

	seed := em[1 : 1+hLen]
	db := em[1+hLen:]

	mgf1XOR(seed, h, db)
	mgf1XOR(db, h, seed)

	lHashGood := subtle.ConstantTimeCompare(db[:hLen], lHash)

	// scan the rest of DB for the 0x01 delimiter without leaking its
	// position or whether a stray byte preceded it
	var lookingForIndex, index, invalid int
	lookingForIndex = 1
	rest := db[hLen:]
	for i := 0; i < len(rest); i++ {
		equals0 := subtle.ConstantTimeByteEq(rest[i], 0)
		equals1 := subtle.ConstantTimeByteEq(rest[i], 1)
		index = subtle.ConstantTimeSelect(lookingForIndex&equals1, i, index)
		lookingForIndex = subtle.ConstantTimeSelect(equals1, 0, lookingForIndex)
		invalid = subtle.ConstantTimeSelect(lookingForIndex&^equals0, 1, invalid)
	}

	if firstByteIsZero&lHashGood&^invalid&^lookingForIndex != 1 {
		return nil, ErrDecryption
	}

	out := make([]byte, len(rest)-index-1)
	copy(out, rest[index+1:])
	return out, nil
}
