package rsakit

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Mask selects the blinding behavior for private-key operations.
// Blinding randomizes the integer fed to the modular exponentiation so that
// timing side channels cannot be correlated with the ciphertext.
//
// The zero value enables blinding with the default system RNG, which is the
// right choice for any key that must stay secret
type Mask struct {
	off    bool
	random io.Reader
}

var (
	// MaskDefault blinds private-key operations with the system RNG
	MaskDefault = Mask{}

	// MaskOff disables blinding. Only suitable when the operation runs over
	// public data or the key does not need timing protection
	MaskOff = Mask{off: true}
)

// MaskWith blinds private-key operations with a caller-supplied RNG.
// Concurrent use of the same reader across calls is the caller's problem
func MaskWith(random io.Reader) Mask {
	return Mask{random: random}
}

func (m Mask) reader() io.Reader {
	if m.off {
		return nil
	}
	if m.random != nil {
		return m.random
	}
	return rand.Reader
}

// check that the message representative is in [1, N)
func checkMessage(m *big.Int, pub *PublicKey) error {
	if m.Cmp(bigOne) < 0 || m.Cmp(pub.N) >= 0 {
		return ErrInvalidMessage
	}
	return nil
}

// encrypt performs the raw public-key operation m^e mod N
func encrypt(pub *PublicKey, m *big.Int) (*big.Int, error) {
	if err := checkMessage(m, pub); err != nil {
		return nil, err
	}
	return new(big.Int).Exp(m, pub.E, pub.N), nil
}

// decrypt performs the raw private-key operation in CRT form, which is about
// four times faster than a single exponentiation mod N.
//
// If random is not nil the ciphertext is blinded before the exponentiation:
// a uniform r coprime to N is drawn, r^e * c is decrypted instead of c, and
// the factor is divided back out of the result
func decrypt(random io.Reader, priv *PrivateKey, c *big.Int) (*big.Int, error) {
	if err := checkMessage(c, &priv.PublicKey); err != nil {
		return nil, err
	}

	var rInv *big.Int
	if random != nil {
		r, err := blindingFactor(random, priv.N)
		if err != nil {
			return nil, err
		}
		rInv = new(big.Int).ModInverse(r, priv.N)

		// c <- r^e * c mod N
		blind := new(big.Int).Exp(r, priv.E, priv.N)
		blind.Mul(blind, c)
		c = blind.Mod(blind, priv.N)
	}

	// m1 <- c^dp mod p, m2 <- c^dq mod q
	m1 := new(big.Int).Exp(c, priv.Dp, priv.P)
	m2 := new(big.Int).Exp(c, priv.Dq, priv.Q)

	// h <- qInv * (m1 - m2) mod p, kept non-negative by the Euclidean Mod
	h := new(big.Int).Sub(m1, m2)
	h.Mul(h, priv.Qinv)
	h.Mod(h, priv.P)

	// m <- h*q + m2
	m := h.Mul(h, priv.Q)
	m.Add(m, m2)

	if rInv != nil {
		// undo the blinding: m <- rInv * m mod N
		m.Mul(m, rInv)
		m.Mod(m, priv.N)
	}
	return m, nil
}

// returns a uniform random number in [2, n) that is coprime to n.
// For a well-formed modulus a non-coprime draw has negligible probability,
// but we retry anyway
func blindingFactor(random io.Reader, n *big.Int) (*big.Int, error) {
	gcd := new(big.Int)
	for {
		r, err := rand.Int(random, n)
		if err != nil {
			return nil, fmt.Errorf("failed to draw blinding factor: %w", err)
		}

		if r.Cmp(bigTwo) < 0 {
			continue
		}
		if gcd.GCD(nil, nil, r, n).Cmp(bigOne) != 0 {
			continue
		}
		return r, nil
	}
}

// Encrypt performs the textbook RSA public-key operation on a big-endian
// message. The result always has length pub.Size().
//
// Raw RSA offers no semantic security; unless a higher protocol demands the
// bare primitive, use [EncryptOAEP] or [EncryptPKCS1v15]
func Encrypt(pub *PublicKey, msg []byte) ([]byte, error) {
	if err := checkPub(pub); err != nil {
		return nil, err
	}
	c, err := encrypt(pub, os2ip(msg))
	if err != nil {
		return nil, err
	}
	return i2osp(c, pub.Size()), nil
}

// Decrypt performs the textbook RSA private-key operation on a big-endian
// ciphertext, with blinding as selected by mask. The result always has
// length priv.Size()
func Decrypt(priv *PrivateKey, mask Mask, ct []byte) ([]byte, error) {
	if err := checkPub(&priv.PublicKey); err != nil {
		return nil, err
	}
	m, err := decrypt(mask.reader(), priv, os2ip(ct))
	if err != nil {
		return nil, err
	}
	return i2osp(m, priv.Size()), nil
}
