package rsakit

import (
	"fmt"
	"math/big"
)

var (
	bigZero  = big.NewInt(0)
	bigOne   = big.NewInt(1)
	bigTwo   = big.NewInt(2)
	bigThree = big.NewInt(3)
)

// A PublicKey represents the public part of an RSA key
type PublicKey struct {
	N *big.Int // modulus
	E *big.Int // public exponent
}

// Size returns the modulus size in bytes. Raw signatures and ciphertexts
// for or by this public key will have the same size
func (pub *PublicKey) Size() int {
	return (pub.N.BitLen() + 7) / 8
}

// BitLen returns the bit length of the modulus
func (pub *PublicKey) BitLen() int {
	return pub.N.BitLen()
}

// A PrivateKey represents an RSA key in CRT form.
// The prime factors are held in the canonical order P > Q, which is the
// order Qinv assumes
type PrivateKey struct {
	PublicKey          // public part
	D         *big.Int // private exponent
	P         *big.Int // first prime factor
	Q         *big.Int // second prime factor
	Dp        *big.Int // D mod (P - 1)
	Dq        *big.Int // D mod (Q - 1)
	Qinv      *big.Int // Q^-1 mod P
}

// Public returns the public key corresponding to priv
func (priv *PrivateKey) Public() *PublicKey {
	return &priv.PublicKey
}

// calculate the Euler totient of N = p*q from its two prime factors
//
// phi <- (p - 1) * (q - 1)
func eulerTotient(p *big.Int, q *big.Int) *big.Int {
	pm1 := new(big.Int).Sub(p, bigOne)
	qm1 := new(big.Int).Sub(q, bigOne)
	return new(big.Int).Mul(pm1, qm1)
}

// sanity check the public key before we use it
func checkPub(pub *PublicKey) error {
	if pub == nil || pub.N == nil || pub.E == nil {
		return fmt.Errorf("%w: missing modulus or exponent", ErrInvalidKey)
	}
	if pub.E.Cmp(bigThree) < 0 {
		return fmt.Errorf("%w: public exponent too small", ErrInvalidKey)
	}
	if pub.E.Bit(0) == 0 {
		return fmt.Errorf("%w: public exponent is even", ErrInvalidKey)
	}
	if pub.E.Cmp(pub.N) >= 0 {
		return fmt.Errorf("%w: public exponent not less than modulus", ErrInvalidKey)
	}
	return nil
}

// FromPrimes assembles a private key from a public exponent and two distinct
// primes, deriving the modulus, the private exponent and the CRT components.
// The primes may be given in either order; the returned key holds them with
// P > Q.
//
// FromPrimes fails with [ErrInvalidKey] when p = q, when e < 3, or when e is
// not coprime to (p-1)*(q-1) and therefore has no inverse mod phi(N)
func FromPrimes(e, p, q *big.Int) (*PrivateKey, error) {
	if e == nil || p == nil || q == nil {
		return nil, fmt.Errorf("%w: nil parameter", ErrInvalidKey)
	}
	if e.Cmp(bigThree) < 0 {
		return nil, fmt.Errorf("%w: public exponent %v is less than 3", ErrInvalidKey, e)
	}
	if p.Cmp(bigTwo) < 0 || q.Cmp(bigTwo) < 0 {
		return nil, fmt.Errorf("%w: prime factor less than 2", ErrInvalidKey)
	}
	if p.Cmp(q) == 0 {
		return nil, fmt.Errorf("%w: prime factors are equal", ErrInvalidKey)
	}

	// canonical order: P > Q
	if p.Cmp(q) < 0 {
		p, q = q, p
	}

	pm1 := new(big.Int).Sub(p, bigOne)
	qm1 := new(big.Int).Sub(q, bigOne)

	// e must be invertible in the ring Z/phiZ, which holds exactly when
	// gcd(e, p-1) = gcd(e, q-1) = 1
	gcd := new(big.Int).GCD(nil, nil, e, pm1)
	if gcd.Cmp(bigOne) != 0 {
		return nil, fmt.Errorf("%w: e shares a factor with p-1", ErrInvalidKey)
	}
	gcd.GCD(nil, nil, e, qm1)
	if gcd.Cmp(bigOne) != 0 {
		return nil, fmt.Errorf("%w: e shares a factor with q-1", ErrInvalidKey)
	}

	phi := eulerTotient(p, q)
	d := new(big.Int).ModInverse(e, phi)
	if d == nil {
		return nil, fmt.Errorf("%w: e has no inverse mod phi(N)", ErrInvalidKey)
	}

	return &PrivateKey{
		PublicKey: PublicKey{
			N: new(big.Int).Mul(p, q),
			E: new(big.Int).Set(e),
		},
		D:    d,
		P:    new(big.Int).Set(p),
		Q:    new(big.Int).Set(q),
		Dp:   new(big.Int).Mod(d, pm1),
		Dq:   new(big.Int).Mod(d, qm1),
		Qinv: new(big.Int).ModInverse(q, p),
	}, nil
}
