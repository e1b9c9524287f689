package rsakit

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Miller-Rabin rounds for the public exponent check. Each round has error
// probability at most 1/4, so 64 rounds bound the error by 2^-128
const primalityRounds = 64

// Generate produces a private key whose modulus has exactly the requested
// bit length, drawing primes from random. If e is nil the conventional
// exponent 65537 is used.
//
// Generate fails with [ErrInvalidKey] when bits < 10, when e is smaller
// than 3 or not a probable prime, or when e has as many bits as the
// requested modulus
func Generate(random io.Reader, bits int, e *big.Int) (*PrivateKey, error) {
	if e == nil {
		e = big.NewInt(65537)
	}
	if bits < 10 {
		return nil, fmt.Errorf("%w: modulus of %d bits is too small", ErrInvalidKey, bits)
	}
	if e.Cmp(bigThree) < 0 {
		return nil, fmt.Errorf("%w: public exponent %v is less than 3", ErrInvalidKey, e)
	}
	if !e.ProbablyPrime(primalityRounds) {
		return nil, fmt.Errorf("%w: public exponent %v is not prime", ErrInvalidKey, e)
	}
	if e.BitLen() >= bits {
		return nil, fmt.Errorf("%w: public exponent does not fit a %d-bit modulus", ErrInvalidKey, bits)
	}

	gcd := new(big.Int)
	pm1 := new(big.Int)
	qm1 := new(big.Int)
	for {
		// rand.Prime sets the top two bits, so the product of the two
		// halves has exactly the requested bit length
		p, err := rand.Prime(random, bits/2)
		if err != nil {
			return nil, fmt.Errorf("failed to generate prime: %w", err)
		}
		q, err := rand.Prime(random, bits-bits/2)
		if err != nil {
			return nil, fmt.Errorf("failed to generate prime: %w", err)
		}

		// reject the sample and redraw when the primes collide or e is not
		// invertible mod phi(N)
		if p.Cmp(q) == 0 {
			continue
		}
		if gcd.GCD(nil, nil, e, pm1.Sub(p, bigOne)).Cmp(bigOne) != 0 {
			continue
		}
		if gcd.GCD(nil, nil, e, qm1.Sub(q, bigOne)).Cmp(bigOne) != 0 {
			continue
		}

		return FromPrimes(e, p, q)
	}
}
