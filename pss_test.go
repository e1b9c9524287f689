package rsakit

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"hash"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

var _ = Describe("PSS", func() {

	stdKey, key := generateKeyPair(2048)
	pub := key.Public()

	Context("Round-tripping with SHA-256", func() {
		It("Signs and verifies the empty message with the default salt", func() {
			sig, err := SignPSS(rand.Reader, key, sha256.New(), nil, SaltLengthEqualsHash)
			Expect(err).To(BeNil(), fmt.Sprintf("failed to sign: %s", err))
			Expect(sig).To(HaveLen(256))

			err = VerifyPSS(pub, sha256.New(), nil, sig, SaltLengthEqualsHash)
			Expect(err).To(BeNil(), fmt.Sprintf("failed to verify: %s", err))
		})

		It("Rejects every single-byte corruption", func() {
			msg := []byte("TEST MESSAGE")
			sig, err := SignPSS(rand.Reader, key, sha256.New(), msg, SaltLengthEqualsHash)
			Expect(err).To(BeNil())

			for i := range sig {
				sig[i] ^= 0xff
				err := VerifyPSS(pub, sha256.New(), msg, sig, SaltLengthEqualsHash)
				Expect(err).To(MatchError(ErrVerification), fmt.Sprintf("corrupted byte %d still verified", i))
				sig[i] ^= 0xff
			}
		})

		It("Rejects a mismatched message and a mismatched salt length", func() {
			msg := []byte("signed")
			sig, err := SignPSS(rand.Reader, key, sha256.New(), msg, SaltLengthEqualsHash)
			Expect(err).To(BeNil())

			Expect(VerifyPSS(pub, sha256.New(), []byte("other"), sig, SaltLengthEqualsHash)).To(MatchError(ErrVerification))
			Expect(VerifyPSS(pub, sha256.New(), msg, sig, 16)).To(MatchError(ErrVerification))
		})

		It("Supports a zero-length salt", func() {
			msg := []byte("deterministic")
			sig1, err := SignPSS(rand.Reader, key, sha256.New(), msg, 0)
			Expect(err).To(BeNil())
			sig2, err := SignPSS(rand.Reader, key, sha256.New(), msg, 0)
			Expect(err).To(BeNil())

			// with no salt the encoding collapses to a deterministic one
			Expect(sig2).To(Equal(sig1))
			Expect(VerifyPSS(pub, sha256.New(), msg, sig1, 0)).To(Succeed())
		})

		It("Interoperates with the stdlib in both directions", func() {
			msg := []byte("interop")
			digest := sha256.Sum256(msg)

			sig, err := SignPSS(rand.Reader, key, sha256.New(), msg, SaltLengthEqualsHash)
			Expect(err).To(BeNil())
			err = rsa.VerifyPSS(stdlibPub(pub), crypto.SHA256, digest[:], sig, &rsa.PSSOptions{
				SaltLength: rsa.PSSSaltLengthEqualsHash,
				Hash:       crypto.SHA256,
			})
			Expect(err).To(BeNil(), fmt.Sprintf("stdlib rejected our signature: %s", err))

			sig, err = rsa.SignPSS(rand.Reader, stdKey, crypto.SHA256, digest[:], &rsa.PSSOptions{
				SaltLength: rsa.PSSSaltLengthEqualsHash,
				Hash:       crypto.SHA256,
			})
			Expect(err).To(BeNil())
			err = VerifyPSS(pub, sha256.New(), msg, sig, SaltLengthEqualsHash)
			Expect(err).To(BeNil(), fmt.Sprintf("failed to verify stdlib signature: %s", err))
		})
	})

	Context("Keys one bit past a byte boundary", func() {
		// the one residue class where the encoded message is a byte shorter
		// than the modulus, so the signature must not reuse its buffer

		It("Round-trips repeatedly with a 1025-bit key", func() {
			key, err := Generate(rand.Reader, 1025, nil)
			Expect(err).To(BeNil(), fmt.Sprintf("failed to generate key: %s", err))
			Expect(key.Size()).To(Equal(129))

			msg := []byte("boundary")
			for i := 0; i < 8; i++ {
				sig, err := SignPSS(rand.Reader, key, sha256.New(), msg, SaltLengthEqualsHash)
				Expect(err).To(BeNil(), fmt.Sprintf("failed to sign on attempt %d: %s", i, err))
				Expect(sig).To(HaveLen(129))

				err = VerifyPSS(key.Public(), sha256.New(), msg, sig, SaltLengthEqualsHash)
				Expect(err).To(BeNil(), fmt.Sprintf("failed to verify on attempt %d: %s", i, err))
			}
		})

		It("Round-trips with a 513-bit key and a short salt", func() {
			key, err := Generate(rand.Reader, 513, nil)
			Expect(err).To(BeNil())

			msg := []byte("small boundary")
			for i := 0; i < 8; i++ {
				sig, err := SignPSS(rand.Reader, key, sha256.New(), msg, 16)
				Expect(err).To(BeNil(), fmt.Sprintf("failed to sign on attempt %d: %s", i, err))
				Expect(sig).To(HaveLen(65))

				err = VerifyPSS(key.Public(), sha256.New(), msg, sig, 16)
				Expect(err).To(BeNil(), fmt.Sprintf("failed to verify on attempt %d: %s", i, err))
			}
		})
	})

	Context("Encoding limits", func() {
		It("Fails when the modulus cannot hold digest, salt and trailer", func() {
			smallKey, err := Generate(rand.Reader, 256, nil)
			Expect(err).To(BeNil())

			// emLen = 32 < hLen + sLen + 2 = 66
			_, err = SignPSS(rand.Reader, smallKey, sha256.New(), []byte("m"), SaltLengthEqualsHash)
			Expect(err).To(MatchError(ErrMessageTooLong))
		})

		It("Rejects a signature of the wrong length", func() {
			sig, err := SignPSS(rand.Reader, key, sha256.New(), nil, SaltLengthEqualsHash)
			Expect(err).To(BeNil())

			Expect(VerifyPSS(pub, sha256.New(), nil, sig[:255], SaltLengthEqualsHash)).To(MatchError(ErrVerification))
		})
	})

	Context("Other hashes", func() {
		newBlake2b := func() hash.Hash {
			h, err := blake2b.New256(nil)
			Expect(err).To(BeNil())
			return h
		}

		It("Round-trips with SHA3-256 and BLAKE2b-256", func() {
			msg := []byte("hash agility")

			for name, newHash := range map[string]func() hash.Hash{
				"sha3-256":    sha3.New256,
				"blake2b-256": newBlake2b,
			} {
				sig, err := SignPSS(rand.Reader, key, newHash(), msg, SaltLengthEqualsHash)
				Expect(err).To(BeNil(), fmt.Sprintf("%s: failed to sign: %s", name, err))

				err = VerifyPSS(pub, newHash(), msg, sig, SaltLengthEqualsHash)
				Expect(err).To(BeNil(), fmt.Sprintf("%s: failed to verify: %s", name, err))
			}
		})
	})
})
