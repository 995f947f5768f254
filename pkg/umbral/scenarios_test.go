package umbral_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/luxfi/umbral/pkg/math/curve"
	"github.com/luxfi/umbral/pkg/umbral"
)

// These specs implement spec.md §8's end-to-end seed vectors E1-E6 as a
// Ginkgo suite, the natural home for multi-step scenarios in this module
// (see _examples/luxfi-threshold/protocols/lss/lss_property_test.go for
// the precedent this module's test tooling follows).
var _ = Describe("Umbral threshold proxy re-encryption", func() {
	var (
		params           *umbral.Parameters
		skAlice, skBob   *umbral.SecretKey
		skSigner         *umbral.SecretKey
	)

	BeforeEach(func() {
		var err error
		params, err = umbral.NewParameters(curve.Secp256k1{})
		Expect(err).NotTo(HaveOccurred())
		skAlice = umbral.GenerateSecretKey(params.Group)
		skBob = umbral.GenerateSecretKey(params.Group)
		skSigner = umbral.GenerateSecretKey(params.Group)
	})

	// E1: t=2, N=3.
	Describe("a 2-of-3 delegation", func() {
		It("lets any two CFrags decrypt, and one alone does not", func() {
			plaintext := []byte("peace at dawn")
			capsule, ciphertext, err := umbral.Encrypt(params, skAlice.PublicKey(), plaintext)
			Expect(err).NotTo(HaveOccurred())

			kfrags, err := umbral.GenerateKFrags(params, skAlice, skBob.PublicKey(), skSigner, 2, 3, true, true)
			Expect(err).NotTo(HaveOccurred())
			for _, kf := range kfrags {
				Expect(kf.Verify(params, skSigner.PublicKey(), skAlice.PublicKey(), skBob.PublicKey())).To(Succeed())
			}

			cfrags := make([]*umbral.CFrag, len(kfrags))
			for i, kf := range kfrags {
				cfrags[i], err = umbral.Reencrypt(params, capsule, kf, nil)
				Expect(err).NotTo(HaveOccurred())
			}

			for _, pair := range [][2]int{{0, 1}, {0, 2}, {1, 2}} {
				decrypted, err := umbral.DecryptReencrypted(params, skBob, skAlice.PublicKey(), capsule,
					[]*umbral.CFrag{cfrags[pair[0]], cfrags[pair[1]]}, ciphertext)
				Expect(err).NotTo(HaveOccurred())
				Expect(decrypted).To(Equal(plaintext))
			}

			_, err = umbral.DecryptReencrypted(params, skBob, skAlice.PublicKey(), capsule, cfrags[:1], ciphertext)
			Expect(err).To(HaveOccurred())
		})
	})

	// E2: t=3, N=5, swapping a CFrag between two independent encapsulations.
	Describe("a 3-of-5 delegation", func() {
		It("decrypts with any 3 CFrags and rejects a swapped-capsule CFrag", func() {
			plaintext := make([]byte, 1024)
			for i := range plaintext {
				plaintext[i] = byte(i * 7 % 256)
			}

			capsuleA, ciphertextA, err := umbral.Encrypt(params, skAlice.PublicKey(), plaintext)
			Expect(err).NotTo(HaveOccurred())
			capsuleB, _, err := umbral.Encrypt(params, skAlice.PublicKey(), plaintext)
			Expect(err).NotTo(HaveOccurred())

			kfragsA, err := umbral.GenerateKFrags(params, skAlice, skBob.PublicKey(), skSigner, 3, 5, true, true)
			Expect(err).NotTo(HaveOccurred())
			kfragsB, err := umbral.GenerateKFrags(params, skAlice, skBob.PublicKey(), skSigner, 3, 5, true, true)
			Expect(err).NotTo(HaveOccurred())

			cfragsA := make([]*umbral.CFrag, len(kfragsA))
			for i, kf := range kfragsA {
				cfragsA[i], err = umbral.Reencrypt(params, capsuleA, kf, nil)
				Expect(err).NotTo(HaveOccurred())
			}
			cfragsB := make([]*umbral.CFrag, len(kfragsB))
			for i, kf := range kfragsB {
				cfragsB[i], err = umbral.Reencrypt(params, capsuleB, kf, nil)
				Expect(err).NotTo(HaveOccurred())
			}

			decrypted, err := umbral.DecryptReencrypted(params, skBob, skAlice.PublicKey(), capsuleA, cfragsA[:3], ciphertextA)
			Expect(err).NotTo(HaveOccurred())
			Expect(decrypted).To(Equal(plaintext))

			swapped := []*umbral.CFrag{cfragsA[0], cfragsA[1], cfragsB[2]}
			_, err = umbral.DecryptReencrypted(params, skBob, skAlice.PublicKey(), capsuleA, swapped, ciphertextA)
			Expect(err).To(MatchError(umbral.ErrInvalidCFragSet))
		})
	})

	// E3: tampering with a CFrag field.
	Describe("a tampered CFrag", func() {
		It("fails verification and decryption", func() {
			capsule, ciphertext, err := umbral.Encrypt(params, skAlice.PublicKey(), []byte("peace at dawn"))
			Expect(err).NotTo(HaveOccurred())

			kfrags, err := umbral.GenerateKFrags(params, skAlice, skBob.PublicKey(), skSigner, 2, 3, true, true)
			Expect(err).NotTo(HaveOccurred())

			good, err := umbral.Reencrypt(params, capsule, kfrags[1], nil)
			Expect(err).NotTo(HaveOccurred())

			tampered, err := umbral.Reencrypt(params, capsule, kfrags[0], nil)
			Expect(err).NotTo(HaveOccurred())
			e1Bytes, err := tampered.E1.MarshalBinary()
			Expect(err).NotTo(HaveOccurred())
			e1Bytes[0] ^= 0x01 // 0x02 <-> 0x03: still decodes, to -E1
			p := params.Group.NewPoint()
			Expect(p.UnmarshalBinary(e1Bytes)).To(Succeed())
			tampered.E1 = p

			Expect(tampered.Verify(params, capsule, skAlice.PublicKey(), skBob.PublicKey(), skSigner.PublicKey())).NotTo(Succeed())

			_, err = umbral.DecryptReencrypted(params, skBob, skAlice.PublicKey(), capsule,
				[]*umbral.CFrag{tampered, good}, ciphertext)
			Expect(err).To(HaveOccurred())
		})
	})

	// E4: metadata binding.
	Describe("metadata-bound re-encryption", func() {
		It("verifies with the matching metadata and fails with a substituted hash", func() {
			capsule, _, err := umbral.Encrypt(params, skAlice.PublicKey(), []byte("peace at dawn"))
			Expect(err).NotTo(HaveOccurred())

			kfrags, err := umbral.GenerateKFrags(params, skAlice, skBob.PublicKey(), skSigner, 2, 3, true, true)
			Expect(err).NotTo(HaveOccurred())

			cfragM1, err := umbral.Reencrypt(params, capsule, kfrags[0], []byte("m1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(cfragM1.Verify(params, capsule, skAlice.PublicKey(), skBob.PublicKey(), skSigner.PublicKey())).To(Succeed())

			cfragM2, err := umbral.Reencrypt(params, capsule, kfrags[0], []byte("m2"))
			Expect(err).NotTo(HaveOccurred())

			spliced := *cfragM1
			spliced.Proof.MetadataHash = cfragM2.Proof.MetadataHash
			Expect(spliced.Verify(params, capsule, skAlice.PublicKey(), skBob.PublicKey(), skSigner.PublicKey())).NotTo(Succeed())
		})
	})

	// E5: KFrag signature embedding flags.
	Describe("selective public-key signing flags", func() {
		It("only verifies against the keys that were actually embedded", func() {
			kfrags, err := umbral.GenerateKFrags(params, skAlice, skBob.PublicKey(), skSigner, 2, 3, false, true)
			Expect(err).NotTo(HaveOccurred())

			Expect(kfrags[0].Verify(params, skSigner.PublicKey(), nil, skBob.PublicKey())).To(Succeed())
			Expect(kfrags[0].Verify(params, skSigner.PublicKey(), skAlice.PublicKey(), skBob.PublicKey())).NotTo(Succeed())
		})
	})

	// E6: cross-key isolation.
	Describe("decrypting with the wrong secret key", func() {
		It("fails rather than silently producing garbage", func() {
			capsule, ciphertext, err := umbral.Encrypt(params, skAlice.PublicKey(), []byte("peace at dawn"))
			Expect(err).NotTo(HaveOccurred())

			kfrags, err := umbral.GenerateKFrags(params, skAlice, skBob.PublicKey(), skSigner, 2, 3, true, true)
			Expect(err).NotTo(HaveOccurred())

			cfrags := make([]*umbral.CFrag, len(kfrags))
			for i, kf := range kfrags {
				cfrags[i], err = umbral.Reencrypt(params, capsule, kf, nil)
				Expect(err).NotTo(HaveOccurred())
			}

			skOtherBob := umbral.GenerateSecretKey(params.Group)
			_, err = umbral.DecryptReencrypted(params, skOtherBob, skAlice.PublicKey(), capsule, cfrags[:2], ciphertext)
			Expect(err).To(HaveOccurred())
		})
	})
})
