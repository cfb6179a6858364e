// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package bip32ed25519 implements hierarchical deterministic Ed25519 keys as
// described in "BIP32-Ed25519: Hierarchical Deterministic Keys over a
// Non-linear Keyspace" (Khovratovich, Law), including the reduced truncation
// variant suggested by Peikert.
//
// An extended private key (XPrv) is the triple kL || kR || chain code. kL is
// the Ed25519 secret scalar, kR is the nonce seed used while signing and the
// chain code feeds child derivation. Keys are immutable values: deriving a
// child never modifies the parent.
package bip32ed25519

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
)

const (
	// HardenedOffset marks an index as a hardened derivation step.
	HardenedOffset uint32 = 0x80000000

	// XPrvSize is the length of a serialized extended private key.
	XPrvSize = 96

	// XPubSize is the length of a serialized extended public key.
	XPubSize = 64

	// SignatureSize is the length of an Ed25519 signature.
	SignatureSize = 64

	// minSeedSize is the smallest seed FromSeed accepts (128 bits).
	minSeedSize = 16
)

var (
	// ErrUnsupportedScheme is returned for a Scheme value outside the
	// supported set.
	ErrUnsupportedScheme = errors.New("unsupported derivation scheme")

	// ErrInvalidSeed is returned when a seed is too short to build a root key.
	ErrInvalidSeed = errors.New("invalid seed")

	// ErrInvalidKey is returned when serialized key material is malformed.
	ErrInvalidKey = errors.New("invalid extended key")

	// ErrDerivationOverflow is returned when a derived kL would reach 2^255,
	// which happens when a path is deeper than the scheme allows.
	ErrDerivationOverflow = errors.New("derived key exceeds the allowed range")

	// ErrHardenedPublic is returned when a hardened child is requested from
	// an extended public key.
	ErrHardenedPublic = errors.New("cannot derive a hardened child from a public key")
)

// Scheme selects how many bits of the left HMAC half are discarded before it
// is added to the parent scalar.
type Scheme uint8

const (
	// Peikert keeps 247 bits of zL (g = 9), which allows deep paths without
	// reducing the key space.
	Peikert Scheme = iota + 1

	// Khovratovich keeps 224 bits of zL (g = 32). This is the classic V2
	// derivation used by most BIP32-Ed25519 wallets.
	Khovratovich
)

// truncationBits returns g, the number of high bits cleared from zL.
func (s Scheme) truncationBits() (int, error) {
	switch s {
	case Peikert:
		return 9, nil //nolint:mnd
	case Khovratovich:
		return 32, nil //nolint:mnd
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedScheme, uint8(s))
	}
}

// String returns the lower-case scheme name.
func (s Scheme) String() string {
	switch s {
	case Peikert:
		return "peikert"
	case Khovratovich:
		return "khovratovich"
	default:
		return fmt.Sprintf("scheme(%d)", uint8(s))
	}
}

// ParseScheme maps a scheme name to its Scheme. "v2" is accepted as an alias
// for Khovratovich.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "peikert":
		return Peikert, nil
	case "khovratovich", "v2":
		return Khovratovich, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedScheme, name)
	}
}

// Signature is a 64-byte Ed25519 signature (R || S).
type Signature [SignatureSize]byte

// Bytes returns a copy of the signature bytes.
func (s Signature) Bytes() []byte {
	out := make([]byte, SignatureSize)
	copy(out, s[:])
	return out
}

// XPrv is an extended private key.
type XPrv struct {
	kl [32]byte
	kr [32]byte
	cc [32]byte
}

// FromSeed builds a root extended private key from a seed, usually the 64-byte
// output of BIP39.
//
// k = SHA512(seed) is split into kL and kR. While the third highest bit of kL
// is set, k is replaced with HMAC-SHA512(kL, kR). kL is then clamped and the
// chain code is SHA256(0x01 || seed).
func FromSeed(seed []byte) (XPrv, error) {
	if len(seed) < minSeedSize {
		return XPrv{}, fmt.Errorf("%w: need at least %d bytes, got %d", ErrInvalidSeed, minSeedSize, len(seed))
	}

	k := sha512.Sum512(seed)
	for k[31]&0b0010_0000 != 0 {
		mac := hmac.New(sha512.New, k[:32])
		mac.Write(k[32:])
		copy(k[:], mac.Sum(nil))
	}

	var x XPrv
	copy(x.kl[:], k[:32])
	copy(x.kr[:], k[32:])
	x.kl[0] &= 0b1111_1000
	x.kl[31] &= 0b0111_1111
	x.kl[31] |= 0b0100_0000

	cc := sha256.New()
	cc.Write([]byte{0x01})
	cc.Write(seed)
	copy(x.cc[:], cc.Sum(nil))

	return x, nil
}

// NewXPrv parses a 96-byte kL || kR || chain code serialization.
func NewXPrv(b []byte) (XPrv, error) {
	if len(b) != XPrvSize {
		return XPrv{}, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidKey, XPrvSize, len(b))
	}
	// kL is always a multiple of 8 below 2^255.
	if b[0]&0b0000_0111 != 0 || b[31]&0b1000_0000 != 0 {
		return XPrv{}, fmt.Errorf("%w: scalar is not a valid extended scalar", ErrInvalidKey)
	}

	var x XPrv
	copy(x.kl[:], b[:32])
	copy(x.kr[:], b[32:64])
	copy(x.cc[:], b[64:])
	return x, nil
}

// Bytes returns the 96-byte serialization kL || kR || chain code.
func (x XPrv) Bytes() []byte {
	out := make([]byte, 0, XPrvSize)
	out = append(out, x.kl[:]...)
	out = append(out, x.kr[:]...)
	return append(out, x.cc[:]...)
}

// ChainCode returns a copy of the chain code.
func (x XPrv) ChainCode() []byte {
	out := make([]byte, len(x.cc))
	copy(out, x.cc[:])
	return out
}

// Equal reports whether two keys hold the same material.
func (x XPrv) Equal(other XPrv) bool {
	return hmac.Equal(x.Bytes(), other.Bytes())
}

// scalar returns kL reduced modulo the group order.
func (x XPrv) scalar() *edwards25519.Scalar {
	var wide [64]byte
	copy(wide[:], x.kl[:])
	s, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		// SetUniformBytes only fails on a length other than 64.
		panic(err)
	}
	return s
}

// publicBytes returns A = kL·B.
func (x XPrv) publicBytes() []byte {
	return new(edwards25519.Point).ScalarBaseMult(x.scalar()).Bytes()
}

// PublicKey returns the Ed25519 public key of this extended key.
func (x XPrv) PublicKey() ed25519.PublicKey {
	return ed25519.PublicKey(x.publicBytes())
}

// Public returns the extended public key (A || chain code).
func (x XPrv) Public() XPub {
	var pub XPub
	copy(pub.pk[:], x.publicBytes())
	pub.cc = x.cc
	return pub
}

// Derive returns the child key at index under scheme. Indices at or above
// HardenedOffset produce hardened children.
func (x XPrv) Derive(scheme Scheme, index uint32) (XPrv, error) {
	g, err := scheme.truncationBits()
	if err != nil {
		return XPrv{}, err
	}

	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], index)

	var z, c []byte
	if index >= HardenedOffset {
		z = hmacSHA512(x.cc[:], []byte{0x00}, x.kl[:], x.kr[:], idx[:])
		c = hmacSHA512(x.cc[:], []byte{0x01}, x.kl[:], x.kr[:], idx[:])
	} else {
		pk := x.publicBytes()
		z = hmacSHA512(x.cc[:], []byte{0x02}, pk, idx[:])
		c = hmacSHA512(x.cc[:], []byte{0x03}, pk, idx[:])
	}

	zl := truncate(z[:32], g)
	kl, ok := addMul8(x.kl, zl)
	if !ok {
		return XPrv{}, fmt.Errorf("%w: index %d", ErrDerivationOverflow, index)
	}

	var child XPrv
	child.kl = kl
	child.kr = add256(x.kr, z[32:])
	copy(child.cc[:], c[32:])
	return child, nil
}

// Sign signs data with the extended key. The nonce is derived from kR, so the
// result is deterministic and verifies with crypto/ed25519 against
// PublicKey().
func (x XPrv) Sign(data []byte) (Signature, error) {
	s := x.scalar()
	pk := new(edwards25519.Point).ScalarBaseMult(s).Bytes()

	h := sha512.New()
	h.Write(x.kr[:])
	h.Write(data)
	r, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		return Signature{}, fmt.Errorf("could not derive nonce: %w", err)
	}
	rPoint := new(edwards25519.Point).ScalarBaseMult(r).Bytes()

	h.Reset()
	h.Write(rPoint)
	h.Write(pk)
	h.Write(data)
	k, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		return Signature{}, fmt.Errorf("could not derive challenge: %w", err)
	}

	var sig Signature
	copy(sig[:32], rPoint)
	copy(sig[32:], edwards25519.NewScalar().MultiplyAdd(k, s, r).Bytes())
	return sig, nil
}

func hmacSHA512(key []byte, parts ...[]byte) []byte {
	mac := hmac.New(sha512.New, key)
	for _, p := range parts {
		mac.Write(p)
	}
	return mac.Sum(nil)
}

// truncate clears the g most significant bits of the little-endian zL.
func truncate(zl []byte, g int) [32]byte {
	var out [32]byte
	copy(out[:], zl)
	for i := len(out) - 1; i >= 0 && g > 0; i-- {
		if g >= 8 {
			out[i] = 0
			g -= 8
			continue
		}
		out[i] &= 0xff >> g
		g = 0
	}
	return out
}

// addMul8 computes kl + 8·z over little-endian integers. It reports false
// when the sum does not stay below 2^255.
func addMul8(kl, z [32]byte) ([32]byte, bool) {
	var (
		out   [32]byte
		carry uint16
		prev  byte
	)
	for i := range out {
		shifted := uint16(z[i]<<3) | uint16(prev>>5)
		prev = z[i]
		sum := uint16(kl[i]) + shifted + carry
		out[i] = byte(sum)
		carry = sum >> 8
	}
	if carry != 0 || prev>>5 != 0 || out[31]&0x80 != 0 {
		return out, false
	}
	return out, true
}

// add256 computes a + b mod 2^256 over little-endian integers.
func add256(a [32]byte, b []byte) [32]byte {
	var (
		out   [32]byte
		carry uint16
	)
	for i := range out {
		sum := uint16(a[i]) + uint16(b[i]) + carry
		out[i] = byte(sum)
		carry = sum >> 8
	}
	return out
}
