// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package bip32ed25519

import (
	"crypto/ed25519"
	"crypto/hmac"
	"encoding/binary"
	"fmt"

	"filippo.io/edwards25519"
)

// XPub is an extended public key: the Ed25519 point A and a chain code. It
// can derive non-hardened children only.
type XPub struct {
	pk [32]byte
	cc [32]byte
}

// NewXPub parses a 64-byte A || chain code serialization.
func NewXPub(b []byte) (XPub, error) {
	if len(b) != XPubSize {
		return XPub{}, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidKey, XPubSize, len(b))
	}
	if _, err := new(edwards25519.Point).SetBytes(b[:32]); err != nil {
		return XPub{}, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	var pub XPub
	copy(pub.pk[:], b[:32])
	copy(pub.cc[:], b[32:])
	return pub, nil
}

// Bytes returns the 64-byte serialization A || chain code.
func (p XPub) Bytes() []byte {
	out := make([]byte, 0, XPubSize)
	out = append(out, p.pk[:]...)
	return append(out, p.cc[:]...)
}

// PublicKey returns the Ed25519 public key.
func (p XPub) PublicKey() ed25519.PublicKey {
	out := make([]byte, ed25519.PublicKeySize)
	copy(out, p.pk[:])
	return out
}

// ChainCode returns a copy of the chain code.
func (p XPub) ChainCode() []byte {
	out := make([]byte, len(p.cc))
	copy(out, p.cc[:])
	return out
}

// Equal reports whether two extended public keys are identical.
func (p XPub) Equal(other XPub) bool {
	return hmac.Equal(p.Bytes(), other.Bytes())
}

// Derive returns the non-hardened child at index. The result matches
// XPrv.Derive(scheme, index).Public() for the corresponding private key.
func (p XPub) Derive(scheme Scheme, index uint32) (XPub, error) {
	if index >= HardenedOffset {
		return XPub{}, fmt.Errorf("%w: index %d", ErrHardenedPublic, index)
	}
	g, err := scheme.truncationBits()
	if err != nil {
		return XPub{}, err
	}

	a, err := new(edwards25519.Point).SetBytes(p.pk[:])
	if err != nil {
		return XPub{}, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], index)
	z := hmacSHA512(p.cc[:], []byte{0x02}, p.pk[:], idx[:])
	c := hmacSHA512(p.cc[:], []byte{0x03}, p.pk[:], idx[:])

	var zero [32]byte
	tweak, ok := addMul8(zero, truncate(z[:32], g))
	if !ok {
		return XPub{}, fmt.Errorf("%w: index %d", ErrDerivationOverflow, index)
	}

	var wide [64]byte
	copy(wide[:], tweak[:])
	t, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		return XPub{}, fmt.Errorf("could not reduce tweak: %w", err)
	}
	point := new(edwards25519.Point).ScalarBaseMult(t)
	point.Add(point, a)

	var child XPub
	copy(child.pk[:], point.Bytes())
	copy(child.cc[:], c[32:])
	return child, nil
}
