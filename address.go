// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package xhd

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/types"
)

// ErrInvalidAddress is returned when an address string fails to decode or
// its checksum does not match.
var ErrInvalidAddress = errors.New("invalid address")

// EncodeAddress returns the Algorand address of an Ed25519 public key: the
// base32 encoding of the key followed by the last four bytes of its
// SHA-512/256 digest.
func EncodeAddress(pub ed25519.PublicKey) (string, error) {
	if len(pub) != ed25519.PublicKeySize {
		return "", fmt.Errorf("%w: public key must be %d bytes, got %d", ErrInvalidAddress, ed25519.PublicKeySize, len(pub))
	}

	var addr types.Address
	copy(addr[:], pub)
	return addr.String(), nil
}

// DecodeAddress returns the public key behind an Algorand address.
func DecodeAddress(address string) (ed25519.PublicKey, error) {
	addr, err := types.DecodeAddress(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	pub := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(pub, addr[:])
	return pub, nil
}
