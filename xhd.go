// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package xhd derives hierarchical deterministic Ed25519 keys along
// BIP44-style account paths and signs messages with them.
//
// The standard path for a key is m/44'/coin'/account'/0/index, where the coin
// type comes from a KeyContext: 283 for Algorand addresses and 0 for identity
// keys. The child-key arithmetic is delegated to an ExtendedKey, normally a
// bip32ed25519.XPrv. Every function here is pure: no key material is kept
// after a call returns, so all of them are safe for concurrent use.
package xhd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/complex-gh/xhd/bip32ed25519"
)

// DerivationIndex identifies one step of a derivation path.
type DerivationIndex = uint32

// Scheme selects the child derivation variant of the underlying key.
type Scheme = bip32ed25519.Scheme

// Supported schemes.
const (
	Peikert      = bip32ed25519.Peikert
	Khovratovich = bip32ed25519.Khovratovich
)

const (
	// HardenedOffset is added to an index to mark it as hardened.
	HardenedOffset DerivationIndex = 0x80000000

	// Purpose is the BIP44 purpose level.
	Purpose DerivationIndex = 44

	// ExternalChain is the change level used by every standard path.
	ExternalChain DerivationIndex = 0
)

var (
	// ErrInvalidIndex is returned when an index cannot be hardened without
	// leaving the 32-bit range.
	ErrInvalidIndex = errors.New("invalid derivation index")

	// ErrUnknownContext is returned for an unrecognized key context.
	ErrUnknownContext = errors.New("unknown key context")
)

// ExtendedKey is an extended private key able to derive children and sign.
// K is the concrete key type, so derivation stays within one implementation.
type ExtendedKey[K any] interface {
	Derive(scheme Scheme, index DerivationIndex) (K, error)
	Sign(data []byte) (bip32ed25519.Signature, error)
}

// KeyContext selects the coin type namespace a key is derived under.
type KeyContext int

const (
	// Address keys hold funds on chain (coin type 283).
	Address KeyContext = iota
	// Identity keys are non-monetary identity keys (coin type 0).
	Identity
)

// CoinType returns the BIP44 coin type of the context.
func (c KeyContext) CoinType() DerivationIndex {
	switch c {
	case Address:
		return 283 //nolint:mnd
	case Identity:
		return 0
	}
	panic(fmt.Sprintf("xhd: unknown key context %d", int(c)))
}

// String returns the lower-case context name.
func (c KeyContext) String() string {
	switch c {
	case Address:
		return "address"
	case Identity:
		return "identity"
	}
	return fmt.Sprintf("context(%d)", int(c))
}

// ParseKeyContext maps "address" or "identity" to a KeyContext.
func ParseKeyContext(name string) (KeyContext, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "address":
		return Address, nil
	case "identity":
		return Identity, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownContext, name)
}

// Harden returns index with the hardened offset added. Indices that already
// carry the offset are rejected with ErrInvalidIndex rather than wrapped.
func Harden(index DerivationIndex) (DerivationIndex, error) {
	if index >= HardenedOffset {
		return 0, fmt.Errorf("%w: %d is not below %#x", ErrInvalidIndex, index, HardenedOffset)
	}
	return index + HardenedOffset, nil
}

// IsHardened reports whether index carries the hardened offset.
func IsHardened(index DerivationIndex) bool {
	return index >= HardenedOffset
}

// Unharden strips the hardened offset, if any.
func Unharden(index DerivationIndex) DerivationIndex {
	return index &^ HardenedOffset
}

// BIP44Path is the five-level path purpose'/coin'/account'/change/index.
type BIP44Path [5]DerivationIndex

// Path returns the levels as a slice.
func (p BIP44Path) Path() Path {
	return Path(p[:])
}

// String formats the path as m/44'/283'/0'/0/0.
func (p BIP44Path) String() string {
	return p.Path().String()
}

// AccountPath assembles m/44'/coin'/account'/0/keyIndex for ctx. The key
// index level is never hardened, so keyIndex must be below HardenedOffset.
func AccountPath(ctx KeyContext, account, keyIndex DerivationIndex) (BIP44Path, error) {
	if ctx != Address && ctx != Identity {
		return BIP44Path{}, fmt.Errorf("%w: %d", ErrUnknownContext, int(ctx))
	}
	if IsHardened(keyIndex) {
		return BIP44Path{}, fmt.Errorf("%w: key index %d is hardened", ErrInvalidIndex, keyIndex)
	}
	purpose, err := Harden(Purpose)
	if err != nil {
		return BIP44Path{}, err
	}
	coin, err := Harden(ctx.CoinType())
	if err != nil {
		return BIP44Path{}, err
	}
	acct, err := Harden(account)
	if err != nil {
		return BIP44Path{}, fmt.Errorf("could not harden account: %w", err)
	}

	return BIP44Path{purpose, coin, acct, ExternalChain, keyIndex}, nil
}

// DerivePath walks root through path, one child derivation per index. An
// empty path returns root itself. root is never modified. The first Derive
// error is returned as is.
func DerivePath[K ExtendedKey[K]](root K, path []DerivationIndex, scheme Scheme) (K, error) {
	current := root
	for _, index := range path {
		child, err := current.Derive(scheme, index)
		if err != nil {
			var zero K
			return zero, err
		}
		current = child
	}
	return current, nil
}

// KeyGen derives the key at m/44'/coin'/account'/0/keyIndex.
func KeyGen[K ExtendedKey[K]](root K, ctx KeyContext, account, keyIndex DerivationIndex, scheme Scheme) (K, error) {
	path, err := AccountPath(ctx, account, keyIndex)
	if err != nil {
		var zero K
		return zero, err
	}
	return DerivePath(root, path[:], scheme)
}

// RawSign derives the key at an arbitrary path and signs data with it. The
// path shape is not checked. Derive and Sign errors are returned as is.
func RawSign[K ExtendedKey[K]](root K, path []DerivationIndex, data []byte, scheme Scheme) ([]byte, error) {
	key, err := DerivePath(root, path, scheme)
	if err != nil {
		return nil, err
	}

	sig, err := key.Sign(data)
	if err != nil {
		return nil, err
	}
	return sig.Bytes(), nil
}

// Sign signs prefixEncodedTx, already serialized by the caller, with the key
// at m/44'/coin'/account'/0/keyIndex.
func Sign[K ExtendedKey[K]](root K, ctx KeyContext, account, keyIndex DerivationIndex, prefixEncodedTx []byte, scheme Scheme) ([]byte, error) {
	path, err := AccountPath(ctx, account, keyIndex)
	if err != nil {
		return nil, err
	}
	return RawSign(root, path[:], prefixEncodedTx, scheme)
}
