// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package xhd

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/complex-gh/xhd/bip32ed25519"
)

// Human readable parts of the bech32 extended key encodings.
const (
	XPrvHRP = "xprv"
	XPubHRP = "xpub"
)

// EncodeXPrv returns the bech32 form of an extended private key.
func EncodeXPrv(key bip32ed25519.XPrv) (string, error) {
	return encodeBech32(XPrvHRP, key.Bytes())
}

// DecodeXPrv parses a bech32 extended private key.
func DecodeXPrv(s string) (bip32ed25519.XPrv, error) {
	data, err := decodeBech32(XPrvHRP, s)
	if err != nil {
		return bip32ed25519.XPrv{}, err
	}
	key, err := bip32ed25519.NewXPrv(data)
	if err != nil {
		return bip32ed25519.XPrv{}, fmt.Errorf("could not parse xprv: %w", err)
	}
	return key, nil
}

// EncodeXPub returns the bech32 form of an extended public key.
func EncodeXPub(key bip32ed25519.XPub) (string, error) {
	return encodeBech32(XPubHRP, key.Bytes())
}

// DecodeXPub parses a bech32 extended public key.
func DecodeXPub(s string) (bip32ed25519.XPub, error) {
	data, err := decodeBech32(XPubHRP, s)
	if err != nil {
		return bip32ed25519.XPub{}, err
	}
	key, err := bip32ed25519.NewXPub(data)
	if err != nil {
		return bip32ed25519.XPub{}, fmt.Errorf("could not parse xpub: %w", err)
	}
	return key, nil
}

func encodeBech32(hrp string, data []byte) (string, error) {
	conv, err := bech32.ConvertBits(data, 8, 5, true) //nolint:mnd
	if err != nil {
		return "", fmt.Errorf("could not convert to base32: %w", err)
	}
	s, err := bech32.Encode(hrp, conv)
	if err != nil {
		return "", fmt.Errorf("could not encode %s: %w", hrp, err)
	}
	return s, nil
}

// decodeBech32 decodes without the 90 character limit, since a 96-byte key
// does not fit in it.
func decodeBech32(hrp, s string) ([]byte, error) {
	gotHRP, data, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", hrp, err)
	}
	if gotHRP != hrp {
		return nil, fmt.Errorf("unexpected prefix %q, want %q", gotHRP, hrp)
	}
	conv, err := bech32.ConvertBits(data, 5, 8, false) //nolint:mnd
	if err != nil {
		return nil, fmt.Errorf("could not convert from base32: %w", err)
	}
	return conv, nil
}
