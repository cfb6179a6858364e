// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package xhd

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/complex-gh/xhd/bip32ed25519"
	"github.com/tyler-smith/go-bip39"
)

// entropySizes maps a BIP39 word count to its entropy size in bytes.
var entropySizes = map[int]int{
	12: 16, // 128 bits
	15: 20, // 160 bits
	18: 24, // 192 bits
	21: 28, // 224 bits
	24: 32, // 256 bits
}

// ValidWordCount reports whether wordCount is a BIP39 mnemonic length.
func ValidWordCount(wordCount int) bool {
	_, ok := entropySizes[wordCount]
	return ok
}

// RootKeyFromMnemonic turns a BIP39 mnemonic into a root extended private
// key. The mnemonic checksum is verified against the active word list and
// bip39Passphrase is the optional BIP39 passphrase.
func RootKeyFromMnemonic(mnemonic, bip39Passphrase string) (bip32ed25519.XPrv, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, bip39Passphrase)
	if err != nil {
		return bip32ed25519.XPrv{}, fmt.Errorf("invalid mnemonic: %w", err)
	}

	root, err := bip32ed25519.FromSeed(seed)
	if err != nil {
		return bip32ed25519.XPrv{}, fmt.Errorf("could not create root key: %w", err)
	}
	return root, nil
}

// combineSeedPassphrase combines a seed passphrase with the SSH key seed. The
// passphrase is hashed with SHA256 and XORed into the key seed.
func combineSeedPassphrase(keySeed []byte, seedPassphrase string) []byte {
	passphraseHash := sha256.Sum256([]byte(seedPassphrase))

	combined := make([]byte, len(keySeed))
	for i := range keySeed {
		combined[i] = keySeed[i] ^ passphraseHash[i]
	}

	return combined
}

// MnemonicFromSSHKey deterministically turns an Ed25519 SSH key into a BIP39
// mnemonic of wordCount words, which can then be passed to
// RootKeyFromMnemonic. The SSH key cannot be recovered from the result.
//
// A non-empty seedPassphrase is mixed into the key seed first. For 24 words
// the (combined) 32-byte seed is used directly as entropy. Shorter phrases
// hash the seed prefixed with the word count, so that every length yields
// unrelated words rather than a truncated 24-word phrase.
func MnemonicFromSSHKey(key *ed25519.PrivateKey, wordCount int, seedPassphrase string) (string, error) {
	entropySize, ok := entropySizes[wordCount]
	if !ok {
		return "", fmt.Errorf("invalid word count: %d (must be 12, 15, 18, 21, or 24)", wordCount)
	}

	fullSeed := key.Seed()

	var combinedSeed []byte
	if seedPassphrase != "" {
		combinedSeed = combineSeedPassphrase(fullSeed, seedPassphrase)
	} else {
		combinedSeed = make([]byte, len(fullSeed))
		copy(combinedSeed, fullSeed)
	}

	if wordCount == 24 { //nolint:mnd
		words, err := bip39.NewMnemonic(combinedSeed)
		if err != nil {
			return "", fmt.Errorf("could not create a mnemonic set of words: %w", err)
		}
		return words, nil
	}

	prefixedSeed := make([]byte, 2, 2+len(combinedSeed))
	binary.BigEndian.PutUint16(prefixedSeed, uint16(wordCount)) //nolint:gosec
	prefixedSeed = append(prefixedSeed, combinedSeed...)

	hash := sha256.Sum256(prefixedSeed)
	words, err := bip39.NewMnemonic(hash[:entropySize])
	if err != nil {
		return "", fmt.Errorf("could not create a mnemonic set of words: %w", err)
	}

	return words, nil
}
