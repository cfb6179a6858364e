// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package xhd

import (
	"crypto/ed25519"
	"crypto/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/matryer/is"
)

// TestMnemonicFromSSHKey_AllFormats tests all word count formats
func TestMnemonicFromSSHKey_AllFormats(t *testing.T) {
	is := is.New(t)

	// Generate a test key
	_, key, err := ed25519.GenerateKey(rand.Reader)
	is.NoErr(err)

	for _, count := range []int{12, 15, 18, 21, 24} {
		t.Run(strconv.Itoa(count), func(t *testing.T) {
			is := is.New(t)
			mnemonic, err := MnemonicFromSSHKey(&key, count, "")
			is.NoErr(err)

			words := strings.Fields(mnemonic)
			is.Equal(len(words), count)
			is.True(ValidWordCount(count))

			// Every generated phrase must be usable as a root key source
			_, err = RootKeyFromMnemonic(mnemonic, "")
			is.NoErr(err)
		})
	}
}

// TestMnemonicFromSSHKey_InvalidWordCount tests invalid word counts
func TestMnemonicFromSSHKey_InvalidWordCount(t *testing.T) {
	is := is.New(t)

	_, key, err := ed25519.GenerateKey(rand.Reader)
	is.NoErr(err)

	for _, count := range []int{10, 11, 13, 14, 16, 17, 19, 20, 22, 23, 25, 30} {
		t.Run(strconv.Itoa(count), func(t *testing.T) {
			is := is.New(t)
			_, err := MnemonicFromSSHKey(&key, count, "")
			is.True(err != nil)
			is.True(!ValidWordCount(count))
		})
	}
}

// TestMnemonicFromSSHKey_Deterministic verifies that the same key and
// passphrase always produce the same mnemonic
func TestMnemonicFromSSHKey_Deterministic(t *testing.T) {
	is := is.New(t)

	_, key, err := ed25519.GenerateKey(rand.Reader)
	is.NoErr(err)

	mnemonic1, err := MnemonicFromSSHKey(&key, 24, "test-passphrase")
	is.NoErr(err)

	mnemonic2, err := MnemonicFromSSHKey(&key, 24, "test-passphrase")
	is.NoErr(err)

	is.Equal(mnemonic1, mnemonic2)
}

// TestMnemonicFromSSHKey_DifferentInputsProduceDifferentResults verifies
// that different keys, passphrases or lengths produce different results
func TestMnemonicFromSSHKey_DifferentInputsProduceDifferentResults(t *testing.T) {
	is := is.New(t)

	_, key1, err := ed25519.GenerateKey(rand.Reader)
	is.NoErr(err)

	_, key2, err := ed25519.GenerateKey(rand.Reader)
	is.NoErr(err)

	mnemonic1, err := MnemonicFromSSHKey(&key1, 12, "")
	is.NoErr(err)

	mnemonic2, err := MnemonicFromSSHKey(&key2, 12, "")
	is.NoErr(err)

	is.True(mnemonic1 != mnemonic2)

	mnemonic3, err := MnemonicFromSSHKey(&key1, 12, "passphrase1")
	is.NoErr(err)

	mnemonic4, err := MnemonicFromSSHKey(&key1, 12, "passphrase2")
	is.NoErr(err)

	is.True(mnemonic3 != mnemonic4)

	// A 12-word phrase is not a prefix of the 24-word phrase
	mnemonic24, err := MnemonicFromSSHKey(&key1, 24, "")
	is.NoErr(err)
	is.True(!strings.HasPrefix(mnemonic24, mnemonic1))
}

// TestRootKeyFromMnemonic_Deterministic verifies the same mnemonic always gives the same root
func TestRootKeyFromMnemonic_Deterministic(t *testing.T) {
	is := is.New(t)

	root1, err := RootKeyFromMnemonic(testMnemonic, "")
	is.NoErr(err)

	root2, err := RootKeyFromMnemonic(testMnemonic, "")
	is.NoErr(err)
	is.True(root1.Equal(root2))

	// The BIP39 passphrase changes the seed
	root3, err := RootKeyFromMnemonic(testMnemonic, "test-passphrase")
	is.NoErr(err)
	is.True(!root1.Equal(root3))
}

// TestRootKeyFromMnemonic_InvalidMnemonic tests that invalid mnemonics return errors
func TestRootKeyFromMnemonic_InvalidMnemonic(t *testing.T) {
	is := is.New(t)

	invalidMnemonics := []string{
		"invalid mnemonic phrase",
		"abandon abandon abandon",
		"",
		"zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo zoo",
	}

	for _, mnemonic := range invalidMnemonics {
		_, err := RootKeyFromMnemonic(mnemonic, "")
		is.True(err != nil)
	}
}
