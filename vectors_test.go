// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package xhd

import (
	"encoding/hex"
	"testing"

	"github.com/matryer/is"
)

const vectorMnemonic = "salon zoo engage submit smile frost later decide wing sight chaos renew " +
	"lizard rely canal coral scene hobby scare step bus leaf tobacco slice"

// TestRootKeyFromMnemonic_Vector pins the root key of a known mnemonic
func TestRootKeyFromMnemonic_Vector(t *testing.T) {
	is := is.New(t)

	root, err := RootKeyFromMnemonic(vectorMnemonic, "")
	is.NoErr(err)
	is.Equal(hex.EncodeToString(root.Bytes()),
		"a8ba80028922d9fcfa055c78aede55b5c575bcd8d5a53168edf45f36d9ec8f46"+
			"94592b4bc892907583e22669ecdf1b0409a9f3bd5549f2dd751b51360909cd05"+
			"796b9206ec30e142e94b790a98805bf999042b55046963174ee6cee2d0375946")
}

// TestKeyGen_Vectors pins public keys and Algorand addresses for both schemes
func TestKeyGen_Vectors(t *testing.T) {
	tests := []struct {
		name    string
		scheme  Scheme
		ctx     KeyContext
		index   DerivationIndex
		pub     string
		address string
	}{
		{
			"peikert/address/0", Peikert, Address, 0,
			"7bda7ac12627b2c259f1df6875d30c10b35f55b33ad2cc8ea2736eaa3ebcfab9",
			"PPNHVQJGE6ZMEWPR35UHLUYMCCZV6VNTHLJMZDVCONXKUPV47K4WGQJWGI",
		},
		{
			"peikert/address/1", Peikert, Address, 1,
			"5bae8828f111064637ac5061bd63bc4fcfe4a833252305f25eeab9c64ecdf519",
			"LOXIQKHRCEDEMN5MKBQ32Y54J7H6JKBTEURQL4S65K44MTWN6UMTU2WNBM",
		},
		{
			"khovratovich/address/0", Khovratovich, Address, 0,
			"62fe832b7ad10544be8337a670435e5064ae4a66e77bd78909765b46b576a6f3",
			"ML7IGK322ECUJPUDG6THAQ26KBSK4STG4555PCIJOZNUNNLWU3Z3ZFXITA",
		},
		{
			"khovratovich/address/1", Khovratovich, Address, 1,
			"530461002eaccec0c7b5795925aa104a7fb45f85ef0aa95bbb5be93b6f8537ad",
			"KMCGCABOVTHMBR5VPFMSLKQQJJ73IX4F54FKSW53LPUTW34FG6W3NS4C34",
		},
		{
			"peikert/identity/0", Peikert, Identity, 0,
			"ff8b1863ef5e40d0a48c245f26a6dbdf5da94dc75a1851f51d8a04e547bd5f5a", "",
		},
		{
			"khovratovich/identity/1", Khovratovich, Identity, 1,
			"b5cec676c5a2129ed1be4223a2702439bbb2462fd77b43f27e2f79fd194a30a2", "",
		},
	}

	root, err := RootKeyFromMnemonic(vectorMnemonic, "")
	if err != nil {
		t.Fatalf("could not build root key: %v", err)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)

			key, err := KeyGen(root, tc.ctx, 0, tc.index, tc.scheme)
			is.NoErr(err)
			is.Equal(hex.EncodeToString(key.PublicKey()), tc.pub)

			if tc.address == "" {
				return
			}
			addr, err := EncodeAddress(key.PublicKey())
			is.NoErr(err)
			is.Equal(addr, tc.address)
		})
	}
}

// TestSign_Vector pins the signature Sign produces on the standard path
func TestSign_Vector(t *testing.T) {
	is := is.New(t)

	root, err := RootKeyFromMnemonic(vectorMnemonic, "")
	is.NoErr(err)

	sig, err := Sign(root, Identity, 2, 1, []byte("hello"), Khovratovich)
	is.NoErr(err)
	is.Equal(hex.EncodeToString(sig),
		"cf0f5b90656724c4703bbd14ade6455f05b334ece915c2c57f89cb476d55dfd2"+
			"5e496d1e0741ec998ab32b4fa6f9ccf6402050faccd5ec40cf01d32767157107")
}
