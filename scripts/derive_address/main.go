// derive_address derives Algorand addresses (m/44'/283'/0'/0/i) from a BIP39
// mnemonic for testing.
//
// Usage:
//
//	go run ./scripts/derive_address "your 24 word seed phrase here"
//
// Or with stdin:
//
//	echo "your 24 word seed phrase" | go run ./scripts/derive_address
//
// XHD_SCHEME selects the derivation scheme (peikert by default) and
// XHD_COUNT the number of addresses to print (1 by default).
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/complex-gh/xhd"
	"github.com/complex-gh/xhd/bip32ed25519"
)

func main() {
	var mnemonic string

	if len(os.Args) > 1 {
		mnemonic = strings.Join(os.Args[1:], " ")
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			mnemonic = strings.TrimSpace(scanner.Text())
		}
	}

	if mnemonic == "" {
		fmt.Fprintln(os.Stderr, "Usage: derive_address \"24 word seed phrase\"")
		fmt.Fprintln(os.Stderr, "   or: echo \"seed phrase\" | derive_address")
		os.Exit(1)
	}

	scheme := bip32ed25519.Peikert
	if name := os.Getenv("XHD_SCHEME"); name != "" {
		var err error
		if scheme, err = bip32ed25519.ParseScheme(name); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	count := 1
	if s := os.Getenv("XHD_COUNT"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			fmt.Fprintf(os.Stderr, "Error: invalid XHD_COUNT %q\n", s)
			os.Exit(1)
		}
		count = n
	}

	root, err := xhd.RootKeyFromMnemonic(mnemonic, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < count; i++ {
		key, err := xhd.KeyGen(root, xhd.Address, 0, uint32(i), scheme) //nolint:gosec
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		addr, err := xhd.EncodeAddress(key.PublicKey())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s (m/44'/283'/0'/0/%d)\n", addr, i)
	}
}
