// Package main provides the xhd CLI tool for deriving BIP44 Ed25519 keys and
// signing with them.
package main

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/complex-gh/xhd"
	"github.com/complex-gh/xhd/bip32ed25519"
	"github.com/complex-gh/xhd/internal/config"
	xlog "github.com/complex-gh/xhd/internal/log"
	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logger = zap.NewNop()

	language       string
	schemeName     string
	contextName    string
	account        uint32
	keyIndex       uint32
	mnemonicFile   string
	sshKeyPath     string
	seedPassphrase string
	askBIP39Pass   bool
	wordCount      int
	showPrivate    bool
	dataHex        string
	dataFile       string
	base64Out      bool
	rawPath        string
	mnemonicWords  int

	rootCmd = &cobra.Command{
		Use:   "xhd",
		Short: "Derive BIP44 Ed25519 keys and sign with them",
		Long: `Derive hierarchical deterministic Ed25519 keys along BIP44 paths
(m/44'/coin'/account'/0/index) and sign messages with them.

The root key comes from a BIP39 mnemonic (or a bech32 xprv) read from
--mnemonic-file or stdin, or from a password-protected SSH key given with
--ssh-key.

Contexts:
- address   coin type 283, Algorand spending keys
- identity  coin type 0, identity keys

SECURITY TIP: Add a space before the command to prevent it from being
saved in your shell history.`,
		Example: `  xhd keygen --mnemonic-file words.txt
  xhd keygen --context identity --account 2 --index 1 < words.txt
  xhd sign --mnemonic-file words.txt --data 5458...
  xhd raw-sign --mnemonic-file words.txt --path "m/44'/283'/0'/0/0" --data-file tx.bin
  xhd keygen --ssh-key ~/.ssh/id_ed25519 --seed-passphrase "my-passphrase"`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	keygenCmd = &cobra.Command{
		Use:   "keygen",
		Short: "Derive the key at m/44'/coin'/account'/0/index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := loadRootKey(cmd.InOrStdin())
			if err != nil {
				return err
			}
			ctx, scheme, err := derivationParams()
			if err != nil {
				return err
			}

			path, err := xhd.AccountPath(ctx, account, keyIndex)
			if err != nil {
				return fmt.Errorf("invalid derivation path: %w", err)
			}
			key, err := xhd.KeyGen(root, ctx, account, keyIndex, scheme)
			if err != nil {
				return fmt.Errorf("could not derive key: %w", err)
			}
			logger.Debug("derived key", zap.Stringer("path", path), zap.Stringer("scheme", scheme), zap.Stringer("context", ctx))

			return printKey(cmd.OutOrStdout(), path.String(), ctx, key)
		},
	}

	signCmd = &cobra.Command{
		Use:   "sign",
		Short: "Sign data with the key at m/44'/coin'/account'/0/index",
		Long: `Sign data with the key at m/44'/coin'/account'/0/index.

The data is signed as given: encode the transaction (including any
domain prefix such as "TX") before passing it in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readData(cmd.InOrStdin())
			if err != nil {
				return err
			}
			root, err := loadRootKey(cmd.InOrStdin())
			if err != nil {
				return err
			}
			ctx, scheme, err := derivationParams()
			if err != nil {
				return err
			}

			sig, err := xhd.Sign(root, ctx, account, keyIndex, data, scheme)
			if err != nil {
				return fmt.Errorf("could not sign: %w", err)
			}
			logger.Debug("signed data", zap.Int("size", len(data)), zap.Stringer("scheme", scheme), zap.Stringer("context", ctx))

			return printSignature(cmd.OutOrStdout(), sig)
		},
	}

	rawSignCmd = &cobra.Command{
		Use:   "raw-sign",
		Short: "Sign data with the key at an arbitrary derivation path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := xhd.ParsePath(rawPath)
			if err != nil {
				return err
			}
			data, err := readData(cmd.InOrStdin())
			if err != nil {
				return err
			}
			root, err := loadRootKey(cmd.InOrStdin())
			if err != nil {
				return err
			}
			scheme, err := bip32ed25519.ParseScheme(schemeName)
			if err != nil {
				return err
			}

			sig, err := xhd.RawSign(root, path, data, scheme)
			if err != nil {
				return fmt.Errorf("could not sign: %w", err)
			}
			logger.Debug("signed data", zap.Stringer("path", path), zap.Int("size", len(data)), zap.Stringer("scheme", scheme))

			return printSignature(cmd.OutOrStdout(), sig)
		},
	}

	mnemonicCmd = &cobra.Command{
		Use:   "mnemonic <key-path>",
		Short: "Turn a password-protected SSH key into a BIP39 mnemonic",
		Long: `Turn a password-protected Ed25519 SSH key into a BIP39 mnemonic.

The same key, seed passphrase and word count always give the same words,
so the phrase can be used as the root of every other command.
Valid word counts are: 12, 15, 18, 21, or 24.`,
		Example: `  xhd mnemonic ~/.ssh/id_ed25519
  xhd mnemonic id_ed25519 --words 12 --seed-passphrase "my-passphrase"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := readSSHKey(args[0])
			if err != nil {
				return err
			}
			mnemonic, err := xhd.MnemonicFromSSHKey(key, mnemonicWords, seedPassphrase)
			if err != nil {
				return fmt.Errorf("could not generate %d-word mnemonic: %w", mnemonicWords, err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), mnemonic)
			return err //nolint:wrapcheck
		},
	}

	manCmd = &cobra.Command{
		Use:          "man",
		Args:         cobra.NoArgs,
		Short:        "generate man pages",
		Hidden:       true,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manPage, err := mcobra.NewManPage(1, rootCmd)
			if err != nil {
				//nolint: wrapcheck
				return err
			}
			manPage = manPage.WithSection("Copyright", "(C) 2025-2026 complex.\n"+
				"Released under MIT license.")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), manPage.Build(roff.NewDocument()))
			return err //nolint:wrapcheck
		},
	}

	// completionCmd generates shell completion scripts for bash, zsh, fish, and powershell.
	completionCmd = &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for xhd.

To load completions:

Bash:
  $ source <(xhd completion bash)

Zsh:
  $ xhd completion zsh > "${fpath[1]}/_xhd"

Fish:
  $ xhd completion fish | source

PowerShell:
  PS> xhd completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(out)
			case "zsh":
				return rootCmd.GenZshCompletion(out)
			case "fish":
				return rootCmd.GenFishCompletion(out, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unknown shell: %s", args[0])
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&language, "language", "l", "en", "Mnemonic language")
	rootCmd.PersistentFlags().StringVarP(&schemeName, "scheme", "s", "peikert", "Derivation scheme (peikert or khovratovich)")
	rootCmd.PersistentFlags().StringVarP(&mnemonicFile, "mnemonic-file", "m", "-", "File holding the BIP39 mnemonic or bech32 xprv (- for stdin)")
	rootCmd.PersistentFlags().StringVar(&sshKeyPath, "ssh-key", "", "Derive the root from a password-protected SSH key instead of a mnemonic")
	rootCmd.PersistentFlags().StringVar(&seedPassphrase, "seed-passphrase", "", "Passphrase to combine with the SSH key seed")
	rootCmd.PersistentFlags().IntVarP(&wordCount, "words", "w", 24, "Mnemonic length used with --ssh-key (12, 15, 18, 21 or 24)") //nolint:mnd
	rootCmd.PersistentFlags().BoolVar(&askBIP39Pass, "bip39-passphrase", false, "Prompt for a BIP39 passphrase")

	for _, cmd := range []*cobra.Command{keygenCmd, signCmd} {
		cmd.Flags().StringVarP(&contextName, "context", "c", "address", "Key context (address or identity)")
		cmd.Flags().Uint32VarP(&account, "account", "a", 0, "Account number")
		cmd.Flags().Uint32VarP(&keyIndex, "index", "i", 0, "Key index")
	}
	keygenCmd.Flags().BoolVar(&showPrivate, "show-private", false, "Also print the extended private key")

	for _, cmd := range []*cobra.Command{signCmd, rawSignCmd} {
		cmd.Flags().StringVarP(&dataHex, "data", "d", "", "Hex-encoded data to sign")
		cmd.Flags().StringVar(&dataFile, "data-file", "", "File holding the raw data to sign (- for stdin)")
		cmd.Flags().BoolVar(&base64Out, "base64", false, "Print the signature as base64 instead of hex")
	}
	rawSignCmd.Flags().StringVarP(&rawPath, "path", "p", "", "Derivation path, for example m/44'/283'/0'/0/0")
	_ = rawSignCmd.MarkFlagRequired("path")

	mnemonicCmd.Flags().IntVar(&mnemonicWords, "words", 24, "Word count (12, 15, 18, 21 or 24)") //nolint:mnd

	rootCmd.AddCommand(keygenCmd, signCmd, rawSignCmd, mnemonicCmd, manCmd, completionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// setup loads the configuration, applies it to every flag the user did not
// set and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err //nolint:wrapcheck
	}
	applyConfig(cmd, cfg)

	logger, err = xlog.New(cfg.Log)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return setLanguage(language)
}

func applyConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("scheme") {
		schemeName = cfg.Scheme
	}
	if !flags.Changed("language") {
		language = cfg.Language
	}
	if f := flags.Lookup("context"); f != nil && !f.Changed {
		contextName = cfg.Context
	}
	if f := flags.Lookup("account"); f != nil && !f.Changed {
		account = cfg.Account
	}
}

func derivationParams() (xhd.KeyContext, bip32ed25519.Scheme, error) {
	ctx, err := xhd.ParseKeyContext(contextName)
	if err != nil {
		return 0, 0, err //nolint:wrapcheck
	}
	scheme, err := bip32ed25519.ParseScheme(schemeName)
	if err != nil {
		return 0, 0, err //nolint:wrapcheck
	}
	return ctx, scheme, nil
}

// loadRootKey builds the root key from --ssh-key or from the mnemonic (or
// xprv) in --mnemonic-file.
func loadRootKey(stdin io.Reader) (bip32ed25519.XPrv, error) {
	if sshKeyPath != "" {
		key, err := readSSHKey(sshKeyPath)
		if err != nil {
			return bip32ed25519.XPrv{}, err
		}
		mnemonic, err := xhd.MnemonicFromSSHKey(key, wordCount, seedPassphrase)
		if err != nil {
			return bip32ed25519.XPrv{}, fmt.Errorf("could not generate %d-word mnemonic: %w", wordCount, err)
		}
		return rootFromMnemonic(mnemonic)
	}

	if mnemonicFile == "-" && dataFile == "-" {
		return bip32ed25519.XPrv{}, errors.New("the mnemonic and the data cannot both be read from stdin")
	}
	bts, err := readInput(mnemonicFile, stdin)
	if err != nil {
		return bip32ed25519.XPrv{}, fmt.Errorf("could not read mnemonic: %w", err)
	}
	return parseRootKey(string(bts))
}

// parseRootKey accepts either a bech32 xprv or a BIP39 mnemonic.
func parseRootKey(input string) (bip32ed25519.XPrv, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return bip32ed25519.XPrv{}, errors.New("no mnemonic given")
	}
	if strings.HasPrefix(input, xhd.XPrvHRP+"1") {
		key, err := xhd.DecodeXPrv(input)
		if err != nil {
			return bip32ed25519.XPrv{}, fmt.Errorf("invalid xprv: %w", err)
		}
		return key, nil
	}
	return rootFromMnemonic(strings.Join(strings.Fields(input), " "))
}

func rootFromMnemonic(mnemonic string) (bip32ed25519.XPrv, error) {
	var passphrase string
	if askBIP39Pass {
		pass, err := readPassword("Enter the BIP39 passphrase: ")
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return bip32ed25519.XPrv{}, err
		}
		passphrase = string(pass)
	}

	root, err := xhd.RootKeyFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return bip32ed25519.XPrv{}, err //nolint:wrapcheck
	}
	return root, nil
}

// readData returns the bytes to sign from --data or --data-file.
func readData(stdin io.Reader) ([]byte, error) {
	switch {
	case dataHex != "" && dataFile != "":
		return nil, errors.New("use either --data or --data-file, not both")
	case dataHex != "":
		data, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(dataHex), "0x"))
		if err != nil {
			return nil, fmt.Errorf("could not decode --data: %w", err)
		}
		return data, nil
	case dataFile != "":
		data, err := readInput(dataFile, stdin)
		if err != nil {
			return nil, fmt.Errorf("could not read data: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("no data to sign: use --data or --data-file")
	}
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin) //nolint:wrapcheck
	}
	// G304: path is user-provided input, which is expected for a CLI tool
	return os.ReadFile(path) //nolint:gosec,wrapcheck
}

func printKey(w io.Writer, path string, ctx xhd.KeyContext, key bip32ed25519.XPrv) error {
	xpub, err := xhd.EncodeXPub(key.Public())
	if err != nil {
		return fmt.Errorf("could not encode xpub: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[derivation path]\n\n%s\n\n", path)
	fmt.Fprintf(&b, "[public key]\n\n%s\n\n", hex.EncodeToString(key.PublicKey()))

	if ctx == xhd.Address {
		addr, err := xhd.EncodeAddress(key.PublicKey())
		if err != nil {
			return fmt.Errorf("could not encode address: %w", err)
		}
		fmt.Fprintf(&b, "[algorand address]\n\n%s\n\n", addr)
	}

	fmt.Fprintf(&b, "[extended public key]\n\n%s\n", xpub)

	if showPrivate {
		xprv, err := xhd.EncodeXPrv(key)
		if err != nil {
			return fmt.Errorf("could not encode xprv: %w", err)
		}
		fmt.Fprintf(&b, "\n[extended private key]\n\n%s\n", xprv)
	}

	_, err = io.WriteString(w, b.String())
	return err //nolint:wrapcheck
}

func printSignature(w io.Writer, sig []byte) error {
	out := hex.EncodeToString(sig)
	if base64Out {
		out = base64.StdEncoding.EncodeToString(sig)
	}
	_, err := fmt.Fprintln(w, out)
	return err //nolint:wrapcheck
}
