package main

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"
	"go.uber.org/zap"
	lang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// wordList pairs a language with the BIP39 word list used for it.
type wordList struct {
	tag   lang.Tag
	words []string
}

// Regional tags come first so an exact match wins over its base language.
var wordLists = []wordList{
	{lang.SimplifiedChinese, wordlists.ChineseSimplified},
	{lang.TraditionalChinese, wordlists.ChineseTraditional},
	{lang.Chinese, wordlists.ChineseSimplified},
	{lang.Czech, wordlists.Czech},
	{lang.English, wordlists.English},
	{lang.French, wordlists.French},
	{lang.Italian, wordlists.Italian},
	{lang.Japanese, wordlists.Japanese},
	{lang.Korean, wordlists.Korean},
	{lang.Spanish, wordlists.Spanish},
}

// setLanguage selects the word list used to read and write mnemonics.
func setLanguage(language string) error {
	tag, list := matchWordlist(language)
	if list == nil {
		return fmt.Errorf("this language is not supported: %q", language)
	}
	logger.Debug("selected word list", zap.String("language", language), zap.Stringer("tag", tag))
	bip39.SetWordList(list)
	return nil
}

func normalizeLanguage(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

// matchWordlist accepts an English language name ("japanese") or a BCP 47
// tag ("en", "es-419"). A regional tag falls back to its base language. It
// returns a nil list when nothing fits.
func matchWordlist(language string) (lang.Tag, []string) {
	language = normalizeLanguage(language)
	names := display.English.Languages()
	for _, wl := range wordLists {
		if normalizeLanguage(names.Name(wl.tag)) == language {
			return wl.tag, wl.words
		}
	}

	tag, err := lang.Parse(language)
	if err != nil || tag == lang.Und {
		return lang.Und, nil
	}
	for _, wl := range wordLists {
		if wl.tag == tag {
			return wl.tag, wl.words
		}
	}

	base, conf := tag.Base()
	if conf == lang.No {
		return lang.Und, nil
	}
	baseTag := lang.Make(base.String())
	for _, wl := range wordLists {
		if wl.tag == baseTag {
			return wl.tag, wl.words
		}
	}
	return lang.Und, nil
}
