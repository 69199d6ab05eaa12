// Package kana converts between hiragana and katakana so that searches can
// match a term regardless of the script it was typed in.
package kana

import "unicode"

const offset = 0x60

// ToKatakana maps hiragana to katakana and leaves every other rune alone.
func ToKatakana(s string) string {
	return mapRunes(s, func(r rune) rune {
		if isConvertibleHiragana(r) {
			return r + offset
		}
		return r
	})
}

// ToHiragana maps katakana to hiragana and leaves every other rune alone.
func ToHiragana(s string) string {
	return mapRunes(s, func(r rune) rune {
		if isConvertibleKatakana(r) {
			return r - offset
		}
		return r
	})
}

// SearchVariants returns the distinct spellings a search for term should
// match: the literal term plus its hiragana and katakana forms. A term that
// contains kanji is returned as is.
func SearchVariants(term string) []string {
	if term == "" {
		return nil
	}
	if hasHan(term) {
		return []string{term}
	}
	variants := []string{term}
	for _, v := range []string{ToHiragana(term), ToKatakana(term)} {
		if !contains(variants, v) {
			variants = append(variants, v)
		}
	}
	return variants
}

// U+3041..U+3096 and the iteration marks ゝゞ.
func isConvertibleHiragana(r rune) bool {
	return (r >= 0x3041 && r <= 0x3096) || r == 0x309D || r == 0x309E
}

// U+30A1..U+30F6 and the iteration marks ヽヾ.
func isConvertibleKatakana(r rune) bool {
	return (r >= 0x30A1 && r <= 0x30F6) || r == 0x30FD || r == 0x30FE
}

func mapRunes(s string, fn func(rune) rune) string {
	out := []rune(s)
	for i, r := range out {
		out[i] = fn(r)
	}
	return string(out)
}

func hasHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
