package extract

import (
	"fmt"
	"strings"
	"unicode"
)

// Language is a document language in Tesseract notation.
type Language string

const (
	LanguageEnglish Language = "eng"
	LanguageHindi   Language = "hin"
	LanguageMixed   Language = "eng+hin"
)

// ParseLanguage accepts Tesseract codes, ISO 639-1 codes and English names.
// An empty string returns an empty Language without error.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "eng", "en", "english":
		return LanguageEnglish, nil
	case "hin", "hi", "hindi":
		return LanguageHindi, nil
	case "eng+hin", "hin+eng", "en+hi", "mixed":
		return LanguageMixed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
}

// DetectLanguage infers the language from the scripts of the letters in
// text. Text without Devanagari is English.
func DetectLanguage(text string) Language {
	var latin, devanagari int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Devanagari, r):
			devanagari++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}

	switch {
	case devanagari == 0:
		return LanguageEnglish
	case latin == 0:
		return LanguageHindi
	default:
		return LanguageMixed
	}
}

// allows reports whether a rule written for script may run on a document
// in language l.
func (l Language) allows(s Script) bool {
	return !(l == LanguageEnglish && s == ScriptDevanagari)
}
