package anki

import (
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// PosInferrer guesses parts of speech for a term that has none.
type PosInferrer interface {
	Infer(term string) []string
}

// KagomeInferrer looks the term up in the IPA dictionary.
type KagomeInferrer struct {
	t *tokenizer.Tokenizer
}

func NewKagomeInferrer() (*KagomeInferrer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &KagomeInferrer{t: t}, nil
}

// Infer tags the term by its first content token. Terms the dictionary
// splits into a noun and a verb suffix (勉強する) are tagged as nouns.
func (k *KagomeInferrer) Infer(term string) []string {
	term = bracketAnnotation.ReplaceAllString(term, "")
	if term == "" {
		return nil
	}

	for _, token := range k.t.Tokenize(term) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if name := ipaToAbbreviation(token.Features()); name != "" {
			return []string{name}
		}
	}
	return nil
}

// IPA features: 0 POS, 1..3 sub-POS.
func ipaToAbbreviation(features []string) string {
	if len(features) == 0 {
		return ""
	}
	sub := ""
	if len(features) > 1 {
		sub = features[1]
	}

	switch features[0] {
	case "名詞":
		switch sub {
		case "固有名詞":
			return "專"
		case "数":
			return "數"
		case "代名詞":
			return "代"
		case "形容動詞語幹":
			return "ナ形"
		case "接尾":
			return "接尾"
		}
		return "名"
	case "動詞":
		return "動"
	case "形容詞":
		return "い形"
	case "副詞":
		return "副"
	case "連体詞":
		return "連体詞"
	case "接続詞":
		return "接"
	case "感動詞":
		return "感"
	case "助詞":
		return "助詞"
	case "助動詞":
		return "助動詞"
	case "接頭詞":
		return "接頭"
	}
	return ""
}
