package keyword

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Term is one salient word and how often it appears in the corpus.
type Term struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// DefaultExcludeWords are filler terms that dominate seminar titles without
// saying anything about a company's interests.
var DefaultExcludeWords = []string{
	"ギフト", "ギフトカード", "サービス", "できる", "ランキング", "可能", "課題",
	"会員", "会社", "開始", "開発", "活用", "管理", "企業", "機能",
	"記事", "技術", "業界", "後編", "公開", "最適", "支援", "事業",
	"実現", "重要", "世界", "成功", "製品", "戦略", "前編", "対策",
	"抽選", "調査", "提供", "投資", "導入", "発表", "必要", "方法",
	"目指す", "問題", "利用", "理由", "する", "解説", "影響", "与える",
}

var (
	hiraganaPair  = regexp.MustCompile(`^[ぁ-ん]{2}$`)
	kanjiHiragana = regexp.MustCompile(`^[一-龠々][ぁ-ん]$`)
)

// Extractor builds a frequency bag of salient nouns and verbs from Japanese
// free text using morphological analysis.
type Extractor struct {
	tok     *tokenizer.Tokenizer
	exclude map[string]struct{}
}

// New creates an extractor. An empty excludeWords falls back to
// DefaultExcludeWords.
func New(excludeWords []string) (*Extractor, error) {
	tok, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("init tokenizer: %w", err)
	}

	if len(excludeWords) == 0 {
		excludeWords = DefaultExcludeWords
	}
	exclude := make(map[string]struct{}, len(excludeWords))
	for _, w := range excludeWords {
		exclude[w] = struct{}{}
	}

	return &Extractor{tok: tok, exclude: exclude}, nil
}

// Extract tokenizes text and returns the surviving terms ordered by
// descending count (ties alphabetical). Only nouns and verbs are kept;
// single-character terms, two-character hiragana runs, kanji+hiragana pairs
// and excluded words are dropped. An empty result is a legitimate outcome,
// not an error.
func (e *Extractor) Extract(text string) ([]Term, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	counts := make(map[string]int)
	for _, token := range e.tok.Tokenize(text) {
		features := token.Features()
		if len(features) == 0 {
			continue
		}
		if features[0] != "名詞" && features[0] != "動詞" {
			continue
		}

		w := token.Surface
		if utf8.RuneCountInString(w) < 2 {
			continue
		}
		if hiraganaPair.MatchString(w) || kanjiHiragana.MatchString(w) {
			continue
		}
		if _, excluded := e.exclude[w]; excluded {
			continue
		}

		counts[w]++
	}

	terms := make([]Term, 0, len(counts))
	for w, c := range counts {
		terms = append(terms, Term{Word: w, Count: c})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Word < terms[j].Word
	})
	return terms, nil
}
