package analysis

import (
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"douyin-comments/internal/models"
)

// MinTermRunes drops single-character tokens
const MinTermRunes = 2

// StopWords are function words too common to be informative
var StopWords = map[string]struct{}{
	"的": {}, "了": {}, "和": {}, "是": {}, "就": {}, "都": {}, "而": {}, "及": {}, "与": {},
	"这": {}, "那": {}, "但": {}, "然": {}, "却": {}, "我": {}, "你": {}, "他": {}, "她": {},
	"它": {}, "们": {}, "啊": {}, "呀": {}, "哦": {}, "哈": {}, "吧": {}, "呢": {}, "吗": {},
	"在": {}, "有": {}, "个": {}, "好": {}, "来": {}, "去": {}, "到": {}, "想": {}, "要": {},
	"会": {}, "能": {}, "可以": {}, "就是": {},
}

// Segmenter splits text into words
type Segmenter interface {
	Segment(text string) []string
}

// SegmenterFunc adapts a function to Segmenter
type SegmenterFunc func(text string) []string

func (f SegmenterFunc) Segment(text string) []string { return f(text) }

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

// NormalizeText applies NFKC, case folding, mark and format-character removal and width folding
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return s
	}
	return out
}

// DefaultSegmenter splits on anything that is not a letter or digit and breaks runs of
// Han characters into overlapping bigrams. It stands in for a dictionary segmenter.
var DefaultSegmenter Segmenter = SegmenterFunc(segment)

func segment(text string) []string {
	var tokens []string
	var word []rune
	var han []rune

	flushWord := func() {
		if len(word) > 0 {
			tokens = append(tokens, string(word))
			word = word[:0]
		}
	}
	flushHan := func() {
		switch {
		case len(han) == 1:
			tokens = append(tokens, string(han))
		case len(han) > 1:
			for i := 0; i+1 < len(han); i++ {
				tokens = append(tokens, string(han[i:i+2]))
			}
		}
		han = han[:0]
	}

	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			flushWord()
			han = append(han, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			flushHan()
			word = append(word, r)
		default:
			flushWord()
			flushHan()
		}
	}
	flushWord()
	flushHan()
	return tokens
}

// TermFrequency counts the words of every comment text, most frequent first and ties by term.
// seg and stop default to DefaultSegmenter and StopWords.
func TermFrequency(comments []models.Comment, seg Segmenter, stop map[string]struct{}) []models.TermCount {
	if seg == nil {
		seg = DefaultSegmenter
	}
	if stop == nil {
		stop = StopWords
	}

	freq := make(map[string]int)
	for _, c := range comments {
		for _, w := range seg.Segment(NormalizeText(c.Text)) {
			w = strings.TrimSpace(w)
			if utf8.RuneCountInString(w) < MinTermRunes {
				continue
			}
			if _, skip := stop[w]; skip {
				continue
			}
			freq[w]++
		}
	}

	out := make([]models.TermCount, 0, len(freq))
	for term, n := range freq {
		out = append(out, models.TermCount{Term: term, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})
	return out
}

// CloudTerms keeps the first limit terms (all when limit <= 0) and sizes them from 20 to 100
// in proportion to the highest count.
func CloudTerms(terms []models.TermCount, limit int) []models.CloudTerm {
	if limit > 0 && len(terms) > limit {
		terms = terms[:limit]
	}

	max := 0
	for _, t := range terms {
		if t.Count > max {
			max = t.Count
		}
	}

	out := make([]models.CloudTerm, 0, len(terms))
	for _, t := range terms {
		size := 20.0
		if max > 0 {
			size += float64(t.Count) / float64(max) * 80
		}
		out = append(out, models.CloudTerm{Term: t.Term, Count: t.Count, Size: size})
	}
	return out
}
