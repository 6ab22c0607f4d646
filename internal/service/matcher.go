package service

import (
	"sort"
	"strings"

	"ia-papeleria/internal/model"
	"ia-papeleria/pkg/textnorm"
)

// tokens shorter than this never match inside a product name ("de", "a")
const minMatchToken = 3

type categorySynonyms struct {
	Key      string
	Synonyms []string
}

// scanned in order; the first category hit wins
var categoryTable = []categorySynonyms{
	{Key: "cuaderno", Synonyms: []string{"cuaderno", "cuadernos", "libreta", "libretas"}},
	{Key: "lapiz", Synonyms: []string{"lapiz", "lapices", "pencil"}},
	{Key: "esfero", Synonyms: []string{"esfero", "esferos", "boligrafo", "boligrafos", "pluma"}},
	{Key: "borrador", Synonyms: []string{"borrador", "borradores", "goma"}},
	{Key: "regla", Synonyms: []string{"regla", "reglas", "escuadra"}},
	{Key: "papel", Synonyms: []string{"papel", "resma", "hojas"}},
	{Key: "mochila", Synonyms: []string{"mochila", "maletin"}},
	{Key: "pegamento", Synonyms: []string{"pegamento", "cola", "glue"}},
}

// ProductMatcher resolves free text to catalog entries. It never fails;
// an empty slice means nothing matched.
type ProductMatcher struct{}

func NewProductMatcher() *ProductMatcher {
	return &ProductMatcher{}
}

// Resolve runs the name pass and, only when that finds nothing, the
// category pass. Products whose full name occurs in the message come
// first, an exact name ahead of longer names ahead of shorter ones.
// Ties and the token group keep catalog order.
func (m *ProductMatcher) Resolve(message string, catalog []model.Product) []model.Product {
	msg := textnorm.Fold(message)
	if msg == "" {
		return nil
	}
	if found := m.byNameOrToken(msg, catalog); len(found) > 0 {
		return found
	}
	return m.byCategory(msg, catalog)
}

func (m *ProductMatcher) byNameOrToken(msg string, catalog []model.Product) []model.Product {
	var tokens []string
	for _, tok := range textnorm.Tokens(msg) {
		if len([]rune(tok)) >= minMatchToken {
			tokens = append(tokens, tok)
		}
	}

	var whole, partial []model.Product
	for _, p := range catalog {
		name := textnorm.Fold(p.Name)
		if name == "" {
			continue
		}
		if strings.Contains(msg, name) {
			whole = append(whole, p)
			continue
		}
		for _, tok := range tokens {
			if strings.Contains(name, tok) {
				partial = append(partial, p)
				break
			}
		}
	}
	rankWhole(msg, whole)
	return append(whole, partial...)
}

// rankWhole orders products whose names all occur in msg: the name equal
// to msg first, then the longest. "Cuaderno rayado" beats "Cuaderno".
func rankWhole(msg string, ps []model.Product) {
	sort.SliceStable(ps, func(i, j int) bool {
		ni, nj := textnorm.Fold(ps[i].Name), textnorm.Fold(ps[j].Name)
		if (ni == msg) != (nj == msg) {
			return ni == msg
		}
		return len([]rune(ni)) > len([]rune(nj))
	})
}

func (m *ProductMatcher) byCategory(msg string, catalog []model.Product) []model.Product {
	tokens := make(map[string]struct{})
	for _, tok := range textnorm.Tokens(msg) {
		tokens[tok] = struct{}{}
	}

	for _, cat := range categoryTable {
		if !hasAnyToken(tokens, cat.Synonyms) {
			continue
		}
		var found []model.Product
		for _, p := range catalog {
			if strings.Contains(textnorm.Fold(p.Name), cat.Key) || strings.Contains(textnorm.Fold(p.Category), cat.Key) {
				found = append(found, p)
			}
		}
		return found
	}
	return nil
}

// ByName returns the product whose whole name occurs in the message,
// preferring the longest such name.
func (m *ProductMatcher) ByName(message string, catalog []model.Product) (model.Product, bool) {
	msg := textnorm.Fold(message)
	var found []model.Product
	for _, p := range catalog {
		name := textnorm.Fold(p.Name)
		if name != "" && strings.Contains(msg, name) {
			found = append(found, p)
		}
	}
	if len(found) == 0 {
		return model.Product{}, false
	}
	rankWhole(msg, found)
	return found[0], true
}

// ByWord is ByName with a looser second try: any message word, or its
// singular, inside a product name. "stock de lapices" finds "Lapiz HB".
func (m *ProductMatcher) ByWord(message string, catalog []model.Product) (model.Product, bool) {
	if p, ok := m.ByName(message, catalog); ok {
		return p, true
	}
	var words []string
	for _, tok := range textnorm.Tokens(textnorm.Fold(message)) {
		if len([]rune(tok)) < minMatchToken {
			continue
		}
		words = append(words, tok)
		words = append(words, singulars(tok)...)
	}
	for _, p := range catalog {
		name := textnorm.Fold(p.Name)
		for _, w := range words {
			if name != "" && strings.Contains(name, w) {
				return p, true
			}
		}
	}
	return model.Product{}, false
}

// ByFragment returns the product named exactly like the fragment, else
// the first product whose name contains it.
func (m *ProductMatcher) ByFragment(fragment string, catalog []model.Product) (model.Product, bool) {
	frag := textnorm.Fold(fragment)
	if frag == "" {
		return model.Product{}, false
	}
	var first *model.Product
	for i, p := range catalog {
		name := textnorm.Fold(p.Name)
		if name == frag {
			return p, true
		}
		if first == nil && strings.Contains(name, frag) {
			first = &catalog[i]
		}
	}
	if first == nil {
		return model.Product{}, false
	}
	return *first, true
}

// singulars lists the Spanish singular candidates of a plural word,
// longest first: "lapices" gives "lapiz" and "lapic".
func singulars(word string) []string {
	var out []string
	add := func(s string) {
		if len([]rune(s)) >= minMatchToken {
			out = append(out, s)
		}
	}
	if strings.HasSuffix(word, "ces") {
		add(strings.TrimSuffix(word, "ces") + "z")
	}
	if strings.HasSuffix(word, "es") {
		add(strings.TrimSuffix(word, "es"))
	}
	if strings.HasSuffix(word, "s") {
		add(strings.TrimSuffix(word, "s"))
	}
	return out
}

func hasAnyToken(tokens map[string]struct{}, words []string) bool {
	for _, w := range words {
		if _, ok := tokens[w]; ok {
			return true
		}
	}
	return false
}
