package token

import (
	"regexp"
	"slices"
)

// Rule pairs a Kind with its match predicate.
// Keyword rules compare the lexeme to Repr; the others treat Repr as a pattern.
type Rule struct {
	Kind    Kind
	Keyword bool
	Repr    string
	re      *regexp.Regexp
}

// Matches reports whether lexeme belongs to the rule.
func (r Rule) Matches(lexeme string) bool {
	if r.Keyword {
		return lexeme == r.Repr
	}
	return r.re.MatchString(lexeme)
}

func keyword(k Kind, literal string) Rule {
	return Rule{Kind: k, Keyword: true, Repr: literal}
}

func pattern(k Kind, expr string) Rule {
	return Rule{Kind: k, Repr: expr, re: regexp.MustCompile(`^(?:` + expr + `)$`)}
}

// Порядок важен: ключевые слова раньше шаблонов.
var catalog = []Rule{
	keyword(Begin, "begin"),
	keyword(End, "end"),
	keyword(Declare, "declare"),
	keyword(DeclarationEnd, ","),
	keyword(DeclarationsEnd, "|"),
	keyword(StatementEnd, ";"),
	keyword(Assign, ":="),
	keyword(Open, "("),
	keyword(Close, ")"),
	keyword(Minus, "-"),
	keyword(Add, "+"),
	keyword(Multiply, "*"),
	pattern(Identifier, `[a-z][a-z0-9]*`),
	pattern(NatNumber, `0|[1-9][0-9]*`),
}

// Catalog returns a copy of the ordered rule set.
func Catalog() []Rule {
	return slices.Clone(catalog)
}

// Resolve classifies lexeme with the first matching rule in catalog order.
func Resolve(lexeme string) (Kind, bool) {
	for _, r := range catalog {
		if r.Matches(lexeme) {
			return r.Kind, true
		}
	}
	return Invalid, false
}

// Rule returns the catalog entry of k.
func (k Kind) Rule() (Rule, bool) {
	for _, r := range catalog {
		if r.Kind == k {
			return r, true
		}
	}
	return Rule{}, false
}
