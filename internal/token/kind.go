package token

// Kind is the lexical category of a token.
type Kind uint8

const (
	// Invalid is the zero Kind; no lexeme resolves to it.
	Invalid Kind = iota
	// Begin is the "begin" keyword.
	Begin
	// End is the "end" keyword.
	End
	// Declare is the "declare" keyword.
	Declare
	// DeclarationEnd terminates one declaration: ",".
	DeclarationEnd
	// DeclarationsEnd terminates the declaration list: "|".
	DeclarationsEnd
	// StatementEnd terminates a statement: ";".
	StatementEnd
	// Assign is ":=".
	Assign
	// Open is "(".
	Open
	// Close is ")".
	Close
	// Minus is the unary "-".
	Minus
	// Add is "+".
	Add
	// Multiply is "*".
	Multiply
	// Identifier is a name matching [a-z][a-z0-9]*.
	Identifier
	// NatNumber is a natural number: 0 or [1-9][0-9]*.
	NatNumber
)

var kindNames = [...]string{
	Invalid:         "INVALID",
	Begin:           "BEGIN",
	End:             "END",
	Declare:         "DECLARE",
	DeclarationEnd:  "DECLARATION_END",
	DeclarationsEnd: "DECLARATIONS_END",
	StatementEnd:    "STATEMENT_END",
	Assign:          "ASSIGN",
	Open:            "OPEN",
	Close:           "CLOSE",
	Minus:           "MINUS",
	Add:             "ADD",
	Multiply:        "MULTIPLY",
	Identifier:      "IDENTIFIER",
	NatNumber:       "NATNUMBER",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// IsKeyword reports whether k is matched by exact literal comparison.
func (k Kind) IsKeyword() bool {
	r, ok := k.Rule()
	return ok && r.Keyword
}

// Literal returns the exact text of a keyword kind, or "" for pattern kinds.
func (k Kind) Literal() string {
	r, ok := k.Rule()
	if !ok || !r.Keyword {
		return ""
	}
	return r.Repr
}

// IsOperator reports whether k may follow a primary expression.
func (k Kind) IsOperator() bool {
	return k == Add || k == Multiply
}

// Kinds returns every valid kind in catalog order.
func Kinds() []Kind {
	out := make([]Kind, len(catalog))
	for i, r := range catalog {
		out[i] = r.Kind
	}
	return out
}
