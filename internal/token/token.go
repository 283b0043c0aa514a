package token

// Type identifies the lexical class of a token. The set of types is closed:
// the scanner never emits a type outside this list.
type Type string

const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"
	NEWLINE Type = "NEWLINE"

	// Identifiers and literals
	IDENT  Type = "IDENT"  // starts with a lowercase letter or underscore
	CONST  Type = "CONST"  // starts with an uppercase letter
	IVAR   Type = "IVAR"   // @name
	CVAR   Type = "CVAR"   // @@name
	GVAR   Type = "GVAR"   // $name
	INT    Type = "INT"    // 42
	FLOAT  Type = "FLOAT"  // 3.14
	STRING Type = "STRING" // 'text', or a heredoc body
	SYMBOL Type = "SYMBOL" // :name
	REGEX  Type = "REGEX"  // /pattern/

	// Interpolated string structure ("a#{b}c")
	STRING_START   Type = "STRING_START"
	STRING_CONTENT Type = "STRING_CONTENT"
	INTERP_START   Type = "INTERP_START"
	INTERP_END     Type = "INTERP_END"
	STRING_END     Type = "STRING_END"

	// Operators
	PLUS     Type = "+"
	MINUS    Type = "-"
	ASTERISK Type = "*"
	SLASH    Type = "/"
	PERCENT  Type = "%"
	POWER    Type = "**"

	ASSIGN          Type = "="
	PLUS_ASSIGN     Type = "+="
	MINUS_ASSIGN    Type = "-="
	ASTERISK_ASSIGN Type = "*="
	SLASH_ASSIGN    Type = "/="
	PERCENT_ASSIGN  Type = "%="
	POWER_ASSIGN    Type = "**="

	EQ     Type = "=="
	NOT_EQ Type = "!="
	LT     Type = "<"
	GT     Type = ">"
	LT_EQ  Type = "<="
	GT_EQ  Type = ">="

	AND  Type = "&&"
	OR   Type = "||"
	BANG Type = "!"

	AMP  Type = "&"
	PIPE Type = "|"

	DOT       Type = "."
	COMMA     Type = ","
	COLON     Type = ":"
	SCOPE     Type = "::"
	SEMI      Type = ";"
	QUESTION  Type = "?"
	ARROW     Type = "->"
	FAT_ARROW Type = "=>"

	LPAREN   Type = "("
	RPAREN   Type = ")"
	LBRACKET Type = "["
	RBRACKET Type = "]"
	LBRACE   Type = "{"
	RBRACE   Type = "}"

	// Keywords
	DEF       Type = "DEF"
	END       Type = "END"
	IF        Type = "IF"
	ELSIF     Type = "ELSIF"
	ELSE      Type = "ELSE"
	UNLESS    Type = "UNLESS"
	WHILE     Type = "WHILE"
	UNTIL     Type = "UNTIL"
	CASE      Type = "CASE"
	WHEN      Type = "WHEN"
	THEN      Type = "THEN"
	DO        Type = "DO"
	RETURN    Type = "RETURN"
	CLASS     Type = "CLASS"
	MODULE    Type = "MODULE"
	TYPE      Type = "TYPE"
	INTERFACE Type = "INTERFACE"
	YIELD     Type = "YIELD"
	BEGIN     Type = "BEGIN"
	RESCUE    Type = "RESCUE"
	ENSURE    Type = "ENSURE"
	NIL       Type = "NIL"
	TRUE      Type = "TRUE"
	FALSE     Type = "FALSE"
	SELF      Type = "SELF"
	PRIVATE   Type = "PRIVATE"
	PUBLIC    Type = "PUBLIC"
	PROTECTED Type = "PROTECTED"
)

// Token is one lexical unit of a source text. Tokens are immutable once
// produced: the scanner builds them, everything downstream reads them.
type Token struct {
	Type   Type
	Text   string // the raw source slice (processed content for strings)
	Start  int    // byte offset of the first character
	End    int    // byte offset one past the last character
	Line   int    // 1-based
	Column int    // 1-based
}

var keywords = map[string]Type{
	"def":       DEF,
	"end":       END,
	"if":        IF,
	"elsif":     ELSIF,
	"else":      ELSE,
	"unless":    UNLESS,
	"while":     WHILE,
	"until":     UNTIL,
	"case":      CASE,
	"when":      WHEN,
	"then":      THEN,
	"do":        DO,
	"return":    RETURN,
	"class":     CLASS,
	"module":    MODULE,
	"type":      TYPE,
	"interface": INTERFACE,
	"yield":     YIELD,
	"begin":     BEGIN,
	"rescue":    RESCUE,
	"ensure":    ENSURE,
	"nil":       NIL,
	"true":      TRUE,
	"false":     FALSE,
	"self":      SELF,
	"private":   PRIVATE,
	"public":    PUBLIC,
	"protected": PROTECTED,
}

// LookupIdent maps an identifier spelling to its keyword type, or IDENT if
// it is not a keyword.
func LookupIdent(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}

// IsKeyword reports whether t is one of the keyword token types.
func IsKeyword(t Type) bool {
	for _, kw := range keywords {
		if kw == t {
			return true
		}
	}
	return false
}
