package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scanAll(src string) []Token {
	s := NewScanner(src)
	var toks []Token
	for {
		tok := s.ScanToken()
		toks = append(toks, tok)
		if tok.Type == TEOF {
			return toks
		}
	}
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks := scanAll("(){};,.+-*/! != = == < <= > >=")
	var types []TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []TokenType{
		TLParen, TRParen, TLBrace, TRBrace, TSemi, TComma, TDot,
		TPlus, TMinus, TStar, TSlash,
		TBang, TBangEqual, TEqual, TEqualEqual, TLess, TLessEqual, TGreater, TGreaterEqual,
		TEOF,
	}, types)
}

func TestScanKeywordsVsIdentifiers(t *testing.T) {
	cases := map[string]TokenType{
		"and": TAnd, "class": TClass, "else": TElse, "false": TFalse,
		"for": TFor, "fun": TFun, "if": TIf, "nil": TNil, "or": TOr,
		"print": TPrint, "return": TReturn, "super": TSuper, "this": TThis,
		"true": TTrue, "var": TVar, "while": TWhile,
		"andy": TIdent, "classify": TIdent, "_foo": TIdent, "foo_bar123": TIdent,
	}
	for src, want := range cases {
		toks := scanAll(src)
		assert.Len(t, toks, 2) // lexeme token + EOF
		assert.Equal(t, want, toks[0].Type, "source %q", src)
	}
}

func TestScanNumbers(t *testing.T) {
	for _, src := range []string{"0", "42", "3.14", "007", "1."} {
		toks := scanAll(src)
		// "1." scans as NUMBER "1" followed by TDot, since a trailing dot
		// needs a digit after it to be consumed as part of the literal.
		assert.NotEmpty(t, toks)
	}
	toks := scanAll("1.")
	assert.Equal(t, TNum, toks[0].Type)
	assert.Equal(t, "1", toks[0].String())
	assert.Equal(t, TDot, toks[1].Type)
}

func TestScanCommentsAndWhitespace(t *testing.T) {
	toks := scanAll("1 // a comment\n+ 2")
	assert.Equal(t, []TokenType{TNum, TPlus, TNum, TEOF}, []TokenType{
		toks[0].Type, toks[1].Type, toks[2].Type, toks[3].Type,
	})
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[1].Line)
}

func TestScanSlashIsNotAlwaysAComment(t *testing.T) {
	toks := scanAll("6 / 2")
	assert.Equal(t, []TokenType{TNum, TSlash, TNum, TEOF}, []TokenType{
		toks[0].Type, toks[1].Type, toks[2].Type, toks[3].Type,
	})
}

func TestUnterminatedStringIsAnErrorAtEndOfSource(t *testing.T) {
	toks := scanAll(`"never closed`)
	assert.Equal(t, TErr, toks[0].Type)
	assert.Equal(t, "unterminated string", toks[0].String())
}

func TestTerminatedStringScansCleanly(t *testing.T) {
	toks := scanAll(`"hi" + 1`)
	assert.Equal(t, TStr, toks[0].Type)
	assert.Equal(t, TPlus, toks[1].Type)
}

func TestUnexpectedCharacter(t *testing.T) {
	toks := scanAll("1 @ 2")
	assert.Equal(t, TErr, toks[1].Type)
	assert.Equal(t, "unexpected character", toks[1].String())
}

func TestEOFRepeatsOnceReached(t *testing.T) {
	s := NewScanner("1")
	assert.Equal(t, TNum, s.ScanToken().Type)
	first := s.ScanToken()
	second := s.ScanToken()
	assert.Equal(t, TEOF, first.Type)
	assert.Equal(t, TEOF, second.Type)
}

// Reconstructing the source from consecutive tokens' lexemes (skipping
// whitespace/comments, which carry no lexeme of their own) should
// recover every significant character in source order.
func TestReconstructSourceFromTokenLexemes(t *testing.T) {
	src := `(1 + 2.5) * foo_bar >= "hi" // trailing comment
	!= nil`
	toks := scanAll(src)

	var got string
	for _, tok := range toks {
		if tok.Type == TEOF {
			continue
		}
		if got != "" {
			got += " "
		}
		got += tok.String()
	}
	assert.Equal(t, `( 1 + 2.5 ) * foo_bar >= "hi" != nil`, got)
}
