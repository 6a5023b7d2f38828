package vm

import (
	"fmt"
	"math"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/rami3l/tallow/debug"
	e "github.com/rami3l/tallow/errors"
	"github.com/rami3l/tallow/utils"
	"github.com/sirupsen/logrus"
)

// Parser drives the Scanner one token at a time and emits bytecode into
// a target Chunk using operator-precedence (Pratt) parsing. One Parser
// is good for exactly one Compile call.
type Parser struct {
	*Scanner
	prev, curr     Token
	compilingChunk *Chunk

	errors *multierror.Error
	// panicMode suppresses cascading error reports after the first fault.
	// Never cleared in this core: there are no statement boundaries to
	// resynchronize on.
	panicMode bool
}

func NewParser() *Parser { return &Parser{} }

/* Single-pass compilation */

func (p *Parser) emitConst(val Value) { p.emitBytes(byte(OpConst), p.makeConst(val)) }

// makeConst enforces the §4.3.4 constant budget: past the 256th constant
// it reports an error and returns index 0 so the byte stream stays
// aligned, rather than aborting compilation outright.
func (p *Parser) makeConst(val Value) byte {
	const_ := p.currentChunk().AddConst(val)
	if const_ > math.MaxUint8 {
		p.Error("Too many constants in one chunk.")
		return 0
	}
	return byte(const_)
}

func (p *Parser) num(_canAssign bool) {
	val, err := strconv.ParseFloat(p.prev.String(), 64)
	if err != nil {
		// The scanner only produces digit runs with an optional fraction,
		// so the only failure here is a literal too large for a float64.
		p.Error("Invalid number literal.")
		return
	}
	p.emitConst(VNum(val))
}

func (p *Parser) grouping(_canAssign bool) {
	p.expr()
	p.consume(TRParen, "Expect ')' after expression.")
}

func (p *Parser) lit(_canAssign bool) {
	switch p.prev.Type {
	case TFalse:
		p.emitBytes(byte(OpFalse))
	case TNil:
		p.emitBytes(byte(OpNil))
	case TTrue:
		p.emitBytes(byte(OpTrue))
	default:
		panic(e.UnreachableError)
	}
}

func (p *Parser) unary(_canAssign bool) {
	op := p.prev.Type

	// Compile the operand.
	p.parsePrec(PrecUnary)

	// Emit the operator instruction.
	switch op {
	case TBang:
		p.emitBytes(byte(OpNot))
	case TMinus:
		p.emitBytes(byte(OpNeg))
	default:
		panic(e.UnreachableError)
	}
}

func (p *Parser) binary(_canAssign bool) {
	op := p.prev.Type
	rule := parseRules[op]

	// Compile the RHS at one precedence level higher so that operators
	// of equal precedence associate left.
	p.parsePrec(rule.Prec + 1)

	// Emit the operator instruction(s).
	switch op {
	case TBangEqual:
		p.emitBytes(byte(OpEqual), byte(OpNot))
	case TEqualEqual:
		p.emitBytes(byte(OpEqual))
	case TGreater:
		p.emitBytes(byte(OpGreater))
	case TGreaterEqual:
		p.emitBytes(byte(OpLess), byte(OpNot))
	case TLess:
		p.emitBytes(byte(OpLess))
	case TLessEqual:
		p.emitBytes(byte(OpGreater), byte(OpNot))
	case TPlus:
		p.emitBytes(byte(OpAdd))
	case TMinus:
		p.emitBytes(byte(OpSub))
	case TStar:
		p.emitBytes(byte(OpMul))
	case TSlash:
		p.emitBytes(byte(OpDiv))
	default:
		panic(e.UnreachableError)
	}
}

func (p *Parser) expr() { p.parsePrec(PrecAssign) }

type ParseFn = func(p *Parser, canAssign bool)

type ParseRule struct {
	Prefix, Infix ParseFn
	Prec
}

var parseRules []ParseRule

func init() {
	parseRules = make([]ParseRule, TEOF+1)
	parseRules[TLParen] = ParseRule{(*Parser).grouping, nil, PrecNone}
	parseRules[TMinus] = ParseRule{(*Parser).unary, (*Parser).binary, PrecTerm}
	parseRules[TPlus] = ParseRule{nil, (*Parser).binary, PrecTerm}
	parseRules[TSlash] = ParseRule{nil, (*Parser).binary, PrecFactor}
	parseRules[TStar] = ParseRule{nil, (*Parser).binary, PrecFactor}
	parseRules[TBang] = ParseRule{(*Parser).unary, nil, PrecNone}
	parseRules[TBangEqual] = ParseRule{nil, (*Parser).binary, PrecEqual}
	parseRules[TEqualEqual] = ParseRule{nil, (*Parser).binary, PrecEqual}
	parseRules[TGreater] = ParseRule{nil, (*Parser).binary, PrecComp}
	parseRules[TGreaterEqual] = ParseRule{nil, (*Parser).binary, PrecComp}
	parseRules[TLess] = ParseRule{nil, (*Parser).binary, PrecComp}
	parseRules[TLessEqual] = ParseRule{nil, (*Parser).binary, PrecComp}
	parseRules[TNum] = ParseRule{(*Parser).num, nil, PrecNone}
	parseRules[TFalse] = ParseRule{(*Parser).lit, nil, PrecNone}
	parseRules[TNil] = ParseRule{(*Parser).lit, nil, PrecNone}
	parseRules[TTrue] = ParseRule{(*Parser).lit, nil, PrecNone}
	parseRules[TEOF] = ParseRule{}
}

func (p *Parser) parsePrec(prec Prec) {
	p.advance()

	// Parse the prefix/LHS position.
	prefix := parseRules[p.prev.Type].Prefix
	if prefix == nil {
		p.Error("Expect expression.")
		return
	}
	canAssign := prec <= PrecAssign
	prefix(p, canAssign)

	// Parse infix/RHS positions while rule.Prec >= prec.
	for {
		rule := parseRules[p.curr.Type]
		if rule.Prec < prec {
			break
		}
		p.advance()
		if rule.Infix == nil {
			panic(e.UnreachableError)
		}
		rule.Infix(p, canAssign)
	}
}

/* Parsing helpers */

func (p *Parser) check(ty TokenType) bool { return p.curr.Type == ty }

func (p *Parser) advance() {
	p.prev = p.curr
	for {
		// Skip until the first non-TErr token, reporting each scan error.
		if p.curr = p.ScanToken(); !p.check(TErr) {
			break
		}
		p.ErrorAtCurr(p.curr.String())
	}
}

func (p *Parser) consume(ty TokenType, errorMsg string) *Token {
	if !p.check(ty) {
		p.ErrorAtCurr(errorMsg)
		return nil
	}
	p.advance()
	return utils.Box(p.prev)
}

/* Compiling helpers */

// Compile reads exactly one expression followed by end-of-input and
// emits the resulting bytecode plus constants into a fresh Chunk, per
// §4.3.1. The returned error is nil iff compilation succeeded.
func (p *Parser) Compile(src string) (*Chunk, error) {
	res := NewChunk()
	p.compilingChunk = res
	defer func() { p.compilingChunk = nil }()

	p.Scanner = NewScanner(src)
	p.advance()

	p.expr()
	p.consume(TEOF, "Expect end of expression.")

	p.endCompiler()
	return res, p.errors.ErrorOrNil()
}

func (p *Parser) currentChunk() *Chunk { return p.compilingChunk }

func (p *Parser) emitBytes(bs ...byte) {
	for _, b := range bs {
		p.currentChunk().Write(b, p.prev.Line)
	}
}

func (p *Parser) endCompiler() {
	p.emitBytes(byte(OpReturn))
	if debug.DEBUG {
		logrus.Debugln(p.currentChunk().Disassemble("endCompiler"))
	}
}

//go:generate stringer -type=Prec
type Prec int

const (
	PrecNone   Prec = iota
	PrecAssign      // =
	PrecOr          // or
	PrecAnd         // and
	PrecEqual       // == !=
	PrecComp        // < > <= >=
	PrecTerm        // + -
	PrecFactor      // * /
	PrecUnary       // ! -
	PrecCall        // . ()
	PrecPrimary
)

/* Error handling */

// ErrorAt reports a diagnostic at tk, formatted per §6: " at end" for
// EOF, nothing for scanner-produced error tokens (the message itself is
// the location-free report), otherwise the token's own lexeme. While
// panicMode is set, reports are silently dropped to avoid cascades.
func (p *Parser) ErrorAt(tk Token, reason string) {
	if p.panicMode {
		return
	}
	p.panicMode = true

	var loc string
	switch tk.Type {
	case TEOF:
		loc = " at end"
	case TErr:
		loc = ""
	default:
		loc = fmt.Sprintf(" at '%s'", tk)
	}
	err := &e.CompilationError{Line: tk.Line, Loc: loc, Reason: reason}

	if debug.DEBUG {
		logrus.Debugln(p.currentChunk().Disassemble("ErrorAt"))
		logrus.Debugln(err)
	}

	p.errors = multierror.Append(p.errors, err)
}

func (p *Parser) Error(reason string)       { p.ErrorAt(p.prev, reason) }
func (p *Parser) ErrorAtCurr(reason string) { p.ErrorAt(p.curr, reason) }
func (p *Parser) HadError() bool            { return p.errors != nil }
