package uomerr

import (
	"fmt"
	"github.com/cottand/uom/ast"
	"runtime/debug"
	"strings"
	"unicode/utf8"
)

// enableDebugErrorPrinting makes errors include their stacktrace when printed
const enableDebugErrorPrinting bool = false
const enableDebugFullStacktrace bool = false

type ErrCode int

const (
	None      ErrCode = iota
	UnitUnify ErrCode = iota
	Parse
)

type UnitError interface {
	Error() string
	Code() ErrCode
	ast.Positioner

	withStack([]byte) UnitError
	getStack() []byte
}

func FormatWithCode(e UnitError) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if !enableDebugFullStacktrace {
			stack = strings.Split(stack, "\n")[6]
		}
		return fmt.Sprintf("%s:(E%03d) %s", stack, e.Code(), e.Error())
	}
	return fmt.Sprintf("(E%03d) %s", e.Code(), e.Error())
}

// FormatWithCodeAndSource renders e like FormatWithCode, and additionally
// locates the error in src, quoting the offending line with a caret under
// the error position. Errors that cannot be located in src render like
// FormatWithCode.
func FormatWithCodeAndSource(e UnitError, name, src string) string {
	offset := int(e.Pos())
	if len(src) == 0 || offset < 0 || offset > len(src) {
		return FormatWithCode(e)
	}
	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	lineEnd := strings.IndexByte(src[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(src)
	} else {
		lineEnd += offset
	}
	line := 1 + strings.Count(src[:offset], "\n")
	col := 1 + utf8.RuneCountInString(src[lineStart:offset])
	return fmt.Sprintf("%s:%d:%d: %s\n\t%s\n\t%s^",
		name, line, col, FormatWithCode(e),
		src[lineStart:lineEnd],
		strings.Repeat(" ", col-1),
	)
}

func New[E UnitError](err E) UnitError {
	return err.withStack(debug.Stack())
}

type Unclassified struct {
	From error
	ast.Positioner
	stack []byte
}

func (e Unclassified) Error() string {
	return fmt.Sprintf("unclassified error: %v", e.From)
}
func (e Unclassified) Code() ErrCode    { return None }
func (e Unclassified) getStack() []byte { return e.stack }
func (e Unclassified) withStack(stack []byte) UnitError {
	e.stack = stack
	return e
}

// NewUnitUnify reports that no substitution can make two unit expressions
// equal. Left and Right carry the canonical rendering of each side.
type NewUnitUnify struct {
	ast.Positioner
	Left  string
	Right string
	stack []byte
}

func (e NewUnitUnify) Error() string {
	return fmt.Sprintf("unit mismatch: no substitution makes '%v' equal to '%v'", e.Left, e.Right)
}
func (e NewUnitUnify) Code() ErrCode    { return UnitUnify }
func (e NewUnitUnify) getStack() []byte { return e.stack }
func (e NewUnitUnify) withStack(stack []byte) UnitError {
	e.stack = stack
	return e
}

type NewParse struct {
	ast.Positioner
	ParserMessage string
	Hint          string
	stack         []byte
}

func (e NewParse) Error() string {
	return e.ParserMessage
}
func (e NewParse) Code() ErrCode    { return Parse }
func (e NewParse) getStack() []byte { return e.stack }
func (e NewParse) withStack(stack []byte) UnitError {
	e.stack = stack
	return e
}
