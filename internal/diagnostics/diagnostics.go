package diagnostics

import (
	"fmt"

	"github.com/sflang/sfl/internal/token"
)

// Error codes, grouped by stage.
const (
	ErrL001 = "L001" // lexical error
	ErrP001 = "P001" // parse error
	ErrP002 = "P002" // unbound identifier
	ErrP003 = "P003" // duplicate declaration
	ErrT001 = "T001" // type mismatch
	ErrT002 = "T002" // missing type declaration
	ErrT003 = "T003" // self-reference during inference
	ErrR001 = "R001" // reduction-time failure (division by zero, ...)
	ErrR002 = "R002" // match with no applicable case
)

// Error is a positioned, coded diagnostic. Positions are 0-based
// internally and rendered 1-based.
type Error struct {
	Code    string
	Message string
	Line    int
	Column  int
	File    string
}

func NewError(code string, tok token.Token, msg string) *Error {
	return &Error{Code: code, Message: msg, Line: tok.Line, Column: tok.Column}
}

func NewErrorAt(code string, line, col int, msg string) *Error {
	return &Error{Code: code, Message: msg, Line: line, Column: col}
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("[%s:%d:%d] %s: %s", e.File, e.Line+1, e.Column+1, e.Code, e.Message)
	}
	return fmt.Sprintf("[%d:%d] %s: %s", e.Line+1, e.Column+1, e.Code, e.Message)
}
