// Package dsl parses batch scripts that describe many memes at once.
//
//	# variables are interpolated into strings as ${name}
//	set team = "backend"
//
//	defaults {
//	  max_font_size: 120
//	}
//
//	meme "Two Buttons" {
//	  top: "Deploy on Friday"
//	  bottom: "Sleep, ${team}"
//	  out: "friday.png"
//	}
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `\d+`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[=:;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	scriptParser = participle.MustBuild[Script](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Script is the root AST node of a batch file.
type Script struct {
	Entries []*Entry `parser:"Newline* ( @@ ( ';' | Newline )* )*"`
}

// Entry is one top-level statement.
type Entry struct {
	Set      *Set      `parser:"  @@"`
	Defaults *Defaults `parser:"| @@"`
	Meme     *Meme     `parser:"| @@"`
}

// Kind returns the human-readable entry type.
func (e *Entry) Kind() string {
	switch {
	case e == nil:
		return "unknown"
	case e.Set != nil:
		return "set"
	case e.Defaults != nil:
		return "defaults"
	case e.Meme != nil:
		return "meme"
	default:
		return "unknown"
	}
}

// Set binds a script variable.
type Set struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'set' @Ident"`
	Value *Value         `parser:"'=' @@"`
}

// Defaults holds assignments applied to every following meme.
type Defaults struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Block *Block         `parser:"'defaults' Newline* @@"`
}

// Meme describes one meme to generate from a template.
type Meme struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Template StringLiteral  `parser:"'meme' @String"`
	Block    *Block         `parser:"Newline* @@"`
}

// Block is a braced list of assignments.
type Block struct {
	Assignments []*Assignment `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' @@"`
}

// Value is a string, an integer or a variable reference.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Ref    *string        `parser:"| @Ident"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a batch script from an io.Reader. filename is used in error
// positions.
func Parse(filename string, r io.Reader) (*Script, error) {
	return scriptParser.Parse(filename, r)
}

// ParseString parses a batch script from a string.
func ParseString(input string) (*Script, error) {
	return scriptParser.ParseString("", input)
}
