package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/pybind/internal/ast"
	"github.com/mna/pybind/internal/lexer"
	"github.com/mna/pybind/internal/parser"
	"github.com/mna/pybind/internal/token"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var parseMode parser.Mode
	if c.WithComments {
		parseMode |= parser.Comments
	}
	return ParseFiles(ctx, stdio, parseMode, token.PosLong, args...)
}

func ParseFiles(ctx context.Context, stdio mainer.Stdio, parseMode parser.Mode, posMode token.PosMode, files ...string) error {
	fs, mods, err := parser.ParseFiles(ctx, parseMode, files...)
	for _, mod := range mods {
		start, _ := mod.Span()
		printer := ast.Printer{
			Output: stdio.Stdout,
			Pos:    posMode,
			File:   fs.File(start),
		}
		if err := printer.Print(mod); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}
	if err != nil {
		lexer.PrintError(stdio.Stderr, err)
	}
	return err
}
