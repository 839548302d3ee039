package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suryamajhi/rlox/internal/lox"
)

// newPrintASTCmd and newPrintRPNCmd are diagnostic, not part of the CLI
// contract: they parse a file (without resolving or running it) and
// print each top-level expression statement's tree, either as a
// parenthesized prefix form or Reverse Polish Notation. Statements other
// than bare expressions print as their ordinary source-like form.
func newPrintASTCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "print-ast <script>",
		Short:  "print the parsed syntax tree of a script, one line per statement",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printParsed(args[0], lox.PrintAST)
		},
	}
}

func newPrintRPNCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "print-rpn <script>",
		Short:  "print each expression statement in Reverse Polish Notation",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printParsed(args[0], lox.PrintRPN)
		},
	}
}

func printParsed(path string, format func(lox.Expr) string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tokens, err := lox.NewScanner(string(source)).Scan()
	if err != nil {
		printError(err)
		return errors.New("scan failed")
	}

	stmts, err := lox.NewParser(tokens).Parse()
	if err != nil {
		printError(err)
		return errors.New("parse failed")
	}

	for _, s := range stmts {
		if es, ok := s.(*lox.ExpressionStmt); ok {
			fmt.Println(format(es.Expr))
			continue
		}
		fmt.Println(s.String())
	}
	return nil
}
