package main

import (
	"fmt"
	"os"

	"vela/pkg/lexer"
	"vela/pkg/parser"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: debug_parser '<code>'")
		os.Exit(1)
	}

	input := os.Args[1]
	l := lexer.New(input)
	program, errs := parser.ParseProgram(l)

	if len(errs) != 0 {
		fmt.Println("Parser errors:")
		for _, msg := range errs {
			fmt.Printf("  %s\n", msg)
		}
		fmt.Println()
	}

	if program != nil {
		fmt.Printf("AST:\n%s\n", program.String())
	}
}
