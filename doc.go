// Package linecalc implements the evaluation engine of a line-oriented
// calculator.
//
// Each line of input is tokenized, then evaluated directly by a
// precedence-climbing parser against an Env holding variables and the last
// result. "2 3" and "2(3)" are implicit multiplications, "2 ** 3 ** 2" is
// "2 ** (3 ** 2)", "x = y = 5" assigns both variables, and "#" is the last
// successful result.
//
// Quoted text and the characters ! and ? are inline directives rather than
// parts of the expression: '60:3' asks the host for an input box size, "16"
// asks for results in base 16, and ! or ? toggle the host's input mode. They
// are handed to the host as soon as they are lexed, so they take effect even
// when the rest of the line is invalid.
//
// Evaluation is recursive. Very deeply nested parentheses are limited only by
// the goroutine stack.
//
package linecalc
