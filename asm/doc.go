// Package asm implements a single pass macro assembler for PIP2 programs.
//
// Source lines hold one instruction each, as a mnemonic followed by
// space-separated operands. Labels end in ':' and may precede an
// instruction on the same line. Comments start at ';'.
//
// Directives:
//
//	.equ NAME VALUE            define an equate
//	.macro NAME ARG...         start a macro, ended by .endm
//	.word VALUE...             emit raw data words
//	.pool NAME KIND VALUE      add a constant pool literal (int, float, str)
//
// Inside a macro body, '@' expands to a prefix unique to each expansion,
// for local labels.
//
// $(...) evaluates a Starlark expression over the integer equates at
// assembly time. Immediates that do not fit an inline info word are
// placed in the constant pool automatically.
package asm
