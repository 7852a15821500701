package asm

import "strings"

// sourceLine is one line of source after the lexical layer has run:
// comments stripped, whitespace trimmed, blank lines discarded.
// Exactly one of (label != "") or (mnemonic != "") holds for any
// sourceLine that survives this stage.
type sourceLine struct {
	lineno   int
	label    string // label identifier, if this is a label definition
	mnemonic string // uppercased mnemonic, if this is an instruction
	operand  string // trimmed operand text, possibly empty
}

// lex splits source on newlines and, for each line, strips everything
// from the first ';' onward, trims whitespace, and discards the line
// if it is then empty. Surviving lines are classified as label
// definitions (trimmed text ending in ':') or instruction lines
// (whitespace-separated mnemonic + rejoined operand).
func lex(source string) []sourceLine {
	var lines []sourceLine
	for i, raw := range strings.Split(source, "\n") {
		lineno := i + 1
		text := raw
		if idx := strings.IndexByte(text, ';'); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if strings.HasSuffix(text, ":") {
			lines = append(lines, sourceLine{
				lineno: lineno,
				label:  strings.TrimSpace(strings.TrimSuffix(text, ":")),
			})
			continue
		}
		fields := strings.Fields(text)
		mnemonic := strings.ToUpper(fields[0])
		operand := strings.TrimSpace(strings.Join(fields[1:], " "))
		lines = append(lines, sourceLine{
			lineno:   lineno,
			mnemonic: mnemonic,
			operand:  operand,
		})
	}
	return lines
}
