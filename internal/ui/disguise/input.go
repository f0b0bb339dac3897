package disguise

import (
	"strings"

	"safecalc/internal/calc"
)

// appendedDigits returns the digits typed at the end of next that were not
// in previous. Edits other than appending report nothing.
func appendedDigits(previous, next string) []string {
	if !strings.HasPrefix(next, previous) {
		return nil
	}
	var digits []string
	for _, r := range next[len(previous):] {
		if r >= '0' && r <= '9' {
			digits = append(digits, string(r))
		}
	}
	return digits
}

func lastLine(text string) string {
	text = strings.TrimRight(text, "\n")
	if index := strings.LastIndex(text, "\n"); index >= 0 {
		text = text[index+1:]
	}
	return strings.TrimSpace(text)
}

func keyForRune(r rune) (calc.Key, bool) {
	switch {
	case r >= '0' && r <= '9':
		return calc.Key(string(r)), true
	case r == '.' || r == ',':
		return calc.KeyDecimal, true
	case r == '+':
		return calc.KeyAdd, true
	case r == '-':
		return calc.KeySub, true
	case r == '*' || r == 'x':
		return calc.KeyMul, true
	case r == '/':
		return calc.KeyDiv, true
	case r == '=':
		return calc.KeyEquals, true
	case r == '%':
		return calc.KeyPercent, true
	case r == 'c' || r == 'C':
		return calc.KeyClear, true
	}
	return "", false
}
