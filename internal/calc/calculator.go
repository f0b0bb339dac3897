// Package calc implements the arithmetic behind the calculator disguise.
package calc

import (
	"strconv"
	"strings"
)

// Key is a calculator button.
type Key string

const (
	KeyDecimal Key = "."
	KeyAdd     Key = "+"
	KeySub     Key = "-"
	KeyMul     Key = "*"
	KeyDiv     Key = "/"
	KeyEquals  Key = "="
	KeyClear   Key = "AC"
	KeyNegate  Key = "+/-"
	KeyPercent Key = "%"
)

const (
	initialDisplay = "0"
	errorDisplay   = "Error"
	maxDigits      = 16
)

// IsDigit reports whether the key enters a digit.
func (key Key) IsDigit() bool {
	return len(key) == 1 && key[0] >= '0' && key[0] <= '9'
}

func (key Key) isOperator() bool {
	switch key {
	case KeyAdd, KeySub, KeyMul, KeyDiv:
		return true
	default:
		return false
	}
}

// Calculator holds the display buffer and the pending operation.
// It is not safe for concurrent use.
type Calculator struct {
	display  string
	operand  float64
	hasFirst bool
	operator Key
	waiting  bool
}

// New returns a cleared calculator.
func New() *Calculator {
	return &Calculator{display: initialDisplay}
}

// Display returns the current display text.
func (calculator *Calculator) Display() string {
	return calculator.display
}

// Press applies a key and returns the resulting display text.
// Unknown keys leave the display untouched.
func (calculator *Calculator) Press(key Key) string {
	switch {
	case key.IsDigit():
		calculator.inputDigit(string(key))
	case key == KeyDecimal:
		calculator.inputDecimal()
	case key.isOperator():
		calculator.handleOperator(key)
	case key == KeyEquals:
		calculator.calculateResult()
	case key == KeyClear:
		calculator.clear()
	case key == KeyNegate:
		calculator.transform(func(value float64) float64 { return -value })
	case key == KeyPercent:
		calculator.transform(func(value float64) float64 { return value / 100 })
	}
	return calculator.display
}

func (calculator *Calculator) inputDigit(digit string) {
	if calculator.waiting || calculator.display == errorDisplay {
		calculator.display = digit
		calculator.waiting = false
		return
	}
	if calculator.display == initialDisplay {
		calculator.display = digit
		return
	}
	if len(strings.TrimLeft(calculator.display, "-.")) >= maxDigits {
		return
	}
	calculator.display += digit
}

func (calculator *Calculator) inputDecimal() {
	if calculator.waiting || calculator.display == errorDisplay {
		calculator.display = "0."
		calculator.waiting = false
		return
	}
	if !strings.Contains(calculator.display, ".") {
		calculator.display += "."
	}
}

func (calculator *Calculator) handleOperator(next Key) {
	if calculator.display == errorDisplay {
		return
	}
	value := calculator.value()
	switch {
	case !calculator.hasFirst:
		calculator.operand = value
		calculator.hasFirst = true
	case calculator.operator != "" && !calculator.waiting:
		result, ok := apply(calculator.operator, calculator.operand, value)
		if !ok {
			calculator.fail()
			return
		}
		calculator.display = format(result)
		calculator.operand = result
	}
	calculator.waiting = true
	calculator.operator = next
}

func (calculator *Calculator) calculateResult() {
	if calculator.operator == "" || !calculator.hasFirst {
		return
	}
	result, ok := apply(calculator.operator, calculator.operand, calculator.value())
	if !ok {
		calculator.fail()
		return
	}
	calculator.display = format(result)
	calculator.hasFirst = false
	calculator.operator = ""
	calculator.waiting = false
}

func (calculator *Calculator) transform(fn func(float64) float64) {
	if calculator.display == errorDisplay {
		return
	}
	calculator.display = format(fn(calculator.value()))
}

func (calculator *Calculator) clear() {
	calculator.display = initialDisplay
	calculator.operand = 0
	calculator.hasFirst = false
	calculator.operator = ""
	calculator.waiting = false
}

func (calculator *Calculator) fail() {
	calculator.clear()
	calculator.display = errorDisplay
}

func (calculator *Calculator) value() float64 {
	value, err := strconv.ParseFloat(strings.TrimSuffix(calculator.display, "."), 64)
	if err != nil {
		return 0
	}
	return value
}

func apply(operator Key, first, second float64) (float64, bool) {
	switch operator {
	case KeyAdd:
		return first + second, true
	case KeySub:
		return first - second, true
	case KeyMul:
		return first * second, true
	case KeyDiv:
		if second == 0 {
			return 0, false
		}
		return first / second, true
	default:
		return second, true
	}
}

func format(value float64) string {
	if value == 0 {
		return initialDisplay
	}
	return strconv.FormatFloat(value, 'g', maxDigits, 64)
}
