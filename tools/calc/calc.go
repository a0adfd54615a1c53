// Package calc is the arithmetic tool. It pulls a numeric expression out
// of the prompt, evaluates it, and reports the computation as context.
package calc

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mohammad-safakhou/askgate/internal/tool"
)

// CalcTool evaluates + - * / expressions with parentheses.
type CalcTool struct{}

// New builds the tool.
func New() *CalcTool { return &CalcTool{} }

// Run extracts the first arithmetic expression from the prompt. Prompts
// with no expression yield an empty output, not an error.
func (c *CalcTool) Run(ctx context.Context, in tool.Input) (tool.Output, error) {
	expr := extractExpression(in.Prompt)
	if expr == "" {
		return tool.Output{}, nil
	}
	value, err := evaluate(expr)
	if err != nil {
		return tool.Output{}, fmt.Errorf("evaluating %q: %w", expr, err)
	}
	text := fmt.Sprintf("\n\n— Computation: %s = %s", expr, formatNumber(value))
	return tool.Output{Text: text, Citations: []tool.Citation{{Title: "calculator"}}}, nil
}

// extractExpression returns the first substring that looks like arithmetic:
// a run of digits, operators, parentheses, dots and spaces holding at least
// one digit and one operator.
func extractExpression(prompt string) string {
	isExprChar := func(r byte) bool {
		switch {
		case r >= '0' && r <= '9':
			return true
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '(' || r == ')' || r == '.' || r == ' ':
			return true
		}
		return false
	}
	for i := 0; i < len(prompt); i++ {
		if !isExprChar(prompt[i]) {
			continue
		}
		j := i
		for j < len(prompt) && isExprChar(prompt[j]) {
			j++
		}
		candidate := strings.TrimSpace(prompt[i:j])
		if hasDigit(candidate) && hasOperator(candidate) {
			return candidate
		}
		i = j
	}
	return ""
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func hasOperator(s string) bool {
	// a leading sign alone does not make an expression
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '+', '-', '*', '/':
			return true
		}
	}
	return false
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// evaluate is a recursive-descent parser over the usual precedence:
// expr := term (('+'|'-') term)* ; term := factor (('*'|'/') factor)* ;
// factor := number | '(' expr ')' | '-' factor
func evaluate(expr string) (float64, error) {
	p := &parser{input: strings.ReplaceAll(expr, " ", "")}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("unexpected character at offset %d", p.pos)
	}
	return v, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) peek() byte {
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}

func (p *parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
		} else {
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		}
	}
}

func (p *parser) parseFactor() (float64, error) {
	switch {
	case p.peek() == '-':
		p.pos++
		v, err := p.parseFactor()
		return -v, err
	case p.peek() == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	default:
		start := p.pos
		for p.pos < len(p.input) && (p.input[p.pos] == '.' || (p.input[p.pos] >= '0' && p.input[p.pos] <= '9')) {
			p.pos++
		}
		if start == p.pos {
			return 0, fmt.Errorf("expected number at offset %d", start)
		}
		return strconv.ParseFloat(p.input[start:p.pos], 64)
	}
}
