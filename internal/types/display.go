package types

import (
	"fmt"
	"strings"
)

func (Unit) String() string          { return "1" }
func (p Prim) String() string        { return p.P.String() }
func (v Var) String() string         { return v.Name }
func (e Existential) String() string { return "E" + NumName(e.ID) }
func (a Alias) String() string       { return a.Name }

func (f Func) String() string {
	from := f.From.String()
	if _, ok := f.From.(Func); ok {
		from = "(" + from + ")"
	}
	return from + " -> " + f.To.String()
}

func (p Product) String() string {
	return fmt.Sprintf("(%s, %s)", p.First, p.Second)
}

func (f Forall) String() string {
	return fmt.Sprintf("∀%s. %s", f.Var, f.Body)
}

func (u Union) String() string {
	var b strings.Builder
	b.WriteString(u.Name)
	for _, a := range u.Args {
		s := a.String()
		b.WriteByte(' ')
		if strings.Contains(s, " ") {
			b.WriteString("(" + s + ")")
		} else {
			b.WriteString(s)
		}
	}
	return b.String()
}

// NumName enumerates short lowercase names: 0 -> a, 25 -> z, 26 -> aa,
// 27 -> ab, and so on.
func NumName(n int) string {
	s := string(rune('a' + n%26))
	n /= 26
	for n > 0 {
		s = string(rune('a'+n%26-1)) + s
		n /= 26
	}
	return s
}
