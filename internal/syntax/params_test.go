package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func param(name string) Param {
	return Param{Label: name, Name: name}
}

func names(params []Param) []string {
	var out []string
	for _, p := range params {
		out = append(out, p.Name)
	}
	return out
}

func TestUnusedParams(t *testing.T) {
	tests := []struct {
		name string
		fn   *Function
		want []string
	}{
		{
			name: "empty body",
			fn:   &Function{Params: []Param{param("x")}, Body: Block()},
			want: []string{"x"},
		},
		{
			name: "direct read",
			fn:   &Function{Params: []Param{param("x")}, Body: Block(Ident("print", Ident("x")))},
		},
		{
			name: "binding before read shadows parameter",
			fn: &Function{
				Params: []Param{param("param")},
				Body:   Block(Binding("param", Ident("compute")), Ident("print", Ident("param"))),
			},
			want: []string{"param"},
		},
		{
			name: "read before binding uses parameter",
			fn: &Function{
				Params: []Param{param("param")},
				Body:   Block(Ident("print", Ident("param")), Binding("param", Ident("compute"))),
			},
		},
		{
			name: "initializer reads parameter it shadows",
			fn: &Function{
				Params: []Param{param("value")},
				Body:   Block(Binding("value", Ident("value"))),
			},
		},
		{
			name: "shadowing in nested block ends with block",
			fn: &Function{
				Params: []Param{param("x")},
				Body:   Block(
					Block(Binding("x", Ident("zero")), Ident("use", Ident("x"))),
					Ident("use", Ident("x")),
				),
			},
		},
		{
			name: "shorthand capture counts as use",
			fn: &Function{
				Params: []Param{param("x")},
				Body:   Block(Closure(nil, []Capture{{Name: "x"}})),
			},
		},
		{
			name: "renamed capture counts as use",
			fn: &Function{
				Params: []Param{param("x")},
				Body:   Block(Closure(nil, []Capture{{Name: "y", Source: "x"}}, Ident("y"))),
			},
		},
		{
			name: "closure param shadows function param",
			fn: &Function{
				Params: []Param{param("x")},
				Body:   Block(Closure([]Param{param("x")}, nil, Ident("x"))),
			},
			want: []string{"x"},
		},
		{
			name: "closure reads outer param",
			fn: &Function{
				Params: []Param{param("x"), param("y")},
				Body:   Block(Closure(nil, nil, Ident("x"))),
			},
			want: []string{"y"},
		},
		{
			name: "underscore params are skipped",
			fn: &Function{
				Params: []Param{{Label: "_", Name: "_"}, {Label: "_", Name: "value"}},
				Body:   Block(),
			},
			want: []string{"value"},
		},
		{
			name: "fatalError body",
			fn: &Function{
				Params: []Param{param("x")},
				Body:   Block(Ident("fatalError", Ident("notImplemented"))),
			},
		},
		{
			name: "no body",
			fn:   &Function{Params: []Param{param("x")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(UnusedParams(tt.fn)))
		})
	}
}

func TestUnusedParamsKeepsPositions(t *testing.T) {
	fn := &Function{
		Params: []Param{{Label: "x", Name: "x", Position: Position{Line: 1, Column: 8}}},
		Body:   Block(),
	}

	unused := UnusedParams(fn)
	if assert.Len(t, unused, 1) {
		assert.Equal(t, Position{Line: 1, Column: 8}, unused[0].Position)
	}
}
