package codegen_test

import (
	"testing"

	"github.com/type-ruby/trb/internal/codegen"
	"github.com/type-ruby/trb/internal/ir"
	"github.com/type-ruby/trb/internal/parser"
	"github.com/type-ruby/trb/internal/scanner"
)

func program(t *testing.T, src string) *ir.Program {
	t.Helper()
	toks, diag := scanner.New(src).ScanAll()
	if diag != nil {
		t.Fatalf("scan failed: %v", diag)
	}
	prog, diag := parser.Parse(toks)
	if diag != nil {
		t.Fatalf("parse failed: %v", diag)
	}
	return prog
}

func assertOutput(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerateRubyErasesAnnotations(t *testing.T) {
	prog := program(t, `def add(a: Integer, b: Integer): Integer
  a + b
end
`)
	assertOutput(t, codegen.GenerateRuby(prog), `def add(a, b)
  a + b
end
`)
}

func TestGenerateRubyClass(t *testing.T) {
	prog := program(t, `class Greeter < Base
  @name: String

  def initialize(name: String)
    @name = name
  end

  private def secret: String
    "hidden"
  end
end
`)
	assertOutput(t, codegen.GenerateRuby(prog), `class Greeter < Base
  def initialize(name)
    @name = name
  end

  private def secret
    "hidden"
  end
end
`)
}

func TestGenerateRubyStatements(t *testing.T) {
	prog := program(t, `def describe(n: Integer): String
  label = n > 10 ? "big" : "small"
  if n == 0
    return "zero"
  else
    puts("ok")
  end
  items = [1, 2, 3]
  first = items[0]
  opts = { mode: :fast, "k" => 1 }
  "n is #{n}"
end
`)
	assertOutput(t, codegen.GenerateRuby(prog), `def describe(n)
  label = (n > 10) ? "big" : "small"
  if n == 0
    return "zero"
  else
    puts("ok")
  end
  items = [1, 2, 3]
  first = items[0]
  opts = { mode: :fast, "k" => 1 }
  "n is #{n}"
end
`)
}

func TestGenerateRubyExpandsCompoundAssignment(t *testing.T) {
	prog := program(t, `def countdown(n: Integer): Integer
  total = 0
  while n > 0
    total += n
    n -= 1
  end
  total
end
`)
	assertOutput(t, codegen.GenerateRuby(prog), `def countdown(n)
  total = 0
  while n > 0
    total = total + n
    n = n - 1
  end
  total
end
`)
}

func TestGenerateRBSAlias(t *testing.T) {
	prog := program(t, `type Result = String | Integer
`)
	assertOutput(t, codegen.GenerateRBS(prog), "type result = String | Integer\n")
}

func TestGenerateRBSMethodSignatures(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{
			`def find(id: Integer, name: String = "anon", *tags: String, &blk): String?
  nil
end
`,
			"def find: (Integer id, ?String name, *String tags) { (?) -> untyped } -> String?\n",
		},
		{
			`def mystery(x)
  x
end
`,
			"def mystery: (untyped x) -> untyped\n",
		},
		{
			`def valid?(flag: Boolean): Boolean
  flag
end
`,
			"def valid?: (bool flag) -> bool\n",
		},
		{
			`def configure(**opts: Integer)
  nil
end
`,
			"def configure: (**Integer opts) -> untyped\n",
		},
		{
			// Rest elements have no RBS tuple counterpart.
			`def pick(pair: [String, *Integer[]]): Integer
  0
end
`,
			"def pick: (untyped pair) -> Integer\n",
		},
	}
	for _, tt := range tests {
		assertOutput(t, codegen.GenerateRBS(program(t, tt.src)), tt.want)
	}
}

func TestGenerateRBSClass(t *testing.T) {
	prog := program(t, `class Point
  @x: Integer

  def x: Integer
    @x
  end
end
`)
	assertOutput(t, codegen.GenerateRBS(prog), `class Point
  @x: Integer
  def x: () -> Integer
end
`)
}

func TestRBSRoundTrip(t *testing.T) {
	str := &ir.SimpleType{Name: "String"}
	num := &ir.SimpleType{Name: "Integer"}

	types := []ir.Type{
		num,
		&ir.SimpleType{Name: "Boolean"},
		&ir.SimpleType{Name: "nil"},
		ir.Untyped(),
		&ir.GenericType{Base: "Array", Args: []ir.Type{num}},
		&ir.GenericType{Base: "Hash", Args: []ir.Type{str, num}},
		&ir.UnionType{Members: []ir.Type{str, num}},
		&ir.IntersectionType{Members: []ir.Type{&ir.SimpleType{Name: "Readable"}, &ir.SimpleType{Name: "Writable"}}},
		&ir.NullableType{Inner: str},
		&ir.NullableType{Inner: &ir.UnionType{Members: []ir.Type{str, num}}},
		&ir.UnionType{Members: []ir.Type{&ir.NullableType{Inner: str}, num}},
		&ir.FunctionType{Params: []ir.Type{num, str}, Return: &ir.SimpleType{Name: "Boolean"}},
		&ir.FunctionType{Return: str},
		&ir.TupleType{Elements: []ir.TupleElem{{Type: str}, {Type: num}}},
	}
	for _, orig := range types {
		emitted := codegen.RBSType(orig)
		parsed, err := codegen.ParseRBSType(emitted)
		if err != nil {
			t.Errorf("ParseRBSType(%q): %v", emitted, err)
			continue
		}
		if !ir.TypeEqual(parsed, orig) {
			t.Errorf("round trip of %s via %q came back as %s", orig.String(), emitted, parsed.String())
		}
	}
}

func TestRBSNilUnionRendersOptional(t *testing.T) {
	str := &ir.SimpleType{Name: "String"}
	num := &ir.SimpleType{Name: "Integer"}
	null := &ir.SimpleType{Name: "nil"}

	tests := []struct {
		t    ir.Type
		want string
	}{
		{&ir.UnionType{Members: []ir.Type{num, null}}, "Integer?"},
		{&ir.UnionType{Members: []ir.Type{str, num, null}}, "(String | Integer)?"},
		{&ir.UnionType{Members: []ir.Type{null}}, "nil"},
	}
	for _, tt := range tests {
		if got := codegen.RBSType(tt.t); got != tt.want {
			t.Errorf("RBSType(%s) = %q, want %q", tt.t.String(), got, tt.want)
		}
	}
}

func TestRBSRoundTripTupleRestDegrades(t *testing.T) {
	withRest, err := ir.NewTupleType([]ir.TupleElem{
		{Type: &ir.SimpleType{Name: "String"}},
		{Type: &ir.SimpleType{Name: "Integer"}, Rest: true},
	})
	if err != nil {
		t.Fatalf("tuple: %v", err)
	}
	if got := codegen.RBSType(withRest); got != "untyped" {
		t.Errorf("a tuple with a rest element projects to untyped, got %q", got)
	}
}

func TestGenerateDecls(t *testing.T) {
	prog := program(t, `type Ids = Array[Integer]

class Point
  @x: Integer

  def shift(dx: Integer, *more: Integer): Integer
    @x
  end
end

def mystery(x)
  x
end
`)
	assertOutput(t, codegen.GenerateDecls(prog), `type Ids = Array[Integer]

class Point
  @x: Integer
  def shift(dx: Integer, *more: Integer): Integer
end

def mystery(x): untyped
`)
}
