package tags

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ArgKind describes how an argument literal was written
type ArgKind int

const (
	WordArg ArgKind = iota
	StringArg
	NumberArg
)

// String returns the string representation of the argument kind
func (k ArgKind) String() string {
	switch k {
	case StringArg:
		return "string"
	case NumberArg:
		return "number"
	default:
		return "word"
	}
}

// Arg is one item of an autowire tag value. Positional items have no key.
type Arg struct {
	Key   string
	Value string
	Kind  ArgKind
}

// Args is the ordered list of autowire tag arguments
type Args []Arg

// Get returns the value of the first argument with the given key
func (a Args) Get(key string) (string, bool) {
	for _, arg := range a {
		if arg.Key == key {
			return arg.Value, true
		}
	}
	return "", false
}

// Without returns the arguments except those with the given key, order kept
func (a Args) Without(key string) Args {
	result := make(Args, 0, len(a))
	for _, arg := range a {
		if arg.Key != key {
			result = append(result, arg)
		}
	}
	return result
}

// argList is the grammar root of an autowire tag value:
//
//	factory=app.WidgetFactory::Build, 42, "a,b", mode=fast
type argList struct {
	Items []*argItem `parser:"( @@ ( Comma @@ )* )?"`
}

type argItem struct {
	Key   string    `parser:"( @Word Equals )?"`
	Value *argValue `parser:"@@"`
}

type argValue struct {
	String *string `parser:"  @String"`
	Number *string `parser:"| @Number"`
	Word   *string `parser:"| @Word"`
}

var argParser = participle.MustBuild[argList](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\.|[^"\\])*"|'[^']*'`},
		{Name: "Number", Pattern: `[-+]?\d+(\.\d+)?\b`},
		{Name: "Word", Pattern: `[^\s,="']+`},
		{Name: "Equals", Pattern: `=`},
		{Name: "Comma", Pattern: `,`},
		{Name: "Whitespace", Pattern: `\s+`},
	})),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ParseArgs parses the value of an autowire tag into its ordered arguments
func ParseArgs(value string) (Args, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Args{}, nil
	}

	parsed, err := argParser.ParseString("", value)
	if err != nil {
		return nil, fmt.Errorf("malformed autowire arguments %q: %w", value, err)
	}

	args := make(Args, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		arg := Arg{Key: item.Key}
		switch {
		case item.Value.String != nil:
			arg.Kind = StringArg
			arg.Value = unquote(*item.Value.String)
		case item.Value.Number != nil:
			arg.Kind = NumberArg
			arg.Value = *item.Value.Number
		case item.Value.Word != nil:
			arg.Kind = WordArg
			arg.Value = *item.Value.Word
		}
		args = append(args, arg)
	}
	return args, nil
}

// SplitFactory splits a factory reference of the form Type::Method. The
// method defaults to defaultMethod when omitted.
func SplitFactory(ref, defaultMethod string) (typeRef, method string) {
	if idx := strings.Index(ref, "::"); idx >= 0 {
		return strings.TrimSpace(ref[:idx]), strings.TrimSpace(ref[idx+2:])
	}
	return strings.TrimSpace(ref), defaultMethod
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		return unquoted
	}
	return s
}
