package tags

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

const (
	// Autowire is the canonical spelling of the autowire tag key
	Autowire = "autowire"

	// Type is the optional tag overriding the field's static type
	Type = "type"

	// Factory is the reserved autowire argument naming a factory
	Factory = "factory"
)

// Tag is a single key:"value" pair of a struct tag
type Tag struct {
	Key   string // key as written, case preserved
	Value string // unquoted value
}

// structTag represents the root of a struct tag string
type structTag struct {
	Pairs []*tagPair `parser:"@@*"`
}

// tagPair represents a key:"value" pair
type tagPair struct {
	Key   string `parser:"@Key Colon"`
	Value string `parser:"@String"`
}

var (
	tagLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
		{Name: "Colon", Pattern: `:`},
		{Name: "Key", Pattern: `[^\s:"]+`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	tagParser = participle.MustBuild[structTag](
		participle.Lexer(tagLexer),
		participle.Elide("Whitespace"),
	)

	keyToken   = tagLexer.Symbols()["Key"]
	colonToken = tagLexer.Symbols()["Colon"]
)

// Parse enumerates every key:"value" pair declared in a struct tag, in
// declaration order. Unlike reflect.StructTag.Lookup the keys keep their
// original casing, which is what miscased tag detection needs.
func Parse(tag reflect.StructTag) ([]Tag, error) {
	raw := strings.TrimSpace(string(tag))
	if raw == "" {
		return nil, nil
	}

	parsed, err := tagParser.ParseString("", raw)
	if err != nil {
		return nil, fmt.Errorf("malformed struct tag %q: %w", raw, err)
	}

	result := make([]Tag, 0, len(parsed.Pairs))
	for _, pair := range parsed.Pairs {
		value, err := strconv.Unquote(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("malformed value for tag %q: %w", pair.Key, err)
		}
		result = append(result, Tag{Key: pair.Key, Value: value})
	}
	return result, nil
}

// Declares reports whether tag declares a key asking for autowiring.
// Keys are read up to the first malformed token, so a tag Parse rejects
// still answers for the pairs written before the damage. Text inside
// quoted values is never taken for a key.
func Declares(tag reflect.StructTag) bool {
	lex, err := tagLexer.Lex("", strings.NewReader(string(tag)))
	if err != nil {
		return false
	}

	var key string
	for {
		tok, err := lex.Next()
		if err != nil || tok.EOF() {
			return false
		}
		switch {
		case tok.Type == keyToken:
			key = tok.Value
		case tok.Type == colonToken && key != "":
			if qualifies, _ := Classify(key); qualifies {
				return true
			}
			key = ""
		default:
			key = ""
		}
	}
}

// Lookup returns the value of the first tag with exactly the given key
func Lookup(list []Tag, key string) (string, bool) {
	for _, tag := range list {
		if tag.Key == key {
			return tag.Value, true
		}
	}
	return "", false
}

// Classify reports whether a tag key asks for autowiring and whether it
// is written with the canonical spelling. Keys that lowercase to autowire
// or autowired qualify; only autowire itself is canonical.
func Classify(key string) (qualifies, canonical bool) {
	lower := strings.ToLower(key)
	if lower != Autowire && lower != Autowire+"d" {
		return false, false
	}
	return true, key == Autowire
}

// Find returns the first qualifying autowire tag in list
func Find(list []Tag) (Tag, bool) {
	for _, tag := range list {
		if qualifies, _ := Classify(tag.Key); qualifies {
			return tag, true
		}
	}
	return Tag{}, false
}
