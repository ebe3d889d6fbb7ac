package lsp

import (
	"strings"
	"unicode/utf16"

	"fortio.org/safecast"
	"github.com/alecthomas/participle/v2/lexer"

	"cxxlint/grammar"
)

// Semantic token types and modifiers advertised to the client. The indexes
// are part of the wire format.
var SemanticTokenTypes = []string{
	"keyword",
	"property",
	"string",
	"number",
	"type",
	"function",
	"variable",
	"macro",
	"enumMember",
	"modifier",
	"comment",
}

var SemanticTokenModifiers = []string{
	"declaration",
}

const (
	tokKeyword = iota
	tokProperty
	tokString
	tokNumber
	tokType
	tokFunction
	tokVariable
	tokMacro
	tokEnumMember
	tokModifier
	tokComment
)

const modDeclaration = 1 << 0

// SemanticToken is one highlighted span, 0-based and on a single line.
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int
	TokenModifiers int
}

var (
	symbols   = grammar.DumpLexer.Symbols()
	symString = symbols["String"]
	symInt    = symbols["Int"]
	symIdent  = symbols["Ident"]
	symPunct  = symbols["Punct"]
	symWS     = symbols["Whitespace"]
	symCmt    = symbols["Comment"]
)

var declHeads = map[string]bool{
	"record": true, "enum": true, "enumerator": true, "typedef": true,
	"var": true, "param": true, "field": true,
}

var functionHeads = map[string]bool{
	"function": true, "method": true, "constructor": true,
}

// CollectSemanticTokens highlights a dump lexically, so documents that do
// not parse yet still get colors. Lexing stops at the first bad character.
func CollectSemanticTokens(filename, text string) []SemanticToken {
	lex, err := grammar.DumpLexer.LexString(filename, text)
	if err != nil {
		return nil
	}
	var toks []lexer.Token
	for {
		t, err := lex.Next()
		if err != nil || t.EOF() {
			break
		}
		if t.Type != symWS {
			toks = append(toks, t)
		}
	}

	var out []SemanticToken
	var heads []string
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch t.Type {
		case symCmt:
			out = appendToken(out, t.Pos, t.Value, tokComment, 0)
		case symPunct:
			switch t.Value {
			case "(":
				if i+1 < len(toks) && toks[i+1].Type == symIdent {
					heads = append(heads, toks[i+1].Value)
					out = appendToken(out, toks[i+1].Pos, toks[i+1].Value, tokKeyword, 0)
					i++
				} else {
					heads = append(heads, "")
				}
			case ")":
				if len(heads) > 0 {
					heads = heads[:len(heads)-1]
				}
			case "<":
				end := i
				for end < len(toks) && !(toks[end].Type == symPunct && toks[end].Value == ">") {
					end++
				}
				if end == len(toks) {
					return out
				}
				kind := tokNumber
				if i+1 < end && toks[i+1].Value == "#" {
					kind = tokMacro
				}
				out = appendSpan(out, text, t.Pos, toks[end].Pos.Offset+1, kind)
				i = end
			}
		case symIdent:
			if i+1 < len(toks) && toks[i+1].Value == "=" {
				out = appendToken(out, t.Pos, t.Value, tokProperty, 0)
				if i+2 < len(toks) {
					out = appendValue(out, text, toks[i+2], t.Value, current(heads))
					if toks[i+2].Type != symPunct {
						i += 2
					} else {
						i++
					}
				}
				continue
			}
			out = appendToken(out, t.Pos, t.Value, tokModifier, 0)
		case symInt:
			out = appendToken(out, t.Pos, t.Value, tokNumber, 0)
		case symString:
			out = appendSpan(out, text, t.Pos, t.Pos.Offset+len(t.Value), tokString)
		}
	}
	return out
}

func current(heads []string) string {
	if len(heads) == 0 {
		return ""
	}
	return heads[len(heads)-1]
}

func appendValue(out []SemanticToken, text string, t lexer.Token, key, head string) []SemanticToken {
	switch t.Type {
	case symInt:
		return appendToken(out, t.Pos, t.Value, tokNumber, 0)
	case symIdent:
		return appendToken(out, t.Pos, t.Value, tokEnumMember, 0)
	case symString:
	default:
		return out
	}

	kind, mods := tokString, 0
	switch key {
	case "type", "written", "class", "base":
		kind = tokType
	case "callee":
		kind = tokFunction
	case "member":
		kind = tokVariable
	case "macro":
		kind = tokMacro
	case "name":
		kind = tokVariable
		switch {
		case functionHeads[head]:
			kind, mods = tokFunction, modDeclaration
		case declHeads[head]:
			mods = modDeclaration
			if head == "record" || head == "typedef" || head == "enum" {
				kind = tokType
			} else if head == "enumerator" {
				kind = tokEnumMember
			}
		}
	}
	return appendSpanMods(out, text, t.Pos, t.Pos.Offset+len(t.Value), kind, mods)
}

func appendToken(out []SemanticToken, pos lexer.Position, value string, kind, mods int) []SemanticToken {
	line, err1 := safecast.Conv[uint32](pos.Line - 1)
	col, err2 := safecast.Conv[uint32](pos.Column - 1)
	n, err3 := safecast.Conv[uint32](utf16Len(value))
	if err1 != nil || err2 != nil || err3 != nil || n == 0 {
		return out
	}
	return append(out, SemanticToken{Line: line, StartChar: col, Length: n, TokenType: kind, TokenModifiers: mods})
}

func appendSpan(out []SemanticToken, text string, pos lexer.Position, end int, kind int) []SemanticToken {
	return appendSpanMods(out, text, pos, end, kind, 0)
}

// appendSpanMods highlights text[pos.Offset:end] as raw source, splitting
// it at line breaks.
func appendSpanMods(out []SemanticToken, text string, pos lexer.Position, end int, kind, mods int) []SemanticToken {
	if pos.Offset < 0 || end > len(text) || pos.Offset >= end {
		return out
	}
	for i, part := range strings.Split(text[pos.Offset:end], "\n") {
		p := pos
		if i > 0 {
			p.Line += i
			p.Column = 1
		}
		out = appendToken(out, p, strings.TrimSuffix(part, "\r"), kind, mods)
	}
	return out
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// EncodeSemanticTokens delta-encodes tokens for the LSP wire format.
func EncodeSemanticTokens(tokens []SemanticToken) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevStart uint32
	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		deltaStart := token.StartChar
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		}
		data = append(data, deltaLine, deltaStart, token.Length,
			uint32(token.TokenType), uint32(token.TokenModifiers)) // #nosec G115 -- small legend indexes
		prevLine = token.Line
		prevStart = token.StartChar
	}
	return data
}
