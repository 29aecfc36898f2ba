// Copyright 2024 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package tagtext

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

const (
	lineSeparator      = '\u2028'
	paragraphSeparator = '\u2029'

	// minRuleLength is the number of hyphens that form a horizontal rule.
	minRuleLength = 5
)

// Tokenize splits tagged text into tokens.
// Tokenize never fails:
// anything that is not recognized as markup becomes a [TextKind] token.
// Adjacent text is merged into a single token.
func Tokenize(source string) []Token {
	l := &lexer{
		source: source,
		fold:   cases.Fold(),
	}
	textStart := -1
	for l.pos < len(l.source) {
		tok, ok := l.markup()
		if !ok {
			if textStart < 0 {
				textStart = l.pos
			}
			l.pos = l.textEnd()
			continue
		}
		if textStart >= 0 {
			l.emitText(textStart, tok.Span.Start)
			textStart = -1
		}
		l.tokens = append(l.tokens, tok)
		l.pos = tok.Span.End
	}
	if textStart >= 0 {
		l.emitText(textStart, len(l.source))
	}
	return l.tokens
}

type lexer struct {
	source string
	pos    int
	tokens []Token
	fold   cases.Caser
}

func (l *lexer) emitText(start, end int) {
	l.tokens = append(l.tokens, Token{
		Kind: TextKind,
		Span: Span{Start: start, End: end},
	})
}

// isTrigger reports whether a markup rule can start with the byte c.
func isTrigger(c byte) bool {
	switch c {
	case '[', ':', '-', '\r', '\n', '(', 'h', 'H':
		return true
	case 0xe2:
		// Leading byte of U+2028 and U+2029.
		return true
	default:
		return false
	}
}

// textEnd returns the end of the text run starting at l.pos.
// The run is at least one character long.
func (l *lexer) textEnd() int {
	_, n := utf8.DecodeRuneInString(l.source[l.pos:])
	i := l.pos + n
	for i < len(l.source) && !isTrigger(l.source[i]) {
		i++
	}
	return i
}

// markup attempts to match a markup rule at l.pos.
// Rules are tried in priority order.
func (l *lexer) markup() (Token, bool) {
	switch c := l.source[l.pos]; c {
	case '[':
		if tok, ok := l.bareOpenTag(); ok {
			return tok, true
		}
		if tok, ok := l.closeTag(); ok {
			return tok, true
		}
		if tok, ok := l.attributeOpenTag(); ok {
			return tok, true
		}
		return l.seriesNav()
	case ':':
		return l.userLink()
	case '-', '\r', '\n':
		if tok, ok := l.horizontalRule(); ok {
			return tok, true
		}
		return l.lineBreak()
	case '(':
		return l.symbol()
	case 'h', 'H':
		return l.autoLink()
	case 0xe2:
		return l.lineBreak()
	default:
		return Token{}, false
	}
}

// tagName returns the run of ASCII letters starting at i, lowercased,
// and the offset just past it.
func (l *lexer) tagName(i int) (name string, end int) {
	end = i
	for end < len(l.source) && isASCIILetter(l.source[end]) {
		end++
	}
	return l.fold.String(l.source[i:end]), end
}

func (l *lexer) bareOpenTag() (Token, bool) {
	name, end := l.tagName(l.pos + 1)
	if end >= len(l.source) || l.source[end] != ']' {
		return Token{}, false
	}
	if t, ok := LookupTag(name); !ok || !t.takesBareOpen() {
		return Token{}, false
	}
	return Token{
		Kind: OpenTagKind,
		Span: Span{Start: l.pos, End: end + 1},
		Name: name,
	}, true
}

func (l *lexer) closeTag() (Token, bool) {
	if !strings.HasPrefix(l.source[l.pos:], "[/") {
		return Token{}, false
	}
	name, end := l.tagName(l.pos + len("[/"))
	if end >= len(l.source) || l.source[end] != ']' {
		return Token{}, false
	}
	if _, ok := LookupTag(name); !ok {
		return Token{}, false
	}
	return Token{
		Kind: CloseTagKind,
		Span: Span{Start: l.pos, End: end + 1},
		Name: name,
	}, true
}

// attributeOpenTag matches an opener like [url=...].
// The value is either a non-empty double-quoted string
// taken verbatim, or the shortest run of non-space characters
// before a closing bracket.
func (l *lexer) attributeOpenTag() (Token, bool) {
	name, end := l.tagName(l.pos + 1)
	if end >= len(l.source) || l.source[end] != '=' {
		return Token{}, false
	}
	if t, ok := LookupTag(name); !ok || !t.takesAttribute() {
		return Token{}, false
	}
	valueStart := end + 1
	tok := Token{
		Kind:     OpenTagKind,
		Name:     name,
		HasValue: true,
	}

	if rest := l.source[valueStart:]; strings.HasPrefix(rest, `"`) {
		if n := strings.IndexByte(rest[1:], '"'); n > 0 {
			closeQuote := valueStart + 1 + n
			if closeQuote+1 < len(l.source) && l.source[closeQuote+1] == ']' {
				tok.Value = l.source[valueStart+1 : closeQuote]
				tok.Span = Span{Start: l.pos, End: closeQuote + 2}
				return tok, true
			}
		}
	}

	for i := valueStart; i < len(l.source); {
		c, n := utf8.DecodeRuneInString(l.source[i:])
		if c == ']' {
			tok.Value = l.source[valueStart:i]
			tok.Span = Span{Start: l.pos, End: i + 1}
			return tok, true
		}
		if unicode.IsSpace(c) {
			break
		}
		i += n
	}
	return Token{}, false
}

// seriesNav matches a triple like "[12, -, 14]".
func (l *lexer) seriesNav() (Token, bool) {
	var slots [3]string
	i := l.pos + 1
	for n := range slots {
		if n > 0 {
			i = l.skipSpace(i)
			if i >= len(l.source) || l.source[i] != ',' {
				return Token{}, false
			}
			i++
		}
		i = l.skipSpace(i)
		start := i
		switch {
		case i < len(l.source) && l.source[i] == '-':
			i++
		case i < len(l.source) && isASCIIDigit(l.source[i]):
			for i < len(l.source) && isASCIIDigit(l.source[i]) {
				i++
			}
			slots[n] = l.source[start:i]
		default:
			return Token{}, false
		}
	}
	i = l.skipSpace(i)
	if i >= len(l.source) || l.source[i] != ']' {
		return Token{}, false
	}
	return Token{
		Kind: SeriesNavKind,
		Span: Span{Start: l.pos, End: i + 1},
		Series: SeriesLinks{
			Prev:  slots[0],
			First: slots[1],
			Next:  slots[2],
		},
	}, true
}

func (l *lexer) skipSpace(i int) int {
	for i < len(l.source) {
		c, n := utf8.DecodeRuneInString(l.source[i:])
		if !unicode.IsSpace(c) {
			break
		}
		i += n
	}
	return i
}

// userLink matches the username shortcuts
// ":iconNAME:", ":linkNAME:", and ":NAMEicon:".
func (l *lexer) userLink() (Token, bool) {
	nameStart := l.pos + 1
	nameEnd := nameStart
	for nameEnd < len(l.source) && isUsernameChar(l.source[nameEnd]) {
		nameEnd++
	}
	if nameEnd >= len(l.source) || l.source[nameEnd] != ':' {
		return Token{}, false
	}
	const keywordLen = len("icon")
	run := l.source[nameStart:nameEnd]
	if len(run) <= keywordLen {
		return Token{}, false
	}
	tok := Token{
		Kind: UserLinkKind,
		Span: Span{Start: l.pos, End: nameEnd + 1},
	}
	switch prefix := l.fold.String(run[:keywordLen]); prefix {
	case "icon":
		tok.Name = run[keywordLen:]
		tok.User = UserLink{Icon: true, Name: true}
		return tok, true
	case "link":
		tok.Name = run[keywordLen:]
		tok.User = UserLink{Name: true}
		return tok, true
	}
	if l.fold.String(run[len(run)-keywordLen:]) == "icon" {
		tok.Name = run[:len(run)-keywordLen]
		tok.User = UserLink{Icon: true}
		return tok, true
	}
	return Token{}, false
}

// horizontalRule matches a run of hyphens,
// along with one line terminator on either side.
func (l *lexer) horizontalRule() (Token, bool) {
	i := l.skipLineTerminator(l.pos)
	dashStart := i
	for i < len(l.source) && l.source[i] == '-' {
		i++
	}
	if i-dashStart < minRuleLength {
		return Token{}, false
	}
	i = l.skipLineTerminator(i)
	return Token{
		Kind: HorizontalRuleKind,
		Span: Span{Start: l.pos, End: i},
	}, true
}

// skipLineTerminator skips an optional CR followed by an optional LF.
func (l *lexer) skipLineTerminator(i int) int {
	if i < len(l.source) && l.source[i] == '\r' {
		i++
	}
	if i < len(l.source) && l.source[i] == '\n' {
		i++
	}
	return i
}

func (l *lexer) lineBreak() (Token, bool) {
	tok := Token{Kind: LineBreakKind}
	switch c, n := utf8.DecodeRuneInString(l.source[l.pos:]); c {
	case '\r':
		tok.Span = Span{Start: l.pos, End: l.skipLineTerminator(l.pos)}
	case '\n':
		tok.Span = Span{Start: l.pos, End: l.pos + n}
	case lineSeparator:
		tok.Kind = ForcedLineBreakKind
		tok.Span = Span{Start: l.pos, End: l.pos + n}
	case paragraphSeparator:
		tok.Kind = ForcedParagraphBreakKind
		tok.Span = Span{Start: l.pos, End: l.pos + n}
	default:
		return Token{}, false
	}
	return tok, true
}

var symbols = []struct {
	shorthand   string
	replacement string
}{
	{"(c)", "©"},
	{"(r)", "®"},
	{"(tm)", "™"},
}

func (l *lexer) symbol() (Token, bool) {
	rest := l.source[l.pos:]
	for _, sym := range symbols {
		if len(rest) >= len(sym.shorthand) && strings.EqualFold(rest[:len(sym.shorthand)], sym.shorthand) {
			return Token{
				Kind:  SymbolKind,
				Span:  Span{Start: l.pos, End: l.pos + len(sym.shorthand)},
				Value: sym.replacement,
			}, true
		}
	}
	return Token{}, false
}

// autoLink matches a bare http or https URL.
// The URL ends at whitespace or a bracket.
// Sentence punctuation (".", "?", "!") is only part of the URL
// if a word character follows it.
func (l *lexer) autoLink() (Token, bool) {
	if prev, _ := utf8.DecodeLastRuneInString(l.source[:l.pos]); l.pos > 0 && isWordRune(prev) {
		return Token{}, false
	}
	rest := l.source[l.pos:]
	var bodyStart int
	switch {
	case hasFoldPrefix(rest, "http://"):
		bodyStart = l.pos + len("http://")
	case hasFoldPrefix(rest, "https://"):
		bodyStart = l.pos + len("https://")
	default:
		return Token{}, false
	}

	end := bodyStart
	for i := bodyStart; i < len(l.source); {
		c, n := utf8.DecodeRuneInString(l.source[i:])
		if unicode.IsSpace(c) || isLinkTerminator(c) {
			break
		}
		if isSentencePunct(c) {
			j := i
			for j < len(l.source) && isSentencePunct(rune(l.source[j])) {
				j++
			}
			next, _ := utf8.DecodeRuneInString(l.source[j:])
			if j >= len(l.source) || !isWordRune(next) {
				break
			}
			i = j
			continue
		}
		i += n
		end = i
	}
	if end == bodyStart {
		return Token{}, false
	}
	return Token{
		Kind: AutoLinkKind,
		Span: Span{Start: l.pos, End: end},
	}, true
}

func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func isLinkTerminator(c rune) bool {
	return c == '[' || c == ']' || c == '<' || c == '>' || c == '"'
}

func isSentencePunct(c rune) bool {
	return c == '.' || c == '?' || c == '!'
}

func isWordRune(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

func isUsernameChar(c byte) bool {
	return c == '_' || c == '-' || isASCIILetter(c) || isASCIIDigit(c)
}

func isASCIILetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
