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

//go:generate stringer -type=TokenKind -output=tokenkind_string.go

package tagtext

// A Span is a contiguous byte range of the source passed to [Tokenize].
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes in the span.
func (span Span) Len() int {
	return span.End - span.Start
}

// Token is a single lexical element of tagged text.
// The fields that are meaningful depend on Kind.
type Token struct {
	Kind TokenKind
	// Span is the token's position in the source.
	// The spans of the tokens returned by [Tokenize]
	// cover the source exactly once, in order.
	Span Span

	// Name is the lowercased tag name
	// for [OpenTagKind] and [CloseTagKind] tokens,
	// or the username for [UserLinkKind] tokens.
	Name string
	// Value is the attribute value of an [OpenTagKind] token
	// when HasValue is true,
	// or the replacement text of a [SymbolKind] token.
	Value    string
	HasValue bool

	// User holds the presentation of a [UserLinkKind] token.
	User UserLink
	// Series holds the slots of a [SeriesNavKind] token.
	Series SeriesLinks
}

// Text returns the source text of the token.
func (tok Token) Text(source string) string {
	return source[tok.Span.Start:tok.Span.End]
}

// UserLink describes which parts of a user's profile link are shown.
type UserLink struct {
	Icon bool
	Name bool
}

// SeriesLinks holds the submission identifiers of a series navigation widget.
// An empty string means the slot has no link.
type SeriesLinks struct {
	Prev  string
	First string
	Next  string
}

// TokenKind is an enumeration of values used in [Token.Kind].
type TokenKind uint16

const (
	// TextKind is a run of literal text.
	TextKind TokenKind = 1 + iota
	// OpenTagKind is a tag opener like "[b]" or "[url=...]".
	OpenTagKind
	// CloseTagKind is a tag closer like "[/b]".
	CloseTagKind
	// UserLinkKind is a username shortcut like ":iconname:".
	UserLinkKind
	// HorizontalRuleKind is a run of five or more hyphens.
	HorizontalRuleKind
	// LineBreakKind is a CRLF, LF, or CR line terminator.
	LineBreakKind
	// ForcedLineBreakKind is U+2028 LINE SEPARATOR.
	ForcedLineBreakKind
	// ForcedParagraphBreakKind is U+2029 PARAGRAPH SEPARATOR.
	ForcedParagraphBreakKind
	// SymbolKind is a legal symbol shorthand like "(c)".
	SymbolKind
	// AutoLinkKind is a bare http or https URL.
	AutoLinkKind
	// SeriesNavKind is a series navigation triple like "[1, 2, -]".
	SeriesNavKind
)
