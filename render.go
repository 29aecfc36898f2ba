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

// Package tagtext converts tagged text, a bracketed markup language
// used in user-submitted comments and descriptions, to HTML.
//
// The markup covers inline styles ("[b]bold[/b]"), alignment, quotes,
// links ("[url=https://example.com/]text[/url]"), colors,
// username shortcuts (":iconname:"), symbols ("(c)"),
// bare URLs, horizontal rules, and series navigation ("[1,-,3]").
// Everything else is treated as text and escaped.
package tagtext

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/atom"
)

// An HTMLRenderer converts tagged text into an HTML fragment.
// The zero value is ready to use.
//
// # Security considerations
//
// Tagged text is assumed to come from untrusted users.
// The renderer only ever emits a fixed set of elements and attributes.
// All text from the source is escaped,
// and link targets are restricted to an allow-list of schemes
// (see [LinkClassifier]).
// Markup that cannot be rendered safely,
// like a link with a disallowed scheme or an invalid color,
// is rendered as its source text.
//
// # Overlapping tags
//
// Tags in the source do not have to nest properly.
// When a tag is closed while tags opened after it are still open,
// those tags are closed just before the closing element
// and reopened just after it,
// so every element in the output is balanced.
// For example, "[b]foo [i]bar[/b] baz[/i]" renders as
// "<b>foo <i>bar</i></b><i> baz</i>".
//
// Each closing tag may split every tag still open above it,
// so the cost of rendering is O(t²) in the worst case,
// where t is the number of tags in the source.
// Callers accepting arbitrary input should bound its size.
type HTMLRenderer struct {
	// If AutomaticParagraphs is true,
	// the output is wrapped in paragraphs
	// and a blank line (two or more consecutive line breaks)
	// starts a new paragraph.
	AutomaticParagraphs bool
	// Links classifies link targets.
	// If Links is nil, only relative links are considered internal.
	Links *LinkClassifier
}

// RenderHTML renders tagged text as HTML
// using the default options for [HTMLRenderer].
func RenderHTML(source string) string {
	return new(HTMLRenderer).RenderString(source)
}

// Render writes the rendered HTML of source to w.
func (r *HTMLRenderer) Render(w io.Writer, source string) error {
	if _, err := w.Write(r.AppendHTML(nil, source)); err != nil {
		return fmt.Errorf("render tagged text to html: %w", err)
	}
	return nil
}

// RenderString returns the rendered HTML of source.
func (r *HTMLRenderer) RenderString(source string) string {
	return string(r.AppendHTML(nil, source))
}

// AppendHTML appends the rendered HTML of source to dst
// and returns the resulting byte slice.
func (r *HTMLRenderer) AppendHTML(dst []byte, source string) []byte {
	state := &renderState{
		HTMLRenderer: r,
		source:       source,
		paragraph:    -1,
		lastContent:  -1,
	}
	state.render(Tokenize(source))
	for _, n := range state.nodes {
		dst = append(dst, n...)
	}
	return dst
}

type renderState struct {
	*HTMLRenderer
	source string

	// nodes is the output so far, in order.
	// A node may be empty, either because it is a slot
	// reserved for a fragment of a split tag,
	// or because it was dropped.
	nodes []string
	// stack is the list of open tags in the order they were opened.
	stack []openTag

	// paragraph is the index of the most recent "<p>" node,
	// or -1 if AutomaticParagraphs is false.
	paragraph int
	// lastContent is the index of the last node that was not a slot.
	lastContent int
}

// openTag is an entry on the open tag stack.
type openTag struct {
	tag   Tag
	token Token
	// opening is the index of the node
	// holding the tag's source text until it is closed.
	opening int
	// boundaries is the list of places
	// where the tag's scope was cut by the closing of an earlier tag.
	boundaries []boundary
}

// boundary is a pair of slots reserved at a cut in a tag's scope.
type boundary struct {
	// close is the slot for the tag's end fragment.
	close int
	// reopen is the slot for the tag's start fragment.
	reopen int
}

// push appends a node and returns its index.
func (r *renderState) push(s string) int {
	r.nodes = append(r.nodes, s)
	r.lastContent = len(r.nodes) - 1
	return r.lastContent
}

func (r *renderState) links() *LinkClassifier {
	if r.Links == nil {
		return defaultLinkClassifier
	}
	return r.Links
}

func (r *renderState) render(tokens []Token) {
	if r.AutomaticParagraphs {
		r.paragraph = r.push("<" + atom.P.String() + ">")
	}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Kind {
		case TextKind:
			r.push(escapeContent(tok.Text(r.source)))
		case SymbolKind:
			r.push(tok.Value)
		case AutoLinkKind:
			r.push(r.autoLink(tok.Text(r.source)))
		case UserLinkKind:
			r.push(userLinkHTML(tok.Name, tok.User))
		case HorizontalRuleKind:
			r.push("<" + atom.Hr.String() + ">")
		case SeriesNavKind:
			r.push(seriesNavHTML(tok.Series))
		case OpenTagKind:
			r.openTag(tok)
		case CloseTagKind:
			r.closeTag(tok)
		case LineBreakKind:
			if !r.AutomaticParagraphs {
				r.push(lineBreakHTML)
				continue
			}
			n := 1
			for i+n < len(tokens) && tokens[i+n].Kind == LineBreakKind {
				n++
			}
			i += n - 1
			if n == 1 {
				r.push(lineBreakHTML)
			} else {
				r.paragraphBreak(n - 2)
			}
		case ForcedLineBreakKind:
			r.push(lineBreakHTML)
		case ForcedParagraphBreakKind:
			if r.AutomaticParagraphs {
				r.paragraphBreak(0)
			} else {
				r.push(lineBreakHTML)
			}
		default:
			panic(fmt.Sprintf("render: unknown token kind %v", tok.Kind))
		}
	}

	if r.AutomaticParagraphs {
		if r.lastContent == r.paragraph {
			// Nothing follows the last paragraph's start.
			r.nodes[r.paragraph] = ""
		} else {
			r.push("</" + atom.P.String() + ">")
		}
	}
}

const lineBreakHTML = "<br>"

func (r *renderState) openTag(tok Token) {
	t, ok := LookupTag(tok.Name)
	if !ok {
		panic(fmt.Sprintf("render: open tag %q not in vocabulary", tok.Name))
	}
	r.stack = append(r.stack, openTag{
		tag:     t,
		token:   tok,
		opening: r.push(escapeContent(tok.Text(r.source))),
	})
}

// findOpen returns the index of the most recently opened tag t
// on the stack, or -1 if t is not open.
// The stack is searched linearly,
// since realistic nesting depth is small.
func (r *renderState) findOpen(t Tag) int {
	for i := len(r.stack) - 1; i >= 0; i-- {
		if r.stack[i].tag == t {
			return i
		}
	}
	return -1
}

func (r *renderState) closeTag(tok Token) {
	closeText := escapeContent(tok.Text(r.source))
	t, ok := LookupTag(tok.Name)
	if !ok {
		panic(fmt.Sprintf("render: close tag %q not in vocabulary", tok.Name))
	}
	p := r.findOpen(t)
	if p < 0 {
		r.push(closeText)
		return
	}
	entry := r.stack[p]
	r.stack = append(r.stack[:p], r.stack[p+1:]...)

	// Tags opened after entry and still open are now r.stack[p:].
	// Their scope is cut at the closing node.
	closeSlots := r.reserveCloseSlots(p)
	closing := r.push("")
	start, end, ok := r.transform(entry.tag, entry.token.Value, entry.token.HasValue)
	if ok {
		r.nodes[entry.opening] = start
		r.nodes[closing] = end
	} else {
		r.nodes[closing] = closeText
	}
	r.reserveReopenSlots(p, closeSlots)

	if !ok {
		return
	}
	for _, b := range entry.boundaries {
		r.nodes[b.close] = end
		r.nodes[b.reopen] = start
	}
}

// paragraphBreak ends the current paragraph and starts a new one,
// with the given number of line breaks in between.
// Every open tag is cut at the break.
func (r *renderState) paragraphBreak(lineBreaks int) {
	closeSlots := r.reserveCloseSlots(0)
	r.push("</" + atom.P.String() + ">" + strings.Repeat(lineBreakHTML, lineBreaks))
	r.paragraph = r.push("<" + atom.P.String() + ">")
	r.reserveReopenSlots(0, closeSlots)
}

// reserveCloseSlots appends an empty node for every tag in r.stack[from:]
// and returns the index of the first one.
// The slots are in reverse stack order,
// so the most recently opened tag is closed first.
func (r *renderState) reserveCloseSlots(from int) int {
	first := len(r.nodes)
	for range r.stack[from:] {
		r.nodes = append(r.nodes, "")
	}
	return first
}

// reserveReopenSlots appends an empty node for every tag in r.stack[from:],
// in stack order,
// and records a boundary for each tag
// pairing the new slot with its slot from reserveCloseSlots.
func (r *renderState) reserveReopenSlots(from int, closeSlots int) {
	above := r.stack[from:]
	for i := range above {
		above[i].boundaries = append(above[i].boundaries, boundary{
			close:  closeSlots + len(above) - 1 - i,
			reopen: len(r.nodes),
		})
		r.nodes = append(r.nodes, "")
	}
}

func (r *renderState) autoLink(uri string) string {
	info := r.links().Classify(uri)
	if !info.Allowed {
		return escapeContent(uri)
	}
	return anchorStart(uri, !info.Internal) + escapeContent(uri) + "</a>"
}

func anchorStart(href string, nofollow bool) string {
	s := `<a href="` + escapeAttribute(href) + `"`
	if nofollow {
		s += ` rel="nofollow"`
	}
	return s + ">"
}

// userLinkHTML renders a link to a user's profile.
func userLinkHTML(name string, user UserLink) string {
	sb := new(strings.Builder)
	sb.WriteString(anchorStart("/users/"+name+"/", false))
	if user.Icon {
		sb.WriteString(`<img src="`)
		sb.WriteString(escapeAttribute("/users/" + name + "/image"))
		sb.WriteString(`">`)
	}
	if user.Icon && user.Name {
		sb.WriteString(" ")
	}
	if user.Name {
		sb.WriteString(escapeContent(name))
	}
	sb.WriteString("</a>")
	return sb.String()
}

// seriesNavHTML renders the previous/first/next links of a series.
func seriesNavHTML(series SeriesLinks) string {
	slots := [...]struct {
		label string
		id    string
	}{
		{"<<< PREV", series.Prev},
		{"FIRST", series.First},
		{"NEXT >>>", series.Next},
	}
	sb := new(strings.Builder)
	for i, slot := range slots {
		if i > 0 {
			sb.WriteString(" | ")
		}
		if slot.id == "" {
			sb.WriteString(escapeContent(slot.label))
			continue
		}
		sb.WriteString(anchorStart("/submissions/"+slot.id, false))
		sb.WriteString(escapeContent(slot.label))
		sb.WriteString("</a>")
	}
	return sb.String()
}
