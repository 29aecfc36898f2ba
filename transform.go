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
	"fmt"

	"golang.org/x/net/html/atom"
)

// Tag is the closed set of tag names understood by the renderer.
type Tag uint8

const (
	B Tag = 1 + iota
	I
	U
	S
	Sub
	Sup
	Quote
	Left
	Center
	Right
	Color
	URL
)

var tagNames = [...]string{
	B:      "b",
	I:      "i",
	U:      "u",
	S:      "s",
	Sub:    "sub",
	Sup:    "sup",
	Quote:  "quote",
	Left:   "left",
	Center: "center",
	Right:  "right",
	Color:  "color",
	URL:    "url",
}

// LookupTag returns the tag with the given lowercase name.
func LookupTag(name string) (Tag, bool) {
	for t := B; t <= URL; t++ {
		if tagNames[t] == name {
			return t, true
		}
	}
	return 0, false
}

// String returns the tag's lowercase name.
func (t Tag) String() string {
	if t < B || t > URL {
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
	return tagNames[t]
}

// takesBareOpen reports whether the tag may be opened without an attribute,
// as in "[b]".
func (t Tag) takesBareOpen() bool {
	return B <= t && t <= Right
}

// takesAttribute reports whether the tag may be opened with an attribute,
// as in "[url=...]".
func (t Tag) takesAttribute() bool {
	return t == Color || t == Quote || t == URL
}

// transform produces the HTML that replaces a matched pair of tags.
// If the tag's attribute is not acceptable, transform returns ok = false
// and the tags must be rendered as their source text.
func (r *renderState) transform(t Tag, value string, hasValue bool) (start, end string, ok bool) {
	switch t {
	case B, I, U, S, Sub, Sup:
		a := inlineAtom(t)
		return "<" + a.String() + ">", "</" + a.String() + ">", true
	case Left, Center, Right:
		return `<div class="align-` + t.String() + `">`, "</" + atom.Div.String() + ">", true
	case Quote:
		start = "<" + atom.Blockquote.String() + ">"
		if hasValue && value != "" {
			start += "<header><cite>" + escapeContent(value) + "</cite> wrote:</header> "
		}
		return start, "</" + atom.Blockquote.String() + ">", true
	case URL:
		info := r.links().Classify(value)
		if !info.Allowed {
			return "", "", false
		}
		start = `<a href="` + escapeAttribute(value) + `"`
		if !info.Internal {
			start += ` rel="nofollow"`
		}
		return start + ">", "</" + atom.A.String() + ">", true
	case Color:
		css, ok := ParseColor(value)
		if !ok {
			return "", "", false
		}
		return `<span style="color: ` + escapeAttribute(css) + `;">`, "</" + atom.Span.String() + ">", true
	default:
		panic(fmt.Sprintf("transform: unhandled tag %v", t))
	}
}

func inlineAtom(t Tag) atom.Atom {
	switch t {
	case B:
		return atom.B
	case I:
		return atom.I
	case U:
		return atom.U
	case S:
		return atom.S
	case Sub:
		return atom.Sub
	case Sup:
		return atom.Sup
	default:
		panic("unreachable")
	}
}
