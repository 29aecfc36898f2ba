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

// Package htmlcheck inspects rendered HTML fragments
// for structural properties that tests rely on.
package htmlcheck

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// An Element is a start tag found in a fragment.
type Element struct {
	Name  string
	Attrs map[string]string
}

// Elements returns the start tags in the HTML fragment b, in order.
// Attribute values are unescaped.
func Elements(b []byte) ([]Element, error) {
	tok := html.NewTokenizerFragment(bytes.NewReader(b), "div")
	var elems []Element
	for {
		switch tok.Next() {
		case html.ErrorToken:
			if err := tok.Err(); !errors.Is(err, io.EOF) {
				return elems, err
			}
			return elems, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tok.TagName()
			elem := Element{Name: string(name)}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = tok.TagAttr()
				if elem.Attrs == nil {
					elem.Attrs = make(map[string]string)
				}
				elem.Attrs[string(k)] = string(v)
			}
			elems = append(elems, elem)
		}
	}
}

// Balanced returns an error if an element in the HTML fragment b
// is left open, is closed out of order, or is closed without being opened.
// Void elements like <br> do not need to be closed.
func Balanced(b []byte) error {
	tok := html.NewTokenizerFragment(bytes.NewReader(b), "div")
	var stack []string
	for {
		switch tok.Next() {
		case html.ErrorToken:
			if err := tok.Err(); !errors.Is(err, io.EOF) {
				return err
			}
			if len(stack) > 0 {
				return fmt.Errorf("<%s> is never closed", stack[len(stack)-1])
			}
			return nil
		case html.StartTagToken:
			name, _ := tok.TagName()
			if isVoid(name) {
				continue
			}
			stack = append(stack, string(name))
		case html.EndTagToken:
			name, _ := tok.TagName()
			if len(stack) == 0 {
				return fmt.Errorf("</%s> closes nothing", name)
			}
			if top := stack[len(stack)-1]; top != string(name) {
				return fmt.Errorf("</%s> closes <%s>", name, top)
			}
			stack = stack[:len(stack)-1]
		}
	}
}

// Text returns the unescaped text content of the HTML fragment b,
// ignoring all tags.
func Text(b []byte) string {
	tok := html.NewTokenizerFragment(bytes.NewReader(b), "div")
	sb := new(strings.Builder)
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(tok.Text())
		}
	}
}

func isVoid(name []byte) bool {
	switch atom.Lookup(name) {
	case atom.Br, atom.Hr, atom.Img, atom.Wbr, atom.Input, atom.Meta, atom.Link:
		return true
	default:
		return false
	}
}
