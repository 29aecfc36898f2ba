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
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"zombiezen.com/go/tagtext/internal/examples"
	"zombiezen.com/go/tagtext/internal/htmlcheck"
)

func TestExamples(t *testing.T) {
	exs, err := examples.Load()
	if err != nil {
		t.Fatal(err)
	}
	for _, ex := range exs {
		t.Run(ex.Name, func(t *testing.T) {
			r := &HTMLRenderer{AutomaticParagraphs: ex.AutomaticParagraphs}
			got := r.RenderString(ex.Input)
			if diff := cmp.Diff(ex.HTML, got); diff != "" {
				t.Errorf("Input:\n%s\nOutput (-want +got):\n%s", ex.Input, diff)
			}
		})
	}
}

func TestRenderHTML(t *testing.T) {
	tests := []struct {
		name     string
		renderer HTMLRenderer
		input    string
		want     string
	}{
		{
			name:  "Empty",
			input: "",
			want:  "",
		},
		{
			name:     "EmptyParagraphs",
			renderer: HTMLRenderer{AutomaticParagraphs: true},
			input:    "",
			want:     "",
		},
		{
			name:  "Escaping",
			input: `a < b & "c"`,
			want:  `a &lt; b &amp; "c"`,
		},
		{
			name:  "CaseInsensitiveTags",
			input: "[B]x[/b]",
			want:  "<b>x</b>",
		},
		{
			name:  "UnclosedTag",
			input: "[b]bold",
			want:  "[b]bold",
		},
		{
			name:  "UnmatchedCloseKeepsCase",
			input: "[/B]",
			want:  "[/B]",
		},
		{
			name:  "QuoteAuthorEscaped",
			input: `[quote="<me>"]hi[/quote]`,
			want:  "<blockquote><header><cite>&lt;me&gt;</cite> wrote:</header> hi</blockquote>",
		},
		{
			name:  "FailedTagInsideSplit",
			input: "[b][url=javascript:x]a[/b]b[/url]",
			want:  "<b>[url=javascript:x]a</b>b[/url]",
		},
		{
			name:  "FailedCloseSplitsTagsAbove",
			input: "[url=javascript:x][b]a[/url]b[/b]",
			want:  "[url=javascript:x]<b>a</b>[/url]<b>b</b>",
		},
		{
			name:  "LineBreaksWithoutParagraphs",
			input: "a\n\nb\u2029c",
			want:  "a<br><br>b<br>c",
		},
		{
			name:     "TagAcrossParagraphs",
			renderer: HTMLRenderer{AutomaticParagraphs: true},
			input:    "[b]a\n\nb[/b]",
			want:     "<p><b>a</b></p><p><b>b</b></p>",
		},
		{
			name:     "UnclosedTagAcrossParagraphs",
			renderer: HTMLRenderer{AutomaticParagraphs: true},
			input:    "[b]a\n\nb",
			want:     "<p>[b]a</p><p>b</p>",
		},
		{
			name:     "TrailingParagraphBreak",
			renderer: HTMLRenderer{AutomaticParagraphs: true},
			input:    "a\n\n",
			want:     "<p>a</p>",
		},
		{
			name: "InternalDomain",
			renderer: HTMLRenderer{
				Links: &LinkClassifier{InternalDomains: []string{"example.net"}},
			},
			input: "[url=https://example.net/x]x[/url] https://www.example.net/y",
			want:  `<a href="https://example.net/x">x</a> <a href="https://www.example.net/y">https://www.example.net/y</a>`,
		},
		{
			name:  "AutoLinkInsideLink",
			input: "[url=/a]http://b.example/[/url]",
			want:  `<a href="/a"><a href="http://b.example/" rel="nofollow">http://b.example/</a></a>`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := test.renderer.RenderString(test.input)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Input:\n%s\nOutput (-want +got):\n%s", test.input, diff)
			}
		})
	}
}

func TestAppendHTML(t *testing.T) {
	got := string(new(HTMLRenderer).AppendHTML([]byte("prefix:"), "[i]x[/i]"))
	if want := "prefix:<i>x</i>"; got != want {
		t.Errorf("AppendHTML(\"prefix:\", ...) = %q; want %q", got, want)
	}
}

var errWrite = errors.New("bork")

type errWriter struct{}

func (errWriter) Write(p []byte) (int, error) {
	return 0, errWrite
}

func TestRenderWriteError(t *testing.T) {
	err := new(HTMLRenderer).Render(errWriter{}, "x")
	if !errors.Is(err, errWrite) {
		t.Errorf("Render(...) = %v; want %v", err, errWrite)
	}
}

// wellNested generates a properly nested document of simple tags
// along with its expected rendering.
func wellNested(rng *rand.Rand, depth int) (input, want string) {
	sb := new(strings.Builder)
	wantBuilder := new(strings.Builder)
	n := rng.IntN(4)
	for i := 0; i < n; i++ {
		if depth > 0 && rng.IntN(2) == 0 {
			tag := Tag(1 + rng.IntN(int(Sup)))
			innerInput, innerWant := wellNested(rng, depth-1)
			sb.WriteString("[" + tag.String() + "]" + innerInput + "[/" + tag.String() + "]")
			wantBuilder.WriteString("<" + tag.String() + ">" + innerWant + "</" + tag.String() + ">")
			continue
		}
		word := [...]string{"foo", "bar", " ", "a&b", "1 < 2"}[rng.IntN(5)]
		sb.WriteString(word)
		wantBuilder.WriteString(escapeContent(word))
	}
	return sb.String(), wantBuilder.String()
}

func TestRenderWellNested(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		input, want := wellNested(rng, 4)
		if got := RenderHTML(input); got != want {
			t.Errorf("RenderHTML(%q) = %q; want %q", input, got, want)
		}
	}
}

var randomPieces = []string{
	"[b]", "[/b]", "[i]", "[/i]", "[s]", "[/s]",
	"[url=http://example.com/]", "[url=javascript:x]", "[/url]",
	"[color=red]", "[color=nope]", "[/color]",
	"[quote=someone]", "[quote]", "[/quote]",
	"[center]", "[/center]",
	"text", " ", "<&>", "\n", "\n\n", "\u2028", "\u2029",
	":iconfoo:", "http://example.com/x", "(c)", "[1,-,3]", "-----",
}

func TestRenderRandomIsBalanced(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 1000; i++ {
		sb := new(strings.Builder)
		for n := rng.IntN(30); n > 0; n-- {
			sb.WriteString(randomPieces[rng.IntN(len(randomPieces))])
		}
		input := sb.String()
		for _, r := range []*HTMLRenderer{{}, {AutomaticParagraphs: true}} {
			checkHTML(t, input, r.AppendHTML(nil, input))
		}
	}
}

func TestRenderManyOverlaps(t *testing.T) {
	n := 300
	if testing.Short() {
		n = 50
	}
	input := strings.Repeat("[b]", n) + strings.Repeat("[i]", n) +
		strings.Repeat("[/b]", n) + strings.Repeat("[/i]", n)
	got := new(HTMLRenderer).AppendHTML(nil, input)
	if err := htmlcheck.Balanced(got); err != nil {
		t.Fatal(err)
	}
	if text := htmlcheck.Text(got); text != "" {
		t.Errorf("text content = %q; want \"\"", text)
	}
}

// allowedAttrs is the set of elements the renderer may produce
// and the attributes each may have.
var allowedAttrs = map[string][]string{
	"a":          {"href", "rel"},
	"b":          nil,
	"blockquote": nil,
	"br":         nil,
	"cite":       nil,
	"div":        {"class"},
	"header":     nil,
	"hr":         nil,
	"i":          nil,
	"img":        {"src"},
	"p":          nil,
	"s":          nil,
	"span":       {"style"},
	"sub":        nil,
	"sup":        nil,
	"u":          nil,
}

func checkHTML(tb testing.TB, input string, output []byte) {
	tb.Helper()
	if err := htmlcheck.Balanced(output); err != nil {
		tb.Errorf("Input: %q\nOutput: %q\n%v", input, output, err)
	}
	elems, err := htmlcheck.Elements(output)
	if err != nil {
		tb.Errorf("Input: %q\nOutput: %q\n%v", input, output, err)
	}
	for _, elem := range elems {
		attrs, ok := allowedAttrs[elem.Name]
		if !ok {
			tb.Errorf("Input: %q\nOutput: %q\nunexpected <%s>", input, output, elem.Name)
			continue
		}
	attrLoop:
		for k, v := range elem.Attrs {
			for _, allowed := range attrs {
				if k == allowed {
					if k == "href" && !ClassifyLink(v).Allowed {
						tb.Errorf("Input: %q\nOutput: %q\nunsafe link %q", input, output, v)
					}
					continue attrLoop
				}
			}
			tb.Errorf("Input: %q\nOutput: %q\nunexpected attribute %s on <%s>", input, output, k, elem.Name)
		}
	}
}

func FuzzRenderHTML(f *testing.F) {
	exs, err := examples.Load()
	if err != nil {
		f.Fatal(err)
	}
	for _, ex := range exs {
		f.Add(ex.Input, ex.AutomaticParagraphs)
	}

	f.Fuzz(func(t *testing.T, input string, automaticParagraphs bool) {
		r := &HTMLRenderer{AutomaticParagraphs: automaticParagraphs}
		checkHTML(t, input, r.AppendHTML(nil, input))
	})
}

func BenchmarkRenderHTML(b *testing.B) {
	b.Run("Examples", func(b *testing.B) {
		exs, err := examples.Load()
		if err != nil {
			b.Fatal(err)
		}
		input := new(strings.Builder)
		for i, ex := range exs {
			if i > 0 {
				input.WriteString("\n\n")
			}
			input.WriteString(ex.Input)
		}
		source := input.String()
		r := &HTMLRenderer{AutomaticParagraphs: true}
		b.ResetTimer()
		b.SetBytes(int64(len(source)))
		b.ReportMetric(float64(len(exs)), "examples/op")

		var buf []byte
		for i := 0; i < b.N; i++ {
			buf = r.AppendHTML(buf[:0], source)
		}
	})

	b.Run("Overlapping", func(b *testing.B) {
		source := strings.Repeat("[b]x [i]y[/b] z[/i] ", 200)
		b.ResetTimer()
		b.SetBytes(int64(len(source)))

		var buf []byte
		for i := 0; i < b.N; i++ {
			buf = new(HTMLRenderer).AppendHTML(buf[:0], source)
		}
	})
}
