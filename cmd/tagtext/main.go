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
// tagtext converts tagged text to HTML.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/version"
	"zombiezen.com/go/tagtext"
)

const defaultMaxSize = 1 << 20

func init() {
	version.SetDefaultModule("zombiezen.com/go/tagtext")
}

type options struct {
	renderer tagtext.HTMLRenderer
	maxSize  int64
	tokens   bool
}

func main() {
	var (
		opts            options
		internalDomains []string
		outPath         string
		showVersion     bool
	)
	flags := pflag.NewFlagSet("tagtext", pflag.ExitOnError)
	flags.BoolVarP(&opts.renderer.AutomaticParagraphs, "paragraphs", "p", false, "Wrap output in paragraphs and turn blank lines into paragraph breaks")
	flags.StringArrayVarP(&internalDomains, "internal-domain", "d", nil, "Domain whose links are not marked nofollow (repeatable)")
	flags.StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")
	flags.Int64Var(&opts.maxSize, "max-size", defaultMaxSize, "Maximum input size in bytes")
	flags.BoolVar(&opts.tokens, "tokens", false, "Print the token stream instead of HTML")
	flags.BoolVar(&showVersion, "version", false, "Print version and exit")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: tagtext [flags] [inputs...]\n")
		fmt.Fprintln(os.Stderr, "\nIf no input is provided, tagged text is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if showVersion {
		fmt.Println(version.Module(), version.Current())
		return
	}
	if opts.maxSize <= 0 {
		fmt.Fprintf(os.Stderr, "invalid --max-size %d: must be positive\n", opts.maxSize)
		os.Exit(2)
	}
	if len(internalDomains) > 0 {
		opts.renderer.Links = &tagtext.LinkClassifier{InternalDomains: internalDomains}
	}

	args := flags.Args()
	if len(args) == 0 && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "tagtext: reading from stdin (end input with Ctrl-D)")
	}
	reader, closer, err := openInputs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	source, err := readInput(reader, opts.maxSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		os.Exit(1)
	}

	writer, closeOut, err := resolveOutput(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open output: %v\n", err)
		os.Exit(1)
	}
	if err := convert(writer, source, &opts); err != nil {
		fmt.Fprintf(os.Stderr, "convert: %v\n", err)
		os.Exit(1)
	}
	if closeOut != nil {
		if err := closeOut.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close output: %v\n", err)
			os.Exit(1)
		}
	}
}

// convert writes the HTML rendering of source to w,
// or its tokens if opts.tokens is set.
func convert(w io.Writer, source string, opts *options) error {
	if opts.tokens {
		return printTokens(w, source)
	}
	if err := opts.renderer.Render(w, source); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func printTokens(w io.Writer, source string) error {
	for _, tok := range tagtext.Tokenize(source) {
		_, err := fmt.Fprintf(w, "%v %d-%d %q\n", tok.Kind, tok.Span.Start, tok.Span.End, tok.Text(source))
		if err != nil {
			return err
		}
	}
	return nil
}

// readInput reads all of r, failing if it is longer than maxSize bytes.
func readInput(r io.Reader, maxSize int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > maxSize {
		return "", fmt.Errorf("input larger than %d bytes", maxSize)
	}
	return string(data), nil
}

// multiInputReader reads a sequence of files,
// opening each one only when the previous one is exhausted.
type multiInputReader struct {
	paths  []string
	cur    io.ReadCloser
	closed bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if len(m.paths) == 0 {
				m.closed = true
				return 0, io.EOF
			}
			f, err := os.Open(normalizePath(m.paths[0]))
			if err != nil {
				return 0, err
			}
			m.cur = f
			m.paths = m.paths[1:]
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if errors.Is(err, io.EOF) {
			_ = m.cur.Close()
			m.cur = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.cur != nil {
		return m.cur.Close()
	}
	return nil
}

// openInputs returns a reader over the concatenation of the named files,
// or stdin if there are none.
func openInputs(args []string) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return os.Stdin, nil, nil
	}
	paths := make([]string, 0, len(args))
	for _, raw := range args {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, nil, fmt.Errorf("empty input argument")
		}
		paths = append(paths, raw)
	}
	m := &multiInputReader{paths: paths}
	return m, m, nil
}

func resolveOutput(path string) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return os.Stdout, nil, nil
	}
	clean := normalizePath(path)
	if dir := filepath.Dir(clean); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
