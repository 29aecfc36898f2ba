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
	"regexp"
	"strings"

	"golang.org/x/image/colornames"
	"golang.org/x/text/cases"
)

var (
	hexColorRE = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

	// rgb() takes either three integers in [0, 255] or three percentages in [0, 100].
	rgbColorRE = regexp.MustCompile(`(?i)^rgb\(` +
		`(?:` +
		`(?:\s*(?:25[0-5]|2[0-4]\d|[01]?\d{1,2})\s*,){2}\s*(?:25[0-5]|2[0-4]\d|[01]?\d{1,2})\s*` +
		`|` +
		`(?:\s*(?:100|0?\d{1,2})%\s*,){2}\s*(?:100|0?\d{1,2})%\s*` +
		`)\)$`)

	// hsl() hue is limited to [0, 180].
	hslColorRE = regexp.MustCompile(`(?i)^hsl\(` +
		`\s*(?:180|1[0-7]\d|0?\d{1,2})\s*,` +
		`\s*(?:100|0?\d{1,2})%\s*,` +
		`\s*(?:100|0?\d{1,2})%\s*` +
		`\)$`)
)

// ParseColor reports whether s is an opaque CSS3 color:
// a 3 or 6 digit hex color with or without a leading '#',
// an rgb() or hsl() function,
// or a color keyword.
// Surrounding whitespace is ignored.
// On success, ParseColor returns the color in a form
// suitable for a CSS color property,
// adding the '#' to bare hex colors.
func ParseColor(s string) (css string, ok bool) {
	s = strings.TrimSpace(s)
	if m := hexColorRE.FindStringSubmatch(s); m != nil {
		return "#" + m[1], true
	}
	if rgbColorRE.MatchString(s) || hslColorRE.MatchString(s) {
		return s, true
	}
	if _, isName := colornames.Map[cases.Fold().String(s)]; isName {
		return s, true
	}
	return "", false
}
