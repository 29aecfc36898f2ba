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

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		s      string
		want   string
		wantOK bool
	}{
		{"#fff", "#fff", true},
		{"fff", "#fff", true},
		{"A0B1C2", "#A0B1C2", true},
		{" #a0b1c2 ", "#a0b1c2", true},
		{"#ffff", "", false},
		{"#ggg", "", false},
		{"rgb(255, 0, 10)", "rgb(255, 0, 10)", true},
		{"RGB(0,0,0)", "RGB(0,0,0)", true},
		{"rgb(256, 0, 0)", "", false},
		{"rgb(100%, 50%, 0%)", "rgb(100%, 50%, 0%)", true},
		{"rgb(101%, 0%, 0%)", "", false},
		{"rgb(100%, 0, 0)", "", false},
		{"rgba(0, 0, 0, 0.5)", "", false},
		{"hsl(120, 100%, 50%)", "hsl(120, 100%, 50%)", true},
		{"hsl(181, 100%, 50%)", "", false},
		{"red", "red", true},
		{"Red", "Red", true},
		{"lightgoldenrodyellow", "lightgoldenrodyellow", true},
		{"darkslategrey", "darkslategrey", true},
		{"transparent", "", false},
		{"currentColor", "", false},
		{"red;background:url(x)", "", false},
		{"expression(alert(1))", "", false},
		{"", "", false},
	}
	for _, test := range tests {
		got, ok := ParseColor(test.s)
		if got != test.want || ok != test.wantOK {
			t.Errorf("ParseColor(%q) = %q, %t; want %q, %t", test.s, got, ok, test.want, test.wantOK)
		}
	}
}
