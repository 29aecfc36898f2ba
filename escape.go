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

import "go4.org/bytereplacer"

// attributeEscaper escapes text placed inside a double-quoted attribute value.
var attributeEscaper = bytereplacer.New(
	"&", "&amp;",
	`"`, "&quot;",
)

// contentEscaper escapes text placed between tags.
var contentEscaper = bytereplacer.New(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

func escapeAttribute(s string) string {
	return string(attributeEscaper.Replace([]byte(s)))
}

func escapeContent(s string) string {
	return string(contentEscaper.Replace([]byte(s)))
}
