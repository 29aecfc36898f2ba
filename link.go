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
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// LinkInfo is the result of classifying a URI.
type LinkInfo struct {
	// Allowed is true if the URI may be used as a link target.
	Allowed bool
	// Internal is true if the URI refers to the service itself.
	// Internal links are rendered without rel="nofollow".
	Internal bool
}

// allowedSchemes is the set of URI schemes that may be linked to.
// Relative URIs (no scheme) are always allowed.
var allowedSchemes = map[string]struct{}{
	"http":   {},
	"https":  {},
	"mailto": {},
	"irc":    {},
	"ircs":   {},
	"magnet": {},
}

// A LinkClassifier decides whether URIs may be linked to
// and whether they are internal to the service.
// The zero value treats only relative URIs as internal.
type LinkClassifier struct {
	// InternalDomains is the list of domains owned by the service,
	// like "example.net".
	// A host is internal if it is one of these domains
	// or a subdomain of one of them.
	InternalDomains []string
}

var defaultLinkClassifier = new(LinkClassifier)

// ClassifyLink classifies a URI using the zero [LinkClassifier].
func ClassifyLink(uri string) LinkInfo {
	return defaultLinkClassifier.Classify(uri)
}

// Classify reports whether uri may be used as a link
// and whether it is internal.
// A URI that cannot be parsed is not allowed.
func (c *LinkClassifier) Classify(uri string) LinkInfo {
	u, err := url.Parse(uri)
	if err != nil {
		return LinkInfo{}
	}
	if u.Scheme == "" {
		return LinkInfo{Allowed: true, Internal: true}
	}
	if _, ok := allowedSchemes[u.Scheme]; !ok {
		return LinkInfo{}
	}
	return LinkInfo{
		Allowed:  true,
		Internal: c.isInternalHost(u.Hostname()),
	}
}

func (c *LinkClassifier) isInternalHost(host string) bool {
	if c == nil || host == "" || len(c.InternalDomains) == 0 {
		return false
	}
	host, ok := normalizeHost(host)
	if !ok {
		return false
	}
	hostLabels := reversedLabels(host)
	for _, domain := range c.InternalDomains {
		domain, ok := normalizeHost(domain)
		if !ok {
			continue
		}
		if hasLabelPrefix(hostLabels, reversedLabels(domain)) {
			return true
		}
	}
	return false
}

// normalizeHost converts a host name to its lowercased ASCII form.
func normalizeHost(host string) (string, bool) {
	host = strings.TrimSuffix(host, ".")
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil || ascii == "" {
		return "", false
	}
	return strings.ToLower(ascii), true
}

// reversedLabels splits a host name into its labels,
// starting with the top-level domain.
func reversedLabels(host string) []string {
	labels := strings.Split(host, ".")
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return labels
}

func hasLabelPrefix(labels, prefix []string) bool {
	if len(prefix) > len(labels) {
		return false
	}
	for i, p := range prefix {
		if labels[i] != p {
			return false
		}
	}
	return true
}
