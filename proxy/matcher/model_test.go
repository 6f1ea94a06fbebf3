/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package matcher_test

import (
	"net"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/poundlb/proxy/htpasswd"
	"github.com/nabbar/poundlb/proxy/matcher"
	"github.com/nabbar/poundlb/proxy/types"
)

var _ = Describe("Condition", func() {
	var scope *matcher.Scope

	BeforeEach(func() {
		scope = &matcher.Scope{}
	})

	Context("ACL", func() {
		It("matches a peer IP inside a configured CIDR", func() {
			c, err := matcher.NewACL([]string{"10.0.0.0/8", "192.168.0.0/16"})
			Expect(err).NotTo(HaveOccurred())

			req := &matcher.Request{PeerIP: net.ParseIP("10.1.2.3")}
			Expect(c.Match(req, scope)).To(BeTrue())

			req = &matcher.Request{PeerIP: net.ParseIP("8.8.8.8")}
			Expect(c.Match(req, scope)).To(BeFalse())
		})

		It("rejects an invalid CIDR at construction", func() {
			_, err := matcher.NewACL([]string{"not-a-cidr"})
			Expect(err).To(HaveOccurred())
		})
	})

	Context("regex fields", func() {
		It("matches PATH with a POSIX pattern and records submatches", func() {
			c, err := matcher.NewRegexCondition(matcher.FieldPath, types.RegexPOSIX, `^/api/v([0-9]+)/`)
			Expect(err).NotTo(HaveOccurred())

			req := &matcher.Request{Path: "/api/v2/widgets"}
			Expect(c.Match(req, scope)).To(BeTrue())
			Expect(scope.Submatches).To(Equal([]string{"/api/v2/", "2"}))
		})

		It("matches HOST with an anchored pattern", func() {
			c, err := matcher.NewRegexCondition(matcher.FieldHost, types.RegexPOSIX, `^example\.com$`)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.Match(&matcher.Request{Host: "example.com"}, scope)).To(BeTrue())
			Expect(c.Match(&matcher.Request{Host: "other.com"}, scope)).To(BeFalse())
		})

		DescribeTable("EXACT/PREFIX/SUFFIX/CONTAIN compile into anchored POSIX patterns",
			func(kind types.RegexKind, pattern, input string, want bool) {
				c, err := matcher.NewRegexCondition(matcher.FieldURL, kind, pattern)
				Expect(err).NotTo(HaveOccurred())
				Expect(c.Match(&matcher.Request{URL: input}, scope)).To(Equal(want))
			},
			Entry("exact match", types.RegexExact, "/status", "/status", true),
			Entry("exact non-match", types.RegexExact, "/status", "/status/extra", false),
			Entry("prefix match", types.RegexPrefix, "/api/", "/api/widgets", true),
			Entry("prefix non-match", types.RegexPrefix, "/api/", "/other/widgets", false),
			Entry("suffix match", types.RegexSuffix, ".json", "/widgets/1.json", true),
			Entry("contain match", types.RegexContain, "widgets", "/api/widgets/1", true),
		)
	})

	Context("QUERY_PARAM", func() {
		It("matches the value of the first exact-name param", func() {
			c, err := matcher.NewQueryParam("id", types.RegexPOSIX, `^[0-9]+$`)
			Expect(err).NotTo(HaveOccurred())

			req := &matcher.Request{RawQuery: "id=42&other=x"}
			Expect(c.Match(req, scope)).To(BeTrue())

			req = &matcher.Request{RawQuery: "id=abc"}
			Expect(c.Match(req, scope)).To(BeFalse())
		})

		It("does not match when the param is absent", func() {
			c, err := matcher.NewQueryParam("missing", types.RegexPOSIX, `.*`)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Match(&matcher.Request{RawQuery: "id=1"}, scope)).To(BeFalse())
		})
	})

	Context("HDR", func() {
		It("matches case-insensitively against any header line", func() {
			c, err := matcher.NewHeader(`^content-type: application/json`)
			Expect(err).NotTo(HaveOccurred())

			req := &matcher.Request{Headers: []matcher.Header{
				{Name: "Content-Type", Value: "application/json"},
			}}
			Expect(c.Match(req, scope)).To(BeTrue())
		})

		It("reports false when no header line matches", func() {
			c, err := matcher.NewHeader(`^x-absent:`)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Match(&matcher.Request{Headers: []matcher.Header{{Name: "X-Other", Value: "y"}}}, scope)).To(BeFalse())
		})
	})

	Context("BASIC_AUTH", func() {
		It("delegates to the htpasswd file", func() {
			pw := htpasswd.New()
			Expect(pw.Load(strings.NewReader("alice:secret\n"))).To(Succeed())

			c := matcher.NewBasicAuth(pw)
			Expect(c.Match(&matcher.Request{BasicUser: "alice", BasicPass: "secret"}, scope)).To(BeTrue())
			Expect(c.Match(&matcher.Request{BasicUser: "alice", BasicPass: "wrong"}, scope)).To(BeFalse())
			Expect(c.Match(&matcher.Request{}, scope)).To(BeFalse())
		})
	})

	Context("combinators", func() {
		It("AND short-circuits on the first false child", func() {
			always := matcher.Not(matcher.Not(trueCondition{}))
			never := falseCondition{}
			Expect(matcher.And(always, never).Match(&matcher.Request{}, scope)).To(BeFalse())
			Expect(matcher.And(always, always).Match(&matcher.Request{}, scope)).To(BeTrue())
		})

		It("OR short-circuits on the first true child", func() {
			Expect(matcher.Or(falseCondition{}, trueCondition{}).Match(&matcher.Request{}, scope)).To(BeTrue())
			Expect(matcher.Or(falseCondition{}, falseCondition{}).Match(&matcher.Request{}, scope)).To(BeFalse())
		})

		It("NOT negates", func() {
			Expect(matcher.Not(trueCondition{}).Match(&matcher.Request{}, scope)).To(BeFalse())
		})
	})

	Context("condition file loading", func() {
		It("expands non-blank, non-comment lines into an OR of leaves", func() {
			c, err := matcher.LoadConditionFile([]string{
				"",
				"# comment",
				"^/health$",
				"^/metrics$",
			}, matcher.FieldPath, types.RegexPOSIX)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.Match(&matcher.Request{Path: "/health"}, scope)).To(BeTrue())
			Expect(c.Match(&matcher.Request{Path: "/metrics"}, scope)).To(BeTrue())
			Expect(c.Match(&matcher.Request{Path: "/other"}, scope)).To(BeFalse())
		})
	})
})

type trueCondition struct{}

func (trueCondition) Match(*matcher.Request, *matcher.Scope) bool { return true }

type falseCondition struct{}

func (falseCondition) Match(*matcher.Request, *matcher.Scope) bool { return false }
