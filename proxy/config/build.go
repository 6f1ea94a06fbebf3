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

package config

import (
	"os"
	"strings"

	"github.com/nabbar/poundlb/certificates"
	"github.com/nabbar/poundlb/proxy/htpasswd"
	"github.com/nabbar/poundlb/proxy/matcher"
	"github.com/nabbar/poundlb/proxy/rewrite"
	"github.com/nabbar/poundlb/proxy/types"
)

func regexKind(s string) (types.RegexKind, error) {
	switch strings.ToUpper(s) {
	case "", "POSIX":
		return types.RegexPOSIX, nil
	case "PCRE":
		return types.RegexPCRE, nil
	case "EXACT":
		return types.RegexExact, nil
	case "PREFIX":
		return types.RegexPrefix, nil
	case "SUFFIX":
		return types.RegexSuffix, nil
	case "CONTAIN":
		return types.RegexContain, nil
	default:
		return 0, ErrorUnknownRegexKind.Error(nil)
	}
}

func buildRegexCondition(field matcher.Field, spec *RegexSpec) (matcher.Condition, error) {
	kind, err := regexKind(spec.Kind)
	if err != nil {
		return nil, err
	}
	return matcher.NewRegexCondition(field, kind, spec.Pattern)
}

// buildCondition walks a ConditionSpec into a matcher.Condition tree.
// STRING_MATCH is built against FieldURL, the same simplification
// proxy/matcher's own doc comment records: the templated-string form spec.md
// describes would need the template expanded against a live request before
// matching, which a config-time build cannot do.
func buildCondition(spec *ConditionSpec) (matcher.Condition, error) {
	if spec == nil {
		return nil, nil
	}

	switch {
	case len(spec.And) > 0:
		children, err := buildConditionList(spec.And)
		if err != nil {
			return nil, err
		}
		return matcher.And(children...), nil

	case len(spec.Or) > 0:
		children, err := buildConditionList(spec.Or)
		if err != nil {
			return nil, err
		}
		return matcher.Or(children...), nil

	case spec.Not != nil:
		child, err := buildCondition(spec.Not)
		if err != nil {
			return nil, err
		}
		return matcher.Not(child), nil

	case len(spec.ACL) > 0:
		return matcher.NewACL(spec.ACL)

	case spec.URL != nil:
		return buildRegexCondition(matcher.FieldURL, spec.URL)

	case spec.Path != nil:
		return buildRegexCondition(matcher.FieldPath, spec.Path)

	case spec.Query != nil:
		return buildRegexCondition(matcher.FieldQuery, spec.Query)

	case spec.QueryParam != nil:
		kind, err := regexKind(spec.QueryParam.Regex.Kind)
		if err != nil {
			return nil, err
		}
		return matcher.NewQueryParam(spec.QueryParam.Name, kind, spec.QueryParam.Regex.Pattern)

	case spec.Header != nil:
		return matcher.NewHeader(spec.Header.Pattern)

	case spec.Host != nil:
		return buildRegexCondition(matcher.FieldHost, spec.Host)

	case spec.StringMatch != nil:
		return buildRegexCondition(matcher.FieldURL, spec.StringMatch)

	case spec.BasicAuthFile != "":
		pw, err := loadHtpasswdFile(spec.BasicAuthFile)
		if err != nil {
			return nil, err
		}
		return matcher.NewBasicAuth(pw), nil
	}

	return nil, nil
}

func buildConditionList(specs []ConditionSpec) ([]matcher.Condition, error) {
	out := make([]matcher.Condition, 0, len(specs))
	for i := range specs {
		c, err := buildCondition(&specs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func loadHtpasswdFile(path string) (htpasswd.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrorLoadBasicAuthFile.Error(err)
	}
	defer func() { _ = f.Close() }()

	pw := htpasswd.New()
	if err = pw.Load(f); err != nil {
		return nil, ErrorLoadBasicAuthFile.Error(err)
	}
	return pw, nil
}

func buildRewriteOp(spec RewriteOpSpec) (rewrite.Op, error) {
	switch {
	case spec.SetHeader != nil:
		return rewrite.NewSetHeaderOp(spec.SetHeader.Name, spec.SetHeader.Template, nil), nil

	case spec.DelHeader != "":
		return rewrite.NewDelHeaderOp(spec.DelHeader)

	case spec.SetURL != "":
		return rewrite.NewSetURLOp(spec.SetURL), nil

	case spec.SetPath != "":
		return rewrite.NewSetPathOp(spec.SetPath), nil

	case spec.SetQuery != "":
		return rewrite.NewSetQueryOp(spec.SetQuery), nil

	case spec.SetQueryParam != nil:
		return rewrite.NewSetQueryParamOp(spec.SetQueryParam.Name, spec.SetQueryParam.Template)

	case spec.SubRule != nil:
		rule, err := buildRewriteRule(*spec.SubRule)
		if err != nil {
			return nil, err
		}
		return rewrite.NewSubRuleOp(rule, subRuleMatcherRequest), nil
	}

	return nil, nil
}

// subRuleMatcherRequest adapts a rewrite.Request to the read-only
// matcher.Request snapshot a SUB_RULE's nested condition evaluates against.
// Peer/host/basic-auth fields are not available on a rewrite.Request, so a
// SUB_RULE condition may only test URL/path/query/header fields — the same
// restriction proxy/rewrite's own doc comment leaves to "the caller's
// concern".
func subRuleMatcherRequest(r *rewrite.Request) *matcher.Request {
	return &matcher.Request{
		URL:      r.URL,
		Path:     r.Path,
		RawQuery: r.RawQuery,
		Headers:  r.Headers,
	}
}

func buildOpList(specs []RewriteOpSpec) ([]rewrite.Op, error) {
	out := make([]rewrite.Op, 0, len(specs))
	for _, s := range specs {
		op, err := buildRewriteOp(s)
		if err != nil {
			return nil, err
		}
		if op != nil {
			out = append(out, op)
		}
	}
	return out, nil
}

func buildRewriteRule(spec RewriteSpec) (*rewrite.Rule, error) {
	cond, err := buildCondition(spec.Condition)
	if err != nil {
		return nil, err
	}
	then, err := buildOpList(spec.Then)
	if err != nil {
		return nil, err
	}
	els, err := buildOpList(spec.Else)
	if err != nil {
		return nil, err
	}
	return &rewrite.Rule{Condition: cond, Then: then, Else: els}, nil
}

func buildRewriteRules(specs []RewriteSpec) ([]*rewrite.Rule, error) {
	out := make([]*rewrite.Rule, 0, len(specs))
	for _, s := range specs {
		r, err := buildRewriteRule(s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func buildClientTLS(spec *ClientTLSSpec) (certificates.TLSConfig, error) {
	if spec == nil {
		return nil, nil
	}
	tc := certificates.New()
	if spec.CertFile != "" || spec.KeyFile != "" {
		if err := tc.AddCertificatePairFile(spec.KeyFile, spec.CertFile); err != nil {
			return nil, ErrorLoadTLSCert.Error(err)
		}
	}
	for _, ca := range spec.RootCAFiles {
		if err := tc.AddRootCAFile(ca); err != nil {
			return nil, ErrorLoadTLSCert.Error(err)
		}
	}
	return tc, nil
}
