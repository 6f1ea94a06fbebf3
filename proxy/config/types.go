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

// Package config decodes the listener/service/backend tree (spec.md §3)
// from a configuration file via spf13/viper + mitchellh/mapstructure,
// validates it with go-playground/validator, and finalizes it into the
// wired runtime objects proxy/listener, proxy/service, proxy/balancer and
// proxy/backend already expose — resolving BACKEND_REF indirections
// against the named-backend template table as part of that pass.
package config

import "time"

// Tree is the decoded, not-yet-finalized configuration: one or more
// listeners plus a table of named backend templates BACKEND_REF entries
// resolve against at Finalize time.
type Tree struct {
	Listeners []ListenerSpec         `mapstructure:"listeners" validate:"required,min=1,dive"`
	Templates map[string]BackendSpec `mapstructure:"backend_templates" validate:"omitempty,dive"`
}

// WorkerSpec bounds a listener's connection worker pool (proxy/worker.Config).
type WorkerSpec struct {
	Min         int           `mapstructure:"min"`
	Max         int           `mapstructure:"max"`
	QueueDepth  int           `mapstructure:"queue_depth"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

// CertSpec binds one TLS certificate pair to the server-name/SAN globs it
// should be selected for during SNI (proxy/listener.CertContext).
type CertSpec struct {
	ServerNames []string `mapstructure:"server_names" validate:"required,min=1"`
	CertFile    string   `mapstructure:"cert_file" validate:"required"`
	KeyFile     string   `mapstructure:"key_file" validate:"required"`
	RootCAFiles []string `mapstructure:"root_ca_files"`

	// ClientAuth is spec.md §4.2/§6's clnt_check mode: "none" (0, default),
	// "optional" (1, verified if presented), "required" (2, verified and
	// mandatory), or "requested" (3, asked for but never verified).
	ClientAuth    string   `mapstructure:"client_auth" validate:"omitempty,oneof=none optional required requested"`
	ClientCAFiles []string `mapstructure:"client_ca_files"`
}

// ErrorBodySpec overrides the static body served for one status code.
type ErrorBodySpec struct {
	Status      int    `mapstructure:"status" validate:"required"`
	ContentType string `mapstructure:"content_type"`
	Body        string `mapstructure:"body"`
}

// ListenerSpec is one front-end binding address (spec.md §3 "Listener").
type ListenerSpec struct {
	Name    string `mapstructure:"name" validate:"required"`
	Address string `mapstructure:"address" validate:"required"`

	UseTLS bool       `mapstructure:"tls"`
	Certs  []CertSpec `mapstructure:"certs" validate:"required_if=UseTLS true,dive"`

	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`

	MaxRequestBytes int64    `mapstructure:"max_request_bytes"`
	URLAllow        []string `mapstructure:"url_allow"`

	Services        []ServiceSpec   `mapstructure:"services" validate:"required,min=1,dive"`
	Rewrite         []RewriteSpec   `mapstructure:"rewrite" validate:"dive"`
	ResponseRewrite []RewriteSpec   `mapstructure:"response_rewrite" validate:"dive"`
	Errors          []ErrorBodySpec `mapstructure:"error_bodies" validate:"dive"`

	Worker WorkerSpec `mapstructure:"worker"`
}

// SessionSpec is the service's session-affinity policy (spec.md §3/§4.6).
type SessionSpec struct {
	Type string        `mapstructure:"type"` // NONE|IP|COOKIE|URL|PARAM|BASIC|HEADER
	Name string        `mapstructure:"name"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// ServiceSpec is one service attached to a listener (spec.md §3 "Service").
type ServiceSpec struct {
	Name      string         `mapstructure:"name" validate:"required"`
	Condition *ConditionSpec `mapstructure:"condition"`

	Normal    []BackendSpec `mapstructure:"backends" validate:"required,min=1,dive"`
	Emergency []BackendSpec `mapstructure:"emergency_backends" validate:"dive"`

	Rewrite         []RewriteSpec `mapstructure:"rewrite" validate:"dive"`
	ResponseRewrite []RewriteSpec `mapstructure:"response_rewrite" validate:"dive"`
	Session         SessionSpec   `mapstructure:"session"`

	BalanceAlgo string `mapstructure:"balance_algo"` // RANDOM|IWRR

	ForwardedForHeader string   `mapstructure:"forwarded_for_header"`
	TrustedIPs         []string `mapstructure:"trusted_ips"`
	SuppressLogClasses []int    `mapstructure:"suppress_log_classes"`
}

// ClientTLSSpec configures the optional client-side TLS context a REGULAR
// backend dials with.
type ClientTLSSpec struct {
	ServerName  string `mapstructure:"server_name"`
	CertFile    string `mapstructure:"cert_file"`
	KeyFile     string `mapstructure:"key_file"`
	RootCAFiles []string `mapstructure:"root_ca_files"`
}

// BackendSpec is one tagged-variant backend entry (spec.md §3 "Backend").
// Only the fields relevant to Kind need be set; the rest are ignored.
type BackendSpec struct {
	ID       string `mapstructure:"id" validate:"required"`
	Kind     string `mapstructure:"kind" validate:"required"` // REGULAR|MATRIX|BACKEND_REF|REDIRECT|ACME|ERROR|CONTROL|METRICS
	Priority uint32 `mapstructure:"priority"`
	Disabled bool   `mapstructure:"disabled"`

	// REGULAR
	Address        string         `mapstructure:"address"`
	ConnectTimeout time.Duration  `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration  `mapstructure:"read_timeout"`
	ServerName     string         `mapstructure:"server_name"`
	ClientTLS      *ClientTLSSpec `mapstructure:"client_tls"`

	// MATRIX
	Host          string        `mapstructure:"host"`
	Port          uint16        `mapstructure:"port"`
	Family        string        `mapstructure:"family"` // ANY|IPV4|IPV6
	ResolveMode   string        `mapstructure:"resolve_mode"` // IMMEDIATE|FIRST|ALL|SRV
	RetryInterval time.Duration `mapstructure:"retry_interval"`

	// BACKEND_REF
	Ref string `mapstructure:"ref"`

	// REDIRECT
	RedirectStatus   int    `mapstructure:"redirect_status"`
	RedirectTemplate string `mapstructure:"redirect_template"`
	RedirectHasURI   bool   `mapstructure:"redirect_has_uri"`

	// ACME
	ACMEDir string `mapstructure:"acme_dir"`

	// ERROR
	ErrorStatus int    `mapstructure:"error_status"`
	ErrorBody   string `mapstructure:"error_body"`
}

// RegexSpec is one compiled-at-finalize regex leaf.
type RegexSpec struct {
	Kind    string `mapstructure:"kind"` // POSIX|PCRE|EXACT|PREFIX|SUFFIX|CONTAIN
	Pattern string `mapstructure:"pattern" validate:"required"`
}

// QueryParamSpec is the QUERY_PARAM(name, regex) leaf.
type QueryParamSpec struct {
	Name  string    `mapstructure:"name" validate:"required"`
	Regex RegexSpec `mapstructure:"regex"`
}

// ConditionSpec is the decode form of spec.md §3's SERVICE_COND tagged
// union. Exactly one field besides And/Or/Not should be set per node;
// And/Or/Not recurse into child ConditionSpecs.
type ConditionSpec struct {
	And []ConditionSpec `mapstructure:"and"`
	Or  []ConditionSpec `mapstructure:"or"`
	Not *ConditionSpec  `mapstructure:"not"`

	ACL []string `mapstructure:"acl"`

	URL             *RegexSpec      `mapstructure:"url"`
	Path            *RegexSpec      `mapstructure:"path"`
	Query           *RegexSpec      `mapstructure:"query"`
	QueryParam      *QueryParamSpec `mapstructure:"query_param"`
	Header          *RegexSpec      `mapstructure:"header"`
	Host            *RegexSpec      `mapstructure:"host"`
	StringMatch     *RegexSpec      `mapstructure:"string_match"`
	BasicAuthFile   string          `mapstructure:"basic_auth_file"`
}

// RewriteOpSpec is one decode-form op of spec.md §3's rewrite op-list.
type RewriteOpSpec struct {
	SetHeader      *HeaderValueSpec `mapstructure:"set_header"`
	DelHeader      string           `mapstructure:"del_header"` // regex over "Name: value"
	SetURL         string           `mapstructure:"set_url"`
	SetPath        string           `mapstructure:"set_path"`
	SetQuery       string           `mapstructure:"set_query"`
	SetQueryParam  *HeaderValueSpec `mapstructure:"set_query_param"`
	SubRule        *RewriteSpec     `mapstructure:"sub_rule"`
}

// HeaderValueSpec is a name/template-value pair, shared by SET_HEADER and
// SET_QUERY_PARAM.
type HeaderValueSpec struct {
	Name     string `mapstructure:"name" validate:"required"`
	Template string `mapstructure:"template"`
}

// RewriteSpec is the decode form of one spec.md §3 rewrite rule.
type RewriteSpec struct {
	Condition *ConditionSpec  `mapstructure:"condition"`
	Then      []RewriteOpSpec `mapstructure:"then" validate:"dive"`
	Else      []RewriteOpSpec `mapstructure:"else" validate:"dive"`
}
