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

// Package types holds the small tagged-union and enum types shared across the
// proxy packages: HTTP method classification, header classification codes,
// balancing algorithms, session-affinity kinds, backend kinds and regex kinds.
package types

import "strings"

// Method is a classified HTTP request method.
type Method int

const (
	MethodUnknown Method = iota
	MethodGet
	MethodHead
	MethodPost
	MethodOptions
	MethodPut
	MethodPatch
	MethodDelete
	MethodPropfind
	MethodProppatch
	MethodMkcol
	MethodCopy
	MethodMove
	MethodLock
	MethodUnlock
	MethodMsSearch
	MethodRpcInData
	MethodRpcOutData
)

func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodHead:
		return "HEAD"
	case MethodPost:
		return "POST"
	case MethodOptions:
		return "OPTIONS"
	case MethodPut:
		return "PUT"
	case MethodPatch:
		return "PATCH"
	case MethodDelete:
		return "DELETE"
	case MethodPropfind:
		return "PROPFIND"
	case MethodProppatch:
		return "PROPPATCH"
	case MethodMkcol:
		return "MKCOL"
	case MethodCopy:
		return "COPY"
	case MethodMove:
		return "MOVE"
	case MethodLock:
		return "LOCK"
	case MethodUnlock:
		return "UNLOCK"
	case MethodMsSearch:
		return "SEARCH"
	case MethodRpcInData:
		return "RPC_IN_DATA"
	case MethodRpcOutData:
		return "RPC_OUT_DATA"
	default:
		return ""
	}
}

// XHTTPGroup is the minimum xHTTP level (spec.md §4.3) required to allow a method.
type XHTTPGroup int

const (
	GroupBasic   XHTTPGroup = 0 // GET, HEAD, POST, OPTIONS
	GroupExtra   XHTTPGroup = 1 // + PUT, PATCH, DELETE
	GroupWebDAV  XHTTPGroup = 2 // + PROPFIND, PROPPATCH, MKCOL, COPY, MOVE, LOCK, UNLOCK
	GroupMSWebDAV XHTTPGroup = 3 // + SEARCH
	GroupRPC     XHTTPGroup = 4 // + RPC_IN_DATA, RPC_OUT_DATA
)

type methodEntry struct {
	method Method
	group  XHTTPGroup
}

// methodTable maps a case-insensitive method prefix to its enum and minimum xHTTP group.
var methodTable = map[string]methodEntry{
	"GET":          {MethodGet, GroupBasic},
	"HEAD":         {MethodHead, GroupBasic},
	"POST":         {MethodPost, GroupBasic},
	"OPTIONS":      {MethodOptions, GroupBasic},
	"PUT":          {MethodPut, GroupExtra},
	"PATCH":        {MethodPatch, GroupExtra},
	"DELETE":       {MethodDelete, GroupExtra},
	"PROPFIND":     {MethodPropfind, GroupWebDAV},
	"PROPPATCH":    {MethodProppatch, GroupWebDAV},
	"MKCOL":        {MethodMkcol, GroupWebDAV},
	"COPY":         {MethodCopy, GroupWebDAV},
	"MOVE":         {MethodMove, GroupWebDAV},
	"LOCK":         {MethodLock, GroupWebDAV},
	"UNLOCK":       {MethodUnlock, GroupWebDAV},
	"SEARCH":       {MethodMsSearch, GroupMSWebDAV},
	"RPC_IN_DATA":  {MethodRpcInData, GroupRPC},
	"RPC_OUT_DATA": {MethodRpcOutData, GroupRPC},
}

// LookupMethod resolves a request-line method token (case-insensitive) to its
// enum and minimum required xHTTP group. ok is false for an unrecognized token.
func LookupMethod(token string) (m Method, group XHTTPGroup, ok bool) {
	e, found := methodTable[strings.ToUpper(token)]
	if !found {
		return MethodUnknown, GroupBasic, false
	}
	return e.method, e.group, true
}

// Allowed reports whether m may be used when the listener's xHTTP setting is max.
func Allowed(group XHTTPGroup, max XHTTPGroup) bool {
	return group <= max
}

// IsRPCStreaming reports whether the method is one of the RPC body-streaming verbs
// (spec.md §4.2 "RPC streaming").
func (m Method) IsRPCStreaming() bool {
	return m == MethodRpcInData || m == MethodRpcOutData
}
