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

package main

import (
	"fmt"
	"os"
	"strconv"

	spfcbr "github.com/spf13/cobra"

	libcbr "github.com/nabbar/poundlb/cobra"
	libui "github.com/nabbar/poundlb/cobra/ui"
)

// wizardAnswers accumulates the handful of facts newInitCommand's questions
// collect, in the order RunInteractiveUI asks them.
type wizardAnswers struct {
	listenerName string
	address      string
	serviceName  string
	backendAddr  string
	output       string
}

func newInitCommand(app libcbr.Cobra) *spfcbr.Command {
	cmd := app.NewCommand("init", "interactively generate a starter configuration", "answer a few questions to produce a minimal listener/service/backend configuration file", "", "")
	cmd.RunE = func(_ *spfcbr.Command, _ []string) error {
		return runInit(app)
	}
	return cmd
}

func runInit(app libcbr.Cobra) error {
	ans := &wizardAnswers{output: "poundlb.json"}

	u := libui.New()
	u.SetCobra(app.Cobra())
	u.SetQuestions([]libui.Question{
		{Text: "Listener name: ", Handler: func(s string) error { ans.listenerName = s; return nil }},
		{Text: "Listen address (host:port): ", Handler: func(s string) error { ans.address = s; return nil }},
		{Text: "Service name: ", Handler: func(s string) error { ans.serviceName = s; return nil }},
		{Text: "Backend address (host:port): ", Handler: func(s string) error { ans.backendAddr = s; return nil }},
		{Text: "Output file path [poundlb.json]: ", Handler: func(s string) error {
			if s != "" {
				ans.output = s
			}
			return nil
		}},
	})
	u.RunInteractiveUI()

	return writeSkeleton(ans)
}

// writeSkeleton emits a minimal configuration matching proxy/config.Tree's
// mapstructure keys directly (not via encoding/json on the Tree struct,
// whose field names don't carry those tags), so the file Load() reads back
// decodes exactly what the wizard collected.
func writeSkeleton(ans *wizardAnswers) error {
	listenerName := orDefault(ans.listenerName, "default")
	address := orDefault(ans.address, "0.0.0.0:8443")
	serviceName := orDefault(ans.serviceName, "default")
	backendAddr := orDefault(ans.backendAddr, "127.0.0.1:8080")

	doc := `{
  "listeners": [
    {
      "name": ` + strconv.Quote(listenerName) + `,
      "address": ` + strconv.Quote(address) + `,
      "tls": false,
      "services": [
        {
          "name": ` + strconv.Quote(serviceName) + `,
          "backends": [
            {
              "id": "backend-1",
              "kind": "REGULAR",
              "priority": 1,
              "address": ` + strconv.Quote(backendAddr) + `
            }
          ]
        }
      ]
    }
  ]
}
`

	if err := os.WriteFile(ans.output, []byte(doc), 0o644); err != nil {
		return ErrorWriteSkeleton.Error(err)
	}

	fmt.Printf("wrote %s\n", ans.output)
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
