// internal/browser/collector.go
package browser

import (
	_ "embed"
	"fmt"
	"strings"

	json "github.com/json-iterator/go"

	"github.com/xkilldash9x/figport/internal/style"
)

//go:embed collector.js
var collectorSource string

// contentHeightExpression measures the full scrollable height of the page.
const contentHeightExpression = `Math.max(document.documentElement.scrollHeight, document.body ? document.body.scrollHeight : 0)`

// collectorExpression returns the collector invoked with the computed-style
// properties the compiler reads.
func collectorExpression() (string, error) {
	src := strings.TrimSpace(stripLeadingComments(collectorSource))
	if src == "" {
		return "", fmt.Errorf("embedded collector.js is empty or failed to load")
	}
	props, err := json.Marshal(style.PropertyNames())
	if err != nil {
		return "", fmt.Errorf("failed to encode style property list: %w", err)
	}
	return src + "(" + string(props) + ")", nil
}

// stripLeadingComments drops the file header so the source is a bare
// function expression.
func stripLeadingComments(src string) string {
	for {
		src = strings.TrimLeft(src, " \t\r\n")
		if !strings.HasPrefix(src, "//") {
			return src
		}
		nl := strings.IndexByte(src, '\n')
		if nl < 0 {
			return ""
		}
		src = src[nl+1:]
	}
}
