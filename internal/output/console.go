package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fatih/color"
	"github.com/samvad-hq/http-methods/internal/app"
	"github.com/samvad-hq/http-methods/pkg/httpmethods"
)

// ConsoleRenderer prints a colored, human oriented summary.
type ConsoleRenderer struct {
	NoColor bool
}

// Render writes the summary of rep to w.
func (c ConsoleRenderer) Render(w io.Writer, rep app.Report) error {
	green := color.New(color.FgGreen, color.Bold)
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)
	dim := color.New(color.Faint)
	for _, col := range []*color.Color{green, red, yellow, dim} {
		if c.NoColor {
			col.DisableColor()
		} else {
			col.EnableColor()
		}
	}

	target := rep.Parameters.Method + " " + httpmethods.Build(rep.Parameters).URL
	if rep.Skipped {
		yellow.Fprintf(w, "SKIPPED ")
		fmt.Fprintf(w, "%s (check mode)\n", target)
		return nil
	}

	res := rep.Result
	if res == nil {
		red.Fprint(w, "FAIL ")
		fmt.Fprintf(w, "%s (no result)\n", target)
		return nil
	}
	if res.Succeeded() {
		green.Fprint(w, "OK   ")
	} else {
		red.Fprint(w, "FAIL ")
	}
	fmt.Fprintf(w, "%s", target)
	if res.HasResponse() {
		fmt.Fprintf(w, " -> %d", res.Status)
	}
	dim.Fprintf(w, " (%s)\n", rep.Duration)
	fmt.Fprintf(w, "  msg: %s\n", res.Message)
	if res.ErrorKind != "" {
		fmt.Fprintf(w, "  error: %s\n", res.ErrorKind)
	}

	if len(res.Headers) > 0 {
		fmt.Fprintln(w, "  headers:")
		keys := make([]string, 0, len(res.Headers))
		for k := range res.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			dim.Fprintf(w, "    %s: ", k)
			fmt.Fprintln(w, res.Headers[k])
		}
	}

	if res.Body != nil {
		if title, ok := HTMLTitle(res.Body); ok {
			fmt.Fprintf(w, "  html title: %s\n", title)
		}
		raw, err := json.MarshalIndent(res.Body, "  ", "  ")
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		fmt.Fprintf(w, "  body: %s\n", raw)
	}
	return nil
}

// HTMLTitle returns the document title when body is the non-JSON fallback holding HTML.
func HTMLTitle(body any) (string, bool) {
	m, ok := body.(map[string]any)
	if !ok || len(m) != 1 {
		return "", false
	}
	content, ok := m["content"].(string)
	if !ok || !strings.Contains(strings.ToLower(content), "<html") {
		return "", false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", false
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	return title, title != ""
}
