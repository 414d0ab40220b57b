package youtube

import (
	"bytes"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/AlphaReposi/YTVV/httpx"
	"github.com/AlphaReposi/YTVV/models"
	"github.com/PuerkitoBio/goquery"
)

const (
	markerInitialData    = "ytInitialData"
	markerPlayerResponse = "ytInitialPlayerResponse"
	commentsPanelID      = "engagement-panel-comments-section"
)

// pageHeaders are sent with every youtube.com page fetch. The CONSENT cookie
// skips the EU consent interstitial.
func pageHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      httpx.UserAgentChrome,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
		"Cookie":          "CONSENT=YES+cb",
	}
}

// parsePage parses an HTML page for script lookups.
func parsePage(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// scriptJSON returns the object literal assigned to name inside any <script>
// tag of doc, e.g. `var ytInitialData = {...};`.
func scriptJSON(doc *goquery.Document, name string) []byte {
	var found []byte
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, name) {
			return true
		}
		found = jsonAfter(text, name)
		return found == nil
	})
	return found
}

// jsonAfter finds `name = {` (or `name"] = {`) in text and returns the object.
func jsonAfter(text, name string) []byte {
	off := 0
	for {
		i := strings.Index(text[off:], name)
		if i < 0 {
			return nil
		}
		off += i + len(name)
		rest := strings.TrimLeft(text[off:], "\"'] \t\r\n")
		if !strings.HasPrefix(rest, "=") {
			continue
		}
		rest = strings.TrimLeft(rest[1:], " \t\r\n")
		if obj := extractJSON([]byte(rest)); obj != nil {
			return obj
		}
	}
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr, escaped := false, false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

// walkJSON visits every object in v depth-first until fn returns false.
func walkJSON(v any, fn func(obj map[string]any) bool) bool {
	switch t := v.(type) {
	case map[string]any:
		if !fn(t) {
			return false
		}
		for _, k := range sortedKeys(t) {
			if !walkJSON(t[k], fn) {
				return false
			}
		}
	case []any:
		for _, child := range t {
			if !walkJSON(child, fn) {
				return false
			}
		}
	}
	return true
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

// textOf reads YouTube's {"simpleText": ...} or {"runs": [{"text": ...}]} shapes.
func textOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if s, ok := t["simpleText"].(string); ok {
			return s
		}
		if runs, ok := t["runs"].([]any); ok {
			var sb strings.Builder
			for _, r := range runs {
				if rm, ok := r.(map[string]any); ok {
					s, _ := rm["text"].(string)
					sb.WriteString(s)
				}
			}
			return sb.String()
		}
	}
	return ""
}

// dig follows keys through nested objects.
func dig(v any, keys ...string) any {
	for _, k := range keys {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[k]
	}
	return v
}

// parseCount reads counts like "1,234", "1.2K", "3M views" or "12 Comments".
func parseCount(s string) int64 {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return 0
	}
	num := strings.ReplaceAll(fields[0], ",", "")
	mult := 1.0
	switch {
	case strings.HasSuffix(num, "K"):
		mult, num = 1e3, strings.TrimSuffix(num, "K")
	case strings.HasSuffix(num, "M"):
		mult, num = 1e6, strings.TrimSuffix(num, "M")
	case strings.HasSuffix(num, "B"):
		mult, num = 1e9, strings.TrimSuffix(num, "B")
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int64(f*mult + 0.5)
}

var uploadDateLayouts = []string{"20060102", "2006-01-02", time.RFC3339}

// NormalizeUploadDate returns s as YYYY-MM-DD, or the fallback placeholder
// when s is not a date any provider is known to send.
func NormalizeUploadDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range uploadDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return models.FallbackUploadDate
}
