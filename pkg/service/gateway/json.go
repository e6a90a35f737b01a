package gateway

import "encoding/json"

// ExtractJSON returns the first well-formed JSON object or array embedded
// in s. Brackets inside string literals are ignored, so replies wrapped in
// prose or code fences still parse.
func ExtractJSON(s string) (string, bool) {
	// ends[i] caches the scan for the bracket at i: 0 not scanned yet, -1
	// never closed, otherwise the closing index plus one
	ends := make([]int, len(s))

	for start := 0; start < len(s); start++ {
		if s[start] != '{' && s[start] != '[' {
			continue
		}
		if ends[start] == 0 {
			matchClose(s, start, ends)
		}
		if ends[start] < 0 {
			continue
		}
		candidate := s[start:ends[start]]
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}
	return "", false
}

// matchClose scans from the bracket at start and records in ends every
// bracket it sees open outside a string literal. Brackets still open when
// the scan stops at a mismatch or at the end of s cannot close either.
func matchClose(s string, start int, ends []int) {
	type open struct {
		pos  int
		want byte
	}
	var stack []open
	inString, escaped := false, false

	fail := func() {
		for _, o := range stack {
			ends[o.pos] = -1
		}
	}

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, open{pos: i, want: '}'})
		case '[':
			stack = append(stack, open{pos: i, want: ']'})
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1].want != c {
				fail()
				return
			}
			ends[stack[len(stack)-1].pos] = i + 1
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return
			}
		}
	}
	fail()
}
