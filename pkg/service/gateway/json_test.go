package gateway_test

import (
	"strings"
	"testing"

	"github.com/hashcare/hashcare/pkg/service/gateway"
	"github.com/m-mizutani/gt"
)

func TestExtractJSON(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "bare object", input: `{"a":1}`, want: `{"a":1}`, ok: true},
		{name: "prose around object", input: `Sure! {"a":1} hope it helps`, want: `{"a":1}`, ok: true},
		{name: "code fence", input: "```json\n[1,2]\n```", want: "[1,2]", ok: true},
		{name: "brace inside string", input: `{"a":"}{"}`, want: `{"a":"}{"}`, ok: true},
		{name: "escaped quote inside string", input: `{"a":"say \"}\""}`, want: `{"a":"say \"}\""}`, ok: true},
		{name: "nested", input: `x {"a":[{"b":{}}]} y`, want: `{"a":[{"b":{}}]}`, ok: true},
		{name: "skips invalid candidate", input: `{oops} then {"ok":true}`, want: `{"ok":true}`, ok: true},
		{name: "unterminated", input: "Sure! Here is the data: {not valid json", ok: false},
		{name: "mismatched brackets", input: `{"a":[1}`, ok: false},
		{name: "no json", input: "nothing here", ok: false},
		{name: "object inside unterminated one", input: `{ note {"a":1}`, want: `{"a":1}`, ok: true},
		{name: "quoted brace before object", input: `say "{" then {"a":1}`, want: `{"a":1}`, ok: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := gateway.ExtractJSON(tc.input)
			gt.V(t, ok).Equal(tc.ok)
			gt.V(t, got).Equal(tc.want)
		})
	}
}

func TestExtractJSON_LongUnbalancedReply(t *testing.T) {
	// every bracket would be rescanned to the end without caching
	input := strings.Repeat("{", 200000) + strings.Repeat("[", 200000)
	got, ok := gateway.ExtractJSON(input)
	gt.B(t, ok).False()
	gt.V(t, got).Equal("")

	got, ok = gateway.ExtractJSON(strings.Repeat("{", 200000) + `{"a":1}`)
	gt.B(t, ok).True()
	gt.V(t, got).Equal(`{"a":1}`)
}
