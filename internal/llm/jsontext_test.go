package llm

import (
	"encoding/json"
	"testing"
)

func TestCleanJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"already clean",
			`{"score": 3}`,
			`{"score": 3}`,
		},
		{
			"json code fence",
			"```json\n{\"score\": 3}\n```",
			`{"score": 3}`,
		},
		{
			"bare code fence",
			"```\n{\"score\": 3}\n```",
			`{"score": 3}`,
		},
		{
			"surrounding prose",
			"Here is your result:\n{\"score\": 3, \"feedback\": \"ok\"}\nHope that helps!",
			`{"score": 3, "feedback": "ok"}`,
		},
		{
			"nested objects",
			"x {\"a\": {\"b\": 1}} trailing } noise",
			`{"a": {"b": 1}}`,
		},
		{
			"braces inside strings",
			`{"feedback": "use { and } carefully"}`,
			`{"feedback": "use { and } carefully"}`,
		},
		{
			"escaped quote inside string",
			`{"feedback": "she said \"{\" loudly"}`,
			`{"feedback": "she said \"{\" loudly"}`,
		},
		{
			"no json at all",
			"not json",
			"not json",
		},
		{
			"unterminated object",
			`{"score": 3`,
			`{"score": 3`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanJSON(tc.in); got != tc.want {
				t.Errorf("CleanJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCleanJSON_ResultParses(t *testing.T) {
	in := "Sure! Here's the marking:\n```json\n{\"score\": 2, \"feedback\": \"partial\", \"rewrite\": \"N/A\"}\n```\nLet me know."
	var out struct {
		Score int `json:"score"`
	}
	if err := json.Unmarshal([]byte(CleanJSON(in)), &out); err != nil {
		t.Fatalf("cleaned output does not parse: %v", err)
	}
	if out.Score != 2 {
		t.Fatalf("score = %d, want 2", out.Score)
	}
}
