package exam

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAnswerIsEmpty(t *testing.T) {
	cases := []struct {
		name  string
		ans   Answer
		empty bool
	}{
		{"blank text", TextAnswer("   "), true},
		{"text", TextAnswer("42"), false},
		{"all-blank list", ListAnswer([]string{"", "  "}), true},
		{"list with one entry", ListAnswer([]string{"", "iron"}), false},
		{"blank table", TableAnswer([][]string{{"", ""}, {"", ""}}), true},
		{"table with one cell", TableAnswer([][]string{{"", "7"}}), false},
		{"graph no marks", DrawnAnswer(&GraphAnswer{}), true},
		{"graph one point", DrawnAnswer(&GraphAnswer{Points: []Point{{1, 2}}}), false},
		{"graph one line", DrawnAnswer(&GraphAnswer{Lines: []Line{{0, 0, 1, 1}}}), false},
		{"zero value", Answer{}, true},
	}
	for _, tc := range cases {
		if got := tc.ans.IsEmpty(); got != tc.empty {
			t.Errorf("%s: IsEmpty = %v, want %v", tc.name, got, tc.empty)
		}
	}
}

func TestAnswerWireShapes(t *testing.T) {
	cases := []struct {
		ans  Answer
		wire string
	}{
		{TextAnswer("hello"), `"hello"`},
		{ListAnswer([]string{"a", "b"}), `["a","b"]`},
		{TableAnswer([][]string{{"1", "2"}}), `[["1","2"]]`},
		{DrawnAnswer(&GraphAnswer{Points: []Point{{1, 2}}, Lines: []Line{}}), `{"points":[{"x":1,"y":2}],"lines":[]}`},
	}
	for _, tc := range cases {
		b, err := json.Marshal(tc.ans)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(b) != tc.wire {
			t.Errorf("wire = %s, want %s", b, tc.wire)
		}

		var back Answer
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		b2, _ := json.Marshal(back)
		if string(b2) != tc.wire {
			t.Errorf("round trip changed wire form: %s -> %s", tc.wire, b2)
		}
	}
}

func TestAnswerUnmarshal_EmptyListStaysList(t *testing.T) {
	var a Answer
	if err := json.Unmarshal([]byte(`[]`), &a); err != nil {
		t.Fatal(err)
	}
	if a.Kind != KindList {
		t.Fatalf("kind = %v, want list", a.Kind)
	}
}

func TestForMarking_GraphEnumeratesPoints(t *testing.T) {
	a := DrawnAnswer(&GraphAnswer{
		Points: []Point{{1, 2}, {3, 4.5}},
		Lines:  []Line{{0, 0, 10, 20}},
	})
	out := a.ForMarking()
	for _, want := range []string{"(1.00, 2.00)", "(3.00, 4.50)", "(0.00, 0.00) -> (10.00, 20.00)"} {
		if !strings.Contains(out, want) {
			t.Errorf("serialized graph missing %q:\n%s", want, out)
		}
	}
}

func TestForMarking_ListSkipsBlankEntries(t *testing.T) {
	a := ListAnswer([]string{"iron", "", "zinc"})
	out := a.ForMarking()
	if out != "1. iron\n2. zinc" {
		t.Errorf("out = %q", out)
	}
}
