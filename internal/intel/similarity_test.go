package intel

import "testing"

func TestSimilarity_IdenticalTextIsOne(t *testing.T) {
	text := "Transformers improve machine translation quality"
	if got := Similarity(text, text); got != 1.0 {
		t.Errorf("Similarity(a,a) = %f, want 1.0", got)
	}
}

func TestSimilarity_EmptyTextIsZero(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"both empty", "", ""},
		{"first empty", "", "some text"},
		{"second empty", "some text", ""},
		{"punctuation only", "?!...", "some text"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Similarity(tc.a, tc.b); got != 0 {
				t.Errorf("Similarity(%q, %q) = %f, want 0", tc.a, tc.b, got)
			}
		})
	}
}

func TestSimilarity_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"AI model released today", "AI model released today with benchmarks"},
		{"completely different words here", "nothing shared at all between texts"},
		{"one two three", "three four five"},
	}

	for _, pair := range pairs {
		got := Similarity(pair[0], pair[1])
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q, %q) = %f, out of [0,1]", pair[0], pair[1], got)
		}
	}
}

func TestSimilarity_KnownOverlap(t *testing.T) {
	// Token sets {a,b,c} and {b,c,d}: intersection 2, union 4.
	got := Similarity("alpha beta gamma", "beta gamma delta")
	if got != 0.5 {
		t.Errorf("got %f, want 0.5", got)
	}
}

func TestSimilarity_CaseInsensitive(t *testing.T) {
	if got := Similarity("GPT Model", "gpt model"); got != 1.0 {
		t.Errorf("got %f, want 1.0 for case-differing identical texts", got)
	}
}
