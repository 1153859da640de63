package normalize

import (
	"testing"
)

func TestFold_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "empty", in: "", out: ""},
		{name: "identity ascii", in: "tokyo", out: "tokyo"},
		{name: "case fold", in: "English", out: "english"},
		{name: "fullwidth latin", in: "Ｔｏｋｙｏ", out: "tokyo"},
		{name: "halfwidth kana", in: "ﾅｲﾄﾂｱｰ", out: "ナイトツアー"},
		{name: "kanji untouched", in: "東京都 渋谷区", out: "東京都 渋谷区"},
		{name: "ideographic space collapses", in: "京都　嵐山", out: "京都 嵐山"},
		{name: "zero width removed", in: "Os\u200Baka", out: "osaka"},
		{name: "nfkc ligature", in: "ﬁsh market", out: "fish market"},
		{name: "utf8 repair", in: string([]byte{0xff, 'n', 'a', 'r', 'a', 0x80}), out: "nara"},
		{name: "control bytes dropped", in: "foo\x00d tour", out: "food tour"},
		{name: "collapse and trim", in: "  night \t\n tour  ", out: "night tour"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Fold(tc.in); got != tc.out {
				t.Fatalf("Fold(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestFold_Idempotent(t *testing.T) {
	inputs := []string{"Ｆｏｏｄ Tour", "ﾅｲﾄ", "Japanese", "  a  b  "}
	for _, in := range inputs {
		once := Fold(in)
		if twice := Fold(once); twice != once {
			t.Fatalf("Fold not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestFoldAll_DropsBlanks(t *testing.T) {
	got := FoldAll([]string{"Food", "  ", "", "NIGHT tour"})
	if len(got) != 2 || got[0] != "food" || got[1] != "night tour" {
		t.Fatalf("unexpected FoldAll result %q", got)
	}
}

func TestSanitize_FastPathReturnsInput(t *testing.T) {
	in := "plain text\nwith newline"
	if got := Sanitize(in); got != in {
		t.Fatalf("Sanitize changed clean input: %q", got)
	}
}

func TestSanitize_DropsControlsAndBadBytes(t *testing.T) {
	cases := map[string]string{
		"a\u0085b\x7fc":  "abc",
		"To\x00kyo":       "Tokyo",
		"Osa\xffka":       "Osaka",
		"京都\x1b[0m\tok": "京都[0m\tok",
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}
