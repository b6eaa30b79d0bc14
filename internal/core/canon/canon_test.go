package canon

import "testing"

func TestName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acme, Inc.", "acme"},
		{"ACME INC", "acme"},
		{"Globex Corp", "globex"},
		{"Initech LLC", "initech"},
		{"Umbrella Pty", "umbrella"},
		{"Wayne & Co.", "wayne"},
		{"  Stark   Industries  ", "stark industries"},
		{"The Co Operative Bank", "the co operative bank"}, // mid-name tokens survive
		{"Inc", "inc"},   // suffix as the only token is kept
		{"Café Ltd", "cafe"},
		{"ＡＣＭＥ", "acme"}, // fullwidth folds to ascii
		{"", ""},
		{"   ", ""},
		{"!!!", ""},
	}
	for _, c := range cases {
		if got := Name(c.in); got != c.want {
			t.Fatalf("Name(%q): got %q want %q", c.in, got, c.want)
		}
	}
}

func TestNameIdempotent(t *testing.T) {
	for _, in := range []string{"Acme, Inc.", "Globex Corp", "stark industries"} {
		once := Name(in)
		if twice := Name(once); twice != once {
			t.Fatalf("Name not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"example.com", "examplecom"},
		{"https://www.Example.COM/", "examplecom"},
		{"http://example.com/path?q=1", "examplecom"},
		{"www.example.co.uk", "examplecouk"},
		{"Example.com ", "examplecom"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := Domain(c.in); got != c.want {
			t.Fatalf("Domain(%q): got %q want %q", c.in, got, c.want)
		}
	}
}

func TestDomainRoundTrip(t *testing.T) {
	if Domain("https://www.Example.COM/") != Domain("example.com") {
		t.Fatalf("url and bare domain should canonicalize identically")
	}
}
