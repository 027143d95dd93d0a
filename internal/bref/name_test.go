package bref

import "testing"

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, first, last string
	}{
		{"", "", ""},
		{"Ichiro", "Ichiro", ""},
		{"Babe Ruth", "Babe", "Ruth"},
		{"Ken Griffey Jr.", "Ken", "Griffey Jr."},
		{"Cal Ripken Jr", "Cal", "Ripken Jr"},
		{"Pete Alonso III", "Pete", "Alonso III"},
		{"Juan Carlos Ortiz", "Juan Carlos", "Ortiz"},
		{"Smith Jr.", "Smith", "Jr."},
		{"  Mookie   Betts  ", "Mookie", "Betts"},
	}
	for _, tt := range tests {
		f, l := SplitName(tt.in)
		if f != tt.first || l != tt.last {
			t.Errorf("SplitName(%q) = %q,%q want %q,%q", tt.in, f, l, tt.first, tt.last)
		}
	}
}

func TestDisplayName(t *testing.T) {
	doc := mustDoc(t, `<body><h1>Site</h1><h1 itemprop="name"><span>Ken</span> <span>Griffey Jr.</span></h1></body>`)
	if got := DisplayName(doc); got != "Ken Griffey Jr." {
		t.Errorf("DisplayName = %q", got)
	}
	doc = mustDoc(t, `<body><h1> Plain   Name </h1></body>`)
	if got := DisplayName(doc); got != "Plain Name" {
		t.Errorf("fallback DisplayName = %q", got)
	}
	doc = mustDoc(t, `<body><p>no heading</p></body>`)
	if got := DisplayName(doc); got != "" {
		t.Errorf("empty DisplayName = %q", got)
	}
}
