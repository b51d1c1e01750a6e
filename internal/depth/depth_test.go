package depth

import "testing"

func TestDelta(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"if (a) { x(); } else { y(); }", 0},
		{"if (a) {", 1},
		{"}", -1},
		{"});", -1},
		{"}}", -2},
		{`var s = "{";`, 0},
		{"x(); // {", 0},
		{"/* } */ if (b) {", 1},
		{"var re = /\\{+/g; {", 1},
		{"list.forEach(function(i){", 1},
		{"", 0},
	}
	for _, tt := range tests {
		if got := Delta(tt.code); got != tt.want {
			t.Errorf("Delta(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestAdjustment(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"} else {", -1},
		{"}else if (a > 1) {", -1},
		{" } ELSE { ", -1},
		{"} catch (e) {", -1},
		{"} finally {", -1},
		{"});", -1},
		{"}, 1);", -1},
		{"} }", -2},
		{"if (a) {", 0},
		{"x = 1;", 0},
	}
	for _, tt := range tests {
		if got := Adjustment(tt.code); got != tt.want {
			t.Errorf("Adjustment(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestOpensClosesBlock(t *testing.T) {
	opens := []string{"if (a) {", "case 1:", "default:", "  for (;;) {  "}
	for _, c := range opens {
		if !OpensBlock(c) {
			t.Errorf("OpensBlock(%q) = false", c)
		}
	}
	if OpensBlock("x = 1;") {
		t.Error("plain statement must not open a block")
	}
	closes := []string{"}", "});", "} else {"}
	for _, c := range closes {
		if !ClosesBlock(c) {
			t.Errorf("ClosesBlock(%q) = false", c)
		}
	}
	if ClosesBlock("var a = b;") {
		t.Error("plain statement must not close a block")
	}
}
