package allocation

import "testing"

func TestParseLine(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want ParsedLine
	}{
		{"size then color", "[123] Dress (M, Red)", ParsedLine{SKU: "123", Size: "M", Color: "Red"}},
		{"color then size", "[123] Dress (Red, M)", ParsedLine{SKU: "123", Size: "M", Color: "Red"}},
		{"single color", "[123] Dress (Red)", ParsedLine{SKU: "123", Color: "Red"}},
		{"single numeric size", "[123] Jeans (32)", ParsedLine{SKU: "123", Size: "32"}},
		{"age size", "[88] Kids Tee (6Y, Blue)", ParsedLine{SKU: "88", Size: "6Y", Color: "Blue"}},
		{"age size months lowercase", "[88] Onesie (18mo, White)", ParsedLine{SKU: "88", Size: "18mo", Color: "White"}},
		{"range size", "[55] Socks (6/7, Black)", ParsedLine{SKU: "55", Size: "6/7", Color: "Black"}},
		{"two numerics default color first", "[9] Item (6, 8)", ParsedLine{SKU: "9", Color: "6", Size: "8"}},
		{"arabic comma", "[321] فستان (Red، L)", ParsedLine{SKU: "321", Color: "Red", Size: "L"}},
		{"last parenthetical wins", "[77] Shirt (new) (XL, Navy)", ParsedLine{SKU: "77", Size: "XL", Color: "Navy"}},
		{"empty parenthetical", "[12] Plain ()", ParsedLine{SKU: "12"}},
		{"no parenthetical", "[12] Plain", ParsedLine{SKU: "12"}},
		{"no sku", "Summer Dresses", ParsedLine{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseLine(tc.text)
			if got != tc.want {
				t.Errorf("ParseLine(%q) = %+v, want %+v", tc.text, got, tc.want)
			}
		})
	}
}

func TestClassifyPair(t *testing.T) {
	testCases := []struct {
		name  string
		parts []string
		want  PairOrder
	}{
		{"empty", nil, OrderNone},
		{"single size", []string{"32"}, OrderSingleSize},
		{"single color", []string{"Red"}, OrderSingleColor},
		{"size first", []string{"M", "Red"}, OrderSizeFirst},
		{"color first", []string{"Red", "M"}, OrderColorFirst},
		{"both sizes defaults color first", []string{"6", "8"}, OrderColorFirst},
		{"neither defaults color first", []string{"Red", "Blue"}, OrderColorFirst},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyPair(tc.parts); got != tc.want {
				t.Errorf("ClassifyPair(%v) = %d, want %d", tc.parts, got, tc.want)
			}
		})
	}
}

func TestIsSizeToken(t *testing.T) {
	for _, tok := range []string{"6", "32", "XS", "xl", "XXXL", "6Y", "18MO", "6mo", "6/7"} {
		if !IsSizeToken(tok) {
			t.Errorf("expected %q to match the size grammar", tok)
		}
	}
	for _, tok := range []string{"", "Red", "6Z", "MO", "6/", "/7", "X L", "XXXXL"} {
		if IsSizeToken(tok) {
			t.Errorf("expected %q not to match the size grammar", tok)
		}
	}
}

func TestIsQuantityHeader(t *testing.T) {
	for _, text := range []string{"quantity", "Quantity", " QUANTITY "} {
		if !IsQuantityHeader(text) {
			t.Errorf("expected %q to be the quantity header", text)
		}
	}
	if IsQuantityHeader("quantities") {
		t.Error("expected 'quantities' not to be the quantity header")
	}
}
