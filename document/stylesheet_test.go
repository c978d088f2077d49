package document

import "testing"

func TestResolveFallsBackToDefaults(t *testing.T) {
	var empty StyleSheet
	if got := empty.Resolve("heading1"); got.FontSize != 28 || !got.Bold {
		t.Fatalf("empty sheet should fall back to defaults, got %+v", got)
	}
	if got := empty.Resolve("unknown-kind"); got.FontSize != 16 {
		t.Fatalf("unknown key should resolve to paragraph, got %+v", got)
	}
}

func TestResolvePrefersSheetEntry(t *testing.T) {
	sheet := DefaultStyleSheet()
	custom := sheet.Styles["paragraph"]
	custom.FontSize = 20
	sheet.Styles["paragraph"] = custom

	if got := sheet.Resolve("paragraph"); got.FontSize != 20 {
		t.Fatalf("sheet entry should win, got %+v", got)
	}
	// Other documents keep the built-in value.
	if got := DefaultStyleSheet().Resolve("paragraph"); got.FontSize != 16 {
		t.Fatalf("defaults leaked a mutation, got %+v", got)
	}
}

func TestArabicDefaultStyle(t *testing.T) {
	style := DefaultStyleSheet().Resolve("arabic")
	if style.Direction != DirRTL {
		t.Fatalf("arabic style must read rtl, got %v", style.Direction)
	}
	if style.FontSize != 18 || style.LineHeight != 2.0 {
		t.Fatalf("unexpected arabic metrics %+v", style)
	}
}
