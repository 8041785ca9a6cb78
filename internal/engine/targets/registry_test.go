package targets

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"bomeusdt", "BOMEUSDT"},
		{"  BOMEUSDT ", "BOMEUSDT"},
		{"\tMewUsdtS\n", "MEWUSDTS"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.expected {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{"Real URL", "https://hook.finandy.com/TuaL5bAQjTO2kP4trlUK", true},
		{"Placeholder marker", "https://hook.finandy.com/PLACEHOLDER_BOMEUSDT", false},
		{"Masked token", "https://hook.finandy.com/XXXXXXXXXXXXXXX", false},
		{"Empty", "", false},
		{"Whitespace", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidURL(tt.url); got != tt.expected {
				t.Errorf("IsValidURL(%q) = %v, want %v", tt.url, got, tt.expected)
			}
		})
	}
}

func TestRegistry_Resolve(t *testing.T) {
	reg := New(map[string]string{
		"BOMEUSDT":  "https://hook.finandy.com/abc123",
		"mewusdt":   "https://hook.finandy.com/def456",
		"LEVERUSDT": "https://hook.finandy.com/XXXXXXXXXXXXXXX",
		"REZUSDT":   "",
	})

	target, ok := reg.Resolve("  bomeusdt ")
	if !ok {
		t.Fatal("expected BOMEUSDT to resolve")
	}
	if !target.Valid {
		t.Error("expected BOMEUSDT to be valid")
	}

	// Keys are normalized at load time
	if _, ok := reg.Resolve("MEWUSDT"); !ok {
		t.Error("expected lowercase-configured symbol to resolve")
	}

	target, ok = reg.Resolve("LEVERUSDT")
	if !ok || target.Valid {
		t.Errorf("expected LEVERUSDT registered but invalid, got ok=%v valid=%v", ok, target.Valid)
	}

	// Empty URL becomes a placeholder
	target, ok = reg.Resolve("REZUSDT")
	if !ok || target.Valid {
		t.Errorf("expected REZUSDT registered but invalid, got ok=%v valid=%v", ok, target.Valid)
	}
	if target.URL == "" {
		t.Error("expected placeholder URL for empty entry")
	}

	if _, ok := reg.Resolve("UNKNOWNSYM"); ok {
		t.Error("expected UNKNOWNSYM to be absent")
	}
}

func TestRegistry_InstrumentsSorted(t *testing.T) {
	reg := New(map[string]string{
		"MEWUSDT":  "https://hook.finandy.com/a",
		"BOMEUSDT": "https://hook.finandy.com/b",
		"CKBUSDT":  "https://hook.finandy.com/c",
	})

	instruments := reg.Instruments()
	if len(instruments) != 3 {
		t.Fatalf("expected 3 instruments, got %d", len(instruments))
	}
	for i := 1; i < len(instruments); i++ {
		if instruments[i-1] >= instruments[i] {
			t.Errorf("instruments not sorted: %v", instruments)
		}
	}
}

func TestRegistry_TargetSplit(t *testing.T) {
	reg := New(map[string]string{
		"BOMEUSDT":  "https://hook.finandy.com/abc123",
		"LEVERUSDT": "https://hook.finandy.com/XXXXXXXXXXXXXXX",
		"REZUSDT":   "https://hook.finandy.com/PLACEHOLDER_REZUSDT",
	})

	valid := reg.ValidTargets()
	placeholder := reg.PlaceholderTargets()

	if len(valid) != 1 {
		t.Errorf("expected 1 valid target, got %d", len(valid))
	}
	if len(placeholder) != 2 {
		t.Errorf("expected 2 placeholder targets, got %d", len(placeholder))
	}
	if _, ok := valid["BOMEUSDT"]; !ok {
		t.Error("expected BOMEUSDT in valid targets")
	}
}
