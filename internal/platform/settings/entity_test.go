package settings

import "testing"

func TestValidate(t *testing.T) {
	valid := Settings{
		Locales: []Locale{
			{Code: "en-US", Name: "English (US)", Voices: []string{"Joanna"}},
			{Code: "arb", Name: "Arabic", Voices: []string{}},
			{Code: "cmn-CN", Name: "Chinese Mandarin", Voices: []string{"Zhiyu"}},
		},
	}
	if err := Validate(valid); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}

	if err := Validate(Settings{Locales: []Locale{}}); err != nil {
		t.Errorf("empty locale list should be valid, got %v", err)
	}

	tests := []struct {
		name string
		s    Settings
	}{
		{"nil locales", Settings{}},
		{"missing code", Settings{Locales: []Locale{{Name: "X", Voices: []string{}}}}},
		{"bad code format", Settings{Locales: []Locale{{Code: "EN_us", Name: "X", Voices: []string{}}}}},
		{"missing name", Settings{Locales: []Locale{{Code: "en-US", Voices: []string{}}}}},
		{"nil voices", Settings{Locales: []Locale{{Code: "en-US", Name: "X"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.s); err == nil {
				t.Errorf("expected validation failure for %s", tt.name)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	d := Default()
	if len(d.Locales) != 1 || d.Locales[0].Code != "en-US" {
		t.Errorf("unexpected default settings: %+v", d)
	}
	if err := Validate(d); err != nil {
		t.Errorf("default settings should validate: %v", err)
	}
}
