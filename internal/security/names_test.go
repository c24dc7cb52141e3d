package security

import "testing"

func TestValidateRunName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"typical", "jan2026_flat_fieldtrip", false},
		{"with dashes", "feb-2026-retry", false},
		{"empty", "", true},
		{"dot", ".", true},
		{"dotdot", "..", true},
		{"slash", "runs/evil", true},
		{"backslash", `runs\evil`, true},
		{"template prefix", "_analysis_params_template", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRunName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRunName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"mission_042", "mission_042"},
		{"north reef / site 3", "north_reef_site_3"},
		{"..hidden..", "hidden"},
		{"", "unknown"},
		{"///", "unknown"},
		{"Ω survey", "survey"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.input); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
