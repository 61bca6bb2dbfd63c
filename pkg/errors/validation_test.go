package errors

import (
	"testing"
)

func TestValidateSampleName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "cell01", false},
		{"valid with spaces", "ChrI cell 3", false},
		{"valid with dot", "track.v2", false},
		{"valid unicode", "μm track", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path traversal", "..", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSampleName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSampleName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateSampleName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateRunID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"9b2f4c1e-3d5a-4b6c-8e7f-0a1b2c3d4e5f", false},
		{"9B2F4C1E-3D5A-4B6C-8E7F-0A1B2C3D4E5F", false},
		{"", true},
		{"not-a-uuid", true},
		{"9b2f4c1e-3d5a-4b6c-8e7f-0a1b2c3d4e5g", true},
		{"9b2f4c1e33d5a-4b6c-8e7f-0a1b2c3d4e5f", true},
		{"../../../../etc/passwd-000000000000000", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateRunID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRunID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
