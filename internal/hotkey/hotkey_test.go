package hotkey

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "ctrl+shift+s", want: "ctrl+shift+s"},
		{in: "Ctrl+Shift+S", want: "ctrl+shift+s"},
		{in: " control + p ", want: "ctrl+p"},
		{in: "f12", want: "f12"},
		{in: "shift+f5", want: "shift+f5"},
		{in: "ctrl+enter", want: "ctrl+return"},
		{in: "space", want: "space"},
		{in: "", wantErr: true},
		{in: "ctrl+", wantErr: true},
		{in: "alt+s", wantErr: true},
		{in: "ctrl+paragraph", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			spec, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) succeeded, want error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if spec.String() != tt.want {
				t.Errorf("Parse(%q).String() = %q, want %q", tt.in, spec.String(), tt.want)
			}
		})
	}
}
