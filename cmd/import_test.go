package cmd

import "testing"

func TestResolveRecomputeMode(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		want    bool
		wantErr bool
	}{
		{name: "empty is off", mode: "", want: false},
		{name: "off", mode: "off", want: false},
		{name: "on", mode: "on", want: true},
		{name: "yes alias", mode: "YES", want: true},
		{name: "no alias", mode: "no", want: false},
		{name: "invalid", mode: "maybe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveRecomputeMode(tt.mode)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("unexpected value: expected %v, got %v", tt.want, got)
			}
		})
	}
}
