package cmd

import (
	"strings"
	"testing"
)

func TestRunArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no dash", []string{"run", "server", "dev"}, "missing command"},
		{"empty command", []string{"run", "server", "dev", "--"}, "missing command"},
		{"too many selectors", []string{"run", "a", "b", "c", "--", "true"}, "at most 2 arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withGlobals(t)
			rootCmd.SetArgs(tt.args)
			defer rootCmd.SetArgs(nil)

			err := rootCmd.Execute()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
