package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromVCS(t *testing.T) {
	tests := []struct {
		name  string
		start Info
		want  Info
	}{
		{"Unstamped", Info{Version: "dev"}, Info{Version: "dev", Commit: "0123456789ab", Date: "2026-01-02T03:04:05Z", Dirty: true}},
		{"Stamped", Info{Version: "v1.0.0", Commit: "abc", Date: "today"}, Info{Version: "v1.0.0", Commit: "abc", Date: "today", Dirty: true}},
	}
	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		{Key: "vcs.modified", Value: "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start
			fromVCS(&got, settings)
			if got != tt.want {
				t.Errorf("fromVCS = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	for _, want := range []string{"{{.Name}} version ", "commit: ", "built: "} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("Template() = %q, missing %q", tmpl, want)
		}
	}
}
