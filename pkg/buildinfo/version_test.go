package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.Contains(tmpl, "{{.Name}} version "+Version) {
		t.Errorf("Template() = %q, missing version line", tmpl)
	}
	if !strings.Contains(tmpl, "commit: "+Commit) {
		t.Errorf("Template() = %q, missing commit", tmpl)
	}
	if !strings.Contains(tmpl, "algorithm: "+AlgorithmVersion) {
		t.Errorf("Template() = %q, missing algorithm", tmpl)
	}
}

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version || info.Algorithm != AlgorithmVersion {
		t.Errorf("Get() = %+v", info)
	}
	if s := info.String(); !strings.Contains(s, Version) || !strings.Contains(s, AlgorithmVersion) {
		t.Errorf("String() = %q", s)
	}
}
