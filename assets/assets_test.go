package assets

import (
	"bytes"
	"testing"
)

func TestBuild(t *testing.T) {
	b, err := Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if !bytes.Contains(b.Index, []byte("/api/profile")) {
		t.Error("page script not inlined")
	}
	if bytes.Contains(b.Index, []byte("{{")) {
		t.Error("template placeholders left in page")
	}
	if !bytes.Contains(b.Favicon, []byte("<svg")) {
		t.Errorf("favicon = %q", b.Favicon)
	}
}
