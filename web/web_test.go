package web

import (
	"io/fs"
	"testing"
)

func TestStaticFS_ContainsPageAssets(t *testing.T) {
	sub, err := fs.Sub(StaticFS, "static")
	if err != nil {
		t.Fatalf("failed to open static dir: %v", err)
	}
	for _, name := range []string{"player.js", "editor.js", "app.css", "player.css"} {
		if _, err := fs.Stat(sub, name); err != nil {
			t.Errorf("expected asset %s: %v", name, err)
		}
	}
}
