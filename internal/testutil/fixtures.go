package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// QueriesXML is a classification tree for four keyword queries over five
// articles: "aap" matches 1-4, "noot" 1, 2 and 4, "mies" 1, and "v" 5.
const QueriesXML = `<?xml version="1.0" encoding="utf-8"?>
<ClassificationTree version="1.0">
  <ObjectSet>
    <Object ID="1"><Name>Click to View Article</Name><Location>1</Location></Object>
    <Object ID="2"><Name>Click to View Article</Name><Location>2</Location></Object>
    <Object ID="3"><Name>Click to View Article</Name><Location>3</Location></Object>
    <Object ID="4"><Name>Click to View Article</Name><Location>4</Location></Object>
    <Object ID="5"><Name>Click to View Article</Name><Location>5</Location></Object>
  </ObjectSet>
  <ClassificationSet>
    <Classification ID="root">
      <Name>Root</Name><Objects objectIDs="1 2 3 4 5" />
    </Classification>
    <Classification ID="aap">
      <Name>aap</Name><SuperClass refs="root" /><Objects objectIDs="1 2 3 4" />
    </Classification>
    <Classification ID="noot">
      <Name>noot</Name><SuperClass refs="root" /><Objects objectIDs="1 2 4" />
    </Classification>
    <Classification ID="mies">
      <Name>mies</Name><SuperClass refs="root" /><Objects objectIDs="1" />
    </Classification>
    <Classification ID="vuur">
      <Name>v</Name><SuperClass refs="root" /><Objects objectIDs="5" />
    </Classification>
  </ClassificationSet>
</ClassificationTree>
`

// MalformedXML is truncated mid-document.
const MalformedXML = `<?xml version="1.0"?>
<ClassificationTree version="1.0">
  <ObjectSet>
    <Object ID="1"><Name>broken</Name>
`

// WriteFile writes content under dir and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}
