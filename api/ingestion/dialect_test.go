package ingestion

import "testing"

func TestDialectByName(t *testing.T) {
	for _, name := range []string{"komet", " KOMET ", "Opbase", "so"} {
		if _, ok := DialectByName(name); !ok {
			t.Errorf("DialectByName(%q) not found", name)
		}
	}
	if _, ok := DialectByName("csv"); ok {
		t.Error("unknown dialect must not resolve")
	}
}

func TestDialectContracts(t *testing.T) {
	for _, name := range DialectNames() {
		d, ok := DialectByName(name)
		if !ok {
			t.Fatalf("advertised dialect %q missing", name)
		}
		if d.KeyField == "" {
			t.Errorf("%s: no key field", name)
		}
		if d.Financial && !d.LoadEnabled {
			t.Errorf("%s: financial dialects are load targets", name)
		}
		if d.Reconcile && d.LineFact == nil {
			t.Errorf("%s: reconciled dialect needs a line-fact extractor", name)
		}
	}
}
