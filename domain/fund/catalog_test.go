package fund

import (
	"errors"
	"testing"
)

func mustRecord(t *testing.T, name string) Record {
	t.Helper()
	r, err := NewRecord(name, map[Field]string{FieldType: "ELSS"})
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	return r
}

func TestNewCatalog_PreservesOrder(t *testing.T) {
	c, err := NewCatalog("test", []Record{
		mustRecord(t, "B"),
		mustRecord(t, "A"),
		mustRecord(t, "C"),
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	names := []string{"B", "A", "C"}
	for i, name := range names {
		if c.At(i).Name() != name {
			t.Errorf("At(%d) = %q, want %q", i, c.At(i).Name(), name)
		}
	}
	if texts := c.Texts(); texts[1] != "A ELSS" {
		t.Errorf("Texts()[1] = %q, want %q", texts[1], "A ELSS")
	}
}

func TestNewCatalog_Find(t *testing.T) {
	c, err := NewCatalog("test", []Record{mustRecord(t, "A")})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	if _, ok := c.Find("A"); !ok {
		t.Error("expected to find A")
	}
	if _, ok := c.Find("missing"); ok {
		t.Error("did not expect to find missing")
	}
}

func TestNewCatalog_Empty(t *testing.T) {
	_, err := NewCatalog("empty.csv", nil)
	if !errors.Is(err, ErrCatalogLoad) {
		t.Fatalf("expected ErrCatalogLoad, got %v", err)
	}
}

func TestNewCatalog_DuplicateName(t *testing.T) {
	_, err := NewCatalog("dup.csv", []Record{mustRecord(t, "A"), mustRecord(t, "A")})

	var loadErr *CatalogLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected CatalogLoadError, got %v", err)
	}
	if loadErr.Line() != 2 {
		t.Errorf("Line() = %d, want 2", loadErr.Line())
	}
	if loadErr.Source() != "dup.csv" {
		t.Errorf("Source() = %q, want dup.csv", loadErr.Source())
	}
}

func TestCatalogLoadError_Message(t *testing.T) {
	cause := errors.New("boom")
	err := NewCatalogLoadError("funds.csv", 3, "bad row", cause)

	want := "load catalog funds.csv (record 3): bad row: boom"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("should unwrap to cause")
	}
}
