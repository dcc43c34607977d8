package domain

import (
	"encoding/json"
	"testing"
)

func TestDocument_Value(t *testing.T) {
	t.Parallel()

	doc := &Document{
		Collection: CollectionAbout,
		ID:         "about_title",
		Content: map[string]json.RawMessage{
			"en": json.RawMessage(`"Fire Safety Experts"`),
			"id": json.RawMessage(`"Pakar Kebakaran"`),
		},
	}

	v, ok := doc.Value("en")
	if !ok {
		t.Fatalf("expected en value to be present")
	}
	if string(v) != `"Fire Safety Experts"` {
		t.Errorf("en value: got %s", v)
	}

	if _, ok := doc.Value("fr"); ok {
		t.Errorf("fr should be absent")
	}
}

func TestDocument_Languages(t *testing.T) {
	t.Parallel()

	doc := &Document{Content: map[string]json.RawMessage{
		"en": json.RawMessage(`{}`),
		"id": json.RawMessage(`{}`),
	}}

	langs := doc.Languages()
	if len(langs) != 2 {
		t.Errorf("languages: got %v", langs)
	}
}
