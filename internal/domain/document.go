// Package domain defines the entities of the CMS: localized content documents,
// users, media assets, checksheet records, and the sentinel errors shared by
// all layers.
package domain

import (
	"encoding/json"
	"time"
)

// Document is a localized content record identified by (Collection, ID).
// Content maps language tags ("en", "id", ...) to opaque JSON payloads; the
// store never inspects payload shape.
type Document struct {
	Collection string
	ID         string
	Content    map[string]json.RawMessage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Value returns the payload stored under the given language tag.
// The second return reports whether the language key is present.
func (d *Document) Value(lang string) (json.RawMessage, bool) {
	v, ok := d.Content[lang]
	return v, ok
}

// Languages returns the language tags present on the document.
func (d *Document) Languages() []string {
	langs := make([]string, 0, len(d.Content))
	for l := range d.Content {
		langs = append(langs, l)
	}
	return langs
}

// Content collections served to the public site. Auxiliary collections
// (users, media, checksheet) are relational tables, not documents.
const (
	CollectionHeader      = "header"
	CollectionHero        = "hero"
	CollectionServices    = "services"
	CollectionAbout       = "about"
	CollectionClients     = "clients"
	CollectionClientsInfo = "clientsInfo"
	CollectionFAQ         = "faq"
	CollectionTestimonial = "testimonial"
	CollectionContact     = "contact"
	CollectionBlog        = "blog"
	CollectionFooter      = "footer"
)

// DefaultLanguage is the language served when the client does not ask for one.
const DefaultLanguage = "en"

// BatchWrite is a request to merge one language's values into many documents
// of a single collection at once.
type BatchWrite struct {
	Language   string
	Collection string
	Data       map[string]json.RawMessage
}

// BatchResult reports the outcome of a batch write as one unit of work.
// Count is the number of documents written; there is no partial success.
type BatchResult struct {
	Count   int
	Message string
}
