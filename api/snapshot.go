package api

// Category names a vocabulary bucket. The string values are the JSON keys
// of a content snapshot.
type Category string

const (
	Classes    Category = "classes"
	Properties Category = "properties"
	Entities   Category = "entities"
	Literals   Category = "literals"
)

// Categories lists every bucket in snapshot key order.
var Categories = []Category{Classes, Properties, Entities, Literals}

// ParseCategory maps a bucket name to its Category.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

const (
	// MetadataFile is the per-dataset metadata document.
	MetadataFile = "dataset_metadata.json"
	// ContentFile is the snapshot written in plain mode.
	ContentFile = "dataset_content_jena.json"
	// DedupContentFile is the snapshot written in deduplication mode.
	DedupContentFile = "dataset_content_jena_deduplication.json"

	// MinedKey flags a dataset as mined in its metadata.
	MinedKey = "mined_jena"
	// MinedFilesKey holds the mined file count (plain) or names (dedup).
	MinedFilesKey = "mined_files_jena"
)

// Snapshot is the per-dataset content document. Each bucket keeps insertion
// order; a nil bucket is never serialized, see NewSnapshot.
type Snapshot struct {
	// Classes holds class terms.
	Classes []string `json:"classes"`
	// Properties holds predicate local names.
	Properties []string `json:"properties"`
	// Entities holds subject and non-literal object terms.
	Entities []string `json:"entities"`
	// Literals holds literal lexical forms.
	Literals []string `json:"literals"`
}

// NewSnapshot returns a snapshot whose buckets all exist and are empty.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Classes:    []string{},
		Properties: []string{},
		Entities:   []string{},
		Literals:   []string{},
	}
}

// Add appends value to the bucket of c.
func (s *Snapshot) Add(c Category, value string) {
	b := s.bucket(c)
	*b = append(*b, value)
}

// Bucket returns the values of c.
func (s *Snapshot) Bucket(c Category) []string {
	return *s.bucket(c)
}

// Append appends every bucket of other to s.
func (s *Snapshot) Append(other *Snapshot) {
	for _, c := range Categories {
		b := s.bucket(c)
		*b = append(*b, other.Bucket(c)...)
	}
}

// Len returns the total number of values over all buckets.
func (s *Snapshot) Len() int {
	return len(s.Classes) + len(s.Properties) + len(s.Entities) + len(s.Literals)
}

// Normalize replaces nil buckets (e.g. after decoding a document that lacks
// a key) with empty ones.
func (s *Snapshot) Normalize() {
	for _, c := range Categories {
		if b := s.bucket(c); *b == nil {
			*b = []string{}
		}
	}
}

func (s *Snapshot) bucket(c Category) *[]string {
	switch c {
	case Classes:
		return &s.Classes
	case Properties:
		return &s.Properties
	case Entities:
		return &s.Entities
	case Literals:
		return &s.Literals
	default:
		panic("api: unknown category " + string(c))
	}
}

// CleanSnapshot is the reduced document written by the content cleaner.
type CleanSnapshot struct {
	Entities []string `json:"entities"`
	Literals []string `json:"literals"`
}
