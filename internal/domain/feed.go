package domain

// FeedProduct is one base product from the feed document. Every collection is
// already normalized to a slice by the parser, whatever the source cardinality.
type FeedProduct struct {
	ID          string
	Code        string
	Name        string
	Description string

	Price         string
	CheapestPrice string

	ManufacturerID string
	TypeID         string
	DefaultColorID string

	Images         []ImageEntry
	AlternateViews []AlternateView

	// HasSizeNodes is true when the document declared at least one size node,
	// even if every declared size is later excluded.
	HasSizeNodes bool
	Sizes        []SizeEntry
	Colors       []ColorEntry
	CategoryIDs  []string
}

type SizeEntry struct {
	ID       string
	Name     string
	Value    string
	Label1   string
	Label2   string
	Selected bool
}

type ColorEntry struct {
	ID       string
	GroupID  string
	Name     string
	SubNames []string
	Selected bool
}

type ImageEntry struct {
	Type string
	Src  string
}

// AlternateView is an image from the secondary "alternate views" source.
type AlternateView struct {
	Name string
	Src  string
}

// Metadata holds lookups resolved from the metadata document.
type Metadata struct {
	Categories    map[string]string // category id -> "Parent > Child" path
	Manufacturers map[string]string // manufacturer id -> name
}
