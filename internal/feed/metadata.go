package feed

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/ETAnderson/catalogsync/internal/domain"
)

const categoryPathSeparator = " > "

type Logger interface {
	Printf(format string, v ...any)
}

// ParseMetadata reads the category tree and manufacturer list. Category
// labels are the full path from the root ("Apparel > Tees").
func ParseMetadata(r io.Reader) (domain.Metadata, error) {
	md := emptyMetadata()

	doc, err := xmlquery.Parse(r)
	if err != nil {
		return md, fmt.Errorf("parse metadata: %w", err)
	}

	for _, c := range xmlquery.Find(doc, "/*/categories/category") {
		walkCategory(c, "", md.Categories)
	}

	for _, m := range xmlquery.Find(doc, "//manufacturers/manufacturer") {
		id := childText(m, "id")
		if id == "" {
			continue
		}
		md.Manufacturers[id] = childText(m, "name")
	}

	return md, nil
}

func walkCategory(n *xmlquery.Node, parent string, out map[string]string) {
	id := childText(n, "id")
	name := childText(n, "name")

	path := parent
	if name != "" {
		if path != "" {
			path += categoryPathSeparator
		}
		path += name
	}
	if id != "" && path != "" {
		out[id] = path
	}

	for _, c := range xmlquery.Find(n, "./categories/category") {
		walkCategory(c, path, out)
	}
}

// LoadMetadataFile never fails: a missing or broken metadata document is
// logged and replaced by empty lookups.
func LoadMetadataFile(path string, logger Logger) domain.Metadata {
	if strings.TrimSpace(path) == "" {
		return emptyMetadata()
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Printf("metadata unavailable path=%s err=%v", path, err)
		return emptyMetadata()
	}
	defer f.Close()

	md, err := ParseMetadata(f)
	if err != nil {
		logger.Printf("metadata ignored path=%s err=%v", path, err)
		return emptyMetadata()
	}

	return md
}

func emptyMetadata() domain.Metadata {
	return domain.Metadata{
		Categories:    map[string]string{},
		Manufacturers: map[string]string{},
	}
}
