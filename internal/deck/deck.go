// Package deck orders the generated pages and assembles them into the
// print document.
package deck

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind tags a page for ordering.
type Kind int

const (
	Title Kind = iota
	Content
	Index
)

func (k Kind) String() string {
	switch k {
	case Title:
		return "title"
	case Content:
		return "content"
	case Index:
		return "index"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

const (
	titlePrefix = "title_"
	indexPrefix = "index_"
)

// PageID identifies one page of the deck.
type PageID struct {
	Kind  Kind
	Index int
}

// TitlePage, ContentPage and IndexPage build page identifiers.
func TitlePage(i int) PageID   { return PageID{Kind: Title, Index: i} }
func ContentPage(n int) PageID { return PageID{Kind: Content, Index: n} }
func IndexPage(i int) PageID   { return PageID{Kind: Index, Index: i} }

// Name is the artifact name of the page: "title_<i>", "<n>" or "index_<i>".
func (p PageID) Name() string {
	switch p.Kind {
	case Title:
		return titlePrefix + strconv.Itoa(p.Index)
	case Index:
		return indexPrefix + strconv.Itoa(p.Index)
	}
	return strconv.Itoa(p.Index)
}

func (p PageID) String() string { return p.Name() }

// ParsePageID is the inverse of PageID.Name. A trailing ".png" is ignored.
func ParsePageID(name string) (PageID, error) {
	base := strings.TrimSuffix(name, ".png")
	kind, digits := Content, base
	switch {
	case strings.HasPrefix(base, titlePrefix):
		kind, digits = Title, strings.TrimPrefix(base, titlePrefix)
	case strings.HasPrefix(base, indexPrefix):
		kind, digits = Index, strings.TrimPrefix(base, indexPrefix)
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 || digits != strconv.Itoa(n) {
		return PageID{}, fmt.Errorf("not a page name: %q", name)
	}
	return PageID{Kind: kind, Index: n}, nil
}

// Compare orders title pages before content pages before index pages,
// and by index within a kind.
func Compare(a, b PageID) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	return cmp.Compare(a.Index, b.Index)
}

// Sequence parses and sorts page names. Names that are not pages are
// returned in skipped, in input order.
func Sequence(names []string) (pages []PageID, skipped []string) {
	for _, n := range names {
		id, err := ParsePageID(n)
		if err != nil {
			skipped = append(skipped, n)
			continue
		}
		pages = append(pages, id)
	}
	slices.SortStableFunc(pages, Compare)
	return pages, skipped
}

// Order returns the page names in print order, dropping anything that
// is not a page name.
func Order(names []string) []string {
	pages, _ := Sequence(names)
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Name()
	}
	return out
}
