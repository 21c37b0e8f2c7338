package branding

// DefaultPerPage is the dashboard page size.
const DefaultPerPage = 10

// Page is one slice of a branding list.
type Page struct {
	Items  []Branding
	Number int
	Total  int
}

// Paginate returns page number (1-based) of items. Out of range page numbers
// are clamped; an empty list still has one page.
func Paginate(items []Branding, number, perPage int) Page {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := max(1, (len(items)+perPage-1)/perPage)
	number = min(max(number, 1), total)

	start := (number - 1) * perPage
	end := min(start+perPage, len(items))
	return Page{Items: items[start:end], Number: number, Total: total}
}
