package domain

import "fmt"

// RefRenderer renders one product as a single reference line. Rendering is
// a pure function of the product, so the display policy can change without
// touching matching or assembly logic.
type RefRenderer func(Product) string

// MarkdownRef renders a masked markdown link followed by the price.
func MarkdownRef(p Product) string {
	return fmt.Sprintf("- [%s](%s) - %s", p.Title, p.URL, p.Price)
}

// PlainRef renders the title, price and bare URL without markup.
func PlainRef(p Product) string {
	return fmt.Sprintf("- %s - %s - %s", p.Title, p.Price, p.URL)
}

// HTMLRef renders an HTML anchor followed by the price.
func HTMLRef(p Product) string {
	return fmt.Sprintf(`<a href="%s">%s</a> - %s`, p.URL, p.Title, p.Price)
}
