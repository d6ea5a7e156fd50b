package providers

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/i474232898/fuel-price-page/internal/common"
)

var (
	errNoTable    = errors.New("no table found in page")
	errEmptyTable = errors.New("price table has no rows")
)

// priceTable is the first table of a page as rows of normalized cell text.
type priceTable [][]string

// readFirstTable parses the document and returns the text of the first table.
func readFirstTable(r io.Reader) (priceTable, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	table := findElement(doc, "table")
	if table == nil {
		return nil, errNoTable
	}

	var rows priceTable
	walkRows(table, func(tr *html.Node) {
		var cells []string
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
				cells = append(cells, common.NormalizeSpace(extractText(c)))
			}
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	if len(rows) == 0 {
		return nil, errEmptyTable
	}
	return rows, nil
}

// value returns the second cell of the first row whose first cell starts
// with label.
func (t priceTable) value(label string) (string, bool) {
	for _, row := range t {
		if _, ok := common.HasAnyPrefix(row[0], label); !ok {
			continue
		}
		if len(row) < 2 {
			return "", false
		}
		return row[1], true
	}
	return "", false
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// walkRows calls fn for every row of table, skipping rows of nested tables.
func walkRows(table *html.Node, fn func(tr *html.Node)) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "tr":
				fn(c)
			case "table":
			default:
				walk(c)
			}
		}
	}
	walk(table)
}

func extractText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
