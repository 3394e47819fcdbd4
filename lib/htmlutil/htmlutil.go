package htmlutil

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText flattens a node into its visible text. Unlike goquery's
// Selection.Text, a <br> contributes a newline, since the menu tables
// use <br> as a dish delimiter and that information must survive
// extraction.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	if node.Type == html.ElementNode && node.Data == "br" {
		buffer.WriteString("\n")
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`[ \t]+`)

// CellText extracts the text of a selection with runs of horizontal
// whitespace collapsed and the ends trimmed. Newlines are preserved.
func CellText(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		getTextRecursive(n, &buffer)
	}
	text := innerWhitespace.ReplaceAllString(buffer.String(), " ")
	return strings.Trim(text, " \t\n")
}
