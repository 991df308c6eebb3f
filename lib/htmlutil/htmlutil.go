package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

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
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var blockElements = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.Li:         true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.Tr:         true,
}

func getBlockTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	switch node.Type {
	case html.TextNode:
		buffer.WriteString(node.Data)
		return
	case html.ElementNode:
		if node.DataAtom == atom.Br {
			buffer.WriteByte('\n')
			return
		}
	}

	child := node.FirstChild
	for child != nil {
		getBlockTextRecursive(child, buffer)
		child = child.NextSibling
	}
	if node.Type == html.ElementNode && blockElements[node.DataAtom] {
		buffer.WriteByte('\n')
	}
}

var innerWhitespace = regexp.MustCompile(`[ \t\r\f\v]+`)

func removeNonPrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}

// FragmentText renders an html fragment as plain text, block elements and
// <br> become line breaks and runs of blank space collapse.
func FragmentText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return NormalizeSpace(fragment)
	}

	var buffer bytes.Buffer
	for _, n := range doc.Find("body").Nodes {
		getBlockTextRecursive(n, &buffer)
	}

	lines := strings.Split(removeNonPrintable(buffer.String()), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(innerWhitespace.ReplaceAllString(line, " "))
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// NormalizeSpace unescapes entities, strips tags and collapses all whitespace
// into single spaces, it is meant for one-line values like labels and names.
func NormalizeSpace(fragment string) string {
	text := FragmentTextInline(fragment)
	return strings.Join(strings.Fields(text), " ")
}

// FragmentTextInline is GetText over a parsed fragment.
func FragmentTextInline(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return html.UnescapeString(fragment)
	}
	var buffer bytes.Buffer
	for _, n := range doc.Find("body").Nodes {
		buffer.WriteString(GetText(n))
	}
	return removeNonPrintable(buffer.String())
}
