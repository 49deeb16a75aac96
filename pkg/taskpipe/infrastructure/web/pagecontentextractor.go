package web

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"avolkov.dev/taskpipe/pkg/common"
)

// PageContentExtractor turns a web page into plain text, so that text pipelines (summarization,
// classification) can accept a page URL as input.
type PageContentExtractor struct{}

func NewPageContentExtractor() *PageContentExtractor {
	return &PageContentExtractor{}
}

func (p *PageContentExtractor) ExtractPageContentFromURL(url string) (string, error) {
	page, err := common.ReadAllFromURL(url)
	if err != nil {
		return "", err
	}
	return p.ExtractPageContent(string(page))
}

func (p *PageContentExtractor) ExtractPageContent(page string) (string, error) {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", err
	}
	pageContent := document.Find("title").Text()
	found := document.Find("p").Map(func(i int, selection *goquery.Selection) string {
		return selection.Text()
	})
	pageContent += " " + strings.Join(found, " ")
	return strings.TrimSpace(pageContent), nil
}
