package rss

import (
	"context"
	"io"
	"strings"

	"github.com/mmcdole/gofeed/rss"

	"avolkov.dev/taskpipe/pkg/common"
	"avolkov.dev/taskpipe/pkg/taskpipe/domain"
)

// Dataset streams the entries of an RSS feed as text inputs, e.g. to classify a morning's
// headlines in one batch run. The feed is fetched lazily on the first Next call.
type Dataset struct {
	url      string
	maxCount int
	items    []domain.Input
	index    int
	fetched  bool
}

func NewDataset(url string, maxCount int) *Dataset {
	return &Dataset{
		url:      url,
		maxCount: maxCount,
	}
}

func (d *Dataset) Next(_ context.Context) (domain.Input, error) {
	if !d.fetched {
		if err := d.fetch(); err != nil {
			return domain.Input{}, err
		}
		d.fetched = true
	}
	if d.index >= len(d.items) {
		return domain.Input{}, io.EOF
	}
	item := d.items[d.index]
	d.index++
	return item, nil
}

func (d *Dataset) fetch() error {
	data, err := common.ReadAllFromURL(d.url)
	if err != nil {
		return err
	}
	parser := rss.Parser{}
	feed, err := parser.Parse(strings.NewReader(string(data)))
	if err != nil {
		return err
	}
	for index, item := range feed.Items {
		if d.maxCount > 0 && index >= d.maxCount {
			break
		}
		text := strings.TrimSpace(item.Title)
		if description := strings.TrimSpace(item.Description); description != "" {
			text += ". " + description
		}
		if text == "" {
			continue
		}
		d.items = append(d.items, domain.TextInput(text))
	}
	return nil
}
