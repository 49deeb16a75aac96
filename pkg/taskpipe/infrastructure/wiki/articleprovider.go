package wiki

import (
	"sync"

	gowiki "github.com/trietmn/go-wiki"
)

// ArticleProvider fetches encyclopedia article text to feed into the text pipelines (a handy
// source of long inputs for summarization). Results are cached per process since article text
// rarely changes within a session.
type ArticleProvider struct {
	mutex        sync.Mutex
	searchCache  map[string][]string
	contentCache map[string]string
}

func NewArticleProvider() *ArticleProvider {
	return &ArticleProvider{
		searchCache:  make(map[string][]string),
		contentCache: make(map[string]string),
	}
}

func (a *ArticleProvider) Search(searchString string, maxArticleCount int) ([]string, error) {
	cachedArticleNames, ok := a.searchInCache(searchString)
	if ok {
		return cachedArticleNames, nil
	}
	articleNames, _, err := gowiki.Search(searchString, maxArticleCount, true)
	if err != nil {
		return nil, err
	}
	a.cacheSearch(searchString, articleNames)
	return articleNames, nil
}

func (a *ArticleProvider) GetContent(articleName string) (string, error) {
	cachedContent, ok := a.contentInCache(articleName)
	if ok {
		return cachedContent, nil
	}
	page, err := gowiki.GetPage(articleName, -1, false, true)
	if err != nil {
		return "", err
	}
	content, err := page.GetContent()
	if err != nil {
		return "", err
	}
	a.cacheContent(articleName, content)
	return content, nil
}

func (a *ArticleProvider) searchInCache(searchString string) ([]string, bool) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	articleNames, ok := a.searchCache[searchString]
	return articleNames, ok
}

func (a *ArticleProvider) contentInCache(articleName string) (string, bool) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	content, ok := a.contentCache[articleName]
	return content, ok
}

func (a *ArticleProvider) cacheSearch(searchString string, articleNames []string) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.searchCache[searchString] = articleNames
}

func (a *ArticleProvider) cacheContent(articleName, content string) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.contentCache[articleName] = content
}
