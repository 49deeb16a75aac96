package web

import "github.com/mvdan/xurls"

// URLFinder picks URLs out of free-form text. Frontends use it to tell media references apart
// from plain text input.
type URLFinder struct{}

func NewURLFinder() *URLFinder {
	return &URLFinder{}
}

func (u *URLFinder) FindURLs(str string) []string {
	return xurls.Relaxed.FindAllString(str, -1)
}
