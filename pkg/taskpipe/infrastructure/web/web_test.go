package web

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractPageContent(t *testing.T) {
	page := `<html>
<head><title>Pipelines for inference</title></head>
<body>
<nav>Skip me</nav>
<p>The pipeline makes it simple to use any model.</p>
<p>Start by creating one for your task.</p>
</body>
</html>`
	content, err := NewPageContentExtractor().ExtractPageContent(page)
	require.NoError(t, err)
	require.Equal(t, "Pipelines for inference The pipeline makes it simple to use any model. Start by creating one for your task.", content)
}

func TestExtractPageContentEmptyPage(t *testing.T) {
	content, err := NewPageContentExtractor().ExtractPageContent("")
	require.NoError(t, err)
	require.Empty(t, content)
}

func TestFindURLs(t *testing.T) {
	urls := NewURLFinder().FindURLs("classify https://example.com/cat.png and also example.org/dog.jpg please")
	require.Equal(t, []string{"https://example.com/cat.png", "example.org/dog.jpg"}, urls)
}

func TestFindURLsNone(t *testing.T) {
	require.Empty(t, NewURLFinder().FindURLs("no links here"))
}
