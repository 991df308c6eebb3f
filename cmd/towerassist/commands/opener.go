package commands

import (
	"io"

	"github.com/pkg/browser"
)

func init() {
	// the browser's own chatter is not ours to print
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

type browserOpener struct{}

func (browserOpener) Open(url string) error {
	return browser.OpenURL(url)
}
