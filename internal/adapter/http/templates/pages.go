// Package templates renders the server-side HTML pages as templ components.
// Edit pages.templ and run `templ generate`; pages_templ.go is generated.
package templates

import (
	"net/url"

	"github.com/bnema/vidshelf/internal/domain"
)

func WatchURL(v domain.Video) string {
	return "/watch?v=" + url.QueryEscape(v.ID)
}
