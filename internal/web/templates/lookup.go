// Package templates holds the templ components for the lookup UI.
//
// Edit the .templ files and run `templ generate`; the _templ.go files are
// generated output.
package templates

import (
	"net/url"
	"strconv"

	"github.com/JonMunkholm/settlements/internal/core"
)

// LookupView is the data behind the lookup page.
type LookupView struct {
	Result  core.Result
	Dataset core.DatasetInfo
}

// QueryURL builds a link to the lookup page for the given state. Page 1
// is left implicit.
func QueryURL(search string, filters core.FilterState, page int) string {
	v := url.Values{}
	if search != "" {
		v.Set("q", search)
	}
	for _, f := range filters.Active() {
		v.Set(f.Key(), filters.Get(f))
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

// pageRange formats the 1-based record range shown on the page, e.g. "51-100".
func pageRange(res core.Result) string {
	first := res.Offset() + 1
	last := res.Offset() + len(res.Records)
	return strconv.Itoa(first) + "-" + strconv.Itoa(last)
}
