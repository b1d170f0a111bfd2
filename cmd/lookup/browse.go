package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JonMunkholm/settlements/internal/core"
	"github.com/JonMunkholm/settlements/internal/source"
)

const browseHelp = `commands:
  search <text>          set the search term (empty clears it)
  filter <column> <val>  set a column filter (empty value clears it)
  clear                  clear all column filters
  next | prev            move one page
  page <n>               jump to page n
  facets [column]        list dropdown options for the current state
  show                   print the current page
  help                   show this help
  quit                   leave
columns: region/il, subregion/ilçe, authority/belediye, locality/mahalle, status/durum`

// session drives a Browser from line-oriented commands.
type session struct {
	browser *core.Browser
	out     io.Writer
}

func newSession(b *core.Browser, out io.Writer) *session {
	return &session{browser: b, out: out}
}

func (s *session) run(in io.Reader) error {
	if err := s.show(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		quit, err := s.exec(scanner.Text())
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
		if quit {
			return nil
		}
	}
}

// exec runs one command line. State changes are followed by a redraw.
func (s *session) exec(line string) (quit bool, err error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	b := s.browser

	switch strings.ToLower(cmd) {
	case "":
		return false, nil
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		_, err := fmt.Fprintln(s.out, browseHelp)
		return false, err
	case "show":
	case "search", "s":
		b.SetSearch(arg)
	case "filter", "f":
		key, value, _ := strings.Cut(arg, " ")
		field, ok := source.FieldForKey(key)
		if !ok {
			return false, fmt.Errorf("unknown field %q", key)
		}
		b.SetFilter(field, strings.TrimSpace(value))
	case "clear":
		b.ClearFilters()
	case "next", "n":
		b.Next()
	case "prev", "p":
		b.Prev()
	case "page":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return false, fmt.Errorf("page: %q is not a number", arg)
		}
		b.Jump(n)
	case "facets":
		return false, s.facets(arg)
	default:
		return false, fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return false, s.show()
}

func (s *session) show() error {
	return writeTable(s.out, s.browser.View())
}

func (s *session) facets(key string) error {
	fields := core.FacetFields
	if key != "" {
		f, ok := source.FieldForKey(key)
		if !ok || !f.IsFacet() {
			return fmt.Errorf("unknown field %q", key)
		}
		fields = []core.Field{f}
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(s.out, "%s: %s\n", f.Label(), strings.Join(s.browser.Facet(f), ", ")); err != nil {
			return err
		}
	}
	return nil
}
