package handlers

import "fmt"

type PageLink struct {
	Number   int
	URL      string
	Active   bool
	Ellipsis bool
}

type PaginationView struct {
	Links []PageLink
	Prev  string
	Next  string
}

// buildPagination lists the first page, the pages around current and the last
// page, with ellipses for the gaps. It returns nil when there is nothing to page.
func buildPagination(current, total int, urlFor func(page int) string) *PaginationView {
	if total <= 1 {
		return nil
	}

	view := &PaginationView{}
	add := func(n int) {
		view.Links = append(view.Links, PageLink{Number: n, URL: urlFor(n), Active: n == current})
	}

	add(1)
	if current > 3 {
		view.Links = append(view.Links, PageLink{Ellipsis: true})
	}
	for i := max(2, current-1); i <= min(total-1, current+1); i++ {
		add(i)
	}
	if current < total-2 {
		view.Links = append(view.Links, PageLink{Ellipsis: true})
	}
	add(total)

	if current > 1 && current <= total {
		view.Prev = urlFor(current - 1)
	}
	if current < total {
		view.Next = urlFor(current + 1)
	}
	return view
}

// blogPageURL links page 1 to the bare listing path.
func blogPageURL(staticLinks bool) func(int) string {
	return func(page int) string {
		if page <= 1 {
			return "/blog"
		}
		if staticLinks {
			return fmt.Sprintf("/blog/page/%d/", page)
		}
		return fmt.Sprintf("/blog?page=%d", page)
	}
}
