package navigation

// Item is a top-level link rendered when the CMS menu is unavailable.
type Item struct {
	Label string
	Path  string
}

var defaults = []Item{
	{Label: "Home", Path: "/"},
	{Label: "About", Path: "/about-us"},
	{Label: "Blog", Path: "/blog"},
	{Label: "Contact", Path: "/contact"},
}

// Defaults returns a copy of the built-in menu.
func Defaults() []Item {
	out := make([]Item, len(defaults))
	copy(out, defaults)
	return out
}
