package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"beam-website/internal/content"
	"beam-website/internal/sections"
)

type SEO struct {
	MetaTitle       string                          `json:"metaTitle,omitempty"`
	MetaDescription string                          `json:"metaDescription,omitempty"`
	Keywords        string                          `json:"keywords,omitempty"`
	MetaImage       content.Relation[content.Media] `json:"metaImage"`
}

type Page struct {
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description string        `json:"description,omitempty"`
	Content     string        `json:"content,omitempty"`
	Sections    sections.List `json:"sections"`
	SEO         *SEO          `json:"seo,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	PublishedAt time.Time     `json:"publishedAt"`
}

// MetaTitle returns the SEO title override, or the page title.
func (p Page) MetaTitle() string {
	if p.SEO != nil && strings.TrimSpace(p.SEO.MetaTitle) != "" {
		return p.SEO.MetaTitle
	}
	return p.Title
}

// MetaDescription returns the SEO description override, or the page description.
func (p Page) MetaDescription() string {
	if p.SEO != nil && strings.TrimSpace(p.SEO.MetaDescription) != "" {
		return p.SEO.MetaDescription
	}
	return p.Description
}

type Author struct {
	Name    string                          `json:"name"`
	Picture content.Relation[content.Media] `json:"picture"`
}

type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Tag struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type BlogPost struct {
	Title         string                          `json:"title"`
	Slug          string                          `json:"slug"`
	Content       string                          `json:"content"`
	Excerpt       string                          `json:"excerpt,omitempty"`
	FeaturedImage content.Relation[content.Media] `json:"featuredImage"`
	Author        content.Relation[Author]        `json:"author"`
	Categories    content.RelationList[Category]  `json:"categories"`
	Tags          content.RelationList[Tag]       `json:"tags"`
	SEO           *SEO                            `json:"seo,omitempty"`
	CreatedAt     time.Time                       `json:"createdAt"`
	UpdatedAt     time.Time                       `json:"updatedAt"`
	PublishedAt   time.Time                       `json:"publishedAt"`
}

func (p BlogPost) MetaTitle() string {
	if p.SEO != nil && strings.TrimSpace(p.SEO.MetaTitle) != "" {
		return p.SEO.MetaTitle
	}
	return p.Title
}

func (p BlogPost) MetaDescription() string {
	if p.SEO != nil && strings.TrimSpace(p.SEO.MetaDescription) != "" {
		return p.SEO.MetaDescription
	}
	return p.Excerpt
}

// SlugRecord is the projection used when enumerating routes.
type SlugRecord struct {
	Slug string `json:"slug"`
}

type MenuItem struct {
	ID       content.ID  `json:"id"`
	Title    string      `json:"title"`
	URL      string      `json:"url"`
	Order    int         `json:"order"`
	Parent   *content.ID `json:"parent,omitempty"`
	Children []*MenuItem `json:"children,omitempty"`
}

type Navigation struct {
	Name  string      `json:"name"`
	Items []*MenuItem `json:"items"`
}

// BuildMenuTree folds a flat list of items into a tree. Items whose parent is
// missing, themselves, or part of a cycle are treated as roots. Siblings are
// ordered by Order, then by input position.
func BuildMenuTree(items []*MenuItem) []*MenuItem {
	if len(items) == 0 {
		return nil
	}

	nodes := make([]*MenuItem, 0, len(items))
	byID := make(map[string]*MenuItem, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		node := *item
		node.Children = append([]*MenuItem(nil), item.Children...)
		nodes = append(nodes, &node)
		if !node.ID.IsZero() {
			if _, exists := byID[node.ID.String()]; !exists {
				byID[node.ID.String()] = &node
			}
		}
	}

	parentOf := func(node *MenuItem) *MenuItem {
		if node.Parent == nil || node.Parent.IsZero() {
			return nil
		}
		parent, ok := byID[node.Parent.String()]
		if !ok || parent == node {
			return nil
		}
		return parent
	}

	cyclic := func(node *MenuItem) bool {
		seen := map[*MenuItem]bool{node: true}
		for current := parentOf(node); current != nil; current = parentOf(current) {
			if seen[current] {
				return true
			}
			seen[current] = true
		}
		return false
	}

	var roots []*MenuItem
	for _, node := range nodes {
		parent := parentOf(node)
		if parent == nil || cyclic(node) {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortMenu(roots)
	return roots
}

func sortMenu(items []*MenuItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Order < items[j].Order
	})
	for _, item := range items {
		sortMenu(item.Children)
	}
}

// Settings is the site-wide settings record. Its shape is owned by the CMS.
type Settings map[string]interface{}

// String returns the value stored under key when it is a non-empty string.
func (s Settings) String(key string) string {
	if s == nil {
		return ""
	}
	switch v := s[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return ""
	}
}

// StringOr returns the string stored under key or fallback when missing.
func (s Settings) StringOr(key, fallback string) string {
	if value := s.String(key); value != "" {
		return value
	}
	return fallback
}

// GlobalData is the navigation and settings shared by every page.
type GlobalData struct {
	Navigation Navigation
	Settings   Settings
}

type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// PageCount returns ceil(total/pageSize), or zero for a non-positive page size.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func NewPagination(page, pageSize, total int) Pagination {
	return Pagination{
		Page:      page,
		PageSize:  pageSize,
		PageCount: PageCount(total, pageSize),
		Total:     total,
	}
}

type PostList struct {
	Posts      []content.Entity[BlogPost]
	Pagination Pagination
}

type ContactRequest struct {
	Name       string `json:"name" form:"name" binding:"required,max=120"`
	Email      string `json:"email" form:"email" binding:"required,email,max=254"`
	Phone      string `json:"phone,omitempty" form:"phone" binding:"omitempty,max=40,phone"`
	Subject    string `json:"subject" form:"subject" binding:"required,max=200"`
	Message    string `json:"message" form:"message" binding:"required,min=10,max=5000"`
	Department string `json:"department" form:"department" binding:"required,oneof=general support business partnerships careers media"`
}

type CookieConsentRequest struct {
	Consent string `json:"consent" form:"consent" binding:"required,oneof=accepted rejected"`
}
