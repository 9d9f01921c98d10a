package facade

import (
	"sort"
	"time"

	"github.com/araddon/dateparse"

	"github.com/bassista/go_storefront/internal/cache"
	"github.com/bassista/go_storefront/internal/remote"
	"github.com/bassista/go_storefront/internal/repository"
)

type (
	Products   = Collection[repository.Product, *repository.Product]
	Categories = Collection[repository.Category, *repository.Category]
	Blogs      = Collection[repository.Blog, *repository.Blog]
)

func productDescriptor() Descriptor[repository.Product] {
	return Descriptor[repository.Product]{
		Name:        "products",
		CacheKey:    cache.KeyProducts,
		Collection:  remote.CollectionProducts,
		IDPrefix:    "prod",
		RemoteOrder: remote.Order{Field: "sortOrder"},
		Sort: func(items []repository.Product) {
			sort.SliceStable(items, func(i, j int) bool { return items[i].SortOrder < items[j].SortOrder })
		},
		Seed: func(doc repository.DataDocument) []repository.Product { return doc.Products },
		Normalize: func(items []repository.Product) {
			for i := range items {
				if items[i].SortOrder == 0 {
					items[i].SortOrder = i + 1
				}
				if items[i].Active == nil {
					items[i].Active = repository.BoolPtr(true)
				}
			}
		},
		BeforeSave: func(item *repository.Product, prev *repository.Product, all []repository.Product, now time.Time) {
			stamp := now.UTC().Format(time.RFC3339)
			if prev != nil {
				if item.Active == nil {
					item.Active = prev.Active
				}
				if item.SortOrder == 0 {
					item.SortOrder = prev.SortOrder
				}
			}
			if item.Active == nil {
				item.Active = repository.BoolPtr(true)
			}
			if prev == nil {
				if item.SortOrder == 0 {
					item.SortOrder = nextSortOrder(all, func(p repository.Product) int { return p.SortOrder })
				}
				if item.CreatedAt == "" {
					item.CreatedAt = stamp
				}
			} else if item.CreatedAt == "" {
				item.CreatedAt = prev.CreatedAt
			}
			item.UpdatedAt = stamp
		},
	}
}

func categoryDescriptor() Descriptor[repository.Category] {
	return Descriptor[repository.Category]{
		Name:        "categories",
		CacheKey:    cache.KeyCategories,
		Collection:  remote.CollectionCategories,
		IDPrefix:    "cat",
		RemoteOrder: remote.Order{Field: "sortOrder"},
		Sort: func(items []repository.Category) {
			sort.SliceStable(items, func(i, j int) bool { return items[i].SortOrder < items[j].SortOrder })
		},
		Seed: func(doc repository.DataDocument) []repository.Category { return doc.Categories },
		Normalize: func(items []repository.Category) {
			for i := range items {
				if items[i].SortOrder == 0 {
					items[i].SortOrder = i + 1
				}
			}
		},
		BeforeSave: func(item *repository.Category, prev *repository.Category, all []repository.Category, _ time.Time) {
			if item.SortOrder != 0 {
				return
			}
			if prev != nil {
				item.SortOrder = prev.SortOrder
				return
			}
			item.SortOrder = nextSortOrder(all, func(c repository.Category) int { return c.SortOrder })
		},
	}
}

func blogDescriptor() Descriptor[repository.Blog] {
	return Descriptor[repository.Blog]{
		Name:        "blogs",
		CacheKey:    cache.KeyBlogs,
		Collection:  remote.CollectionBlogs,
		IDPrefix:    "blog",
		RemoteOrder: remote.Order{Field: "date", Desc: true},
		Sort:        SortBlogsByDate,
		Seed:        func(doc repository.DataDocument) []repository.Blog { return doc.Blogs },
		Normalize: func(items []repository.Blog) {
			for i := range items {
				if items[i].Sections == nil {
					items[i].Sections = repository.Sections{}
				}
			}
		},
		BeforeSave: func(item *repository.Blog, _ *repository.Blog, _ []repository.Blog, _ time.Time) {
			if item.Sections == nil {
				item.Sections = repository.Sections{}
			}
		},
	}
}

// SortBlogsByDate orders blogs newest first. Unparseable dates sort last.
func SortBlogsByDate(items []repository.Blog) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, iok := parseDate(items[i].Date)
		tj, jok := parseDate(items[j].Date)
		switch {
		case iok && jok:
			return ti.After(tj)
		case iok != jok:
			return iok
		default:
			return false
		}
	})
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func nextSortOrder[T any](all []T, key func(T) int) int {
	highest := 0
	for _, item := range all {
		if k := key(item); k > highest {
			highest = k
		}
	}
	return highest + 1
}
