package repository

// DefaultSettings is the compiled-in site configuration.
func DefaultSettings() Settings {
	return Settings{
		CompanyName: "Disha Traders",
		BrandName:   "Alagu Mayil",
		Tagline:     "Quality cleaning essentials for every home",
		Contact: Contact{
			Phone:    "+91 98765 43210",
			WhatsApp: "+91 98765 43210",
			Email:    "sales@dishatraders.in",
			Address:  "12 Market Road, Madurai, Tamil Nadu 625001",
		},
		Social: Social{
			Facebook:  "https://www.facebook.com/alagumayil",
			Instagram: "https://www.instagram.com/alagumayil",
			YouTube:   "https://www.youtube.com/@alagumayil",
		},
		Hero: Hero{
			Title:    "Alagu Mayil Cleaning Range",
			Subtitle: "Brooms, mops and brushes made to last",
		},
		Branches: []string{"Madurai", "Tirunelveli", "Dindigul"},
	}
}

// DefaultDocument is the offline dataset served when neither the cache nor the
// remote store has data. Records carry no ids or sort orders; those are assigned on first read.
func DefaultDocument() DataDocument {
	settings := DefaultSettings()
	doc := DataDocument{
		Categories: []Category{
			{Name: "Brooms", Description: "Grass, coconut and plastic brooms"},
			{Name: "Mops", Description: "Floor mops and refills"},
			{Name: "Brushes", Description: "Toilet, floor and utility brushes"},
			{Name: "Scrubbers", Description: "Steel and sponge scrubbers"},
			{Name: "Wipers", Description: "Floor and glass wipers"},
		},
		Products: []Product{
			{Name: "Soft Grass Broom", Category: "Brooms", Code: "AM-BR-01", Size: "36 inch", Description: "Hand-tied soft grass broom for indoor floors.", Image: "/images/products/soft-grass-broom.jpg", Featured: true},
			{Name: "Coconut Stick Broom", Category: "Brooms", Code: "AM-BR-02", Description: "Stiff coconut broom for courtyards and outdoor use.", Image: "/images/products/coconut-broom.jpg"},
			{Name: "Plastic Hard Broom", Category: "Brooms", Code: "AM-BR-03", Size: "Long handle", Description: "Washable plastic bristle broom.", Image: "/images/products/plastic-broom.jpg"},
			{Name: "Cotton Round Mop", Category: "Mops", Code: "AM-MP-01", Size: "250 g", Description: "Absorbent cotton mop with steel handle.", Image: "/images/products/cotton-mop.jpg", Featured: true},
			{Name: "Microfibre Flat Mop", Category: "Mops", Code: "AM-MP-02", Description: "Flat mop with washable microfibre pad.", Image: "/images/products/flat-mop.jpg"},
			{Name: "Spin Mop Refill", Category: "Mops", Code: "AM-MP-03", Description: "Replacement head for spin mop buckets.", Image: "/images/products/spin-refill.jpg"},
			{Name: "Hockey Toilet Brush", Category: "Brushes", Code: "AM-BS-01", Description: "Angled brush for under-rim cleaning.", Image: "/images/products/toilet-brush.jpg"},
			{Name: "Floor Scrub Brush", Category: "Brushes", Code: "AM-BS-02", Size: "Medium", Description: "Hard bristle brush for tiles and grout.", Image: "/images/products/floor-brush.jpg"},
			{Name: "Steel Scrubber", Category: "Scrubbers", Code: "AM-SC-01", Size: "Pack of 3", Description: "Stainless steel scrubber for vessels.", Image: "/images/products/steel-scrubber.jpg"},
			{Name: "Sponge Scrub Pad", Category: "Scrubbers", Code: "AM-SC-02", Description: "Two-sided sponge pad for non-stick cookware.", Image: "/images/products/sponge-pad.jpg"},
			{Name: "Floor Wiper", Category: "Wipers", Code: "AM-WP-01", Size: "18 inch", Description: "Rubber blade floor wiper with long handle.", Image: "/images/products/floor-wiper.jpg"},
			{Name: "Glass Wiper", Category: "Wipers", Code: "AM-WP-02", Description: "Squeegee for windows and mirrors.", Image: "/images/products/glass-wiper.jpg"},
		},
		Blogs: []Blog{
			{
				Title:  "Choosing the right broom for your home",
				Date:   "2024-03-18",
				Author: "Disha Traders",
				Image:  "/images/blog/broom-guide.jpg",
				Sections: Sections{
					TextSection{Content: "Soft grass brooms pick up fine dust indoors, while coconut brooms handle wet courtyards and rough outdoor surfaces."},
					YouTubeSection{VideoID: "dQw4w9WgXcQ"},
				},
			},
			{
				Title:  "Caring for your cotton mop",
				Date:   "2024-01-09",
				Author: "Disha Traders",
				Sections: Sections{
					TextSection{Content: "Rinse the mop head after every use and dry it in sunlight to keep it fresh and long lasting."},
				},
			},
		},
		Settings: &settings,
	}
	doc.ApplyDefaults()
	return doc
}
