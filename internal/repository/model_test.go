package repository

import (
	"encoding/json"
	"testing"
)

func TestProduct_IsActive(t *testing.T) {
	if !(Product{}).IsActive() {
		t.Error("expected missing active flag to count as active")
	}
	if (Product{Active: BoolPtr(false)}).IsActive() {
		t.Error("expected explicit false to be inactive")
	}
}

func TestDataDocument_ApplyDefaults(t *testing.T) {
	doc := DataDocument{Products: []Product{{Name: "x"}}, Blogs: []Blog{{Title: "b"}}}
	doc.ApplyDefaults()

	if doc.Categories == nil {
		t.Error("expected categories to be initialized")
	}
	if doc.Products[0].Active == nil || !*doc.Products[0].Active {
		t.Error("expected product active to default to true")
	}
	if doc.Blogs[0].Sections == nil {
		t.Error("expected sections to be initialized")
	}
}

func TestAreDataDocumentsEqual(t *testing.T) {
	a := createTestDataDocument()
	b := createTestDataDocument()
	b.Metadata.LastUpdate = 9999

	if !AreDataDocumentsEqual(&a, &b) {
		t.Error("expected documents differing only in metadata to be equal")
	}
	b.Products[0].Name = "other"
	if AreDataDocumentsEqual(&a, &b) {
		t.Error("expected different documents")
	}
	if !AreDataDocumentsEqual(nil, nil) {
		t.Error("expected nil documents to be equal")
	}
	if AreDataDocumentsEqual(&a, nil) {
		t.Error("expected nil and non-nil to differ")
	}
}

func TestDataDocument_CloneIsDeep(t *testing.T) {
	doc := createTestDataDocument()
	cloned, err := doc.Clone()
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	cloned.Products[0].Name = "changed"
	*cloned.Products[0].Active = false
	if doc.Products[0].Name == "changed" || !*doc.Products[0].Active {
		t.Error("expected clone to share no state with the original")
	}
}

func TestDefaultDocument_IsValid(t *testing.T) {
	doc := DefaultDocument()
	if err := ValidateDocument(NewValidator(), &doc); err != nil {
		t.Fatalf("expected compiled-in defaults to validate: %v", err)
	}
	if len(doc.Products) == 0 || len(doc.Categories) == 0 || len(doc.Blogs) == 0 {
		t.Error("expected non-empty defaults")
	}
	for _, p := range doc.Products {
		if p.ID != "" {
			t.Errorf("expected defaults without ids, got %q", p.ID)
		}
	}
}

func TestBlog_JSONRoundTripKeepsSectionOrder(t *testing.T) {
	blog := Blog{
		Title: "t",
		Date:  "2024-01-01",
		Sections: Sections{
			YouTubeSection{VideoID: "abc123"},
			TextSection{Content: "after"},
			DriveSection{EmbedURL: "https://drive.google.com/file/d/x/preview"},
		},
	}
	data, err := json.Marshal(blog)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Blog
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(decoded.Sections))
	}
	if decoded.Sections[0].Kind() != SectionYouTube || decoded.Sections[1].Kind() != SectionText || decoded.Sections[2].Kind() != SectionDrive {
		t.Errorf("unexpected section order: %+v", decoded.Sections)
	}
}
