package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

type SectionKind string

const (
	SectionText    SectionKind = "text"
	SectionYouTube SectionKind = "youtube"
	SectionDrive   SectionKind = "gdrive"
)

const youTubeEmbedBase = "https://www.youtube.com/embed/"

// Section is one block of a blog post. The concrete types are
// TextSection, YouTubeSection and DriveSection.
type Section interface {
	Kind() SectionKind
	Validate() error
}

type TextSection struct {
	Content string
}

type YouTubeSection struct {
	VideoID string
}

type DriveSection struct {
	EmbedURL string
}

func (TextSection) Kind() SectionKind    { return SectionText }
func (YouTubeSection) Kind() SectionKind { return SectionYouTube }
func (DriveSection) Kind() SectionKind   { return SectionDrive }

// Text content may be empty; the page renders it as a blank paragraph.
func (TextSection) Validate() error { return nil }

func (s YouTubeSection) Validate() error {
	if strings.TrimSpace(s.VideoID) == "" {
		return errors.New("youtube section requires a videoId")
	}
	return nil
}

func (s DriveSection) Validate() error {
	if strings.TrimSpace(s.EmbedURL) == "" {
		return errors.New("gdrive section requires an embedUrl")
	}
	return nil
}

// Sections keeps display order. It encodes as a JSON array of {"type": ...} objects.
type Sections []Section

type sectionWire struct {
	Type     SectionKind `json:"type"`
	Content  string      `json:"content,omitempty"`
	VideoID  string      `json:"videoId,omitempty"`
	EmbedURL string      `json:"embedUrl,omitempty"`
}

func (s Sections) MarshalJSON() ([]byte, error) {
	wire := make([]sectionWire, 0, len(s))
	for i, section := range s {
		w, err := toWire(section)
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}
		wire = append(wire, w)
	}
	return json.Marshal(wire)
}

func (s *Sections) UnmarshalJSON(data []byte) error {
	var wire []sectionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	out := make(Sections, 0, len(wire))
	for i, w := range wire {
		section, err := fromWire(w)
		if err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
		out = append(out, section)
	}
	*s = out
	return nil
}

// Validate checks every section; an empty list is allowed.
func (s Sections) Validate() error {
	for i, section := range s {
		if section == nil {
			return fmt.Errorf("section %d: missing", i)
		}
		if err := section.Validate(); err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
	}
	return nil
}

func toWire(section Section) (sectionWire, error) {
	switch v := section.(type) {
	case TextSection:
		return sectionWire{Type: SectionText, Content: v.Content}, nil
	case YouTubeSection:
		return sectionWire{Type: SectionYouTube, VideoID: v.VideoID}, nil
	case DriveSection:
		return sectionWire{Type: SectionDrive, EmbedURL: v.EmbedURL}, nil
	default:
		return sectionWire{}, fmt.Errorf("unsupported section %T", section)
	}
}

func fromWire(w sectionWire) (Section, error) {
	switch w.Type {
	case SectionText:
		return TextSection{Content: w.Content}, nil
	case SectionYouTube:
		return YouTubeSection{VideoID: w.VideoID}, nil
	case SectionDrive:
		return DriveSection{EmbedURL: w.EmbedURL}, nil
	default:
		return nil, fmt.Errorf("unknown section type %q", w.Type)
	}
}

// RenderedSection is the public view of a section with its resolved embed URL.
type RenderedSection struct {
	Type     SectionKind `json:"type"`
	Content  string      `json:"content,omitempty"`
	EmbedURL string      `json:"embedUrl,omitempty"`
}

// EmbedURL returns the iframe source for embeddable sections, or "" for text.
func EmbedURL(section Section) string {
	switch v := section.(type) {
	case YouTubeSection:
		return youTubeEmbedBase + url.PathEscape(v.VideoID)
	case DriveSection:
		return v.EmbedURL
	default:
		return ""
	}
}

// Render resolves every section for display. Empty input yields a single placeholder paragraph.
func (s Sections) Render() []RenderedSection {
	if len(s) == 0 {
		return []RenderedSection{{Type: SectionText, Content: "Content coming soon."}}
	}
	out := make([]RenderedSection, 0, len(s))
	for _, section := range s {
		switch v := section.(type) {
		case TextSection:
			out = append(out, RenderedSection{Type: SectionText, Content: v.Content})
		case YouTubeSection, DriveSection:
			out = append(out, RenderedSection{Type: v.Kind(), EmbedURL: EmbedURL(v)})
		}
	}
	return out
}
