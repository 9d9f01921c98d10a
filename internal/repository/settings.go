package repository

// SettingsID is the fixed key of the singleton settings record.
const SettingsID = "main"

type Contact struct {
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp"`
	Email    string `json:"email" validate:"omitempty,email"`
	Address  string `json:"address"`
}

type Social struct {
	Facebook  string `json:"facebook,omitempty" validate:"omitempty,url"`
	Instagram string `json:"instagram,omitempty" validate:"omitempty,url"`
	YouTube   string `json:"youtube,omitempty" validate:"omitempty,url"`
}

type Hero struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// Settings is the site-wide configuration record. There is exactly one, keyed by SettingsID.
type Settings struct {
	CompanyName string   `json:"companyName"`
	BrandName   string   `json:"brandName"`
	Tagline     string   `json:"tagline"`
	Contact     Contact  `json:"contact"`
	Social      Social   `json:"social"`
	Hero        Hero     `json:"hero"`
	Branches    []string `json:"branches"`
}

// ContactLine is the one-line contact summary printed in page footers.
func (s Settings) ContactLine() string {
	line := ""
	for _, part := range []string{s.Contact.Phone, s.Contact.Email} {
		if part == "" {
			continue
		}
		if line != "" {
			line += "  |  "
		}
		line += part
	}
	return line
}

type ContactPatch struct {
	Phone    *string `json:"phone,omitempty"`
	WhatsApp *string `json:"whatsapp,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Address  *string `json:"address,omitempty"`
}

type SocialPatch struct {
	Facebook  *string `json:"facebook,omitempty" validate:"omitempty,url"`
	Instagram *string `json:"instagram,omitempty" validate:"omitempty,url"`
	YouTube   *string `json:"youtube,omitempty" validate:"omitempty,url"`
}

type HeroPatch struct {
	Title    *string `json:"title,omitempty"`
	Subtitle *string `json:"subtitle,omitempty"`
}

// SettingsPatch is a partial settings update. Nil fields keep the stored value.
// Branches replaces the whole list when non-nil; an empty list clears it.
type SettingsPatch struct {
	CompanyName *string       `json:"companyName,omitempty"`
	BrandName   *string       `json:"brandName,omitempty"`
	Tagline     *string       `json:"tagline,omitempty"`
	Contact     *ContactPatch `json:"contact,omitempty" validate:"omitempty"`
	Social      *SocialPatch  `json:"social,omitempty" validate:"omitempty"`
	Hero        *HeroPatch    `json:"hero,omitempty"`
	Branches    []string      `json:"branches,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p SettingsPatch) IsEmpty() bool {
	return p.CompanyName == nil && p.BrandName == nil && p.Tagline == nil &&
		p.Contact == nil && p.Social == nil && p.Hero == nil && p.Branches == nil
}

// Apply returns a copy of s with the patch merged in.
func (s Settings) Apply(p SettingsPatch) Settings {
	out := s
	out.Branches = append([]string(nil), s.Branches...)

	setString(&out.CompanyName, p.CompanyName)
	setString(&out.BrandName, p.BrandName)
	setString(&out.Tagline, p.Tagline)

	if c := p.Contact; c != nil {
		setString(&out.Contact.Phone, c.Phone)
		setString(&out.Contact.WhatsApp, c.WhatsApp)
		setString(&out.Contact.Email, c.Email)
		setString(&out.Contact.Address, c.Address)
	}
	if so := p.Social; so != nil {
		setString(&out.Social.Facebook, so.Facebook)
		setString(&out.Social.Instagram, so.Instagram)
		setString(&out.Social.YouTube, so.YouTube)
	}
	if h := p.Hero; h != nil {
		setString(&out.Hero.Title, h.Title)
		setString(&out.Hero.Subtitle, h.Subtitle)
	}
	if p.Branches != nil {
		out.Branches = append([]string{}, p.Branches...)
	}
	return out
}

// Fields flattens the patch into dotted document paths for a remote merge-set.
func (p SettingsPatch) Fields() map[string]any {
	fields := map[string]any{}
	put := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		}
	}
	put("companyName", p.CompanyName)
	put("brandName", p.BrandName)
	put("tagline", p.Tagline)
	if c := p.Contact; c != nil {
		put("contact.phone", c.Phone)
		put("contact.whatsapp", c.WhatsApp)
		put("contact.email", c.Email)
		put("contact.address", c.Address)
	}
	if so := p.Social; so != nil {
		put("social.facebook", so.Facebook)
		put("social.instagram", so.Instagram)
		put("social.youtube", so.YouTube)
	}
	if h := p.Hero; h != nil {
		put("hero.title", h.Title)
		put("hero.subtitle", h.Subtitle)
	}
	if p.Branches != nil {
		fields["branches"] = append([]string{}, p.Branches...)
	}
	return fields
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
