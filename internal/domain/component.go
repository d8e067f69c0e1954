package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ComponentType discriminates the closed set of page blocks.
type ComponentType string

const (
	ComponentHero         ComponentType = "hero"
	ComponentAbout        ComponentType = "about"
	ComponentServices     ComponentType = "services"
	ComponentTestimonials ComponentType = "testimonials"
	ComponentPricing      ComponentType = "pricing"
	ComponentContact      ComponentType = "contact"
	ComponentBooking      ComponentType = "booking"
	ComponentGallery      ComponentType = "gallery"
	ComponentText         ComponentType = "text"
	ComponentSpacer       ComponentType = "spacer"
	ComponentSocial       ComponentType = "social"
)

// ComponentTypes lists every variant in palette order.
var ComponentTypes = []ComponentType{
	ComponentHero,
	ComponentAbout,
	ComponentServices,
	ComponentTestimonials,
	ComponentPricing,
	ComponentContact,
	ComponentBooking,
	ComponentGallery,
	ComponentText,
	ComponentSpacer,
	ComponentSocial,
}

// Valid reports whether t is one of the known variants.
func (t ComponentType) Valid() bool {
	for _, known := range ComponentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseComponentType normalizes and validates a wire value.
func ParseComponentType(s string) (ComponentType, error) {
	t := ComponentType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownComponentType, s)
	}
	return t, nil
}

// Spacing four-sided box spacing in px
type Spacing struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// VerticalSpacing top/bottom spacing in px
type VerticalSpacing struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// ComponentStyles is shared by every variant.
type ComponentStyles struct {
	BackgroundColor string          `json:"backgroundColor,omitempty"`
	TextColor       string          `json:"textColor,omitempty"`
	Padding         Spacing         `json:"padding"`
	Margin          VerticalSpacing `json:"margin"`
}

// Component one block of a composed page.
// Content always belongs to Type; Decode and Update enforce it.
type Component struct {
	ID        string          `json:"id"`
	Type      ComponentType   `json:"type"`
	Order     int             `json:"order"`
	IsVisible bool            `json:"isVisible"`
	Styles    ComponentStyles `json:"styles"`
	Content   Content         `json:"content"`
}

type componentWire struct {
	ID        string          `json:"id"`
	Type      ComponentType   `json:"type"`
	Order     int             `json:"order"`
	IsVisible *bool           `json:"isVisible"`
	Styles    ComponentStyles `json:"styles"`
	Content   json.RawMessage `json:"content"`
}

// UnmarshalJSON dispatches content decoding on the type tag.
func (c *Component) UnmarshalJSON(data []byte) error {
	var w componentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if !w.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownComponentType, w.Type)
	}
	if w.ID == "" {
		return fmt.Errorf("component id is required")
	}
	content, err := DecodeContent(w.Type, w.Content)
	if err != nil {
		return err
	}
	c.ID = w.ID
	c.Type = w.Type
	c.Order = w.Order
	c.IsVisible = true
	if w.IsVisible != nil {
		c.IsVisible = *w.IsVisible
	}
	c.Styles = w.Styles
	c.Content = content
	return nil
}

// Clone deep-copies the component, content included.
func (c Component) Clone() Component {
	out := c
	if c.Content != nil {
		out.Content = c.Content.clone()
	}
	return out
}

// newComponentID is a millisecond timestamp plus a random suffix.
// Collisions are possible in theory and accepted.
var newComponentID = func() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}

// NewComponent stamps the variant defaults for t at the given order.
func NewComponent(t ComponentType, order int) (Component, error) {
	content, err := DefaultContent(t)
	if err != nil {
		return Component{}, err
	}
	return Component{
		ID:        newComponentID(),
		Type:      t,
		Order:     order,
		IsVisible: true,
		Styles:    defaultStyles(t),
		Content:   content,
	}, nil
}

func defaultStyles(t ComponentType) ComponentStyles {
	switch t {
	case ComponentSpacer:
		return ComponentStyles{}
	case ComponentHero:
		return ComponentStyles{Padding: Spacing{Top: 80, Bottom: 80, Left: 16, Right: 16}}
	default:
		return ComponentStyles{Padding: Spacing{Top: 48, Bottom: 48, Left: 16, Right: 16}}
	}
}

// PaletteItem describes one insertable variant.
type PaletteItem struct {
	Type        ComponentType `json:"type"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
}

// ComponentPalette is what the editor offers for Insert.
func ComponentPalette() []PaletteItem {
	return []PaletteItem{
		{ComponentHero, "Hero", "Large headline with a call to action"},
		{ComponentAbout, "About", "Who you are, with an optional photo"},
		{ComponentServices, "Services", "List of services with prices"},
		{ComponentTestimonials, "Testimonials", "Quotes from happy clients"},
		{ComponentPricing, "Pricing", "Plans side by side"},
		{ComponentContact, "Contact", "Email, phone and a contact form"},
		{ComponentBooking, "Booking", "Link to your booking calendar"},
		{ComponentGallery, "Gallery", "Image grid"},
		{ComponentText, "Text", "Free text block"},
		{ComponentSpacer, "Spacer", "Vertical whitespace"},
		{ComponentSocial, "Social", "Links to your social profiles"},
	}
}

// DecodeContent parses raw as the content of t. Fields that belong to
// another variant are rejected.
func DecodeContent(t ComponentType, raw json.RawMessage) (Content, error) {
	var target Content
	switch t {
	case ComponentHero:
		target = &HeroContent{}
	case ComponentAbout:
		target = &AboutContent{}
	case ComponentServices:
		target = &ServicesContent{}
	case ComponentTestimonials:
		target = &TestimonialsContent{}
	case ComponentPricing:
		target = &PricingContent{}
	case ComponentContact:
		target = &ContactContent{}
	case ComponentBooking:
		target = &BookingContent{}
	case ComponentGallery:
		target = &GalleryContent{}
	case ComponentText:
		target = &TextContent{}
	case ComponentSpacer:
		target = &SpacerContent{}
	case ComponentSocial:
		target = &SocialContent{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponentType, t)
	}

	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return DefaultContent(t)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrContentMismatch, t, err)
	}
	return derefContent(target), nil
}

func derefContent(c Content) Content {
	switch v := c.(type) {
	case *HeroContent:
		return *v
	case *AboutContent:
		return *v
	case *ServicesContent:
		return *v
	case *TestimonialsContent:
		return *v
	case *PricingContent:
		return *v
	case *ContactContent:
		return *v
	case *BookingContent:
		return *v
	case *GalleryContent:
		return *v
	case *TextContent:
		return *v
	case *SpacerContent:
		return *v
	case *SocialContent:
		return *v
	}
	return c
}

// DefaultContent returns the factory payload for t.
func DefaultContent(t ComponentType) (Content, error) {
	switch t {
	case ComponentHero:
		return HeroContent{
			Title:      "Welcome to my business",
			Subtitle:   "A short sentence about what you do best",
			ButtonText: "Get in touch",
			ButtonURL:  "#contact",
			Layout:     HeroLayoutCentered,
		}, nil
	case ComponentAbout:
		return AboutContent{
			Title:         "About me",
			Body:          "Tell visitors who you are and why they should work with you.",
			ImagePosition: "left",
		}, nil
	case ComponentServices:
		return ServicesContent{
			Title: "Services",
			Items: []ServiceItem{
				{ID: "service-1", Name: "Consultation", Description: "A first meeting to understand your needs", Price: "Free", Duration: "30 min"},
				{ID: "service-2", Name: "Full session", Description: "Our signature service", Price: "$120", Duration: "60 min"},
			},
		}, nil
	case ComponentTestimonials:
		return TestimonialsContent{
			Title: "What clients say",
			Items: []Testimonial{
				{ID: "testimonial-1", Name: "Dana", Role: "Client", Quote: "Professional, warm and effective.", Rating: 5},
			},
		}, nil
	case ComponentPricing:
		return PricingContent{
			Title: "Pricing",
			Plans: []PricingPlan{
				{ID: "plan-1", Name: "Basic", Price: "$49", Period: "month", Features: []string{"1 session", "Email support"}, ButtonText: "Choose"},
				{ID: "plan-2", Name: "Pro", Price: "$99", Period: "month", Features: []string{"4 sessions", "Priority support"}, Highlighted: true, ButtonText: "Choose"},
			},
		}, nil
	case ComponentContact:
		return ContactContent{Title: "Contact", ShowForm: true}, nil
	case ComponentBooking:
		return BookingContent{
			Title:       "Book a session",
			Description: "Pick a time that works for you.",
			ButtonText:  "Book now",
		}, nil
	case ComponentGallery:
		return GalleryContent{Title: "Gallery", Images: []GalleryImage{}, Columns: 3}, nil
	case ComponentText:
		return TextContent{Body: "Write something here.", Alignment: "left"}, nil
	case ComponentSpacer:
		return SpacerContent{Height: 48}, nil
	case ComponentSocial:
		return SocialContent{Title: "Follow me", Links: []SocialLink{}}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownComponentType, t)
}
