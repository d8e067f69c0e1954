package domain

import "slices"

// Content is the variant payload of a Component. The set of
// implementations is closed to this package.
type Content interface {
	ComponentType() ComponentType
	clone() Content
}

// HeroLayout arrangement of the hero block
type HeroLayout string

const (
	HeroLayoutCentered HeroLayout = "centered"
	HeroLayoutLeft     HeroLayout = "left"
	HeroLayoutSplit    HeroLayout = "split"
)

type HeroContent struct {
	Title           string     `json:"title"`
	Subtitle        string     `json:"subtitle"`
	ButtonText      string     `json:"buttonText"`
	ButtonURL       string     `json:"buttonUrl"`
	BackgroundImage string     `json:"backgroundImage,omitempty"`
	Layout          HeroLayout `json:"layout"`
}

func (HeroContent) ComponentType() ComponentType { return ComponentHero }
func (c HeroContent) clone() Content            { return c }

type AboutContent struct {
	Title         string `json:"title"`
	Body          string `json:"body"`
	Image         string `json:"image,omitempty"`
	ImagePosition string `json:"imagePosition"`
}

func (AboutContent) ComponentType() ComponentType { return ComponentAbout }
func (c AboutContent) clone() Content            { return c }

type ServiceItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Duration    string `json:"duration"`
	Image       string `json:"image,omitempty"`
}

type ServicesContent struct {
	Title string        `json:"title"`
	Items []ServiceItem `json:"items"`
}

func (ServicesContent) ComponentType() ComponentType { return ComponentServices }
func (c ServicesContent) clone() Content {
	c.Items = slices.Clone(c.Items)
	return c
}

type Testimonial struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role,omitempty"`
	Quote  string `json:"quote"`
	Avatar string `json:"avatar,omitempty"`
	Rating int    `json:"rating"`
}

type TestimonialsContent struct {
	Title string        `json:"title"`
	Items []Testimonial `json:"items"`
}

func (TestimonialsContent) ComponentType() ComponentType { return ComponentTestimonials }
func (c TestimonialsContent) clone() Content {
	c.Items = slices.Clone(c.Items)
	return c
}

type PricingPlan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Period      string   `json:"period"`
	Features    []string `json:"features"`
	Highlighted bool     `json:"highlighted"`
	ButtonText  string   `json:"buttonText"`
}

type PricingContent struct {
	Title string        `json:"title"`
	Plans []PricingPlan `json:"plans"`
}

func (PricingContent) ComponentType() ComponentType { return ComponentPricing }
func (c PricingContent) clone() Content {
	if c.Plans == nil {
		return c
	}
	plans := make([]PricingPlan, len(c.Plans))
	for i, p := range c.Plans {
		p.Features = slices.Clone(p.Features)
		plans[i] = p
	}
	c.Plans = plans
	return c
}

type ContactContent struct {
	Title    string `json:"title"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	ShowForm bool   `json:"showForm"`
}

func (ContactContent) ComponentType() ComponentType { return ComponentContact }
func (c ContactContent) clone() Content            { return c }

type BookingContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	BookingURL  string `json:"bookingUrl,omitempty"`
	ButtonText  string `json:"buttonText"`
}

func (BookingContent) ComponentType() ComponentType { return ComponentBooking }
func (c BookingContent) clone() Content            { return c }

type GalleryImage struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

type GalleryContent struct {
	Title   string         `json:"title"`
	Images  []GalleryImage `json:"images"`
	Columns int            `json:"columns"`
}

func (GalleryContent) ComponentType() ComponentType { return ComponentGallery }
func (c GalleryContent) clone() Content {
	c.Images = slices.Clone(c.Images)
	return c
}

type TextContent struct {
	Body      string `json:"body"`
	Alignment string `json:"alignment"`
}

func (TextContent) ComponentType() ComponentType { return ComponentText }
func (c TextContent) clone() Content            { return c }

type SpacerContent struct {
	Height int `json:"height"`
}

func (SpacerContent) ComponentType() ComponentType { return ComponentSpacer }
func (c SpacerContent) clone() Content            { return c }

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type SocialContent struct {
	Title string       `json:"title"`
	Links []SocialLink `json:"links"`
}

func (SocialContent) ComponentType() ComponentType { return ComponentSocial }
func (c SocialContent) clone() Content {
	c.Links = slices.Clone(c.Links)
	return c
}
