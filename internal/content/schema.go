package content

// PageConfig is the validated content schema behind every landing page. One
// parameterized template plus N of these replaces N hand-duplicated pages.
type PageConfig struct {
	Slug         string        `json:"slug" validate:"required,lowercase"`
	Title        string        `json:"title" validate:"required,max=120"`
	Description  string        `json:"description" validate:"required,max=300"`
	Hero         Hero          `json:"hero" validate:"required"`
	Gallery      []GalleryItem `json:"gallery" validate:"dive"`
	FAQ          []FAQItem     `json:"faq" validate:"dive"`
	Testimonials []Testimonial `json:"testimonials" validate:"dive"`
	CTA          CTA           `json:"cta"`
}

type Hero struct {
	Headline    string `json:"headline" validate:"required,max=160"`
	Subheadline string `json:"subheadline" validate:"max=300"`
	Image       string `json:"image" validate:"omitempty,url"`
}

type GalleryItem struct {
	Before  string `json:"before" validate:"required,url"`
	After   string `json:"after" validate:"required,url"`
	Caption string `json:"caption" validate:"max=200"`
}

type FAQItem struct {
	Question string `json:"question" validate:"required,max=300"`
	Answer   string `json:"answer" validate:"required"`
}

type Testimonial struct {
	Author string `json:"author" validate:"required,max=100"`
	Quote  string `json:"quote" validate:"required,max=500"`
	Avatar string `json:"avatar" validate:"omitempty,url"`
	Rating int    `json:"rating" validate:"min=1,max=5"`
}

type CTA struct {
	Label string `json:"label" validate:"max=80"`
	Href  string `json:"href" validate:"omitempty,uri"`
}
