package step

// Explanation provides context for what a step does and why it exists.
type Explanation struct {
	summary  string
	detail   string
	docLinks []string
}

// NewExplanation creates a new Explanation.
func NewExplanation(summary, detail string, docLinks []string) Explanation {
	links := make([]string, len(docLinks))
	copy(links, docLinks)
	return Explanation{
		summary:  summary,
		detail:   detail,
		docLinks: links,
	}
}

// Summary returns a brief description of what the step does.
func (e Explanation) Summary() string {
	return e.summary
}

// Detail returns a longer explanation with context.
func (e Explanation) Detail() string {
	return e.detail
}

// DocLinks returns links to relevant documentation.
func (e Explanation) DocLinks() []string {
	links := make([]string, len(e.docLinks))
	copy(links, e.docLinks)
	return links
}

// IsEmpty returns true if this explanation has no content.
func (e Explanation) IsEmpty() bool {
	return e.summary == "" && e.detail == ""
}
