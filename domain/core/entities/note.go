package entities

// Note is one "Thought Session" as delivered by the data layer
type Note struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Tags     []string  `json:"tags"`
	Messages []Message `json:"messages"`
}

// Message is one entry of a note. Every field is optional.
type Message struct {
	ID            string         `json:"id,omitempty"`
	Content       string         `json:"content,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	Attachments   []Attachment   `json:"attachments,omitempty"`
	ExternalLinks []ExternalLink `json:"externalLinks,omitempty"`
}

// Attachment is a stored file referenced by a message.
// Type is one of image, video, audio, file or url.
type Attachment struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// ExternalLink is a web link referenced by a message
type ExternalLink struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}
