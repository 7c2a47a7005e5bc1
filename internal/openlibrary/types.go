package openlibrary

// WorkMetadata is the normalized view of an OpenLibrary work.
type WorkMetadata struct {
	WorkOLID    string   `json:"work_olid"`
	Title       string   `json:"title,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	Description string   `json:"description,omitempty"`
	Year        int      `json:"year,omitempty"`
	CoverURL    string   `json:"cover_url,omitempty"`
	Subjects    []string `json:"subject,omitempty"`
}

// EditionMetadata is the normalized view of an OpenLibrary edition.
type EditionMetadata struct {
	EditionOLID string   `json:"edition_olid"`
	Title       string   `json:"title,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	Description string   `json:"description,omitempty"`
	Languages   []string `json:"language,omitempty"`
	Year        int      `json:"year,omitempty"`
	ISBN        []string `json:"isbn,omitempty"`
	Pages       int      `json:"pages,omitempty"`
	CoverURL    string   `json:"cover_url,omitempty"`
	Subjects    []string `json:"subject,omitempty"`
	Publishers  []string `json:"publisher,omitempty"`
}

// SearchItem is one search hit.
type SearchItem struct {
	WorkOLID string   `json:"work_olid"`
	Title    string   `json:"title,omitempty"`
	Authors  []string `json:"authors,omitempty"`
	Year     int      `json:"year,omitempty"`
	CoverURL string   `json:"cover_url,omitempty"`
}

// SearchResult is a page of search hits with the upstream total.
type SearchResult struct {
	Total int          `json:"total"`
	Items []SearchItem `json:"items"`
}

// --- Raw API payloads ---

type searchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []searchDoc `json:"docs"`
}

type searchDoc struct {
	Key              string   `json:"key"` // "/works/OL...W"
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverI           int      `json:"cover_i"`
}

type workResponse struct {
	Key              string      `json:"key"`
	Title            string      `json:"title"`
	Description      any         `json:"description"` // string or {"type":..., "value":...}
	Covers           []int       `json:"covers"`
	Subjects         []string    `json:"subjects"`
	FirstPublishDate string      `json:"first_publish_date"`
	Authors          []workAuthorRef `json:"authors"`
}

type workAuthorRef struct {
	Author struct {
		Key string `json:"key"` // "/authors/OL...A"
	} `json:"author"`
}

type editionResponse struct {
	Key           string   `json:"key"`
	Title         string   `json:"title"`
	Description   any      `json:"description"`
	PublishDate   string   `json:"publish_date"`
	Publishers    []string `json:"publishers"`
	ISBN10        []string `json:"isbn_10"`
	ISBN13        []string `json:"isbn_13"`
	NumberOfPages int      `json:"number_of_pages"`
	Covers        []int    `json:"covers"`
	Subjects      []string `json:"subjects"`
	Languages     []struct {
		Key string `json:"key"` // "/languages/eng"
	} `json:"languages"`
	Authors []struct {
		Key string `json:"key"`
	} `json:"authors"`
}

type authorResponse struct {
	Name string `json:"name"`
}
