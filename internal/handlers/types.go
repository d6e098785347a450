package handlers

// CreateShortURLRequest is the request body for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		URL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"url" maxLength:"1000"`
	}
}

// CreateShortURLResponse is the response for a successfully created short URL.
type CreateShortURLResponse struct {
	Location string `doc:"The short URL location" header:"Location"`
	Body     struct {
		Key      string `doc:"The short key"                   example:"YUQWP9u"                         json:"key"`
		ShortURL string `doc:"The full short URL"              example:"http://localhost:8888/YUQWP9u"   json:"shortUrl"`
		URL      string `doc:"The normalized URL the key binds" example:"https://example.com/very/long/path" json:"url"`
	}
}

// LengthenRequest is the request for resolving a short key.
type LengthenRequest struct {
	Key string `doc:"The short key" example:"YUQWP9u" path:"key"`
}

// LengthenResponse carries the URL bound to a short key.
type LengthenResponse struct {
	Body struct {
		URL string `doc:"The URL bound to the key" example:"https://example.com/very/long/path" json:"url"`
	}
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	Key string `doc:"The short key" example:"YUQWP9u" path:"key"`
}

// RedirectResponse redirects to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `doc:"The URL bound to the key" header:"Location"`
}
