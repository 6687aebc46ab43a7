package handlers

// CreateQueryRequest shortens the url passed as a query parameter.
type CreateQueryRequest struct {
	AcceptLanguage string `doc:"Preferred language for the message" header:"Accept-Language"`
	OriginalURL    string `doc:"The URL to shorten"                 example:"https://example.com/very/long/path" query:"originalUrl"`
}

// CreateBody is the JSON body of a shorten request.
type CreateBody struct {
	OriginalURL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"originalUrl,omitempty"`
}

// CreateBodyRequest shortens the url passed in the JSON body.
type CreateBodyRequest struct {
	AcceptLanguage string `doc:"Preferred language for the message" header:"Accept-Language"`
	Body           CreateBody
}

// CreateResponse is the response for a created or reused short URL.
type CreateResponse struct {
	Body struct {
		OriginalURL string `doc:"The original URL"   example:"https://example.com/very/long/path" json:"original_url"`
		ShortCode   string `doc:"The short code"     example:"aZ3k9Q"                             json:"short_code"`
		ShortURL    string `doc:"The full short URL" example:"http://localhost:5000/aZ3k9Q"       json:"short_url"`
		Message     string `doc:"Localized message"  example:"Short URL created."                 json:"message"`
	}
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	AcceptLanguage string `doc:"Preferred language for error messages" header:"Accept-Language"`
	Code           string `doc:"The short code" example:"aZ3k9Q" path:"code"`
}

// RedirectResponse sends the client to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `doc:"The original URL" header:"Location"`
}
