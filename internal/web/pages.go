// Package web serves the HTML pages for creating and previewing short URLs.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/serroba/ttl-shortener/internal/i18n"
	"github.com/serroba/ttl-shortener/internal/shortener"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Service is the shortening service behind the pages.
type Service interface {
	Shorten(ctx context.Context, candidate string) (*shortener.ShortURL, error)
	Resolve(ctx context.Context, code string) (string, error)
	Link(code shortener.Code) string
}

// Pages renders the create and preview pages.
type Pages struct {
	service    Service
	translator *i18n.Translator
	logger     *zap.Logger
	templates  *template.Template
}

// NewPages parses the embedded templates.
func NewPages(service Service, translator *i18n.Translator, logger *zap.Logger) (*Pages, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Pages{
		service:    service,
		translator: translator,
		logger:     logger,
		templates:  templates,
	}, nil
}

// RegisterRoutes mounts the pages on router.
func RegisterRoutes(router chi.Router, p *Pages) {
	router.Get("/", p.Index)
	router.Get("/create", p.Create)
	router.Post("/create", p.Create)
	router.Get("/{code}", p.Preview)
}

type pageData struct {
	Lang             string
	Title            string
	Error            string
	Submit           string
	ShortURLLabel    string
	OriginalURLLabel string
	ShortCodeLabel   string
	OriginalURL      string
	ShortCode        string
	ShortURL         string
}

func (p *Pages) newPageData(r *http.Request) *pageData {
	acceptLanguage := r.Header.Get("Accept-Language")
	printer := func(key i18n.Key) string { return p.translator.Message(acceptLanguage, key) }

	return &pageData{
		Lang:             p.translator.Match(acceptLanguage).String(),
		Title:            printer(i18n.KeyPageTitle),
		Submit:           printer(i18n.KeySubmit),
		ShortURLLabel:    printer(i18n.KeyShortURL),
		OriginalURLLabel: printer(i18n.KeyOriginalURL),
		ShortCodeLabel:   printer(i18n.KeyShortCode),
	}
}

// Index sends visitors to the create page.
func (p *Pages) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/create", http.StatusFound)
}

// Create shows the form and, on POST, shortens the submitted originalUrl.
func (p *Pages) Create(w http.ResponseWriter, r *http.Request) {
	data := p.newPageData(r)

	if r.Method != http.MethodPost {
		p.render(w, "create.html", http.StatusOK, data)

		return
	}

	data.OriginalURL = strings.TrimSpace(r.PostFormValue("originalUrl"))

	shortURL, err := p.service.Shorten(r.Context(), data.OriginalURL)
	if err != nil {
		status := p.errorStatus(err)
		data.Error = p.translator.Message(r.Header.Get("Accept-Language"), i18n.KeyForError(err))
		p.render(w, "create.html", status, data)

		return
	}

	data.ShortURL = shortURL.ShortURL
	p.render(w, "create.html", http.StatusOK, data)
}

// Preview shows where a code points without redirecting.
func (p *Pages) Preview(w http.ResponseWriter, r *http.Request) {
	data := p.newPageData(r)
	code := chi.URLParam(r, "code")

	originalURL, err := p.service.Resolve(r.Context(), code)
	if err != nil {
		status := p.errorStatus(err)
		data.Error = p.translator.Message(r.Header.Get("Accept-Language"), i18n.KeyForError(err))
		p.render(w, "preview.html", status, data)

		return
	}

	data.OriginalURL = originalURL
	data.ShortCode = code
	data.ShortURL = p.service.Link(shortener.Code(code))
	p.render(w, "preview.html", http.StatusOK, data)
}

func (p *Pages) errorStatus(err error) int {
	switch {
	case errors.Is(err, shortener.ErrInvalidURL), errors.Is(err, shortener.ErrBadFormat):
		return http.StatusBadRequest
	case errors.Is(err, shortener.ErrNotFound):
		return http.StatusNotFound
	default:
		p.logger.Error("page request failed", zap.Error(err))

		return http.StatusInternalServerError
	}
}

func (p *Pages) render(w http.ResponseWriter, name string, status int, data *pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := p.templates.ExecuteTemplate(w, name, data); err != nil {
		p.logger.Error("failed to render page", zap.String("template", name), zap.Error(err))
	}
}
