// Package i18n localizes user-facing messages for the Accept-Language of a request.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a translatable message.
type Key string

const (
	KeyCreated     Key = "created"
	KeyURLRequired Key = "url_required"
	KeyInvalidURL  Key = "invalid_url"
	KeyBadFormat   Key = "bad_format"
	KeyNotFound    Key = "not_found"
	KeyExhausted   Key = "exhausted"
	KeyInternal    Key = "internal"
	KeyPageTitle   Key = "page_title"
	KeySubmit      Key = "submit"
	KeyShortURL    Key = "short_url"
	KeyOriginalURL Key = "original_url"
	KeyShortCode   Key = "short_code"
)

var translations = map[Key]map[language.Tag]string{
	KeyCreated:     {language.English: "Short URL created.", language.Korean: "단축 URL이 생성되었습니다."},
	KeyURLRequired: {language.English: "originalUrl is required", language.Korean: "originalUrl 값이 필요합니다."},
	KeyInvalidURL:  {language.English: "Invalid URL.", language.Korean: "유효하지 않은 URL입니다."},
	KeyBadFormat:   {language.English: "Invalid code format.", language.Korean: "코드 형식이 잘못되었습니다."},
	KeyNotFound:    {language.English: "Short URL not found.", language.Korean: "단축 URL을 찾을 수 없습니다."},
	KeyExhausted:   {language.English: "Could not allocate a short code, try again.", language.Korean: "단축 코드를 생성하지 못했습니다. 다시 시도하세요."},
	KeyInternal:    {language.English: "Something went wrong.", language.Korean: "서버 오류가 발생했습니다."},
	KeyPageTitle:   {language.English: "URL Shortener", language.Korean: "URL 단축기"},
	KeySubmit:      {language.English: "Shorten", language.Korean: "단축하기"},
	KeyShortURL:    {language.English: "Short URL", language.Korean: "단축 URL"},
	KeyOriginalURL: {language.English: "Original URL", language.Korean: "원본 URL"},
	KeyShortCode:   {language.English: "Code", language.Korean: "코드"},
}

// Translator resolves message keys for negotiated languages. English is the default.
type Translator struct {
	catalog   *catalog.Builder
	matcher   language.Matcher
	supported []language.Tag
}

// NewTranslator builds a translator over the bundled English and Korean catalogs.
func NewTranslator() *Translator {
	supported := []language.Tag{language.English, language.Korean}
	builder := catalog.NewBuilder(catalog.Fallback(language.English))

	for key, byTag := range translations {
		for tag, text := range byTag {
			// Texts carry no format verbs, so SetString cannot fail.
			_ = builder.SetString(tag, string(key), text)
		}
	}

	return &Translator{
		catalog:   builder,
		matcher:   language.NewMatcher(supported),
		supported: supported,
	}
}

// Match returns the supported language best matching an Accept-Language header value.
func (t *Translator) Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.supported[0]
	}

	_, idx, confidence := t.matcher.Match(tags...)
	if confidence == language.No {
		return t.supported[0]
	}

	return t.supported[idx]
}

// Message returns the text for key in the language negotiated from acceptLanguage.
func (t *Translator) Message(acceptLanguage string, key Key) string {
	return t.Printer(acceptLanguage).Sprintf(string(key))
}

// Printer returns a printer for the language negotiated from acceptLanguage.
func (t *Translator) Printer(acceptLanguage string) *message.Printer {
	return message.NewPrinter(t.Match(acceptLanguage), message.Catalog(t.catalog))
}
