package translation

import (
	"context"
	"time"

	"gettext-scanner/internal/interpolation"
	"gettext-scanner/internal/textutil"

	"github.com/bregydoc/gtranslate"
	"github.com/rs/zerolog/log"
)

// Translator looks up a machine translation of text for a catalog locale.
// Implementations never fail: any problem yields text unchanged.
type Translator interface {
	Translate(ctx context.Context, text, locale string) string
}

// Cache stores translations per locale.
type Cache interface {
	Get(ctx context.Context, locale, msgid string) (string, bool)
	Set(ctx context.Context, locale, msgid, translated string) error
}

// LookupFunc performs one translation request.
type LookupFunc func(text, from, to string) (string, error)

// GoogleClient translates through the public Google Translate endpoint.
type GoogleClient struct {
	enabled    bool
	source     string
	maxRetries int
	backoff    time.Duration
	lookup     LookupFunc
	cache      Cache
}

// Option customizes a GoogleClient.
type Option func(*GoogleClient)

// WithCache consults and fills c around every lookup.
func WithCache(c Cache) Option {
	return func(gc *GoogleClient) { gc.cache = c }
}

// WithLookup replaces the network call.
func WithLookup(fn LookupFunc) Option {
	return func(gc *GoogleClient) { gc.lookup = fn }
}

// WithRetry sets the attempt count and the base backoff between attempts.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(gc *GoogleClient) {
		if attempts > 0 {
			gc.maxRetries = attempts
		}
		gc.backoff = backoff
	}
}

// NewGoogleClient creates a client translating from the source locale. A
// disabled client returns every input unchanged.
func NewGoogleClient(enabled bool, source string, opts ...Option) *GoogleClient {
	if code, ok := TargetCode(source); ok {
		source = code
	} else {
		source = "auto"
	}
	gc := &GoogleClient{
		enabled:    enabled,
		source:     source,
		maxRetries: 3,
		backoff:    2 * time.Second,
		lookup:     googleLookup,
	}
	for _, opt := range opts {
		opt(gc)
	}
	return gc
}

func googleLookup(text, from, to string) (string, error) {
	return gtranslate.TranslateWithParams(text, gtranslate.TranslationParams{
		From: from,
		To:   to,
	})
}

// Translate returns the translation of text into locale, or text itself when
// the client is disabled, the input is empty, the locale is unsupported or
// every attempt failed.
func (gc *GoogleClient) Translate(ctx context.Context, text, locale string) string {
	if !gc.enabled || text == "" {
		return text
	}

	target, ok := TargetCode(locale)
	if !ok {
		log.Debug().Str("locale", locale).Msg("Unsupported translation target")
		return text
	}

	if gc.cache != nil {
		if v, ok := gc.cache.Get(ctx, locale, text); ok {
			return v
		}
	}

	protected, mappings := interpolation.Protect(text)

	var lastErr error
	for attempt := 0; attempt < gc.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * gc.backoff
			log.Warn().Int("attempt", attempt+1).Dur("backoff", backoff).Msg("Retrying translation")
			select {
			case <-ctx.Done():
				return text
			case <-time.After(backoff):
			}
		}

		result, err := gc.lookup(protected, gc.source, target)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return text
			}
			continue
		}
		if result == "" {
			return text
		}

		translated := interpolation.Restore(result, mappings)
		if gc.cache != nil {
			if err := gc.cache.Set(ctx, locale, text, translated); err != nil {
				log.Warn().Err(err).Msg("Failed to cache translation")
			}
		}
		return translated
	}

	log.Warn().Err(lastErr).
		Str("text", textutil.Truncate(text, 30)).
		Str("locale", locale).
		Int("attempts", gc.maxRetries).
		Msg("Translation failed, keeping original text")
	return text
}
