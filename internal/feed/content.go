package feed

import (
	"errors"
	"html"
	"strings"

	goaway "github.com/TwiN/go-away"
	"github.com/microcosm-cc/bluemonday"
)

var (
	ErrEmptyPost   = errors.New("post has no text")
	ErrProfanePost = errors.New("post contains profanity")
)

var stripPolicy = bluemonday.StrictPolicy()

type contentFilter struct {
	profanity *goaway.ProfanityDetector
}

func newContentFilter(profanity bool) contentFilter {
	if !profanity {
		return contentFilter{}
	}

	return contentFilter{profanity: goaway.NewProfanityDetector()}
}

// Strips any markup from the text and rejects what's left if it's empty or,
// when enabled, profane.
func (f contentFilter) clean(text string) (string, error) {
	text = strings.TrimSpace(plainText(stripPolicy, text))
	if text == "" {
		return "", ErrEmptyPost
	}
	if f.profanity != nil && f.profanity.IsProfane(text) {
		return "", ErrProfanePost
	}

	return text, nil
}

// Posts are stored as plain text, so the entities the policy escapes get
// turned back into characters. Unescaping can surface markup that was
// entity-encoded, so it's stripped again until nothing changes.
func plainText(p *bluemonday.Policy, text string) string {
	for {
		next := html.UnescapeString(p.Sanitize(text))
		if next == text {
			return next
		}
		text = next
	}
}
