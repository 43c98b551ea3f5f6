// Package template matches {name} tokens inside route text against declared
// parameter specs and substitutes validated values. Only declared names are
// ever matched; an undeclared {tag} stays literal.
package template

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/kolah/ramble/param"
)

var tagPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// Context supplies substitution values either by tag name or positionally.
// The zero value supplies nothing, so every match substitutes the empty
// string (subject to the matched spec's required check).
type Context struct {
	named      map[string]any
	positional []any
	byPosition bool
}

// Named builds a context that resolves each matched tag by name.
func Named(values map[string]any) Context {
	return Context{named: values}
}

// Positional builds a context where each successful match consumes the next
// value in order, regardless of the tag's name.
func Positional(values ...any) Context {
	return Context{positional: values, byPosition: true}
}

// Tags returns every {name} token in text, in order of appearance,
// including repeats.
func Tags(text string) []string {
	matches := tagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

// Strip removes every {name} token from text, as if each had resolved to
// the empty string. No validation is performed.
func Strip(text string) string {
	return tagPattern.ReplaceAllString(text, "")
}

// Substitute replaces declared {tag} tokens in text with values drawn from
// ctx, validating each value against the spec of the same name. A tag with
// no value substitutes the empty string. With no declared parameters the
// text is returned unchanged and nothing is validated.
func Substitute(text string, specs map[string]param.Spec, ctx Context) (string, error) {
	if len(specs) == 0 {
		return text, nil
	}

	var firstErr error
	cursor := 0
	out := matcher(specs).ReplaceAllStringFunc(text, func(match string) string {
		if firstErr != nil {
			return match
		}
		tag := match[1 : len(match)-1]

		var value any
		if ctx.byPosition {
			if cursor < len(ctx.positional) {
				value = ctx.positional[cursor]
			}
			cursor++
		} else {
			value = ctx.named[tag]
		}

		if err := param.ValidateNamed(tag, value, specs[tag]); err != nil {
			firstErr = err
			return match
		}
		return render(value)
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// matcher builds a pattern matching only the declared parameter names, so
// unknown tags in the text never match.
func matcher(specs map[string]param.Spec) *regexp.Regexp {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, regexp.QuoteMeta(name))
	}
	sort.Strings(names)
	return regexp.MustCompile(`\{(?:` + strings.Join(names, "|") + `)\}`)
}

func render(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}
