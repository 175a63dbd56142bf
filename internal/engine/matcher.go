package engine

import (
	"regexp"

	"github.com/1broseidon/tabletd/internal/config"
)

// matcher is one window condition of a rule. Matchers form a closed
// set: title regex, exact class, exact identifier. All matchers on a
// rule must pass for the rule to be active.
type matcher interface {
	// matches evaluates the condition against the focused window. A
	// failed window query counts as a non-match, not an error.
	matches(ws WindowSystem, windowID string) (bool, error)
}

type titleMatcher struct {
	pattern *regexp.Regexp
}

func (m titleMatcher) matches(ws WindowSystem, windowID string) (bool, error) {
	title, err := ws.WindowTitle(windowID)
	if err != nil {
		return false, err
	}
	return m.pattern.MatchString(title), nil
}

type classMatcher struct {
	class string
}

func (m classMatcher) matches(ws WindowSystem, windowID string) (bool, error) {
	classes, err := ws.WindowClasses(windowID)
	if err != nil {
		return false, err
	}
	for _, class := range classes {
		if class == m.class {
			return true, nil
		}
	}
	return false, nil
}

type idMatcher struct {
	id string
}

func (m idMatcher) matches(_ WindowSystem, windowID string) (bool, error) {
	return windowID == m.id, nil
}

// compileMatchers builds a rule's matcher set. The title regex was
// validated at config load, so a compile failure here is a bug.
func compileMatchers(rule config.Rule) ([]matcher, error) {
	var matchers []matcher
	if rule.WindowTitle != nil {
		pattern, err := regexp.Compile(*rule.WindowTitle)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, titleMatcher{pattern: pattern})
	}
	if rule.WindowClass != nil {
		matchers = append(matchers, classMatcher{class: *rule.WindowClass})
	}
	if rule.WindowID != nil {
		matchers = append(matchers, idMatcher{id: *rule.WindowID})
	}
	return matchers, nil
}
