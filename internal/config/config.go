package config

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule describes one profile rule: zero or more window matchers plus the
// actions to take while the rule is active. Matcher fields are pointers so
// that an absent key and a present-but-empty value stay distinguishable;
// a rule with no matchers is always active.
type Rule struct {
	WindowTitle *string  `json:"window-title" yaml:"window-title"`
	WindowClass *string  `json:"window-class" yaml:"window-class"`
	WindowID    *string  `json:"window-id" yaml:"window-id"`
	Mapping     *Mapping `json:"mapping" yaml:"mapping"`
	Pad         []string `json:"pad" yaml:"pad"`
	Stylus      []string `json:"stylus" yaml:"stylus"`
	Eraser      []string `json:"eraser" yaml:"eraser"`
}

// Specificity is the number of matcher keys present on the rule.
// Rules are applied in ascending specificity order so that more
// specific rules override general ones.
func (r *Rule) Specificity() int {
	n := 0
	for _, m := range []*string{r.WindowTitle, r.WindowClass, r.WindowID} {
		if m != nil {
			n++
		}
	}
	return n
}

// NamedRule pairs a rule with its name from the profile file.
type NamedRule struct {
	Name string
	Rule Rule
}

// RuleSet is an ordered list of named rules. Order matters: ties in
// specificity are broken by file order, so decoding preserves it.
type RuleSet []NamedRule

// Group binds a device-name prefix to its rule set. A device belongs to
// the group when its name starts with the prefix.
type Group struct {
	Prefix string
	Rules  RuleSet
}

// Config is the full profile configuration, one group per device-name
// prefix, in file order. Groups are evaluated independently.
type Config []Group

// ValidationError reports an invalid profile value with its location.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks the decoded configuration: matcher regexes must
// compile, and option strings must be non-empty.
func (c Config) Validate() error {
	for _, group := range c {
		if strings.TrimSpace(group.Prefix) == "" {
			return &ValidationError{Path: "(top level)", Err: fmt.Errorf("device prefix must not be empty")}
		}
		for _, nr := range group.Rules {
			path := group.Prefix + "." + nr.Name
			if nr.Rule.WindowTitle != nil {
				if _, err := regexp.Compile(*nr.Rule.WindowTitle); err != nil {
					return &ValidationError{Path: path + ".window-title", Err: err}
				}
			}
			for key, opts := range map[string][]string{
				"pad":    nr.Rule.Pad,
				"stylus": nr.Rule.Stylus,
				"eraser": nr.Rule.Eraser,
			} {
				for i, opt := range opts {
					if strings.TrimSpace(opt) == "" {
						return &ValidationError{
							Path: fmt.Sprintf("%s.%s[%d]", path, key, i),
							Err:  fmt.Errorf("option string must not be empty"),
						}
					}
				}
			}
		}
	}
	return nil
}
