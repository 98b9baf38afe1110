package feedimport

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule is a keyword or regular expression matched against an item's title
// and description.
type Rule struct {
	Exclude bool
	Pattern string
	re      *regexp.Regexp
}

// Rules is a set of include and exclude rules.
type Rules []Rule

// ParseRule builds a rule. A pattern wrapped in slashes is a
// case-insensitive regular expression; anything else is a plain
// case-insensitive substring.
func ParseRule(pattern string, exclude bool) (Rule, error) {
	r := Rule{Exclude: exclude, Pattern: pattern}
	if len(pattern) > 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		re, err := regexp.Compile("(?i)" + pattern[1:len(pattern)-1])
		if err != nil {
			return Rule{}, fmt.Errorf("invalid regex: %w", err)
		}
		r.re = re
	}
	return r, nil
}

// ParseRules builds rules from comma-separated include and exclude lists.
func ParseRules(include, exclude string) (Rules, error) {
	var rules Rules
	for _, set := range []struct {
		list    string
		exclude bool
	}{{include, false}, {exclude, true}} {
		for _, p := range strings.Split(set.list, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			r, err := ParseRule(p, set.exclude)
			if err != nil {
				return nil, err
			}
			rules = append(rules, r)
		}
	}
	return rules, nil
}

// Match checks whether an item passes the rules.
// If no rules are provided, the item always passes.
// Include rules use OR logic (at least one must match).
// Exclude rules use AND logic (none must match).
func (rs Rules) Match(title, description string) bool {
	text := strings.ToLower(title + " " + description)
	hasIncludes := false
	anyIncludeMatched := false
	for _, r := range rs {
		if r.Exclude {
			if r.match(text) {
				return false
			}
			continue
		}
		hasIncludes = true
		if r.match(text) {
			anyIncludeMatched = true
		}
	}
	return !hasIncludes || anyIncludeMatched
}

func (r Rule) match(text string) bool {
	if r.re != nil {
		return r.re.MatchString(text)
	}
	return strings.Contains(text, strings.ToLower(r.Pattern))
}
