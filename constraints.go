package gokata

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// numBound is one compiled numeric bound kept in both integer and floating
// form so checks never re-parse a number at validation time.
type numBound struct {
	set bool
	i   int64
	f   float64
}

const (
	transformStrip uint8 = 1 << iota
	transformLower
	transformUpper
)

// constraintSet is the compiled rule set of one field. Compile builds it
// once; afterwards it is read-only and shared across validations.
type constraintSet struct {
	gt, ge, lt, le numBound
	multiple       numBound
	tolerance      float64

	// -1 means unset.
	minLen, maxLen int

	allowInfNaN bool
	transforms  uint8

	pattern *regexp.Regexp
	enum    map[string]struct{}
	// enumList keeps the declared order for messages.
	enumList string
	prefix   *string
	suffix   *string
	substr   *string
	format   FormatCode
}

func (c *constraintSet) applyTransforms(s string) string {
	if c.transforms&transformStrip != 0 {
		s = strings.TrimSpace(s)
	}
	if c.transforms&transformLower != 0 {
		s = strings.ToLower(s)
	}
	if c.transforms&transformUpper != 0 {
		s = strings.ToUpper(s)
	}
	return s
}

// checkInt applies the numeric rules to an integer value. The first failing
// rule wins; later rules are not evaluated.
func (c *constraintSet) checkInt(path string, v int64) *Issue {
	if c.gt.set && v <= c.gt.i {
		return intBoundIssue(path, CodeTooSmall, "gt", c.gt.i, v, true)
	}
	if c.ge.set && v < c.ge.i {
		return intBoundIssue(path, CodeTooSmall, "ge", c.ge.i, v, false)
	}
	if c.lt.set && v >= c.lt.i {
		return intBoundIssue(path, CodeTooBig, "lt", c.lt.i, v, true)
	}
	if c.le.set && v > c.le.i {
		return intBoundIssue(path, CodeTooBig, "le", c.le.i, v, false)
	}
	if c.multiple.set && v%c.multiple.i != 0 {
		iss := ruleIssue(path, CodeNotMultiple, "multiple_of", map[string]string{
			"multiple": formatInt(c.multiple.i),
			"got":      formatInt(v),
		})
		return &iss
	}
	return nil
}

// checkFloat applies finiteness and the numeric rules to a floating value.
func (c *constraintSet) checkFloat(path string, v float64) *Issue {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		if !c.allowInfNaN {
			iss := ruleIssue(path, CodeNotFinite, "finite", map[string]string{
				"got": formatFloat(v),
			})
			return &iss
		}
		// Non-finite values skip ordering and multiple rules; there is
		// nothing meaningful to compare.
		return nil
	}
	if c.gt.set && v <= c.gt.f {
		return floatBoundIssue(path, CodeTooSmall, "gt", c.gt.f, v, true)
	}
	if c.ge.set && v < c.ge.f {
		return floatBoundIssue(path, CodeTooSmall, "ge", c.ge.f, v, false)
	}
	if c.lt.set && v >= c.lt.f {
		return floatBoundIssue(path, CodeTooBig, "lt", c.lt.f, v, true)
	}
	if c.le.set && v > c.le.f {
		return floatBoundIssue(path, CodeTooBig, "le", c.le.f, v, false)
	}
	if c.multiple.set {
		rem := math.Mod(v, c.multiple.f)
		if rem != 0 && math.Abs(rem) > c.tolerance {
			iss := ruleIssue(path, CodeNotMultiple, "multiple_of", map[string]string{
				"multiple": formatFloat(c.multiple.f),
				"got":      formatFloat(v),
			})
			return &iss
		}
	}
	return nil
}

// checkString applies the textual rules to an already-transformed string.
// Rule order: enum, length, pattern, prefix/suffix/substring, format.
func (c *constraintSet) checkString(path, s string, fv FormatValidator) *Issue {
	if c.enum != nil {
		if _, ok := c.enum[s]; !ok {
			iss := ruleIssue(path, CodeInvalidEnum, "enum", map[string]string{
				"allowed": c.enumList,
				"got":     s,
			})
			return &iss
		}
	}
	if c.minLen >= 0 || c.maxLen >= 0 {
		if iss := c.checkLength(path, utf8.RuneCountInString(s)); iss != nil {
			return iss
		}
	}
	if c.pattern != nil && !c.pattern.MatchString(s) {
		iss := ruleIssue(path, CodePattern, "pattern", map[string]string{
			"pattern": c.pattern.String(),
			"got":     s,
		})
		return &iss
	}
	if c.prefix != nil && !strings.HasPrefix(s, *c.prefix) {
		iss := ruleIssue(path, CodeStartsWith, "prefix", map[string]string{
			"prefix": *c.prefix,
			"got":    s,
		})
		return &iss
	}
	if c.suffix != nil && !strings.HasSuffix(s, *c.suffix) {
		iss := ruleIssue(path, CodeEndsWith, "suffix", map[string]string{
			"suffix": *c.suffix,
			"got":    s,
		})
		return &iss
	}
	if c.substr != nil && !strings.Contains(s, *c.substr) {
		iss := ruleIssue(path, CodeContains, "substring", map[string]string{
			"substr": *c.substr,
			"got":    s,
		})
		return &iss
	}
	if c.format != FormatNone {
		if fv == nil {
			fv = getFormatValidator()
		}
		if !fv.Check(c.format, s) {
			iss := ruleIssue(path, CodeInvalidFormat, "format", map[string]string{
				"format": c.format.displayName(),
				"got":    s,
			})
			return &iss
		}
	}
	return nil
}

// checkLength compares a precomputed length (runes for strings, bytes for
// byte fields, elements for lists) against MinLen/MaxLen.
func (c *constraintSet) checkLength(path string, n int) *Issue {
	if c.minLen >= 0 && n < c.minLen {
		iss := ruleIssue(path, CodeTooShort, "min_length", map[string]string{
			"min": strconv.Itoa(c.minLen),
			"got": strconv.Itoa(n),
		})
		return &iss
	}
	if c.maxLen >= 0 && n > c.maxLen {
		iss := ruleIssue(path, CodeTooLong, "max_length", map[string]string{
			"max": strconv.Itoa(c.maxLen),
			"got": strconv.Itoa(n),
		})
		return &iss
	}
	return nil
}

// empty reports whether no rule beyond the type itself is configured.
func (c *constraintSet) empty() bool {
	return !c.gt.set && !c.ge.set && !c.lt.set && !c.le.set && !c.multiple.set &&
		c.minLen < 0 && c.maxLen < 0 && c.transforms == 0 && c.pattern == nil &&
		c.enum == nil && c.prefix == nil && c.suffix == nil && c.substr == nil &&
		c.format == FormatNone
}

func intBoundIssue(path, code, rule string, bound, got int64, exclusive bool) *Issue {
	data := map[string]string{
		"bound": formatInt(bound),
		"got":   formatInt(got),
	}
	if exclusive {
		data["exclusive"] = "true"
	}
	iss := ruleIssue(path, code, rule, data)
	return &iss
}

func floatBoundIssue(path, code, rule string, bound, got float64, exclusive bool) *Issue {
	data := map[string]string{
		"bound": formatFloat(bound),
		"got":   formatFloat(got),
	}
	if exclusive {
		data["exclusive"] = "true"
	}
	iss := ruleIssue(path, code, rule, data)
	return &iss
}

func formatInt(v int64) string { return strconv.FormatInt(v, 10) }

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
