package services

import (
	"regexp"
	"strings"
)

// KPI records do not carry a reliable activity foreign key, so ownership is
// decided by a cascading comparison over activity name, project code and
// zone. The cascade runs in a fixed order and the first failing stage
// excludes the pair; exclusion is not an error, the record just does not
// contribute to that activity's totals.

// NameMatchStrategy selects how activity names are compared.
type NameMatchStrategy int

const (
	// SubstringMatch accepts case-insensitive equality or either name
	// containing the other. This is the source system's policy: it absorbs
	// minor naming drift between BOQ lines and KPI entries, at the cost of
	// false positives when one activity name is a prefix of another.
	SubstringMatch NameMatchStrategy = iota
	// ExactMatch accepts only case-insensitive equality.
	ExactMatch
	// NormalizedMatch collapses whitespace before exact comparison.
	NormalizedMatch
)

// Matcher decides whether a KPI entry belongs to a BOQ activity.
type Matcher struct {
	NameStrategy NameMatchStrategy
}

// DefaultMatcher uses the loose substring policy the source data requires.
var DefaultMatcher = Matcher{NameStrategy: SubstringMatch}

var (
	zoneLabeledRe  = regexp.MustCompile(`(?i)zone\s*[-_]?\s*(\d+)`)
	trailingNumRe  = regexp.MustCompile(`(\d+)\s*$`)
	firstNumRe     = regexp.MustCompile(`(\d+)`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	zonePrefixSeps = []string{" - ", "-", " "}
)

// NormalizeZone lowercases and trims a zone descriptor and strips a leading
// project-code prefix ("P4110 - Zone 2" -> "zone 2"). Idempotent: applying
// it to its own output is a no-op.
func NormalizeZone(zone, projectCode string) string {
	z := strings.ToLower(strings.TrimSpace(zone))
	code := strings.ToLower(strings.TrimSpace(projectCode))
	for code != "" && strings.HasPrefix(z, code) {
		rest := z[len(code):]
		stripped := false
		for _, sep := range zonePrefixSeps {
			if strings.HasPrefix(rest, sep) {
				rest = rest[len(sep):]
				stripped = true
				break
			}
		}
		if !stripped && rest != "" {
			break // code is a prefix of a longer token, not a label
		}
		z = strings.TrimSpace(rest)
	}
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(z, " "))
}

// ZoneNumber extracts the numeric zone identity from a descriptor: a
// "zone 5"/"zone-5"/"zone_5" label wins, then trailing digits, then the
// first digit run. Returns "" when the descriptor carries no number.
func ZoneNumber(zone string) string {
	if m := zoneLabeledRe.FindStringSubmatch(zone); m != nil {
		return strings.TrimLeft(m[1], "0")
	}
	if m := trailingNumRe.FindStringSubmatch(zone); m != nil {
		return strings.TrimLeft(m[1], "0")
	}
	if m := firstNumRe.FindStringSubmatch(zone); m != nil {
		return strings.TrimLeft(m[1], "0")
	}
	return ""
}

// nameMatches applies the configured strategy. The substring rule is
// symmetric: a contains b or b contains a.
func (m Matcher) nameMatches(a, b string) bool {
	x := strings.ToLower(strings.TrimSpace(a))
	y := strings.ToLower(strings.TrimSpace(b))
	if x == "" || y == "" {
		return false
	}
	switch m.NameStrategy {
	case ExactMatch:
		return x == y
	case NormalizedMatch:
		return whitespaceRe.ReplaceAllString(x, " ") == whitespaceRe.ReplaceAllString(y, " ")
	default:
		return x == y || strings.Contains(x, y) || strings.Contains(y, x)
	}
}

// projectMatches compares the KPI's project identity against the activity's.
// Full codes compare exactly (case-insensitive). When either side lacks a
// full code the bare project code is compared instead, again exactly — a
// bare "P4110" never matches the sub-coded "P4110-P", which is a materially
// different project scope.
func projectMatches(k KPI, a Activity, projectFullCode string) bool {
	kpiFull := strings.ToLower(strings.TrimSpace(k.ProjectFullCode))
	actFull := strings.ToLower(strings.TrimSpace(a.ProjectFullCode))
	if actFull == "" {
		actFull = strings.ToLower(strings.TrimSpace(projectFullCode))
	}
	if kpiFull != "" && actFull != "" {
		return kpiFull == actFull
	}

	kpiCode := strings.ToLower(strings.TrimSpace(k.ProjectCode))
	if kpiCode == "" {
		kpiCode = kpiFull
	}
	if kpiCode == "" || actFull == "" {
		return false
	}
	return kpiCode == actFull
}

// zoneMatches enforces zone agreement only when the activity names a zone.
// An activity without a zone is general and accepts any KPI zone.
func zoneMatches(kpiZone, activityZone string) bool {
	if activityZone == "" {
		return true
	}
	if kpiZone == "" {
		return false
	}
	if kpiZone == activityZone {
		return true
	}
	if kn, an := ZoneNumber(kpiZone), ZoneNumber(activityZone); kn != "" && kn == an {
		return true
	}
	return strings.Contains(kpiZone, activityZone) || strings.Contains(activityZone, kpiZone)
}

// Matches runs the full cascade: name, project, zone — in that order, all
// stages must pass.
func (m Matcher) Matches(k KPI, a Activity, projectFullCode string) bool {
	if !m.nameMatches(k.ActivityName, a.Name) {
		return false
	}
	if !projectMatches(k, a, projectFullCode) {
		return false
	}
	code := projectCodeOf(projectFullCode)
	return zoneMatches(NormalizeZone(k.Zone, code), NormalizeZone(a.Zone, code))
}

// projectCodeOf returns the bare code portion of a full code ("P4110-P" ->
// "P4110") for zone-prefix stripping.
func projectCodeOf(fullCode string) string {
	fullCode = strings.TrimSpace(fullCode)
	if i := strings.Index(fullCode, "-"); i > 0 {
		return fullCode[:i]
	}
	return fullCode
}

// MatchActivity finds the activity a KPI belongs to. When several activities
// match, one whose zone agrees with the KPI's is preferred over a general
// (zoneless) one; otherwise the first match wins. The tie-break is silent —
// ambiguity in the source data is expected, not exceptional.
func (m Matcher) MatchActivity(k KPI, activities []Activity, project Project) (Activity, bool) {
	fullCode := project.FullCode()
	code := projectCodeOf(fullCode)
	kpiZone := NormalizeZone(k.Zone, code)

	var first Activity
	found := false
	for _, a := range activities {
		if !m.Matches(k, a, fullCode) {
			continue
		}
		actZone := NormalizeZone(a.Zone, code)
		if actZone != "" && kpiZone != "" {
			return a, true
		}
		if !found {
			first = a
			found = true
		}
	}
	return first, found
}
