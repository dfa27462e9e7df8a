package trackname

import (
	"regexp"
	"strings"

	"trackmatch/internal/textutil"
)

// Class is the coarse category of a version string.
type Class string

const (
	ClassNone      Class = ""
	ClassRemix     Class = "remix"
	ClassRadioEdit Class = "radio_edit"
	ClassExtended  Class = "extended"
	ClassVariation Class = "variation"
	ClassOther     Class = "other"
)

// Normalized is the derived, comparison-ready form of a title.
type Normalized struct {
	Base        string `json:"base"`
	Version     string `json:"version,omitempty"`
	IsRemix     bool   `json:"is_remix"`
	IsRadioEdit bool   `json:"is_radio_edit"`
	IsExtended  bool   `json:"is_extended"`
	IsVariation bool   `json:"is_variation"`
}

// HasVersion reports whether the title carried a version string.
func (n Normalized) HasVersion() bool {
	return n.Version != ""
}

// Class returns the dominant category of the version string. Radio edits win
// over extended tags, which win over remixes, so "Original Mix" is extended
// and "Tiesto Remix (Radio Edit)" style strings are radio edits.
func (n Normalized) Class() Class {
	switch {
	case n.Version == "":
		return ClassNone
	case n.IsRadioEdit:
		return ClassRadioEdit
	case n.IsExtended:
		return ClassExtended
	case n.IsRemix:
		return ClassRemix
	case n.IsVariation:
		return ClassVariation
	default:
		return ClassOther
	}
}

// IsOriginalMixTag reports whether the version string only marks the
// original/album cut ("Original Mix", "Original Version").
func (n Normalized) IsOriginalMixTag() bool {
	return originalTagPattern.MatchString(n.Version)
}

var (
	// parenGroupPattern captures bracketed groups in a raw title.
	parenGroupPattern = regexp.MustCompile(`[\(\[]([^\)\]]*)[\)\]]`)

	// dashSuffixPattern captures a trailing " - Radio Edit" style suffix.
	dashSuffixPattern = regexp.MustCompile(`\s+[-–—]\s+([^-–—]+)$`)

	originalTagPattern = regexp.MustCompile(`^original( mix| version| edit)?$`)

	remixPattern     = keywordPattern("remix", "rmx", "mix", "rework", "bootleg", "edit")
	radioEditPattern = keywordPattern("radio", "single")
	extendedPattern  = keywordPattern("extended", "club", "12", "12 inch", "original")
	variationPattern = keywordPattern("variation", "version", "var", "alt", "alternate")

	// neutralVersionPattern removes tags that name a cut of the original
	// recording rather than a rework of it, so "Original Mix" and
	// "Radio Edit" do not count as remixes.
	neutralVersionPattern = keywordPattern(
		"original mix", "original edit", "radio edit", "radio mix", "single edit",
		"single mix", "extended mix", "extended edit", "club mix", "12 inch mix",
		"12 mix", "album edit", "album mix",
	)

	// dashVersionPattern limits dash suffixes to ones that clearly name a version.
	dashVersionPattern = keywordPattern(
		"remix", "rmx", "mix", "edit", "version", "rework", "bootleg", "live",
		"acoustic", "instrumental", "demo", "remaster", "remastered", "extended",
		"radio", "single", "mono", "stereo", "unplugged",
	)
)

func keywordPattern(keywords ...string) *regexp.Regexp {
	quoted := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		quoted = append(quoted, regexp.QuoteMeta(keyword))
	}
	return regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`)
}

// Parse derives the normalized base title and version flags from a raw
// title. Featuring credits are removed first; the first remaining bracketed
// group becomes the version string; without one, a trailing dash suffix naming a version is
// used instead. Empty input yields an empty Normalized.
func Parse(title string) Normalized {
	title = strings.TrimSpace(title)
	if title == "" {
		return Normalized{}
	}

	base := stripFeatureGroups(title)
	var version string
	if loc := firstVersionGroup(base); loc != nil {
		version = base[loc[2]:loc[3]]
		base = base[:loc[0]] + " " + base[loc[1]:]
	} else if m := dashSuffixPattern.FindStringSubmatchIndex(base); m != nil {
		suffix := textutil.Normalize(base[m[2]:m[3]])
		if dashVersionPattern.MatchString(suffix) {
			version = base[m[2]:m[3]]
			base = base[:m[0]]
		}
	}
	base = stripFeatureTail(base)

	out := Normalized{
		Base:    textutil.Normalize(base),
		Version: textutil.Normalize(version),
	}
	whole := textutil.Normalize(title)
	out.IsRemix = isRemix(out.Version) || isRemix(whole)
	if out.Version != "" {
		out.IsRadioEdit = radioEditPattern.MatchString(out.Version)
		out.IsExtended = extendedPattern.MatchString(out.Version)
		out.IsVariation = variationPattern.MatchString(out.Version)
	}
	return out
}

func isRemix(normalized string) bool {
	if normalized == "" {
		return false
	}
	return remixPattern.MatchString(neutralVersionPattern.ReplaceAllString(normalized, " "))
}

func firstVersionGroup(title string) []int {
	for _, loc := range parenGroupPattern.FindAllStringSubmatchIndex(title, -1) {
		if strings.TrimSpace(title[loc[2]:loc[3]]) != "" {
			return loc
		}
	}
	return nil
}
