package trackname

import (
	"regexp"
	"strings"

	"trackmatch/internal/textutil"
)

// Tags records independent version traits of a title or album. The fields
// are combinatorial: a title can be both live and acoustic.
type Tags struct {
	Remix        bool `json:"remix,omitempty"`
	Live         bool `json:"live,omitempty"`
	Acoustic     bool `json:"acoustic,omitempty"`
	Instrumental bool `json:"instrumental,omitempty"`
	ACappella    bool `json:"a_cappella,omitempty"`
	Demo         bool `json:"demo,omitempty"`
	RadioEdit    bool `json:"radio_edit,omitempty"`
	Extended     bool `json:"extended,omitempty"`
	DJMix        bool `json:"dj_mix,omitempty"`
	Mashup       bool `json:"mashup,omitempty"`
}

// Merge returns the union of two tag sets.
func (t Tags) Merge(other Tags) Tags {
	return Tags{
		Remix:        t.Remix || other.Remix,
		Live:         t.Live || other.Live,
		Acoustic:     t.Acoustic || other.Acoustic,
		Instrumental: t.Instrumental || other.Instrumental,
		ACappella:    t.ACappella || other.ACappella,
		Demo:         t.Demo || other.Demo,
		RadioEdit:    t.RadioEdit || other.RadioEdit,
		Extended:     t.Extended || other.Extended,
		DJMix:        t.DJMix || other.DJMix,
		Mashup:       t.Mashup || other.Mashup,
	}
}

// traitDef maps a set of whole-word phrases to the trait they imply.
type traitDef struct {
	set     func(*Tags)
	phrases []string
}

// titleTraitDefs is the single source of truth for title trait phrases.
// Phrases are matched against normalized text.
var titleTraitDefs = []traitDef{
	{func(t *Tags) { t.Live = true }, []string{"live", "en vivo", "ao vivo", "in concert", "live version", "live recording"}},
	{func(t *Tags) { t.Acoustic = true }, []string{"acoustic", "unplugged", "stripped", "acoustic version"}},
	{func(t *Tags) { t.Instrumental = true }, []string{"instrumental", "karaoke", "backing track", "inst"}},
	{func(t *Tags) { t.ACappella = true }, []string{"a cappella", "acappella", "a capella", "acapella", "vocals only"}},
	{func(t *Tags) { t.Demo = true }, []string{"demo", "early version", "early take", "rough mix", "work in progress", "rehearsal"}},
	{func(t *Tags) { t.RadioEdit = true }, []string{"radio edit", "radio mix", "radio version", "single edit", "single version"}},
	{func(t *Tags) { t.Extended = true }, []string{"extended", "extended mix", "club mix", "12 inch", "12 version", "12 mix"}},
	{func(t *Tags) { t.DJMix = true }, []string{"dj mix", "continuous mix", "mixed by", "mix cut", "mixed"}},
}

// albumTraitDefs only tags release-level traits; most studio albums contain
// words like "live" in their names, so only unambiguous phrases count.
var albumTraitDefs = []traitDef{
	{func(t *Tags) { t.Live = true }, []string{"live at", "live from", "live in", "in concert", "unplugged", "en vivo", "ao vivo"}},
	{func(t *Tags) { t.DJMix = true }, []string{"dj mix", "continuous mix", "mixed by", "mix cut", "mixed"}},
}

type compiledTrait struct {
	set     func(*Tags)
	pattern *regexp.Regexp
}

var (
	titleTraits []compiledTrait
	albumTraits []compiledTrait
)

func init() {
	titleTraits = compileTraits(titleTraitDefs)
	albumTraits = compileTraits(albumTraitDefs)
}

func compileTraits(defs []traitDef) []compiledTrait {
	out := make([]compiledTrait, 0, len(defs))
	for _, def := range defs {
		out = append(out, compiledTrait{set: def.set, pattern: keywordPattern(def.phrases...)})
	}
	return out
}

// Detect tags a track title with its version traits.
func Detect(title string) Tags {
	var tags Tags
	if strings.Contains(title, " / ") {
		tags.Mashup = true
	}
	normalized := textutil.Normalize(title)
	if normalized == "" {
		return tags
	}
	for _, trait := range titleTraits {
		if trait.pattern.MatchString(normalized) {
			trait.set(&tags)
		}
	}
	tags.Remix = isRemix(normalized)
	return tags
}

// DetectAlbum tags an album name with release-level traits (live
// recordings and DJ mixes).
func DetectAlbum(album string) Tags {
	var tags Tags
	normalized := textutil.Normalize(album)
	if normalized == "" {
		return tags
	}
	for _, trait := range albumTraits {
		if trait.pattern.MatchString(normalized) {
			trait.set(&tags)
		}
	}
	return tags
}
