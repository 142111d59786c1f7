package mdast

import "slices"

// Schema describes the metadata shape of a kind.
type Schema struct {
	// Required keys are always present.
	Required []string

	// Optional keys may be absent; absence means "not set".
	Optional []string

	// Content names the key printed by the content dump option.
	Content string
}

// Metadata keys.
const (
	KeyContent    = "content"
	KeyMarkup     = "markup"
	KeyInfo       = "info"
	KeyLevel      = "level"
	KeyMarker     = "marker"
	KeyMarkerLen  = "marker_len"
	KeyLangPrefix = "lang_prefix"
	KeyLang       = "lang"
	KeyStart      = "start"
	KeyTight      = "tight"
	KeyURL        = "url"
	KeyTitle      = "title"
	KeyAlignments = "alignments"
	KeyAlignment  = "alignment"
	KeyChecked    = "checked"
	KeyDisabled   = "disabled"
	KeyDefID      = "def_id"
	KeyRefID      = "ref_id"
	KeyLabel      = "label"
	KeyInline     = "inline"
	KeyRefIDs     = "ref_ids"
	KeyHref       = "href"
	KeyID         = "id"
)

//nolint:gochecknoglobals // Read-only lookup table.
var schemas = map[NodeKind]Schema{
	NodeText:              {Required: []string{KeyContent}, Content: KeyContent},
	NodeTextSpecial:       {Required: []string{KeyContent, KeyMarkup, KeyInfo}, Content: KeyContent},
	NodeHeading:           {Required: []string{KeyLevel}},
	NodeLHeading:          {Required: []string{KeyLevel, KeyMarker}},
	NodeCodeBlock:         {Required: []string{KeyContent}, Content: KeyContent},
	NodeFence:             {Required: []string{KeyInfo, KeyMarker, KeyMarkerLen, KeyContent, KeyLangPrefix}, Optional: []string{KeyLang}, Content: KeyContent},
	NodeHR:                {Required: []string{KeyMarker, KeyMarkerLen}},
	NodeBulletList:        {Required: []string{KeyMarker, KeyTight}},
	NodeOrderedList:       {Required: []string{KeyStart, KeyMarker, KeyTight}},
	NodeHTMLBlock:         {Required: []string{KeyContent}, Content: KeyContent},
	NodeHTMLInline:        {Required: []string{KeyContent}, Content: KeyContent},
	NodeAutolink:          {Required: []string{KeyURL}},
	NodeLinkify:           {Required: []string{KeyURL}},
	NodeCodeInline:        {Required: []string{KeyMarker, KeyMarkerLen}},
	NodeEm:                {Required: []string{KeyMarker}},
	NodeStrong:            {Required: []string{KeyMarker}},
	NodeStrikethrough:     {Required: []string{KeyMarker}},
	NodeLink:              {Required: []string{KeyURL}, Optional: []string{KeyTitle}},
	NodeImage:             {Required: []string{KeyURL}, Optional: []string{KeyTitle}},
	NodeTable:             {Required: []string{KeyAlignments}},
	NodeTableCell:         {Required: []string{KeyAlignment}},
	NodeFrontMatter:       {Required: []string{KeyContent}, Content: KeyContent},
	NodeTodoCheckbox:      {Required: []string{KeyChecked, KeyDisabled}},
	NodeFootnoteRef:       {Required: []string{KeyDefID, KeyRefID}, Optional: []string{KeyLabel}},
	NodeFootnoteDef:       {Required: []string{KeyDefID, KeyInline}, Optional: []string{KeyLabel}},
	NodeFootnoteRefAnchor: {Required: []string{KeyRefIDs}},
	NodeHeadingAnchor:     {Required: []string{KeyHref}, Optional: []string{KeyID}},
	NodeDefinitionDesc:    {Required: []string{KeyTight}},
}

// SchemaFor returns the metadata schema of kind. Kinds without fields
// return the zero Schema.
func SchemaFor(kind NodeKind) Schema {
	return schemas[kind]
}

// Conforms reports whether meta carries every required key of the schema
// and nothing outside required and optional keys.
func (s Schema) Conforms(meta Meta) bool {
	for _, key := range s.Required {
		if !meta.Has(key) {
			return false
		}
	}
	for key := range meta {
		if !slices.Contains(s.Required, key) && !slices.Contains(s.Optional, key) {
			return false
		}
	}
	return true
}
