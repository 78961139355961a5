package fields

var (
	alignments      = []string{"left", "center", "right"}
	fontWeights     = []string{"100", "200", "300", "400", "500", "600", "700", "800", "900"}
	fontStyles      = []string{"normal", "italic"}
	textDecorations = []string{"none", "underline"}
	textTransforms  = []string{"none", "uppercase", "capitalize", "lowercase"}
	fontFamilies    = []string{"Arial", "Times New Roman", "Courier New", "Georgia", "Verdana", "Tahoma"}
)

func defaultTextStyle(size int) TextStyle {
	return TextStyle{
		FontSize:       size,
		Alignment:      "left",
		TextColor:      "#000000",
		FontWeight:     "400",
		FontStyle:      "normal",
		TextDecoration: "none",
		TextTransform:  "none",
		FontFamily:     "Arial",
	}
}

func styleControls(s TextStyle) []Control {
	return []Control{
		{Name: "fontSize", Label: "Font size", Kind: ControlNumber, Value: s.FontSize, Min: 10, Max: 72},
		{Name: "alignment", Label: "Alignment", Kind: ControlChoice, Value: s.Alignment, Choices: alignments},
		{Name: "textColor", Label: "Text color", Kind: ControlColor, Value: s.TextColor},
		{Name: "fontWeight", Label: "Font weight", Kind: ControlChoice, Value: s.FontWeight, Choices: fontWeights},
		{Name: "fontStyle", Label: "Font style", Kind: ControlChoice, Value: s.FontStyle, Choices: fontStyles},
		{Name: "textDecoration", Label: "Decoration", Kind: ControlChoice, Value: s.TextDecoration, Choices: textDecorations},
		{Name: "textTransform", Label: "Transform", Kind: ControlChoice, Value: s.TextTransform, Choices: textTransforms},
		{Name: "fontFamily", Label: "Font family", Kind: ControlChoice, Value: s.FontFamily, Choices: fontFamilies},
	}
}

// TitleKind is a top-level heading.
func TitleKind() *Kind[TitleConfig] {
	return &Kind[TitleConfig]{
		Tag:     TypeTitle,
		Palette: Meta{Label: "Title Field", Icon: "heading-1", Group: GroupLayout},
		Default: func() TitleConfig {
			return TitleConfig{Title: "Title field", TextStyle: defaultTextStyle(20)}
		},
		Preview: func(_ Instance, c TitleConfig) View {
			return View{Widget: WidgetHeading, Level: 1, Text: c.Title, Style: c.style()}
		},
		Properties: func(_ Instance, c TitleConfig) []Control {
			title := Control{Name: "title", Label: "Title", Kind: ControlText, Value: c.Title, Min: 2, Max: 50}
			return append([]Control{title}, styleControls(c.TextStyle)...)
		},
	}
}

// SubtitleKind is a secondary heading.
func SubtitleKind() *Kind[SubtitleConfig] {
	return &Kind[SubtitleConfig]{
		Tag:     TypeSubtitle,
		Palette: Meta{Label: "SubTitle Field", Icon: "heading-2", Group: GroupLayout},
		Default: func() SubtitleConfig {
			return SubtitleConfig{SubTitle: "SubTitle field", TextStyle: defaultTextStyle(16)}
		},
		Preview: func(_ Instance, c SubtitleConfig) View {
			return View{Widget: WidgetHeading, Level: 2, Text: c.SubTitle, Style: c.style()}
		},
		Properties: func(_ Instance, c SubtitleConfig) []Control {
			subtitle := Control{Name: "subTitle", Label: "SubTitle", Kind: ControlText, Value: c.SubTitle, Min: 2, Max: 50}
			return append([]Control{subtitle}, styleControls(c.TextStyle)...)
		},
	}
}

// ParagraphKind is a block of explanatory text.
func ParagraphKind() *Kind[ParagraphConfig] {
	return &Kind[ParagraphConfig]{
		Tag:     TypeParagraph,
		Palette: Meta{Label: "Paragraph Field", Icon: "paragraph", Group: GroupLayout},
		Default: func() ParagraphConfig {
			return ParagraphConfig{Text: "Text here"}
		},
		Preview: func(_ Instance, c ParagraphConfig) View {
			return View{Widget: WidgetParagraph, Text: c.Text}
		},
		Properties: func(_ Instance, c ParagraphConfig) []Control {
			return []Control{{Name: "text", Label: "Text", Kind: ControlTextarea, Value: c.Text, Min: 2, Max: 500}}
		},
	}
}

// SeparatorKind draws a horizontal rule. It has no properties.
func SeparatorKind() *Kind[SeparatorConfig] {
	return &Kind[SeparatorConfig]{
		Tag:     TypeSeparator,
		Palette: Meta{Label: "Separator Field", Icon: "separator", Group: GroupLayout},
		Default: func() SeparatorConfig { return SeparatorConfig{} },
		Preview: func(Instance, SeparatorConfig) View {
			return View{Widget: WidgetSeparator}
		},
	}
}

// SpacerKind inserts vertical whitespace.
func SpacerKind() *Kind[SpacerConfig] {
	return &Kind[SpacerConfig]{
		Tag:     TypeSpacer,
		Palette: Meta{Label: "Spacer Field", Icon: "spacer", Group: GroupLayout},
		Default: func() SpacerConfig { return SpacerConfig{Height: 20} },
		Preview: func(_ Instance, c SpacerConfig) View {
			return View{Widget: WidgetSpacer, Height: c.Height}
		},
		Properties: func(_ Instance, c SpacerConfig) []Control {
			return []Control{{Name: "height", Label: "Height (px)", Kind: ControlNumber, Value: c.Height, Min: 5, Max: 200}}
		},
	}
}

// Builtins returns fresh descriptors for every built-in field type, layout
// elements first, in palette order.
func Builtins() []Descriptor {
	return []Descriptor{
		TitleKind(),
		SubtitleKind(),
		ParagraphKind(),
		SeparatorKind(),
		SpacerKind(),
		TextKind(),
		NumberKind(),
		TextareaKind(),
		DateKind(),
		SelectKind(),
		CheckboxKind(),
	}
}
