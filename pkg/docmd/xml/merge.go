package xml

// fill copies src into *dst when dst is unset.
func fill[T any](dst **T, src *T) {
	if *dst == nil && src != nil {
		v := *src
		*dst = &v
	}
}

// FillFrom copies every property set on src that p does not set yet.
func (p *RunProperties) FillFrom(src *RunProperties) {
	if src == nil {
		return
	}
	fill(&p.Style, src.Style)
	fill(&p.Font, src.Font)
	fill(&p.Bold, src.Bold)
	fill(&p.Italic, src.Italic)
	fill(&p.Caps, src.Caps)
	fill(&p.Strike, src.Strike)
	fill(&p.NoProof, src.NoProof)
	fill(&p.Color, src.Color)
	fill(&p.Size, src.Size)
	fill(&p.SizeCs, src.SizeCs)
	fill(&p.Highlight, src.Highlight)
	fill(&p.Underline, src.Underline)
	fill(&p.Border, src.Border)
	fill(&p.Shading, src.Shading)
	fill(&p.VerticalAlign, src.VerticalAlign)
	fill(&p.Lang, src.Lang)
}

// IsEmpty reports whether no property is set.
func (p *RunProperties) IsEmpty() bool {
	return p == nil || *p == RunProperties{}
}

// FillFrom copies every property set on src that p does not set yet.
func (p *ParagraphProperties) FillFrom(src *ParagraphProperties) {
	if src == nil {
		return
	}
	fill(&p.Style, src.Style)
	fill(&p.KeepNext, src.KeepNext)
	fill(&p.Numbering, src.Numbering)
	fill(&p.Borders, src.Borders)
	fill(&p.Shading, src.Shading)
	fill(&p.Tabs, src.Tabs)
	fill(&p.Spacing, src.Spacing)
	fill(&p.Indentation, src.Indentation)
	fill(&p.Alignment, src.Alignment)
	fill(&p.TextDirection, src.TextDirection)
	fill(&p.OutlineLevel, src.OutlineLevel)
	if src.RunProperties != nil {
		if p.RunProperties == nil {
			p.RunProperties = &RunProperties{}
		}
		p.RunProperties.FillFrom(src.RunProperties)
	}
}

// IsEmpty reports whether no property is set.
func (p *ParagraphProperties) IsEmpty() bool {
	return p == nil || *p == ParagraphProperties{}
}

// FillFrom copies every property set on src that p does not set yet.
func (p *TableCellProperties) FillFrom(src *TableCellProperties) {
	if src == nil {
		return
	}
	fill(&p.Width, src.Width)
	fill(&p.GridSpan, src.GridSpan)
	fill(&p.VMerge, src.VMerge)
	fill(&p.Borders, src.Borders)
	fill(&p.Shading, src.Shading)
	fill(&p.NoWrap, src.NoWrap)
	fill(&p.Margins, src.Margins)
	fill(&p.TextDirection, src.TextDirection)
	fill(&p.VAlign, src.VAlign)
}
