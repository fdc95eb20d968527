package layout

import (
	"regexp"
	"strings"
	"unicode"
)

// Paragraph classification is an ordered rule list: the first matching rule
// assigns the type and stops. Reordering the rules changes results, so the
// order below is part of the detector's contract:
//
//  1. page number  - bare number in a margin band, or a page pattern;
//     runs before the list rule so "- 12 -" is not read as a bullet
//  2. list item    - leading list marker
//  3. heading      - larger, bold or all-caps short text
//  4. header/footer - short text in the top or bottom margin band
//  5. code         - monospaced dominant font
//  6. quote        - deep left indentation
//  7. caption      - small centered text under two lines
//
// Anything left is normal body text.
type classificationRule struct {
	name  string
	apply func(d *ParagraphDetector, p *Paragraph, normalFontSize float64) bool
}

var classificationRules = []classificationRule{
	{"page_number", (*ParagraphDetector).classifyPageNumber},
	{"list_item", (*ParagraphDetector).classifyListItem},
	{"heading", (*ParagraphDetector).classifyHeading},
	{"header_footer", (*ParagraphDetector).classifyHeaderFooter},
	{"code", (*ParagraphDetector).classifyCode},
	{"quote", (*ParagraphDetector).classifyQuote},
	{"caption", (*ParagraphDetector).classifyCaption},
}

// classify assigns the paragraph's type using the ordered rule list.
func (d *ParagraphDetector) classify(p *Paragraph, normalFontSize float64) {
	if len(p.Lines) == 0 {
		return
	}

	for _, rule := range classificationRules {
		if rule.apply(d, p, normalFontSize) {
			return
		}
	}
	p.Type = ParagraphNormal
}

func (d *ParagraphDetector) classifyListItem(p *Paragraph, _ float64) bool {
	info := DetectListMarker(p.Lines[0])
	if !info.IsList() {
		return false
	}
	p.Type = ParagraphListItem
	p.ListInfo = info
	return true
}

func (d *ParagraphDetector) classifyHeading(p *Paragraph, normalFontSize float64) bool {
	// Headings are short
	if p.LineCount() > 3 {
		return false
	}

	isHeading := false

	if normalFontSize > 0 {
		sizeRatio := p.DominantFontSize() / normalFontSize
		if sizeRatio >= d.config.HeadingSizeRatio {
			isHeading = true
		}
	}

	if !isHeading && p.IsBold() && p.WordCount() <= 10 {
		isHeading = true
	}

	if !isHeading {
		text := p.TextWithoutBreaks()
		if isAllUpper(text) && len(text) > 2 && p.WordCount() <= 10 {
			isHeading = true
		}
	}

	if !isHeading {
		return false
	}

	p.Type = ParagraphHeading
	p.HeadingLevel = d.headingLevel(p, normalFontSize)
	return true
}

// headingLevel maps the size ratio over normal text onto levels 1 to 6.
func (d *ParagraphDetector) headingLevel(p *Paragraph, normalFontSize float64) int {
	if normalFontSize <= 0 {
		return 1
	}

	ratio := p.DominantFontSize() / normalFontSize
	switch {
	case ratio >= 2.0:
		return 1
	case ratio >= 1.7:
		return 2
	case ratio >= 1.5:
		return 3
	case ratio >= 1.3:
		return 4
	case ratio >= 1.2:
		return 5
	default:
		return 6
	}
}

var pageNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^page\s+\d+$`),
	regexp.MustCompile(`^-\s*\d+\s*-$`),
	regexp.MustCompile(`^\d+\s*/\s*\d+$`), // 1/10
}

func (d *ParagraphDetector) classifyPageNumber(p *Paragraph, _ float64) bool {
	text := strings.TrimSpace(p.TextWithoutBreaks())

	if isAllDigits(text) && d.inMarginBand(p.BBox().Y0) {
		p.Type = ParagraphPageNumber
		return true
	}

	lower := strings.ToLower(text)
	for _, pattern := range pageNumberPatterns {
		if pattern.MatchString(lower) {
			p.Type = ParagraphPageNumber
			return true
		}
	}

	return false
}

func (d *ParagraphDetector) classifyHeaderFooter(p *Paragraph, _ float64) bool {
	if p.LineCount() > 2 {
		return false
	}

	y := p.BBox().Y0
	switch {
	case y < d.config.PageTopMargin:
		p.Type = ParagraphHeader
		return true
	case y > d.config.PageHeight-d.config.PageBottomMargin:
		p.Type = ParagraphFooter
		return true
	}
	return false
}

func (d *ParagraphDetector) inMarginBand(y float64) bool {
	return y < d.config.PageTopMargin ||
		y > d.config.PageHeight-d.config.PageBottomMargin
}

var monospaceFonts = []string{
	"courier", "consolas", "menlo", "monaco", "mono", "source code",
}

func (d *ParagraphDetector) classifyCode(p *Paragraph, _ float64) bool {
	font := strings.ToLower(p.DominantFont())
	for _, m := range monospaceFonts {
		if strings.Contains(font, m) {
			p.Type = ParagraphCode
			return true
		}
	}
	return false
}

func (d *ParagraphDetector) classifyQuote(p *Paragraph, _ float64) bool {
	// Quotes are indented well past the left margin, half an inch or more
	if p.BBox().X0 > d.config.PageLeftMargin+36 {
		p.Type = ParagraphQuote
		return true
	}
	return false
}

func (d *ParagraphDetector) classifyCaption(p *Paragraph, normalFontSize float64) bool {
	if p.LineCount() > 2 || normalFontSize <= 0 {
		return false
	}
	if p.DominantFontSize() >= normalFontSize*0.9 {
		return false
	}
	if p.DominantAlignment(d.config.PageWidth) != AlignCenter {
		return false
	}
	p.Type = ParagraphCaption
	return true
}

// isAllUpper reports whether the text contains at least one letter and no
// lowercase letters.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
