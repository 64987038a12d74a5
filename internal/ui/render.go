package ui

import (
	"fmt"
	"strings"
	"time"

	"clozedojo/internal/engine"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
)

type look int

const (
	lookText look = iota
	lookPrefix
	lookEmpty
	lookFilled
	lookFocused
	lookPass
	lookFail
)

func (r *Root) renderPicker() string {
	w, h := r.cols, r.rows
	header := r.headerText()
	bodyH := max(3, h-2)

	packLines := make([]string, 0, len(r.catalog))
	for i, p := range r.catalog {
		prefix := "  "
		if r.pickerFocus == 0 && i == r.packIndex {
			prefix = "> "
		}
		packLines = append(packLines, fmt.Sprintf("%s%s (%d)", prefix, p.Name, len(p.Passages)))
	}
	if len(packLines) == 0 {
		packLines = []string{"No packs loaded."}
	}
	leftW := r.pickerLeftWidth()
	left := r.drawPanel("Packs", packLines, leftW, bodyH)

	passages := r.selectedPassages()
	passageLines := make([]string, 0, len(passages))
	for i, ps := range passages {
		prefix := "  "
		if r.pickerFocus == 1 && i == r.passageIndex {
			prefix = "> "
		}
		passageLines = append(passageLines, fmt.Sprintf("%s%s %s", prefix, ps.Title, r.progressMark(ps)))
	}
	if len(passageLines) == 0 {
		passageLines = []string{"No passages in this pack."}
	}
	middleW := r.pickerMiddleWidth()
	detail := r.passageDetailLines(max(10, w-leftW-middleW-2))
	if r.layout != LayoutWide {
		if r.setupMsg != "" {
			passageLines = append(passageLines, "", r.setupMsg)
		}
		middle := r.drawPanel("Passages", passageLines, middleW, bodyH)
		return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, left, middle) + "\n" + r.statusText()
	}
	middle := r.drawPanel("Passages", passageLines, middleW, bodyH)
	right := r.drawPanel("Details", detail, max(20, w-leftW-middleW), bodyH)
	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, left, middle, right) + "\n" + r.statusText()
}

func (r *Root) pickerLeftWidth() int {
	return min(30, max(18, r.cols/4))
}

func (r *Root) pickerMiddleWidth() int {
	if r.layout != LayoutWide {
		return max(20, r.cols-r.pickerLeftWidth())
	}
	return min(46, max(28, r.cols/3))
}

func (r *Root) progressMark(ps PassageSummary) string {
	if ps.Attempts == 0 {
		return "[new]"
	}
	mark := fmt.Sprintf("[%d/%d]", ps.BestScore, ps.MaxScore)
	if ps.MaxScore > 0 && ps.BestScore == ps.MaxScore {
		if r.ascii {
			return mark + " *"
		}
		return mark + " ✓"
	}
	return mark
}

func (r *Root) passageDetailLines(width int) []string {
	var b strings.Builder
	if r.setupMsg != "" {
		b.WriteString(r.setupMsg + "\n")
		if r.setupDetails != "" {
			b.WriteString(wordwrap.String(r.setupDetails, width) + "\n")
		}
		b.WriteString("\n")
	}
	pack := r.selectedPack()
	if pack == nil || len(pack.Passages) == 0 {
		b.WriteString("No passages available.")
		return strings.Split(b.String(), "\n")
	}
	ps := pack.Passages[wrapIndex(r.passageIndex, len(pack.Passages))]
	b.WriteString(ps.Title + "\n")
	b.WriteString(fmt.Sprintf("ID: %s\nBlanks: %d\n", ps.PassageID, ps.Blanks))
	if ps.TimeLimitSec > 0 {
		b.WriteString(fmt.Sprintf("Time limit: %s\n", clockLabel(time.Duration(ps.TimeLimitSec)*time.Second)))
	}
	if ps.Attempts > 0 {
		b.WriteString(fmt.Sprintf("Attempts: %d  Best: %d/%d\n", ps.Attempts, ps.BestScore, ps.MaxScore))
	}
	if !ps.LastPlayed.IsZero() {
		b.WriteString("Last played " + humanize.Time(ps.LastPlayed) + "\n")
	}
	if desc := strings.TrimSpace(pack.DescriptionMD); desc != "" {
		b.WriteString("\n" + strings.Join(r.renderMarkdownLines(desc), "\n") + "\n")
	}
	b.WriteString("\nEnter: Start    Esc: Quit")
	return strings.Split(b.String(), "\n")
}

func (r *Root) renderExercise() string {
	w, h := r.cols, r.rows
	if r.sess == nil {
		return r.headerText() + "\n" + r.statusText()
	}
	if DetermineLayoutMode(w, h) == LayoutTooSmall {
		r.cellHits = nil
		msg := []string{
			"Terminal too small",
			fmt.Sprintf("Current: %dx%d", w, h),
			"Minimum: 40x12",
		}
		panel := r.drawPanel("Resize Required", msg, min(40, w), min(6, h))
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, panel)
	}

	p := r.sess.Passage()
	instr := r.instructions
	if limit := max(0, (h-8)/3); len(instr) > limit {
		instr = instr[:limit]
	}
	panelTop := 2 + len(instr)
	panelH := max(3, h-panelTop-1)
	innerW := max(1, w-2)
	innerH := panelH - 2

	lines := wrapGlyphs(passageGlyphs(p, r.sess.Engine().Cells), max(1, innerW-2))
	if r.hasFocus {
		if row, _, ok := locateCell(lines, r.focused); ok {
			if row < r.scroll {
				r.scroll = row
			}
			if row >= r.scroll+innerH {
				r.scroll = row - innerH + 1
			}
		}
	}
	r.scroll = min(max(0, r.scroll), max(0, len(lines)-innerH))

	var marks map[int]bool
	if r.sess.ResultsShown() {
		marks = map[int]bool{}
		for _, b := range r.sess.Result().Blanks {
			marks[b.ID] = b.Correct
		}
	}

	hits := map[point]engine.Cell{}
	body := make([]string, 0, innerH)
	for y := 0; y < innerH; y++ {
		row := r.scroll + y
		if row >= len(lines) {
			body = append(body, "")
			continue
		}
		screenY := panelTop + 1 + y
		for x, g := range lines[row] {
			if g.kind != glyphCell {
				continue
			}
			hits[point{2 + x, screenY}] = g.cell
			if r.hasFocus && g.cell == r.focused {
				r.cursorX, r.cursorY, r.cursorShow = 2+x, screenY, true
			}
		}
		body = append(body, " "+r.renderGlyphLine(lines[row], marks))
	}
	r.cellHits = hits

	out := []string{r.headerText(), r.theme.Title.Render(trimForWidth(" "+firstNonEmpty(p.Title, p.ID), w))}
	for _, line := range instr {
		out = append(out, padCells(line, w))
	}
	out = append(out, r.drawPanel("Passage", body, w, panelH), r.statusText())
	base := strings.Join(out, "\n")
	if r.help.ShowAll {
		base = r.composeHelp(base)
	}
	return base
}

func (r *Root) renderGlyphLine(line glyphLine, marks map[int]bool) string {
	var b strings.Builder
	run := make([]rune, 0, len(line))
	cur := look(-1)
	flush := func() {
		if len(run) > 0 {
			b.WriteString(r.lookStyle(cur).Render(string(run)))
			run = run[:0]
		}
	}
	for _, g := range line {
		l, ch := r.glyphLook(g, marks)
		if l != cur {
			flush()
			cur = l
		}
		run = append(run, ch)
	}
	flush()
	return b.String()
}

func (r *Root) glyphLook(g glyph, marks map[int]bool) (look, rune) {
	switch g.kind {
	case glyphPrefix:
		return lookPrefix, g.ch
	case glyphCell:
		ch := g.ch
		if ch == 0 {
			ch = '_'
		}
		if marks != nil {
			if marks[g.cell.BlankID] {
				return lookPass, ch
			}
			return lookFail, ch
		}
		if r.hasFocus && g.cell == r.focused {
			return lookFocused, ch
		}
		if g.ch == 0 {
			return lookEmpty, ch
		}
		return lookFilled, ch
	}
	return lookText, g.ch
}

func (r *Root) lookStyle(l look) lipgloss.Style {
	switch l {
	case lookPrefix:
		return r.theme.Prefix
	case lookEmpty:
		return r.theme.CellEmpty
	case lookFilled:
		return r.theme.CellFilled
	case lookFocused:
		return r.theme.CellFocused
	case lookPass:
		return r.theme.Pass
	case lookFail:
		return r.theme.Fail
	}
	return r.theme.PanelBody
}

func (r *Root) headerText() string {
	parts := []string{"Cloze Dojo"}
	if r.screen == ScreenExercise && r.sess != nil {
		p := r.sess.Passage()
		parts = append(parts, firstNonEmpty(r.spec.ModeLabel, "Practice"))
		if name := firstNonEmpty(r.spec.PackName, p.PackID); name != "" {
			parts = append(parts, name)
		}
		parts = append(parts, r.timerLabel())
	} else {
		parts = append(parts, "Passages")
	}
	txt := strings.Join(parts, " | ")
	if r.debug {
		txt += fmt.Sprintf(" | %dx%d %v", r.cols, r.rows, r.layout)
		if r.sess != nil {
			txt += " focus:" + r.sess.Scheduler().State().String()
		}
	}
	return r.theme.Header.Width(max(1, r.cols)).Render(trimForWidth(txt, max(1, r.cols-2)))
}

func (r *Root) timerLabel() string {
	t := r.sess.Timer()
	switch {
	case t.Limit() == 0:
		return "Elapsed " + t.Label()
	case t.Overtime():
		return "Overtime " + t.Label()
	default:
		return "Left " + t.Label()
	}
}

func (r *Root) statusText() string {
	bindings := r.pickerKeys
	if r.screen == ScreenExercise {
		bindings = r.keymap.ShortHelp()
	}
	parts := []string{r.help.ShortHelpView(bindings)}
	if r.screen == ScreenExercise && r.sess != nil {
		filled, total := r.sess.Filled()
		pct := 0.0
		if total > 0 {
			pct = float64(filled) / float64(total)
		}
		parts = append(parts, r.filledBar(12, pct)+fmt.Sprintf(" %d/%d", filled, total))
	}
	if r.loading {
		parts = append(parts, r.theme.Accent.Render(strings.TrimSpace(r.spin.View())+" "+firstNonEmpty(r.loadingLabel, "Loading...")))
	}
	if r.statusFlash != "" {
		parts = append(parts, r.statusFlash)
	}
	txt := ansi.Truncate(strings.Join(parts, " | "), max(1, r.cols-2), "…")
	return r.theme.Status.Width(max(1, r.cols)).Render(txt)
}

func (r *Root) filledBar(width int, pct float64) string {
	m := r.filled
	m.SetWidth(max(8, width))
	return m.ViewAs(pct)
}

func (r *Root) composeHelp(base string) string {
	lines := strings.Split(r.help.FullHelpView(r.keymap.FullHelp()), "\n")
	lines = append(lines, "", "F1: Close help")
	w := min(max(40, r.cols-20), r.cols)
	panel := r.drawPanel("Keys", lines, w, len(lines)+2)
	return composeOverlayAt(base, panel, r.cols, r.rows, max(0, (r.rows-len(lines)-2)/2), (r.cols-w)/2)
}

func (r *Root) composeResults(base string) string {
	if r.sess == nil || !r.sess.ResultsShown() || (!r.resultOpen && r.resultPos < 0.01) {
		return base
	}
	w := min(max(40, r.cols-10), r.cols)
	text := wordwrap.String(r.resultText(), max(10, w-4))
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	lines = append(lines, "", "Enter: Next passage  r: Retry  y: Copy  Esc: Passages")
	h := min(len(lines)+2, max(6, r.rows-2))
	panel := r.drawPanel("Results", lines, w, h)
	pos := min(max(r.resultPos, 0), 1)
	startRow := (r.rows-h)/2 + int((1-pos)*float64(r.rows))
	return composeOverlayAt(base, panel, r.cols, r.rows, startRow, (r.cols-w)/2)
}

// resultText is the plain results summary shown in the overlay and copied to
// the clipboard.
func (r *Root) resultText() string {
	if r.sess == nil || !r.sess.ResultsShown() {
		return ""
	}
	res := r.sess.Result()
	p := r.sess.Passage()
	clues := map[int]string{}
	for _, b := range p.Blanks() {
		clues[b.ID] = b.Clue
	}

	var b strings.Builder
	b.WriteString(firstNonEmpty(p.Title, p.ID) + "\n")
	verdict := "Keep practicing"
	if res.Passed() {
		verdict = "Perfect"
	}
	b.WriteString(fmt.Sprintf("Score: %d / %d  %s\n", res.Score, res.MaxScore, verdict))
	b.WriteString("Time: " + clockLabel(res.TimeSpent))
	if res.Overtime {
		b.WriteString(" (overtime)")
	}
	b.WriteString("\n\n")
	for _, br := range res.Blanks {
		given := br.Prefix + br.Given
		if br.Given == "" {
			given = br.Prefix + "…"
			if r.ascii {
				given = br.Prefix + "..."
			}
		}
		if br.Correct {
			b.WriteString(fmt.Sprintf("%s %d. %s\n", r.mark(true), br.ID, given))
			continue
		}
		line := fmt.Sprintf("%s %d. %s, expected %s", r.mark(false), br.ID, given, br.Prefix+br.Expected)
		if br.NearMiss() {
			line += " (one letter off)"
		}
		b.WriteString(line + "\n")
		if clue := strings.TrimSpace(clues[br.ID]); clue != "" {
			b.WriteString("   Clue: " + clue + "\n")
		}
	}
	return b.String()
}

func (r *Root) mark(ok bool) string {
	switch {
	case ok && r.ascii:
		return "v"
	case ok:
		return "✓"
	case r.ascii:
		return "x"
	}
	return "✗"
}

// renderMarkdownLines renders markdown once per distinct text.
func (r *Root) renderMarkdownLines(md string) []string {
	md = strings.TrimSpace(md)
	if md == "" {
		return nil
	}
	out, ok := r.mdCache[md]
	if !ok {
		out = md
		if r.markdown != nil {
			if rendered, err := r.markdown.Render(md); err == nil {
				out = strings.Trim(rendered, "\n")
			}
		}
		r.mdCache[md] = out
	}
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(ansi.Strip(line)) == "" && len(lines) == 0 {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func (r *Root) drawPanel(title string, lines []string, width, height int) string {
	width = max(4, width)
	height = max(3, height)
	innerW := width - 2
	innerH := height - 2

	h, v := "─", "│"
	tl, tr, bl, br := "┌", "┐", "└", "┘"
	if r.ascii {
		h, v = "-", "|"
		tl, tr, bl, br = "+", "+", "+", "+"
	}

	top := tl + strings.Repeat(h, innerW) + tr
	if title != "" && innerW > 2 {
		runes := []rune(top)
		for i, ch := range []rune(" " + title + " ") {
			pos := 1 + i
			if pos >= len(runes)-1 {
				break
			}
			runes[pos] = ch
		}
		top = string(runes)
	}

	out := make([]string, 0, height)
	out = append(out, r.theme.PanelBorder.Render(top))
	for row := 0; row < innerH; row++ {
		line := ""
		if row < len(lines) {
			line = lines[row]
		}
		out = append(out, r.theme.PanelBorder.Render(v)+r.theme.PanelBody.Render(padCells(line, innerW))+r.theme.PanelBorder.Render(v))
	}
	out = append(out, r.theme.PanelBorder.Render(bl+strings.Repeat(h, innerW)+br))
	return strings.Join(out, "\n")
}

// padCells pads or cuts s to exactly width terminal columns, keeping any
// styling intact.
func padCells(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "\t", "    ")
	if ansi.StringWidth(s) > width {
		s = ansi.Truncate(s, width, "")
	}
	if n := ansi.StringWidth(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}

func composeOverlayAt(base, overlay string, cols, rows, startRow, startCol int) string {
	if cols <= 0 || rows <= 0 {
		return base
	}
	base = ansi.Strip(base)
	overlay = ansi.Strip(overlay)
	baseLines := strings.Split(base, "\n")
	if len(baseLines) < rows {
		baseLines = append(baseLines, make([]string, rows-len(baseLines))...)
	}
	for i := 0; i < rows; i++ {
		baseLines[i] = padCells(baseLines[i], cols)
	}
	startRow = max(0, startRow)
	startCol = max(0, startCol)

	for i, line := range strings.Split(strings.TrimRight(overlay, "\n"), "\n") {
		row := startRow + i
		if row >= rows {
			break
		}
		dst := []rune(baseLines[row])
		for j, ch := range []rune(line) {
			if startCol+j >= len(dst) {
				break
			}
			dst[startCol+j] = ch
		}
		baseLines[row] = string(dst)
	}
	return strings.Join(baseLines[:rows], "\n")
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(ansi.Strip(s), "\n", " "))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func clockLabel(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	if i < 0 {
		i = n - 1
	}
	if i >= n {
		i = 0
	}
	return i
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
