package tui

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// RenderDiff renders a line diff between two expanded descriptors.
func RenderDiff(fromLabel, toLabel, from, to string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", failStyle.Render("--- "+fromLabel), passStyle.Render("+++ "+toLabel))

	added, removed := 0, 0
	for _, d := range LineDiff(from, to) {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				added++
				b.WriteString(passStyle.Render("+"+line) + "\n")
			case diffmatchpatch.DiffDelete:
				removed++
				b.WriteString(failStyle.Render("-"+line) + "\n")
			default:
				b.WriteString(faintStyle.Render(" "+line) + "\n")
			}
		}
	}

	if added == 0 && removed == 0 {
		return dimStyle.Render("No changes in the expanded descriptor.") + "\n"
	}
	fmt.Fprintf(&b, "\n%s %s\n", passStyle.Render(fmt.Sprintf("%d added", added)), failStyle.Render(fmt.Sprintf("%d removed", removed)))
	return b.String()
}

// LineDiff diffs two texts line by line.
func LineDiff(from, to string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
