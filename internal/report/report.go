package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/venturemap/vc-matcher/internal/matching"
	"github.com/venturemap/vc-matcher/internal/profile"
)

// Render prints the ranked matches for founderID as a table, truncated to the
// first topN entries. The orchestrator always hands over the full ranked set;
// truncation is display-only. A non-positive topN shows everything. founder may
// be nil when the requested id matched no profile; the header then falls back
// to founderID.
func Render(w io.Writer, founderID string, founder *profile.Founder, matches []*matching.Match, topN int) {
	name, id := founderID, founderID
	if founder != nil {
		id = founder.StartupID
		name = founder.Name
		if name == "" {
			name = id
		}
	}

	fmt.Fprintf(w, "Top investor matches for %s (%s)\n", name, id)

	if len(matches) == 0 {
		fmt.Fprintln(w, "No suitable investor matches found.")
		return
	}

	top := matches
	if topN > 0 && topN < len(top) {
		top = top[:topN]
	}

	fmt.Fprintf(w, "Found %d potential matches. Displaying top %d.\n", len(matches), len(top))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Investor", "Type", "Score", "Reasoning", "Investor ID"})
	table.SetAutoWrapText(true)
	table.SetColWidth(60)
	table.SetRowLine(true)

	for i, match := range top {
		table.Append([]string{
			strconv.Itoa(i + 1),
			match.InvestorName,
			match.InvestorType,
			strconv.Itoa(match.Score),
			match.Reasoning,
			match.InvestorID,
		})
	}

	table.Render()
}
