package dashboard

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"github.com/okian/marquee/internal/domain/filter"
	"github.com/okian/marquee/internal/domain/kpi"
	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/internal/domain/story"
	"github.com/okian/marquee/internal/domain/view"
)

// Page title and export file name.
const (
	Title          = "Bollywood — Fame vs Talent (Improved)"
	ExportFilename = "bollywood_filtered.csv"
	DefaultTopN    = 10
)

// Hidden gem thresholds: talent above this quantile, fame below that one.
const (
	gemTalentQuantile = 0.75
	gemFameQuantile   = 0.5
)

var (
	topFameColumns = []string{
		model.ColumnActor, model.ColumnMovieCount, model.ColumnRating,
		model.ColumnFameScore, model.ColumnTalentScore,
	}
	fullColumns = model.RequiredColumns
)

// Options tunes rendering.
type Options struct {
	TopN       int
	MaxCompare int
}

// Card is one KPI card.
type Card struct {
	Label   string `json:"label"`
	Display string `json:"display"`
}

// Table is a formatted, display-ready table.
type Table struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return t == nil || len(t.Rows) == 0 }

// Scatter describes the fame vs talent chart block.
type Scatter struct {
	Focus       string `json:"focus,omitempty"`
	Highlighted bool   `json:"highlighted"`
}

// Gems is the hidden gems block with the thresholds that produced it.
type Gems struct {
	Table
	TalentAbove string `json:"talentAbove"`
	FameBelow   string `json:"fameBelow"`
}

// Comparison is the compare block: the picker state and the chosen rows.
type Comparison struct {
	Options  []string `json:"options"`
	Selected []string `json:"selected"`
	Max      int      `json:"max"`
	Table    *Table   `json:"table,omitempty"`
}

// Export is the download block.
type Export struct {
	Filename string `json:"filename"`
	Rows     int    `json:"rows"`
}

// ViewModel is the full render output for one session.
type ViewModel struct {
	Title        string          `json:"title"`
	Bounds       filter.Bounds   `json:"bounds"`
	Criteria     filter.Criteria `json:"criteria"`
	Focus        string          `json:"focus"`
	FocusOptions []string        `json:"focusOptions"`
	StoryEnabled bool            `json:"storyEnabled"`
	Step         story.Step      `json:"step"`
	Caption      string          `json:"caption,omitempty"`
	Mode         string          `json:"mode"`
	Blocks       []view.Block    `json:"blocks"`
	Total        int             `json:"total"`
	Filtered     int             `json:"filtered"`
	Cards        []Card          `json:"cards"`

	Scatter    *Scatter    `json:"scatter,omitempty"`
	TopBalance *Table      `json:"topBalance,omitempty"`
	TopFame    *Table      `json:"topFame,omitempty"`
	HiddenGems *Gems       `json:"hiddenGems,omitempty"`
	Compare    *Comparison `json:"compare,omitempty"`
	Export     *Export     `json:"export,omitempty"`

	KPI  kpi.Summary `json:"-"`
	rows model.Dataset
}

// Rows returns the filtered dataset the view was rendered from.
func (vm ViewModel) Rows() model.Dataset { return vm.rows }

// Filtered returns the subset of ds selected by s.
func Filtered(s State, ds model.Dataset) model.Dataset {
	return filter.Apply(ds, s.Criteria)
}

// Render runs filter, aggregate and view selection for one state.
// It never fails: empty or partial data renders as empty blocks.
func Render(s State, ds model.Dataset, bounds filter.Bounds, opts Options) ViewModel {
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	rows := Filtered(s, ds)
	summary := kpi.Summarize(rows)
	mode := view.ModeOf(s.StoryEnabled, s.Step)
	blocks := mode.Blocks()

	vm := ViewModel{
		Title:        Title,
		Bounds:       bounds,
		Criteria:     s.Criteria,
		Focus:        s.Focus,
		FocusOptions: filter.ActorOptions(ds),
		StoryEnabled: s.StoryEnabled,
		Step:         story.Clamp(s.Step),
		Mode:         mode.String(),
		Blocks:       blocks,
		Total:        ds.Len(),
		Filtered:     rows.Len(),
		KPI:          summary,
		Cards: []Card{
			{Label: "Avg Fame", Display: FormatScore(summary.AvgFame)},
			{Label: "Avg Talent", Display: FormatScore(summary.AvgTalent)},
			{Label: "Avg Balance", Display: FormatScore(summary.AvgBalance)},
		},
		rows: rows,
	}
	if s.StoryEnabled {
		vm.Caption = vm.Step.Caption()
	}

	for _, b := range blocks {
		switch b {
		case view.BlockScatter:
			vm.Scatter = &Scatter{
				Focus:       s.Focus,
				Highlighted: s.Focus != "" && filter.Contains(rows, s.Focus),
			}
		case view.BlockTopBalance:
			vm.TopBalance = tableOf("Top 10 by Balance Score", fullColumns, TopBy(rows, model.ColumnBalanceScore, topN))
		case view.BlockTopFame:
			vm.TopFame = tableOf("Top Fame Actors", topFameColumns, TopBy(rows, model.ColumnFameScore, topN))
		case view.BlockHiddenGems:
			talent, fame := GemThresholds(rows)
			vm.HiddenGems = &Gems{
				Table:       *tableOf("High Talent, Low Fame — Hidden Gems", fullColumns, HiddenGems(rows)),
				TalentAbove: FormatScore(talent),
				FameBelow:   FormatScore(fame),
			}
		case view.BlockCompare:
			vm.Compare = comparison(rows, s.Compare, opts.MaxCompare)
		case view.BlockExport:
			vm.Export = &Export{Filename: ExportFilename, Rows: rows.Len()}
		}
	}
	return vm
}

// TopBy returns the n records with the highest value in column, descending.
// Missing values sort last; ties keep source order.
func TopBy(ds model.Dataset, column string, n int) []model.Record {
	recs := ds.Records()
	slices.SortStableFunc(recs, func(a, b model.Record) int {
		av, bv := a.Value(column), b.Value(column)
		switch {
		case math.IsNaN(av) && math.IsNaN(bv):
			return 0
		case math.IsNaN(av):
			return 1
		case math.IsNaN(bv):
			return -1
		}
		return cmp.Compare(bv, av)
	})
	if len(recs) > n {
		recs = recs[:n]
	}
	return recs
}

// GemThresholds returns the talent and fame cut-offs for hidden gems,
// computed over ds itself so they move with the active filter.
func GemThresholds(ds model.Dataset) (talentAbove, fameBelow float64) {
	return kpi.Quantile(ds.Column(model.ColumnTalentScore), gemTalentQuantile),
		kpi.Quantile(ds.Column(model.ColumnFameScore), gemFameQuantile)
}

// HiddenGems returns records with talent above the 75th percentile and fame
// below the median of ds, in source order.
func HiddenGems(ds model.Dataset) []model.Record {
	talent, fame := GemThresholds(ds)
	return ds.Where(func(r model.Record) bool {
		return r.TalentScore > talent && r.FameScore < fame
	}).Records()
}

func comparison(rows model.Dataset, selected []string, maxCompare int) *Comparison {
	if maxCompare <= 0 {
		maxCompare = DefaultMaxCompare
	}
	c := &Comparison{
		Options:  filter.CompareOptions(rows),
		Selected: slices.Clone(selected),
		Max:      maxCompare,
	}
	if len(selected) == 0 {
		return c
	}
	picked := rows.Where(func(r model.Record) bool {
		return slices.Contains(selected, r.Actor)
	}).Records()
	c.Table = tableOf("Compare Actors", fullColumns, picked)
	return c
}

func tableOf(title string, columns []string, recs []model.Record) *Table {
	t := &Table{Title: title, Columns: slices.Clone(columns), Rows: make([][]string, 0, len(recs))}
	for _, r := range recs {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = FormatCell(r, col)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// FormatScore renders a KPI value with two decimals; NaN stays visible as "NaN".
func FormatScore(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatCell renders one table cell.
func FormatCell(r model.Record, column string) string {
	if column == model.ColumnActor {
		return r.Actor
	}
	v := r.Value(column)
	switch {
	case math.IsNaN(v):
		return "NaN"
	case column == model.ColumnMovieCount:
		return strconv.FormatFloat(v, 'f', 0, 64)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}
