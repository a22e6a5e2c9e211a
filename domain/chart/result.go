package chart

// Result is the statistics computed for one chart type. The set of
// implementations is closed: Aggregate, Pairs, Distribution and FiveNumber.
type Result interface {
	Kind() ResultKind
	isResult()
}

// ResultKind tags the Result variant.
type ResultKind string

const (
	KindAggregate    ResultKind = "aggregate"
	KindPairs        ResultKind = "pairs"
	KindDistribution ResultKind = "distribution"
	KindFiveNumber   ResultKind = "fiveNumber"
)

// ExpectedKind returns the variant a chart type must be drawn from.
func (t Type) ExpectedKind() ResultKind {
	switch t {
	case Bar, Line, Pie:
		return KindAggregate
	case Scatter:
		return KindPairs
	case Histogram:
		return KindDistribution
	case Box:
		return KindFiveNumber
	}
	panic("chart: unhandled type " + string(t))
}

// LabelValue is one aggregated category.
type LabelValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Aggregate holds per-category sums in first-seen order.
type Aggregate struct {
	Items []LabelValue `json:"items"`
}

// Total sums every category value.
func (a *Aggregate) Total() float64 {
	var total float64
	for _, it := range a.Items {
		total += it.Value
	}
	return total
}

// Point is one scatter pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pairs holds the numeric (x, y) rows of a scatter chart.
type Pairs struct {
	Points []Point `json:"points"`
}

// HistogramBins is the fixed bin count of every histogram.
const HistogramBins = 20

// Distribution is a histogram sample with its bins. Edges has BinCount+1
// entries; the last bin is closed on the right.
type Distribution struct {
	Sample   []float64 `json:"sample"`
	BinCount int       `json:"binCount"`
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	Edges    []float64 `json:"edges"`
	Counts   []int     `json:"counts"`
}

// FiveNumber is the box plot summary.
type FiveNumber struct {
	N            int       `json:"n"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	IQR          float64   `json:"iqr"`
	LowerWhisker float64   `json:"lowerWhisker"`
	UpperWhisker float64   `json:"upperWhisker"`
	Outliers     []float64 `json:"outliers"`
}

func (*Aggregate) Kind() ResultKind    { return KindAggregate }
func (*Pairs) Kind() ResultKind        { return KindPairs }
func (*Distribution) Kind() ResultKind { return KindDistribution }
func (*FiveNumber) Kind() ResultKind   { return KindFiveNumber }

func (*Aggregate) isResult()    {}
func (*Pairs) isResult()        {}
func (*Distribution) isResult() {}
func (*FiveNumber) isResult()   {}
