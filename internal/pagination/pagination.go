// Package pagination computes the page bar shown under the results.
package pagination

type Action int

const (
	First Action = iota
	Prev
	Next
	Last
)

// Window is the visible slice of pages around Current plus the state of
// the first/prev/next/last controls.
type Window struct {
	Current int
	Total   int
	Pages   []int

	CanFirst bool
	CanPrev  bool
	CanNext  bool
	CanLast  bool
}

// Compute returns the window of pages within offset of current, clamped to
// [1, total]. A total below 1 yields an empty window.
func Compute(current, total, offset int) Window {
	w := Window{Current: current, Total: total}
	if total < 1 {
		return w
	}
	if offset < 0 {
		offset = 0
	}
	lo := max(current-offset, 1)
	hi := min(current+offset, total)
	for p := lo; p <= hi; p++ {
		w.Pages = append(w.Pages, p)
	}
	w.CanFirst = current > 1
	w.CanPrev = current > 1
	w.CanNext = current < total
	w.CanLast = current < total
	return w
}

// Target returns the page an action leads to, or false when the control is
// disabled.
func (w Window) Target(a Action) (int, bool) {
	switch a {
	case First:
		return 1, w.CanFirst
	case Prev:
		return w.Current - 1, w.CanPrev
	case Next:
		return w.Current + 1, w.CanNext
	case Last:
		return w.Total, w.CanLast
	}
	return 0, false
}
