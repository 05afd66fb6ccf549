package helpers

// LineRequest is one submitted cart line. Name is the shopper-visible label
// used in rejection messages until the product is loaded.
type LineRequest struct {
	ProductID int64
	Name      string
	Quantity  int
}

// MergeLines folds repeated product ids into a single line, keeping the first
// occurrence's position and name.
func MergeLines(lines []LineRequest) []LineRequest {
	out := make([]LineRequest, 0, len(lines))
	index := make(map[int64]int, len(lines))
	for _, line := range lines {
		if i, ok := index[line.ProductID]; ok {
			out[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(out)
		out = append(out, line)
	}
	return out
}

// ProductIDs lists the distinct product ids in order.
func ProductIDs(lines []LineRequest) []int64 {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}
