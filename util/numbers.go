package util

// SplitChips divides total between numSplits shares. Chips that do not divide
// evenly go one at a time to the earliest shares.
func SplitChips(total uint32, numSplits int) []uint32 {
	if numSplits <= 0 {
		return nil
	}
	result := make([]uint32, numSplits)
	each := total / uint32(numSplits)
	remaining := total % uint32(numSplits)
	for i := range result {
		result[i] = each
		if remaining > 0 {
			result[i]++
			remaining--
		}
	}
	return result
}
