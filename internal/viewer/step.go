package viewer

// stepSequence is the fixed ladder of nudge distances. + and - walk up
// and down it, saturating at the ends.
var stepSequence = []int{1, 5, 10, 20}

func stepUp(step int) int {
	for i, s := range stepSequence {
		if s == step && i+1 < len(stepSequence) {
			return stepSequence[i+1]
		}
	}
	return step
}

func stepDown(step int) int {
	for i, s := range stepSequence {
		if s == step && i > 0 {
			return stepSequence[i-1]
		}
	}
	return step
}
