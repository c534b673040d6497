package scene

// Evaluation counters of the binding expressions.
var widthEvaluations, sumEvaluations int

func widthFor(selected bool) float64 {
	widthEvaluations++
	if selected {
		return 120
	}
	return 60
}

func sumOf(a, b float64) float64 {
	sumEvaluations++
	return a + b
}
