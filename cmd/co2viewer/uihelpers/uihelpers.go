package uihelpers

// ComputeChartDimensions applies the width/height clamp rules used for both charts.
// Input: desired raw width (e.g., canvas width). Returns clamped width & height.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 640 {
		w = 640
	}
	h := int(float32(w) * 0.33)
	if h < 260 {
		h = 260
	}
	if h > 480 {
		h = 480
	}
	return w, h
}

// ComputeTableColumnWidths returns the 6 column widths for the data table given a window width.
// Order: Year, CO2, AvgTemp, EnergyUse, GDP, Population. A zero width hides the column.
func ComputeTableColumnWidths(winW float32) [6]int {
	const compactBreakpoint = 900
	const ultraCompactBreakpoint = 520
	if winW < ultraCompactBreakpoint {
		return [6]int{120, 110, 0, 0, 0, 0}
	}
	if winW < compactBreakpoint {
		if winW < 700 {
			return [6]int{120, 110, 100, 0, 0, 100}
		}
		return [6]int{120, 110, 100, 100, 90, 100}
	}
	return [6]int{160, 140, 130, 130, 120, 130}
}

// ComputeComparisonWidth splits the available width between the trend and the
// comparison chart. Narrow windows stack them, so both get the full width.
func ComputeComparisonWidth(winW int) (trendW, cmpW int, stacked bool) {
	if winW < 1280 {
		return winW, winW, true
	}
	cmpW = winW * 2 / 5
	return winW - cmpW, cmpW, false
}
