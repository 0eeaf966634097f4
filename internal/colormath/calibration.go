package colormath

// CalibrationFrame returns the flat neutral-white color the renderer
// substitutes for every pixel while calibration_mode is on, bypassing
// patterns so an operator can tune ChannelCorrection against a known
// reference. Ground: original_source/ledcontrol/ledcontroller.py's
// show_calibration_color, which renders a flat corrected white instead
// of the active pattern.
func CalibrationFrame() RGB {
	return RGB{R: 1, G: 1, B: 1}
}
