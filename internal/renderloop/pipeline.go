package renderloop

import (
	"github.com/coreman2200/ledcore/internal/colormath"
	"github.com/coreman2200/ledcore/internal/configstore"
	"github.com/coreman2200/ledcore/internal/frame"
)

// applyGlobalPipeline runs the non-group-specific stages common to every
// pixel in f: global saturation, global brightness, channel correction,
// RGB→RGBW extraction, gamma, 8-bit quantization, and channel
// permutation for the wire. It returns the finished byte stream ready
// for a Sink. Ground: spec.md §4.9 step 4's fixed stage order.
func applyGlobalPipeline(f *frame.Frame, settings configstore.GlobalSettings, channelOrder string) []byte {
	channels := channelsPerPixel(channelOrder)
	out := make([]byte, 0, f.Len()*channels)

	calibrating := settings.CalibrationMode
	for i := range f.Pixels {
		px := f.Pixels[i]
		c := colormath.RGB{R: px.R, G: px.G, B: px.B}

		var rgbw colormath.RGBW
		if calibrating {
			cal := colormath.CalibrationFrame()
			rgbw = colormath.RGBW{R: cal.R, G: cal.G, B: cal.B, W: 1}
		} else {
			c = colormath.ApplySaturation(c, settings.GlobalSaturation)
			b := settings.GlobalBrightness
			gain := settings.ChannelCorrectionRGB
			c = colormath.RGB{R: c.R * b * gain.R, G: c.G * b * gain.G, B: c.B * b * gain.B}

			if settings.RGBWAlgorithm == "advanced" {
				rgbw = colormath.MixRGBWAdvanced(c, settings.GlobalSaturation, settings.GlobalColorTemp, settings.WhiteLEDTemperature)
			} else {
				rgbw = colormath.MixRGBWLegacy(c, settings.UseWhiteChannel)
			}
		}

		rgbw = colormath.Gamma(rgbw, colormath.DefaultGamma)
		r8, g8, b8, w8 := colormath.QuantizeRGBW8(rgbw)
		out = appendPermuted(out, channelOrder, r8, g8, b8, w8)
	}
	return out
}

// channelsPerPixel reports how many wire bytes one pixel occupies for a
// given channel-order string (e.g. "RGB" -> 3, "GRBW" -> 4).
func channelsPerPixel(channelOrder string) int {
	if len(channelOrder) == 0 {
		return 3
	}
	return len(channelOrder)
}

// appendPermuted appends one pixel's bytes to out in the wire order
// named by channelOrder, e.g. "GRB" emits g,r,b.
func appendPermuted(out []byte, channelOrder string, r, g, b, w uint8) []byte {
	if channelOrder == "" {
		channelOrder = "RGB"
	}
	for _, ch := range channelOrder {
		switch ch {
		case 'R', 'r':
			out = append(out, r)
		case 'G', 'g':
			out = append(out, g)
		case 'B', 'b':
			out = append(out, b)
		case 'W', 'w':
			out = append(out, w)
		}
	}
	return out
}
