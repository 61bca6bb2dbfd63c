// Package render draws a track together with its smallest enclosing circle.
//
// # Overview
//
// A plot shows the track positions as markers joined in frame order, and the
// enclosing circle as an unfilled stroke. The view is square with equal axis
// scales, centred on the circle centre. Its half-width is the configured
// margin (0.7 track units by default) or 1.05 times the radius, whichever is
// larger, so tracks that wander far stay inside the frame.
//
// # Formats
//
//   - SVG is written directly ([RenderSVG]).
//   - PNG and JPEG are rasterised with gg ([RenderPNG], [RenderJPEG]).
//   - PDF converts the SVG with the external rsvg-convert tool ([ToPDF]).
//
// [Render] dispatches on a format name, which is what the pipeline uses:
//
//	data, err := render.Render(render.FormatSVG, track, circle, render.Options{})
package render
