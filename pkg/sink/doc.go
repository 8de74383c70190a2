// Package sink exports derived sentences and interpreted polygons for
// downstream collaborators.
//
// Three formats are provided:
//
//   - JSON: polygon point lists plus bounds and run metadata, for renderers
//     that position, scale and color the geometry themselves. See
//     [RenderJSON] and [RenderJSON3].
//   - Text: the canonical L-system notation of a sentence, one line, which
//     [lsystem.ParseSentence] reads back. See [RenderText].
//   - Stats: symbol and geometry counts as JSON. See [RenderStats].
//
// None of the renderers modify their input and all are safe to call
// concurrently.
package sink
