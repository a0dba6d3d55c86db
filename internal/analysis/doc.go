// Package analysis wraps the whatsmybitrate sidecar, the external
// audio-analysis tool Keson bundles alongside ffmpeg and ffprobe.
//
// The sidecar is invoked as a subprocess with an operation mode (probe,
// analyze, or spectrum), an optional analysis window, and an optional
// output path for spectrogram images. It prints a single JSON object on
// stdout; analysis failures come back inside that object under "error".
// The algorithm itself is opaque to this package.
package analysis
