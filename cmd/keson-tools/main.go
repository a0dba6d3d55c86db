// keson-tools is the developer companion CLI for the Keson desktop app:
// it fetches the bundled ffmpeg/ffprobe sidecar binaries and runs the
// same audio quality analysis from the command line.
package main

func main() {
	Execute()
}
