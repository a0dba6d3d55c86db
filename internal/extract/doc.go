// Package extract locates payload binaries inside downloaded archives.
//
// Each archive format has its own strategy, selected from the catalog
// entry's format tag:
//
//   - zip and tar.xz builds publish a stable internal layout, so their
//     strategies look members up by exact internal path.
//   - 7z builds do not, so that strategy unpacks the whole archive into a
//     scratch subdirectory and searches it recursively by filename.
//
// A strategy delivers every payload it finds to a Sink and only then
// reports the ones it could not find, so one missing binary never blocks
// its siblings from the same archive.
package extract
