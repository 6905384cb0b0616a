// Package subtitles merges two single-language subtitle tracks into one
// bilingual cue sequence.
//
// The package owns the cue data model, the HH:MM:SS,mmm timestamp codec, and
// the alignment engine. Align supports two families of policy: a
// primary-driven mode where one track dictates cue boundaries and the other
// is matched onto it by nearest midpoint, and a union mode where both tracks
// are coalesced into shared time windows by overlap ratio.
//
// Everything here is a pure function of its inputs. Callers parse and
// serialize subtitle files themselves and hand this package decoded cues;
// nothing in the package touches the filesystem or logs.
package subtitles
