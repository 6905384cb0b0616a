// Package episodeid groups subtitle and video files of one batch by episode.
//
// A batch is three filename lists: track A subtitles, track B subtitles, and
// videos. ExtractEpisodeNumber pulls an episode key out of a filename using an
// ordered list of patterns where explicit markers (E03, EP12, 第5集) outrank
// bare digit runs. MatchEpisodes builds one EpisodeMatch per key found in any
// list.
//
// Matcher layers the original workflow on top: derive a series name from the
// subtitle names, keep only videos that carry it, offer the batch to an
// optional upstream Resolver (typically an AI-assisted service owned by the
// caller), and fall back to MatchEpisodes when the upstream is absent, fails,
// or declines. Only Matcher logs; the functions are pure.
package episodeid
